package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// CreateMood inserts a mood entry. An empty ID is replaced with a UUID.
func CreateMood(ctx context.Context, db *gorm.DB, e *domain.MoodEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(e).Error
}

// ListMoods returns every mood entry, most recent first. It returns an
// empty (non-nil) slice when there are none.
func ListMoods(ctx context.Context, db *gorm.DB) ([]domain.MoodEntry, error) {
	out := []domain.MoodEntry{}
	err := db.WithContext(ctx).
		Order("timestamp desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
