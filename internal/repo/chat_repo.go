// This file provides repository functions for the ChatTurn model.
//
// Functions follow the "thin repository" approach: no business logic, only
// persistence and query composition. Missing rows surface as ErrNotFound;
// other database errors are returned as-is.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so both backends share one sentinel.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateChatTurn inserts turn into the chats table. An empty ID is replaced
// with a random UUID; the timestamp is stored as given.
func CreateChatTurn(ctx context.Context, db *gorm.DB, turn *domain.ChatTurn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(turn).Error
}

// GetChatTurn fetches a single chat turn by id, or ErrNotFound.
func GetChatTurn(ctx context.Context, db *gorm.DB, id string) (*domain.ChatTurn, error) {
	var t domain.ChatTurn
	err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
