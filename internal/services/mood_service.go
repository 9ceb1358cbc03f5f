// Package services – MoodService
//
// MoodService is a thin wrapper over the mood store: list everything, or
// append one entry and return the refreshed list.
package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// MoodService reads and appends mood entries.
type MoodService struct {
	Store MoodStore
	Now   func() time.Time
}

func (s *MoodService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns all mood entries, most recent first.
func (s *MoodService) List(ctx context.Context) ([]domain.MoodEntry, error) {
	ctx, span := otel.Tracer("services/MoodService").Start(ctx, "List")
	defer span.End()

	items, err := s.Store.ListMoods(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MoodEntry{}
	}
	span.SetAttributes(attribute.Int("moods.count", len(items)))
	return items, nil
}

// Append stores mood as given and returns the full list. An empty label is
// rejected with ErrEmptyMood before any write.
func (s *MoodService) Append(ctx context.Context, mood string) ([]domain.MoodEntry, error) {
	ctx, span := otel.Tracer("services/MoodService").Start(ctx, "Append",
		trace.WithAttributes(attribute.Int("mood.len", len(mood))),
	)
	defer span.End()

	if mood == "" {
		return nil, ErrEmptyMood
	}
	if err := s.Store.InsertMood(ctx, &domain.MoodEntry{Mood: mood, Timestamp: s.now()}); err != nil {
		return nil, fmt.Errorf("insert mood: %w", err)
	}
	moodsAppended.WithLabelValues("manual").Inc()
	return s.List(ctx)
}

// Stats returns the entry count and newest timestamp for cache validation.
func (s *MoodService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Store.MoodStats(ctx)
}
