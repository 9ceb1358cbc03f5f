// Package handlers exposes the REST endpoints of the support chat API:
//
//   - POST /chat   (one chat turn)
//   - GET  /mood   (mood log, ETag support)
//   - POST /mood   (append a mood)
//
// Handlers are transport-thin: they bind the request DTO, call a service,
// and translate the result into an HTTP response.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// ChatService runs the chat pipeline for one message.
type ChatService interface {
	Respond(ctx context.Context, idempotencyKey, message string) (*domain.ChatTurn, error)
}

// MoodService reads and appends mood entries.
type MoodService interface {
	List(ctx context.Context) ([]domain.MoodEntry, error)
	Append(ctx context.Context, mood string) ([]domain.MoodEntry, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	chatSvc ChatService
	moodSvc MoodService
}

// New constructs a Handlers bound to the given services.
func New(chatSvc ChatService, moodSvc MoodService) *Handlers {
	return &Handlers{chatSvc: chatSvc, moodSvc: moodSvc}
}
