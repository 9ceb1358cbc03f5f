// Package services – ChatService
//
// ChatService turns one inbound message into a persisted chat turn. The
// sentiment label and the assistant reply are fetched concurrently, the risk
// flag is computed locally, then the chat turn and the derived mood entry are
// written as two independent records. A failed mood write leaves the chat
// turn in place.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// neutralLabel mirrors sentiment.Neutral.
const neutralLabel = "neutral"

// RiskDetector flags high-risk text.
type RiskDetector interface {
	IsHighRisk(text string) bool
}

// Classifier returns an emotion label. It must not fail.
type Classifier interface {
	Classify(ctx context.Context, text string) string
}

// Completer produces an assistant reply.
type Completer interface {
	Complete(ctx context.Context, userMessage string) (string, error)
}

// ChatStore persists chat turns.
type ChatStore interface {
	InsertChatTurn(ctx context.Context, turn *domain.ChatTurn) error
	GetChatTurn(ctx context.Context, id string) (*domain.ChatTurn, error)
}

// MoodStore persists and reads mood entries.
type MoodStore interface {
	InsertMood(ctx context.Context, e *domain.MoodEntry) error
	ListMoods(ctx context.Context) ([]domain.MoodEntry, error)
	MoodStats(ctx context.Context) (int64, *time.Time, error)
}

// IdempotencyStore maps Idempotency-Keys to chat turn ids.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error)
	SaveIdempotency(ctx context.Context, key, chatTurnID string, ttl time.Duration) error
}

// ChatService orchestrates a single chat turn.
type ChatService struct {
	Risk       RiskDetector
	Sentiment  Classifier
	Completion Completer
	Chats      ChatStore
	Moods      MoodStore

	// Idem enables replay of retried requests; nil disables it.
	Idem    IdempotencyStore
	IdemTTL time.Duration

	// Now stamps records; defaults to time.Now in UTC.
	Now func() time.Time
}

// NewChatService wires a ChatService with a 24h idempotency window.
func NewChatService(r RiskDetector, s Classifier, c Completer, chats ChatStore, moods MoodStore, idem IdempotencyStore) *ChatService {
	return &ChatService{
		Risk:       r,
		Sentiment:  s,
		Completion: c,
		Chats:      chats,
		Moods:      moods,
		Idem:       idem,
		IdemTTL:    24 * time.Hour,
	}
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Respond validates message, gathers sentiment, risk and reply, and
// persists the chat turn followed by its mood entry. The returned turn is
// built from in-memory values.
//
// When idempotencyKey names a live record, the stored turn is returned
// without any external call or write.
func (s *ChatService) Respond(ctx context.Context, idempotencyKey, message string) (*domain.ChatTurn, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Respond",
		trace.WithAttributes(attribute.Bool("idempotency.present", idempotencyKey != "")),
	)
	defer span.End()

	if message == "" {
		return nil, ErrEmptyMessage
	}

	if turn := s.replay(ctx, idempotencyKey); turn != nil {
		span.SetAttributes(attribute.Bool("idempotency.replayed", true))
		return turn, nil
	}

	risk := s.Risk.IsHighRisk(message)

	var sentiment, reply string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sentiment = s.Sentiment.Classify(gctx, message)
		return nil
	})
	g.Go(func() error {
		var err error
		reply, err = s.Completion.Complete(gctx, message)
		return err
	})
	if err := g.Wait(); err != nil {
		chatFailures.WithLabelValues(stageCompletion).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("completion: %w", err)
	}
	if sentiment == "" {
		sentiment = neutralLabel
	}

	turn := &domain.ChatTurn{
		Message:   message,
		Reply:     reply,
		Sentiment: sentiment,
		Risk:      risk,
		Timestamp: s.now(),
	}
	if err := s.Chats.InsertChatTurn(ctx, turn); err != nil {
		chatFailures.WithLabelValues(stageChatStore).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("persist chat turn: %w", err)
	}
	chatTurns.WithLabelValues(strconv.FormatBool(risk)).Inc()

	mood := &domain.MoodEntry{Mood: sentiment, Timestamp: s.now()}
	if err := s.Moods.InsertMood(ctx, mood); err != nil {
		chatFailures.WithLabelValues(stageMoodStore).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("persist mood: %w", err)
	}
	moodsAppended.WithLabelValues("chat").Inc()

	s.remember(ctx, idempotencyKey, turn.ID)

	span.SetAttributes(
		attribute.String("chat.id", turn.ID),
		attribute.String("chat.sentiment", sentiment),
		attribute.Bool("chat.risk", risk),
	)
	return turn, nil
}

// replay returns the stored turn for key, or nil when there is none.
// Lookup failures are logged and treated as a miss.
func (s *ChatService) replay(ctx context.Context, key string) *domain.ChatTurn {
	if key == "" || s.Idem == nil {
		return nil
	}
	rec, err := s.Idem.GetIdempotency(ctx, key, s.now())
	if err != nil || rec == nil {
		return nil
	}
	turn, err := s.Chats.GetChatTurn(ctx, rec.ChatTurnID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("chat_id", rec.ChatTurnID).Msg("idempotent replay: chat turn unavailable")
		return nil
	}
	chatReplays.Inc()
	return turn
}

// remember records key -> turnID. Failures never fail the request.
func (s *ChatService) remember(ctx context.Context, key, turnID string) {
	if key == "" || s.Idem == nil {
		return
	}
	ttl := s.IdemTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.Idem.SaveIdempotency(ctx, key, turnID, ttl); err != nil {
		ev := log.Ctx(ctx).Warn()
		if errors.Is(err, context.Canceled) {
			ev = log.Ctx(ctx).Debug()
		}
		ev.Err(err).Str("chat_id", turnID).Msg("idempotency record not saved")
	}
}
