package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tbourn/go-mindcare-backend/internal/config"
	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// RedisStore keeps chats and moods as append-only Redis streams and
// idempotency keys as plain keys with a TTL.
//
// Key layout (prefix defaults to "mindcare:"):
//
//	<prefix>chats          stream of chat turns
//	<prefix>moods          stream of mood entries
//	<prefix>chat:<id>      stream entry id of chat turn <id>
//	<prefix>idem:<key>     chat turn id for an Idempotency-Key
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects a client for cfg. The connection is lazy; call
// Ping to verify it.
func NewRedisStore(cfg config.StoreConfig) (*RedisStore, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		}),
		prefix: cfg.RedisPrefix,
	}, nil
}

func (s *RedisStore) chatsKey() string              { return s.prefix + "chats" }
func (s *RedisStore) moodsKey() string              { return s.prefix + "moods" }
func (s *RedisStore) chatIndexKey(id string) string { return s.prefix + "chat:" + id }
func (s *RedisStore) idemKey(key string) string     { return s.prefix + "idem:" + key }

// InsertChatTurn appends turn to the chats stream.
func (s *RedisStore) InsertChatTurn(ctx context.Context, turn *domain.ChatTurn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	risk := "0"
	if turn.Risk {
		risk = "1"
	}
	entryID, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.chatsKey(),
		Values: map[string]any{
			"id":        turn.ID,
			"message":   turn.Message,
			"reply":     turn.Reply,
			"sentiment": turn.Sentiment,
			"risk":      risk,
			"timestamp": turn.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd chat: %w", err)
	}
	if err := s.client.Set(ctx, s.chatIndexKey(turn.ID), entryID, 0).Err(); err != nil {
		return fmt.Errorf("index chat: %w", err)
	}
	return nil
}

// GetChatTurn loads a chat turn by id, or ErrNotFound.
func (s *RedisStore) GetChatTurn(ctx context.Context, id string) (*domain.ChatTurn, error) {
	entryID, err := s.client.Get(ctx, s.chatIndexKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	msgs, err := s.client.XRange(ctx, s.chatsKey(), entryID, entryID).Result()
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	turn, err := decodeChatTurn(msgs[0].Values)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// InsertMood appends e to the moods stream.
func (s *RedisStore) InsertMood(ctx context.Context, e *domain.MoodEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.moodsKey(),
		Values: map[string]any{
			"id":        e.ID,
			"mood":      e.Mood,
			"timestamp": e.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd mood: %w", err)
	}
	return nil
}

// ListMoods returns every mood entry ordered by timestamp descending.
func (s *RedisStore) ListMoods(ctx context.Context) ([]domain.MoodEntry, error) {
	msgs, err := s.client.XRevRange(ctx, s.moodsKey(), "+", "-").Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.MoodEntry, 0, len(msgs))
	for _, m := range msgs {
		e, err := decodeMoodEntry(m.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	// Stream order is insertion order; timestamps are authoritative.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// MoodStats returns the stream length and the timestamp of the newest entry.
func (s *RedisStore) MoodStats(ctx context.Context) (int64, *time.Time, error) {
	n, err := s.client.XLen(ctx, s.moodsKey()).Result()
	if err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, nil
	}
	msgs, err := s.client.XRevRangeN(ctx, s.moodsKey(), "+", "-", 1).Result()
	if err != nil {
		return 0, nil, err
	}
	if len(msgs) == 0 {
		return 0, nil, nil
	}
	e, err := decodeMoodEntry(msgs[0].Values)
	if err != nil {
		return 0, nil, err
	}
	return n, &e.Timestamp, nil
}

// GetIdempotency returns the live record for key, or ErrNotFound.
func (s *RedisStore) GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	k := s.idemKey(key)
	turnID, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := &domain.Idempotency{Key: key, ChatTurnID: turnID, ExpiresAt: now}
	if ttl, err := s.client.PTTL(ctx, k).Result(); err == nil && ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec, nil
}

// SaveIdempotency stores key -> chatTurnID with ttl. A live key yields
// ErrDuplicate.
func (s *RedisStore) SaveIdempotency(ctx context.Context, key, chatTurnID string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.idemKey(key), chatTurnID, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

func decodeChatTurn(values map[string]any) (domain.ChatTurn, error) {
	ts, err := time.Parse(time.RFC3339Nano, stringValue(values, "timestamp"))
	if err != nil {
		return domain.ChatTurn{}, fmt.Errorf("decode chat timestamp: %w", err)
	}
	return domain.ChatTurn{
		ID:        stringValue(values, "id"),
		Message:   stringValue(values, "message"),
		Reply:     stringValue(values, "reply"),
		Sentiment: stringValue(values, "sentiment"),
		Risk:      stringValue(values, "risk") == "1",
		Timestamp: ts,
	}, nil
}

func decodeMoodEntry(values map[string]any) (domain.MoodEntry, error) {
	ts, err := time.Parse(time.RFC3339Nano, stringValue(values, "timestamp"))
	if err != nil {
		return domain.MoodEntry{}, fmt.Errorf("decode mood timestamp: %w", err)
	}
	return domain.MoodEntry{
		ID:        stringValue(values, "id"),
		Mood:      stringValue(values, "mood"),
		Timestamp: ts,
	}, nil
}

func stringValue(values map[string]any, key string) string {
	v, ok := values[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
