package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// ----- Fakes -----

type fakeRisk struct {
	calls int32
	hit   bool
}

func (f *fakeRisk) IsHighRisk(string) bool {
	atomic.AddInt32(&f.calls, 1)
	return f.hit
}

type fakeClassifier struct {
	calls int32
	label string
	text  string
	mu    sync.Mutex
}

func (f *fakeClassifier) Classify(_ context.Context, text string) string {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.text = text
	f.mu.Unlock()
	return f.label
}

type fakeCompleter struct {
	calls int32
	reply string
	err   error
	text  string
	mu    sync.Mutex
}

func (f *fakeCompleter) Complete(_ context.Context, msg string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.text = msg
	f.mu.Unlock()
	return f.reply, f.err
}

// memStore implements ChatStore, MoodStore and IdempotencyStore in memory.
type memStore struct {
	mu sync.Mutex

	chats []domain.ChatTurn
	moods []domain.MoodEntry
	idem  map[string]domain.Idempotency

	chatErr, moodErr, listErr, saveIdemErr error

	chatInserts, moodInserts, idemSaves int
}

func newMemStore() *memStore {
	return &memStore{idem: map[string]domain.Idempotency{}}
}

func (m *memStore) InsertChatTurn(_ context.Context, t *domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatInserts++
	if m.chatErr != nil {
		return m.chatErr
	}
	if t.ID == "" {
		t.ID = "chat-" + string(rune('a'+len(m.chats)))
	}
	m.chats = append(m.chats, *t)
	return nil
}

func (m *memStore) GetChatTurn(_ context.Context, id string) (*domain.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.chats {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memStore) InsertMood(_ context.Context, e *domain.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moodInserts++
	if m.moodErr != nil {
		return m.moodErr
	}
	if e.ID == "" {
		e.ID = "mood-" + string(rune('a'+len(m.moods)))
	}
	m.moods = append(m.moods, *e)
	return nil
}

func (m *memStore) ListMoods(context.Context) ([]domain.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.MoodEntry, 0, len(m.moods))
	for i := len(m.moods) - 1; i >= 0; i-- {
		out = append(out, m.moods[i])
	}
	return out, nil
}

func (m *memStore) MoodStats(context.Context) (int64, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.moods) == 0 {
		return 0, nil, nil
	}
	ts := m.moods[len(m.moods)-1].Timestamp
	return int64(len(m.moods)), &ts, nil
}

func (m *memStore) GetIdempotency(_ context.Context, key string, now time.Time) (*domain.Idempotency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.idem[key]
	if !ok || rec.Expired(now) {
		return nil, errors.New("not found")
	}
	return &rec, nil
}

func (m *memStore) SaveIdempotency(_ context.Context, key, chatTurnID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idemSaves++
	if m.saveIdemErr != nil {
		return m.saveIdemErr
	}
	m.idem[key] = domain.Idempotency{Key: key, ChatTurnID: chatTurnID, ExpiresAt: time.Now().Add(ttl)}
	return nil
}
