package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mindcare-backend/internal/config"
	"github.com/tbourn/go-mindcare-backend/internal/domain"
)

// Store is the full persistence surface used by the application. Both
// GormStore and RedisStore implement it; services depend on narrower
// interfaces.
type Store interface {
	InsertChatTurn(ctx context.Context, turn *domain.ChatTurn) error
	GetChatTurn(ctx context.Context, id string) (*domain.ChatTurn, error)
	InsertMood(ctx context.Context, e *domain.MoodEntry) error
	ListMoods(ctx context.Context) ([]domain.MoodEntry, error)
	MoodStats(ctx context.Context) (int64, *time.Time, error)
	GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error)
	SaveIdempotency(ctx context.Context, key, chatTurnID string, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// OpenStore builds the Store selected by cfg.Driver. SQL backends are
// migrated before returning.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	if cfg.Driver == config.StoreRedis {
		s, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	}
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return NewGormStore(db), nil
}

// GormStore adapts the repository free functions to the Store interface.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore wraps db.
func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

// InsertChatTurn proxies CreateChatTurn.
func (s *GormStore) InsertChatTurn(ctx context.Context, turn *domain.ChatTurn) error {
	return CreateChatTurn(ctx, s.DB, turn)
}

// GetChatTurn proxies GetChatTurn.
func (s *GormStore) GetChatTurn(ctx context.Context, id string) (*domain.ChatTurn, error) {
	return GetChatTurn(ctx, s.DB, id)
}

// InsertMood proxies CreateMood.
func (s *GormStore) InsertMood(ctx context.Context, e *domain.MoodEntry) error {
	return CreateMood(ctx, s.DB, e)
}

// ListMoods proxies ListMoods.
func (s *GormStore) ListMoods(ctx context.Context) ([]domain.MoodEntry, error) {
	return ListMoods(ctx, s.DB)
}

// MoodStats proxies MoodsStats.
func (s *GormStore) MoodStats(ctx context.Context) (int64, *time.Time, error) {
	return MoodsStats(ctx, s.DB)
}

// GetIdempotency proxies GetIdempotency.
func (s *GormStore) GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, key, now)
}

// SaveIdempotency proxies CreateIdempotency.
func (s *GormStore) SaveIdempotency(ctx context.Context, key, chatTurnID string, ttl time.Duration) error {
	_, err := CreateIdempotency(ctx, s.DB, key, chatTurnID, ttl)
	return err
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
