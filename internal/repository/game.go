package repo

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weiqi_client/internal/errors"
)

const positionKeyPrefix = "position:"

// PositionRepository keeps the SGF snapshot of every game in Redis.
type PositionRepository struct {
	log   *zap.SugaredLogger
	redis *redis.Client
	ttl   time.Duration
}

func NewPositionRepository(log *zap.SugaredLogger, redis *redis.Client, ttl time.Duration) *PositionRepository {
	return &PositionRepository{
		log:   log,
		redis: redis,
		ttl:   ttl,
	}
}

func (g *PositionRepository) SavePosition(ctx context.Context, key string, sgfText string) error {
	if err := g.redis.Set(ctx, positionKeyPrefix+key, sgfText, g.ttl).Err(); err != nil {
		g.log.Errorf("failed to save position %s: %v", key, err)
		return err
	}
	return nil
}

func (g *PositionRepository) LoadPosition(ctx context.Context, key string) (string, error) {
	sgfText, err := g.redis.Get(ctx, positionKeyPrefix+key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", errors.ErrGameNotFound, key)
	}
	if err != nil {
		g.log.Errorf("failed to load position %s: %v", key, err)
		return "", err
	}
	return sgfText, nil
}

// MemoryPositionRepository is used when no Redis is configured.
type MemoryPositionRepository struct {
	mu        sync.RWMutex
	positions map[string]string
}

func NewMemoryPositionRepository() *MemoryPositionRepository {
	return &MemoryPositionRepository{positions: make(map[string]string)}
}

func (m *MemoryPositionRepository) SavePosition(_ context.Context, key string, sgfText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[key] = sgfText
	return nil
}

func (m *MemoryPositionRepository) LoadPosition(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sgfText, ok := m.positions[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrGameNotFound, key)
	}
	return sgfText, nil
}
