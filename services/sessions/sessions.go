package sessions

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"travelmap/pkg/breaker"
	"travelmap/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// State holds the "current user" selection. There is one selection for the
// whole deployment, not one per browser: every client sees and changes the
// same value and the last write wins.
type State interface {
	CurrentUserID(ctx context.Context) int64
	SetCurrentUserID(ctx context.Context, id int64)
}

// MemoryState keeps the selection in process memory. It resets to the
// default on restart.
type MemoryState struct {
	id atomic.Int64
}

func NewMemoryState(defaultID int64) *MemoryState {
	s := &MemoryState{}
	s.id.Store(defaultID)
	return s
}

func (s *MemoryState) CurrentUserID(_ context.Context) int64 {
	return s.id.Load()
}

// SetCurrentUserID accepts any id, known to storage or not
func (s *MemoryState) SetCurrentUserID(_ context.Context, id int64) {
	s.id.Store(id)
}

// RedisState shares the selection between server instances through a
// single redis key. The last value seen locally is used whenever redis
// cannot be reached.
type RedisState struct {
	rdb   redis.Cmdable
	key   string
	local *MemoryState
	cb    *gobreaker.CircuitBreaker
}

func NewRedisState(rdb redis.Cmdable, key string, defaultID int64) *RedisState {
	return &RedisState{
		rdb:   rdb,
		key:   key,
		local: NewMemoryState(defaultID),
		cb: breaker.New(breaker.Config{
			Name:        "redis-sessions",
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			Threshold:   0.5,
			MinRequests: 5,
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, redis.Nil)
			},
		}),
	}
}

func (s *RedisState) CurrentUserID(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	id, err := breaker.ExecuteCtx(ctx, s.cb, func() (int64, error) {
		return s.rdb.Get(ctx, s.key).Int64()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithFields(map[string]any{
				"key":   s.key,
				"error": err.Error(),
			}).Warn("Failed to read current user from redis, using last known value")
		}
		return s.local.CurrentUserID(ctx)
	}

	s.local.SetCurrentUserID(ctx, id)
	return id
}

func (s *RedisState) SetCurrentUserID(ctx context.Context, id int64) {
	s.local.SetCurrentUserID(ctx, id)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := breaker.ExecuteCtx(ctx, s.cb, func() (string, error) {
		return s.rdb.Set(ctx, s.key, id, 0).Result()
	})
	if err != nil {
		logger.WithFields(map[string]any{
			"key":     s.key,
			"user_id": id,
			"error":   err.Error(),
		}).Error("Failed to store current user in redis")
	}
}
