package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryState_DefaultAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryState(1)

	assert.Equal(t, int64(1), s.CurrentUserID(ctx))

	s.SetCurrentUserID(ctx, 42)
	assert.Equal(t, int64(42), s.CurrentUserID(ctx))
}

func TestMemoryState_AcceptsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryState(1)

	s.SetCurrentUserID(ctx, -7)
	assert.Equal(t, int64(-7), s.CurrentUserID(ctx))
}

func TestMemoryState_ConcurrentWritesLastWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryState(1)

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.SetCurrentUserID(ctx, id)
		}(i)
	}
	wg.Wait()

	got := s.CurrentUserID(ctx)
	assert.GreaterOrEqual(t, got, int64(1))
	assert.LessOrEqual(t, got, int64(50))
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisState_FallsBackToDefaultWhenUnreachable(t *testing.T) {
	rdb := unreachableRedis()
	defer rdb.Close()

	s := NewRedisState(rdb, "travelmap:test:current_user", 3)

	assert.Equal(t, int64(3), s.CurrentUserID(context.Background()))
}

func TestRedisState_KeepsLocalValueWhenUnreachable(t *testing.T) {
	rdb := unreachableRedis()
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisState(rdb, "travelmap:test:current_user", 1)

	s.SetCurrentUserID(ctx, 9)
	assert.Equal(t, int64(9), s.CurrentUserID(ctx))
}
