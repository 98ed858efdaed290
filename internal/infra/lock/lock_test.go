package lock

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
)

func newRedisLocker(t *testing.T, ttl, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisLocker(rdb, ttl, wait, zerolog.New(io.Discard)), mr
}

func lockers(t *testing.T, wait time.Duration) map[string]domain.Locker {
	rl, _ := newRedisLocker(t, time.Second, wait)
	return map[string]domain.Locker{
		"redis": rl,
		"local": NewLocalLocker(wait),
	}
}

func TestLockIsExclusive(t *testing.T) {
	for name, l := range lockers(t, 2*time.Second) {
		t.Run(name, func(t *testing.T) {
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(context.Background(), "booking:1:2030-05-06")
					if !assert.NoError(t, err) {
						return
					}

					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					unlock()
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestLockTimesOut(t *testing.T) {
	for name, l := range lockers(t, 50*time.Millisecond) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "k")
			require.NoError(t, err)
			defer unlock()

			_, err = l.Lock(context.Background(), "k")
			assert.ErrorIs(t, err, ErrTimeout)

			other, err := l.Lock(context.Background(), "other")
			require.NoError(t, err, "different keys do not contend")
			other()
		})
	}
}

func TestLockHonoursCallerContext(t *testing.T) {
	for name, l := range lockers(t, time.Second) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "k")
			require.NoError(t, err)
			defer unlock()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err = l.Lock(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestRedisLockCancelledBeforeAcquire(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Lock(ctx, "free")
	assert.Equal(t, context.Canceled, err)
	assert.False(t, mr.Exists("lock:free"))
}

func TestRedisReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newRedisLocker(t, 100*time.Millisecond, time.Second)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// The first holder's lease expires and someone else takes the key.
	mr.FastForward(200 * time.Millisecond)
	require.NoError(t, mr.Set("lock:k", "someone-else"))

	unlock()

	got, err := mr.Get("lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestLocalLockerForgetsIdleKeys(t *testing.T) {
	l := NewLocalLocker(time.Second)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock()
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.slots)
}
