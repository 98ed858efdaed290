package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
)

// ErrTimeout is returned when a lock could not be acquired in time.
var ErrTimeout = domain.ErrLockTimeout

const retryInterval = 25 * time.Millisecond

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was re-acquired by someone else stays untouched.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX PX lock shared by every API instance.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	prefix string
	logger zerolog.Logger
}

var _ domain.Locker = (*RedisLocker)(nil)

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, logger zerolog.Logger) *RedisLocker {
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		wait:   wait,
		prefix: "lock:",
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = l.prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.rdb.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("acquire %s: %w", key, err)
			}
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrTimeout
		case <-time.After(retryInterval):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("release lock")
	}
}
