package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/infra"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	tokenPrefix   = "checkout:token:"
	sessionPrefix = "checkout:session:"

	lockPollInterval = 50 * time.Millisecond
	defaultLockWait  = 5 * time.Second
)

// RedisTokenStore keeps the customer's bearer token per checkout session.
type RedisTokenStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisTokenStore(client *redis.Client, logger *slog.Logger) *RedisTokenStore {
	return &RedisTokenStore{client: client, logger: logger}
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, tokenPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", infra.WrapRepoErr(s.logger, infra.KindNotFound, "session token not found", nil)
	}
	if err != nil {
		return "", infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to read session token", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenPrefix+key, token, ttl).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to save session token", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, tokenPrefix+key).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to clear session token", err)
	}
	return nil
}

// RedisCheckoutRepository stores checkout sessions as JSON documents that expire with the session TTL.
type RedisCheckoutRepository struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCheckoutRepository(client *redis.Client, logger *slog.Logger) *RedisCheckoutRepository {
	return &RedisCheckoutRepository{client: client, logger: logger}
}

func (r *RedisCheckoutRepository) Get(ctx context.Context, id string) (*checkout.Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "checkout session not found", nil)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to read checkout session", err)
	}

	var s checkout.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to decode checkout session", err)
	}
	return &s, nil
}

func (r *RedisCheckoutRepository) Save(ctx context.Context, s *checkout.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to encode checkout session", err)
	}
	if err := r.client.Set(ctx, sessionPrefix+s.ID, data, ttl).Err(); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to save checkout session", err)
	}
	return nil
}

func (r *RedisCheckoutRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionPrefix+id).Err(); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCacheFailure, "failed to delete checkout session", err)
	}
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

var errLockHeld = errors.New("lock held")

// RedisLocker is a single-instance Redis lock: SET NX with a TTL, released only by its owner.
type RedisLocker struct {
	client *redis.Client
	logger *slog.Logger
	wait   time.Duration
}

func NewRedisLocker(client *redis.Client, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, logger: logger, wait: defaultLockWait}
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	owner := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	acquire := func() error {
		ok, err := l.client.SetNX(waitCtx, key, owner, ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return err
			}
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}

	err := backoff.Retry(acquire, backoff.WithContext(backoff.NewConstantBackOff(lockPollInterval), waitCtx))
	if err != nil {
		if errors.Is(err, errLockHeld) || waitCtx.Err() != nil {
			return nil, infra.WrapRepoErr(l.logger, infra.KindLocked, "lock "+key+" is held", err)
		}
		return nil, infra.WrapRepoErr(l.logger, infra.KindCacheFailure, "failed to acquire lock", err)
	}

	release := func() {
		// the lock must be released even when the request context is already gone
		relCtx, relCancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer relCancel()
		if err := unlockScript.Run(relCtx, l.client, []string{key}, owner).Err(); err != nil {
			l.logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}
	return release, nil
}
