package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/api/metrics"
	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

var errStaleVersion = errors.New("identity cache: version changed during read")

// UserCache is a read-through cache in front of a user finder. It keeps only
// the fields identity resolution needs.
// Key format: identity:<username>, guarded by identity-version:<username>.
type UserCache struct {
	client *redis.Client
	next   ports.UserFinder
	ttl    time.Duration
	log    zerolog.Logger
}

type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewUserCache wraps next with a Redis cache. A non-positive ttl uses the
// default of five minutes.
func NewUserCache(client *redis.Client, next ports.UserFinder, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{client: client, next: next, ttl: ttl, log: log}
}

// FindByUsername serves from Redis when possible. Redis failures fall back
// to the wrapped finder.
func (c *UserCache) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
			return &domain.User{ID: cu.ID, Username: cu.Username, Role: domain.Role(cu.Role)}, nil
		}
		c.log.Warn().Str("username", username).Msg("discarding corrupt identity cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("username", username).Msg("identity cache read failed")
	}
	metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()

	// The version must be read before the repository so an Invalidate that
	// races with this miss is detected in store.
	version, verErr := c.version(ctx, username)

	user, err := c.next.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		c.log.Warn().Err(verErr).Str("username", username).Msg("identity cache version read failed")
		return user, nil
	}

	if err := c.store(ctx, username, user, version); err != nil {
		if errors.Is(err, errStaleVersion) || errors.Is(err, redis.TxFailedErr) {
			metrics.IdentityCacheTotal.WithLabelValues("stale").Inc()
		} else {
			c.log.Warn().Err(err).Str("username", username).Msg("identity cache write failed")
		}
	}
	return user, nil
}

// store caches user under username only while the key version still equals
// version. The version key is watched, so an Invalidate between the check and
// the write aborts the transaction.
func (c *UserCache) store(ctx context.Context, username string, user *domain.User, version int64) error {
	payload, err := json.Marshal(cachedUser{ID: user.ID, Username: user.Username, Role: string(user.Role)})
	if err != nil {
		return err
	}

	verKey := c.versionKey(username)
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, verKey)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(username), payload, c.ttl)
			return nil
		})
		return err
	}, verKey)
}

// Invalidate removes the cached entry for username and bumps its version so
// in-flight misses that read the old record do not write it back.
func (c *UserCache) Invalidate(ctx context.Context, username string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(username))
		pipe.Del(ctx, c.key(username))
		return nil
	})
	if err != nil {
		return fmt.Errorf("identity cache invalidate: %w", err)
	}
	return nil
}

func (c *UserCache) version(ctx context.Context, username string) (int64, error) {
	return readVersion(ctx, c.client, c.versionKey(username))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r getter, key string) (int64, error) {
	v, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *UserCache) key(username string) string {
	return "identity:" + username
}

// versionKey has no TTL: it must outlive every cached entry for the user.
func (c *UserCache) versionKey(username string) string {
	return "identity-version:" + username
}
