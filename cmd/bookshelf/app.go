package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/catalog-api/internal/api/handler"
	"github.com/bookshelf/catalog-api/internal/core/ports"
	"github.com/bookshelf/catalog-api/internal/core/service"
	mongostore "github.com/bookshelf/catalog-api/internal/infrastructure/db/mongo"
	"github.com/bookshelf/catalog-api/internal/infrastructure/db/postgres"
	redisstore "github.com/bookshelf/catalog-api/internal/infrastructure/db/redis"
	"github.com/bookshelf/catalog-api/internal/pkg/config"
	"github.com/bookshelf/catalog-api/pkg/logger"
)

// app holds the wired services and the resources that must be released on
// exit.
type app struct {
	auth      *service.AuthService
	users     ports.UserService
	favorites ports.FavoriteService
	resolver  *service.IdentityResolver
	codec     *service.TokenCodec
	checks    []handler.DependencyCheck

	closers []func(context.Context) error
}

// storage is the repository pair for the configured driver.
type storage struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := a.openStorage(ctx, cfg, log)
	if err != nil {
		a.close(ctx, log)
		return nil, err
	}

	// Identity lookups go through the cache when Redis is enabled; writes
	// always hit the repository and invalidate the cached entry.
	var finder ports.UserFinder = store.users
	var cache ports.UserCache
	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close(ctx, log)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.checks = append(a.checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})

		userCache := redisstore.NewUserCache(client, store.users, cfg.Redis.CacheTTL, logger.Component("identity-cache"))
		finder = userCache
		cache = userCache
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("identity cache enabled")
	}

	key, err := cfg.JWT.SigningKey()
	if err != nil {
		a.close(ctx, log)
		return nil, err
	}
	codec, err := service.NewTokenCodec(key, cfg.JWT.TTL)
	if err != nil {
		a.close(ctx, log)
		return nil, err
	}
	hasher := service.NewPasswordHasher(cfg.Password.BcryptCost)

	a.codec = codec
	a.auth = service.NewAuthService(store.users, hasher, codec, logger.Component("auth"))
	a.users = service.NewUserService(store.users, store.favorites, cache, hasher, codec, logger.Component("users"))
	a.favorites = service.NewFavoriteService(store.users, store.favorites, logger.Component("favorites"))
	a.resolver = service.NewIdentityResolver(codec, finder)

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Str("jwt_alg", codec.Algorithm()).
		Int("bcrypt_cost", hasher.Cost()).
		Msg("services wired")
	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return storage{}, err
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return storage{}, err
		}
		a.checks = append(a.checks, handler.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongostore.Ping(ctx, db) },
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return storage{
			users:     mongostore.NewUserRepository(db),
			favorites: mongostore.NewFavoriteRepository(db),
		}, nil

	case config.DriverPostgres:
		if cfg.Postgres.AutoMigrate {
			if err := postgres.MigrateUp(cfg.Postgres.DSN); err != nil {
				return storage{}, err
			}
			log.Info().Msg("postgres migrations applied")
		}
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return storage{}, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		users := postgres.NewUserRepository(db)
		a.checks = append(a.checks, handler.DependencyCheck{Name: "postgres", Ping: users.Ping})
		log.Info().Int("max_open_conns", cfg.Postgres.MaxOpenConns).Msg("connected to postgres")
		return storage{
			users:     users,
			favorites: postgres.NewFavoriteRepository(db),
		}, nil
	}
	return storage{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("error releasing resource")
		}
	}
	a.closers = nil
}
