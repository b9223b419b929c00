// Package database opens the configured backing store and exposes its repositories.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/duynhne/jobs-service/config"
	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/core/migrations"
	"github.com/duynhne/jobs-service/internal/core/repository"
	"github.com/duynhne/jobs-service/internal/logger"
)

const connectTimeout = 10 * time.Second

// Store bundles the repositories of one driver with its lifecycle hooks.
type Store struct {
	driver string
	users  domain.UserRepository
	jobs   domain.JobRepository
	ping   func(context.Context) error
	close  func(context.Context) error
}

// Connect opens the store selected by cfg.Driver. Postgres schemas are
// migrated and Mongo indexes created when cfg.AutoMigrate is set.
func Connect(ctx context.Context, cfg config.Database) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return connectPostgres(ctx, cfg)
	case config.DriverMongo:
		return connectMongo(ctx, cfg)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewMemoryStore returns a Store backed by process memory.
func NewMemoryStore() *Store {
	noop := func(context.Context) error { return nil }
	return &Store{
		driver: config.DriverMemory,
		users:  repository.NewMemoryUserRepository(),
		jobs:   repository.NewMemoryJobRepository(),
		ping:   noop,
		close:  noop,
	}
}

func connectPostgres(ctx context.Context, cfg config.Database) (*Store, error) {
	log := logger.FromContext(ctx)

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AutoMigrate {
		runner, err := migrations.New(cfg.URL, *log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := runner.Up(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	log.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Postgres connection pool established")

	return &Store{
		driver: config.DriverPostgres,
		users:  repository.NewUserRepository(pool),
		jobs:   repository.NewJobRepository(pool),
		ping:   pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func connectMongo(ctx context.Context, cfg config.Database) (*Store, error) {
	log := logger.FromContext(ctx)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if cfg.AutoMigrate {
		if err := repository.EnsureMongoIndexes(connectCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
	}

	log.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB connection established")

	return &Store{
		driver: config.DriverMongo,
		users:  repository.NewMongoUserRepository(db),
		jobs:   repository.NewMongoJobRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}

// Driver returns the name of the driver backing the store.
func (s *Store) Driver() string { return s.driver }

// Users returns the credential store.
func (s *Store) Users() domain.UserRepository { return s.users }

// Jobs returns the job store.
func (s *Store) Jobs() domain.JobRepository { return s.jobs }

// Ping checks that the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the store's connections.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }
