package storage

import (
	"context"
	"fmt"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Options struct {
	Backend        string
	DSN            string // sqlite path or postgres connection string
	MigrationsPath string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	MongoURI       string
	MongoDatabase  string
}

// Open connects the backend named in opts. The caller owns the returned
// Store and must Close it.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil

	case BackendRedis:
		client, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.RedisPrefix), nil

	case BackendSQLite, BackendPostgres:
		store, err := NewSQLStore(opts.Backend, opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(opts.MigrationsPath); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case BackendMongo:
		db, err := ConnectMongoDB(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
