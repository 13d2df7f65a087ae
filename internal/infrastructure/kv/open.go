package kv

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config selects and configures a substrate.
type Config struct {
	Backend    string
	BadgerPath string
	Redis      RedisConfig
	Mongo      MongoConfig
}

// Open returns the substrate named by cfg.Backend. An empty backend opens
// badger at its default path.
func Open(ctx context.Context, cfg Config) (Substrate, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendBadger:
		path := cfg.BadgerPath
		if path == "" {
			path = DefaultBadgerPath()
		}
		return OpenBadger(path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedis(client), nil
	case BackendMongo:
		_, db, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return NewMongo(db), nil
	case BackendNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", cfg.Backend)
	}
}
