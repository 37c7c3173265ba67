package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Driver    string // memory | redis | mysql
	RedisAddr string
	DSN       string
	TTL       time.Duration
}

type FactoryResult struct {
	Driver  string
	Storage Storage
	Close   func() error
}

func noopClose() error { return nil }

func FromConfig(ctx context.Context, cfg Config) (FactoryResult, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "memory"
	}

	switch driver {
	case "memory":
		return FactoryResult{Driver: driver, Storage: NewMemory(cfg.TTL), Close: noopClose}, nil

	case "redis":
		if cfg.RedisAddr == "" {
			return FactoryResult{}, fmt.Errorf("redis view store needs REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return FactoryResult{}, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return FactoryResult{Driver: driver, Storage: NewRedis(client, cfg.TTL), Close: client.Close}, nil

	case "mysql":
		if cfg.DSN == "" {
			return FactoryResult{}, fmt.Errorf("mysql view store needs DB_DSN")
		}
		db, err := OpenMySQL(cfg.DSN)
		if err != nil {
			return FactoryResult{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return FactoryResult{}, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return FactoryResult{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return FactoryResult{Driver: driver, Storage: NewMySQL(db, cfg.TTL), Close: sqlDB.Close}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown VIEW_STORE: %s", driver)
	}
}
