package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "view:"
	maxUpdateAttempts = 10
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *Redis) Create(ctx context.Context, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal view failed: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(id), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string, dst any) error {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrGone
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal view failed: %w", err)
	}
	return nil
}

// Update watches the key and writes with SET XX inside MULTI, so a
// concurrent write or delete makes EXEC fail and the update starts over
// from a fresh read. A key disposed meanwhile is never resurrected.
func (r *Redis) Update(ctx context.Context, id string, fn Mutator) error {
	key := redisKey(id)
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrGone
		}
		if err != nil {
			return fmt.Errorf("redis get failed: %w", err)
		}

		v, err := fn(func(dst any) error {
			if err := json.Unmarshal(data, dst); err != nil {
				return fmt.Errorf("unmarshal view failed: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal view failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, b, r.ttl)
			return nil
		})
		if errors.Is(err, redis.Nil) {
			return ErrGone
		}
		return err
	}

	for range maxUpdateAttempts {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrGone) {
			return fmt.Errorf("redis update failed: %w", err)
		}
		return err
	}
	return fmt.Errorf("redis update of %s kept conflicting: %w", id, redis.TxFailedErr)
}

func (r *Redis) Dispose(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKey(id)).Err()
}
