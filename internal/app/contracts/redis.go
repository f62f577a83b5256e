package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}
