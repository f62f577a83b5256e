package contracts

import (
	"context"
	"time"
)

type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	// Refresh extends the TTL of a lock this client still owns.
	Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error
	Unlock(ctx context.Context, key, lockValue string) error
}
