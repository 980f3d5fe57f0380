// Package storage defines the persistence interfaces of the reward service.
package storage

import (
	"context"
	"errors"

	"github.com/dozer-finance/reward-service/internal/domain/pool"
	"github.com/dozer-finance/reward-service/internal/domain/snapshot"
)

// ErrNotFound is returned when a first-match lookup has no result.
var ErrNotFound = errors.New("storage: not found")

// PoolStore resolves pool and token rows for quest-target resolution.
type PoolStore interface {
	// FirstPoolByName returns the first pool whose name matches exactly.
	FirstPoolByName(ctx context.Context, name string) (pool.Pool, error)
	// FirstPoolByTokenUUID returns the first pool holding the token as its
	// secondary asset.
	FirstPoolByTokenUUID(ctx context.Context, tokenUUID string) (pool.Pool, error)
	// FirstTokenByUUID returns the first token with the given UUID.
	FirstTokenByUUID(ctx context.Context, uuid string) (pool.Token, error)
}

// SnapshotStore persists pool metric snapshots. Both batch operations are a
// single call per invocation; records sharing (pool, bucket) with an existing
// row replace it.
type SnapshotStore interface {
	CreateDaySnapshots(ctx context.Context, records []snapshot.DaySnapshot) error
	CreateHourSnapshots(ctx context.Context, records []snapshot.HourSnapshot) error
}
