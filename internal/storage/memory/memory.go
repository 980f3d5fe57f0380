// Package memory provides a thread-safe in-memory implementation of the
// storage interfaces. It is intended for tests and prototyping.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dozer-finance/reward-service/internal/domain/pool"
	"github.com/dozer-finance/reward-service/internal/domain/snapshot"
	"github.com/dozer-finance/reward-service/internal/storage"
)

var _ storage.PoolStore = (*Store)(nil)
var _ storage.SnapshotStore = (*Store)(nil)

type dayKey struct {
	poolID string
	bucket int64
}

// Store keeps pools, tokens and snapshots in process memory.
type Store struct {
	mu            sync.RWMutex
	pools         []pool.Pool
	tokens        []pool.Token
	daySnapshots  map[dayKey]snapshot.DaySnapshot
	hourSnapshots map[dayKey]snapshot.HourSnapshot
}

// New creates an empty store.
func New() *Store {
	return &Store{
		daySnapshots:  make(map[dayKey]snapshot.DaySnapshot),
		hourSnapshots: make(map[dayKey]snapshot.HourSnapshot),
	}
}

// AddPool seeds a pool row.
func (s *Store) AddPool(p pool.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.pools = append(s.pools, p)
}

// AddToken seeds a token row.
func (s *Store) AddToken(t pool.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.tokens = append(s.tokens, t)
}

func (s *Store) FirstPoolByName(_ context.Context, name string) (pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pools {
		if p.Name == name {
			return p, nil
		}
	}
	return pool.Pool{}, storage.ErrNotFound
}

func (s *Store) FirstPoolByTokenUUID(_ context.Context, tokenUUID string) (pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pools {
		if p.Token1UUID == tokenUUID {
			return p, nil
		}
	}
	return pool.Pool{}, storage.ErrNotFound
}

func (s *Store) FirstTokenByUUID(_ context.Context, uuid string) (pool.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tokens {
		if t.UUID == uuid {
			return t, nil
		}
	}
	return pool.Token{}, storage.ErrNotFound
}

func (s *Store) CreateDaySnapshots(_ context.Context, records []snapshot.DaySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		s.daySnapshots[dayKey{rec.PoolID, rec.BucketStart.Unix()}] = rec
	}
	return nil
}

func (s *Store) CreateHourSnapshots(_ context.Context, records []snapshot.HourSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		s.hourSnapshots[dayKey{rec.PoolID, rec.BucketStart.Unix()}] = rec
	}
	return nil
}

// DaySnapshots returns the stored daily rows. Intended for tests.
func (s *Store) DaySnapshots() []snapshot.DaySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]snapshot.DaySnapshot, 0, len(s.daySnapshots))
	for _, rec := range s.daySnapshots {
		out = append(out, rec)
	}
	return out
}

// HourSnapshots returns the stored hourly rows. Intended for tests.
func (s *Store) HourSnapshots() []snapshot.HourSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]snapshot.HourSnapshot, 0, len(s.hourSnapshots))
	for _, rec := range s.hourSnapshots {
		out = append(out, rec)
	}
	return out
}
