// Package snapshots materializes time-bucketed pool metric rows from live
// backend state.
package snapshots

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/dozer-finance/reward-service/internal/backend"
	"github.com/dozer-finance/reward-service/internal/domain/snapshot"
	"github.com/dozer-finance/reward-service/internal/logging"
	"github.com/dozer-finance/reward-service/internal/metrics"
	"github.com/dozer-finance/reward-service/internal/storage"
)

// jitterBound caps the additive noise applied to daily liquidity and volume
// figures. Carried over from the original jobs; kept behind a switch until
// its purpose is clarified with the product owner.
const jitterBound = 10.0

// Backend is the subset of backend procedures the jobs consume.
type Backend interface {
	AllPools(ctx context.Context) ([]backend.Pool, error)
	HTRPrice(ctx context.Context) (float64, error)
}

// Service builds and persists pool snapshots.
type Service struct {
	backend Backend
	store   storage.SnapshotStore
	log     *logging.Logger
	metrics *metrics.Metrics

	jitterEnabled bool
	rand          *rand.Rand
	now           func() time.Time
}

// New constructs the snapshot service. A nil metrics instance disables
// instrumentation.
func New(be Backend, store storage.SnapshotStore, log *logging.Logger, m *metrics.Metrics, jitter bool) *Service {
	if log == nil {
		log = logging.NewDefault("snapshots")
	}
	return &Service{
		backend:       be,
		store:         store,
		log:           log,
		metrics:       m,
		jitterEnabled: jitter,
		rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
	}
}

// WithClock overrides the clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) { s.now = now }

func (s *Service) jitter() float64 {
	if !s.jitterEnabled {
		return 0
	}
	return s.rand.Float64() * jitterBound
}

// RunDaily builds one daily row per pool and upserts them in a single batch.
// It returns the number of rows written.
func (s *Service) RunDaily(ctx context.Context) (n int, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSnapshotRun("daily", err)
		}
	}()

	pools, err := s.backend.AllPools(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pools: %w", err)
	}

	invokedAt := s.now().UTC()
	bucket := invokedAt.Truncate(24 * time.Hour)

	records := make([]snapshot.DaySnapshot, 0, len(pools))
	for _, p := range pools {
		records = append(records, snapshot.DaySnapshot{
			ID:           uuid.NewString(),
			PoolID:       p.ID,
			Date:         invokedAt,
			BucketStart:  bucket,
			LiquidityUSD: p.LiquidityUSD + s.jitter(),
			VolumeUSD:    p.VolumeUSD + s.jitter(),
			Reserve0:     p.Reserve0,
			Reserve1:     p.Reserve1,
			APR:          p.APR,
		})
	}

	if err := s.store.CreateDaySnapshots(ctx, records); err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordSnapshotRecords("daily", len(records))
	}
	s.log.WithContext(ctx).WithField("pools", len(records)).Info("daily snapshots written")
	return len(records), nil
}

// RunHourly builds one hourly row per pool, attaching a single HTR reference
// price fetched once per invocation, and upserts them in a single batch.
func (s *Service) RunHourly(ctx context.Context) (n int, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSnapshotRun("hourly", err)
		}
	}()

	pools, err := s.backend.AllPools(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pools: %w", err)
	}

	priceHTR, err := s.backend.HTRPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch HTR price: %w", err)
	}

	invokedAt := s.now().UTC()
	bucket := invokedAt.Truncate(time.Hour)

	records := make([]snapshot.HourSnapshot, 0, len(pools))
	for _, p := range pools {
		records = append(records, snapshot.HourSnapshot{
			ID:           uuid.NewString(),
			PoolID:       p.ID,
			Date:         invokedAt,
			BucketStart:  bucket,
			LiquidityUSD: p.LiquidityUSD,
			VolumeUSD:    p.VolumeUSD,
			Reserve0:     p.Reserve0,
			Reserve1:     p.Reserve1,
			APR:          p.APR,
			Volume0:      p.Volume0,
			Volume1:      p.Volume1,
			Fee0:         p.Fee0,
			Fee1:         p.Fee1,
			FeeUSD:       p.FeeUSD,
			PriceHTR:     priceHTR,
		})
	}

	if err := s.store.CreateHourSnapshots(ctx, records); err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordSnapshotRecords("hourly", len(records))
	}
	s.log.WithContext(ctx).WithField("pools", len(records)).Info("hourly snapshots written")
	return len(records), nil
}
