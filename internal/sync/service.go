package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roomboard/roomboard-core/internal/booking"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/remote"
)

// Staleness thresholds by the bucket's position relative to the current
// month. The current month changes constantly, future months occasionally,
// past months effectively never.
const (
	maxAgeCurrent = 1 * time.Hour
	maxAgeFuture  = 6 * time.Hour
	maxAgePast    = 24 * time.Hour
)

// Default full-window extent: 6 months behind through 12 ahead.
const (
	DefaultMonthsAhead  = 12
	DefaultMonthsBehind = 6
)

// Service orchestrates incremental synchronisation of the month-partitioned
// booking store. One instance per process; all dependencies are injected.
type Service struct {
	store      booking.Store
	fetcher    BookingFetcher
	businesses []string
	loc        *time.Location
	clock      func() time.Time
	logger     *logging.Logger
	notifier   Notifier
	metrics    Metrics

	mu           stdsync.Mutex
	inflight     *inflightPass
	lastFullSync *time.Time
}

// inflightPass lets concurrent full-sync callers await the running pass
// instead of starting a second one.
type inflightPass struct {
	done   chan struct{}
	result Result
}

// Options carries the optional dependencies of a Service.
type Options struct {
	// Clock overrides wall-clock time; nil means time.Now.
	Clock func() time.Time
	// Notifier receives lifecycle events; nil means none.
	Notifier Notifier
	// Metrics receives telemetry; nil means none.
	Metrics Metrics
}

// New creates a sync service over the given store and fetcher.
func New(store booking.Store, fetcher BookingFetcher, businesses []string, loc *time.Location, logger *logging.Logger, opts Options) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		store:      store,
		fetcher:    fetcher,
		businesses: businesses,
		loc:        loc,
		clock:      opts.Clock,
		logger:     logger.With("component", "sync"),
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	return s
}

// maxAge returns the staleness threshold for a bucket relative to now.
func (s *Service) maxAge(bucketKey string, now time.Time) time.Duration {
	currentKey := booking.BucketKeyFor(now, s.loc)
	switch {
	case bucketKey == currentKey:
		return maxAgeCurrent
	case bucketKey > currentKey:
		return maxAgeFuture
	default:
		return maxAgePast
	}
}

// MonthNeedsSync reports whether a bucket is missing or stale. A store
// read failure counts as "needs sync" so transient errors self-heal on the
// next pass.
func (s *Service) MonthNeedsSync(ctx context.Context, bucketKey string) bool {
	meta, err := s.store.MonthMeta(ctx, bucketKey)
	if err != nil {
		if !errors.Is(err, booking.ErrMonthNotSynced) {
			s.logger.Warn("reading bucket metadata failed", "bucket", bucketKey, "error", err)
		}
		return true
	}
	now := s.clock()
	return now.Sub(meta.LastSyncedAt) > s.maxAge(bucketKey, now)
}

// ListStaleMonths enumerates the window from monthsBehind before the
// current month through monthsAhead after, in chronological order, filtered
// to buckets needing sync.
func (s *Service) ListStaleMonths(ctx context.Context, monthsAhead, monthsBehind int) []string {
	currentKey := booking.BucketKeyFor(s.clock(), s.loc)

	var stale []string
	for offset := -monthsBehind; offset <= monthsAhead; offset++ {
		key, err := booking.AddMonths(currentKey, offset, s.loc)
		if err != nil {
			continue // current key is always valid
		}
		if s.MonthNeedsSync(ctx, key) {
			stale = append(stale, key)
		}
	}
	return stale
}

// SyncMonth fetches every booking source for one bucket's calendar range,
// re-filters the results to records whose own start truly falls in the
// bucket, and atomically replaces the bucket's contents. Individual source
// failures are tolerated; records they returned before failing are kept.
// Only when every source fails is the bucket left untouched.
func (s *Service) SyncMonth(ctx context.Context, bucketKey string) (int, error) {
	if len(s.businesses) == 0 {
		return 0, ErrNoBusinesses
	}
	start, end, err := booking.MonthRange(bucketKey, s.loc)
	if err != nil {
		return 0, err
	}
	// The range is computed in the service zone, but each record carries its
	// own declared zone. A day of padding either side covers zone offsets at
	// the month boundary; the bucket re-filter below drops the excess.
	fetchStart, fetchEnd := start.Add(-24*time.Hour), end.Add(24*time.Hour)

	began := s.clock()
	perSource := make([][]booking.Record, len(s.businesses))
	failures := make([]error, len(s.businesses))

	// Sources within one bucket fetch in parallel; buckets themselves are
	// synced sequentially to stay polite to the remote API.
	g, gctx := errgroup.WithContext(ctx)
	for i := range s.businesses {
		i := i
		g.Go(func() error {
			records, err := s.fetcher.FetchBookingRecords(gctx, s.businesses[i], fetchStart, fetchEnd)
			perSource[i] = records
			if err != nil {
				failures[i] = err
				s.metrics.FetchFailure("bookings", s.businesses[i])
				s.logger.Warn("booking fetch failed",
					"business_id", s.businesses[i], "bucket", bucketKey, "error", err)
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers record failures instead of returning them

	failed := 0
	var firstErr error
	for _, err := range failures {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed == len(s.businesses) {
		s.metrics.BucketSync(bucketKey, 0, s.clock().Sub(began), false)
		return 0, fmt.Errorf("%w: bucket %s: %w", ErrAllSourcesFailed, bucketKey, firstErr)
	}

	// The remote range query is advisory. A record belongs to the bucket
	// matching its start month in its declared zone, nothing else is stored.
	var records []booking.Record
	for _, source := range perSource {
		for _, rec := range source {
			if booking.BucketKeyFor(rec.Start.Time, rec.Start.Location()) == bucketKey {
				records = append(records, rec)
			}
		}
	}

	if err := s.store.ReplaceMonth(ctx, bucketKey, records, s.clock()); err != nil {
		s.metrics.BucketSync(bucketKey, 0, s.clock().Sub(began), false)
		return 0, fmt.Errorf("replacing bucket %s: %w", bucketKey, err)
	}

	s.metrics.BucketSync(bucketKey, len(records), s.clock().Sub(began), true)
	s.notifier.BucketReplaced(bucketKey, len(records))
	s.logger.Info("bucket synced",
		"bucket", bucketKey, "records", len(records), "sources_failed", failed)
	return len(records), nil
}

// SyncAllNeeded runs a full incremental pass: stale buckets in the window
// are synced sequentially, with onProgress invoked before each. At most one
// full pass runs per process; a concurrent caller awaits the in-flight
// pass's result instead of starting another.
func (s *Service) SyncAllNeeded(ctx context.Context, monthsAhead, monthsBehind int, onProgress func(Progress)) Result {
	return s.singleFlight(ctx, func(ctx context.Context) Result {
		stale := s.ListStaleMonths(ctx, monthsAhead, monthsBehind)
		return s.runPass(ctx, stale, onProgress)
	})
}

// ForceFullSync discards every bucket, then syncs the whole window
// unconditionally. Shares the single-flight guard with SyncAllNeeded.
func (s *Service) ForceFullSync(ctx context.Context, onProgress func(Progress)) Result {
	return s.singleFlight(ctx, func(ctx context.Context) Result {
		if err := s.store.ClearAll(ctx); err != nil {
			return Result{
				RunID:   uuid.NewString(),
				Success: false,
				Error:   fmt.Sprintf("clearing store: %v", err),
			}
		}
		currentKey := booking.BucketKeyFor(s.clock(), s.loc)
		var keys []string
		for offset := -DefaultMonthsBehind; offset <= DefaultMonthsAhead; offset++ {
			key, err := booking.AddMonths(currentKey, offset, s.loc)
			if err != nil {
				continue
			}
			keys = append(keys, key)
		}
		return s.runPass(ctx, keys, onProgress)
	})
}

// singleFlight runs fn unless a pass is already in flight, in which case
// the caller blocks until that pass finishes and receives its result.
func (s *Service) singleFlight(ctx context.Context, fn func(context.Context) Result) Result {
	s.mu.Lock()
	if inflight := s.inflight; inflight != nil {
		s.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.result
		case <-ctx.Done():
			return Result{Success: false, Error: ctx.Err().Error()}
		}
	}
	pass := &inflightPass{done: make(chan struct{})}
	s.inflight = pass
	s.mu.Unlock()

	result := fn(ctx)

	s.mu.Lock()
	pass.result = result
	s.inflight = nil
	if result.Success {
		now := s.clock()
		s.lastFullSync = &now
	}
	s.mu.Unlock()
	close(pass.done)
	return result
}

// runPass syncs the given buckets in sequence. Per-bucket failures are
// logged and counted; credential failures abort the pass, leaving
// already-stored data untouched.
func (s *Service) runPass(ctx context.Context, bucketKeys []string, onProgress func(Progress)) Result {
	runID := uuid.NewString()
	began := s.clock()
	s.notifier.SyncStarted(runID, len(bucketKeys))
	s.logger.Info("sync pass started", "run_id", runID, "months", len(bucketKeys))

	synced := 0
	for i, key := range bucketKeys {
		p := Progress{Current: i + 1, Total: len(bucketKeys), BucketKey: key}
		if onProgress != nil {
			onProgress(p)
		}
		s.notifier.SyncProgress(runID, p)

		if _, err := s.SyncMonth(ctx, key); err != nil {
			if abortsPass(err) {
				result := s.failResult(ctx, runID, synced,
					fmt.Sprintf("sync aborted at bucket %s: %v", key, err))
				s.notifier.SyncCompleted(runID, result)
				return result
			}
			s.logger.Warn("bucket sync failed", "run_id", runID, "bucket", key, "error", err)
			continue
		}
		synced++
	}

	total, err := s.store.TotalCount(ctx)
	if err != nil {
		s.logger.Warn("counting bookings failed", "run_id", runID, "error", err)
	}
	result := Result{RunID: runID, Success: true, MonthsSynced: synced, TotalBookings: total}
	s.metrics.SyncPass(synced, total, s.clock().Sub(began))
	s.notifier.SyncCompleted(runID, result)
	s.logger.Info("sync pass completed",
		"run_id", runID, "months_synced", synced, "total_bookings", total)
	return result
}

// abortsPass reports whether a bucket failure is fatal to the whole pass:
// missing or rejected credentials, or no sources configured. Transient
// outages, rate limits included, cost only the affected bucket; it stays
// stale and is retried on the next pass.
func abortsPass(err error) bool {
	return errors.Is(err, remote.ErrNoCredentials) ||
		errors.Is(err, remote.ErrUnauthorized) ||
		errors.Is(err, ErrNoBusinesses)
}

// failResult builds the failure result for an aborted pass.
func (s *Service) failResult(ctx context.Context, runID string, synced int, msg string) Result {
	total, _ := s.store.TotalCount(ctx) //nolint:errcheck // best effort on the failure path
	s.logger.Error("sync pass failed", "run_id", runID, "error", msg)
	return Result{RunID: runID, Success: false, MonthsSynced: synced, TotalBookings: total, Error: msg}
}

// Status returns the bookkeeping snapshot for the status endpoint.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	total, err := s.store.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	months, err := s.store.ListMonthMeta(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	last := s.lastFullSync
	s.mu.Unlock()

	return &Status{TotalBookings: total, LastFullSync: last, Months: months}, nil
}

// ReplaceBucket validates and stores a bucket pushed by an external client
// that performed the remote fetch itself.
func (s *Service) ReplaceBucket(ctx context.Context, bucketKey string, records []booking.Record) error {
	if err := s.store.ReplaceMonth(ctx, bucketKey, records, s.clock()); err != nil {
		return err
	}
	s.notifier.BucketReplaced(bucketKey, len(records))
	return nil
}
