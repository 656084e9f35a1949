package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"truck-status-service/internal/adapters/cache"
	"truck-status-service/internal/adapters/trucks"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/ports"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func newTestFeed() (*TruckFeed, *trucks.MockTruckSource, *cache.TruckCache, *stepClock) {
	clock := &stepClock{now: time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)}
	source := trucks.NewMockTruckSource(scheduleFixtures())
	truckCache := cache.NewTruckCache(cache.NewMemoryStore(), clock)
	return NewTruckFeed(source, truckCache, clock), source, truckCache, clock
}

func TestTruckFeedFetchesOnMissThenServesCache(t *testing.T) {
	ctx := context.Background()
	feed, source, _, clock := newTestFeed()
	q := TruckQuery{Date: "2024-06-01", LookaheadMinutes: 15, Timezone: "America/New_York"}

	first, err := feed.Trucks(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.FromCache {
		t.Fatalf("first listing should come from the source")
	}
	if len(first.Trucks) != 5 {
		t.Fatalf("len(trucks) = %d, want 5", len(first.Trucks))
	}
	// 16:00 UTC is 12:00 in New York.
	if first.Trucks[0].Status != domain.StatusOpen {
		t.Fatalf("status = %q, want %q", first.Trucks[0].Status, domain.StatusOpen)
	}

	clock.now = clock.now.Add(30 * time.Minute)
	second, err := feed.Trucks(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.FromCache {
		t.Fatalf("second listing should come from the cache")
	}
	if source.Calls("2024-06-01") != 1 {
		t.Fatalf("source calls = %d, want 1", source.Calls("2024-06-01"))
	}
	if len(second.Cuisines) != 3 {
		t.Fatalf("cuisines = %v, want 3 entries", second.Cuisines)
	}

	clock.now = clock.now.Add(31 * time.Minute)
	third, err := feed.Trucks(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.FromCache {
		t.Fatalf("listing after the TTL should be re-fetched")
	}
	if source.Calls("2024-06-01") != 2 {
		t.Fatalf("source calls = %d, want 2", source.Calls("2024-06-01"))
	}
}

func TestTruckFeedRejectsInvalidDate(t *testing.T) {
	feed, source, _, _ := newTestFeed()

	_, err := feed.Trucks(context.Background(), TruckQuery{Date: "06/01/2024"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	if source.Calls("06/01/2024") != 0 {
		t.Fatalf("source should not be called for an invalid date")
	}
}

func TestTruckFeedSourceErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	feed, source, truckCache, _ := newTestFeed()
	source.Err = errors.New("upstream down")

	if _, err := feed.Trucks(ctx, TruckQuery{Date: "2024-06-01"}); err == nil {
		t.Fatalf("expected error from source")
	}
	if _, ok := truckCache.Get(ctx, "2024-06-01"); ok {
		t.Fatalf("failed fetch must not populate the cache")
	}
}

func TestSweepOnStart(t *testing.T) {
	ctx := context.Background()
	feed, _, truckCache, clock := newTestFeed()

	if _, err := feed.Trucks(ctx, TruckQuery{Date: "2024-06-01"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.now = clock.now.Add(2 * time.Hour)
	SweepOnStart(ctx, truckCache)

	removed, err := truckCache.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("second sweep removed = %d, want 0", removed)
	}
}

// gatedSource blocks every fetch until release is closed, honouring the fetch context.
type gatedSource struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedSource) ListSchedules(ctx context.Context, date string) ([]domain.ScheduleEntry, error) {
	s.calls.Add(1)
	s.once.Do(func() { close(s.started) })

	select {
	case <-s.release:
		return scheduleFixtures(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// missSignalCache reports every cache miss on misses.
type missSignalCache struct {
	ports.TruckCache
	misses chan struct{}
}

func (c *missSignalCache) Get(ctx context.Context, date string) ([]domain.ProcessedTruck, bool) {
	trucks, ok := c.TruckCache.Get(ctx, date)
	if !ok {
		c.misses <- struct{}{}
	}
	return trucks, ok
}

func newGatedFeed() (*TruckFeed, *gatedSource, *missSignalCache) {
	clock := &stepClock{now: time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)}
	source := newGatedSource()
	c := &missSignalCache{
		TruckCache: cache.NewTruckCache(cache.NewMemoryStore(), clock),
		misses:     make(chan struct{}, 64),
	}
	return NewTruckFeed(source, c, clock), source, c
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestTruckFeedConcurrentMissesShareOneFetch(t *testing.T) {
	const callers = 8
	feed, source, c := newGatedFeed()
	q := TruckQuery{Date: "2024-06-01", LookaheadMinutes: 15, Timezone: "America/New_York"}

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listing, err := feed.Trucks(context.Background(), q)
			if err == nil && len(listing.Trucks) != 5 {
				t.Errorf("len(trucks) = %d, want 5", len(listing.Trucks))
			}
			errs <- err
		}()
	}

	for i := 0; i < callers; i++ {
		waitFor(t, c.misses, "cache miss")
	}
	waitFor(t, source.started, "fetch start")
	// Give the last callers time to move from the cache miss into the shared fetch.
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("source calls = %d, want 1", got)
	}
}

func TestTruckFeedCancelledCallerDoesNotFailOthers(t *testing.T) {
	feed, source, c := newGatedFeed()
	q := TruckQuery{Date: "2024-06-01", LookaheadMinutes: 15, Timezone: "America/New_York"}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()

	firstErr := make(chan error, 1)
	go func() {
		_, err := feed.Trucks(firstCtx, q)
		firstErr <- err
	}()
	waitFor(t, c.misses, "first cache miss")
	waitFor(t, source.started, "fetch start")

	type result struct {
		listing *TruckListing
		err     error
	}
	second := make(chan result, 1)
	go func() {
		listing, err := feed.Trucks(context.Background(), q)
		second <- result{listing, err}
	}()
	waitFor(t, c.misses, "second cache miss")
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled caller did not return")
	}

	close(source.release)
	res := <-second
	if res.err != nil {
		t.Fatalf("live caller err = %v, want nil", res.err)
	}
	if len(res.listing.Trucks) != 5 {
		t.Fatalf("len(trucks) = %d, want 5", len(res.listing.Trucks))
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("source calls = %d, want 1", got)
	}
	if _, ok := c.TruckCache.Get(context.Background(), q.Date); !ok {
		t.Fatalf("shared fetch should populate the cache after the first caller left")
	}
}
