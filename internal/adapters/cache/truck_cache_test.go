package cache

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"
	"truck-status-service/internal/domain"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var sampleNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestTruckCache() (*TruckCache, *MemoryStore, *testClock) {
	store := NewMemoryStore()
	clock := &testClock{now: sampleNow}
	return NewTruckCache(store, clock), store, clock
}

func sampleTrucks() []domain.ProcessedTruck {
	lat, lon := 40.7128, -74.006
	return []domain.ProcessedTruck{
		domain.NewProcessedTruck(domain.ScheduleEntry{
			ID:        "s1",
			TruckID:   "t1",
			TruckName: "Taco Loco",
			Date:      "2024-06-01",
			StartTime: "10:00",
			EndTime:   "16:00",
			Location:  "Union Square",
			Latitude:  &lat,
			Longitude: &lon,
			Cuisine:   "Mexican",
		}, domain.StatusOpen),
		domain.NewProcessedTruck(domain.ScheduleEntry{
			ID:        "s2",
			TruckID:   "t2",
			TruckName: "Curry Up",
			Date:      "2024-06-01",
			StartTime: "07:00",
			EndTime:   "09:00",
			Location:  "Pier 17",
		}, domain.StatusClosed),
	}
}

func TestTruckCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestTruckCache()
	trucks := sampleTrucks()

	if err := c.Put(ctx, "2024-06-01", trucks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(30 * time.Minute)

	got, ok := c.Get(ctx, "2024-06-01")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if !reflect.DeepEqual(got, trucks) {
		t.Fatalf("Get = %+v, want %+v", got, trucks)
	}
}

func TestTruckCacheExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestTruckCache()

	if err := c.Put(ctx, "2024-06-01", sampleTrucks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Hour)
	if _, ok := c.Get(ctx, "2024-06-01"); !ok {
		t.Fatalf("entry exactly one hour old should still be served")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get(ctx, "2024-06-01"); ok {
		t.Fatalf("expected miss for entry older than one hour")
	}

	// Stale rows stay in the store until a sweep.
	if _, ok, _ := store.Read(ctx, "trucks_2024-06-01"); !ok {
		t.Fatalf("stale entry should still be physically stored")
	}
}

func TestTruckCacheMissForUnknownDate(t *testing.T) {
	c, _, _ := newTestTruckCache()

	if _, ok := c.Get(context.Background(), "2024-06-02"); ok {
		t.Fatalf("expected miss")
	}
}

func TestTruckCachePutOverwrites(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestTruckCache()
	trucks := sampleTrucks()

	if err := c.Put(ctx, "2024-06-01", trucks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(50 * time.Minute)
	if err := c.Put(ctx, "2024-06-01", trucks[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The rewrite restarts the TTL.
	clock.Advance(50 * time.Minute)
	got, ok := c.Get(ctx, "2024-06-01")
	if !ok {
		t.Fatalf("expected cache hit after overwrite")
	}
	if len(got) != 1 {
		t.Fatalf("len(trucks) = %d, want 1", len(got))
	}
}

func TestTruckCacheCorruptedEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestTruckCache()

	if err := store.Write(ctx, "trucks_2024-06-01", "{not json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "2024-06-01"); ok {
		t.Fatalf("expected miss for corrupted entry")
	}
}

func TestTruckCacheMissingTrucksListIsMiss(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestTruckCache()

	fresh := fmt.Sprintf(`{"trucks":null,"timestamp":%d}`, sampleNow.UnixMilli())
	if err := store.Write(ctx, "trucks_2024-06-01", fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(ctx, "2024-06-01"); ok {
		t.Fatalf("expected miss for null trucks list")
	}

	_ = store.Write(ctx, "trucks_2024-06-02", fmt.Sprintf(`{"timestamp":%d}`, sampleNow.UnixMilli()))
	removed, err := c.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
}

func TestTruckCacheEmptyDayIsHit(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestTruckCache()

	if err := c.Put(ctx, "2024-06-01", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := c.Get(ctx, "2024-06-01")
	if !ok {
		t.Fatalf("expected hit for a stored empty day")
	}
	if len(got) != 0 {
		t.Fatalf("len(trucks) = %d, want 0", len(got))
	}
}

func TestTruckCacheSweepExpired(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestTruckCache()

	if err := c.Put(ctx, "2024-05-31", sampleTrucks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(45 * time.Minute)
	if err := c.Put(ctx, "2024-06-01", sampleTrucks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = store.Write(ctx, "trucks_2024-06-02", "garbage")
	_ = store.Write(ctx, "trucks_2024-06-03", `{"trucks":[]}`)
	_ = store.Write(ctx, "session_token", "garbage")

	clock.Advance(30 * time.Minute)

	removed, err := c.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}

	keys, _ := store.ListKeys(ctx)
	want := []string{"session_token", "trucks_2024-06-01"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("remaining keys = %v, want %v", keys, want)
	}

	if _, ok := c.Get(ctx, "2024-06-01"); !ok {
		t.Fatalf("fresh entry should survive sweep")
	}
}

func TestTruckCacheSweepEmptyStore(t *testing.T) {
	c, _, _ := newTestTruckCache()

	removed, err := c.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}
