package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/platform/obs"
	"truck-status-service/internal/ports"
)

const (
	// TruckCacheTTL is how long a stored day of trucks is served before re-fetching.
	TruckCacheTTL = time.Hour

	truckKeyPrefix = "trucks_"
)

// errCacheReadCorrupted marks a stored payload that cannot be decoded.
// It never leaves this package; callers see a miss instead.
var errCacheReadCorrupted = errors.New("truck cache: corrupted entry")

// TruckCache stores processed trucks per calendar date with a fixed one-hour TTL.
//
// Stale entries may remain in the store until SweepExpired runs, but Get never
// returns them.
type TruckCache struct {
	store ports.KVStore
	clock ports.Clock
	ttl   time.Duration
}

func NewTruckCache(store ports.KVStore, clock ports.Clock) *TruckCache {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &TruckCache{store: store, clock: clock, ttl: TruckCacheTTL}
}

type cachedTruck struct {
	ID        string   `json:"id"`
	TruckID   string   `json:"truckId"`
	TruckName string   `json:"truckName"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Cuisine   string   `json:"cuisine,omitempty"`
	Logo      string   `json:"logo,omitempty"`
	FoodIcon  string   `json:"foodIcon,omitempty"`
	Status    string   `json:"status,omitempty"`
	IsInRange bool     `json:"isInRange"`
}

type cacheEntry struct {
	Trucks    []cachedTruck `json:"trucks"`
	Timestamp int64         `json:"timestamp"`
}

func truckKey(date string) string { return truckKeyPrefix + date }

// Get returns the trucks stored for date if the entry is younger than the TTL.
// Missing, stale, unreadable and corrupted entries are all reported as a miss.
func (c *TruckCache) Get(ctx context.Context, date string) ([]domain.ProcessedTruck, bool) {
	raw, ok, err := c.store.Read(ctx, truckKey(date))
	if err != nil {
		log.Printf("truck cache read failed: date=%s err=%v", date, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	entry, decodeErr := decodeEntry(raw)
	if decodeErr != nil {
		log.Printf("truck cache entry ignored: date=%s err=%v", date, decodeErr)
		return nil, false
	}

	if c.expired(entry.Timestamp) {
		return nil, false
	}

	trucks := make([]domain.ProcessedTruck, 0, len(entry.Trucks))
	for _, t := range entry.Trucks {
		trucks = append(trucks, fromCached(t))
	}
	return trucks, true
}

// Put overwrites the entry for date, stamping it with the current instant.
func (c *TruckCache) Put(ctx context.Context, date string, trucks []domain.ProcessedTruck) (err error) {
	defer obs.Time(ctx, "truck.cache.Put")(&err)

	if strings.TrimSpace(date) == "" {
		return errors.New("put truck cache: date must not be empty")
	}

	entry := cacheEntry{
		Trucks:    make([]cachedTruck, 0, len(trucks)),
		Timestamp: c.clock.Now().UnixMilli(),
	}
	for _, t := range trucks {
		entry.Trucks = append(entry.Trucks, toCached(t))
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("put truck cache: marshal date=%s: %w", date, err)
	}

	if err := c.store.Write(ctx, truckKey(date), string(payload)); err != nil {
		return fmt.Errorf("put truck cache: write date=%s: %w", date, err)
	}
	return nil
}

// SweepExpired deletes every truck entry older than the TTL or that cannot be
// decoded, and reports how many were removed. Entries younger than the TTL are kept.
func (c *TruckCache) SweepExpired(ctx context.Context) (removed int, err error) {
	defer obs.Time(ctx, "truck.cache.SweepExpired")(&err)

	keys, err := c.store.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep truck cache: list keys: %w", err)
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, truckKeyPrefix) {
			continue
		}

		raw, ok, err := c.store.Read(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("sweep truck cache: read %q: %w", key, err)
		}
		if !ok {
			continue
		}

		entry, decodeErr := decodeEntry(raw)
		if decodeErr == nil && entry.Timestamp != 0 && !c.expired(entry.Timestamp) {
			continue
		}

		if err := c.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("sweep truck cache: delete %q: %w", key, err)
		}
		removed++
	}

	return removed, nil
}

func (c *TruckCache) expired(timestamp int64) bool {
	age := c.clock.Now().Sub(time.UnixMilli(timestamp))
	return age > c.ttl
}

func decodeEntry(raw string) (cacheEntry, error) {
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return cacheEntry{}, fmt.Errorf("%w: %v", errCacheReadCorrupted, err)
	}
	// Put always writes a list, possibly empty; null or absent means the payload is damaged.
	if entry.Trucks == nil {
		return cacheEntry{}, fmt.Errorf("%w: missing trucks list", errCacheReadCorrupted)
	}
	return entry, nil
}

func toCached(t domain.ProcessedTruck) cachedTruck {
	return cachedTruck{
		ID:        t.ID,
		TruckID:   t.TruckID,
		TruckName: t.TruckName,
		Date:      t.Date,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Location:  t.Location,
		Latitude:  t.Latitude,
		Longitude: t.Longitude,
		Cuisine:   t.Cuisine,
		Logo:      t.Logo,
		FoodIcon:  t.FoodIcon,
		Status:    string(t.Status),
		IsInRange: t.IsInRange,
	}
}

func fromCached(t cachedTruck) domain.ProcessedTruck {
	return domain.ProcessedTruck{
		ScheduleEntry: domain.ScheduleEntry{
			ID:        t.ID,
			TruckID:   t.TruckID,
			TruckName: t.TruckName,
			Date:      t.Date,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Location:  t.Location,
			Latitude:  t.Latitude,
			Longitude: t.Longitude,
			Cuisine:   t.Cuisine,
			Logo:      t.Logo,
			FoodIcon:  t.FoodIcon,
		},
		Status:    domain.Status(t.Status),
		IsInRange: t.IsInRange,
	}
}
