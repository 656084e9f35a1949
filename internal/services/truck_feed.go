package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

// sharedFetchTimeout bounds a source fetch shared by concurrent callers.
const sharedFetchTimeout = 30 * time.Second

// ErrInvalidDate is returned when a requested date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

type TruckQuery struct {
	Date             string
	LookaheadMinutes int
	Timezone         string
}

type TruckListing struct {
	Date      string
	Trucks    []domain.ProcessedTruck
	Cuisines  []string
	FromCache bool
}

// TruckFeed serves processed trucks for a date, consulting the cache before the source.
//
// Cached entries are keyed by date only: a hit returns the statuses computed
// when the entry was written, whatever lookahead or timezone the caller asks for.
// Concurrent misses for one date share a single fetch.
type TruckFeed struct {
	source ports.TruckSource
	cache  ports.TruckCache
	clock  ports.Clock
	group  singleflight.Group
}

func NewTruckFeed(source ports.TruckSource, cache ports.TruckCache, clock ports.Clock) *TruckFeed {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &TruckFeed{source: source, cache: cache, clock: clock}
}

func (f *TruckFeed) Trucks(ctx context.Context, q TruckQuery) (*TruckListing, error) {
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return nil, fmt.Errorf("truck feed: %q: %w", q.Date, ErrInvalidDate)
	}
	if q.LookaheadMinutes < 0 {
		return nil, fmt.Errorf("truck feed: %w", ErrNegativeLookahead)
	}

	if cached, ok := f.cache.Get(ctx, q.Date); ok {
		return &TruckListing{
			Date:      q.Date,
			Trucks:    cached,
			Cuisines:  UniqueCuisines(cached),
			FromCache: true,
		}, nil
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := f.group.DoChan(q.Date, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		rows, err := f.source.ListSchedules(fetchCtx, q.Date)
		if err != nil {
			return nil, fmt.Errorf("truck feed: list schedules: %w", err)
		}

		processed := ProcessTrucks(rows, q.Date, q.LookaheadMinutes, q.Timezone, f.clock)

		// A failed write only costs a re-fetch next time.
		if err := f.cache.Put(fetchCtx, q.Date, processed); err != nil {
			log.Printf("truck cache write failed: date=%s err=%v", q.Date, err)
		}
		return processed, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("truck feed: date=%s: %w", q.Date, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	trucks := res.Val.([]domain.ProcessedTruck)
	return &TruckListing{
		Date:     q.Date,
		Trucks:   trucks,
		Cuisines: UniqueCuisines(trucks),
	}, nil
}

// SweepOnStart evicts expired cache entries once, as a session-start housekeeping step.
func SweepOnStart(ctx context.Context, cache ports.TruckCache) {
	removed, err := cache.SweepExpired(ctx)
	if err != nil {
		log.Printf("truck cache sweep failed: removed=%d err=%v", removed, err)
		return
	}
	log.Printf("truck cache sweep complete: removed=%d", removed)
}
