package services

import (
	"log"
	"time"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/ports"
)

// ProcessTrucks classifies every schedule row for selectedDate.
//
// A row whose times cannot be classified is kept with an empty status, so it
// still reaches the caller but carries no status to display.
func ProcessTrucks(
	rows []domain.ScheduleEntry,
	selectedDate string,
	lookaheadMinutes int,
	tz string,
	clock ports.Clock,
) []domain.ProcessedTruck {
	if clock == nil {
		clock = ports.SystemClock
	}

	// One clock reading per batch keeps every row on the same "now".
	now := clock.Now()
	fixed := ports.ClockFunc(func() time.Time { return now })

	out := make([]domain.ProcessedTruck, 0, len(rows))
	for _, row := range rows {
		status, err := Classify(row.StartTime, row.EndTime, selectedDate, lookaheadMinutes, tz, fixed)
		if err != nil {
			log.Printf("classify truck failed: schedule_id=%s truck=%q err=%v", row.ID, row.TruckName, err)
			status = ""
		}
		out = append(out, domain.NewProcessedTruck(row, status))
	}

	return out
}

// UniqueCuisines returns the distinct non-empty cuisines in first-seen order.
func UniqueCuisines(trucks []domain.ProcessedTruck) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range trucks {
		if t.Cuisine == "" {
			continue
		}
		if _, ok := seen[t.Cuisine]; ok {
			continue
		}
		seen[t.Cuisine] = struct{}{}
		out = append(out, t.Cuisine)
	}
	return out
}

// FilterTrucks keeps trucks matching any listed cuisine and any listed status.
// An empty list does not filter on that field.
func FilterTrucks(trucks []domain.ProcessedTruck, cuisines []string, statuses []domain.Status) []domain.ProcessedTruck {
	cuisineSet := make(map[string]struct{}, len(cuisines))
	for _, c := range cuisines {
		cuisineSet[c] = struct{}{}
	}
	statusSet := make(map[domain.Status]struct{}, len(statuses))
	for _, s := range statuses {
		statusSet[s] = struct{}{}
	}

	out := make([]domain.ProcessedTruck, 0, len(trucks))
	for _, t := range trucks {
		if len(cuisineSet) > 0 {
			if _, ok := cuisineSet[t.Cuisine]; !ok || t.Cuisine == "" {
				continue
			}
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[t.Status]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
