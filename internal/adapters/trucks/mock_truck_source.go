package trucks

import (
	"context"
	"fmt"
	"sync"
	"truck-status-service/internal/domain"
)

// MockTruckSource serves fixed schedules per date and counts fetches.
type MockTruckSource struct {
	mu     sync.Mutex
	byDate map[string][]domain.ScheduleEntry
	calls  map[string]int
	Err    error
}

func NewMockTruckSource(entries []domain.ScheduleEntry) *MockTruckSource {
	byDate := make(map[string][]domain.ScheduleEntry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return &MockTruckSource{byDate: byDate, calls: make(map[string]int)}
}

func (m *MockTruckSource) ListSchedules(ctx context.Context, date string) ([]domain.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[date]++
	if m.Err != nil {
		return nil, fmt.Errorf("mock truck source: %w", m.Err)
	}

	out := make([]domain.ScheduleEntry, len(m.byDate[date]))
	copy(out, m.byDate[date])
	return out, nil
}

// Calls reports how many times date was fetched.
func (m *MockTruckSource) Calls(date string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[date]
}
