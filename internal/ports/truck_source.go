package ports

import (
	"context"
	"truck-status-service/internal/domain"
)

// Port: a boundary for retrieving the trucks scheduled on a given day.
type TruckSource interface {
	// Retrieve schedule rows for a YYYY-MM-DD date.
	ListSchedules(ctx context.Context, date string) ([]domain.ScheduleEntry, error)
}
