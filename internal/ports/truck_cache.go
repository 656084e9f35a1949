package ports

import (
	"context"
	"truck-status-service/internal/domain"
)

// Contract for the date-keyed cache of processed trucks.
type TruckCache interface {
	// Return the trucks stored for date; false on a miss or a stale entry.
	Get(ctx context.Context, date string) ([]domain.ProcessedTruck, bool)
	// Overwrite the trucks stored for date.
	Put(ctx context.Context, date string, trucks []domain.ProcessedTruck) error
	// Remove expired or unreadable entries and report how many were removed.
	SweepExpired(ctx context.Context) (int, error)
}
