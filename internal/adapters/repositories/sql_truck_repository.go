package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/platform/obs"
)

// SQL-backed implementation of the TruckSource port.
type SQLTruckRepository struct{ DB *sql.DB }

func NewSQLTruckRepository(db *sql.DB) *SQLTruckRepository {
	return &SQLTruckRepository{DB: db}
}

// Return every schedule row for date joined with its truck's display fields.
func (s *SQLTruckRepository) ListSchedules(ctx context.Context, date string) (_ []domain.ScheduleEntry, err error) {
	defer obs.Time(ctx, "trucks.sql.ListSchedules")(&err)

	if s.DB == nil {
		return nil, errors.New("sql truck repository: DB is nil")
	}

	query := `
	SELECT
		s.id,
		s.truck_id,
		t.truck_name,
		to_char(s.schedule_date, 'YYYY-MM-DD'),
		s.start_time,
		s.end_time,
		s.location,
		s.latitude,
		s.longitude,
		COALESCE(t.cuisine, ''),
		COALESCE(t.logo, ''),
		COALESCE(t.food_icon, '')
	FROM truck_schedules s
	JOIN food_trucks t ON t.id = s.truck_id
	WHERE s.schedule_date = $1::date
	ORDER BY s.start_time, t.truck_name;
	`
	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list schedules: query truck_schedules date=%s: %w", date, err)
	}
	defer rows.Close()

	entries := make([]domain.ScheduleEntry, 0, 32)
	for rows.Next() {
		var (
			e        domain.ScheduleEntry
			lat, lon sql.NullFloat64
		)
		err := rows.Scan(
			&e.ID,
			&e.TruckID,
			&e.TruckName,
			&e.Date,
			&e.StartTime,
			&e.EndTime,
			&e.Location,
			&lat,
			&lon,
			&e.Cuisine,
			&e.Logo,
			&e.FoodIcon,
		)
		if err != nil {
			return nil, fmt.Errorf("list schedules: scan row: %w", err)
		}
		if lat.Valid {
			e.Latitude = &lat.Float64
		}
		if lon.Valid {
			e.Longitude = &lon.Float64
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: row iteration: %w", err)
	}

	return entries, nil
}
