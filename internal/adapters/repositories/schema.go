package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTrucksQuery := `
	CREATE TABLE IF NOT EXISTS food_trucks (
		id TEXT PRIMARY KEY,
		truck_name TEXT NOT NULL,
		logo TEXT,
		cuisine TEXT,
		website TEXT,
		facebook TEXT,
		instagram TEXT,
		food_icon TEXT
	);
	`

	createSchedulesQuery := `
	CREATE TABLE IF NOT EXISTS truck_schedules (
		id TEXT PRIMARY KEY,
		truck_id TEXT NOT NULL REFERENCES food_trucks(id) ON DELETE CASCADE,
		schedule_date DATE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		location TEXT NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	);
	`

	createKVCacheQuery := `
	CREATE TABLE IF NOT EXISTS kv_cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_truck_schedules_date
	ON truck_schedules(schedule_date);
	`

	statements := []string{
		createTrucksQuery,
		createSchedulesQuery,
		createKVCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TruckSeed struct {
	ID        string `json:"id"`
	TruckName string `json:"truckName"`
	Logo      string `json:"logo"`
	Cuisine   string `json:"cuisine"`
	Website   string `json:"website"`
	Social    struct {
		Facebook  string `json:"facebook"`
		Instagram string `json:"instagram"`
	} `json:"social"`
	FoodIcon string `json:"foodIcon"`
}

type ScheduleSeed struct {
	ID        string   `json:"id"`
	TruckID   string   `json:"truckId"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SeedFile struct {
	FoodTrucks []TruckSeed    `json:"foodTrucks"`
	Schedules  []ScheduleSeed `json:"schedules"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: decode json: %w", err)
	}

	trucks := make(map[string]struct{}, len(seed.FoodTrucks))
	for i, t := range seed.FoodTrucks {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("parse seed: truck at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(t.TruckName) == "" {
			return nil, fmt.Errorf("parse seed: truck %q: truckName cannot be empty", t.ID)
		}
		trucks[t.ID] = struct{}{}
	}

	for i, s := range seed.Schedules {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("parse seed: schedule at index %d: id cannot be empty", i+1)
		}
		if _, ok := trucks[s.TruckID]; !ok {
			return nil, fmt.Errorf("parse seed: schedule %q: unknown truckId %q", s.ID, s.TruckID)
		}
		if _, err := time.Parse("2006-01-02", s.Date); err != nil {
			return nil, fmt.Errorf("parse seed: schedule %q: invalid date %q", s.ID, s.Date)
		}
		if strings.TrimSpace(s.StartTime) == "" || strings.TrimSpace(s.EndTime) == "" {
			return nil, fmt.Errorf("parse seed: schedule %q: startTime and endTime are required", s.ID)
		}
	}

	return &seed, nil
}

// Populate the database with trucks and schedules from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed trucks: read %q: %w", jsonPath, err)
	}

	seed, err := ParseSeed(bytes)
	if err != nil {
		return fmt.Errorf("seed trucks: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed trucks: begin tx: %w", err)
	}
	defer tx.Rollback()

	truckStmt, err := tx.Prepare(`
	INSERT INTO food_trucks (id, truck_name, logo, cuisine, website, facebook, instagram, food_icon)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET truck_name = EXCLUDED.truck_name,
		logo = EXCLUDED.logo,
		cuisine = EXCLUDED.cuisine,
		website = EXCLUDED.website,
		facebook = EXCLUDED.facebook,
		instagram = EXCLUDED.instagram,
		food_icon = EXCLUDED.food_icon;
	`)
	if err != nil {
		return fmt.Errorf("seed trucks: prepare truck insert: %w", err)
	}
	defer truckStmt.Close()

	for _, t := range seed.FoodTrucks {
		if _, err := truckStmt.Exec(t.ID, t.TruckName, t.Logo, t.Cuisine, t.Website, t.Social.Facebook, t.Social.Instagram, t.FoodIcon); err != nil {
			return fmt.Errorf("seed trucks: insert truck id=%s: %w", t.ID, err)
		}
	}

	scheduleStmt, err := tx.Prepare(`
	INSERT INTO truck_schedules (id, truck_id, schedule_date, start_time, end_time, location, latitude, longitude)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET truck_id = EXCLUDED.truck_id,
		schedule_date = EXCLUDED.schedule_date,
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		location = EXCLUDED.location,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude;
	`)
	if err != nil {
		return fmt.Errorf("seed trucks: prepare schedule insert: %w", err)
	}
	defer scheduleStmt.Close()

	for _, s := range seed.Schedules {
		if _, err := scheduleStmt.Exec(s.ID, s.TruckID, s.Date, s.StartTime, s.EndTime, s.Location, s.Latitude, s.Longitude); err != nil {
			return fmt.Errorf("seed trucks: insert schedule id=%s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trucks: commit tx: %w", err)
	}

	return nil
}
