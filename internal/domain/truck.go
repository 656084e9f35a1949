package domain

// Social links advertised by a food truck.
type Social struct {
	Facebook  string
	Instagram string
}

// Food truck profile. Display fields only; schedules live in ScheduleEntry.
type FoodTruck struct {
	ID        string
	TruckName string
	Logo      string
	Cuisine   string
	Website   string
	Social    Social
	FoodIcon  string
}

// Represents one truck's posted operating window on a single day.
// StartTime and EndTime are wall-clock "HH:MM" strings at the truck's location.
// A window that crosses midnight is not representable.
type ScheduleEntry struct {
	ID        string
	TruckID   string
	TruckName string
	Date      string
	StartTime string
	EndTime   string
	Location  string
	Latitude  *float64
	Longitude *float64
	Cuisine   string
	Logo      string
	FoodIcon  string
}

// ProcessedTruck is a schedule row annotated with its status at the time it was classified.
type ProcessedTruck struct {
	ScheduleEntry
	Status    Status
	IsInRange bool
}

// NewProcessedTruck derives IsInRange from status. A row without a status is kept in range.
func NewProcessedTruck(entry ScheduleEntry, status Status) ProcessedTruck {
	return ProcessedTruck{
		ScheduleEntry: entry,
		Status:        status,
		IsInRange:     status != StatusClosed,
	}
}

// DisplayStatus returns the status to render, defaulting to inactive when none was computed.
func (p ProcessedTruck) DisplayStatus() Status {
	if p.Status == "" {
		return StatusInactive
	}
	return p.Status
}
