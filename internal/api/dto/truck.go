package dto

// TruckResponse carries DisplayStatus, which falls back to "inactive" when no status could be computed.
type TruckResponse struct {
	ID            string   `json:"id"`
	TruckID       string   `json:"truckId"`
	TruckName     string   `json:"truckName"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Location      string   `json:"location"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Cuisine       string   `json:"cuisine,omitempty"`
	Logo          string   `json:"logo,omitempty"`
	FoodIcon      string   `json:"foodIcon,omitempty"`
	Status        string   `json:"status,omitempty"`
	DisplayStatus string   `json:"displayStatus"`
	IsInRange     bool     `json:"isInRange"`
}

type ListTrucksResponse struct {
	Date      string          `json:"date"`
	Trucks    []TruckResponse `json:"trucks"`
	Cuisines  []string        `json:"cuisines"`
	FromCache bool            `json:"fromCache"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type SweepResponse struct {
	Removed int `json:"removed"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
