package trucks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/platform/obs"
)

// HTTPTruckSource implements TruckSource against the remote functions API
// (GET {base}/getFoodTrucks?date=YYYY-MM-DD).
//
// The source is safe for concurrent use.
type HTTPTruckSource struct {
	client      *http.Client
	baseURL     string
	token       string
	maxAttempts int
	backoff     time.Duration
}

type truckRecord struct {
	ID        string   `json:"id"`
	TruckID   string   `json:"truckId"`
	TruckName string   `json:"truckName"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Cuisine   string   `json:"cuisine"`
	Logo      string   `json:"logo"`
	FoodIcon  string   `json:"foodIcon"`
}

type trucksResponse struct {
	Trucks []truckRecord `json:"trucks"`
}

func NewHTTPTruckSource(baseURL string, token string) (*HTTPTruckSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("truck API base URL is empty")
	}

	return &HTTPTruckSource{
		client:      &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		token:       token,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

func (s *HTTPTruckSource) ListSchedules(ctx context.Context, date string) (_ []domain.ScheduleEntry, err error) {
	defer obs.Time(ctx, "trucks.http.ListSchedules")(&err)

	if strings.TrimSpace(date) == "" {
		return nil, errors.New("list schedules: date must be non-empty")
	}

	endpoint := s.baseURL + "/getFoodTrucks?date=" + url.QueryEscape(date)

	resp, err := s.doWithRetry(ctx, func() (*http.Request, error) {
		return s.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("list schedules date=%s: %w", date, err)
	}
	defer resp.Body.Close()

	var decoded trucksResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("list schedules: decode response: %w", err)
	}

	out := make([]domain.ScheduleEntry, 0, len(decoded.Trucks))
	for _, r := range decoded.Trucks {
		entryDate := r.Date
		if entryDate == "" {
			entryDate = date
		}
		out = append(out, domain.ScheduleEntry{
			ID:        r.ID,
			TruckID:   r.TruckID,
			TruckName: r.TruckName,
			Date:      entryDate,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Location:  r.Location,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Cuisine:   r.Cuisine,
			Logo:      r.Logo,
			FoodIcon:  r.FoodIcon,
		})
	}

	return out, nil
}
