package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"truck-status-service/internal/api/dto"
	"truck-status-service/internal/domain"
	"truck-status-service/internal/services"
)

// TruckHandler serves the processed truck listing for a date.
type TruckHandler struct {
	Feed             *services.TruckFeed
	DefaultTimezone  string
	DefaultLookahead int
}

// List returns trucks for ?date=, optionally filtered by ?cuisine= and ?status=
// (comma-separated). Cuisines always lists every cuisine of the day, unfiltered.
func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()

	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return
	}

	lookahead, ok := parseLookahead(w, r, h.DefaultLookahead)
	if !ok {
		return
	}

	tz := strings.TrimSpace(q.Get("tz"))
	if tz == "" {
		tz = h.DefaultTimezone
	}

	statuses := make([]domain.Status, 0)
	for _, s := range splitList(q.Get("status")) {
		st, err := domain.ParseStatus(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "unknown status "+strconv.Quote(s))
			return
		}
		statuses = append(statuses, st)
	}

	listing, err := h.Feed.Trucks(r.Context(), services.TruckQuery{
		Date:             date,
		LookaheadMinutes: lookahead,
		Timezone:         tz,
	})
	if errors.Is(err, services.ErrInvalidDate) {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if err != nil {
		log.Printf("list trucks failed: date=%s err=%v", date, err)
		writeError(w, r, http.StatusBadGateway, "truck source unavailable")
		return
	}

	filtered := services.FilterTrucks(listing.Trucks, splitList(q.Get("cuisine")), statuses)

	res := dto.ListTrucksResponse{
		Date:      listing.Date,
		Trucks:    make([]dto.TruckResponse, 0, len(filtered)),
		Cuisines:  listing.Cuisines,
		FromCache: listing.FromCache,
	}
	for _, t := range filtered {
		res.Trucks = append(res.Trucks, dto.TruckResponse{
			ID:            t.ID,
			TruckID:       t.TruckID,
			TruckName:     t.TruckName,
			Date:          t.Date,
			StartTime:     t.StartTime,
			EndTime:       t.EndTime,
			Location:      t.Location,
			Latitude:      t.Latitude,
			Longitude:     t.Longitude,
			Cuisine:       t.Cuisine,
			Logo:          t.Logo,
			FoodIcon:      t.FoodIcon,
			Status:        string(t.Status),
			DisplayStatus: string(t.DisplayStatus()),
			IsInRange:     t.IsInRange,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLookahead(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("lookahead"))
	if raw == "" {
		return fallback, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 24*60 {
		writeError(w, r, http.StatusBadRequest, "lookahead must be between 0 and 1440 minutes")
		return 0, false
	}
	return n, true
}
