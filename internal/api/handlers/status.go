package handlers

import (
	"errors"
	"net/http"
	"strings"
	"truck-status-service/internal/api/dto"
	"truck-status-service/internal/ports"
	"truck-status-service/internal/services"
)

// StatusHandler classifies a single schedule window on demand.
type StatusHandler struct {
	Clock            ports.Clock
	DefaultTimezone  string
	DefaultLookahead int
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	status, err := services.Classify(q.Get("start"), q.Get("end"), date, lookahead, tz, h.Clock)
	if errors.Is(err, services.ErrInvalidTimeFormat) {
		writeError(w, r, http.StatusBadRequest, "start and end must be HH:MM")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatusResponse{Status: string(status)})
}
