package handlers

import (
	"log"
	"net/http"
	"truck-status-service/internal/api/dto"
	"truck-status-service/internal/ports"
)

// CacheHandler exposes cache housekeeping.
type CacheHandler struct {
	Cache ports.TruckCache
}

func (h *CacheHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	removed, err := h.Cache.SweepExpired(r.Context())
	if err != nil {
		log.Printf("cache sweep failed: removed=%d err=%v", removed, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SweepResponse{Removed: removed})
}
