package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"truck-status-service/internal/api/dto"
	"truck-status-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode failed: req_id=%s method=%s path=%s status=%d err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, status, err)
	}
}

// writeError includes the request id in the error body.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg, RequestID: obs.RequestID(r.Context())})
}

// allowMethod answers 405 with an Allow header unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
