package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const maxRecords = 10000

type health struct {
	Status   string     `json:"status"`
	LastTick *time.Time `json:"last_tick,omitempty"`
}

// handleHealth reports ok while ticks keep completing
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	last := s.ticks.LastTick()

	h := health{Status: "ok"}
	code := http.StatusOK
	switch {
	case last.IsZero():
		h.Status = "starting"
		code = http.StatusServiceUnavailable
	case time.Since(last) > s.maxAge:
		h.Status = "stale"
		code = http.StatusServiceUnavailable
	}
	if !last.IsZero() {
		h.LastTick = &last
	}

	writeJSON(w, code, h)
}

// handleRecent handles /api/recent requests
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}

	results, err := s.db.GetRecent(r.Context(), since(r, 24), maxRecords)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// handleStats handles /api/stats requests
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}

	stats, err := s.db.GetStats(r.Context(), since(r, 24))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleErrors handles /api/errors requests
func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}

	errs, err := s.db.GetErrors(r.Context(), since(r, 24), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, errs)
}

func (s *Server) archiveEnabled(w http.ResponseWriter) bool {
	if s.db == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return false
	}
	return true
}

// since reads the hours query parameter, falling back to def
func since(r *http.Request, def int) time.Time {
	hours := def
	if h := r.URL.Query().Get("hours"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	return time.Now().Add(-time.Duration(hours) * time.Hour)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
