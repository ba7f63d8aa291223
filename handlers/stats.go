package handlers

import (
	"encoding/json"
	"net/http"

	statssvc "cinelog/services/stats"
)

// StatsHandler serves the read-only library rollup.
type StatsHandler struct {
	Service *statssvc.Service
}

func NewStatsHandler(s *statssvc.Service) *StatsHandler {
	return &StatsHandler{Service: s}
}

// Get computes and returns the current stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Get()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
