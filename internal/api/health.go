package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Dataset string `json:"dataset"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dsStatus := "reachable"
	if err := s.prices.Ping(); err != nil {
		dsStatus = "unreachable"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  healthServices{Dataset: dsStatus},
	})
}
