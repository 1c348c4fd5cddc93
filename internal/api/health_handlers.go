package api

import (
	"net/http"

	"github.com/vytor/matchlog/internal/logger"
)

// handleHealth is the liveness probe and always answers 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady answers 503 while the database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body := map[string]any{"status": "ready"}
	if s.PersistPool != nil {
		body["persistQueue"] = s.PersistPool.QueueSize()
	}
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			body["status"] = "database unavailable"
			writeJSON(w, r, http.StatusServiceUnavailable, body)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, body)
}
