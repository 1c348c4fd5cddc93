package api

import (
	"net/http"

	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/services"
)

// handleStats serves a stats view. Without filter parameters the saved
// filter is used; gamePage and runPage still apply on top of it.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	q := r.URL.Query()

	mode, err := parseMode(q)
	if err != nil {
		handleError(w, r, err)
		return
	}

	query := services.StatsQuery{Language: q.Get("lang"), Mode: mode}
	if hasFilterParams(q) {
		query.Filter, err = parseFilter(q)
	} else {
		settings, serr := s.SettingsService.GetSettings(ctx)
		if serr != nil {
			handleError(w, r, serr)
			return
		}
		log.Debug("no filter given, using saved filter")
		query.Filter, err = applyPages(q, settings.Filter)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.StatsService.GetStats(ctx, query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
