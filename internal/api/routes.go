package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(baseMiddleware()...)
	r.Use(s.corsMiddleware())

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Get("/stats", s.handleStats)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Patch("/", s.handleUpdateDeck)
			r.Delete("/", s.handleDeleteDeck)

			r.Post("/games", s.handleLogGame)
			r.Put("/games/{gameID}", s.handleUpdateGame)
			r.Delete("/games/{gameID}", s.handleDeleteGame)

			r.Post("/runs", s.handleLogRun)
			r.Delete("/runs/{runID}", s.handleDeleteRun)
		})

		r.Get("/tags", s.handleListTags)
		r.Post("/tags", s.handleCreateTag)
		r.Patch("/tags/{tagID}", s.handleRenameTag)
		r.Delete("/tags/{tagID}", s.handleDeleteTag)
		r.Post("/tags/{tagID}/merge", s.handleMergeTags)

		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handleUpdateSettings)
	})
	return r
}

// baseMiddleware runs outermost first. Recovery sits inside logging so a
// panic is logged with the request logger and counted as a 500.
func baseMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		loggingMiddleware,
		recoveryMiddleware,
		securityHeadersMiddleware,
	}
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler
}
