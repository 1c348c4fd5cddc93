package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/matchlog/internal/services"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	decks, err := s.DeckService.ListDecks(r.Context(), mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.GetDeck(r.Context(), mode, chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var in services.DeckInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.CreateDeck(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	var patch services.DeckPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.UpdateDeck(r.Context(), mode, chi.URLParam(r, "deckID"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.DeleteDeck(r.Context(), mode, chi.URLParam(r, "deckID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogGame(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.GameInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	game, err := s.DeckService.LogGame(r.Context(), mode, chi.URLParam(r, "deckID"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, game)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.GameInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	game, err := s.DeckService.UpdateGame(r.Context(), mode, chi.URLParam(r, "deckID"), chi.URLParam(r, "gameID"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.DeleteGame(r.Context(), mode, chi.URLParam(r, "deckID"), chi.URLParam(r, "gameID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogRun(w http.ResponseWriter, r *http.Request) {
	var in services.RunInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	run, err := s.DeckService.LogRun(r.Context(), chi.URLParam(r, "deckID"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.DeckService.DeleteRun(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "runID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
