package services

import (
	"context"

	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/i18n"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/stats"
)

// StatsQuery selects a stats view. Empty Language and Mode fall back to the
// saved settings.
type StatsQuery struct {
	Filter   models.ViewFilterSpec
	Language string
	Mode     models.Mode
}

// StatsService computes stats views over the current library state
type StatsService interface {
	GetStats(ctx context.Context, q StatsQuery) (*stats.Result, error)
}

type statsService struct {
	lib    *library.Library
	engine *stats.Engine
}

// NewStatsService creates a new StatsService
func NewStatsService(lib *library.Library, engine *stats.Engine) StatsService {
	return &statsService{lib: lib, engine: engine}
}

func (s *statsService) GetStats(ctx context.Context, q StatsQuery) (*stats.Result, error) {
	log := logger.FromContext(ctx)

	if err := q.Filter.Validate(); err != nil {
		return nil, errors.NewValidationError("filter", err.Error())
	}
	snap := s.lib.Snapshot()
	mode, err := resolveMode(snap, q.Mode)
	if err != nil {
		return nil, err
	}
	lang := q.Language
	if lang == "" {
		lang = snap.Settings.Language
	}
	if !i18n.Supported(lang) {
		log.Debug("unsupported language %q, using %s", lang, i18n.DefaultLanguage)
		lang = i18n.DefaultLanguage
	}

	log.Debug("computing stats: deck=%s, mode=%s, lang=%s", q.Filter.Deck, mode, lang)
	result := s.engine.StatsForView(q.Filter, snap.Decks(mode), snap.Tags, i18n.For(lang), lang, mode)
	if result == nil {
		return nil, errors.NewNotFoundError("deck", q.Filter.Deck.String())
	}
	return result, nil
}
