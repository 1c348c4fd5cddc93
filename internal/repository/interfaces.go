package repository

import (
	"context"

	"github.com/vytor/matchlog/internal/models"
)

// DeckRepository stores the deck collection of one mode, games and runs
// included. Save replaces the whole collection.
type DeckRepository interface {
	Load(ctx context.Context, mode models.Mode) ([]models.Deck, error)
	Save(ctx context.Context, mode models.Mode, decks []models.Deck) error
}

// TagRepository stores the tag list in display order.
type TagRepository interface {
	Load(ctx context.Context) ([]models.Tag, error)
	Save(ctx context.Context, tags []models.Tag) error
}

// SettingsRepository stores the user view state. Load returns
// models.DefaultSettings for anything never saved.
type SettingsRepository interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}
