package jobs

import "github.com/vytor/matchlog/internal/models"

// JobQueue persists library snapshots in the background. The slices handed
// over must not be modified afterwards.
type JobQueue interface {
	EnqueueDeckSave(mode models.Mode, decks []models.Deck) error
	EnqueueTagSave(tags []models.Tag) error
	EnqueueSettingsSave(settings models.Settings) error
}
