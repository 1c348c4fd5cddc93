package services

import (
	"context"

	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/i18n"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
)

// SettingsPatch changes the fields that are set.
type SettingsPatch struct {
	Language *string                `json:"language"`
	Mode     *models.Mode           `json:"mode"`
	Filter   *models.ViewFilterSpec `json:"filter"`
}

// SettingsService reads and updates the saved view state
type SettingsService interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, patch SettingsPatch) (models.Settings, error)
}

type settingsService struct {
	lib *library.Library
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(lib *library.Library) SettingsService {
	return &settingsService{lib: lib}
}

func (s *settingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	logger.FromContext(ctx).Debug("getting settings")
	return s.lib.Snapshot().Settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, patch SettingsPatch) (models.Settings, error) {
	log := logger.FromContext(ctx)

	if patch.Language != nil && !i18n.Supported(*patch.Language) {
		return models.Settings{}, errors.NewValidationError("language", "unsupported language")
	}
	if patch.Mode != nil && !patch.Mode.Valid() {
		return models.Settings{}, errors.NewValidationError("mode", "must be normal or take_two")
	}
	if patch.Filter != nil {
		if err := patch.Filter.Validate(); err != nil {
			return models.Settings{}, errors.NewValidationError("filter", err.Error())
		}
	}

	snap, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		settings := tx.Settings()
		if patch.Language != nil {
			settings.Language = *patch.Language
		}
		if patch.Mode != nil {
			settings.Mode = *patch.Mode
		}
		if patch.Filter != nil {
			settings.Filter = *patch.Filter
		}
		tx.SetSettings(settings)
		return nil
	})
	if err != nil {
		log.Error("failed to update settings: %v", err)
		return models.Settings{}, errors.NewInternalError(err)
	}
	log.Debug("settings updated: language=%s, mode=%s", snap.Settings.Language, snap.Settings.Mode)
	return snap.Settings, nil
}
