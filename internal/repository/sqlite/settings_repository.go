package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
)

const (
	settingLanguage = "language"
	settingMode     = "mode"
	settingFilter   = "filter"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load(ctx context.Context) (models.Settings, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	settings := models.DefaultSettings()

	query, args, err := sqlBuilder.Select("key", "value").From("settings").ToSql()
	if err != nil {
		return settings, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load settings: %v", err)
		return settings, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Error("failed to scan setting row: %v", err)
			return settings, err
		}
		switch key {
		case settingLanguage:
			settings.Language = value
		case settingMode:
			settings.Mode = models.Mode(value)
		case settingFilter:
			var filter models.ViewFilterSpec
			if err := json.Unmarshal([]byte(value), &filter); err != nil {
				log.Warn("discarding unreadable saved filter: %v", err)
				continue
			}
			settings.Filter = filter
		default:
			log.Debug("ignoring unknown setting %q", key)
		}
	}
	return settings, rows.Err()
}

func (r *settingsRepository) Save(ctx context.Context, settings models.Settings) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("saving settings: language=%s, mode=%s", settings.Language, settings.Mode)

	filter, err := json.Marshal(settings.Filter)
	if err != nil {
		return err
	}
	values := map[string]string{
		settingLanguage: settings.Language,
		settingMode:     string(settings.Mode),
		settingFilter:   string(filter),
	}

	err = tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, key := range []string{settingLanguage, settingMode, settingFilter} {
			b := sqlBuilder.Insert("settings").
				Columns("key", "value").
				Values(key, values[key]).
				Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP")
			if err := execBuilder(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save settings: %v", err)
	}
	return err
}
