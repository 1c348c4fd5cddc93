package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
)

type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository implementation
func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Load(ctx context.Context) ([]models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")

	query, args, err := sqlBuilder.Select("id", "name").From("tags").OrderBy("position").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load tags: %v", err)
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			log.Error("failed to scan tag row: %v", err)
			return nil, err
		}
		tags = append(tags, t)
	}
	log.Debug("loaded %d tags", len(tags))
	return tags, rows.Err()
}

func (r *tagRepository) Save(ctx context.Context, tags []models.Tag) error {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("saving %d tags", len(tags))

	rows := make([][]any, len(tags))
	for i, t := range tags {
		rows[i] = []any{t.ID, t.Name, i}
	}
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := execBuilder(ctx, tx, sqlBuilder.Delete("tags")); err != nil {
			return err
		}
		return insertRows(ctx, tx, "tags", []string{"id", "name", "position"}, rows)
	})
	if err != nil {
		log.Error("failed to save tags: %v", err)
	}
	return err
}
