package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
)

// TagService manages tags. Deleting or merging a tag rewrites every game
// in every mode and the saved filter in the same library update.
type TagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (models.Tag, error)
	RenameTag(ctx context.Context, id, name string) (models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	MergeTags(ctx context.Context, sourceID, targetID string) error
}

type tagService struct {
	lib *library.Library
}

// NewTagService creates a new TagService
func NewTagService(lib *library.Library) TagService {
	return &tagService{lib: lib}
}

func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	logger.FromContext(ctx).Debug("listing tags")
	return s.lib.Snapshot().Tags, nil
}

func (s *tagService) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating tag: name=%s", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, errors.NewValidationError("name", "cannot be empty")
	}

	tag := models.Tag{ID: uuid.NewString(), Name: name}
	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		if _, exists := models.FindTagByName(tx.Tags(), name); exists {
			return errors.NewConflictError("tag", "name already in use")
		}
		tx.SetTags(append(slices.Clone(tx.Tags()), tag))
		return nil
	})
	if err != nil {
		return models.Tag{}, mapLibraryError(err, "")
	}
	log.Info("tag created: id=%s", tag.ID)
	return tag, nil
}

func (s *tagService) RenameTag(ctx context.Context, id, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)
	log.Debug("renaming tag: id=%s, name=%s", id, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, errors.NewValidationError("name", "cannot be empty")
	}

	var renamed models.Tag
	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		tags := tx.Tags()
		i := slices.IndexFunc(tags, func(t models.Tag) bool { return t.ID == id })
		if i < 0 {
			return errors.NewNotFoundError("tag", id)
		}
		if other, exists := models.FindTagByName(tags, name); exists && other.ID != id {
			return errors.NewConflictError("tag", "name already in use")
		}
		next := slices.Clone(tags)
		next[i].Name = name
		renamed = next[i]
		tx.SetTags(next)
		return nil
	})
	if err != nil {
		return models.Tag{}, mapLibraryError(err, "")
	}
	return renamed, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting tag: id=%s", id)

	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		tags := tx.Tags()
		i := slices.IndexFunc(tags, func(t models.Tag) bool { return t.ID == id })
		if i < 0 {
			return errors.NewNotFoundError("tag", id)
		}
		tx.SetTags(slices.Delete(slices.Clone(tags), i, i+1))
		tx.UpdateGames(func(g models.Game) (models.Game, bool) {
			return rewriteGameTags(g, func(ids []string) []string {
				return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
			})
		})
		settings := tx.Settings()
		settings.Filter = settings.Filter.WithoutTag(id)
		tx.SetSettings(settings)
		return nil
	})
	if err != nil {
		return mapLibraryError(err, "")
	}
	log.Info("tag deleted: id=%s", id)
	return nil
}

// MergeTags folds source into target: every reference to source becomes a
// reference to target and source is removed.
func (s *tagService) MergeTags(ctx context.Context, sourceID, targetID string) error {
	log := logger.FromContext(ctx)
	log.Debug("merging tags: source=%s, target=%s", sourceID, targetID)

	if sourceID == targetID {
		return errors.NewValidationError("target", "cannot merge a tag into itself")
	}

	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		tags := tx.Tags()
		i := slices.IndexFunc(tags, func(t models.Tag) bool { return t.ID == sourceID })
		if i < 0 {
			return errors.NewNotFoundError("tag", sourceID)
		}
		if !slices.ContainsFunc(tags, func(t models.Tag) bool { return t.ID == targetID }) {
			return errors.NewNotFoundError("tag", targetID)
		}
		tx.SetTags(slices.Delete(slices.Clone(tags), i, i+1))
		tx.UpdateGames(func(g models.Game) (models.Game, bool) {
			return rewriteGameTags(g, func(ids []string) []string {
				return models.ReplaceTagID(ids, sourceID, targetID)
			})
		})
		settings := tx.Settings()
		settings.Filter = settings.Filter.WithTagReplaced(sourceID, targetID)
		tx.SetSettings(settings)
		return nil
	})
	if err != nil {
		return mapLibraryError(err, "")
	}
	log.Info("tags merged: source=%s, target=%s", sourceID, targetID)
	return nil
}

// rewriteGameTags applies fn to both tag lists of g and reports whether
// either list changed.
func rewriteGameTags(g models.Game, fn func([]string) []string) (models.Game, bool) {
	my := fn(g.MyTagIDs)
	opp := fn(g.OpponentTagIDs)
	if slices.Equal(my, g.MyTagIDs) && slices.Equal(opp, g.OpponentTagIDs) {
		return g, false
	}
	if len(my) == 0 {
		my = nil
	}
	if len(opp) == 0 {
		opp = nil
	}
	g.MyTagIDs, g.OpponentTagIDs = my, opp
	return g, true
}
