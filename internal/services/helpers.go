package services

import (
	stderrors "errors"
	"slices"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/models"
)

// resolveMode falls back to the saved mode when mode is empty.
func resolveMode(snap *library.Snapshot, mode models.Mode) (models.Mode, error) {
	if mode == "" {
		return snap.Settings.Mode, nil
	}
	if !mode.Valid() {
		return "", errors.NewValidationError("mode", "must be normal or take_two")
	}
	return mode, nil
}

// knownTagIDs keeps the ids that name an existing tag, each once, in order.
func knownTagIDs(ids []string, tags []models.Tag) []string {
	if len(ids) == 0 {
		return nil
	}
	known := models.TagIDSet(tags)
	var out []string
	for _, id := range ids {
		if _, ok := known[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func newRecordID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	return id, nil
}

// mapLibraryError turns library sentinels into application errors.
func mapLibraryError(err error, deckID string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, library.ErrDeckNotFound) {
		return errors.NewNotFoundError("deck", deckID)
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewInternalError(err)
}
