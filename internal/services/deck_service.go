package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
)

// DeckInput describes a new normal-mode deck.
type DeckInput struct {
	Name  string       `json:"name"`
	Class models.Class `json:"class"`
	Notes string       `json:"notes"`
}

// DeckPatch changes the fields that are set.
type DeckPatch struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

// GameInput describes a logged or edited game. A zero Timestamp means now.
type GameInput struct {
	Timestamp      int64         `json:"timestamp"`
	OpponentClass  models.Class  `json:"opponentClass"`
	Turn           models.Turn   `json:"turn"`
	Result         models.Result `json:"result"`
	MyTagIDs       []string      `json:"myTagIds"`
	OpponentTagIDs []string      `json:"opponentTagIds"`
}

// RunInput describes a finished take-two run. A zero Timestamp means now.
type RunInput struct {
	Timestamp int64 `json:"timestamp"`
	Wins      int   `json:"wins"`
	Losses    int   `json:"losses"`
}

// DeckService handles decks and the games and runs they own
type DeckService interface {
	ListDecks(ctx context.Context, mode models.Mode) ([]models.Deck, error)
	GetDeck(ctx context.Context, mode models.Mode, id string) (models.Deck, error)
	CreateDeck(ctx context.Context, in DeckInput) (models.Deck, error)
	UpdateDeck(ctx context.Context, mode models.Mode, id string, patch DeckPatch) (models.Deck, error)
	DeleteDeck(ctx context.Context, mode models.Mode, id string) error

	LogGame(ctx context.Context, mode models.Mode, deckID string, in GameInput) (models.Game, error)
	UpdateGame(ctx context.Context, mode models.Mode, deckID, gameID string, in GameInput) (models.Game, error)
	DeleteGame(ctx context.Context, mode models.Mode, deckID, gameID string) error

	LogRun(ctx context.Context, deckID string, in RunInput) (models.Run, error)
	DeleteRun(ctx context.Context, deckID, runID string) error
}

type deckService struct {
	lib *library.Library
	now func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(lib *library.Library) DeckService {
	return &deckService{lib: lib, now: time.Now}
}

func (s *deckService) ListDecks(ctx context.Context, mode models.Mode) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	snap := s.lib.Snapshot()
	mode, err := resolveMode(snap, mode)
	if err != nil {
		return nil, err
	}
	log.Debug("listing decks: mode=%s", mode)
	return snap.Decks(mode), nil
}

func (s *deckService) GetDeck(ctx context.Context, mode models.Mode, id string) (models.Deck, error) {
	snap := s.lib.Snapshot()
	mode, err := resolveMode(snap, mode)
	if err != nil {
		return models.Deck{}, err
	}
	d, ok := snap.FindDeck(mode, id)
	if !ok {
		logger.FromContext(ctx).Debug("deck not found: mode=%s, id=%s", mode, id)
		return models.Deck{}, errors.NewNotFoundError("deck", id)
	}
	return d, nil
}

func (s *deckService) CreateDeck(ctx context.Context, in DeckInput) (models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: name=%s, class=%s", in.Name, in.Class)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Deck{}, errors.NewValidationError("name", "cannot be empty")
	}
	if !in.Class.Valid() {
		return models.Deck{}, errors.NewValidationError("class", "unknown class")
	}

	deck := models.Deck{
		ID:    uuid.NewString(),
		Name:  name,
		Class: in.Class,
		Notes: strings.TrimSpace(in.Notes),
		Games: []models.Game{},
	}
	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		tx.SetDecks(models.ModeNormal, append(slices.Clone(tx.Decks(models.ModeNormal)), deck))
		return nil
	})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return models.Deck{}, errors.NewInternalError(err)
	}

	log.Info("deck created: id=%s", deck.ID)
	return deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, mode models.Mode, id string, patch DeckPatch) (models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: mode=%s, id=%s", mode, id)

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.Deck{}, errors.NewValidationError("name", "cannot be empty")
	}

	var updated models.Deck
	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		m, err := s.txMode(tx, mode)
		if err != nil {
			return err
		}
		return tx.UpdateDeck(m, id, func(d *models.Deck) error {
			if patch.Name != nil {
				d.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Notes != nil {
				d.Notes = strings.TrimSpace(*patch.Notes)
			}
			updated = *d
			return nil
		})
	})
	if err != nil {
		return models.Deck{}, mapLibraryError(err, id)
	}
	return updated, nil
}

// DeleteDeck removes a normal-mode deck. Take-two decks are permanent, so
// deleting one clears its history instead.
func (s *deckService) DeleteDeck(ctx context.Context, mode models.Mode, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: mode=%s, id=%s", mode, id)

	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		m, err := s.txMode(tx, mode)
		if err != nil {
			return err
		}
		if m == models.ModeTakeTwo {
			return tx.UpdateDeck(m, id, func(d *models.Deck) error {
				d.Games = []models.Game{}
				d.Runs = nil
				return nil
			})
		}
		decks := tx.Decks(m)
		i := slices.IndexFunc(decks, func(d models.Deck) bool { return d.ID == id })
		if i < 0 {
			return library.ErrDeckNotFound
		}
		tx.SetDecks(m, slices.Delete(slices.Clone(decks), i, i+1))
		return nil
	})
	if err != nil {
		return mapLibraryError(err, id)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}

func (s *deckService) LogGame(ctx context.Context, mode models.Mode, deckID string, in GameInput) (models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("logging game: deck=%s, opponent=%s, turn=%s, result=%s", deckID, in.OpponentClass, in.Turn, in.Result)

	id, err := newRecordID()
	if err != nil {
		return models.Game{}, err
	}

	var game models.Game
	_, err = s.lib.Update(ctx, func(tx *library.Tx) error {
		m, err := s.txMode(tx, mode)
		if err != nil {
			return err
		}
		game, err = s.buildGame(id, in, tx.Tags())
		if err != nil {
			return err
		}
		return tx.UpdateDeck(m, deckID, func(d *models.Deck) error {
			d.Games = append(d.Games, game)
			return nil
		})
	})
	if err != nil {
		return models.Game{}, mapLibraryError(err, deckID)
	}
	log.Info("game logged: deck=%s, id=%s", deckID, game.ID)
	return game, nil
}

func (s *deckService) UpdateGame(ctx context.Context, mode models.Mode, deckID, gameID string, in GameInput) (models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating game: deck=%s, id=%s", deckID, gameID)

	var game models.Game
	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		m, err := s.txMode(tx, mode)
		if err != nil {
			return err
		}
		return tx.UpdateDeck(m, deckID, func(d *models.Deck) error {
			i := slices.IndexFunc(d.Games, func(g models.Game) bool { return g.ID == gameID })
			if i < 0 {
				return errors.NewNotFoundError("game", gameID)
			}
			if in.Timestamp == 0 {
				in.Timestamp = d.Games[i].Timestamp
			}
			game, err = s.buildGame(gameID, in, tx.Tags())
			if err != nil {
				return err
			}
			d.Games[i] = game
			return nil
		})
	})
	if err != nil {
		return models.Game{}, mapLibraryError(err, deckID)
	}
	return game, nil
}

func (s *deckService) DeleteGame(ctx context.Context, mode models.Mode, deckID, gameID string) error {
	logger.FromContext(ctx).Debug("deleting game: deck=%s, id=%s", deckID, gameID)

	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		m, err := s.txMode(tx, mode)
		if err != nil {
			return err
		}
		return tx.UpdateDeck(m, deckID, func(d *models.Deck) error {
			i := slices.IndexFunc(d.Games, func(g models.Game) bool { return g.ID == gameID })
			if i < 0 {
				return errors.NewNotFoundError("game", gameID)
			}
			d.Games = slices.Delete(d.Games, i, i+1)
			return nil
		})
	})
	return mapLibraryError(err, deckID)
}

func (s *deckService) LogRun(ctx context.Context, deckID string, in RunInput) (models.Run, error) {
	log := logger.FromContext(ctx)
	log.Debug("logging run: deck=%s, wins=%d, losses=%d", deckID, in.Wins, in.Losses)

	run := models.Run{Timestamp: in.Timestamp, Wins: in.Wins, Losses: in.Losses}
	if run.Timestamp == 0 {
		run.Timestamp = s.now().UnixMilli()
	}
	if err := run.Validate(); err != nil {
		return models.Run{}, errors.NewValidationError("run", err.Error())
	}
	id, err := newRecordID()
	if err != nil {
		return models.Run{}, err
	}
	run.ID = id

	_, err = s.lib.Update(ctx, func(tx *library.Tx) error {
		return tx.UpdateDeck(models.ModeTakeTwo, deckID, func(d *models.Deck) error {
			d.Runs = append(d.Runs, run)
			return nil
		})
	})
	if err != nil {
		return models.Run{}, mapLibraryError(err, deckID)
	}
	log.Info("run logged: deck=%s, id=%s", deckID, run.ID)
	return run, nil
}

func (s *deckService) DeleteRun(ctx context.Context, deckID, runID string) error {
	logger.FromContext(ctx).Debug("deleting run: deck=%s, id=%s", deckID, runID)

	_, err := s.lib.Update(ctx, func(tx *library.Tx) error {
		return tx.UpdateDeck(models.ModeTakeTwo, deckID, func(d *models.Deck) error {
			i := slices.IndexFunc(d.Runs, func(r models.Run) bool { return r.ID == runID })
			if i < 0 {
				return errors.NewNotFoundError("run", runID)
			}
			d.Runs = slices.Delete(d.Runs, i, i+1)
			return nil
		})
	})
	return mapLibraryError(err, deckID)
}

func (s *deckService) txMode(tx *library.Tx, mode models.Mode) (models.Mode, error) {
	if mode == "" {
		return tx.Settings().Mode, nil
	}
	if !mode.Valid() {
		return "", errors.NewValidationError("mode", "must be normal or take_two")
	}
	return mode, nil
}

// buildGame validates in and drops tag ids that name no tag.
func (s *deckService) buildGame(id string, in GameInput, tags []models.Tag) (models.Game, error) {
	if !in.OpponentClass.Valid() {
		return models.Game{}, errors.NewValidationError("opponentClass", "unknown class")
	}
	if !in.Turn.Valid() {
		return models.Game{}, errors.NewValidationError("turn", "must be first or second")
	}
	if !in.Result.Valid() {
		return models.Game{}, errors.NewValidationError("result", "must be win or loss")
	}
	ts := in.Timestamp
	if ts == 0 {
		ts = s.now().UnixMilli()
	}
	return models.Game{
		ID:             id,
		Timestamp:      ts,
		OpponentClass:  in.OpponentClass,
		Turn:           in.Turn,
		Result:         in.Result,
		MyTagIDs:       knownTagIDs(in.MyTagIDs, tags),
		OpponentTagIDs: knownTagIDs(in.OpponentTagIDs, tags),
	}, nil
}
