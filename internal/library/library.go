// Package library holds the in-memory deck, tag and settings state.
//
// State is published as immutable snapshots. Every update builds new
// top-level slices for whatever it changes, so a reader holding a snapshot
// never sees it move, and the stats cache can detect changes by slice
// identity alone.
package library

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vytor/matchlog/internal/jobs"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
	"golang.org/x/sync/errgroup"
)

var ErrDeckNotFound = errors.New("deck not found")

// Snapshot is one published state of the library. Treat it as read-only.
type Snapshot struct {
	decks    map[models.Mode][]models.Deck
	Tags     []models.Tag
	Settings models.Settings
}

// Decks returns the deck collection of mode.
func (s *Snapshot) Decks(mode models.Mode) []models.Deck {
	return s.decks[mode]
}

// FindDeck looks a deck up by id within mode.
func (s *Snapshot) FindDeck(mode models.Mode, id string) (models.Deck, bool) {
	for _, d := range s.decks[mode] {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deck{}, false
}

type Library struct {
	mu    sync.Mutex
	state atomic.Pointer[Snapshot]
	queue jobs.JobQueue
	log   *logger.Logger
}

// New returns a library with no decks, the take-two decks provisioned and
// default settings. queue may be nil, in which case nothing is persisted.
func New(queue jobs.JobQueue) *Library {
	l := &Library{queue: queue, log: logger.Default().WithPrefix("library")}
	l.state.Store(&Snapshot{
		decks: map[models.Mode][]models.Deck{
			models.ModeNormal:  {},
			models.ModeTakeTwo: models.TakeTwoDecks(),
		},
		Tags:     []models.Tag{},
		Settings: models.DefaultSettings(),
	})
	return l
}

// Load reads every collection concurrently and returns a library over them.
// Missing take-two decks are provisioned and queued for saving.
func Load(
	ctx context.Context,
	deckRepo repository.DeckRepository,
	tagRepo repository.TagRepository,
	settingsRepo repository.SettingsRepository,
	queue jobs.JobQueue,
) (*Library, error) {
	log := logger.FromContext(ctx).WithPrefix("library")
	log.Info("loading library")

	var (
		normal, takeTwo []models.Deck
		tags            []models.Tag
		settings        models.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		normal, err = deckRepo.Load(gctx, models.ModeNormal)
		return err
	})
	g.Go(func() (err error) {
		takeTwo, err = deckRepo.Load(gctx, models.ModeTakeTwo)
		return err
	})
	g.Go(func() (err error) {
		tags, err = tagRepo.Load(gctx)
		return err
	})
	g.Go(func() (err error) {
		settings, err = settingsRepo.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load library: %v", err)
		return nil, err
	}

	if normal == nil {
		normal = []models.Deck{}
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	if !settings.Mode.Valid() {
		log.Warn("unknown saved mode %q, using %s", settings.Mode, models.ModeNormal)
		settings.Mode = models.ModeNormal
	}

	l := &Library{queue: queue, log: logger.Default().WithPrefix("library")}
	provisioned, added := provisionTakeTwo(takeTwo)
	l.state.Store(&Snapshot{
		decks: map[models.Mode][]models.Deck{
			models.ModeNormal:  normal,
			models.ModeTakeTwo: provisioned,
		},
		Tags:     tags,
		Settings: settings,
	})
	if added > 0 {
		log.Info("provisioned %d take-two decks", added)
		l.enqueueDecks(models.ModeTakeTwo, provisioned)
	}

	log.WithFields(map[string]any{
		"decks":          len(normal),
		"take_two_decks": len(provisioned),
		"tags":           len(tags),
	}).Info("library loaded")
	return l, nil
}

// provisionTakeTwo appends a deck for every class that has none yet.
func provisionTakeTwo(decks []models.Deck) ([]models.Deck, int) {
	have := make(map[models.Class]bool, len(decks))
	for _, d := range decks {
		have[d.Class] = true
	}
	out := slices.Clone(decks)
	if out == nil {
		out = []models.Deck{}
	}
	added := 0
	for _, d := range models.TakeTwoDecks() {
		if !have[d.Class] {
			out = append(out, d)
			added++
		}
	}
	return out, added
}

// Snapshot returns the current state.
func (l *Library) Snapshot() *Snapshot {
	return l.state.Load()
}

// Update runs fn against a working copy of the state and publishes the
// result if fn succeeds. Updates are serialized; readers are never blocked.
// Changed collections are queued for persistence.
func (l *Library) Update(ctx context.Context, fn func(*Tx) error) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	base := l.state.Load()
	tx := &Tx{
		decks:    make(map[models.Mode][]models.Deck, len(base.decks)),
		tags:     base.Tags,
		settings: base.Settings,
		dirty:    make(map[models.Mode]bool),
	}
	for mode, decks := range base.decks {
		tx.decks[mode] = decks
	}

	if err := fn(tx); err != nil {
		return base, err
	}

	next := &Snapshot{decks: tx.decks, Tags: tx.tags, Settings: tx.settings}
	l.state.Store(next)

	log := logger.FromContext(ctx).WithPrefix("library")
	for mode := range tx.dirty {
		log.Debug("decks changed: mode=%s", mode)
		l.enqueueDecks(mode, next.decks[mode])
	}
	if tx.tagsDirty {
		log.Debug("tags changed")
		l.enqueue("tags", func(q jobs.JobQueue) error { return q.EnqueueTagSave(next.Tags) })
	}
	if tx.settingsDirty {
		log.Debug("settings changed")
		l.enqueue("settings", func(q jobs.JobQueue) error { return q.EnqueueSettingsSave(next.Settings) })
	}
	return next, nil
}

func (l *Library) enqueueDecks(mode models.Mode, decks []models.Deck) {
	l.enqueue("decks", func(q jobs.JobQueue) error { return q.EnqueueDeckSave(mode, decks) })
}

// enqueue never fails the update: the new state is already published.
func (l *Library) enqueue(what string, fn func(jobs.JobQueue) error) {
	if l.queue == nil {
		return
	}
	if err := fn(l.queue); err != nil {
		l.log.Error("failed to queue %s save: %v", what, err)
	}
}
