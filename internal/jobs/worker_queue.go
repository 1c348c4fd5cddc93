package jobs

import (
	"context"
	"sync"

	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
	"github.com/vytor/matchlog/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool. Saves coalesce: while
// a save for the same collection is still queued, a newer snapshot replaces
// the pending one instead of queueing another job.
type WorkerQueue struct {
	pool         *worker.Pool
	deckRepo     repository.DeckRepository
	tagRepo      repository.TagRepository
	settingsRepo repository.SettingsRepository

	mu       sync.Mutex
	decks    map[models.Mode][]models.Deck
	tags     []models.Tag
	hasTags  bool
	settings *models.Settings

	// saveMu serializes writes so the last snapshot taken is the last written.
	saveMu sync.Mutex
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	deckRepo repository.DeckRepository,
	tagRepo repository.TagRepository,
	settingsRepo repository.SettingsRepository,
) *WorkerQueue {
	return &WorkerQueue{
		pool:         pool,
		deckRepo:     deckRepo,
		tagRepo:      tagRepo,
		settingsRepo: settingsRepo,
		decks:        make(map[models.Mode][]models.Deck),
	}
}

func (q *WorkerQueue) EnqueueDeckSave(mode models.Mode, decks []models.Deck) error {
	q.mu.Lock()
	_, queued := q.decks[mode]
	q.decks[mode] = decks
	q.mu.Unlock()
	if queued {
		return nil
	}
	if err := q.pool.Submit(&saveDecksJob{queue: q, mode: mode}); err != nil {
		q.takeDecks(mode)
		return err
	}
	return nil
}

func (q *WorkerQueue) EnqueueTagSave(tags []models.Tag) error {
	q.mu.Lock()
	queued := q.hasTags
	q.tags, q.hasTags = tags, true
	q.mu.Unlock()
	if queued {
		return nil
	}
	if err := q.pool.Submit(&saveTagsJob{queue: q}); err != nil {
		q.takeTags()
		return err
	}
	return nil
}

func (q *WorkerQueue) EnqueueSettingsSave(settings models.Settings) error {
	q.mu.Lock()
	queued := q.settings != nil
	q.settings = &settings
	q.mu.Unlock()
	if queued {
		return nil
	}
	if err := q.pool.Submit(&saveSettingsJob{queue: q}); err != nil {
		q.takeSettings()
		return err
	}
	return nil
}

func (q *WorkerQueue) takeDecks(mode models.Mode) ([]models.Deck, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	decks, ok := q.decks[mode]
	delete(q.decks, mode)
	return decks, ok
}

func (q *WorkerQueue) takeTags() ([]models.Tag, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tags, ok := q.tags, q.hasTags
	q.tags, q.hasTags = nil, false
	return tags, ok
}

func (q *WorkerQueue) takeSettings() (models.Settings, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.settings == nil {
		return models.Settings{}, false
	}
	s := *q.settings
	q.settings = nil
	return s, true
}

type saveDecksJob struct {
	queue *WorkerQueue
	mode  models.Mode
}

func (j *saveDecksJob) Name() string { return "save_decks_" + string(j.mode) }

func (j *saveDecksJob) Run(ctx context.Context) error {
	j.queue.saveMu.Lock()
	defer j.queue.saveMu.Unlock()

	decks, ok := j.queue.takeDecks(j.mode)
	if !ok {
		logger.FromContext(ctx).Debug("nothing pending")
		return nil
	}
	return j.queue.deckRepo.Save(ctx, j.mode, decks)
}

type saveTagsJob struct {
	queue *WorkerQueue
}

func (j *saveTagsJob) Name() string { return "save_tags" }

func (j *saveTagsJob) Run(ctx context.Context) error {
	j.queue.saveMu.Lock()
	defer j.queue.saveMu.Unlock()

	tags, ok := j.queue.takeTags()
	if !ok {
		return nil
	}
	return j.queue.tagRepo.Save(ctx, tags)
}

type saveSettingsJob struct {
	queue *WorkerQueue
}

func (j *saveSettingsJob) Name() string { return "save_settings" }

func (j *saveSettingsJob) Run(ctx context.Context) error {
	j.queue.saveMu.Lock()
	defer j.queue.saveMu.Unlock()

	settings, ok := j.queue.takeSettings()
	if !ok {
		return nil
	}
	return j.queue.settingsRepo.Save(ctx, settings)
}
