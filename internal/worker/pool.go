package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/matchlog/internal/logger"
)

// ErrPoolStopped is returned by Submit once Stop has been called.
var ErrPoolStopped = errors.New("worker pool stopped")

// Job is a unit of background work. Name is only used for logging.
type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
// Jobs queued before Stop are always run.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger

	// mu guards closed so Submit never sends on a closed channel.
	mu     sync.RWMutex
	closed bool
}

const defaultQueueSize = 64

// NewPool returns a stopped pool. Non-positive arguments fall back to one
// worker and the default queue size.
func NewPool(workers, queueSize int) *Pool {
	workers = max(workers, 1)
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool: workers=%d, queue=%d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. Jobs see a context derived from ctx carrying
// a job-scoped logger.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.log.Info("starting %d workers", p.workers)

	p.wg.Add(p.workers)
	for id := 1; id <= p.workers; id++ {
		go p.work(ctx, p.log.WithField("worker_id", id))
	}
}

func (p *Pool) work(ctx context.Context, log *logger.Logger) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Debug("worker exiting: %v", ctx.Err())
			return
		case job, ok := <-p.jobs:
			if !ok {
				log.Debug("worker exiting: queue drained")
				return
			}
			p.run(ctx, log, job)
		}
	}
}

func (p *Pool) run(ctx context.Context, log *logger.Logger, job Job) {
	jobLog := log.WithField("job", job.Name())
	start := time.Now()

	if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Debug("job done in %v", time.Since(start))
}

// Stop refuses new jobs, lets the workers drain what is already queued and
// waits for them to exit. Calling it again is a no-op.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.log.Info("stopping worker pool, %d jobs queued", len(p.jobs))
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// Submit queues job, blocking while the queue is full.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("rejecting job %s: pool stopped", job.Name())
		return ErrPoolStopped
	}
	p.jobs <- job
	return nil
}

// QueueSize returns the number of jobs waiting for a worker.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
