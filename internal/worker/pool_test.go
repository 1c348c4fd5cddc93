package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/matchlog/internal/worker"
)

type countJob struct {
	n   *atomic.Int32
	err error
}

func (j countJob) Name() string { return "count" }

func (j countJob) Run(context.Context) error {
	j.n.Add(1)
	return j.err
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	var n atomic.Int32
	p := worker.NewPool(2, 16)

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(countJob{n: &n}))
	}
	p.Start(context.Background())
	p.Stop()

	assert.Equal(t, int32(10), n.Load())
	assert.Zero(t, p.QueueSize())
}

func TestPool_FailedJobDoesNotStopWorker(t *testing.T) {
	var n atomic.Int32
	p := worker.NewPool(1, 4)
	p.Start(context.Background())

	require.NoError(t, p.Submit(countJob{n: &n, err: errors.New("boom")}))
	require.NoError(t, p.Submit(countJob{n: &n}))
	p.Stop()

	assert.Equal(t, int32(2), n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	var n atomic.Int32
	p := worker.NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	assert.ErrorIs(t, p.Submit(countJob{n: &n}), worker.ErrPoolStopped)
}
