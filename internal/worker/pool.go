package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/metrics"
)

// ErrQueueFull is returned by Submit when the queue has no free slot.
var ErrQueueFull = errors.New("worker: queue is full")

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("worker: pool stopped")

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	name    string
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	queue   int
	cancel  context.CancelFunc
	log     *logger.Logger

	mu      sync.RWMutex
	stopped bool
}

func NewPool(name string, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	log := logger.Default().WithPrefix("worker-pool").WithField("pool", name)
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		name:    name,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job, ok := <-p.jobs:
					if !ok {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}
					metrics.WorkerQueueDepth.WithLabelValues(p.name).Set(float64(len(p.jobs)))
					p.run(ctx, workerLog, job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) run(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	// Create a context with the logger for the job
	jobCtx := logger.NewContext(ctx, jobLog)

	if err := job.Run(jobCtx); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		metrics.WorkerJobsTotal.WithLabelValues(p.name, job.Name(), "error").Inc()
		return
	}
	jobLog.Info("job completed in %v", time.Since(start))
	metrics.WorkerJobsTotal.WithLabelValues(p.name, job.Name(), "success").Inc()
}

// Stop cancels running jobs and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// Submit queues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		metrics.WorkerQueueDepth.WithLabelValues(p.name).Set(float64(len(p.jobs)))
		return nil
	default:
		p.log.Warn("queue full, dropping job: %s", job.Name())
		return ErrQueueFull
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
