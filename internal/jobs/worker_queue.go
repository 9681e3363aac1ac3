package jobs

import (
	stderrors "errors"

	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/services"
	"github.com/vytor/chesspulse/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	ingestPool    *worker.Pool
	ingestService services.IngestService
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(ingestPool *worker.Pool, ingestService services.IngestService) JobQueue {
	return &WorkerQueue{
		ingestPool:    ingestPool,
		ingestService: ingestService,
	}
}

func (q *WorkerQueue) EnqueueIngest(username string) error {
	username = services.NormalizeUsername(username)
	if username == "" {
		return errors.NewValidationError("username", "is required")
	}

	err := q.ingestPool.Submit(&worker.IngestPlayerJob{
		Service:  q.ingestService,
		Username: username,
	})
	if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrStopped) {
		return errors.NewQueueFullError(err)
	}
	return err
}
