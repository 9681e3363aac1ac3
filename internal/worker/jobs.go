package worker

import (
	"context"

	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/services"
)

// IngestPlayerJob runs one ingestion for a player in the background.
type IngestPlayerJob struct {
	Service  services.IngestService
	Username string
}

func (j *IngestPlayerJob) Name() string {
	return "ingest:" + j.Username
}

func (j *IngestPlayerJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("username", j.Username)

	res, err := j.Service.Ingest(ctx, j.Username)
	if err != nil {
		return err
	}
	log.Info("%s", res.Message)
	return nil
}
