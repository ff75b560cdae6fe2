package workers

import (
	"context"
	"log/slog"

	application "brandcast/contexts/content-publishing/publishing-service/application"
	"brandcast/contexts/content-publishing/publishing-service/application/commands"
)

// SchedulerJob runs periodic due-schedule publishing.
type SchedulerJob struct {
	Commands  commands.UseCase
	BatchSize int
	Logger    *slog.Logger
}

func (j SchedulerJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}
	if err := j.Commands.ProcessDueScheduled(ctx, limit); err != nil {
		logger.Error("publishing scheduler cycle failed",
			"event", "publishing_scheduler_cycle_failed",
			"module", "content-publishing/publishing-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	logger.Debug("publishing scheduler cycle succeeded",
		"event", "publishing_scheduler_cycle_succeeded",
		"module", "content-publishing/publishing-service",
		"layer", "worker",
		"limit", limit,
	)
	return nil
}
