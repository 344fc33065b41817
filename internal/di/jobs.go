package di

import (
	"fmt"

	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers maintenance jobs.
// The cache cleanup also runs once right away so rows that expired while
// the service was down are pruned at boot. The scheduler is not started here.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Scheduler = scheduler.New(log)

	if container.ClientDataRepo == nil {
		return nil
	}

	container.CleanupJob = clientdata.NewCleanupJob(container.ClientDataRepo, log)
	if err := container.Scheduler.AddJob(cfg.CacheCleanupSchedule, container.CleanupJob); err != nil {
		return fmt.Errorf("failed to register %s job: %w", container.CleanupJob.Name(), err)
	}
	if err := container.Scheduler.RunNow(container.CleanupJob); err != nil {
		log.Warn().Err(err).Msg("Initial cache cleanup failed")
	}
	return nil
}
