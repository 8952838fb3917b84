package bootstrap

import (
	"github.com/osse101/ChocoboBot_Go/internal/config"
	"github.com/osse101/ChocoboBot_Go/internal/scheduler"
	"github.com/osse101/ChocoboBot_Go/internal/worker"
)

// BackgroundJobs are the recurring jobs and the pool they run on
type BackgroundJobs struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartBackgroundJobs warms the catalogs now and again at half the catalog TTL
func StartBackgroundJobs(cfg *config.Config, services *Services) *BackgroundJobs {
	pool := worker.NewPool(worker.DefaultWorkers, worker.DefaultQueueSize, cfg.HTTPTimeout*UpstreamMaxRetries*2)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.CatalogCacheTTL/2, worker.NewCatalogWarmJob(services.Collect))

	return &BackgroundJobs{Pool: pool, Scheduler: sched}
}

// Stop halts scheduling before stopping the pool
func (j *BackgroundJobs) Stop() {
	j.Scheduler.Stop()
	j.Pool.Stop()
}
