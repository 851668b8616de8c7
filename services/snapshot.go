package services

import (
	"context"
	"fmt"
	"time"

	"ski-planner/models"
	"ski-planner/storage"
	"ski-planner/utils"

	"github.com/robfig/cron/v3"
)

// SnapshotJob copies the full catalog into one or more sinks
type SnapshotJob struct {
	catalog StationLister
	sinks   []storage.ResortSink
	timeout time.Duration
	logger  *utils.Logger
}

// NewSnapshotJob creates a job writing to sinks; each run is bounded by timeout
func NewSnapshotJob(catalog StationLister, timeout time.Duration, logger *utils.Logger, sinks ...storage.ResortSink) *SnapshotJob {
	return &SnapshotJob{catalog: catalog, sinks: sinks, timeout: timeout, logger: logger}
}

// Run fetches every station and saves it to each sink. A failing sink does not stop the others.
func (j *SnapshotJob) Run(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	resorts, err := j.catalog.ListStations(ctx, models.CatalogQuery{})
	if err != nil {
		return fmt.Errorf("snapshot fetch failed: %w", err)
	}
	j.logger.Info("Snapshot: fetched %d stations", len(resorts))

	failed := 0
	for _, sink := range j.sinks {
		if err := sink.SaveResorts(ctx, resorts); err != nil {
			j.logger.Error("Snapshot sink failed: %v", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("snapshot: %d/%d sinks failed", failed, len(j.sinks))
	}
	return nil
}

// Schedule runs the job on the cron spec (e.g. "0 3 * * *") until ctx is done.
// The returned cron is already started.
func (j *SnapshotJob) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := j.Run(ctx); err != nil {
			j.logger.Error("Scheduled snapshot failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	j.logger.Info("Snapshot scheduler started (%s)", spec)
	return c, nil
}
