package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ski-planner/models"
	"ski-planner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	saved  []models.Resort
	err    error
	closed bool
}

func (m *memorySink) SaveResorts(_ context.Context, resorts []models.Resort) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, resorts...)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func TestSnapshotJobRun(t *testing.T) {
	cat := &fakeCatalog{resorts: searchFixture()}
	good := &memorySink{}
	bad := &memorySink{err: errors.New("disk full")}

	job := NewSnapshotJob(cat, time.Second, utils.NewNopLogger(), good, bad)
	err := job.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1/2 sinks failed")
	assert.Len(t, good.saved, 4, "a failing sink does not block the others")
	assert.Equal(t, models.CatalogQuery{}, cat.last, "snapshot lists the whole catalog")
}

func TestSnapshotJobFetchFailure(t *testing.T) {
	job := NewSnapshotJob(&fakeCatalog{err: errors.New("down")}, 0, utils.NewNopLogger(), &memorySink{})
	assert.ErrorContains(t, job.Run(context.Background()), "snapshot fetch failed")
}

func TestSnapshotJobSchedule(t *testing.T) {
	job := NewSnapshotJob(&fakeCatalog{}, 0, utils.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := job.Schedule(ctx, "not a cron spec")
	assert.Error(t, err)

	c, err := job.Schedule(ctx, "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
