package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/shelterstock/shelterstock/internal/jobs"
)

type fakeCleaner struct {
	retention time.Duration
	rows      int64
	err       error
}

func (f *fakeCleaner) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	f.retention = olderThan
	return f.rows, f.err
}

func TestIdempotencyCleanupUsesConfiguredRetention(t *testing.T) {
	store := &fakeCleaner{rows: 4}
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	job := NewIdempotencyCleanupJob(store, 6*time.Hour, nil, metrics)

	task, err := NewIdempotencyCleanupTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 6*time.Hour, store.retention)
}

func TestIdempotencyCleanupPayloadOverridesRetention(t *testing.T) {
	store := &fakeCleaner{}
	job := NewIdempotencyCleanupJob(store, 0, nil, nil)
	require.Equal(t, DefaultIdempotencyRetention, job.Retention)

	task, err := NewIdempotencyCleanupTask(90 * time.Minute)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 90*time.Minute, store.retention)
}

func TestIdempotencyCleanupReportsFailure(t *testing.T) {
	boom := errors.New("db down")
	job := NewIdempotencyCleanupJob(&fakeCleaner{err: boom}, time.Hour, nil, nil)

	task, err := NewIdempotencyCleanupTask(0)
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestIdempotencyCleanupSkipsRetryOnBadPayload(t *testing.T) {
	job := NewIdempotencyCleanupJob(&fakeCleaner{}, time.Hour, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskIdempotencyCleanup, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestIdempotencyCleanupRecordsPurgedRows(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	job := NewIdempotencyCleanupJob(&fakeCleaner{rows: 7}, time.Hour, nil, metrics)

	task, err := NewIdempotencyCleanupTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	count, err := testutil.GatherAndCount(reg, "shelterstock_jobs_purged_rows_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
