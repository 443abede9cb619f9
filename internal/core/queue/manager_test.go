package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"
)

func TestRunsJobs(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 10})

	var count int64
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Enqueue(&Job{Name: "count", Run: func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		}}))
	}

	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, int64(5), atomic.LoadInt64(&count))

	status := m.GetQueueStatus()
	assert.Equal(t, int64(5), status.ProcessedCount)
	assert.Equal(t, 2, status.Workers)
	assert.Equal(t, 10, status.MaxQueueSize)
}

func TestFailedAndPanickingJobs(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 10})

	require.NoError(t, m.Enqueue(&Job{Name: "fail", Run: func(ctx context.Context) error {
		return errors.New("boom")
	}}))
	require.NoError(t, m.Enqueue(&Job{Name: "panic", Run: func(ctx context.Context) error {
		panic("boom")
	}}))
	require.NoError(t, m.Enqueue(&Job{Name: "ok", Run: func(ctx context.Context) error { return nil }}))

	require.NoError(t, m.Close(context.Background()))
	status := m.GetQueueStatus()
	assert.Equal(t, int64(2), status.FailedCount)
	assert.Equal(t, int64(1), status.ProcessedCount)
}

func TestDropsWhenFull(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, m.Enqueue(&Job{Name: "block", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started

	require.NoError(t, m.Enqueue(&Job{Name: "queued"}))
	assert.ErrorIs(t, m.Enqueue(&Job{Name: "dropped"}), common.ErrQueueFull)
	assert.Equal(t, int64(1), m.GetQueueStatus().DroppedCount)

	close(release)
	require.NoError(t, m.Close(context.Background()))
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	require.NoError(t, m.Close(context.Background()))
	require.NoError(t, m.Close(context.Background()))

	assert.ErrorIs(t, m.Enqueue(&Job{Name: "late"}), common.ErrServiceUnavailable)
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestCloseTimeoutCancelsJobs(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})

	cancelled := make(chan struct{})
	require.NoError(t, m.Enqueue(&Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Close(ctx), context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running job was not cancelled")
	}
}
