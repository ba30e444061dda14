package entrypoint

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	var shutdownCalled bool
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, srv, time.Second, func(context.Context) { shutdownCalled = true })
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, shutdownCalled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_ReportsListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}

	err := Serve(context.Background(), srv, time.Second, nil)

	assert.Error(t, err)
}

func TestAddJobs(t *testing.T) {
	cfg := &config.Config{
		Snapshots: config.Snapshots{Schedule: "0 3 * * *"},
		Activity:  config.Activity{RetentionDays: 30, CleanupSchedule: "30 3 * * *"},
	}
	sched := scheduler.New(nil)

	require.NoError(t, addJobs(sched, cfg))

	jobs := sched.Jobs()
	sort.Strings(jobs)
	assert.Equal(t, []string{"cleanup_activity_events", "snapshot_catalog"}, jobs)
}

func TestAddJobs_EmptyScheduleDisablesJob(t *testing.T) {
	cfg := &config.Config{
		Snapshots: config.Snapshots{Schedule: ""},
		Activity:  config.Activity{CleanupSchedule: "30 3 * * *"},
	}
	sched := scheduler.New(nil)

	require.NoError(t, addJobs(sched, cfg))

	assert.Equal(t, []string{"cleanup_activity_events"}, sched.Jobs())
}

func TestAddJobs_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{
		Snapshots: config.Snapshots{Schedule: "every day"},
	}

	assert.Error(t, addJobs(scheduler.New(nil), cfg))
}
