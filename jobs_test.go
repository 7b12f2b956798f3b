package routing

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForJob(t *testing.T, o *JobOrchestrator, id string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := o.GetJob(id)
		require.NoError(t, err)
		if job.Status == JobFinished || job.Status == JobFailed {
			return job
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return Job{}
}

func TestJobOrchestratorSubmit(t *testing.T) {
	t.Run("job finishes with results in request order", func(t *testing.T) {
		router, factory, _ := newTestRouter(t)
		eng := factory.engines[0]
		eng.setResult(1, 2, 5, 1, 2)
		eng.setResult(3, 4, 7, 3, 4)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		submitted := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{
			{Source: 1, Target: 2},
			{Source: 8, Target: 9}, // unreachable, must not fail the job
			{Source: 3, Target: 4},
		}})
		assert.NotEmpty(t, submitted.ID)
		assert.False(t, submitted.CreatedAt.IsZero())

		job := waitForJob(t, orch, submitted.ID)
		assert.Equal(t, JobFinished, job.Status)
		assert.Empty(t, job.ErrorMessage)
		require.NotNil(t, job.StartedAt)
		require.NotNil(t, job.FinishedAt)
		require.NotNil(t, job.ExecutionTimeMS())

		require.Len(t, job.Result, 3)
		assert.Equal(t, 5.0, job.Result[0].Response.TotalWeight)
		assert.True(t, math.IsInf(job.Result[1].Response.TotalWeight, 1))
		assert.Equal(t, 7.0, job.Result[2].Response.TotalWeight)
	})

	t.Run("validation failure fails the job with a message", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		submitted := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{
			{Source: 1, Target: 2, ScenarioID: 7},
		}})

		job := waitForJob(t, orch, submitted.ID)
		assert.Equal(t, JobFailed, job.Status)
		assert.NotEmpty(t, job.ErrorMessage)
		assert.Nil(t, job.Result)
		require.NotNil(t, job.FinishedAt)
	})

	t.Run("concurrent submits return consistent queued snapshots", func(t *testing.T) {
		router, factory, _ := newTestRouter(t)
		factory.engines[0].setResult(1, 2, 5, 1, 2)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		ids := make([]string, 64)
		var wg sync.WaitGroup
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				submitted := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{
					{Source: 1, Target: 2},
				}})
				// The snapshot is taken before the worker starts, so it
				// can only ever show the queued state.
				assert.Equal(t, JobQueued, submitted.Status)
				assert.Nil(t, submitted.StartedAt)
				ids[i] = submitted.ID
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			job := waitForJob(t, orch, id)
			assert.Equal(t, JobFinished, job.Status)
		}
	})

	t.Run("empty batch finishes with empty result list", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		submitted := orch.Submit(RouteBatchRequest{})
		job := waitForJob(t, orch, submitted.ID)
		assert.Equal(t, JobFinished, job.Status)
		assert.Empty(t, job.Result)
	})
}

func TestJobStateMachine(t *testing.T) {
	now := time.Now()

	t.Run("terminal transitions only fire from running", func(t *testing.T) {
		job := &Job{Status: JobQueued}

		job.markFinished(now, []RouteBatchItem{{}})
		assert.Equal(t, JobQueued, job.Status)
		assert.Nil(t, job.Result)

		job.markFailed(now, "boom")
		assert.Equal(t, JobQueued, job.Status)
		assert.Empty(t, job.ErrorMessage)
	})

	t.Run("terminal states never regress or repeat", func(t *testing.T) {
		job := &Job{Status: JobQueued}
		job.markRunning(now)
		job.markFinished(now, []RouteBatchItem{{}})

		job.markFailed(now, "boom")
		assert.Equal(t, JobFinished, job.Status)
		assert.Empty(t, job.ErrorMessage)
		assert.Len(t, job.Result, 1)

		job.markRunning(now)
		assert.Equal(t, JobFinished, job.Status)
	})

	t.Run("finished carries result, failed carries message", func(t *testing.T) {
		finished := &Job{Status: JobRunning}
		finished.markFinished(now, []RouteBatchItem{{}})
		assert.NotNil(t, finished.Result)
		assert.Empty(t, finished.ErrorMessage)

		failed := &Job{Status: JobRunning}
		failed.markFailed(now, "boom")
		assert.Nil(t, failed.Result)
		assert.Equal(t, "boom", failed.ErrorMessage)
	})
}

func TestJobOrchestratorGetJob(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		_, err := orch.GetJob("nope")
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("snapshots are defensive copies", func(t *testing.T) {
		router, factory, _ := newTestRouter(t)
		factory.engines[0].setResult(1, 2, 5, 1, 2)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		submitted := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{{Source: 1, Target: 2}}})
		job := waitForJob(t, orch, submitted.ID)

		job.Result[0].Response.TotalWeight = -1
		again, err := orch.GetJob(submitted.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, again.Result[0].Response.TotalWeight)
	})
}

func TestJobOrchestratorMetrics(t *testing.T) {
	t.Run("counts sum to submitted jobs and mean is recorded", func(t *testing.T) {
		router, factory, _ := newTestRouter(t)
		factory.engines[0].setResult(1, 2, 5, 1, 2)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		ok := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{{Source: 1, Target: 2}}})
		bad := orch.Submit(RouteBatchRequest{Queries: []RouteRequest{{Source: 1, Target: 2, Profile: "x"}}})
		waitForJob(t, orch, ok.ID)
		waitForJob(t, orch, bad.ID)

		m := orch.Metrics()
		assert.Equal(t, 2, m.QueueLength+m.RunningJobs+m.FinishedJobs+m.FailedJobs)
		assert.Equal(t, 1, m.FinishedJobs)
		assert.Equal(t, 1, m.FailedJobs)
		require.NotNil(t, m.MeanCompletionMS)
		assert.GreaterOrEqual(t, *m.MeanCompletionMS, 0.0)
	})

	t.Run("empty orchestrator reports zeroes", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		orch := NewJobOrchestrator(router, JobOrchestratorOptions{})

		m := orch.Metrics()
		assert.Zero(t, m.QueueLength)
		assert.Zero(t, m.FinishedJobs)
		assert.Nil(t, m.MeanCompletionMS)
	})
}
