package routing

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// JobStatus is the lifecycle state of one asynchronous batch job.
// The only legal sequences are queued → running → finished and
// queued → running → failed; transitions never repeat or regress.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobRunning  JobStatus = "running"
	JobFinished JobStatus = "finished"
	JobFailed   JobStatus = "failed"
)

// Job wraps one batch of route queries with lifecycle tracking. Result
// is populated only by the finished transition and ErrorMessage only by
// the failed one; both transitions set their payload together with the
// status, so no finished-without-result state can be observed.
type Job struct {
	ID           string            `json:"id"`
	Request      RouteBatchRequest `json:"request"`
	Status       JobStatus         `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	StartedAt    *time.Time        `json:"started_at,omitempty"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Result       []RouteBatchItem  `json:"result,omitempty"`
}

// ExecutionTimeMS is the wall time between the running and terminal
// transitions, or nil while the job has not finished.
func (j *Job) ExecutionTimeMS() *float64 {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return nil
	}
	ms := float64(j.FinishedAt.Sub(*j.StartedAt)) / float64(time.Millisecond)
	return &ms
}

// JobMetrics aggregates the job table at one observation point. The
// counts always sum to the number of jobs ever submitted. Mean is an
// arithmetic average over all completions so far, not windowed.
type JobMetrics struct {
	QueueLength      int      `json:"queue_length"`
	RunningJobs      int      `json:"running_jobs"`
	FinishedJobs     int      `json:"finished_jobs"`
	FailedJobs       int      `json:"failed_jobs"`
	MeanCompletionMS *float64 `json:"mean_completion_ms,omitempty"`
}

// JobOrchestrator queues, executes and reports on asynchronous batch
// jobs. Execution is bounded by a worker semaphore sized to the
// deployment's parallelism; submission never blocks. The job table has
// its own lock, never held together with the graph lock. Jobs are kept
// for the process lifetime; there is no cancellation of in-flight work.
type JobOrchestrator struct {
	router  *Router
	workers *semaphore.Weighted
	logger  *slog.Logger

	mu             sync.Mutex
	jobs           map[string]*Job
	completedTimes []float64
}

// JobOrchestratorOptions tune the orchestrator. Zero values select the
// defaults.
type JobOrchestratorOptions struct {
	// MaxWorkers bounds concurrent job execution. Defaults to
	// clamp(2, 32, 2×GOMAXPROCS).
	MaxWorkers int
	Logger     *slog.Logger
}

// NewJobOrchestrator wires a bounded worker pool over the given router.
func NewJobOrchestrator(router *Router, opts JobOrchestratorOptions) *JobOrchestrator {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = 2 * runtime.GOMAXPROCS(0)
		if workers < 2 {
			workers = 2
		}
		if workers > 32 {
			workers = 32
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobOrchestrator{
		router:  router,
		workers: semaphore.NewWeighted(int64(workers)),
		logger:  logger,
		jobs:    make(map[string]*Job),
	}
}

// Submit inserts a queued job and hands it to the pool, returning a
// snapshot of the queued job immediately.
func (o *JobOrchestrator) Submit(req RouteBatchRequest) Job {
	job := &Job{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    JobQueued,
		CreatedAt: time.Now(),
	}

	// Snapshot before the worker is spawned: once run() is live the job
	// may only be read under o.mu.
	o.mu.Lock()
	o.jobs[job.ID] = job
	snapshot := copyJob(job)
	o.mu.Unlock()

	o.logger.Info("job submitted", "jobID", job.ID, "queries", len(req.Queries))

	go o.run(job.ID)

	return snapshot
}

func (o *JobOrchestrator) run(jobID string) {
	ctx := context.Background()
	if err := o.workers.Acquire(ctx, 1); err != nil {
		return
	}
	defer o.workers.Release(1)

	o.mu.Lock()
	job, ok := o.jobs[jobID]
	if !ok {
		o.mu.Unlock()
		return
	}
	request := job.Request
	job.markRunning(time.Now())
	o.mu.Unlock()

	result, err := o.router.FindRoutesBatch(ctx, request)
	finished := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok = o.jobs[jobID]
	if !ok {
		return
	}
	if err != nil {
		job.markFailed(finished, err.Error())
		o.logger.Error("job failed", "jobID", jobID, "error", err)
		return
	}
	job.markFinished(finished, result)
	if ms := job.ExecutionTimeMS(); ms != nil {
		o.completedTimes = append(o.completedTimes, *ms)
	}
	o.logger.Info("job finished", "jobID", jobID, "results", len(result))
}

func (j *Job) markRunning(at time.Time) {
	if j.Status != JobQueued {
		return
	}
	j.Status = JobRunning
	j.StartedAt = &at
}

func (j *Job) markFinished(at time.Time, result []RouteBatchItem) {
	if j.Status != JobRunning {
		return
	}
	j.Status = JobFinished
	j.FinishedAt = &at
	j.Result = result
}

func (j *Job) markFailed(at time.Time, msg string) {
	if j.Status != JobRunning {
		return
	}
	j.Status = JobFailed
	j.FinishedAt = &at
	j.ErrorMessage = msg
}

// GetJob returns a defensive snapshot of the job, or ErrJobNotFound.
// Observers never receive a reference the executing worker can mutate.
func (o *JobOrchestrator) GetJob(id string) (Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok := o.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return copyJob(job), nil
}

// Metrics computes the aggregate view of the job table on demand.
func (o *JobOrchestrator) Metrics() JobMetrics {
	o.mu.Lock()
	defer o.mu.Unlock()

	var m JobMetrics
	for _, j := range o.jobs {
		switch j.Status {
		case JobQueued:
			m.QueueLength++
		case JobRunning:
			m.RunningJobs++
		case JobFinished:
			m.FinishedJobs++
		case JobFailed:
			m.FailedJobs++
		}
	}
	if len(o.completedTimes) > 0 {
		sum := 0.0
		for _, t := range o.completedTimes {
			sum += t
		}
		mean := sum / float64(len(o.completedTimes))
		m.MeanCompletionMS = &mean
	}
	return m
}

func copyJob(j *Job) Job {
	out := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		out.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		out.FinishedAt = &t
	}
	if j.Result != nil {
		out.Result = make([]RouteBatchItem, len(j.Result))
		copy(out.Result, j.Result)
	}
	return out
}
