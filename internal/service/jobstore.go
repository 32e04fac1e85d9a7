package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendify/spendify/internal/budget"
	"github.com/spendify/spendify/internal/forecast"
)

// JobStatus tracks a forecast job through its lifecycle.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// ForecastJob is an async forecast request and, once completed, its result.
type ForecastJob struct {
	ID          string           `json:"id"`
	Status      JobStatus        `json:"status"`
	HorizonDays int              `json:"horizon_days"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt time.Time        `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
	Result      *forecast.Result `json:"result,omitempty"`
	Plan        *budget.Plan     `json:"plan,omitempty"`
}

// JobStore manages in-memory async forecast jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*ForecastJob
	ttl  time.Duration
	done chan struct{}
}

// NewJobStore creates a job store with background expiry of old jobs.
func NewJobStore(ttl time.Duration) *JobStore {
	js := &JobStore{
		jobs: make(map[string]*ForecastJob),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go js.cleanup()
	return js
}

// Create registers a new pending job and returns a caller-owned copy. The
// store never hands out its internal instances, so callers can mutate and
// Update without racing readers.
func (js *JobStore) Create(horizonDays int) *ForecastJob {
	job := &ForecastJob{
		ID:          uuid.New().String(),
		Status:      JobPending,
		HorizonDays: horizonDays,
		CreatedAt:   time.Now(),
	}
	js.mu.Lock()
	defer js.mu.Unlock()
	stored := *job
	js.jobs[job.ID] = &stored
	return job
}

// Get retrieves a copy of a job by ID.
func (js *JobStore) Get(id string) (*ForecastJob, error) {
	js.mu.RLock()
	defer js.mu.RUnlock()
	job, ok := js.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	copied := *job
	return &copied, nil
}

// Update replaces a stored job.
func (js *JobStore) Update(job *ForecastJob) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if _, ok := js.jobs[job.ID]; !ok {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	copied := *job
	js.jobs[job.ID] = &copied
	return nil
}

// Stop signals the background cleanup goroutine to exit.
func (js *JobStore) Stop() {
	close(js.done)
}

func (js *JobStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-js.done:
			return
		case <-ticker.C:
			js.mu.Lock()
			now := time.Now()
			for id, job := range js.jobs {
				if now.Sub(job.CreatedAt) > js.ttl {
					delete(js.jobs, id)
				}
			}
			js.mu.Unlock()
		}
	}
}
