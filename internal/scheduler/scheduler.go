// Package scheduler enqueues background tasks on cron schedules.
//
// Jobs never do work themselves. Each tick puts a task on the queue, which
// runs and retries it.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

// Enqueuer saves tasks to the task queue.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// Job is a named schedule producing one task per tick.
type Job struct {
	Name     string
	Schedule string
	Task     func() backlite.Task
}

type Scheduler struct {
	enqueuer Enqueuer
	cron     *cron.Cron

	mu        sync.RWMutex
	entries   map[string]cron.EntryID
	isRunning bool
}

func New(enqueuer Enqueuer) *Scheduler {
	return &Scheduler{
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(parser)),
		entries:  make(map[string]cron.EntryID),
	}
}

// Add registers a job. An empty schedule disables the job.
func (s *Scheduler) Add(job Job) error {
	if job.Schedule == "" {
		log.Printf("Scheduler: %s disabled (no schedule)", job.Name)
		return nil
	}
	if job.Task == nil {
		return fmt.Errorf("job %s has no task", job.Name)
	}
	if err := ValidateSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[job.Name]; exists {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() {
		s.enqueue(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}
	s.entries[job.Name] = entryID

	log.Printf("Scheduler: %s scheduled with '%s' (%s)", job.Name, job.Schedule, Describe(job.Schedule))
	return nil
}

// Start runs the cron loop until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.cron.Start()
	s.mu.Unlock()

	log.Printf("Scheduler: started with %d job(s)", len(s.cron.Entries()))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop waits for running ticks to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false

	log.Printf("Scheduler: stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job fires next, or nil if it is not scheduled
// or the scheduler is stopped.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entryID, ok := s.entries[name]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(entryID).Next
	if next.IsZero() {
		return nil
	}
	return &next
}

// Jobs returns the names of registered jobs.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) enqueue(job Job) {
	ids, err := s.enqueuer.Enqueue(job.Task())
	if err != nil {
		log.Printf("Scheduler: failed to enqueue %s: %v", job.Name, err)
		return
	}
	log.Printf("Scheduler: enqueued %s (task %v)", job.Name, ids)
}
