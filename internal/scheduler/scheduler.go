package scheduler

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers publish attempts on a cron spec. Runs never overlap: a
// tick that fires while the previous attempt is still going is skipped, so a
// slow posting backend cannot queue up a burst of publishes.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	job      func()
	running  atomic.Bool
}

// New creates a scheduler for the given cron spec and timezone.
func New(spec, timezone string, job func()) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	c := cron.New(cron.WithLocation(loc))
	s := &Scheduler{cron: c, location: loc, job: job}
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("add cron: %w", err)
	}
	return s, nil
}

// Start begins cron execution.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Location returns the scheduler location.
func (s *Scheduler) Location() *time.Location {
	return s.location
}

func (s *Scheduler) run() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)
	s.job()
}
