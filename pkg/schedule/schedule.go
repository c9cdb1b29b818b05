// Package schedule runs recurring in-process tasks.
//
//	schedule.Every(1).Minutes().
//	    Name("orders:sweep-pending").
//	    WithoutOverlapping().
//	    Run(sweep)
//
//	schedule.Start(ctx) // once at boot
//
// A task first runs on the tick after Start and then whenever its interval
// has elapsed since the previous run.
package schedule

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

// Task is a scheduled function. Its context ends when the scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Schedule configures one entry before it is registered with Run.
type Schedule struct {
	s *Scheduler
	e *entry
}

// Scheduler holds registered entries and dispatches them.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	tick    time.Duration
	wg      sync.WaitGroup
}

// New returns a scheduler that checks for due tasks every tick.
func New(tick time.Duration) *Scheduler {
	return &Scheduler{tick: tick}
}

// Default is the process-wide scheduler, ticking every second.
var Default = New(time.Second)

// Every starts a builder on the default scheduler.
func Every(n int) *Frequency { return Default.Every(n) }

// Start runs the default scheduler until ctx ends.
func Start(ctx context.Context) { Default.Start(ctx) }

// List describes the default scheduler's entries.
func List() []string { return Default.List() }

// Frequency picks the unit of an interval.
type Frequency struct {
	s *Scheduler
	n int
}

func (s *Scheduler) Every(n int) *Frequency { return &Frequency{s: s, n: n} }

func (f *Frequency) build(unit time.Duration) *Schedule {
	return &Schedule{s: f.s, e: &entry{interval: time.Duration(f.n) * unit}}
}

func (f *Frequency) Seconds() *Schedule { return f.build(time.Second) }
func (f *Frequency) Minutes() *Schedule { return f.build(time.Minute) }
func (f *Frequency) Hours() *Schedule   { return f.build(time.Hour) }

// WithoutOverlapping skips a run while the previous one is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name sets the identifier used in logs and List.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers fn.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	s.s.add(s.e)
}

func (s *Scheduler) add(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.id == "" {
		e.id = fmt.Sprintf("task-%d", len(s.entries)+1)
	}
	s.entries = append(s.entries, e)
}

// Start launches the dispatch loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
	logger.Info("schedule: started", "tasks", len(s.List()))
}

// Wait blocks until the loop and every running task have returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			s.mu.Lock()
			due := make([]*entry, 0, len(s.entries))
			for _, e := range s.entries {
				if e.isDue(now) {
					due = append(due, e)
				}
			}
			s.mu.Unlock()
			for _, e := range due {
				s.dispatch(ctx, e, now)
			}
		}
	}
}

func (e *entry) isDue(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: previous run still going, skipping", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()
		logger.Debug("schedule: running task", "id", e.id)
		e.task(ctx)
	}()
}

// List returns "id  [interval]" for every entry.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s  [every %s]", e.id, e.interval))
	}
	return out
}
