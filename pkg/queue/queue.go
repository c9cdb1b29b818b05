// Package queue runs background jobs with retries.
//
// Jobs are JSON-encoded into an envelope and pushed to a Driver (in-process
// channel or Redis list). Workers pop envelopes, rebuild the job through its
// registered factory and call Handle. A job that still fails after the
// configured attempts is recorded as failed.
//
//	queue.Register("orders.confirm", func() queue.Job { return &ConfirmOrderJob{} })
//	queue.Dispatch(ctx, &ConfirmOrderJob{OrderID: 7})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
)

// Job is a unit of background work. A non-nil error triggers a retry.
type Job interface {
	Handle(ctx context.Context) error
}

// Named lets a job choose its registry name. Jobs without it are keyed by
// their Go type.
type Named interface {
	JobName() string
}

// Driver stores encoded envelopes.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is ready. It may return (nil, nil) on an
	// idle timeout.
	Pop(ctx context.Context) ([]byte, error)
}

// Delayer is implemented by drivers that can hold a job until a later time.
type Delayer interface {
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
}

// FailedJob is a job that exhausted its attempts.
type FailedJob struct {
	Type     string
	Payload  string
	Err      string
	Attempts int
	FailedAt time.Time
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns a driver, the job registry and the workers.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	store    FailedStore
	maxTries int
	backoff  func(attempt int) time.Duration
	wg       sync.WaitGroup
}

// NewManager returns a Manager on d with three attempts per job.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxTries: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

// Default is the process-wide manager used by the package functions.
var Default = NewManager(NewMemoryDriver(1000))

func SetDriver(d Driver) { Default.SetDriver(d) }

func Register(name string, factory func() Job) { Default.Register(name, factory) }

func Dispatch(ctx context.Context, job Job) error { return Default.Dispatch(ctx, job) }

func DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	return Default.DispatchAfter(ctx, job, delay)
}

func StartWorkers(ctx context.Context, n int) { Default.StartWorkers(ctx, n) }

func Wait() { Default.Wait() }

func FailedJobs() []FailedJob { return Default.FailedJobs() }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driver = d
}

// SetMaxTries sets how many times a job runs before it is marked failed.
func (m *Manager) SetMaxTries(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 1 {
		n = 1
	}
	m.maxTries = n
}

// SetBackoff replaces the wait between attempts.
func (m *Manager) SetBackoff(fn func(attempt int) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backoff = fn
}

// Register makes a job type decodable by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

func nameOf(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

func encode(job Job) ([]byte, error) {
	name := nameOf(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// Dispatch pushes job for immediate processing.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	return m.currentDriver().Push(ctx, env)
}

// DispatchAfter pushes job once delay has passed. Drivers without native
// delay support get a timer in this process.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	d := m.currentDriver()
	if dl, ok := d.(Delayer); ok {
		return dl.PushDelayed(ctx, env, delay)
	}
	detached := context.WithoutCancel(ctx)
	time.AfterFunc(delay, func() {
		if err := d.Push(detached, env); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", nameOf(job), "error", err)
		}
	})
	return nil
}

// StartWorkers launches n workers that stop when ctx ends.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
}

// Wait blocks until every worker has returned.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}
		if raw == nil {
			continue
		}
		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		m.recordFailed(ctx, env.Type, string(env.Payload), fmt.Errorf("unregistered job type"), 0)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}
	m.Run(ctx, job)
}

// Run executes job in the calling goroutine with retries and reports
// whether it eventually succeeded.
func (m *Manager) Run(ctx context.Context, job Job) bool {
	m.mu.RLock()
	tries, backoff := m.maxTries, m.backoff
	m.mu.RUnlock()

	name := nameOf(job)
	var lastErr error
	for attempt := 1; attempt <= tries; attempt++ {
		start := time.Now()
		err := safeHandle(ctx, job)
		if err == nil {
			metrics.RecordQueueJob(name, "success", start)
			logger.Debug("queue: job processed", "type", name, "attempt", attempt)
			return true
		}
		metrics.RecordQueueJob(name, "error", start)
		lastErr = err
		logger.Warn("queue: job failed", "type", name, "attempt", attempt, "error", err)

		if attempt < tries {
			select {
			case <-ctx.Done():
				attempt = tries
			case <-time.After(backoff(attempt)):
			}
		}
	}

	payload, _ := json.Marshal(job)
	m.recordFailed(ctx, name, string(payload), lastErr, tries)
	logger.Error("queue: job exhausted retries", "type", name, "error", lastErr)
	return false
}

func safeHandle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Handle(ctx)
}
