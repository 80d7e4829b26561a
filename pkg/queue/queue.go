// Package queue provides background job processing. Jobs are serialized
// as JSON envelopes, pushed through a driver (in-memory or Redis), and
// executed by a bounded worker pool with retry and failure persistence.
//
// Usage:
//
//	type OrderConfirmationJob struct { OrderID string }
//	func (j OrderConfirmationJob) Handle() error { ... }
//
//	queue.Register("jobs.OrderConfirmationJob", func() queue.Job {
//	    return &jobs.OrderConfirmationJob{}
//	})
//	queue.Dispatch(jobs.OrderConfirmationJob{OrderID: id})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gametribe/backend/pkg/logger"
	"github.com/gametribe/backend/pkg/metrics"
	"github.com/gametribe/backend/pkg/workerpool"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. A non-nil error triggers a retry.
	Handle() error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Manager owns the driver, the job registry, and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver. Call before StartWorkers.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many times a failing job is retried.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialization by name.
// Call once at boot for every job type.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately. The envelope type is
// the job's Go type name, so Register with the same name.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// DispatchAfter pushes job onto the queue after a delay. With the Redis
// driver the job lands in the delayed sorted set; with the memory driver
// a goroutine sleeps out the delay.
func DispatchAfter(job Job, delay time.Duration) {
	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	if rd, ok := d.(*RedisDriver); ok {
		env, err := marshalEnvelope(job)
		if err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
			return
		}
		if err := rd.PushDelayed(env, delay); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
		return
	}

	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

func marshalEnvelope(job Job) ([]byte, error) {
	typeName := fmt.Sprintf("%T", job)

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}
	env, err := json.Marshal(envelope{Type: typeName, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func (m *Manager) push(job Job) error {
	env, err := marshalEnvelope(job)
	if err != nil {
		return err
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// StartWorkers launches a pop loop that feeds jobs into a bounded pool of
// n workers. Runs until ctx is cancelled; Shutdown of the pool waits for
// in-flight jobs.
func StartWorkers(ctx context.Context, n int) {
	pool := workerpool.New(n)

	go func() {
		defer pool.Shutdown()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			defaultManager.mu.RLock()
			d := defaultManager.driver
			defaultManager.mu.RUnlock()

			raw, err := d.Pop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if raw == nil {
				continue
			}

			payload := raw
			if err := pool.SubmitWait(func() { defaultManager.process(payload) }); err != nil {
				return
			}
		}
	}()

	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) process(raw []byte) {
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
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(job, env.Type)
}

func (m *Manager) runWithRetry(job Job, typeName string) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", typeName, "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second)
			continue
		}
		metrics.RecordQueueJob(typeName, "success", start)
		logger.Info("queue: job processed", "type", typeName)
		return
	}

	metrics.RecordQueueJob(typeName, "failed", start)
	m.persistFailed(job, typeName, lastErr, m.maxRetry)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}
