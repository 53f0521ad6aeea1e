package health

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Check and overall status values.
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusNotReady  = "not_ready"
)

// CheckFunc reports nil when a component is ready to serve traffic.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status     string  `json:"status"`
	Message    string  `json:"message,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// Status is the body of the liveness and readiness endpoints.
type Status struct {
	// Status is "ok" for liveness, "ready" or "not_ready" for readiness
	Status string `json:"status"`

	// Checks holds per-component results (readiness only)
	Checks map[string]CheckResult `json:"checks,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Ready reports whether the status allows traffic.
func (s Status) Ready() bool {
	return s.Status == StatusOK || s.Status == StatusReady
}

// ErrCheckTimeout is reported when a check outlives the per-check timeout.
var ErrCheckTimeout = errors.New("health check timeout")

// ResultHook is told about every completed check. err is nil when the check
// passed.
type ResultHook func(name string, err error)

// Checker runs the registered readiness checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	checkTimeout time.Duration
	hook         ResultHook
}

// Option customizes a Checker.
type Option func(*Checker)

// WithResultHook registers a hook, for example to mirror the upstream check
// into a metrics gauge.
func WithResultHook(h ResultHook) Option {
	return func(c *Checker) {
		c.hook = h
	}
}

// New creates a health checker. A zero checkTimeout means 5 seconds per check.
func New(checkTimeout time.Duration, opts ...Option) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = 5 * time.Second
	}

	c := &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterCheck registers or replaces the check for a named component.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes the check for a named component.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// ListChecks returns the registered check names, sorted.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := lo.Keys(c.checks)
	slices.Sort(names)
	return names
}

// CheckLiveness reports that the process is up. It never runs checks.
func (c *Checker) CheckLiveness(ctx context.Context) Status {
	return Status{
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
	}
}

// CheckReadiness runs every registered check concurrently. Any failing
// check makes the whole status "not_ready". With no checks registered the
// process is ready.
func (c *Checker) CheckReadiness(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := c.runCheck(ctx, check)
			if c.hook != nil {
				c.hook(name, err)
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status != StatusOK {
			status = StatusNotReady
			break
		}
	}

	return Status{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

// runCheck executes one check under the per-check timeout. A check that
// ignores its context is abandoned, not waited for.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) (CheckResult, error) {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		errCh <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-checkCtx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{
		Status:     StatusOK,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result, err
}
