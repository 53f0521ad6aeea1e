package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// unhealthyThreshold is the number of consecutive failures after which the
// upstream is reported unhealthy.
const unhealthyThreshold = 3

// Health is a snapshot of upstream health derived from live traffic.
type Health struct {
	IsHealthy             bool
	ConsecutiveFailures   int
	LastError             string
	LastCheck             time.Time
	LastSuccessfulRequest time.Time
	TotalRequests         int64
	FailedRequests        int64
}

// healthTracker records call outcomes. Only transport failures and 5xx
// responses count against health; 4xx responses are caller mistakes.
type healthTracker struct {
	mu     sync.RWMutex
	health Health
}

func newHealthTracker() *healthTracker {
	now := time.Now()
	return &healthTracker{
		health: Health{
			IsHealthy:             true,
			LastCheck:             now,
			LastSuccessfulRequest: now,
		},
	}
}

func (h *healthTracker) record(call string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.health.LastCheck = time.Now()
	h.health.TotalRequests++

	if !countsAgainstHealth(err) {
		if h.health.ConsecutiveFailures >= unhealthyThreshold {
			slog.Info("upstream marked healthy",
				"call", call,
				"previous_failures", h.health.ConsecutiveFailures,
			)
		}
		h.health.IsHealthy = true
		h.health.ConsecutiveFailures = 0
		h.health.LastError = ""
		h.health.LastSuccessfulRequest = h.health.LastCheck
		return
	}

	h.health.FailedRequests++
	h.health.ConsecutiveFailures++
	h.health.LastError = err.Error()

	if h.health.ConsecutiveFailures == unhealthyThreshold {
		h.health.IsHealthy = false
		slog.Warn("upstream marked unhealthy",
			"call", call,
			"consecutive_failures", h.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

func (h *healthTracker) snapshot() Health {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.health
}

func countsAgainstHealth(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode >= 500
	}
	// A caller hanging up says nothing about the upstream.
	if te, ok := err.(*TimeoutError); ok && te.Cause == context.Canceled {
		return false
	}
	return true
}

// IsHealthy returns the current health status.
func (c *Client) IsHealthy() bool {
	return c.health.snapshot().IsHealthy
}

// GetHealth returns detailed health information.
func (c *Client) GetHealth() Health {
	return c.health.snapshot()
}

// HealthCheck reports an error while the upstream is considered unhealthy.
// It is passive: no request is sent, the verdict comes from recent traffic.
func (c *Client) HealthCheck(ctx context.Context) error {
	h := c.health.snapshot()
	if h.IsHealthy {
		return nil
	}
	return fmt.Errorf("upstream unhealthy after %d consecutive failures: %s", h.ConsecutiveFailures, h.LastError)
}
