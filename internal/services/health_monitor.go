package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mepapp/calltrack/internal/logging"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/models/dtos"

	"github.com/sony/gobreaker/v2"
)

// IdentityProber asks the server who a token belongs to.
type IdentityProber interface {
	WhoAmI(ctx context.Context, token string) (*dtos.WhoAmIResponse, error)
}

// SessionInvalidator reads and drops the device session token.
type SessionInvalidator interface {
	TokenSource
	InvalidateSession(ctx context.Context) error
}

// HealthSettings configures the session health breaker.
type HealthSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	ProbeTimeout     time.Duration
}

// ProbeOutcome is the result label of one health probe.
type ProbeOutcome string

const (
	ProbeOK       ProbeOutcome = "ok"
	ProbeFailed   ProbeOutcome = "failed"
	ProbeRejected ProbeOutcome = "rejected"
	ProbeSkipped  ProbeOutcome = "skipped"
)

// HealthMonitor probes the session through a circuit breaker. Every transition
// of the breaker into the open state invalidates the session once. Each new
// session token starts with a fresh breaker.
type HealthMonitor struct {
	prober       IdentityProber
	session      SessionInvalidator
	settings     HealthSettings
	probeTimeout time.Duration
	metrics      *metrics.AgentMetrics

	mu      sync.RWMutex
	breaker *gobreaker.CircuitBreaker[*dtos.WhoAmIResponse]
	// token the current breaker counts failures for
	boundToken string

	// set under the breaker lock, consumed after Execute returns
	tripped atomic.Bool
}

func NewHealthMonitor(prober IdentityProber, session SessionInvalidator, cfg HealthSettings, m *metrics.AgentMetrics) *HealthMonitor {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}

	h := &HealthMonitor{
		prober:       prober,
		session:      session,
		settings:     cfg,
		probeTimeout: cfg.ProbeTimeout,
		metrics:      m,
	}
	h.breaker = h.newBreaker()
	return h
}

func (h *HealthMonitor) newBreaker() *gobreaker.CircuitBreaker[*dtos.WhoAmIResponse] {
	threshold := h.settings.FailureThreshold
	return gobreaker.NewCircuitBreaker[*dtos.WhoAmIResponse](gobreaker.Settings{
		Name:        "session-health",
		MaxRequests: 1,
		Timeout:     h.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info("Health breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			h.metrics.BreakerState.Set(float64(to))
			if to == gobreaker.StateOpen {
				h.tripped.Store(true)
			}
		},
	})
}

// breakerFor returns the breaker counting failures for token, replacing the
// current one when the session token has changed since it was built.
func (h *HealthMonitor) breakerFor(token string) *gobreaker.CircuitBreaker[*dtos.WhoAmIResponse] {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.boundToken != token {
		if h.boundToken != "" {
			logging.Info("Session token changed, resetting health breaker")
		}
		h.breaker = h.newBreaker()
		h.boundToken = token
		h.tripped.Store(false)
		h.metrics.BreakerState.Set(float64(gobreaker.StateClosed))
	}
	return h.breaker
}

// Probe runs one health check. It is skipped without a session token and
// rejected without a network call while the breaker is open.
func (h *HealthMonitor) Probe(ctx context.Context) (ProbeOutcome, error) {
	token, err := h.session.CurrentSessionToken(ctx)
	if err != nil {
		return ProbeFailed, fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		// The next login starts a fresh breaker, even with the same token.
		h.mu.Lock()
		h.boundToken = ""
		h.mu.Unlock()
		h.metrics.HealthProbes.WithLabelValues(string(ProbeSkipped)).Inc()
		return ProbeSkipped, nil
	}

	breaker := h.breakerFor(token)
	_, err = breaker.Execute(func() (*dtos.WhoAmIResponse, error) {
		pctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
		defer cancel()
		return h.prober.WhoAmI(pctx, token)
	})

	if h.tripped.CompareAndSwap(true, false) {
		h.invalidate(ctx)
	}

	outcome := ProbeOK
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = ProbeRejected
		err = nil
	default:
		outcome = ProbeFailed
		logging.Warn("Session health probe failed", "error", err.Error())
	}
	h.metrics.HealthProbes.WithLabelValues(string(outcome)).Inc()
	return outcome, err
}

func (h *HealthMonitor) invalidate(ctx context.Context) {
	if err := h.session.InvalidateSession(context.WithoutCancel(ctx)); err != nil {
		logging.Error("Failed to invalidate session", "error", err.Error())
		return
	}
	h.metrics.SessionInvalidations.Inc()
	logging.Warn("Session invalidated after consecutive health probe failures")
}

// State returns the breaker state name (closed, half-open, open).
func (h *HealthMonitor) State() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.breaker.State().String()
}
