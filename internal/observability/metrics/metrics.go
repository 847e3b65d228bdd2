// Package metrics exposes Prometheus instrumentation for the session core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution outcomes recorded by ObserveResolution.
const (
	ResolutionExisting = "existing"
	ResolutionDefault  = "default"
	ResolutionError    = "error"
)

// Session holds the counters the session core emits. A nil *Session is a
// valid no-op sink so tests and partial wiring never need a registry.
type Session struct {
	roleResolutions     *prometheus.CounterVec
	guardDecisions      *prometheus.CounterVec
	persistenceFailures prometheus.Counter
	policyViolations    prometheus.Counter
}

// NewSession creates and registers the session metrics on reg.
func NewSession(reg prometheus.Registerer) *Session {
	m := &Session{
		roleResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "session_role_resolutions_total",
				Help: "Role resolutions by outcome (existing, default, error).",
			},
			[]string{"outcome"},
		),
		guardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "session_guard_decisions_total",
				Help: "Route guard terminal decisions by state.",
			},
			[]string{"state"},
		),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_persistence_failures_total",
			Help: "Local persistence medium read/write failures.",
		}),
		policyViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_admin_policy_violations_total",
			Help: "Stored admin roles observed without the manually-created marker.",
		}),
	}
	reg.MustRegister(m.roleResolutions, m.guardDecisions, m.persistenceFailures, m.policyViolations)
	return m
}

// ObserveResolution records one role resolution outcome.
func (m *Session) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.roleResolutions.WithLabelValues(outcome).Inc()
}

// ObserveGuardDecision records one terminal guard decision.
func (m *Session) ObserveGuardDecision(state string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(state).Inc()
}

// ObservePersistenceFailure records one persistence failure.
func (m *Session) ObservePersistenceFailure() {
	if m == nil {
		return
	}
	m.persistenceFailures.Inc()
}

// ObservePolicyViolation records one un-marked admin record observation.
func (m *Session) ObservePolicyViolation() {
	if m == nil {
		return
	}
	m.policyViolations.Inc()
}

// Handler returns the Prometheus scrape handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
