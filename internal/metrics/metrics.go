package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AccessDecisions     *prometheus.CounterVec
	AuditAppendFailures prometheus.Counter
	LoginFailures       prometheus.Counter
	AuthLockoutsTotal   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AccessDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blpgate_access_decisions_total",
			Help: "Total access mediation decisions by action and outcome",
		}, []string{"action", "outcome"}),
		AuditAppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blpgate_audit_append_failures_total",
			Help: "Total audit records that could not be persisted and fell back to the operational log",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blpgate_login_failures_total",
			Help: "Total failed login attempts",
		}),
		AuthLockoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blpgate_auth_lockouts_total",
			Help: "Total lockouts triggered by repeated failed logins",
		}),
	}
}

func (m *Metrics) ObserveDecision(action, outcome string) {
	m.AccessDecisions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncrementAuditAppendFailures() {
	m.AuditAppendFailures.Inc()
}

func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailures.Inc()
}

func (m *Metrics) IncrementAuthLockouts() {
	m.AuthLockoutsTotal.Inc()
}
