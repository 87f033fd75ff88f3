package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seabattle"

// Attack outcomes.
const (
	OutcomeMiss    = "miss"
	OutcomeHit     = "hit"
	OutcomeSink    = "sink"
	OutcomeIgnored = "ignored"
)

// Metrics holds the Prometheus collectors for the game server.
type Metrics struct {
	connections    *prometheus.CounterVec
	attacks        *prometheus.CounterVec
	sessionsEnded  *prometheus.CounterVec
	playersActive  prometheus.Gauge
	attackDuration prometheus.Histogram
}

// New registers the collectors on reg. A nil reg uses a private registry,
// which keeps repeated construction in tests from colliding.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		connections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections that asked for a seat, by result",
		}, []string{"result"}),

		attacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attacks_total",
			Help:      "Attack requests by outcome",
		}, []string{"outcome"}),

		sessionsEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Sessions torn down, by status",
		}, []string{"status"}),

		playersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_active",
			Help:      "Tickets issued in the current session",
		}),

		attackDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attack_duration_seconds",
			Help:      "Time spent resolving one attack request",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}

func (m *Metrics) Connection(accepted bool) {
	if accepted {
		m.connections.WithLabelValues("accepted").Inc()
		return
	}
	m.connections.WithLabelValues("rejected").Inc()
}

func (m *Metrics) Attack(outcome string, took time.Duration) {
	m.attacks.WithLabelValues(outcome).Inc()
	m.attackDuration.Observe(took.Seconds())
}

func (m *Metrics) SessionEnded(status string) {
	m.sessionsEnded.WithLabelValues(status).Inc()
}

func (m *Metrics) PlayersActive(n int) {
	m.playersActive.Set(float64(n))
}
