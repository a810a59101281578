package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
type Metrics struct {
	TraineesCreated prometheus.Counter
	InvitesSent     prometheus.Counter

	SignupsCreated *prometheus.CounterVec
	Withdrawals    prometheus.Counter

	UpstreamErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers against a caller-provided registry (tests).
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TraineesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "training_trainees_created_total",
			Help: "Total number of trainees enrolled in the membership database",
		}),
		InvitesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "training_invites_sent_total",
			Help: "Total number of welcome invitations emailed",
		}),
		SignupsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "training_signups_created_total",
			Help: "Total number of course signups, labeled by allocation outcome",
		}, []string{"outcome"}),
		Withdrawals: factory.NewCounter(prometheus.CounterOpts{
			Name: "training_withdrawals_total",
			Help: "Total number of signup withdrawals",
		}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "training_upstream_errors_total",
			Help: "Total number of failed external API calls, labeled by service",
		}, []string{"service"}),
	}
}
