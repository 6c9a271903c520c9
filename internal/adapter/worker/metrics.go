package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "studio_campaigns"

var (
	sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "sends_total",
		Help:      "Send attempts by recorded outcome",
	}, []string{"outcome"})

	sendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "send_duration_seconds",
		Help:      "Mail provider call latency",
		Buckets:   prometheus.DefBuckets,
	})

	sendsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "sends_in_flight",
		Help:      "Sends currently waiting on the mail provider",
	})

	claimedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "claimed_total",
		Help:      "Deliveries claimed for sending",
	})

	releasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "released_total",
		Help:      "Claimed deliveries returned to pending unsent",
	})

	staleRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "stale_recovered_total",
		Help:      "Deliveries whose claim lease expired",
	})

	quotaPausesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "quota_pauses_total",
		Help:      "Dispatch passes paused by provider quota or the daily cap",
	})

	campaignsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "dispatch",
		Name:      "campaigns_completed_total",
		Help:      "Campaigns that drained, by final status",
	}, []string{"status"})

	retryRequeuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "retry",
		Name:      "requeued_total",
		Help:      "Failed deliveries requeued by the retry scheduler",
	})
)
