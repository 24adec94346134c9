package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	housesCreatedTotal     prometheus.Counter
	votesCastTotal         prometheus.Counter
	activitiesDecidedTotal *prometheus.CounterVec
	rewardsMintedTotal     prometheus.Counter
	rewardFailuresTotal    prometheus.Counter
	notificationsPublished *prometheus.CounterVec
	sseClientsActive       prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haus_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "haus_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haus_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		housesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haus_houses_created_total",
			Help: "Total number of houses created.",
		})

		votesCastTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haus_votes_cast_total",
			Help: "Total number of ballots recorded.",
		})

		activitiesDecidedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haus_activities_decided_total",
			Help: "Total number of activities reaching a terminal decision.",
		}, []string{"decision"})

		rewardsMintedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haus_reward_tokens_minted_total",
			Help: "Total number of reward tokens successfully minted.",
		})

		rewardFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haus_reward_failures_total",
			Help: "Total number of reward payouts that failed or were left pending.",
		})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haus_notifications_published_total",
			Help: "Total number of governance notifications published.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haus_sse_clients_active",
			Help: "Number of currently connected SSE notification clients.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			housesCreatedTotal,
			votesCastTotal,
			activitiesDecidedTotal,
			rewardsMintedTotal,
			rewardFailuresTotal,
			notificationsPublished,
			sseClientsActive,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// HousesCreatedTotal exposes the house creation counter.
func HousesCreatedTotal() prometheus.Counter {
	RegisterMetrics()
	return housesCreatedTotal
}

// VotesCastTotal exposes the ballot counter.
func VotesCastTotal() prometheus.Counter {
	RegisterMetrics()
	return votesCastTotal
}

// ActivitiesDecidedTotal exposes the decision counter labelled by outcome.
func ActivitiesDecidedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return activitiesDecidedTotal
}

// RewardsMintedTotal exposes the minted token counter.
func RewardsMintedTotal() prometheus.Counter {
	RegisterMetrics()
	return rewardsMintedTotal
}

// RewardFailuresTotal exposes the failed payout counter.
func RewardFailuresTotal() prometheus.Counter {
	RegisterMetrics()
	return rewardFailuresTotal
}

// NotificationsPublishedTotal exposes the notification counter labelled by type.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive exposes the active SSE client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
