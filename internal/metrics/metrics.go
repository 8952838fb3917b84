package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Upstream Metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequestsTotal,
			Help: HelpTextUpstreamRequestsTotal,
		},
		[]string{LabelService, LabelStatus},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameUpstreamRequestDuration,
			Help:    HelpTextUpstreamRequestDuration,
			Buckets: UpstreamLatencyBuckets,
		},
		[]string{LabelService},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRetries,
			Help: HelpTextUpstreamRetries,
		},
		[]string{LabelService},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheLookups,
			Help: HelpTextCacheLookups,
		},
		[]string{LabelCache, LabelResult},
	)
)

// Business Metrics
var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecommendationsServed,
			Help: HelpTextRecommendationsServed,
		},
		[]string{LabelView, LabelKind},
	)

	RecommendationDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecommendationDegrade,
			Help: HelpTextRecommendationDegrade,
		},
		[]string{LabelReason},
	)

	GroupMembersSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGroupMembersSkipped,
			Help: HelpTextGroupMembersSkipped,
		},
	)

	DiscordCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiscordCommands,
			Help: HelpTextDiscordCommands,
		},
		[]string{LabelCommand},
	)
)
