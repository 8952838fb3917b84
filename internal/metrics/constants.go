package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Upstream metric names
const (
	MetricNameUpstreamRequestsTotal   = "upstream_requests_total"
	MetricNameUpstreamRequestDuration = "upstream_request_duration_seconds"
	MetricNameUpstreamRetries         = "upstream_retries_total"
	MetricNameCacheLookups            = "cache_lookups_total"
)

// Business metric names
const (
	MetricNameRecommendationsServed = "recommendations_served_total"
	MetricNameRecommendationDegrade = "recommendation_degradations_total"
	MetricNameGroupMembersSkipped   = "group_members_skipped_total"
	MetricNameDiscordCommands       = "discord_commands_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Upstream metric help text
const (
	HelpTextUpstreamRequestsTotal   = "Total number of requests sent to upstream APIs"
	HelpTextUpstreamRequestDuration = "Upstream API latency in seconds"
	HelpTextUpstreamRetries         = "Total number of upstream request retries"
	HelpTextCacheLookups            = "Total number of cache lookups by result"
)

// Business metric help text
const (
	HelpTextRecommendationsServed = "Total number of recommendation requests answered"
	HelpTextRecommendationDegrade = "Total number of degraded recommendation pipelines by reason"
	HelpTextGroupMembersSkipped   = "Total number of roster members skipped during group aggregation"
	HelpTextDiscordCommands       = "Total number of Discord commands handled"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelService = "service"
	LabelCache   = "cache"
	LabelResult  = "result"
	LabelView    = "view"
	LabelKind    = "kind"
	LabelReason  = "reason"
	LabelCommand = "command"
)

// Label values
const (
	ResultHit  = "hit"
	ResultMiss = "miss"

	ViewCharacter = "character"
	ViewGroup     = "group"

	ReasonSummaryUnavailable = "summary_unavailable"
	ReasonReachabilityBypass = "reachability_bypass"
	ReasonCatalogUnavailable = "catalog_unavailable"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// UpstreamLatencyBuckets covers the slower third-party APIs, 10ms to 30s.
var UpstreamLatencyBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
