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

// Business metric names
const (
	MetricNameRollsTotal            = "rolls_total"
	MetricNameCraftsTotal           = "crafts_total"
	MetricNameTradesTotal           = "trades_total"
	MetricNameSearchesTotal         = "searches_total"
	MetricNameConfirmationsResolved = "confirmations_resolved_total"
	MetricNameCommandsTotal         = "commands_total"
	MetricNameCommandErrors         = "command_errors_total"
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

// Business metric help text
const (
	HelpTextRollsTotal            = "Total number of item rolls"
	HelpTextCraftsTotal           = "Total number of craft attempts"
	HelpTextTradesTotal           = "Total number of trade attempts"
	HelpTextSearchesTotal         = "Total number of catalog searches"
	HelpTextConfirmationsResolved = "Total number of resolved confirmation gates"
	HelpTextCommandsTotal         = "Total number of commands handled"
	HelpTextCommandErrors         = "Total number of command handler errors"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelKind    = "kind"
	LabelOutcome = "outcome"
	LabelCommand = "command"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// metrics. Covers the range from fast health checks to slow queries.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeExpired  = "expired"
	OutcomeDeclined = "declined"
)
