// Package metrics exposes Prometheus counters for contact discovery.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeEmpty              = "empty"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeDomainUnconfigured = "domain_unconfigured"
	OutcomeDomainConflict     = "domain_conflict"
	OutcomeCanceled           = "canceled"
)

// Sourcing outcomes.
const (
	SourcingOK           = "ok"
	SourcingError        = "error"
	SourcingTimeout      = "timeout"
	SourcingRateLimited  = "rate_limited"
	SourcingLargeCompany = "large_company"
)

var (
	// requestsTotal counts discovery requests.
	// Labels:
	// - outcome: success, empty, invalid_input, domain_unconfigured, domain_conflict, canceled
	// - cached:  "true" or "false"
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "discovery",
			Name:      "requests_total",
			Help:      "Number of contact discovery requests by outcome",
		},
		[]string{"outcome", "cached"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "outreach",
			Subsystem: "discovery",
			Name:      "request_duration_seconds",
			Help:      "Duration of uncached contact discovery requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// candidatesTotal counts candidates returned to callers.
	// Labels:
	// - kind: "role-based" or "public contact"
	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "discovery",
			Name:      "candidates_total",
			Help:      "Number of candidate contacts returned by kind",
		},
		[]string{"kind"},
	)

	filteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "discovery",
			Name:      "filtered_candidates_total",
			Help:      "Number of candidates removed by the safety filter",
		},
	)

	// cacheLookups counts response cache lookups.
	// Labels:
	// - result: "hit" or "miss"
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Number of response cache lookups",
		},
		[]string{"result"},
	)

	// sourcingTotal counts public-name sourcing attempts.
	// Labels:
	// - outcome: ok, error, timeout, rate_limited, large_company
	sourcingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "sourcing",
			Name:      "attempts_total",
			Help:      "Number of public-name sourcing attempts by outcome",
		},
		[]string{"outcome"},
	)

	// mxLookups counts MX checks.
	// Labels:
	// - result: "found" or "missing"
	mxLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "dns",
			Name:      "mx_lookups_total",
			Help:      "Number of MX record checks by result",
		},
		[]string{"result"},
	)
)

// IncRequest records one discovery request.
func IncRequest(outcome string, cached bool) {
	if outcome == "" {
		outcome = "unknown"
	}
	c := "false"
	if cached {
		c = "true"
	}
	requestsTotal.WithLabelValues(outcome, c).Inc()
}

// ObserveRequestDuration records how long an uncached request took.
func ObserveRequestDuration(outcome string, d time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	requestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// AddCandidates records n returned candidates of the given kind.
func AddCandidates(kind string, n int) {
	if n <= 0 {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	candidatesTotal.WithLabelValues(kind).Add(float64(n))
}

// AddFiltered records n candidates removed by the safety filter.
func AddFiltered(n int) {
	if n > 0 {
		filteredTotal.Add(float64(n))
	}
}

// IncCacheLookup records a cache hit or miss.
func IncCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// IncSourcing records one sourcing attempt.
func IncSourcing(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	sourcingTotal.WithLabelValues(outcome).Inc()
}

// IncMXLookup records one MX check.
func IncMXLookup(found bool) {
	if found {
		mxLookups.WithLabelValues("found").Inc()
		return
	}
	mxLookups.WithLabelValues("missing").Inc()
}
