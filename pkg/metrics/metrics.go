package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Tracker Metrics
	CountriesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelmap_countries_added_total",
			Help: "Total number of visited-country records created",
		},
	)

	AddCountryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelmap_add_country_failures_total",
			Help: "Add-country submissions rejected, by reason",
		},
		[]string{"reason"},
	)

	UsersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelmap_users_created_total",
			Help: "Total number of users created",
		},
	)

	UserSwitches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelmap_user_switches_total",
			Help: "Total number of current-user changes",
		},
	)

	HomeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelmap_home_fallback_renders_total",
			Help: "Home page renders that fell back to the empty view because storage failed",
		},
	)

	// Storage Metrics
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelmap_circuit_breaker_rejections_total",
			Help: "Calls refused because a circuit breaker was open",
		},
		[]string{"name"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors handled by the error handler",
		},
		[]string{"code", "status"},
	)
)

func IncrementCountriesAdded() {
	CountriesAdded.Inc()
}

func IncrementAddCountryFailures(reason string) {
	AddCountryFailures.WithLabelValues(reason).Inc()
}

func IncrementUsersCreated() {
	UsersCreated.Inc()
}

func IncrementUserSwitches() {
	UserSwitches.Inc()
}

func IncrementHomeFallbacks() {
	HomeFallbacks.Inc()
}

func RecordDatabaseQuery(query string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	DatabaseQueryDuration.WithLabelValues(query, status).Observe(duration)
}

func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func IncrementBreakerRejections(name string) {
	CircuitBreakerRejections.WithLabelValues(name).Inc()
}

func RecordError(code, status string) {
	ErrorsTotal.WithLabelValues(code, status).Inc()
}
