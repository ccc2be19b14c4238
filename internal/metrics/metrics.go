package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noteViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_note_views_total",
		Help: "Number of view-tracking calls grouped by result (counted/deduplicated/error).",
	}, []string{"result"})

	statsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_stats_requests_total",
		Help: "Number of admin statistics requests grouped by cache outcome.",
	}, []string{"source"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	refreshRotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_refresh_rotations_total",
		Help: "Number of refresh rotations grouped by status.",
	}, []string{"status"})

	logoutEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_logout_events_total",
		Help: "Number of logout attempts grouped by status.",
	}, []string{"status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plumenote_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncNoteView increments the view-tracking counter.
func IncNoteView(result string) {
	noteViews.WithLabelValues(result).Inc()
}

// IncStatsRequest increments the stats request counter.
func IncStatsRequest(source string) {
	statsRequests.WithLabelValues(source).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRefresh increments the refresh rotation counter.
func IncRefresh(status string) {
	refreshRotations.WithLabelValues(status).Inc()
}

// IncLogout increments the logout counter.
func IncLogout(status string) {
	logoutEvents.WithLabelValues(status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
