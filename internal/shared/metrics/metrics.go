package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeScored   = "scored"
	OutcomeReplay   = "replay"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exitlayer_submissions_total",
		Help: "Audit submissions by outcome",
	}, []string{"outcome"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exitlayer_pipeline_duration_seconds",
		Help:    "Time spent generating the scoring and document bundle",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	overallScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exitlayer_overall_score",
		Help:    "Distribution of overall ExitLayer scores",
		Buckets: prometheus.LinearBuckets(10, 10, 9),
	})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exitlayer_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"group"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exitlayer_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	autosavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exitlayer_autosaves_total",
		Help: "Draft autosaves accepted",
	})
)

// IncSubmission counts a submission with the given outcome.
func IncSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObservePipeline records how long the pipeline took.
func ObservePipeline(d time.Duration) {
	if d < 0 {
		d = 0
	}
	pipelineDuration.Observe(d.Seconds())
}

// ObserveScore records an overall score.
func ObserveScore(score int) {
	overallScore.Observe(float64(score))
}

// IncRateLimited counts a rejected request for a limiter group.
func IncRateLimited(group string) {
	rateLimitedTotal.WithLabelValues(group).Inc()
}

// IncAutosave counts an accepted draft autosave.
func IncAutosave() {
	autosavesTotal.Inc()
}

// ObserveRequest counts a finished HTTP request.
func ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
