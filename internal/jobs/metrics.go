package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared by all jobs.
type Metrics struct {
	PostsPublished      *prometheus.CounterVec
	PublishFailures     *prometheus.CounterVec
	PostsAbandoned      *prometheus.CounterVec
	EngagementCollected prometheus.Counter
	BuzzReplies         *prometheus.CounterVec
	RunDuration         *prometheus.HistogramVec
}

var globalMetrics *Metrics

// InitMetrics registers the job metrics once.
func InitMetrics() *Metrics {
	if globalMetrics != nil {
		return globalMetrics
	}
	globalMetrics = &Metrics{
		PostsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threadcaster_posts_published_total",
			Help: "Posts published, by account and category",
		}, []string{"account", "category"}),

		PublishFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threadcaster_publish_failures_total",
			Help: "Failed publish attempts, by account",
		}, []string{"account"}),

		PostsAbandoned: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threadcaster_posts_abandoned_total",
			Help: "Stealth posts abandoned by validation, by account",
		}, []string{"account"}),

		EngagementCollected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "threadcaster_engagement_backfills_total",
			Help: "History records that received an engagement snapshot",
		}),

		BuzzReplies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threadcaster_buzz_replies_total",
			Help: "Buzz replies published, by tier",
		}, []string{"tier"}),

		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "threadcaster_job_duration_seconds",
			Help:    "Job run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"job"}),
	}
	return globalMetrics
}
