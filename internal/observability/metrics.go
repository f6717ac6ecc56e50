// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like-toggle outcomes by target kind and result
	// (liked, unliked, conflict, not_found).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_like_toggles_total",
		Help: "Total number of like toggle operations by target kind and outcome",
	}, []string{"target", "outcome"})

	// LeaderboardLatency records the full-recompute latency of the karma
	// leaderboard aggregation.
	LeaderboardLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulse_leaderboard_recompute_seconds",
		Help:    "Latency of a full leaderboard recompute in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// CommentTreeSize records how many comments a single tree build consumed.
	CommentTreeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulse_comment_tree_size",
		Help:    "Number of comments materialized per tree build",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or its channel already closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_websocket_backpressure_drops_total",
		Help: "Total number of websocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// ObserveLeaderboard records the elapsed time of a leaderboard recompute.
// Use with defer: defer ObserveLeaderboard(time.Now()).
func ObserveLeaderboard(start time.Time) {
	LeaderboardLatency.Observe(time.Since(start).Seconds())
}
