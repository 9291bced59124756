// Package observability holds Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quillport_redis_errors_total",
		Help: "Number of Redis command errors",
	}, []string{"command"})

	// PostOperations counts post mutations by operation and outcome.
	PostOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quillport_post_operations_total",
		Help: "Number of post mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	// LikeToggles counts like toggles by direction.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quillport_like_toggles_total",
		Help: "Number of like toggles by direction (liked/unliked)",
	}, []string{"direction"})
)

// InitHTTPMetrics creates the fiberprometheus middleware for HTTP-level metrics.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
