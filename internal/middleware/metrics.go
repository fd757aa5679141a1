package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialconnect_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// CounterRecomputes counts denormalized counter recomputations by entity.
	CounterRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialconnect_counter_recomputes_total",
		Help: "Total number of denormalized counter recomputations",
	}, []string{"entity"})

	// MediaUploads counts media uploads by storage backend and outcome.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialconnect_media_uploads_total",
		Help: "Total number of media uploads by backend and status",
	}, []string{"backend", "status"})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialconnect_auth_failures_total",
		Help: "Total number of failed authentication attempts by reason",
	}, []string{"reason"})
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the service. The
// middleware registers collectors on the default registry, so it is built
// once and shared between callers.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(service)
	})
	return promMiddleware
}

// MetricsMiddleware returns the Fiber handler recording request metrics.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
