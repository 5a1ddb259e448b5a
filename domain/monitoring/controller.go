package monitoring

import (
	"context"
	"time"

	"github.com/feastline/prelaunch/config/router"
	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/pkg/ratelimit"
)

type Cache interface {
	Ping(ctx context.Context) error
}

// Backend reports whether the waitlist backend is reachable in principle;
// health checks never post to it.
type Backend interface {
	Configured() bool
}

type HealthStatus struct {
	Cache   int `json:"cache"`   // 1 = healthy, 0 = unhealthy/not configured
	Backend int `json:"backend"` // 1 = configured, 0 = not configured
	Uptime  int `json:"uptime"`  // uptime in seconds
}

type MonitoringController struct {
	logger    *log.Logger
	cache     Cache
	backend   Backend
	startTime time.Time
}

func NewMonitoringController(logger *log.Logger, cache Cache, backend Backend) *router.RESTController {
	ctrl := &MonitoringController{
		logger:    logger,
		cache:     cache,
		backend:   backend,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {

			monitoringRateLimiter := createMonitoringRateLimiter()

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func createMonitoringRateLimiter() ratelimit.RateLimiter {

	const monitoringRequestsPerMinute = 10 // More restrictive than default 100

	config := &ratelimit.RateLimitConfig{
		Requests: monitoringRequestsPerMinute,
		Window:   time.Minute, // 1 minute window
		Redis:    nil,         // For now, use in-memory (could be enhanced to use Redis)
		Logger:   nil,         // Logger not needed for in-memory limiter
	}

	return ratelimit.NewRateLimiter(config)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")
	healthStatus := ctrl.performHealthChecks(c.Request.Context(), logger)

	return &router.ServiceResult{
		StatusCode: 200,
		Data:       healthStatus,
		Message:    "prelaunch health check completed",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkCacheConnectivity(ctx, ctrl, &status, logger)
	checkBackendConfiguration(ctrl, &status, logger)

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.cache != nil {
		if ctrl.checkCache(ctx) {
			status.Cache = 1
			logger.Info("Cache health check passed")
		} else {
			status.Cache = 0
			logger.Error("Cache health check failed")
		}
	} else {
		status.Cache = 0 // Cache not configured
		logger.Info("Cache not configured, cache health check skipped")
	}
}

func checkBackendConfiguration(ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.backend != nil && ctrl.backend.Configured() {
		status.Backend = 1
		return
	}

	status.Backend = 0
	logger.Error("Waitlist backend is not configured")
}

func (ctrl *MonitoringController) checkCache(ctx context.Context) bool {
	// Ping the cache
	return ctrl.cache.Ping(ctx) == nil
}
