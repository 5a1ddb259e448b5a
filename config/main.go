package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/feastline/prelaunch/config/router"
	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/pkg/constants"
)

type ApplicationConfig struct {
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	// LaunchAt is the instant the countdown targets.
	LaunchAt time.Time
	// BackendBaseURL is the waitlist backend root address. Empty means
	// submissions fail with the generic message.
	BackendBaseURL string
	// UpstreamTimeout bounds the outbound waitlist call.
	UpstreamTimeout time.Duration
}

func NewAppConfig(logger *log.Logger) (*AppConfig, error) {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow(),
		RequestTimeout:    30 * time.Second,
		LaunchAt:          LaunchInstant(logger),
		UpstreamTimeout:   10 * time.Second,
	}

	baseURL, err := BackendBaseURL()
	if err != nil {
		return nil, err
	}
	config.BackendBaseURL = baseURL

	// Override from environment variables
	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	if winStr := os.Getenv("RATE_LIMIT_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			config.RateLimitWindow = parsed
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			config.RequestTimeout = parsed
		}
	}

	if timeoutStr := os.Getenv("UPSTREAM_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			config.UpstreamTimeout = parsed
		}
	}

	return config, nil
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	appConfig, err := NewAppConfig(logger)
	if err != nil {
		return nil, err
	}

	if appConfig.BackendBaseURL == "" {
		logger.Warn("BACKEND_BASE_URL not set; waitlist submissions will fail with the generic message")
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully",
		"launch_at", appConfig.LaunchAt.Format(constants.RFC3339DateTimeFormat),
		"backend_configured", appConfig.BackendBaseURL != "",
	)

	return &ApplicationConfig{
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
