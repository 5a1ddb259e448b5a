package domain

import (
	"github.com/feastline/prelaunch/config"
	"github.com/feastline/prelaunch/domain/monitoring"
	"github.com/feastline/prelaunch/domain/page"
	"github.com/feastline/prelaunch/domain/waitlist"
	"github.com/feastline/prelaunch/internal/upstream"
	"github.com/feastline/prelaunch/internal/web"
	"github.com/feastline/prelaunch/pkg/circuitbreaker"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	routerService := appConfig.RouterService

	routerService.InstallHTMLTemplates(web.Templates())
	routerService.MountStaticAssets("/static", web.StaticAssets())

	backend := upstream.NewClient(upstream.Config{
		BaseURL: appConfig.Config.BackendBaseURL,
		Timeout: appConfig.Config.UpstreamTimeout,
		Breaker: circuitbreaker.NewCircuitBreaker(nil),
	})

	// The reveal store is optional; a nil cache keeps state in process memory.
	var revealStore page.RevealStore
	if appConfig.Cache != nil {
		revealStore = appConfig.Cache
	}

	pageService := page.NewPageService(
		appConfig.Logger,
		appConfig.Config.LaunchAt,
		revealStore,
		routerService.MetricsRegisterer(),
	)

	routerService.MountController(monitoring.NewMonitoringController(appConfig.Logger, appConfig.Cache, backend))
	routerService.MountController(page.NewLandingController(pageService, appConfig.Logger))
	routerService.MountController(page.NewPageAPIController(pageService, appConfig.Logger))
	routerService.MountController(waitlist.NewWaitlistController(backend, appConfig.Logger))
}
