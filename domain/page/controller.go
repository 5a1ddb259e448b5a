package page

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/feastline/prelaunch/config/router"
	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/internal/web"
	apperrors "github.com/feastline/prelaunch/pkg/errors"
)

const (
	visitorCookieName   = "fl_visitor"
	visitorCookieMaxAge = int(180 * 24 * time.Hour / time.Second)
)

// NewLandingController serves the landing page itself at the site root.
func NewLandingController(service PageService, logger *log.Logger) *router.RESTController {
	return router.NewRESTController(
		"LandingController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPageHandler(c, nil, "", landingPageHandler(service))
		},
	)
}

// NewPageAPIController exposes the JSON endpoints the landing page calls back
// into: the countdown snapshot and the section reveal beacon.
func NewPageAPIController(service PageService, logger *log.Logger) *router.RESTController {
	return router.NewVersionedRESTController(
		"PageAPIController",
		"v1",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "countdown", countdownHandler(service))
			rs.AddPostHandler(c, nil, "page/seen", sectionSeenHandler(service))
		},
	)
}

// ensureVisitorID returns the visitor cookie, minting one on first contact.
func ensureVisitorID(ctx *router.RequestContext) string {
	if id, err := ctx.Cookie(visitorCookieName); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(visitorCookieName, id, visitorCookieMaxAge, "/", "", false, true)
	return id
}

func landingPageHandler(service PageService) router.PageHandlerFunction {
	return func(ctx *router.RequestContext) *router.PageResult {
		visitorID := ensureVisitorID(ctx)
		view := service.BuildView(ctx.Request.Context(), visitorID, time.Now())
		return router.HTMLResult(web.LandingTemplate, view)
	}
}

func countdownHandler(service PageService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		return router.OKResult(service.Countdown(time.Now()), "Countdown retrieved successfully")
	}
}

func sectionSeenHandler(service PageService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SeenRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		visitorID := ensureVisitorID(ctx)

		response, err := service.MarkSeen(ctx.Request.Context(), visitorID, req.Section)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Section reveal recorded")
	}
}
