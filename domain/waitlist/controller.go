package waitlist

import (
	"time"

	"github.com/feastline/prelaunch/config/router"
	"github.com/feastline/prelaunch/internal/log"
	apperrors "github.com/feastline/prelaunch/pkg/errors"
	"github.com/feastline/prelaunch/pkg/ratelimit"
)

func NewWaitlistController(
	submitter Submitter,
	logger *log.Logger,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			service := NewWaitlistService(logger, submitter)

			joinLimiter := createJoinRateLimiter()

			rs.AddPostHandler(c, joinLimiter, "", joinWaitlistHandler(service))
		},
	)
}

func createJoinRateLimiter() ratelimit.RateLimiter {
	const joinRequestsPerMinute = 30

	config := &ratelimit.RateLimitConfig{
		Requests: joinRequestsPerMinute,
		Window:   time.Minute,
		Redis:    nil, // in-memory is enough for a single prelaunch instance
		Logger:   nil,
	}

	return ratelimit.NewRateLimiter(config)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Join(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, response.Message)
	}
}
