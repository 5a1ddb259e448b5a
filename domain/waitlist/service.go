package waitlist

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/internal/upstream"
	apperrors "github.com/feastline/prelaunch/pkg/errors"
)

// DefaultConfirmationMessage is used when the backend accepts a signup without
// a message of its own.
const DefaultConfirmationMessage = "You're on the waitlist. We'll be in touch before launch."

// Submitter is the outbound port to the waitlist backend.
type Submitter interface {
	JoinWaitlist(ctx context.Context, entry upstream.Entry) (*upstream.JoinResponse, error)
}

type WaitlistService interface {
	// Join forwards a signup to the backend and returns the confirmation
	// message to show the visitor.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error)
}

type waitlistService struct {
	logger    *log.Logger
	submitter Submitter

	// inflight coalesces concurrent submissions for the same email so the
	// backend never sees two posts for one impatient double-click.
	inflight singleflight.Group
}

func NewWaitlistService(logger *log.Logger, submitter Submitter) WaitlistService {
	return &waitlistService{logger: logger, submitter: submitter}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Join received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	entry := ToUpstreamEntry(req)
	if entry.Email == "" || entry.Name == "" {
		logger.Error("Join received blank name or email after trimming")
		return nil, apperrors.NewInvalidRequestError("name and email are required", nil)
	}

	key := strings.ToLower(entry.Email)

	result, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.submitter.JoinWaitlist(ctx, entry)
	})

	if shared {
		logger.Info("Coalesced duplicate in-flight submission", "email", key)
	}

	if err != nil {
		if subErr, ok := upstream.AsSubmissionError(err); ok {
			logger.Error("Waitlist submission rejected",
				"email", key,
				"status", subErr.StatusCode,
				"error", err,
			)
			return nil, apperrors.NewUpstreamError(subErr.Message, err)
		}

		logger.Error("Waitlist submission failed", "email", key, "error", err)
		return nil, apperrors.NewUpstreamError(upstream.GenericFailureMessage, err)
	}

	joined, ok := result.(*upstream.JoinResponse)
	if !ok || joined == nil {
		joined = &upstream.JoinResponse{}
	}

	message := joined.Message
	if strings.TrimSpace(message) == "" {
		message = DefaultConfirmationMessage
	}

	logger.Info("Waitlist signup forwarded", "email", key)
	return &JoinWaitlistResponse{Message: message}, nil
}
