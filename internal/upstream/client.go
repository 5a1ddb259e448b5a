// Package upstream is the client for the remote waitlist backend. The page
// never stores signups itself; it forwards each one to the backend exactly
// once and reports the outcome.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/feastline/prelaunch/pkg/circuitbreaker"
)

// GenericFailureMessage is shown when the backend gives us nothing usable:
// a network-level failure, an empty error body, or an unparseable response.
const GenericFailureMessage = "Something went wrong. Please try again later."

const joinPath = "/auth/wait-list"

// Entry is the payload forwarded to the backend. Field names are part of the
// backend contract and must stay camelCase.
type Entry struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	RestaurantName string `json:"restaurantName"`
}

// JoinResponse is the backend's success body. Only the message is surfaced;
// anything else the backend returns is ignored.
type JoinResponse struct {
	Message string `json:"message"`
}

// SubmissionError is the result-style failure of a join attempt. Message is
// always safe to show to the visitor: it is either the backend's own error
// message or GenericFailureMessage.
type SubmissionError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("waitlist submission failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("waitlist submission failed (status %d): %s", e.StatusCode, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// AsSubmissionError unwraps err into a *SubmissionError when possible.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr, true
	}
	return nil, false
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Breaker is optional; when nil the client calls the backend directly.
	Breaker circuitbreaker.CircuitBreaker
}

// Client issues the single outbound call this service makes. It is constructed
// once at startup and handed to the waitlist service; there is no package
// level instance.
type Client struct {
	baseURL string
	http    *http.Client
	breaker circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: cfg.Breaker,
	}
}

// Configured reports whether a backend base URL was provided.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// JoinWaitlist posts the entry to the backend. It returns the backend's
// success body, or a *SubmissionError. The call is never retried; a visitor
// resubmits manually.
func (c *Client) JoinWaitlist(ctx context.Context, entry Entry) (*JoinResponse, error) {
	if !c.Configured() {
		return nil, &SubmissionError{
			Message: GenericFailureMessage,
			Err:     errors.New("backend base URL is not configured"),
		}
	}

	var resp *JoinResponse

	call := func() error {
		var err error
		resp, err = c.post(ctx, entry)
		return err
	}

	if c.breaker == nil {
		if err := call(); err != nil {
			return nil, err
		}
		return resp, nil
	}

	if err := c.breaker.Call(call); err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return nil, &SubmissionError{Message: GenericFailureMessage, Err: err}
		}
		return nil, err
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, entry Entry) (*JoinResponse, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return nil, &SubmissionError{Message: GenericFailureMessage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+joinPath, bytes.NewReader(body))
	if err != nil {
		return nil, &SubmissionError{Message: GenericFailureMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		// Network-level failure: no response to take a message from.
		return nil, &SubmissionError{Message: GenericFailureMessage, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, &SubmissionError{Message: GenericFailureMessage, StatusCode: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &SubmissionError{
			Message:    errorMessageFromBody(raw),
			StatusCode: httpResp.StatusCode,
		}
	}

	var joined JoinResponse
	if len(raw) > 0 {
		// The success shape is not otherwise consumed; a decode failure is
		// still a success.
		_ = json.Unmarshal(raw, &joined)
	}

	return &joined, nil
}

// errorMessageFromBody extracts the backend's "message" field, falling back to
// the generic message when the body has no usable structure.
func errorMessageFromBody(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return GenericFailureMessage
	}

	if strings.TrimSpace(payload.Message) == "" {
		return GenericFailureMessage
	}

	return payload.Message
}
