package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastline/prelaunch/pkg/circuitbreaker"
)

func TestJoinWaitlist_PostsExactPayload(t *testing.T) {
	var (
		gotPath        string
		gotContentType string
		gotBody        map[string]string
		calls          int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"You're on the list"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	resp, err := client.JoinWaitlist(context.Background(), Entry{
		Email:          "jane@example.com",
		Name:           "Jane Doe",
		RestaurantName: "",
	})

	require.NoError(t, err)
	assert.Equal(t, "You're on the list", resp.Message)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/auth/wait-list", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{
		"email":          "jane@example.com",
		"name":           "Jane Doe",
		"restaurantName": "",
	}, gotBody)
}

func TestJoinWaitlist_UsesServerMessageOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.JoinWaitlist(context.Background(), Entry{Email: "jane@example.com", Name: "Jane"})

	subErr, ok := AsSubmissionError(err)
	require.True(t, ok, "expected a SubmissionError, got %v", err)
	assert.Equal(t, "Email already registered", subErr.Message)
	assert.Equal(t, http.StatusConflict, subErr.StatusCode)
}

func TestJoinWaitlist_FallsBackToGenericMessage(t *testing.T) {
	t.Run("unstructured error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.JoinWaitlist(context.Background(), Entry{Email: "a@b.c", Name: "A"})

		subErr, ok := AsSubmissionError(err)
		require.True(t, ok)
		assert.Equal(t, GenericFailureMessage, subErr.Message)
	})

	t.Run("network failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing is listening anymore

		client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
		_, err := client.JoinWaitlist(context.Background(), Entry{Email: "a@b.c", Name: "A"})

		subErr, ok := AsSubmissionError(err)
		require.True(t, ok)
		assert.Equal(t, GenericFailureMessage, subErr.Message)
		assert.Error(t, subErr.Err)
	})
}

func TestJoinWaitlist_UnconfiguredBaseURL(t *testing.T) {
	client := NewClient(Config{})

	assert.False(t, client.Configured())

	_, err := client.JoinWaitlist(context.Background(), Entry{Email: "a@b.c", Name: "A"})

	subErr, ok := AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, GenericFailureMessage, subErr.Message)
}

func TestJoinWaitlist_OpenBreakerShortCircuits(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
		SuccessThreshold: 1,
	})

	client := NewClient(Config{BaseURL: server.URL, Breaker: breaker})

	entry := Entry{Email: "a@b.c", Name: "A"}
	for i := 0; i < 2; i++ {
		_, err := client.JoinWaitlist(context.Background(), entry)
		assert.Error(t, err)
	}
	assert.Equal(t, 2, calls)

	// Third attempt never reaches the backend.
	_, err := client.JoinWaitlist(context.Background(), entry)
	subErr, ok := AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, GenericFailureMessage, subErr.Message)
	assert.Equal(t, 2, calls)
}
