package pagerduty

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/observability/notify"
)

func TestNewClientRequiresRoutingKey(t *testing.T) {
	_, err := NewClient(Config{RoutingKey: "  "})
	require.Error(t, err)
}

func TestNewEventDefaults(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key"})
	require.NoError(t, err)

	ev := client.newEvent(notify.TaskFailurePayload{
		Task:       "reset_token_purge",
		DriveID:    "drive-123",
		Error:      "boom",
		ErrorClass: "timeout",
		Metadata:   map[string]string{"region": "campus-a", "task": "shadowed"},
	})

	assert.Equal(t, "trigger", ev.EventAction)
	assert.Equal(t, "reset_token_purge:drive-123", ev.DedupKey)
	assert.Equal(t, notify.SeverityCritical, ev.Payload.Severity)
	assert.Equal(t, "portal-api", ev.Payload.Source)
	assert.Equal(t, "portal-api", ev.Payload.Component)
	assert.NotEmpty(t, ev.Payload.Timestamp)

	assert.Equal(t, "reset_token_purge", ev.Payload.CustomDetails["task"])
	assert.Equal(t, "boom", ev.Payload.CustomDetails["error"])
	assert.Equal(t, "timeout", ev.Payload.CustomDetails["error_class"])
	assert.Equal(t, "campus-a", ev.Payload.CustomDetails["region"])
}

func TestNewEventOmitsEmptyDedupSegments(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key"})
	require.NoError(t, err)

	ev := client.newEvent(notify.TaskFailurePayload{Task: "drive_close"})
	assert.Equal(t, "drive_close", ev.DedupKey)
}

func TestSendTaskFailureRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		RoutingKey: "key",
		RetryLimit: 3,
		Client:     srv.Client(),
	})
	require.NoError(t, err)
	client.hc.Transport = rewriteTransport{target: srv.URL, inner: srv.Client().Transport}

	err = client.SendTaskFailure(context.Background(), notify.TaskFailurePayload{Task: "drive_close"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendTaskFailureStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "key", RetryLimit: 5, Client: srv.Client()})
	require.NoError(t, err)
	client.hc.Transport = rewriteTransport{target: srv.URL, inner: srv.Client().Transport}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = client.SendTaskFailure(ctx, notify.TaskFailurePayload{Task: "drive_close"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// rewriteTransport redirects requests aimed at the real API to a test server.
type rewriteTransport struct {
	target string
	inner  http.RoundTripper
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, rt.target, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	inner := rt.inner
	if inner == nil {
		inner = http.DefaultTransport
	}
	return inner.RoundTrip(redirected)
}
