package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/observability/notify"
)

func TestNewClientRequiresWebhookURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestNewMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#placement-ops",
		Username:   "bot",
	})
	require.NoError(t, err)

	msg := client.newMessage(notify.TaskFailurePayload{
		Task:       "close_expired_drives",
		DriveID:    "drive-1",
		DriveName:  "Acme Campus Drive 2026",
		Error:      "boom",
		ErrorClass: "test_error",
	})

	assert.Equal(t, "bot", msg.Username)
	assert.Equal(t, "#placement-ops", msg.Channel)
	for _, want := range []string{
		"Maintenance failure",
		"close_expired_drives",
		"drive-1",
		"Acme Campus Drive 2026",
		"boom",
		"test_error",
	} {
		assert.Contains(t, msg.Text, want)
	}
}

func TestNewMessageOmitsChannelWhenUnset(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	require.NoError(t, err)

	body, err := json.Marshal(client.newMessage(notify.TaskFailurePayload{Task: "t"}))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "channel")
}

func TestNewMessageLinksDrive(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL:     "https://hooks.slack.com/services/test",
		DriveURLPrefix: "https://portal.campus.edu/company-drives",
	})
	require.NoError(t, err)

	msg := client.newMessage(notify.TaskFailurePayload{DriveID: "drive-123"})
	assert.Contains(t, msg.Text, "<https://portal.campus.edu/company-drives/drive-123|drive-123>")
}

func TestNewMessageEscapesDriveName(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	require.NoError(t, err)

	msg := client.newMessage(notify.TaskFailurePayload{
		DriveID:   "drive-123",
		DriveName: "R&D <intern> drive",
	})
	assert.Contains(t, msg.Text, "R&amp;D &lt;intern&gt; drive")
}

func TestFormatDriveValuePermutations(t *testing.T) {
	tcs := []struct {
		name    string
		driveID string
		drive   string
		prefix  string
		want    string
	}{
		{
			name:    "id with link",
			driveID: "drive-1",
			prefix:  "https://portal.example/company-drives",
			want:    "<https://portal.example/company-drives/drive-1|drive-1>",
		},
		{
			name:   "name only",
			drive:  "Acme",
			prefix: "https://portal.example/company-drives",
			want:   "Acme",
		},
		{
			name:    "id and name with link",
			driveID: "drive-2",
			drive:   "Acme",
			prefix:  "https://portal.example/company-drives",
			want:    "<https://portal.example/company-drives/drive-2|Acme> (drive-2)",
		},
		{
			name:    "id and name without link",
			driveID: "drive-3",
			drive:   "Acme",
			prefix:  "not a url",
			want:    "Acme (drive-3)",
		},
		{
			name:   "empty inputs",
			prefix: "https://portal.example/company-drives",
			want:   "",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(Config{
				WebhookURL:     "https://hooks.slack.com/services/test",
				DriveURLPrefix: tc.prefix,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, client.formatDriveValue(tc.driveID, tc.drive))
		})
	}
}

func TestSendTaskFailureRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 2, Client: srv.Client()})
	require.NoError(t, err)

	err = client.SendTaskFailure(context.Background(), notify.TaskFailurePayload{Task: "drive_close"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendTaskFailureReportsWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, Client: srv.Client()})
	require.NoError(t, err)

	err = client.SendTaskFailure(context.Background(), notify.TaskFailurePayload{Task: "drive_close"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_payload")
}
