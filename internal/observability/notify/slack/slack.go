// Package slack delivers maintenance failure notifications to a Slack
// incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hirespherex/portal-api/internal/observability/notify"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultUsername  = "portal-api"
	retryBackoffUnit = 200 * time.Millisecond
)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL     string
	Channel        string
	Username       string
	Timeout        time.Duration
	RetryLimit     int
	Client         *http.Client
	DriveURLPrefix string
}

// Client delivers maintenance failure notifications to a Slack webhook.
type Client struct {
	webhookURL     string
	channel        string
	username       string
	retryLimit     int
	driveURLPrefix string
	hc             *http.Client
}

// message is the webhook wire format.
type message struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

// NewClient builds a Slack webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = defaultUsername
	}

	return &Client{
		webhookURL:     webhookURL,
		channel:        strings.TrimSpace(cfg.Channel),
		username:       username,
		retryLimit:     max(cfg.RetryLimit, 0),
		driveURLPrefix: strings.TrimSpace(cfg.DriveURLPrefix),
		hc:             hc,
	}, nil
}

// SendTaskFailure posts a formatted message to Slack, retrying transient
// failures with linear backoff up to the configured retry limit.
func (c *Client) SendTaskFailure(ctx context.Context, payload notify.TaskFailurePayload) error {
	body, err := json.Marshal(c.newMessage(payload))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(time.Duration(attempt) * retryBackoffUnit)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) newMessage(payload notify.TaskFailurePayload) message {
	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	severity := payload.Severity
	if severity == "" {
		severity = notify.SeverityCritical
	}

	var lines []string
	header := "*Maintenance failure*"
	if payload.Task != "" {
		header += " `" + payload.Task + "`"
	}
	lines = append(lines, header)

	for _, field := range []struct{ label, value string }{
		{"Severity", severity},
		{"Drive", c.formatDriveValue(payload.DriveID, payload.DriveName)},
		{"Error class", payload.ErrorClass},
		{"Error", payload.Error},
	} {
		if strings.TrimSpace(field.value) != "" {
			lines = append(lines, fmt.Sprintf("• %s: %s", field.label, field.value))
		}
	}

	if len(payload.Metadata) > 0 {
		lines = append(lines, "• Metadata:")
		keys := make([]string, 0, len(payload.Metadata))
		for k := range payload.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("    • %s: %s", k, payload.Metadata[k]))
		}
	}

	lines = append(lines, "• Timestamp: "+occurredAt.UTC().Format(time.RFC3339))

	return message{
		Text:     strings.Join(lines, "\n"),
		Username: c.username,
		Channel:  c.channel,
	}
}

// formatDriveValue renders the drive reference as a Slack link when a URL
// prefix is configured, falling back to "name (id)" plain text.
func (c *Client) formatDriveValue(driveID, driveName string) string {
	rawID := strings.TrimSpace(driveID)
	name := escapeText(strings.TrimSpace(driveName))
	id := escapeText(rawID)

	var link string
	if rawID != "" {
		link = c.driveLink(rawID)
	}

	switch {
	case link != "" && name != "":
		return fmt.Sprintf("<%s|%s> (%s)", link, name, id)
	case link != "":
		return fmt.Sprintf("<%s|%s>", link, id)
	case name != "" && id != "":
		return fmt.Sprintf("%s (%s)", name, id)
	case name != "":
		return name
	default:
		return id
	}
}

func (c *Client) driveLink(driveID string) string {
	u, err := url.Parse(c.driveURLPrefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	link, err := url.JoinPath(u.String(), driveID)
	if err != nil {
		return ""
	}
	return link
}

// escapeText applies the Slack mrkdwn escaping rules for &, < and >.
func escapeText(value string) string {
	if value == "" {
		return ""
	}
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(value)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		readErr = errors.Join(readErr, closeErr)
	}
	if readErr != nil {
		return fmt.Errorf("read slack response: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}
