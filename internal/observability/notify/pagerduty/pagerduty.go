// Package pagerduty delivers maintenance failure events to the PagerDuty
// Events API v2.
package pagerduty

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

	"github.com/hirespherex/portal-api/internal/observability/notify"
)

// APIEndpoint is the PagerDuty Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

const (
	defaultTimeout   = 5 * time.Second
	defaultOrigin    = "portal-api"
	retryBackoffUnit = 200 * time.Millisecond
)

// Config captures runtime configuration for the PagerDuty sink.
type Config struct {
	RoutingKey string
	Source     string
	Component  string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client publishes events via PagerDuty's Events API v2.
type Client struct {
	routingKey string
	source     string
	component  string
	retryLimit int
	hc         *http.Client
}

// event is the wire shape of an Events API v2 trigger.
type event struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	DedupKey    string       `json:"dedup_key"`
	Payload     eventPayload `json:"payload"`
}

type eventPayload struct {
	Summary       string         `json:"summary"`
	Severity      string         `json:"severity"`
	Source        string         `json:"source"`
	Component     string         `json:"component"`
	Timestamp     string         `json:"timestamp"`
	CustomDetails map[string]any `json:"custom_details"`
}

// NewClient constructs a PagerDuty events client from config. Callers must provide a routing key.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		routingKey: key,
		source:     orDefault(cfg.Source, defaultOrigin),
		component:  orDefault(cfg.Component, defaultOrigin),
		retryLimit: max(cfg.RetryLimit, 0),
		hc:         hc,
	}, nil
}

// SendTaskFailure submits a trigger event to PagerDuty, retrying transient
// failures with linear backoff up to the configured retry limit.
func (c *Client) SendTaskFailure(ctx context.Context, payload notify.TaskFailurePayload) error {
	body, err := json.Marshal(c.newEvent(payload))
	if err != nil {
		return fmt.Errorf("encode pagerduty payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*retryBackoffUnit); err != nil {
				return err
			}
		}
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) newEvent(payload notify.TaskFailurePayload) event {
	details := map[string]any{
		"task":        payload.Task,
		"drive_id":    payload.DriveID,
		"error":       payload.Error,
		"error_class": payload.ErrorClass,
	}
	for k, v := range payload.Metadata {
		if _, taken := details[k]; !taken {
			details[k] = v
		}
	}

	when := payload.OccurredAt
	if when.IsZero() {
		when = time.Now()
	}

	return event{
		RoutingKey:  c.routingKey,
		EventAction: "trigger",
		DedupKey:    strings.Trim(payload.Task+":"+payload.DriveID, ":"),
		Payload: eventPayload{
			Summary:       fmt.Sprintf("Maintenance task %s failed", orDefault(payload.Task, "unknown")),
			Severity:      orDefault(strings.ToLower(payload.Severity), notify.SeverityCritical),
			Source:        c.source,
			Component:     c.component,
			Timestamp:     when.UTC().Format(time.RFC3339),
			CustomDetails: details,
		},
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, APIEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create pagerduty request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("pagerduty request failed: %w", err)
	}

	respBody, err := readAndClose(resp.Body)
	if err != nil {
		return fmt.Errorf("read pagerduty response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pagerduty api %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// readAndClose drains body fully and closes it, reporting whichever failed.
func readAndClose(body io.ReadCloser) ([]byte, error) {
	data, readErr := io.ReadAll(body)
	if closeErr := body.Close(); closeErr != nil {
		readErr = errors.Join(readErr, closeErr)
	}
	return data, readErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
