package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

type recordingSink struct {
	counts  []recordedMetric
	timings []recordedMetric
}

type recordedMetric struct {
	name  string
	value int64
	tags  map[string]string
}

var _ statsd.Sink = (*recordingSink)(nil)

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.counts = append(r.counts, recordedMetric{name: name, value: value, tags: tags})
}

func (r *recordingSink) Gauge(string, float64, map[string]string) {}

func (r *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	r.timings = append(r.timings, recordedMetric{name: name, value: int64(value), tags: tags})
}

func TestEmitTaskRunSuccess(t *testing.T) {
	sink := &recordingSink{}

	EmitTaskRun(sink, TaskMetric{
		Task:     "reset_token_purge",
		Result:   ResultSuccess,
		Affected: 12,
		Duration: 30 * time.Millisecond,
	})

	if len(sink.counts) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(sink.counts))
	}
	if sink.counts[0].name != "maintenance.run" {
		t.Fatalf("expected maintenance.run, got %s", sink.counts[0].name)
	}
	if sink.counts[0].tags["task"] != "reset_token_purge" {
		t.Fatalf("expected task tag, got %v", sink.counts[0].tags)
	}
	if sink.counts[1].name != "maintenance.affected" || sink.counts[1].value != 12 {
		t.Fatalf("expected affected count 12, got %s=%d", sink.counts[1].name, sink.counts[1].value)
	}
	if len(sink.timings) != 1 || sink.timings[0].name != "maintenance.duration" {
		t.Fatalf("expected duration timing, got %v", sink.timings)
	}
}

func TestEmitTaskRunErrorTagsClass(t *testing.T) {
	sink := &recordingSink{}

	EmitTaskRun(sink, TaskMetric{
		Task:   "close_expired_drives",
		Result: ResultError,
		Err:    errors.New("boom"),
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 counter, got %d", len(sink.counts))
	}
	if sink.counts[0].tags["error_class"] == "" {
		t.Fatalf("expected error_class tag, got %v", sink.counts[0].tags)
	}
}

func TestEmitHTTPRequest(t *testing.T) {
	sink := &recordingSink{}

	EmitHTTPRequest(sink, HTTPMetric{
		Method:   "GET",
		Path:     "/api/v1/jobs",
		Status:   200,
		Duration: 5 * time.Millisecond,
	})

	if len(sink.counts) != 1 || sink.counts[0].name != "http.request" {
		t.Fatalf("expected http.request counter, got %v", sink.counts)
	}
	if sink.counts[0].tags["status"] != "200" {
		t.Fatalf("expected status tag 200, got %v", sink.counts[0].tags)
	}
	if len(sink.timings) != 1 || sink.timings[0].name != "http.request_duration" {
		t.Fatalf("expected request duration timing, got %v", sink.timings)
	}
}

func TestEmitNilSinkIsNoop(t *testing.T) {
	EmitTaskRun(nil, TaskMetric{Task: "reset_token_purge", Result: ResultSuccess})
	EmitHTTPRequest(nil, HTTPMetric{Method: "GET", Path: "/healthz", Status: 200})
}
