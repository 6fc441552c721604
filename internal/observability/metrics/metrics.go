package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/hirespherex/portal-api/internal/observability/errors"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// TaskMetric captures details about a maintenance task run for metric emission.
type TaskMetric struct {
	Task     string
	Result   string
	Affected int64
	Duration time.Duration
	Err      error
}

// EmitTaskRun emits standardised maintenance task metrics.
func EmitTaskRun(sink statsd.Sink, in TaskMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"task":   in.Task,
		"result": in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("maintenance.run", 1, tags)

	if in.Affected > 0 {
		sink.Count("maintenance.affected", in.Affected, CloneTags(tags))
	}
	if in.Duration > 0 {
		sink.Timing("maintenance.duration", in.Duration, CloneTags(tags))
	}
}

// HTTPMetric captures details about a handled HTTP request.
type HTTPMetric struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits request count and latency metrics.
func EmitHTTPRequest(sink statsd.Sink, in HTTPMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method": in.Method,
		"path":   in.Path,
		"status": strconv.Itoa(in.Status),
	}

	sink.Count("http.request", 1, tags)

	if in.Duration > 0 {
		sink.Timing("http.request_duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
