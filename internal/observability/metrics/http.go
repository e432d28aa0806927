package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/retailops/pos-ui-api/internal/observability/errors"
	"github.com/retailops/pos-ui-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultDenied  = "denied"
	ResultError   = "error"
)

// RequestMetric captures one served HTTP request.
type RequestMetric struct {
	Method   string
	Status   int
	Duration time.Duration
}

// EmitRequest emits standardised per-request metrics.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method": in.Method,
		"status": strconv.Itoa(in.Status),
	}
	sink.Count("http.requests", 1, tags)
	sink.Timing("http.duration", in.Duration, tags)
}

// AuthMetric captures an authentication lifecycle event: sign-in, refresh,
// or access evaluation.
type AuthMetric struct {
	Event  string // "login", "refresh", "access"
	Result string
	Err    error
}

// EmitAuthEvent emits standardised auth lifecycle metrics.
func EmitAuthEvent(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count("auth."+in.Event, 1, tags)
}
