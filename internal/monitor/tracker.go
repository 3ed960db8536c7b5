package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/yildizm/CloudClassify/internal/predict"
)

// Tracker wraps a predictor and records every call it forwards
type Tracker struct {
	next predict.Predictor
	now  func() time.Time

	latency   *Timer
	succeeded Counter
	service   Counter
	transport Counter
	invalid   Counter
}

// NewTracker creates a tracker forwarding to next
func NewTracker(next predict.Predictor) *Tracker {
	return &Tracker{
		next:    next,
		now:     time.Now,
		latency: NewTimer(),
	}
}

// Predict forwards to the wrapped predictor and records the outcome
func (t *Tracker) Predict(ctx context.Context, file *predict.File) (*predict.Result, error) {
	start := t.now()
	result, err := t.next.Predict(ctx, file)
	t.latency.Record(t.now().Sub(start))

	if err == nil {
		t.succeeded.Inc()
		return result, nil
	}

	switch predict.AsError(err).Kind {
	case predict.KindService:
		t.service.Inc()
	case predict.KindValidation:
		t.invalid.Inc()
	default:
		t.transport.Inc()
	}
	return result, err
}

// Summary is a point-in-time view of a tracker
type Summary struct {
	Total            int64
	Succeeded        int64
	ServiceErrors    int64
	TransportErrors  int64
	ValidationErrors int64
	MinLatency       time.Duration
	AvgLatency       time.Duration
	MaxLatency       time.Duration
}

// Summary returns the counts and latencies recorded so far
func (t *Tracker) Summary() Summary {
	return Summary{
		Total:            t.latency.Count(),
		Succeeded:        t.succeeded.Get(),
		ServiceErrors:    t.service.Get(),
		TransportErrors:  t.transport.Get(),
		ValidationErrors: t.invalid.Get(),
		MinLatency:       t.latency.Min(),
		AvgLatency:       t.latency.Avg(),
		MaxLatency:       t.latency.Max(),
	}
}

// Failed returns the number of calls that returned an error
func (s Summary) Failed() int64 {
	return s.ServiceErrors + s.TransportErrors + s.ValidationErrors
}

// String renders the summary on one line
func (s Summary) String() string {
	if s.Total == 0 {
		return "no predictions"
	}
	return fmt.Sprintf("%d predictions, %d succeeded, %d failed (service %d, transport %d); latency min %s avg %s max %s",
		s.Total, s.Succeeded, s.Failed(), s.ServiceErrors, s.TransportErrors,
		s.MinLatency.Round(time.Millisecond), s.AvgLatency.Round(time.Millisecond), s.MaxLatency.Round(time.Millisecond))
}
