package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yildizm/CloudClassify/internal/predict"
)

func TestTimer(t *testing.T) {
	timer := NewTimer()

	if timer.Min() != 0 || timer.Avg() != 0 || timer.Max() != 0 {
		t.Error("Expected zero values before any record")
	}

	for _, d := range []time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond} {
		timer.Record(d)
	}

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}
	if timer.Min() != 10*time.Millisecond {
		t.Errorf("Expected min 10ms, got %s", timer.Min())
	}
	if timer.Max() != 30*time.Millisecond {
		t.Errorf("Expected max 30ms, got %s", timer.Max())
	}
	if timer.Avg() != 20*time.Millisecond {
		t.Errorf("Expected avg 20ms, got %s", timer.Avg())
	}
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	if c.Get() != 50 {
		t.Errorf("Expected 50, got %d", c.Get())
	}
}

type scriptedPredictor struct {
	errs []error
}

func (s *scriptedPredictor) Predict(context.Context, *predict.File) (*predict.Result, error) {
	err := s.errs[0]
	s.errs = s.errs[1:]
	if err != nil {
		return nil, err
	}
	return &predict.Result{PredictedClass: "cirrus", Confidence: 0.5}, nil
}

func TestTrackerCountsOutcomes(t *testing.T) {
	next := &scriptedPredictor{errs: []error{
		nil,
		predict.NewServiceError(400, "unsupported format"),
		errors.New("connection refused"),
		nil,
	}}
	tracker := NewTracker(next)

	step := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time {
		step = step.Add(5 * time.Millisecond)
		return step
	}

	file := predict.NewFile("sky.jpg", []byte("x"))
	for i := 0; i < 4; i++ {
		result, err := tracker.Predict(context.Background(), file)
		if (err == nil) != (result != nil) {
			t.Fatalf("Call %d: expected exactly one of result and error", i)
		}
	}

	s := tracker.Summary()
	if s.Total != 4 || s.Succeeded != 2 || s.ServiceErrors != 1 || s.TransportErrors != 1 || s.Failed() != 2 {
		t.Errorf("Unexpected summary %+v", s)
	}
	if s.AvgLatency != 5*time.Millisecond {
		t.Errorf("Expected 5ms latency, got %s", s.AvgLatency)
	}

	want := "4 predictions, 2 succeeded, 2 failed (service 1, transport 1); latency min 5ms avg 5ms max 5ms"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
}

func TestEmptySummary(t *testing.T) {
	if got := NewTracker(&scriptedPredictor{}).Summary().String(); got != "no predictions" {
		t.Errorf("Unexpected empty summary %q", got)
	}
}
