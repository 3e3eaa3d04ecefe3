package calibration

import (
	"testing"
)

func TestEngineScoreEmptyBatch(t *testing.T) {
	engine := NewEngine(10, nil)
	summary := engine.Score(nil)

	if summary.SampleCount != 0 {
		t.Fatalf("expected zero sample count, got %d", summary.SampleCount)
	}
	if summary.Decomposition.BrierScore != 0 || summary.LogLoss != 0 {
		t.Fatalf("empty batch must score zero, got brier %f log loss %f",
			summary.Decomposition.BrierScore, summary.LogLoss)
	}
	if len(summary.Buckets) != 0 || len(summary.Mapping) != 0 {
		t.Fatalf("empty batch must produce no buckets and an empty mapping")
	}
	// A zero Brier score still grades: degenerate output is well-formed.
	if summary.Grade.Grade != "A+" {
		t.Fatalf("expected grade A+ for zero brier, got %s", summary.Grade.Grade)
	}
}

func TestEngineScorePopulatedBatch(t *testing.T) {
	samples := []Sample{
		{Predicted: 0.2, Actual: 0},
		{Predicted: 0.4, Actual: 0},
		{Predicted: 0.6, Actual: 1},
		{Predicted: 0.8, Actual: 1},
	}
	summary := NewEngine(10, nil).Score(samples)

	if summary.SampleCount != 4 {
		t.Fatalf("expected 4 samples, got %d", summary.SampleCount)
	}
	if len(summary.Buckets) != 4 {
		t.Fatalf("expected 4 occupied buckets, got %d", len(summary.Buckets))
	}
	if len(summary.Mapping) == 0 {
		t.Fatalf("expected a fitted mapping")
	}
	if summary.MCE < summary.ECE {
		t.Fatalf("MCE %f cannot be below ECE %f", summary.MCE, summary.ECE)
	}
}

func TestEngineEmitsObserverEvents(t *testing.T) {
	var events []string
	observer := ObserverFunc(func(event string, fields map[string]float64) {
		events = append(events, event)
	})

	NewEngine(10, observer).Score([]Sample{{Predicted: 0.5, Actual: 1}})

	expected := []string{"decomposed", "mapping_fitted", "scored"}
	if len(events) != len(expected) {
		t.Fatalf("expected %d events, got %v", len(expected), events)
	}
	for i, e := range expected {
		if events[i] != e {
			t.Fatalf("event %d: expected %s, got %s", i, e, events[i])
		}
	}
}

func TestEngineZeroValueUsable(t *testing.T) {
	var engine Engine
	summary := engine.Score([]Sample{{Predicted: 0.5, Actual: 0}})
	if summary.SampleCount != 1 {
		t.Fatalf("zero-value engine should still score, got %d samples", summary.SampleCount)
	}
}
