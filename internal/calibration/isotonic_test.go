package calibration

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestFitIsotonicEmpty(t *testing.T) {
	if mapping := FitIsotonic(nil); mapping != nil {
		t.Fatalf("expected nil mapping for empty input, got %d points", len(mapping))
	}
}

func TestFitIsotonicAlreadyMonotone(t *testing.T) {
	samples := []Sample{
		{Predicted: 0.1, Actual: 0},
		{Predicted: 0.5, Actual: 0.5},
		{Predicted: 0.9, Actual: 1},
	}
	mapping := FitIsotonic(samples)
	if len(mapping) != 3 {
		t.Fatalf("monotone input should keep every block, got %d", len(mapping))
	}
	for i, s := range samples {
		if mapping[i].Raw != s.Predicted || mapping[i].Calibrated != s.Actual {
			t.Fatalf("point %d: expected (%f, %f), got (%f, %f)",
				i, s.Predicted, s.Actual, mapping[i].Raw, mapping[i].Calibrated)
		}
	}
}

func TestFitIsotonicPoolsViolators(t *testing.T) {
	// Classic violation: the middle pair is out of order and must pool.
	samples := []Sample{
		{Predicted: 0.2, Actual: 0},
		{Predicted: 0.4, Actual: 1},
		{Predicted: 0.6, Actual: 0},
		{Predicted: 0.8, Actual: 1},
	}
	mapping := FitIsotonic(samples)
	if len(mapping) != 3 {
		t.Fatalf("expected 3 blocks after pooling, got %d", len(mapping))
	}
	// Pooled middle block averages both coordinates.
	if mapping[1].Raw != 0.5 || mapping[1].Calibrated != 0.5 {
		t.Fatalf("expected pooled block (0.5, 0.5), got (%f, %f)", mapping[1].Raw, mapping[1].Calibrated)
	}
}

func TestFitIsotonicFullyReversed(t *testing.T) {
	// Perfectly anti-calibrated input collapses to a single block at the
	// overall mean.
	samples := []Sample{
		{Predicted: 0.1, Actual: 1},
		{Predicted: 0.5, Actual: 0.5},
		{Predicted: 0.9, Actual: 0},
	}
	mapping := FitIsotonic(samples)
	if len(mapping) != 1 {
		t.Fatalf("expected single pooled block, got %d", len(mapping))
	}
	if mapping[0].Raw != 0.5 || mapping[0].Calibrated != 0.5 {
		t.Fatalf("expected (0.5, 0.5), got (%f, %f)", mapping[0].Raw, mapping[0].Calibrated)
	}
}

func TestFitIsotonicOutputMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]Sample, 500)
	for i := range samples {
		p := rng.Float64()
		actual := 0.0
		if rng.Float64() < p {
			actual = 1.0
		}
		samples[i] = Sample{Predicted: p, Actual: actual}
	}

	mapping := FitIsotonic(samples)
	if !sort.SliceIsSorted(mapping, func(i, j int) bool { return mapping[i].Raw < mapping[j].Raw }) {
		t.Fatalf("mapping raw values must be sorted")
	}
	for i := 1; i < len(mapping); i++ {
		if mapping[i].Calibrated < mapping[i-1].Calibrated {
			t.Fatalf("calibrated values regress at point %d: %f < %f",
				i, mapping[i].Calibrated, mapping[i-1].Calibrated)
		}
	}
}

func TestFitIsotonicRespectsWeights(t *testing.T) {
	// A heavy sample dominates its pooled block's mean.
	samples := []Sample{
		{Predicted: 0.4, Actual: 1, Weight: 3},
		{Predicted: 0.6, Actual: 0, Weight: 1},
	}
	mapping := FitIsotonic(samples)
	if len(mapping) != 1 {
		t.Fatalf("expected single pooled block, got %d", len(mapping))
	}
	if mapping[0].Calibrated != 0.75 {
		t.Fatalf("expected weighted mean 0.75, got %f", mapping[0].Calibrated)
	}
}

func TestApplyEmptyMappingIsIdentity(t *testing.T) {
	for _, raw := range []float64{0, 0.33, 0.5, 1} {
		if got := Apply(raw, nil); got != raw {
			t.Fatalf("empty mapping must be identity: %f -> %f", raw, got)
		}
	}
}

func TestApplyClampsAtBoundaries(t *testing.T) {
	mapping := Mapping{
		{Raw: 0.3, Calibrated: 0.2},
		{Raw: 0.7, Calibrated: 0.8},
	}
	if got := Apply(0.1, mapping); got != 0.2 {
		t.Fatalf("below domain should clamp to first calibrated value, got %f", got)
	}
	if got := Apply(0.95, mapping); got != 0.8 {
		t.Fatalf("above domain should clamp to last calibrated value, got %f", got)
	}
}

func TestApplyInterpolates(t *testing.T) {
	mapping := Mapping{
		{Raw: 0.2, Calibrated: 0.1},
		{Raw: 0.6, Calibrated: 0.5},
	}
	if got := Apply(0.4, mapping); math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("expected midpoint 0.3, got %f", got)
	}
}

func TestApplySinglePoint(t *testing.T) {
	mapping := Mapping{{Raw: 0.5, Calibrated: 0.6}}
	for _, raw := range []float64{0, 0.5, 1} {
		if got := Apply(raw, mapping); got != 0.6 {
			t.Fatalf("single-point mapping should return its calibrated value, got %f", got)
		}
	}
}

func TestApplyPreservesMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	samples := make([]Sample, 200)
	for i := range samples {
		p := rng.Float64()
		actual := 0.0
		if rng.Float64() < p {
			actual = 1.0
		}
		samples[i] = Sample{Predicted: p, Actual: actual}
	}
	mapping := FitIsotonic(samples)

	prev := Apply(0, mapping)
	for x := 0.01; x <= 1.0; x += 0.01 {
		cur := Apply(x, mapping)
		if cur < prev {
			t.Fatalf("Apply must be non-decreasing: f(%f)=%f < previous %f", x, cur, prev)
		}
		prev = cur
	}
}
