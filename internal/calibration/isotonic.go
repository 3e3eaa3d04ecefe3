package calibration

import "sort"

// Point is one control point of a fitted monotone mapping
type Point struct {
	Raw        float64 `json:"raw"`
	Calibrated float64 `json:"calibrated"`
}

// Mapping is an ordered set of control points. Calibrated values are
// non-decreasing as raw values increase; Apply relies on that.
type Mapping []Point

// pavaBlock is a pooled run of samples during isotonic fitting
type pavaBlock struct {
	weight  float64
	predSum float64 // weight-weighted predicted values
	actSum  float64 // weight-weighted actuals
}

func (b pavaBlock) value() float64 {
	return b.actSum / b.weight
}

// FitIsotonic fits a non-decreasing step function to the samples using
// the pool-adjacent-violators algorithm and returns one control point
// per pooled block (block mean predicted value, block mean outcome).
// The monotone partition is unique, so the stack formulation below
// produces the same result as any other correct PAVA variant.
func FitIsotonic(samples []Sample) Mapping {
	if len(samples) == 0 {
		return nil
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Predicted < sorted[j].Predicted
	})

	blocks := make([]pavaBlock, 0, len(sorted))
	for _, s := range sorted {
		w := s.weight()
		blocks = append(blocks, pavaBlock{
			weight:  w,
			predSum: w * s.Predicted,
			actSum:  w * s.Actual,
		})
		// Merge backwards until the tail is monotone again
		for len(blocks) >= 2 {
			top := blocks[len(blocks)-1]
			prev := blocks[len(blocks)-2]
			if prev.value() <= top.value() {
				break
			}
			merged := pavaBlock{
				weight:  prev.weight + top.weight,
				predSum: prev.predSum + top.predSum,
				actSum:  prev.actSum + top.actSum,
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, merged)
		}
	}

	mapping := make(Mapping, len(blocks))
	for i, b := range blocks {
		mapping[i] = Point{
			Raw:        b.predSum / b.weight,
			Calibrated: b.value(),
		}
	}
	return mapping
}

// Apply remaps a raw probability through the mapping. An empty mapping
// returns the input unchanged. Outside the mapping's domain the nearest
// boundary value is returned; there is no extrapolation.
func Apply(raw float64, mapping Mapping) float64 {
	if len(mapping) == 0 {
		return raw
	}

	points := make(Mapping, len(mapping))
	copy(points, mapping)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Raw < points[j].Raw
	})

	if raw <= points[0].Raw {
		return points[0].Calibrated
	}
	last := points[len(points)-1]
	if raw >= last.Raw {
		return last.Calibrated
	}

	for i := 1; i < len(points); i++ {
		if raw <= points[i].Raw {
			x0, y0 := points[i-1].Raw, points[i-1].Calibrated
			x1, y1 := points[i].Raw, points[i].Calibrated
			if x1 == x0 {
				return y0
			}
			t := (raw - x0) / (x1 - x0)
			return y0 + t*(y1-y0)
		}
	}
	return last.Calibrated
}
