// Package calibration scores predicted probabilities against settled
// outcomes and fits monotone probability remappings. Every function in
// this package is pure: same inputs, same outputs, no side effects.
package calibration

// Sample is one settled observation: the probability the model gave and
// whether the event happened. Weight defaults to 1 when zero or negative.
type Sample struct {
	Predicted float64 `json:"predicted"`
	Actual    float64 `json:"actual"`
	Weight    float64 `json:"weight,omitempty"`
}

func (s Sample) weight() float64 {
	if s.Weight > 0 {
		return s.Weight
	}
	return 1
}
