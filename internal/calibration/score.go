package calibration

import "math"

// logLossEpsilon clamps predictions away from 0 and 1 so a single
// confidently wrong sample cannot produce an infinite loss.
const logLossEpsilon = 1e-15

// BrierScore returns the mean squared error between predicted
// probabilities and binary outcomes. Empty input scores 0.
func BrierScore(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		diff := s.Predicted - s.Actual
		sum += diff * diff
	}
	return sum / float64(len(samples))
}

// LogLoss returns the mean cross-entropy of the samples. Empty input
// scores 0.
func LogLoss(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		p := clamp(s.Predicted, logLossEpsilon, 1-logLossEpsilon)
		sum += -(s.Actual*math.Log(p) + (1-s.Actual)*math.Log(1-p))
	}
	return sum / float64(len(samples))
}

// Grade is a letter rating of a Brier score with a display label
type Grade struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
}

// GradeScore maps a Brier score onto the fixed grading ladder
func GradeScore(brier float64) Grade {
	switch {
	case brier <= 0.10:
		return Grade{Grade: "A+", Label: "Elite"}
	case brier <= 0.15:
		return Grade{Grade: "A", Label: "Excellent"}
	case brier <= 0.20:
		return Grade{Grade: "B", Label: "Good"}
	case brier <= 0.25:
		return Grade{Grade: "C", Label: "Fair"}
	case brier <= 0.30:
		return Grade{Grade: "D", Label: "Poor"}
	default:
		return Grade{Grade: "F", Label: "Unreliable"}
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
