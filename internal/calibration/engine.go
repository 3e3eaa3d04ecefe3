package calibration

// Summary is the full derived output of one calibration batch
type Summary struct {
	SampleCount   int           `json:"sample_count"`
	Decomposition Decomposition `json:"decomposition"`
	Buckets       []Bucket      `json:"buckets"`
	Mapping       Mapping       `json:"mapping"`
	LogLoss       float64       `json:"log_loss"`
	Grade         Grade         `json:"grade"`
	ECE           float64       `json:"ece"`
	MCE           float64       `json:"mce"`
}

// Engine bundles bucket count and an optional observer around the pure
// scoring functions. The zero value is usable.
type Engine struct {
	Buckets  int
	Observer Observer
}

// NewEngine creates an engine with the given bucket count; zero or
// negative falls back to DefaultBucketCount.
func NewEngine(buckets int, observer Observer) *Engine {
	if observer == nil {
		observer = NopObserver
	}
	return &Engine{Buckets: buckets, Observer: observer}
}

// Score computes the complete calibration summary for a batch of
// settled samples. Empty batches produce a degenerate summary with zero
// scores, no buckets and an empty mapping.
func (e *Engine) Score(samples []Sample) Summary {
	observer := e.Observer
	if observer == nil {
		observer = NopObserver
	}

	decomposition, buckets := Decompose(samples, e.Buckets)
	observer.Observe("decomposed", map[string]float64{
		"samples":     float64(len(samples)),
		"buckets":     float64(len(buckets)),
		"brier_score": decomposition.BrierScore,
		"reliability": decomposition.Reliability,
		"resolution":  decomposition.Resolution,
		"uncertainty": decomposition.Uncertainty,
	})

	mapping := FitIsotonic(samples)
	observer.Observe("mapping_fitted", map[string]float64{
		"points": float64(len(mapping)),
	})

	summary := Summary{
		SampleCount:   len(samples),
		Decomposition: decomposition,
		Buckets:       buckets,
		Mapping:       mapping,
		LogLoss:       LogLoss(samples),
		Grade:         GradeScore(decomposition.BrierScore),
		ECE:           ECE(buckets),
		MCE:           MCE(buckets),
	}
	observer.Observe("scored", map[string]float64{
		"log_loss": summary.LogLoss,
		"ece":      summary.ECE,
		"mce":      summary.MCE,
	})
	return summary
}
