package calibration

import "math"

// DefaultBucketCount is the number of equal-width probability bins used
// when the caller does not specify one.
const DefaultBucketCount = 10

// wilsonZ is the z value for a 95% Wilson score interval
const wilsonZ = 1.96

// Bucket is one non-empty probability bin of the reliability diagram
type Bucket struct {
	RangeStart      float64 `json:"range_start"`
	RangeEnd        float64 `json:"range_end"`
	PredictedAvg    float64 `json:"predicted_avg"`
	ActualAvg       float64 `json:"actual_avg"`
	Count           int     `json:"count"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
}

// Decomposition holds the Murphy decomposition of a Brier score.
// BrierScore == Uncertainty - Resolution + Reliability up to float noise.
type Decomposition struct {
	BrierScore       float64 `json:"brier_score"`
	Reliability      float64 `json:"reliability"`
	Resolution       float64 `json:"resolution"`
	Uncertainty      float64 `json:"uncertainty"`
	CalibrationError float64 `json:"calibration_error"`
}

// Decompose bins samples by predicted value and computes the Murphy
// decomposition over the non-empty bins. An empty sample set yields a
// zero decomposition and no buckets; cold starts are not errors.
func Decompose(samples []Sample, numBuckets int) (Decomposition, []Bucket) {
	if numBuckets <= 0 {
		numBuckets = DefaultBucketCount
	}
	if len(samples) == 0 {
		return Decomposition{}, nil
	}

	width := 1.0 / float64(numBuckets)
	predSums := make([]float64, numBuckets)
	actSums := make([]float64, numBuckets)
	counts := make([]int, numBuckets)

	baseSum := 0.0
	for _, s := range samples {
		idx := int(s.Predicted / width)
		if idx >= numBuckets {
			idx = numBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		predSums[idx] += s.Predicted
		actSums[idx] += s.Actual
		counts[idx]++
		baseSum += s.Actual
	}

	total := float64(len(samples))
	baseRate := baseSum / total

	d := Decomposition{
		BrierScore:  BrierScore(samples),
		Uncertainty: baseRate * (1 - baseRate),
	}

	buckets := make([]Bucket, 0, numBuckets)
	for i := 0; i < numBuckets; i++ {
		if counts[i] == 0 {
			continue
		}
		n := float64(counts[i])
		predAvg := predSums[i] / n
		actAvg := actSums[i] / n
		lower, upper := wilsonInterval(actAvg, n)

		buckets = append(buckets, Bucket{
			RangeStart:      float64(i) * width,
			RangeEnd:        float64(i+1) * width,
			PredictedAvg:    predAvg,
			ActualAvg:       actAvg,
			Count:           counts[i],
			ConfidenceLower: lower,
			ConfidenceUpper: upper,
		})

		w := n / total
		d.Reliability += w * (predAvg - actAvg) * (predAvg - actAvg)
		d.Resolution += w * (actAvg - baseRate) * (actAvg - baseRate)
	}

	d.CalibrationError = math.Sqrt(d.Reliability)
	return d, buckets
}

// ECE is the expected calibration error: the count-weighted mean gap
// between predicted and observed frequency across buckets.
func ECE(buckets []Bucket) float64 {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range buckets {
		sum += float64(b.Count) / float64(total) * math.Abs(b.PredictedAvg-b.ActualAvg)
	}
	return sum
}

// MCE is the maximum calibration error: the worst single-bucket gap
func MCE(buckets []Bucket) float64 {
	worst := 0.0
	for _, b := range buckets {
		gap := math.Abs(b.PredictedAvg - b.ActualAvg)
		if gap > worst {
			worst = gap
		}
	}
	return worst
}

// wilsonInterval returns the 95% Wilson score interval for an observed
// rate over n trials, clamped to [0,1].
func wilsonInterval(pHat, n float64) (lower, upper float64) {
	if n <= 0 {
		return 0, 0
	}
	z := wilsonZ
	denom := 1 + z*z/n
	center := (pHat + z*z/(2*n)) / denom
	margin := z * math.Sqrt((pHat*(1-pHat)+z*z/(4*n))/n) / denom

	lower = clamp(center-margin, 0, 1)
	upper = clamp(center+margin, 0, 1)
	return lower, upper
}
