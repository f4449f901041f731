package sweep

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MeanStddev calculates the mean and sample standard deviation of a slice.
// Returns (0, 0) for empty slices.
func MeanStddev(xs []float64) (mean float64, stddev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean = sum / float64(len(xs))

	var sdSum float64
	for _, v := range xs {
		d := v - mean
		sdSum += d * d
	}
	if len(xs) > 1 {
		stddev = math.Sqrt(sdSum / float64(len(xs)-1))
	} else {
		stddev = 0
	}
	return mean, stddev
}

// BinomialStdErr returns the standard error of an observed proportion p over
// n Bernoulli trials.
func BinomialStdErr(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// TrendLine fits jam probability against ratio by ordinary least squares and
// returns the intercept and slope. Both are zero when there are fewer than
// two points.
func TrendLine(results []RatioResult) (alpha, beta float64) {
	if len(results) < 2 {
		return 0, 0
	}
	xs := make([]float64, len(results))
	ys := make([]float64, len(results))
	for i, rr := range results {
		xs[i] = rr.Ratio
		ys[i] = rr.JamProbability
	}
	return stat.LinearRegression(xs, ys, nil, false)
}
