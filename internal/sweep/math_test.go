package sweep

import (
	"testing"

	"github.com/banshee-data/lanesim/internal/testutil"
)

func TestMeanStddev(t *testing.T) {
	testCases := []struct {
		name       string
		input      []float64
		wantMean   float64
		wantStddev float64
	}{
		{"empty", nil, 0, 0},
		{"single_value", []float64{42}, 42, 0},
		{"constant", []float64{5, 5, 5, 5}, 5, 0},
		{"one_to_five", []float64{1, 2, 3, 4, 5}, 3, 1.5811388300841898},
		{"two_values", []float64{10, 20}, 15, 7.0710678118654755},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mean, stddev := MeanStddev(tc.input)
			testutil.AssertClose(t, mean, tc.wantMean, 1e-9)
			testutil.AssertClose(t, stddev, tc.wantStddev, 1e-9)
		})
	}
}

func TestBinomialStdErr(t *testing.T) {
	testCases := []struct {
		name string
		p    float64
		n    int
		want float64
	}{
		{"zero_trials", 0.5, 0, 0},
		{"negative_trials", 0.5, -1, 0},
		{"certain_outcome", 1.0, 100, 0},
		{"impossible_outcome", 0.0, 100, 0},
		{"fair_coin_100", 0.5, 100, 0.05},
		{"quarter_64", 0.25, 64, 0.05412658773652741},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertClose(t, BinomialStdErr(tc.p, tc.n), tc.want, 1e-12)
		})
	}
}

func TestTrendLine(t *testing.T) {
	t.Run("too_few_points", func(t *testing.T) {
		alpha, beta := TrendLine([]RatioResult{{Ratio: 0.5, JamProbability: 0.4}})
		if alpha != 0 || beta != 0 {
			t.Errorf("Expected (0, 0), got (%v, %v)", alpha, beta)
		}
	})

	t.Run("exact_line", func(t *testing.T) {
		// Points on y = 0.8x + 0.1 should be recovered exactly.
		results := []RatioResult{
			{Ratio: 0.0, JamProbability: 0.1},
			{Ratio: 0.5, JamProbability: 0.5},
			{Ratio: 1.0, JamProbability: 0.9},
		}
		alpha, beta := TrendLine(results)
		testutil.AssertClose(t, alpha, 0.1, 1e-9)
		testutil.AssertClose(t, beta, 0.8, 1e-9)
	})

	t.Run("flat_data", func(t *testing.T) {
		results := []RatioResult{
			{Ratio: 0.0, JamProbability: 0.3},
			{Ratio: 0.5, JamProbability: 0.3},
			{Ratio: 1.0, JamProbability: 0.3},
		}
		alpha, beta := TrendLine(results)
		testutil.AssertClose(t, alpha, 0.3, 1e-9)
		testutil.AssertClose(t, beta, 0.0, 1e-9)
	})
}
