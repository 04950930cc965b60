package ensemble

import (
	"cmp"
	"math"
	"slices"

	"github.com/YuminosukeSato/langid/core/parallel"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// tieTolerance is the relative gap below which two weighted errors count as equal.
// Prefix sums and 1-err drift by a few ulps between candidates that tie exactly.
const tieTolerance = 1e-12

// sequentialFeatures is the widest X whose columns are presorted without goroutines.
const sequentialFeatures = 4

// lessError reports whether a is smaller than b by more than tieTolerance.
func lessError(a, b float64) bool {
	return a < b-tieTolerance*max(1, math.Abs(b))
}

// DecisionStump is a one-split weak learner. It predicts +1 when
// Polarity*x[FeatureIndex] < Polarity*Threshold and -1 otherwise.
type DecisionStump struct {
	FeatureIndex int
	Threshold    float64
	Polarity     int
	Alpha        float64
}

// predictOne assumes sample is wide enough.
func (s DecisionStump) predictOne(sample []float64) int {
	p := float64(s.Polarity)
	if p*sample[s.FeatureIndex] < p*s.Threshold {
		return 1
	}
	return -1
}

// Predict returns ±1 for every sample.
func (s DecisionStump) Predict(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, sample := range X {
		if s.FeatureIndex >= len(sample) {
			return nil, errors.Wrapf(errors.NewDimensionError("DecisionStump.Predict", s.FeatureIndex+1, len(sample), 1), "sample %d", i)
		}
		out[i] = s.predictOne(sample)
	}
	return out, nil
}

// stumpSearch finds the best stump of a round. Columns are presorted once per
// fit; weights change between rounds but the candidate set does not.
type stumpSearch struct {
	X      [][]float64
	y      []int
	sorted [][]int // per feature, sample indices ascending by value
}

func newStumpSearch(X [][]float64, y []int) *stumpSearch {
	d := len(X[0])
	sorted := make([][]int, d)
	parallel.ParallelizeWithThreshold(d, sequentialFeatures, func(start, end int) {
		for f := start; f < end; f++ {
			sorted[f] = argsort(X, f)
		}
	})
	return &stumpSearch{X: X, y: y, sorted: sorted}
}

// best returns the stump with the smallest effective weighted error.
//
// The base rule for threshold t is +1 when x < t. Its error is the weight of
// positives at or above t plus the weight of negatives below t. An error
// above 0.5 (beyond tieTolerance) is flipped to 1-error with polarity -1, which predicts +1 when
// x >= t. Candidates within tieTolerance of the best so far do not replace
// it, so the lowest feature and then the lowest threshold win ties.
// A flipped stump stores the next distinct value below t so that
// Predict reproduces exactly the partition whose error was measured.
func (s *stumpSearch) best(w []float64) (DecisionStump, float64) {
	var wPos, wNeg float64
	for i, label := range s.y {
		if label > 0 {
			wPos += w[i]
		} else {
			wNeg += w[i]
		}
	}

	best := DecisionStump{Polarity: 1}
	minErr := math.Inf(1)
	for f, order := range s.sorted {
		var leftPos, leftNeg float64
		prev, hasPrev := 0.0, false
		for pos := 0; pos < len(order); {
			t := s.X[order[pos]][f]

			err := (wPos - leftPos) + leftNeg
			polarity := 1
			if lessError(0.5, err) {
				err = 1 - err
				polarity = -1
			}
			if lessError(err, minErr) {
				minErr = err
				threshold := t
				if polarity < 0 {
					if hasPrev {
						threshold = prev
					} else {
						threshold = math.Nextafter(t, math.Inf(-1))
					}
				}
				best = DecisionStump{FeatureIndex: f, Threshold: threshold, Polarity: polarity}
			}

			for pos < len(order) && s.X[order[pos]][f] == t {
				i := order[pos]
				if s.y[i] > 0 {
					leftPos += w[i]
				} else {
					leftNeg += w[i]
				}
				pos++
			}
			prev, hasPrev = t, true
		}
	}
	return best, minErr
}

func argsort(X [][]float64, f int) []int {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	// 同値はインデックス順を保つ
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(X[a][f], X[b][f]) })
	return idx
}
