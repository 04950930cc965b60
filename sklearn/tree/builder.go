package tree

import (
	"context"
	"slices"

	"github.com/YuminosukeSato/langid/core/parallel"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// DefaultParallelThreshold is the node size × feature count above which a
// node's feature scans run concurrently.
const DefaultParallelThreshold = 1 << 15

// BuildTree grows a decision tree over (X, y).
//
// A node becomes a majority leaf when the depth limit is reached, when it
// holds fewer than minSamplesSplit samples, when all its labels agree, or
// when no threshold leaves at least minSamplesSplit samples on both sides.
// maxDepth may be Unlimited.
func BuildTree(X [][]float64, y []int, maxDepth, minSamplesSplit int) (*Node, error) {
	b, err := newBuilder(X, y, maxDepth, minSamplesSplit, DefaultParallelThreshold)
	if err != nil {
		return nil, err
	}
	return b.build()
}

// builder holds per-build state. Class labels are mapped to dense indices in
// ascending label order so count vectors can be compared and summed cheaply.
type builder struct {
	X               [][]float64
	classOf         []int // class index per sample
	classes         []int // ascending distinct labels
	nFeatures       int
	maxDepth        int
	minSamplesSplit int
	parallelMin     int

	importances []float64
}

// candidate is the best split found for one feature.
type candidate struct {
	found     bool
	score     float64
	threshold float64
}

func newBuilder(X [][]float64, y []int, maxDepth, minSamplesSplit, parallelMin int) (*builder, error) {
	if err := validateDataset(X, y); err != nil {
		return nil, err
	}
	if maxDepth < Unlimited {
		return nil, errors.NewValidationError("max_depth", "must be -1 (unlimited) or non-negative", maxDepth)
	}
	if minSamplesSplit < 1 {
		return nil, errors.NewValidationError("min_samples_split", "must be at least 1", minSamplesSplit)
	}

	classes := slices.Clone(y)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	classOf := make([]int, len(y))
	for i, label := range y {
		classOf[i] = index[label]
	}

	return &builder{
		X:               X,
		classOf:         classOf,
		classes:         classes,
		nFeatures:       len(X[0]),
		maxDepth:        maxDepth,
		minSamplesSplit: minSamplesSplit,
		parallelMin:     parallelMin,
		importances:     make([]float64, len(X[0])),
	}, nil
}

func validateDataset(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.NewModelError("BuildTree", "empty data", errors.ErrEmptyData)
	}
	if len(X) != len(y) {
		return errors.NewDimensionError("BuildTree", len(X), len(y), 0)
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return errors.Wrapf(errors.NewDimensionError("BuildTree", d, len(row), 1), "row %d", i)
		}
	}
	return nil
}

// build presorts every feature column once. Each node then carries, per
// feature, its samples ordered by that feature; children inherit the order
// through a stable partition.
func (b *builder) build() (*Node, error) {
	n := len(b.X)
	sorted := make([][]int, b.nFeatures)
	presort := func(start, end int) {
		for f := start; f < end; f++ {
			idx := make([]int, n)
			for i := range idx {
				idx[i] = i
			}
			slices.SortStableFunc(idx, func(a, c int) int {
				switch {
				case b.X[a][f] < b.X[c][f]:
					return -1
				case b.X[a][f] > b.X[c][f]:
					return 1
				default:
					return 0
				}
			})
			sorted[f] = idx
		}
	}
	if b.parallel(n) {
		parallel.Parallelize(b.nFeatures, presort)
	} else {
		presort(0, b.nFeatures)
	}
	return b.grow(sorted, n, 0)
}

func (b *builder) grow(sorted [][]int, n, depth int) (*Node, error) {
	counts := b.countClasses(sorted, n)
	leaf := &Node{Value: b.classes[majority(counts)]}

	if (b.maxDepth != Unlimited && depth >= b.maxDepth) || n < b.minSamplesSplit || isPure(counts) {
		return leaf, nil
	}

	feature, best, err := b.bestSplit(sorted, counts, n)
	if err != nil {
		return nil, err
	}
	if !best.found {
		return leaf, nil
	}
	b.importances[feature] += weightedEntropy(counts, n) - best.score

	left, right, nLeft := b.partition(sorted, feature, best.threshold)

	node := &Node{FeatureIndex: feature, Threshold: best.threshold}
	if node.Left, err = b.grow(left, nLeft, depth+1); err != nil {
		return nil, err
	}
	if node.Right, err = b.grow(right, n-nLeft, depth+1); err != nil {
		return nil, err
	}
	return node, nil
}

func (b *builder) countClasses(sorted [][]int, n int) []int {
	counts := make([]int, len(b.classes))
	if b.nFeatures == 0 {
		// 特徴量がなければ分割されないので、ノードは常に全サンプルを持つ
		for _, c := range b.classOf {
			counts[c]++
		}
		return counts
	}
	for _, i := range sorted[0][:n] {
		counts[b.classOf[i]]++
	}
	return counts
}

// parallel reports whether work over n samples of every feature is spread across goroutines.
func (b *builder) parallel(n int) bool {
	return b.parallelMin >= 0 && n*b.nFeatures >= b.parallelMin && b.nFeatures > 1
}

// bestSplit scans all features and reduces the per-feature winners in
// ascending feature order, keeping the first strictly smaller score.
func (b *builder) bestSplit(sorted [][]int, counts []int, n int) (int, candidate, error) {
	results := make([]candidate, b.nFeatures)

	if b.parallel(n) {
		err := parallel.ForEach(context.Background(), b.nFeatures, 0, func(_ context.Context, f int) error {
			results[f] = b.scanFeature(sorted[f][:n], f, counts)
			return nil
		})
		if err != nil {
			return 0, candidate{}, err
		}
	} else {
		for f := range results {
			results[f] = b.scanFeature(sorted[f][:n], f, counts)
		}
	}

	bestFeature := -1
	var best candidate
	for f, c := range results {
		if !c.found {
			continue
		}
		if bestFeature < 0 || c.score < best.score {
			bestFeature, best = f, c
		}
	}
	return bestFeature, best, nil
}

// scanFeature sweeps the node's samples in ascending order of feature f.
// Every distinct value t is a candidate; the left side is the prefix of
// samples with x[f] <= t.
func (b *builder) scanFeature(order []int, f int, total []int) candidate {
	n := len(order)
	left := make([]int, len(total))
	right := slices.Clone(total)

	var best candidate
	for pos := 0; pos < n; {
		t := b.X[order[pos]][f]
		for pos < n && b.X[order[pos]][f] == t {
			c := b.classOf[order[pos]]
			left[c]++
			right[c]--
			pos++
		}

		nLeft, nRight := pos, n-pos
		if nLeft < b.minSamplesSplit || nRight < b.minSamplesSplit {
			continue
		}
		score := weightedEntropy(left, nLeft) + weightedEntropy(right, nRight)
		if !best.found || score < best.score {
			best = candidate{found: true, score: score, threshold: t}
		}
	}
	return best
}

// partition splits every per-feature order on x[feature] <= threshold,
// keeping each order stable.
func (b *builder) partition(sorted [][]int, feature int, threshold float64) (left, right [][]int, nLeft int) {
	left = make([][]int, b.nFeatures)
	right = make([][]int, b.nFeatures)
	for f, order := range sorted {
		l := make([]int, 0, len(order))
		r := make([]int, 0, len(order))
		for _, i := range order {
			if b.X[i][feature] <= threshold {
				l = append(l, i)
			} else {
				r = append(r, i)
			}
		}
		left[f], right[f] = l, r
	}
	return left, right, len(left[0])
}

// normalizedImportances scales the accumulated entropy reductions to sum to 1.
func (b *builder) normalizedImportances() []float64 {
	out := slices.Clone(b.importances)
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total <= 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
