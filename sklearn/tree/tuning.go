package tree

import (
	"context"

	"github.com/YuminosukeSato/langid/core/parallel"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// GridScore is the validation accuracy of one (depth, min split) pair.
type GridScore struct {
	MaxDepth        int
	MinSamplesSplit int
	Accuracy        float64
}

// TuningResult is the outcome of HyperparameterTuning.
type TuningResult struct {
	BestDepth    int
	BestMinSplit int
	Accuracy     float64
	Tree         *Node

	// Scores lists every configuration in grid order.
	Scores []GridScore
}

// HyperparameterTuning fits one tree per (depth, minSplit) pair on the
// training set and keeps the one with the highest validation accuracy.
//
// The grid is walked depth-major: for each depth, every min split in order.
// Configurations are fitted concurrently, but the winner is chosen by walking
// the results in grid order with a strict comparison, so the first best
// configuration wins.
func HyperparameterTuning(Xtrain [][]float64, ytrain []int, Xval [][]float64, yval []int, depths, minSplits []int) (*TuningResult, error) {
	if len(depths) == 0 {
		return nil, errors.NewValidationError("depths", "no candidate depths", depths)
	}
	if len(minSplits) == 0 {
		return nil, errors.NewValidationError("min_splits", "no candidate min split values", minSplits)
	}
	if len(Xval) == 0 {
		return nil, errors.NewValidationError("validation", "empty validation set", 0)
	}
	if len(Xval) != len(yval) {
		return nil, errors.NewDimensionError("HyperparameterTuning", len(Xval), len(yval), 0)
	}

	type result struct {
		tree *Node
		acc  float64
	}
	grid := make([]GridScore, 0, len(depths)*len(minSplits))
	for _, d := range depths {
		for _, m := range minSplits {
			grid = append(grid, GridScore{MaxDepth: d, MinSamplesSplit: m})
		}
	}
	results := make([]result, len(grid))

	err := parallel.ForEach(context.Background(), len(grid), 0, func(_ context.Context, i int) error {
		cfg := grid[i]
		// 外側で並列化しているので、ノード内の特徴量スキャンは逐次にする
		b, err := newBuilder(Xtrain, ytrain, cfg.MaxDepth, cfg.MinSamplesSplit, -1)
		if err != nil {
			return err
		}
		root, err := b.build()
		if err != nil {
			return err
		}
		pred, err := PredictAll(root, Xval)
		if err != nil {
			return err
		}
		acc, err := metrics.AccuracyScore(yval, pred)
		if err != nil {
			return err
		}
		results[i] = result{tree: root, acc: acc}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "hyperparameter tuning failed")
	}

	logger := log.GetLoggerWithName("tree.tuning")
	best := -1
	for i := range grid {
		grid[i].Accuracy = results[i].acc
		logger.Debug("Evaluated configuration",
			log.MaxDepthKey, grid[i].MaxDepth,
			log.MinSamplesSplitKey, grid[i].MinSamplesSplit,
			log.AccuracyKey, results[i].acc)
		if best < 0 || results[i].acc > results[best].acc {
			best = i
		}
	}

	logger.Info("Best decision tree configuration",
		log.OperationKey, log.OperationTune,
		log.MaxDepthKey, grid[best].MaxDepth,
		log.MinSamplesSplitKey, grid[best].MinSamplesSplit,
		log.AccuracyKey, results[best].acc)

	return &TuningResult{
		BestDepth:    grid[best].MaxDepth,
		BestMinSplit: grid[best].MinSamplesSplit,
		Accuracy:     results[best].acc,
		Tree:         results[best].tree,
		Scores:       grid,
	}, nil
}
