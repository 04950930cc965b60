package ensemble

import (
	"context"
	"slices"

	"github.com/YuminosukeSato/langid/core/parallel"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// LearnerScore is the validation accuracy of one candidate round count.
type LearnerScore struct {
	NLearners int
	Accuracy  float64
}

// TuningResult is the outcome of TuneNumberOfLearners.
type TuningResult struct {
	BestNLearners int
	Accuracy      float64
	Model         *AdaBoostClassifier

	// Scores lists every candidate in the order given.
	Scores []LearnerScore
}

// TuneNumberOfLearners fits a fresh booster for every candidate round count
// and keeps the one with the highest validation accuracy; the first best
// candidate wins ties. opts are applied to every booster before the round
// count option, so a callback given here is called from several goroutines.
func TuneNumberOfLearners(Xtrain [][]float64, ytrain []int, Xval [][]float64, yval []int, candidates []int, opts ...AdaBoostOption) (*TuningResult, error) {
	if len(candidates) == 0 {
		return nil, errors.NewValidationError("candidates", "no candidate learner counts", candidates)
	}
	if len(Xval) == 0 {
		return nil, errors.NewValidationError("validation", "empty validation set", 0)
	}
	if len(Xval) != len(yval) {
		return nil, errors.NewDimensionError("TuneNumberOfLearners", len(Xval), len(yval), 0)
	}

	models := make([]*AdaBoostClassifier, len(candidates))
	scores := make([]LearnerScore, len(candidates))
	err := parallel.ForEach(context.Background(), len(candidates), 0, func(_ context.Context, i int) error {
		// opts に WithNLearners が含まれていても候補値を優先する
		ab := NewAdaBoostClassifier(append(slices.Clone(opts), WithNLearners(candidates[i]))...)
		if err := ab.FitSamples(Xtrain, ytrain); err != nil {
			return errors.Wrapf(err, "n_learners=%d", candidates[i])
		}
		pred, err := ab.PredictSamples(Xval)
		if err != nil {
			return err
		}
		acc, err := metrics.AccuracyScore(yval, pred)
		if err != nil {
			return err
		}
		models[i] = ab
		scores[i] = LearnerScore{NLearners: candidates[i], Accuracy: acc}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "learner count tuning failed")
	}

	logger := log.GetLoggerWithName("ensemble.tuning")
	best := 0
	for i, s := range scores {
		logger.Debug("Evaluated learner count", log.LearnersKey, s.NLearners, log.AccuracyKey, s.Accuracy)
		if s.Accuracy > scores[best].Accuracy {
			best = i
		}
	}
	logger.Info("Best learner count",
		log.OperationKey, log.OperationTune,
		log.LearnersKey, scores[best].NLearners,
		log.AccuracyKey, scores[best].Accuracy)

	return &TuningResult{
		BestNLearners: scores[best].NLearners,
		Accuracy:      scores[best].Accuracy,
		Model:         models[best],
		Scores:        scores,
	}, nil
}
