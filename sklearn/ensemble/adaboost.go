// Package ensemble implements AdaBoost over decision stumps for binary ±1
// labels, a learner-count search, and a one-vs-rest composition of boosters
// for multi-class problems.
package ensemble

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// EPS bounds the weighted error away from 0 and 1 before alpha is computed.
const EPS = 1e-10

// DefaultNLearners is the number of boosting rounds when WithNLearners is not given.
const DefaultNLearners = 50

// WeightUpdate selects how sample weights are rescaled after each round.
type WeightUpdate int

const (
	// LinearUpdate multiplies each weight by 1 - alpha*y*pred.
	// Large alphas can make weights negative; a warning is raised when they do.
	LinearUpdate WeightUpdate = iota
	// ExponentialUpdate multiplies each weight by exp(-alpha*y*pred).
	ExponentialUpdate
)

func (u WeightUpdate) String() string {
	if u == ExponentialUpdate {
		return "exponential"
	}
	return "linear"
}

// ParseWeightUpdate parses "linear" or "exponential".
func ParseWeightUpdate(s string) (WeightUpdate, error) {
	switch s {
	case "linear", "":
		return LinearUpdate, nil
	case "exponential":
		return ExponentialUpdate, nil
	default:
		return LinearUpdate, errors.NewValidationError("weight_update", "must be linear or exponential", s)
	}
}

// RoundInfo describes one finished boosting round.
type RoundInfo struct {
	Round int
	Stump DecisionStump
	// Error is the effective weighted error of Stump before clamping.
	Error float64
	// Weights are the normalized sample weights after the round. The slice
	// is a copy owned by the callback.
	Weights []float64
}

// AdaBoostClassifier is a binary booster of decision stumps. Labels must be
// +1 or -1.
type AdaBoostClassifier struct {
	state *model.StateManager

	nLearners    int
	weightUpdate WeightUpdate
	callback     func(RoundInfo)

	stumps []DecisionStump
}

// AdaBoostOption is a functional option for AdaBoostClassifier
type AdaBoostOption func(*AdaBoostClassifier)

// NewAdaBoostClassifier creates a booster with DefaultNLearners rounds and the linear weight update.
func NewAdaBoostClassifier(opts ...AdaBoostOption) *AdaBoostClassifier {
	ab := &AdaBoostClassifier{
		state:        model.NewStateManager(),
		nLearners:    DefaultNLearners,
		weightUpdate: LinearUpdate,
	}
	for _, opt := range opts {
		opt(ab)
	}
	return ab
}

// WithNLearners sets the number of boosting rounds
func WithNLearners(n int) AdaBoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.nLearners = n
	}
}

// WithWeightUpdate selects the weight update rule
func WithWeightUpdate(u WeightUpdate) AdaBoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.weightUpdate = u
	}
}

// WithCallback registers fn to be called after every round.
func WithCallback(fn func(RoundInfo)) AdaBoostOption {
	return func(ab *AdaBoostClassifier) {
		ab.callback = fn
	}
}

// Fit trains on an n×d feature matrix and an n×1 column of ±1 labels.
func (ab *AdaBoostClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("AdaBoostClassifier.Fit", rows, yRows, 0)
	}
	if rows == 0 || cols == 0 {
		return errors.NewModelError("AdaBoostClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	labels, err := model.Labels(y)
	if err != nil {
		return err
	}
	return ab.FitSamples(model.Rows(X), labels)
}

func validateBinary(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.NewModelError("AdaBoostClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(X) != len(y) {
		return errors.NewDimensionError("AdaBoostClassifier.Fit", len(X), len(y), 0)
	}
	d := len(X[0])
	if d == 0 {
		return errors.NewModelError("AdaBoostClassifier.Fit", "no features", errors.ErrEmptyData)
	}
	for i, row := range X {
		if len(row) != d {
			return errors.Wrapf(errors.NewDimensionError("AdaBoostClassifier.Fit", d, len(row), 1), "row %d", i)
		}
	}
	for i, label := range y {
		if label != 1 && label != -1 {
			return errors.Wrapf(errors.NewValidationError("y", "labels must be +1 or -1", label), "row %d", i)
		}
	}
	return nil
}

// FitSamples runs the boosting rounds on rows and ±1 labels. A previous fit
// is discarded.
func (ab *AdaBoostClassifier) FitSamples(X [][]float64, y []int) error {
	if ab.nLearners < 0 {
		return errors.NewValidationError("n_learners", "must be non-negative", ab.nLearners)
	}
	if err := validateBinary(X, y); err != nil {
		return err
	}

	logger := log.GetLoggerWithName("ensemble.adaboost")
	start := time.Now()
	n := len(X)
	logger.Debug("Training AdaBoostClassifier",
		log.ModelNameKey, "AdaBoostClassifier",
		log.SamplesKey, n,
		log.FeaturesKey, len(X[0]),
		log.LearnersKey, ab.nLearners)

	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	search := newStumpSearch(X, y)
	stumps := make([]DecisionStump, 0, ab.nLearners)
	pred := make([]int, n)
	for round := 0; round < ab.nLearners; round++ {
		stump, effErr := search.best(w)

		e := errors.ClipValue(effErr, EPS, 1-EPS)
		if ratio := (1 - e) / (e + EPS); ratio > 0 {
			stump.Alpha = 0.5 * math.Log(ratio)
		}

		for i, sample := range X {
			pred[i] = stump.predictOne(sample)
		}
		if err := ab.reweight(w, y, pred, stump.Alpha, round); err != nil {
			return err
		}
		stumps = append(stumps, stump)

		logger.Debug("Boosting round",
			log.IterationKey, round,
			log.FeatureKey, stump.FeatureIndex,
			log.ThresholdKey, stump.Threshold,
			log.PolarityKey, stump.Polarity,
			log.AlphaKey, stump.Alpha,
			log.WeightedErrorKey, effErr)
		if ab.callback != nil {
			ab.callback(RoundInfo{Round: round, Stump: stump, Error: effErr, Weights: slices.Clone(w)})
		}
	}

	ab.state.Reset()
	ab.stumps = stumps
	ab.state.SetDimensions(len(X[0]), n)
	ab.state.SetFitted()

	logger.Debug("Training completed",
		log.ModelNameKey, "AdaBoostClassifier",
		log.LearnersKey, len(stumps),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// reweight rescales w in place and normalizes it to sum to 1.
func (ab *AdaBoostClassifier) reweight(w []float64, y, pred []int, alpha float64, round int) error {
	negative := 0
	for i := range w {
		margin := float64(y[i] * pred[i])
		if ab.weightUpdate == ExponentialUpdate {
			w[i] *= math.Exp(-alpha * margin)
		} else {
			w[i] *= 1 - alpha*margin
		}
		if w[i] < 0 {
			negative++
		}
	}
	if negative > 0 {
		errors.Warn(errors.NewNegativeWeightWarning(round, negative, len(w)))
	}

	sum := floats.Sum(w)
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return errors.NewNumericalInstabilityError("AdaBoostClassifier.reweight", []float64{sum}, round)
	}
	floats.Scale(1/sum, w)
	return nil
}

// DecisionFunctionSamples returns the alpha-weighted vote of every sample.
func (ab *AdaBoostClassifier) DecisionFunctionSamples(X [][]float64) ([]float64, error) {
	if err := ab.state.RequireFitted("AdaBoostClassifier", "DecisionFunction"); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, sample := range X {
		if err := ab.state.RequireFeatures("AdaBoostClassifier.Predict", len(sample)); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		sum := 0.0
		for _, s := range ab.stumps {
			sum += s.Alpha * float64(s.predictOne(sample))
		}
		out[i] = sum
	}
	return out, nil
}

// PredictSamples returns +1 where the weighted vote is strictly positive and -1 otherwise.
func (ab *AdaBoostClassifier) PredictSamples(X [][]float64) ([]int, error) {
	scores, err := ab.DecisionFunctionSamples(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		if s > 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out, nil
}

// Predict returns the ±1 labels as an n×1 column.
func (ab *AdaBoostClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := ab.PredictSamples(model.Rows(X))
	if err != nil {
		return nil, err
	}
	return model.LabelVec(pred), nil
}

// DecisionFunction returns the raw weighted votes as a vector.
func (ab *AdaBoostClassifier) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	scores, err := ab.DecisionFunctionSamples(model.Rows(X))
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(len(scores), scores), nil
}

// Score returns the accuracy on (X, y).
func (ab *AdaBoostClassifier) Score(X, y mat.Matrix) (float64, error) {
	labels, err := model.Labels(y)
	if err != nil {
		return 0, err
	}
	pred, err := ab.PredictSamples(model.Rows(X))
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(model.LabelVec(labels), model.LabelVec(pred))
}

// IsFitted reports whether Fit has completed.
func (ab *AdaBoostClassifier) IsFitted() bool {
	return ab.state.IsFitted()
}

// Stumps returns a copy of the fitted stumps in round order.
func (ab *AdaBoostClassifier) Stumps() []DecisionStump {
	return slices.Clone(ab.stumps)
}

// NFeatures is the feature count seen during fitting.
func (ab *AdaBoostClassifier) NFeatures() int {
	n, _ := ab.state.GetDimensions()
	return n
}

// GetParams returns the hyperparameters
func (ab *AdaBoostClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_learners":    ab.nLearners,
		"weight_update": ab.weightUpdate.String(),
	}
}

// SetParams updates hyperparameters
func (ab *AdaBoostClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_learners":
			switch v := value.(type) {
			case int:
				ab.nLearners = v
			case float64:
				if v != math.Trunc(v) {
					return errors.NewValidationError(key, "must be an integer", value)
				}
				ab.nLearners = int(v)
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		case "weight_update":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			u, err := ParseWeightUpdate(s)
			if err != nil {
				return err
			}
			ab.weightUpdate = u
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// String implements fmt.Stringer
func (ab *AdaBoostClassifier) String() string {
	return fmt.Sprintf("AdaBoostClassifier(n_learners=%d, weight_update=%s, fitted=%d)",
		ab.nLearners, ab.weightUpdate, len(ab.stumps))
}
