package ensemble

import (
	"context"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/core/parallel"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// OneVsRestClassifier holds one binary booster per class. A sample is
// assigned to the class whose booster gives the highest weighted vote; the
// first class in class order wins ties.
type OneVsRestClassifier struct {
	state *model.StateManager

	opts    []AdaBoostOption
	classes []int
	models  []*AdaBoostClassifier
}

// NewOneVsRestClassifier creates an unfitted classifier; opts configure every per-class booster.
func NewOneVsRestClassifier(opts ...AdaBoostOption) *OneVsRestClassifier {
	return &OneVsRestClassifier{
		state: model.NewStateManager(),
		opts:  opts,
	}
}

// NewOneVsRestFromModels composes boosters that were fitted separately,
// models[i] scoring classes[i] against the rest.
func NewOneVsRestFromModels(classes []int, models []*AdaBoostClassifier) (*OneVsRestClassifier, error) {
	if len(classes) == 0 {
		return nil, errors.NewValidationError("classes", "at least one class required", 0)
	}
	if len(classes) != len(models) {
		return nil, errors.NewDimensionError("NewOneVsRestFromModels", len(classes), len(models), 0)
	}
	if len(lo.Uniq(classes)) != len(classes) {
		return nil, errors.NewValidationError("classes", "duplicate class", classes)
	}
	nFeatures := -1
	for i, m := range models {
		if m == nil || !m.IsFitted() {
			return nil, errors.NewNotFittedError("AdaBoostClassifier", "NewOneVsRestFromModels")
		}
		if nFeatures >= 0 && m.NFeatures() != nFeatures {
			return nil, errors.Wrapf(errors.NewDimensionError("NewOneVsRestFromModels", nFeatures, m.NFeatures(), 1), "model %d", i)
		}
		nFeatures = m.NFeatures()
	}

	ovr := NewOneVsRestClassifier()
	ovr.classes = slices.Clone(classes)
	ovr.models = slices.Clone(models)
	ovr.state.SetDimensions(nFeatures, 0)
	ovr.state.SetFitted()
	return ovr, nil
}

// Binarize maps labels to +1 where they equal class and -1 elsewhere.
func Binarize(y []int, class int) []int {
	return lo.Map(y, func(label int, _ int) int {
		if label == class {
			return 1
		}
		return -1
	})
}

// Fit trains one booster per distinct label.
func (o *OneVsRestClassifier) Fit(X, y mat.Matrix) error {
	labels, err := model.Labels(y)
	if err != nil {
		return err
	}
	return o.FitSamples(model.Rows(X), labels)
}

// FitSamples trains one booster per distinct label in ascending label order.
func (o *OneVsRestClassifier) FitSamples(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.NewModelError("OneVsRestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(X) != len(y) {
		return errors.NewDimensionError("OneVsRestClassifier.Fit", len(X), len(y), 0)
	}
	classes := lo.Uniq(y)
	slices.Sort(classes)

	log.GetLoggerWithName("ensemble.ovr").Debug("Training OneVsRestClassifier",
		log.ModelNameKey, "OneVsRestClassifier",
		log.SamplesKey, len(X),
		log.ClassesKey, len(classes))

	models := make([]*AdaBoostClassifier, len(classes))
	err := parallel.ForEach(context.Background(), len(classes), 0, func(_ context.Context, i int) error {
		m := NewAdaBoostClassifier(o.opts...)
		if err := m.FitSamples(X, Binarize(y, classes[i])); err != nil {
			return errors.Wrapf(err, "class %d", classes[i])
		}
		models[i] = m
		return nil
	})
	if err != nil {
		return err
	}

	o.state.Reset()
	o.classes = classes
	o.models = models
	o.state.SetDimensions(len(X[0]), len(X))
	o.state.SetFitted()
	return nil
}

// DecisionFunctionSamples returns, per sample, the weighted vote of every
// class's booster in class order.
func (o *OneVsRestClassifier) DecisionFunctionSamples(X [][]float64) ([][]float64, error) {
	if err := o.state.RequireFitted("OneVsRestClassifier", "DecisionFunction"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(o.models))
	}
	for c, m := range o.models {
		scores, err := m.DecisionFunctionSamples(X)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", o.classes[c])
		}
		for i, s := range scores {
			out[i][c] = s
		}
	}
	return out, nil
}

// PredictSamples returns the highest-scoring class of every sample.
func (o *OneVsRestClassifier) PredictSamples(X [][]float64) ([]int, error) {
	scores, err := o.DecisionFunctionSamples(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scores))
	for i, row := range scores {
		best := 0
		for c, s := range row {
			if s > row[best] {
				best = c
			}
		}
		out[i] = o.classes[best]
	}
	return out, nil
}

// Predict returns the predicted classes as an n×1 column.
func (o *OneVsRestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := o.PredictSamples(model.Rows(X))
	if err != nil {
		return nil, err
	}
	return model.LabelVec(pred), nil
}

// Score returns the accuracy on (X, y).
func (o *OneVsRestClassifier) Score(X, y mat.Matrix) (float64, error) {
	labels, err := model.Labels(y)
	if err != nil {
		return 0, err
	}
	pred, err := o.PredictSamples(model.Rows(X))
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(model.LabelVec(labels), model.LabelVec(pred))
}

// IsFitted reports whether the classifier holds fitted boosters.
func (o *OneVsRestClassifier) IsFitted() bool {
	return o.state.IsFitted()
}

// Classes returns the classes in scoring order.
func (o *OneVsRestClassifier) Classes() []int {
	return slices.Clone(o.classes)
}

// Estimators returns the per-class boosters in class order.
func (o *OneVsRestClassifier) Estimators() []*AdaBoostClassifier {
	return slices.Clone(o.models)
}
