package tree

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/metrics"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

// DecisionTreeClassifier wraps BuildTree in a scikit-learn style estimator.
type DecisionTreeClassifier struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	maxDepth          int // Unlimited (-1) disables the depth limit
	minSamplesSplit   int
	parallelThreshold int // node size × features above which scans run concurrently; negative disables

	// Model parameters
	root               *Node
	classes            []int
	featureImportances []float64
}

// DecisionTreeOption is a functional option for DecisionTreeClassifier
type DecisionTreeOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates an unlimited-depth tree with min_samples_split = 2.
func NewDecisionTreeClassifier(opts ...DecisionTreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:             model.NewStateManager(),
		maxDepth:          Unlimited,
		minSamplesSplit:   2,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithMaxDepth sets the maximum depth of the tree
func WithMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples a node needs to be
// split, and the minimum size of each side of a split.
func WithMinSamplesSplit(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithParallelThreshold sets the work size above which a node scans its
// features concurrently. A negative value keeps every scan sequential.
func WithParallelThreshold(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.parallelThreshold = n
	}
}

// Fit builds the tree from an n×d feature matrix and an n×1 label column.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", rows, yRows, 0)
	}
	if rows == 0 || cols == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	labels, err := model.Labels(y)
	if err != nil {
		return err
	}
	return dt.FitSamples(model.Rows(X), labels)
}

// FitSamples builds the tree directly from rows and integer labels.
func (dt *DecisionTreeClassifier) FitSamples(samples [][]float64, labels []int) error {
	logger := log.GetLoggerWithName("tree.classifier")
	start := time.Now()

	b, err := newBuilder(samples, labels, dt.maxDepth, dt.minSamplesSplit, dt.parallelThreshold)
	if err != nil {
		return err
	}
	logger.Debug("Training DecisionTreeClassifier",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.SamplesKey, len(samples),
		log.FeaturesKey, b.nFeatures,
		log.ClassesKey, len(b.classes),
		log.MaxDepthKey, dt.maxDepth,
		log.MinSamplesSplitKey, dt.minSamplesSplit)

	root, err := b.build()
	if err != nil {
		return errors.Wrap(err, "failed to build decision tree")
	}

	dt.state.Reset()
	dt.root = root
	dt.classes = b.classes
	dt.featureImportances = b.normalizedImportances()
	dt.state.SetDimensions(b.nFeatures, len(samples))
	dt.state.SetFitted()

	logger.Debug("Training completed",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.DepthKey, root.Depth(),
		log.LeavesKey, root.NLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// Predict returns the predicted labels as an n×1 column.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := dt.PredictSamples(model.Rows(X))
	if err != nil {
		return nil, err
	}
	return model.LabelVec(pred), nil
}

// PredictSamples returns one label per row.
func (dt *DecisionTreeClassifier) PredictSamples(samples [][]float64) ([]int, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return nil, err
	}
	for i, row := range samples {
		if err := dt.state.RequireFeatures("DecisionTreeClassifier.Predict", len(row)); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}
	return PredictAll(dt.root, samples)
}

// Score returns the accuracy on (X, y).
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	labels, err := model.Labels(y)
	if err != nil {
		return 0, err
	}
	pred, err := dt.PredictSamples(model.Rows(X))
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(model.LabelVec(labels), model.LabelVec(pred))
}

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeClassifier) IsFitted() bool {
	return dt.state.IsFitted()
}

// Root returns the fitted tree, or nil before Fit.
func (dt *DecisionTreeClassifier) Root() *Node {
	return dt.root
}

// Classes returns the distinct training labels in ascending order.
func (dt *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), dt.classes...)
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int {
	return dt.root.Depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return dt.root.NLeaves()
}

// GetFeatureImportances returns each feature's share of the total entropy
// reduction achieved by the splits.
func (dt *DecisionTreeClassifier) GetFeatureImportances() ([]float64, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "GetFeatureImportances"); err != nil {
		return nil, err
	}
	return append([]float64(nil), dt.featureImportances...), nil
}

// GetParams returns the hyperparameters
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":          dt.maxDepth,
		"min_samples_split":  dt.minSamplesSplit,
		"parallel_threshold": dt.parallelThreshold,
	}
}

// SetParams updates hyperparameters. Integral float64 values are accepted so
// that parameters decoded from JSON can be passed through.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		v, err := intParam(key, value)
		if err != nil {
			return err
		}
		switch key {
		case "max_depth":
			dt.maxDepth = v
		case "min_samples_split":
			dt.minSamplesSplit = v
		case "parallel_threshold":
			dt.parallelThreshold = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

func intParam(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, errors.NewValidationError(key, "must be an integer", value)
}

// String implements fmt.Stringer
func (dt *DecisionTreeClassifier) String() string {
	if !dt.IsFitted() {
		return fmt.Sprintf("DecisionTreeClassifier(max_depth=%d, min_samples_split=%d)", dt.maxDepth, dt.minSamplesSplit)
	}
	return fmt.Sprintf("DecisionTreeClassifier(max_depth=%d, min_samples_split=%d, depth=%d, leaves=%d)",
		dt.maxDepth, dt.minSamplesSplit, dt.GetDepth(), dt.GetNLeaves())
}
