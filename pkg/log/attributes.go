package log

// Standard attribute keys. They follow a hierarchical naming convention
// ("model.name", "data.samples") so log lines can be filtered by prefix.

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "DecisionTreeClassifier", "AdaBoostClassifier"
	ModelNameKey = "model.name"

	// ClassKey identifies the positive class of a binary model in a one-vs-rest ensemble.
	ClassKey = "model.class"

	OperationKey = "ml.operation"
	ComponentKey = "ml.component"
	PhaseKey     = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	SkippedKey  = "data.skipped"
	PathKey     = "data.path"
)

// Training and evaluation.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	ErrorRateKey  = "metrics.error_rate"

	IterationKey = "training.iteration"
	DepthKey     = "tree.depth"
	LeavesKey    = "tree.leaves"
	NodesKey     = "tree.nodes"

	// Decision-stump fields emitted once per boosting round.
	FeatureKey       = "stump.feature"
	ThresholdKey     = "stump.threshold"
	PolarityKey      = "stump.polarity"
	AlphaKey         = "stump.alpha"
	WeightedErrorKey = "stump.weighted_error"
)

// Hyperparameters.
const (
	MaxDepthKey        = "hyperparams.max_depth"
	MinSamplesSplitKey = "hyperparams.min_samples_split"
	LearnersKey        = "hyperparams.n_learners"
	RandomSeedKey      = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"
	OperationTune      = "tune"
	OperationSave      = "save"
	OperationLoad      = "load"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
