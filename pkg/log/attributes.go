// Standard attribute keys for selection runs.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "selection.round") so that log lines can be filtered by category.

package log

// Operation context.
const (
	// ModelNameKey identifies the estimator, e.g. "ForwardSelector".
	ModelNameKey = "model.name"

	// OperationKey names the operation: "fit", "evaluate", "report".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package doing the work: "selection", "linear", "report".
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of rows n.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of original columns m_orig.
	FeaturesKey = "data.features"

	// FingerprintKey is the xxhash fingerprint of the input matrices.
	FingerprintKey = "data.fingerprint"
)

// Selection progress.
const (
	// RoundKey is the 1-based selection round.
	RoundKey = "selection.round"

	// FeatureKey is a 1-based original column index.
	FeatureKey = "selection.feature"

	// SelectedKey is the ordered list of selected columns.
	SelectedKey = "selection.selected"

	// CandidatesKey is the number of candidates evaluated in a round.
	CandidatesKey = "selection.candidates"

	// AICKey is an Akaike Information Criterion value.
	AICKey = "selection.aic"

	// StateKey is the controller state, e.g. "converged" or "full_model".
	StateKey = "selection.state"

	// InterceptKey is the intercept mode 0, 1 or 2.
	InterceptKey = "config.intercept"

	// ThresholdKey is the relative AIC improvement threshold.
	ThresholdKey = "config.threshold"

	// WorkersKey is the size of the candidate worker pool.
	WorkersKey = "config.workers"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorTypeKey categorizes the error, e.g. "SingularMatrixError".
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationEvaluate = "evaluate"
	OperationReport   = "report"
)
