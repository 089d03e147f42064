// Package log defines standard attribute keys for machine learning operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in cuml. Using these standard keys enables better
// log analysis, monitoring, and debugging of estimator and device activity.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "CD", "UMAP", "NearestNeighbors", "ElasticNet"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "solvers", "manifold", "neighbors", "cuda"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// DTypeKey records the working precision of the data on device.
	// Examples: "float32", "float64"
	DTypeKey = "data.dtype"

	// OrderKey records the memory layout used when staging a matrix.
	// Values: "row_major", "col_major"
	OrderKey = "data.order"

	// DataSizeKey indicates the size of the staged data in bytes.
	DataSizeKey = "data.size_bytes"
)

// Device and backend context.
const (
	// BackendKey names the native backend handling the call.
	BackendKey = "cuda.backend"

	// StreamKey identifies the execution stream an instance is bound to.
	StreamKey = "cuda.stream"

	// DeviceMemKey records device pool usage in bytes.
	DeviceMemKey = "cuda.device_mem_bytes"
)

// Performance metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"
)

// Error context.
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "DimensionError", "NativeError"
	ErrorTypeKey = "error.type"
)

// Standard attribute value constants for common operations.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationKneighbors   = "kneighbors"
)
