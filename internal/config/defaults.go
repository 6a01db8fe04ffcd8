package config

// Batch directory defaults, relative to the working directory.
const (
	DefaultOriginalSchedules = "../benchmark/original_output/"
	DefaultOriginalResults   = "../benchmark/results_original/"
	DefaultChangedSchedules  = "../benchmark/changed_output/"
	DefaultChangedResults    = "../benchmark/results_changed/"
	DefaultReport            = "../benchmark/compare_results.txt"
)

// Batch behaviour defaults.
const (
	DefaultOnError      = "abort"
	DefaultResultPrefix = "output"
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultMetricsFile  = ""
	DefaultEnvironment  = ""
	// DefaultSampleRatio of 0 keeps the parent-based always-on sampler.
	DefaultSampleRatio = 0.0
)
