package schema

// Custom string types for type safety.
type (
	// ParameterName is the stable field name of a germination index.
	ParameterName string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// CorrelationScope selects which replicates are correlated together.
	CorrelationScope string

	// T50Basis selects the denominator used when locating T50.
	T50Basis string

	// FailureKind classifies why a replicate was skipped.
	FailureKind string
)

// Germination index names.
const (
	GerminabilityParam ParameterName = "germinability"
	MeanTimeParam      ParameterName = "mean_time"
	VarianceParam      ParameterName = "variance"
	StdDevParam        ParameterName = "std_dev"
	CVTimeParam        ParameterName = "cv_time"
	MeanRateParam      ParameterName = "mean_rate"
	UncertaintyParam   ParameterName = "uncertainty"
	SynchronyParam     ParameterName = "synchrony"
	MaguireParam       ParameterName = "maguire_index"
	T50Param           ParameterName = "t50"
	ArcSineParam       ParameterName = "arcsine"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All correlation scopes supported.
const (
	GlobalScope    CorrelationScope = "global" // default
	TreatmentScope CorrelationScope = "treatment"
)

// All T50 bases supported.
const (
	SownBasis       T50Basis = "sown" // default
	GerminatedBasis T50Basis = "germinated"
)

// All failure kinds.
const (
	InvalidInputFailure    FailureKind = "invalid_input"
	MalformedSeriesFailure FailureKind = "malformed_series"
)

// AllParameters lists every index in canonical display order.
var AllParameters = []ParameterName{
	GerminabilityParam,
	MeanTimeParam,
	VarianceParam,
	StdDevParam,
	CVTimeParam,
	MeanRateParam,
	UncertaintyParam,
	SynchronyParam,
	MaguireParam,
	T50Param,
	ArcSineParam,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCorrelationScopes lists all valid correlation scopes.
var ValidCorrelationScopes = map[CorrelationScope]struct{}{
	GlobalScope:    {},
	TreatmentScope: {},
}

// ValidT50Bases lists all valid T50 bases.
var ValidT50Bases = map[T50Basis]struct{}{
	SownBasis:       {},
	GerminatedBasis: {},
}

// ParameterLabels maps each index to its short column label.
var ParameterLabels = map[ParameterName]string{
	GerminabilityParam: "G%",
	MeanTimeParam:      "MGT",
	VarianceParam:      "Var",
	StdDevParam:        "SD",
	CVTimeParam:        "CVt",
	MeanRateParam:      "MGR",
	UncertaintyParam:   "U",
	SynchronyParam:     "Z",
	MaguireParam:       "Maguire",
	T50Param:           "T50",
	ArcSineParam:       "ArcSin",
}

// IsValidParameter reports whether name is a known index.
func IsValidParameter(name ParameterName) bool {
	_, ok := ParameterLabels[name]
	return ok
}
