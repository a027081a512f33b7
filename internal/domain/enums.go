package domain

// SemanticType is the inferred domain meaning of a column.
type SemanticType string

const (
	TypeTemperature    SemanticType = "temperature"
	TypeMassPercent    SemanticType = "mass_percent"
	TypeMolePercent    SemanticType = "mole_percent"
	TypeMolality       SemanticType = "molality"
	TypePH             SemanticType = "pH"
	TypePhaseLabel     SemanticType = "phase_label"
	TypeDensity        SemanticType = "density"
	TypeNumericGeneric SemanticType = "numeric_generic"
	TypeTextGeneric    SemanticType = "text_generic"
)

// NumericExpecting reports whether cells of this type should parse as numbers.
func (t SemanticType) NumericExpecting() bool {
	switch t {
	case TypeTemperature, TypeMassPercent, TypeMolePercent, TypeMolality,
		TypePH, TypeDensity, TypeNumericGeneric:
		return true
	}
	return false
}

// Generic reports whether the type is one of the low-confidence fallbacks.
func (t SemanticType) Generic() bool {
	return t == TypeNumericGeneric || t == TypeTextGeneric
}

// HeaderMethod identifies which inference strategy produced a column header.
type HeaderMethod string

const (
	HeaderLiteralRow HeaderMethod = "literal_row"
	HeaderClassifier HeaderMethod = "classifier"
	HeaderMetadata   HeaderMethod = "metadata"
	HeaderFallback   HeaderMethod = "fallback"
)

// CellKind tags the variant held by a Cell.
type CellKind string

const (
	CellNumber  CellKind = "number"
	CellText    CellKind = "text"
	CellMissing CellKind = "missing"
)

// FlagKind identifies an advisory quality flag.
type FlagKind string

const (
	FlagLowHeaderConfidence    FlagKind = "low_header_confidence"
	FlagHighNullRate           FlagKind = "high_null_rate"
	FlagOutOfRangeValue        FlagKind = "out_of_range_value"
	FlagExcessiveDuplicateRows FlagKind = "excessive_duplicate_rows"
	FlagAmbiguousAnnotation    FlagKind = "ambiguous_annotation"
	FlagEmptyColumn            FlagKind = "empty_column"
	FlagConstantColumn         FlagKind = "constant_column"
	FlagMixedNumericText       FlagKind = "mixed_numeric_text"
	FlagRaggedRows             FlagKind = "ragged_rows"
)

// FlagSeverity ranks how strongly a flag suggests manual review.
type FlagSeverity string

const (
	SeverityCritical FlagSeverity = "critical"
	SeverityWarning  FlagSeverity = "warning"
	SeverityInfo     FlagSeverity = "info"
)

// ReviewPriority is the rollup of a table's flags for the review queue.
type ReviewPriority string

const (
	PriorityCritical ReviewPriority = "critical"
	PriorityHigh     ReviewPriority = "high"
	PriorityMedium   ReviewPriority = "medium"
	PriorityLow      ReviewPriority = "low"
	PriorityPassed   ReviewPriority = "passed"
)
