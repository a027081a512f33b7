package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// Cell is a tagged value produced by normalization. Cells are never mutated
// after creation; corrections produce replacement Cells.
type Cell struct {
	Kind  CellKind `json:"kind"`
	Value float64  `json:"value,omitempty"` // set when Kind == CellNumber
	Text  string   `json:"text,omitempty"`  // set when Kind == CellText
}

// NumberCell returns a Cell holding a parsed numeric value.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Value: v}
}

// TextCell returns a Cell holding trimmed text.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// MissingCell returns the Missing variant.
func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

func (c Cell) IsNumber() bool  { return c.Kind == CellNumber }
func (c Cell) IsText() bool    { return c.Kind == CellText }
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// String renders the cell for output grids. Missing renders empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Value, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// ColumnHint is an out-of-band column naming hint supplied by an upstream
// collaborator, consumed by the metadata-informed header strategy.
type ColumnHint struct {
	Column     int     `json:"column"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// RawTable is the extractor-produced grid of unprocessed cell strings.
// Ragged rows are permitted; they are padded and flagged during processing.
// RawTable is read-only input to the pipeline.
type RawTable struct {
	SourceID string       `json:"source_id"`
	Page     int          `json:"page"`
	Index    int          `json:"index"`
	Rows     [][]string   `json:"rows"`
	Hints    []ColumnHint `json:"hints,omitempty"`
}

// AnnotationColumn holds qualifier labels split out of a parent column's
// cells, aligned 1:1 with the parent's rows. Empty string means no
// annotation was present on that row.
type AnnotationColumn struct {
	Parent int      `json:"parent"`
	Header string   `json:"header"`
	Labels []string `json:"labels"`
	// Confidence is the derived column's phase_label classification
	// confidence: the share of parent rows that carried an annotation.
	Confidence float64 `json:"classification_confidence"`
}

// HasLabels reports whether at least one row carries an annotation.
func (a *AnnotationColumn) HasLabels() bool {
	for _, l := range a.Labels {
		if l != "" {
			return true
		}
	}
	return false
}

// Column is one reconstructed column of a processed table.
type Column struct {
	Index            int               `json:"index"`
	Cells            []Cell            `json:"cells"`
	Annotations      *AnnotationColumn `json:"annotations,omitempty"`
	Type             SemanticType      `json:"semantic_type"`
	TypeConfidence   float64           `json:"classification_confidence"`
	Header           string            `json:"header"`
	HeaderConfidence float64           `json:"header_confidence"`
	HeaderMethod     HeaderMethod      `json:"header_method"`
}

// Flag is an advisory quality marker. Flags never block output.
type Flag struct {
	Kind     FlagKind     `json:"kind"`
	Column   *int         `json:"column,omitempty"`
	Message  string       `json:"message"`
	Severity FlagSeverity `json:"severity"`
}

// QualityReport is the composite quality model for one processed table.
// It is derived from the table contents and recomputed on every run; it is
// never mutated independently of the Table it describes.
type QualityReport struct {
	HeaderQuality    float64        `json:"header_quality"`
	Completeness     float64        `json:"completeness"`
	ColumnSeparation float64        `json:"column_separation"`
	NumericAccuracy  float64        `json:"numeric_accuracy"`
	OverallScore     float64        `json:"overall_score"`
	Flags            []Flag         `json:"flags"`
	Priority         ReviewPriority `json:"review_priority"`
	NeedsReview      bool           `json:"needs_review"`
}

// Table is the immutable output artifact of one pipeline run over a
// RawTable. Corrections require a new Table, never in-place edits.
type Table struct {
	ID       uuid.UUID     `json:"id"`
	SourceID string        `json:"source_id"`
	Page     int           `json:"page"`
	Index    int           `json:"index"`
	RowCount int           `json:"row_count"`
	Columns  []Column      `json:"columns"`
	Quality  QualityReport `json:"quality"`
}
