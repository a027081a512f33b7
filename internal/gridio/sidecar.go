package gridio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"soltab/internal/domain"
)

// Sidecar is the quality/metadata record written alongside each clean
// grid. The presentation layer and the manual-review queue read it; the
// core only writes it.
type Sidecar struct {
	ID       uuid.UUID            `json:"id"`
	SourceID string               `json:"source_id"`
	Page     int                  `json:"page"`
	Index    int                  `json:"index"`
	RowCount int                  `json:"row_count"`
	Columns  []SidecarColumn      `json:"columns"`
	Quality  domain.QualityReport `json:"quality"`
}

// SidecarColumn describes one output column, original or derived.
type SidecarColumn struct {
	Header                   string              `json:"header"`
	SemanticType             domain.SemanticType `json:"semantic_type"`
	ClassificationConfidence float64             `json:"classification_confidence"`
	HeaderMethod             domain.HeaderMethod `json:"header_method"`
	HeaderConfidence         float64             `json:"header_confidence"`
	Derived                  bool                `json:"derived"`
	Parent                   *int                `json:"parent,omitempty"`
}

// BuildSidecar assembles the sidecar record for a processed table.
// Derived annotation columns are listed after the originals, typed
// phase_label with the extraction evidence as their confidence.
func BuildSidecar(t *domain.Table) Sidecar {
	s := Sidecar{
		ID:       t.ID,
		SourceID: t.SourceID,
		Page:     t.Page,
		Index:    t.Index,
		RowCount: t.RowCount,
		Quality:  t.Quality,
	}
	for i := range t.Columns {
		c := &t.Columns[i]
		s.Columns = append(s.Columns, SidecarColumn{
			Header:                   c.Header,
			SemanticType:             c.Type,
			ClassificationConfidence: c.TypeConfidence,
			HeaderMethod:             c.HeaderMethod,
			HeaderConfidence:         c.HeaderConfidence,
		})
	}
	for i := range t.Columns {
		a := t.Columns[i].Annotations
		if a == nil {
			continue
		}
		parent := a.Parent
		s.Columns = append(s.Columns, SidecarColumn{
			Header:                   a.Header,
			SemanticType:             domain.TypePhaseLabel,
			ClassificationConfidence: a.Confidence,
			HeaderMethod:             t.Columns[i].HeaderMethod,
			HeaderConfidence:         t.Columns[i].HeaderConfidence,
			Derived:                  true,
			Parent:                   &parent,
		})
	}
	return s
}

// WriteSidecar writes the sidecar record as indented JSON.
func WriteSidecar(w io.Writer, t *domain.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildSidecar(t)); err != nil {
		return fmt.Errorf("encoding sidecar for %s: %w", t.SourceID, err)
	}
	return nil
}

// ReadSidecar parses a sidecar record, used by the standalone validation
// command to re-report quality without reprocessing.
func ReadSidecar(r io.Reader) (*Sidecar, error) {
	var s Sidecar
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding sidecar: %w", err)
	}
	return &s, nil
}
