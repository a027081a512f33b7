// Package pipeline runs the per-table reconstruction: normalization,
// annotation extraction, semantic classification, header inference, and
// quality evaluation, in that order. Each run is a pure function from a
// RawTable to a new Table; inputs are never mutated.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"soltab/internal/annotate"
	"soltab/internal/classify"
	"soltab/internal/config"
	"soltab/internal/domain"
	"soltab/internal/header"
	"soltab/internal/normalize"
	"soltab/internal/quality"
)

// Processor wires the pipeline stages with a shared configuration.
type Processor struct {
	cfg        *config.Config
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	headers    *header.Engine
	evaluator  *quality.Evaluator
}

// New creates a Processor. The configuration is treated as immutable for
// the Processor's lifetime.
func New(cfg *config.Config) *Processor {
	return &Processor{
		cfg:        cfg,
		normalizer: normalize.New(cfg.Normalizer),
		classifier: classify.New(cfg.Classifier),
		headers:    header.New(cfg.Header),
		evaluator:  quality.New(cfg.Quality),
	}
}

// Process reconstructs one table. The only hard failure is a table with
// zero rows or zero columns; every data-quality problem degrades to a flag
// on the report instead.
func (p *Processor) Process(raw *domain.RawTable) (*domain.Table, error) {
	width := 0
	for _, row := range raw.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if len(raw.Rows) == 0 || width == 0 {
		return nil, fmt.Errorf("table %s p%d t%d: %w", raw.SourceID, raw.Page, raw.Index, domain.ErrMalformedInput)
	}

	// Stage 1: normalize every cell, padding ragged rows with Missing.
	cells := make([][]domain.Cell, len(raw.Rows))
	texts := make([][]string, len(raw.Rows))
	widths := make([]int, len(raw.Rows))
	for i, row := range raw.Rows {
		widths[i] = len(row)
		cells[i] = make([]domain.Cell, width)
		texts[i] = make([]string, width)
		for j := 0; j < width; j++ {
			if j < len(row) {
				texts[i][j], cells[i][j] = p.normalizer.Normalize(row[j])
			} else {
				cells[i][j] = domain.MissingCell()
			}
		}
	}

	// Table-wide literal-row decision comes before any per-column work so
	// the header row never leaks into classification samples.
	literalHeaders, literalFired := p.headers.LiteralRow(cells[0], texts[0])
	if literalFired {
		cells = cells[1:]
		texts = texts[1:]
		widths = widths[1:]
	}
	rowCount := len(cells)

	hints := make(map[int]*domain.ColumnHint, len(raw.Hints))
	for i := range raw.Hints {
		h := raw.Hints[i]
		hints[h.Column] = &h
	}

	columns := make([]domain.Column, width)
	ambiguous := make(map[int]int)

	for j := 0; j < width; j++ {
		colCells := make([]domain.Cell, rowCount)
		colText := make([]string, rowCount)
		for i := 0; i < rowCount; i++ {
			colCells[i] = cells[i][j]
			colText[i] = texts[i][j]
		}

		// Stage 2: split annotations out before classification so the
		// parent column's sample holds clean numbers.
		ext := annotate.ExtractColumn(colCells, colText)
		colCells, colText = ext.Cells, ext.Raw
		if len(ext.Ambiguous) > 0 {
			ambiguous[j] = len(ext.Ambiguous)
		}

		// Stage 3: classify from a bounded sample, using the literal
		// header or hint text as corroborating sibling evidence.
		sibling := ""
		if literalFired {
			sibling = literalHeaders[j]
		} else if h := hints[j]; h != nil {
			sibling = h.Name
		}
		sample := classify.NewSample(colCells, colText, sibling, p.cfg.Classifier.SampleSize)
		typ, conf := p.classifier.Classify(sample)

		// Stage 4: header inference.
		var res header.Result
		if literalFired {
			res = header.Result{Header: literalHeaders[j], Confidence: 1.0, Method: domain.HeaderLiteralRow}
		} else {
			res = p.headers.InferColumn(j, typ, conf, hints[j])
		}

		col := domain.Column{
			Index:            j,
			Cells:            colCells,
			Type:             typ,
			TypeConfidence:   conf,
			Header:           res.Header,
			HeaderConfidence: res.Confidence,
			HeaderMethod:     res.Method,
		}
		if ext.Found > 0 {
			col.Annotations = &domain.AnnotationColumn{
				Parent:     j,
				Header:     res.Header + "_phase",
				Labels:     ext.Labels,
				Confidence: float64(ext.Found) / float64(max(rowCount, 1)),
			}
		}
		columns[j] = col
	}

	disambiguateHeaders(columns)

	t := &domain.Table{
		ID:       uuid.New(),
		SourceID: raw.SourceID,
		Page:     raw.Page,
		Index:    raw.Index,
		RowCount: rowCount,
		Columns:  columns,
	}

	// Stage 5: quality evaluation over the finished table.
	t.Quality = p.evaluator.Evaluate(t, quality.Evidence{
		RowWidths: widths,
		Ambiguous: ambiguous,
	})
	return t, nil
}

// disambiguateHeaders applies unique-name suffixes across the full output
// header row: original columns in order, then derived annotation columns.
func disambiguateHeaders(columns []domain.Column) {
	headers := make([]string, 0, len(columns)*2)
	for i := range columns {
		headers = append(headers, columns[i].Header)
	}
	for i := range columns {
		if columns[i].Annotations != nil {
			headers = append(headers, columns[i].Annotations.Header)
		}
	}
	unique := header.MakeUnique(headers)

	k := 0
	for i := range columns {
		columns[i].Header = unique[k]
		k++
	}
	for i := range columns {
		if columns[i].Annotations != nil {
			columns[i].Annotations.Header = unique[k]
			k++
		}
	}
}
