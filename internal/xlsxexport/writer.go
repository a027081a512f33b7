// Package xlsxexport writes a reviewable Excel workbook for a batch of
// processed tables: a summary sheet with quality scores and one sheet per
// table holding the clean grid.
package xlsxexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"soltab/internal/domain"
)

const summarySheet = "Summary"

// Excel caps sheet names at 31 characters.
const maxSheetName = 31

// Writer accumulates tables into one workbook.
type Writer struct {
	f    *excelize.File
	row  int // next summary row
	used map[string]bool
}

// New creates a Writer with an initialized summary sheet.
func New() (*Writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("renaming summary sheet: %w", err)
	}
	w := &Writer{f: f, row: 2, used: map[string]bool{strings.ToLower(summarySheet): true}}

	headers := []string{"Sheet", "Source", "Page", "Table", "Rows", "Columns",
		"Overall Score", "Header Quality", "Completeness", "Column Separation",
		"Numeric Accuracy", "Review Priority", "Flags"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Add appends one table: a dedicated sheet with the clean grid plus a
// summary row.
func (w *Writer) Add(t *domain.Table) error {
	sheet := w.sheetName(t)
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q: %w", sheet, err)
	}
	if err := w.writeGrid(sheet, t); err != nil {
		return err
	}
	return w.writeSummaryRow(sheet, t)
}

// SaveTo writes the workbook to w.
func (w *Writer) SaveTo(out io.Writer) error {
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Close releases the underlying file resources.
func (w *Writer) Close() error {
	return w.f.Close()
}

func (w *Writer) writeGrid(sheet string, t *domain.Table) error {
	headers := make([]string, 0, len(t.Columns))
	for i := range t.Columns {
		headers = append(headers, t.Columns[i].Header)
	}
	for i := range t.Columns {
		if a := t.Columns[i].Annotations; a != nil {
			headers = append(headers, a.Header)
		}
	}
	for col, h := range headers {
		if err := w.setCell(sheet, col+1, 1, h); err != nil {
			return err
		}
	}

	for row := 0; row < t.RowCount; row++ {
		col := 0
		for i := range t.Columns {
			col++
			cell := t.Columns[i].Cells[row]
			switch cell.Kind {
			case domain.CellNumber:
				if err := w.setCell(sheet, col, row+2, cell.Value); err != nil {
					return err
				}
			case domain.CellText:
				if err := w.setCell(sheet, col, row+2, cell.Text); err != nil {
					return err
				}
			}
		}
		for i := range t.Columns {
			a := t.Columns[i].Annotations
			if a == nil {
				continue
			}
			col++
			if a.Labels[row] != "" {
				if err := w.setCell(sheet, col, row+2, a.Labels[row]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *Writer) writeSummaryRow(sheet string, t *domain.Table) error {
	q := t.Quality
	values := []any{sheet, t.SourceID, t.Page, t.Index, t.RowCount, len(t.Columns),
		q.OverallScore, q.HeaderQuality, q.Completeness, q.ColumnSeparation,
		q.NumericAccuracy, string(q.Priority), len(q.Flags)}
	for i, v := range values {
		if err := w.setCell(summarySheet, i+1, w.row, v); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *Writer) setCell(sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(sheet, cell, v)
}

// sheetName derives a unique sheet name within Excel's length limit.
func (w *Writer) sheetName(t *domain.Table) string {
	base := fmt.Sprintf("%s_p%d_t%d", t.SourceID, t.Page, t.Index)
	base = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, base)
	if len(base) > maxSheetName {
		base = base[len(base)-maxSheetName:]
	}
	name := base
	for n := 2; w.used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		name = base
		if len(name)+len(suffix) > maxSheetName {
			name = name[:maxSheetName-len(suffix)]
		}
		name += suffix
	}
	w.used[strings.ToLower(name)] = true
	return name
}
