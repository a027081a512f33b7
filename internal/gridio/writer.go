package gridio

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"soltab/internal/domain"
)

// WriteTable writes the clean cell grid: one header row using the final
// inferred headers, then the data rows. Derived annotation columns are
// appended after the original columns, in parent order.
func WriteTable(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)

	headers := make([]string, 0, len(t.Columns))
	for i := range t.Columns {
		headers = append(headers, t.Columns[i].Header)
	}
	for i := range t.Columns {
		if a := t.Columns[i].Annotations; a != nil {
			headers = append(headers, a.Header)
		}
	}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for row := 0; row < t.RowCount; row++ {
		record := make([]string, 0, len(headers))
		for i := range t.Columns {
			record = append(record, t.Columns[i].Cells[row].String())
		}
		for i := range t.Columns {
			if a := t.Columns[i].Annotations; a != nil {
				record = append(record, a.Labels[row])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or
// underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a source identifier for use in artifact
// filenames: non-alphanumeric characters (except - _) become _,
// consecutive underscores collapse, and the result is capped at 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// Stem returns the base filename (no extension) for a table's output
// artifacts: {sanitized_source}_p{page}_t{index}.
func Stem(sourceID string, page, index int) string {
	return fmt.Sprintf("%s_p%d_t%d", SanitizeFilename(sourceID), page, index)
}

// ArtifactStem is Stem for a processed table.
func ArtifactStem(t *domain.Table) string {
	return Stem(t.SourceID, t.Page, t.Index)
}
