// Package annotate splits embedded qualifier markers (solid-phase codes and
// similar labels) out of numeric cells into a parallel annotation column.
package annotate

import (
	"regexp"
	"strconv"
	"strings"

	"soltab/internal/domain"
)

var (
	// Parenthetical suffix: "0.026 (D)", "1.35 (A+B)", "0.042 (D0.5)".
	parenSuffix = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)$`)
	// Trailing space-separated label: "30.0 II", "7.5 A+B".
	trailingPair = regexp.MustCompile(`^(\S+)\s+(\S+)$`)

	phaseLabel = regexp.MustCompile(`^([A-F]|I{1,3}|IV|V|VI)(\+([A-F]|I{1,3}|IV|V|VI))?$`)
	parenLabel = regexp.MustCompile(`^([A-F](\+[A-F])?|[A-F]\d+(\.\d+)?|I{1,3}|IV|V|VI)$`)
)

// IsPhaseLabel reports whether s matches the phase-label grammar: a single
// uppercase letter, a Roman numeral, or a two-label combination joined
// by '+'.
func IsPhaseLabel(s string) bool {
	return phaseLabel.MatchString(s)
}

// Result holds one column's extraction output. Cells and Raw are fresh
// slices; the inputs are never mutated.
type Result struct {
	Cells     []domain.Cell
	Raw       []string
	Labels    []string
	Found     int   // rows where a label was split out
	Ambiguous []int // rows that look annotated but whose prefix fails to parse
}

// ExtractColumn applies the annotation notations to every cell of a column,
// first match wins per cell. It is idempotent: extracting an already-clean
// column finds nothing and returns it unchanged.
func ExtractColumn(cells []domain.Cell, raw []string) Result {
	out := Result{
		Cells:  make([]domain.Cell, len(cells)),
		Raw:    make([]string, len(cells)),
		Labels: make([]string, len(cells)),
	}
	for i, cell := range cells {
		out.Cells[i] = cell
		out.Raw[i] = raw[i]
		if !cell.IsText() {
			continue
		}
		value, label, status := extractCell(raw[i])
		switch status {
		case extracted:
			out.Cells[i] = value
			out.Raw[i] = value.String()
			out.Labels[i] = label
			out.Found++
		case ambiguous:
			out.Ambiguous = append(out.Ambiguous, i)
		}
	}
	return out
}

type extractStatus int

const (
	untouched extractStatus = iota
	extracted
	ambiguous
)

// extractCell tries the notations in fixed order against one cell string.
// A cell whose label part matches but whose value prefix does not parse as
// a number is left untouched and reported ambiguous.
func extractCell(s string) (domain.Cell, string, extractStatus) {
	s = strings.TrimSpace(s)

	if m := parenSuffix.FindStringSubmatch(s); m != nil && parenLabel.MatchString(m[2]) {
		prefix := strings.TrimSpace(m[1])
		if prefix == "" {
			// Bare "(A)" carries no value at all.
			return domain.MissingCell(), m[2], extracted
		}
		v, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return domain.Cell{}, "", ambiguous
		}
		return domain.NumberCell(v), m[2], extracted
	}

	if m := trailingPair.FindStringSubmatch(s); m != nil && IsPhaseLabel(m[2]) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return domain.Cell{}, "", ambiguous
		}
		return domain.NumberCell(v), m[2], extracted
	}

	return domain.Cell{}, "", untouched
}
