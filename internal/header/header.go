// Package header produces one header string and confidence per column by
// cascading inference strategies: literal row detection, classifier-informed
// naming, metadata-informed naming, and fallback alphabetic naming. The
// fallback always fires, so every column ends up with a non-empty header.
package header

import (
	"fmt"
	"regexp"
	"strings"

	"soltab/internal/config"
	"soltab/internal/domain"
)

// Result is one column's inferred header.
type Result struct {
	Header     string
	Confidence float64
	Method     domain.HeaderMethod
}

// Engine runs the strategy cascade with configured thresholds.
type Engine struct {
	cfg config.HeaderConfig
}

// New creates an Engine.
func New(cfg config.HeaderConfig) *Engine {
	return &Engine{cfg: cfg}
}

var numericLooking = regexp.MustCompile(`^[-+]?[0-9.,]+$`)

// LiteralRow evaluates the table-wide first-row strategy. It fires only
// when every first-row cell is a Text cell that is not a plausible
// numeric-looking token; partially numeric rows never fire. On success it
// returns the verbatim headers and the caller removes the row from the
// data. The decision is all-or-nothing so column alignment stays intact.
func (e *Engine) LiteralRow(cells []domain.Cell, raw []string) ([]string, bool) {
	if len(cells) == 0 {
		return nil, false
	}
	for i, c := range cells {
		if !c.IsText() {
			return nil, false
		}
		if numericLooking.MatchString(strings.TrimSpace(raw[i])) {
			return nil, false
		}
	}
	headers := make([]string, len(raw))
	for i, r := range raw {
		headers[i] = strings.TrimSpace(r)
	}
	return headers, true
}

// typeHeaders maps a semantic type to a human-readable header with units.
var typeHeaders = map[domain.SemanticType]string{
	domain.TypeTemperature: "Temperature (°C)",
	domain.TypeMassPercent: "Mass %",
	domain.TypeMolePercent: "Mole %",
	domain.TypeMolality:    "Molality (mol/kg)",
	domain.TypePH:          "pH",
	domain.TypePhaseLabel:  "Phase",
	domain.TypeDensity:     "Density (g/cm³)",
}

// InferColumn runs strategies 2-4 for one column and returns the first
// that fires. Generic semantic types never name a column; they fall past
// the classifier strategy.
func (e *Engine) InferColumn(index int, typ domain.SemanticType, typeConf float64, hint *domain.ColumnHint) Result {
	if name, ok := typeHeaders[typ]; ok && typeConf >= e.cfg.ClassifierThreshold {
		return Result{Header: name, Confidence: typeConf, Method: domain.HeaderClassifier}
	}
	if hint != nil && hint.Name != "" && hint.Confidence >= e.cfg.MetadataThreshold {
		return Result{Header: hint.Name, Confidence: hint.Confidence, Method: domain.HeaderMetadata}
	}
	return Result{Header: AlphabeticName(index), Confidence: 0.3, Method: domain.HeaderFallback}
}

// AlphabeticName returns the fallback header for a column position:
// Column_A .. Column_Z, then Column_AA, Column_AB, ...
func AlphabeticName(index int) string {
	n := index
	letters := ""
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return "Column_" + letters
}

// MakeUnique disambiguates duplicate header strings with numeric suffixes
// so output grids have unique column names. The first occurrence keeps its
// name; later ones get _1, _2, ...
func MakeUnique(headers []string) []string {
	out := make([]string, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		if n, seen := counts[h]; seen {
			counts[h] = n + 1
			out[i] = fmt.Sprintf("%s_%d", h, n+1)
			continue
		}
		counts[h] = 0
		out[i] = h
	}
	return out
}
