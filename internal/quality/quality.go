// Package quality computes the composite quality report for a processed
// table: four sub-scores, an overall score, and an advisory flag list for
// the manual-review queue. Flags never block output.
package quality

import (
	"fmt"
	"strings"

	"soltab/internal/config"
	"soltab/internal/domain"
)

// Evidence carries per-run observations that are not part of the Table
// model itself: original row widths before padding and annotation cells
// that looked annotated but failed to parse.
type Evidence struct {
	RowWidths []int
	// Ambiguous maps column index to the count of ambiguous annotation
	// cells left untouched in that column.
	Ambiguous map[int]int
}

// Evaluator scores tables against the configured thresholds and
// plausible-range table.
type Evaluator struct {
	cfg config.QualityConfig
}

// New creates an Evaluator.
func New(cfg config.QualityConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate computes the QualityReport for a table. It reads the table and
// never modifies it; re-running over the same table yields the same report.
func (e *Evaluator) Evaluate(t *domain.Table, ev Evidence) domain.QualityReport {
	r := domain.QualityReport{
		HeaderQuality:    headerQuality(t),
		Completeness:     completeness(t),
		ColumnSeparation: columnSeparation(ev.RowWidths),
		NumericAccuracy:  numericAccuracy(t),
	}
	r.OverallScore = (r.HeaderQuality + r.Completeness + r.ColumnSeparation + r.NumericAccuracy) / 4

	r.Flags = e.collectFlags(t, ev)
	r.Priority, r.NeedsReview = rollup(r.Flags)
	return r
}

func headerQuality(t *domain.Table) float64 {
	if len(t.Columns) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range t.Columns {
		sum += c.HeaderConfidence
	}
	return sum / float64(len(t.Columns))
}

func completeness(t *domain.Table) float64 {
	total, missing := 0, 0
	for _, c := range t.Columns {
		for _, cell := range c.Cells {
			total++
			if cell.IsMissing() {
				missing++
			}
		}
	}
	if total == 0 {
		return 1
	}
	return 1 - float64(missing)/float64(total)
}

// columnSeparation penalizes rows whose width deviates from the table's
// modal width, a proxy for merged or split column artifacts.
func columnSeparation(widths []int) float64 {
	if len(widths) == 0 {
		return 1
	}
	modal := modalWidth(widths)
	match := 0
	for _, w := range widths {
		if w == modal {
			match++
		}
	}
	return float64(match) / float64(len(widths))
}

func modalWidth(widths []int) int {
	counts := map[int]int{}
	for _, w := range widths {
		counts[w]++
	}
	best, bestCount := 0, 0
	for w, n := range counts {
		if n > bestCount || (n == bestCount && w > best) {
			best, bestCount = w, n
		}
	}
	return best
}

// numericAccuracy is the share of Number cells among non-missing cells of
// numeric-expecting columns. Missing cells are completeness's concern, not
// accuracy's.
func numericAccuracy(t *domain.Table) float64 {
	total, numbers := 0, 0
	for _, c := range t.Columns {
		if !c.Type.NumericExpecting() {
			continue
		}
		for _, cell := range c.Cells {
			if cell.IsMissing() {
				continue
			}
			total++
			if cell.IsNumber() {
				numbers++
			}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(numbers) / float64(total)
}

func (e *Evaluator) collectFlags(t *domain.Table, ev Evidence) []domain.Flag {
	var flags []domain.Flag

	for i := range t.Columns {
		col := &t.Columns[i]
		idx := col.Index

		if col.HeaderConfidence < e.cfg.LowHeaderConfidence {
			flags = append(flags, colFlag(domain.FlagLowHeaderConfidence, idx, domain.SeverityWarning,
				fmt.Sprintf("header confidence %.2f below %.2f", col.HeaderConfidence, e.cfg.LowHeaderConfidence)))
		}
		flags = append(flags, e.rangeFlags(col)...)
		flags = append(flags, contentFlags(col)...)
		if n := ev.Ambiguous[idx]; n > 0 {
			flags = append(flags, colFlag(domain.FlagAmbiguousAnnotation, idx, domain.SeverityWarning,
				fmt.Sprintf("%d cell(s) look annotated but their value part does not parse", n)))
		}
	}

	if c := completeness(t); c < e.cfg.HighNullRate {
		sev := domain.SeverityWarning
		if c < 0.5 {
			sev = domain.SeverityCritical
		}
		flags = append(flags, tableFlag(domain.FlagHighNullRate, sev,
			fmt.Sprintf("%.0f%% of cells are missing", (1-c)*100)))
	}

	if ratio, n := duplicateRowRatio(t); ratio > e.cfg.DuplicateRowRatio {
		flags = append(flags, tableFlag(domain.FlagExcessiveDuplicateRows, domain.SeverityCritical,
			fmt.Sprintf("%d duplicate row(s), %.0f%% of the table", n, ratio*100)))
	}

	if deviating := raggedRowCount(ev.RowWidths); deviating > 0 {
		flags = append(flags, tableFlag(domain.FlagRaggedRows, domain.SeverityWarning,
			fmt.Sprintf("%d row(s) deviate from the modal width", deviating)))
	}

	return flags
}

// rangeFlags reports values outside the semantic type's plausible range.
// Offending values are retained unchanged, never dropped or clamped.
func (e *Evaluator) rangeFlags(col *domain.Column) []domain.Flag {
	if !col.Type.NumericExpecting() {
		return nil
	}
	r, ok := e.cfg.RangeFor(col.Type)
	if !ok {
		return nil
	}
	var flags []domain.Flag
	for _, cell := range col.Cells {
		if cell.IsNumber() && !r.Contains(cell.Value) {
			flags = append(flags, colFlag(domain.FlagOutOfRangeValue, col.Index, domain.SeverityCritical,
				fmt.Sprintf("value %s outside plausible %s range [%g, %g]", cell.String(), col.Type, r.Min, r.Max)))
			break // one flag per column is enough for the review queue
		}
	}
	return flags
}

func contentFlags(col *domain.Column) []domain.Flag {
	var flags []domain.Flag

	numbers, texts, nonMissing := 0, 0, 0
	constant := true
	var first float64
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		nonMissing++
		switch {
		case cell.IsNumber():
			if numbers == 0 {
				first = cell.Value
			} else if cell.Value != first {
				constant = false
			}
			numbers++
		case cell.IsText():
			texts++
		}
	}

	if len(col.Cells) > 0 && nonMissing == 0 {
		flags = append(flags, colFlag(domain.FlagEmptyColumn, col.Index, domain.SeverityWarning,
			"column is entirely empty"))
		return flags
	}
	if numbers >= 3 && texts == 0 && constant {
		flags = append(flags, colFlag(domain.FlagConstantColumn, col.Index, domain.SeverityWarning,
			fmt.Sprintf("all %d numeric values are identical (%g)", numbers, first)))
	}
	// A numeric column with a small admixture of text cells usually means
	// OCR damage rather than a genuine text column.
	if numbers > 0 && texts > 0 && float64(texts) < float64(numbers)*0.2 {
		flags = append(flags, colFlag(domain.FlagMixedNumericText, col.Index, domain.SeverityCritical,
			fmt.Sprintf("%d text cell(s) among %d numbers", texts, numbers)))
	}
	return flags
}

func duplicateRowRatio(t *domain.Table) (float64, int) {
	if t.RowCount == 0 || len(t.Columns) == 0 {
		return 0, 0
	}
	seen := make(map[string]bool, t.RowCount)
	dups := 0
	for row := 0; row < t.RowCount; row++ {
		var b strings.Builder
		for _, c := range t.Columns {
			b.WriteString(c.Cells[row].String())
			b.WriteByte('\x1f')
		}
		key := b.String()
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return float64(dups) / float64(t.RowCount), dups
}

func raggedRowCount(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	modal := modalWidth(widths)
	n := 0
	for _, w := range widths {
		if w != modal {
			n++
		}
	}
	return n
}

// rollup derives the review priority from flag severities, mirroring the
// review queue's triage rules.
func rollup(flags []domain.Flag) (domain.ReviewPriority, bool) {
	critical, warning, info := 0, 0, 0
	for _, f := range flags {
		switch f.Severity {
		case domain.SeverityCritical:
			critical++
		case domain.SeverityWarning:
			warning++
		default:
			info++
		}
	}
	needsReview := critical > 0 || warning > 2
	switch {
	case critical > 0:
		return domain.PriorityCritical, needsReview
	case warning > 2:
		return domain.PriorityHigh, needsReview
	case warning > 0:
		return domain.PriorityMedium, needsReview
	case info > 0:
		return domain.PriorityLow, needsReview
	default:
		return domain.PriorityPassed, needsReview
	}
}

func colFlag(kind domain.FlagKind, col int, sev domain.FlagSeverity, msg string) domain.Flag {
	c := col
	return domain.Flag{Kind: kind, Column: &c, Message: msg, Severity: sev}
}

func tableFlag(kind domain.FlagKind, sev domain.FlagSeverity, msg string) domain.Flag {
	return domain.Flag{Kind: kind, Column: nil, Message: msg, Severity: sev}
}
