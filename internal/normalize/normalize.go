// Package normalize cleans per-cell OCR artifacts and parses cells into
// their tagged variant. All functions are pure and deterministic; an
// unparseable numeric-looking string degrades to Text, never to an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"soltab/internal/config"
	"soltab/internal/domain"
)

// Normalizer applies the fixed-order cleanup rules to raw cell strings.
type Normalizer struct {
	sentinels map[string]struct{}
}

// New creates a Normalizer with the configured empty-cell sentinel set.
func New(cfg config.NormalizerConfig) *Normalizer {
	s := make(map[string]struct{}, len(cfg.EmptySentinels))
	for _, v := range cfg.EmptySentinels {
		s[v] = struct{}{}
	}
	return &Normalizer{sentinels: s}
}

// Normalize cleans a raw cell string and parses it into a Cell. The
// returned string is the cleaned text the Cell was parsed from; it is
// empty for Missing cells. Normalize is idempotent: feeding its output
// back in yields the same result.
func (n *Normalizer) Normalize(raw string) (string, domain.Cell) {
	text := collapseNumericWhitespace(raw)
	text = fixDecimalComma(text)
	text = fixCharConfusion(text)
	text = strings.TrimSpace(text)

	if n.isEmpty(text) {
		return "", domain.MissingCell()
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return text, domain.NumberCell(v)
	}
	return text, domain.TextCell(text)
}

func (n *Normalizer) isEmpty(text string) bool {
	if text == "" {
		return true
	}
	_, ok := n.sentinels[text]
	return ok
}

var (
	spaceBeforeDot = regexp.MustCompile(`(\d)\s+\.`)
	spaceAfterDot  = regexp.MustCompile(`\.\s+(\d)`)
	spacedDigits   = regexp.MustCompile(`(\d)\s+(\d)`)
)

// collapseNumericWhitespace removes whitespace runs adjacent to digits, so
// "0 . 015" becomes "0.015". Whitespace next to non-digit tokens is left
// alone so trailing labels ("25.0 II") survive.
func collapseNumericWhitespace(s string) string {
	s = spaceBeforeDot.ReplaceAllString(s, "$1.")
	s = spaceAfterDot.ReplaceAllString(s, ".$1")
	for {
		next := spacedDigits.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

var decimalComma = regexp.MustCompile(`(\d),(\d)`)

// fixDecimalComma treats a lone comma between two digit groups as a decimal
// point ("0,016" -> "0.016"). Cells with multiple commas, or a comma
// followed by a space and a label token, are list context and untouched.
func fixDecimalComma(s string) string {
	if strings.Count(s, ",") != 1 {
		return s
	}
	return decimalComma.ReplaceAllString(s, "$1.$2")
}

var (
	ohAfterDigit  = regexp.MustCompile(`(\d)O`)
	ohBeforeDigit = regexp.MustCompile(`O(\d)`)
	mergedRoman   = regexp.MustCompile(`\bI(\s+I)+\b`)
	anySpace      = regexp.MustCompile(`\s+`)
)

// Character confusions corrected only in numeric contexts: l/1 inside known
// unit tokens, O/0 adjacent to digits, and merged Roman numerals.
var unitTokenFixes = []struct{ from, to string }{
	{"mo1", "mol"}, // covers mo1/kg -> mol/kg
	{"mO1", "mol"},
}

func fixCharConfusion(s string) string {
	for _, f := range unitTokenFixes {
		s = strings.ReplaceAll(s, f.from, f.to)
	}
	for {
		next := ohAfterDigit.ReplaceAllString(s, "${1}0")
		next = ohBeforeDigit.ReplaceAllString(next, "0$1")
		if next == s {
			break
		}
		s = next
	}
	s = mergedRoman.ReplaceAllStringFunc(s, func(m string) string {
		return anySpace.ReplaceAllString(m, "")
	})
	return s
}
