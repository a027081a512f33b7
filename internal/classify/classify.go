// Package classify assigns a semantic type and confidence to a column by
// evaluating an ordered list of typed predicates against a bounded sample
// of its cells. The dispatcher is fixed; behavior changes by editing the
// predicate table.
package classify

import (
	"strings"

	"soltab/internal/annotate"
	"soltab/internal/config"
	"soltab/internal/domain"
)

// Sample is the bounded per-column evidence the predicates inspect.
type Sample struct {
	Cells   []domain.Cell
	Raw     []string // cleaned cell text, aligned with Cells
	Sibling string   // adjacent header/hint text, lowercased

	joined string // lowercased Raw joined, built once
}

// NewSample gathers up to limit non-missing cells from a column, plus any
// sibling header or hint text used for unit-marker corroboration.
func NewSample(cells []domain.Cell, raw []string, sibling string, limit int) *Sample {
	s := &Sample{Sibling: strings.ToLower(sibling)}
	for i, c := range cells {
		if c.IsMissing() {
			continue
		}
		s.Cells = append(s.Cells, c)
		s.Raw = append(s.Raw, raw[i])
		if limit > 0 && len(s.Cells) >= limit {
			break
		}
	}
	s.joined = strings.ToLower(strings.Join(s.Raw, " "))
	return s
}

// hasMarker reports whether any token appears in the sampled cell text or
// the sibling text.
func (s *Sample) hasMarker(tokens ...string) bool {
	for _, tok := range tokens {
		if strings.Contains(s.joined, tok) || strings.Contains(s.Sibling, tok) {
			return true
		}
	}
	return false
}

// numericFraction returns the share of sampled cells that are numbers
// satisfying pred. Non-numeric cells count against the score.
func (s *Sample) numericFraction(pred func(float64) bool) float64 {
	if len(s.Cells) == 0 {
		return 0
	}
	match := 0
	for _, c := range s.Cells {
		if c.IsNumber() && pred(c.Value) {
			match++
		}
	}
	return float64(match) / float64(len(s.Cells))
}

type predicate struct {
	typ   domain.SemanticType
	score func(*Sample) float64
}

// Classifier evaluates the predicate table in priority order. It is a pure
// function over the sample and configuration: repeated calls with the same
// inputs return the same pair.
type Classifier struct {
	cfg        config.ClassifierConfig
	predicates []predicate
}

// New creates a Classifier. Predicate order is the tie-break priority:
// the first predicate with the highest score wins.
func New(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		cfg: cfg,
		predicates: []predicate{
			{domain.TypeTemperature, scoreTemperature},
			{domain.TypeMassPercent, scoreMassPercent},
			{domain.TypeMolePercent, scoreMolePercent},
			{domain.TypePH, scorePH},
			{domain.TypeMolality, scoreMolality},
			{domain.TypePhaseLabel, scorePhaseLabel},
			{domain.TypeDensity, scoreDensity},
		},
	}
}

// Classify returns the winning semantic type and its confidence in [0,1].
// When no predicate clears the minimum confidence, the column falls
// through to a generic type chosen by majority cell kind.
func (c *Classifier) Classify(s *Sample) (domain.SemanticType, float64) {
	best := domain.SemanticType("")
	bestScore := 0.0
	for _, p := range c.predicates {
		score := clamp01(p.score(s))
		if score > bestScore {
			best, bestScore = p.typ, score
		}
	}
	if best == "" || bestScore < c.cfg.MinConfidence {
		return genericType(s)
	}
	return best, bestScore
}

// genericType picks numeric_generic or text_generic by majority cell kind.
// Confidence scales with how one-sided the majority is, capped below the
// semantic predicates so generics never outrank a real signal.
func genericType(s *Sample) (domain.SemanticType, float64) {
	if len(s.Cells) == 0 {
		return domain.TypeTextGeneric, 0.1
	}
	numbers := 0
	for _, c := range s.Cells {
		if c.IsNumber() {
			numbers++
		}
	}
	frac := float64(numbers) / float64(len(s.Cells))
	if frac >= 0.5 {
		return domain.TypeNumericGeneric, clamp01(0.5 * frac)
	}
	return domain.TypeTextGeneric, clamp01(0.4 * (1 - frac))
}

// Marker helpers. The broad-range predicates (temperature, mass percent,
// pH) each cede the column when a more specific unit's marker is present
// without their own; Classify's priority order alone would let them win
// ties they should lose.
func (s *Sample) tempMarker() bool {
	return s.hasMarker("°", "temp", "celsius", "kelvin")
}

func (s *Sample) moleMarker() bool {
	return s.hasMarker("mol%", "mole%", "mol %", "mole %", "mole fraction")
}

func (s *Sample) molalityMarker() bool {
	return s.hasMarker("mol/kg", "molal")
}

func (s *Sample) densityMarker() bool {
	return s.hasMarker("g/cm", "g/ml", "density", "rho", "ρ")
}

// phSibling matches only a whole "pH" token in the sibling text, so a
// "Phase" header does not read as a pH marker.
func (s *Sample) phSibling() bool {
	for _, tok := range strings.Fields(s.Sibling) {
		if tok == "ph" || tok == "p.h." {
			return true
		}
	}
	return false
}

func scoreTemperature(s *Sample) float64 {
	if !s.tempMarker() {
		if s.hasMarker("%") || s.molalityMarker() || s.densityMarker() || s.phSibling() {
			return 0
		}
	}
	score := s.numericFraction(func(v float64) bool { return v >= -50 && v <= 500 })
	if s.hasMarker("°c", "°k", "celsius", "kelvin", "temp") {
		score = max(score, 0.85)
	}
	return score
}

func scoreMassPercent(s *Sample) float64 {
	if s.moleMarker() || s.tempMarker() {
		return 0
	}
	if !s.hasMarker("%") {
		if s.molalityMarker() || s.densityMarker() || s.phSibling() {
			return 0
		}
	}
	score := s.numericFraction(func(v float64) bool { return v >= 0 && v <= 100 })
	if s.hasMarker("%") {
		score = max(score, 0.8)
	}
	return score
}

func scoreMolePercent(s *Sample) float64 {
	if !s.moleMarker() {
		return 0 // ties default to mass_percent
	}
	score := s.numericFraction(func(v float64) bool { return v >= 0 && v <= 100 })
	return max(score, 0.8)
}

func scorePH(s *Sample) float64 {
	// pH only fires without a stronger competing signal.
	if s.hasMarker("%") || s.tempMarker() || s.molalityMarker() || s.densityMarker() {
		return 0
	}
	score := s.numericFraction(func(v float64) bool { return v >= 0 && v <= 14 })
	if s.phSibling() {
		score = max(score, 0.95)
	}
	return score
}

func scoreMolality(s *Sample) float64 {
	score := s.numericFraction(func(v float64) bool { return v >= 0 && v < 10 })
	if s.molalityMarker() {
		return max(score, 0.9)
	}
	// Without a marker, molality is only a low-confidence fallback.
	return 0.45 * score
}

func scorePhaseLabel(s *Sample) float64 {
	if len(s.Cells) == 0 {
		return 0
	}
	match := 0
	for i, c := range s.Cells {
		if c.IsText() && annotate.IsPhaseLabel(strings.TrimSpace(s.Raw[i])) {
			match++
		}
	}
	return float64(match) / float64(len(s.Cells))
}

func scoreDensity(s *Sample) float64 {
	if !s.densityMarker() {
		return 0
	}
	return s.numericFraction(func(v float64) bool { return v > 0 })
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
