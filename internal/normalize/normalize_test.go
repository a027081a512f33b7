package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soltab/internal/config"
)

func newNormalizer() *Normalizer {
	return New(config.Default().Normalizer)
}

func TestNormalize_Numbers(t *testing.T) {
	n := newNormalizer()

	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain", "25.0", 25.0},
		{"negative", "-5.7", -5.7},
		{"split decimal point", "0 . 015", 0.015},
		{"space after point", "0. 015", 0.015},
		{"digit run with spaces", "1 234", 1234},
		{"fully spaced digits", "0 . 0 1 6", 0.016},
		{"decimal comma", "0,016", 0.016},
		{"confused O after digit", "2O.5", 20.5},
		{"confused O before digit", "O5", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, cell := n.Normalize(tc.raw)
			require.True(t, cell.IsNumber(), "expected a number, got %+v", cell)
			assert.Equal(t, tc.want, cell.Value)
		})
	}
}

func TestNormalize_Text(t *testing.T) {
	n := newNormalizer()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"unit token l-confusion", "0.5 mo1/kg", "0.5 mol/kg"},
		{"merged roman numeral", "I I", "II"},
		{"triple roman", "I I I", "III"},
		{"annotated value survives", "30.0 II", "30.0 II"},
		{"multi-comma list untouched", "1,2,3", "1,2,3"},
		{"plain word", "saturated", "saturated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, cell := n.Normalize(tc.raw)
			require.True(t, cell.IsText(), "expected text, got %+v", cell)
			assert.Equal(t, tc.want, text)
			assert.Equal(t, tc.want, cell.Text)
		})
	}
}

func TestNormalize_Missing(t *testing.T) {
	n := newNormalizer()

	for _, raw := range []string{"", "   ", "-", "--", "---", "n/a", "N/A", " - "} {
		text, cell := n.Normalize(raw)
		assert.True(t, cell.IsMissing(), "raw %q should be missing", raw)
		assert.Empty(t, text)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newNormalizer()

	for _, raw := range []string{"0 . 015", "0,016", "2O.5", "I I", "30.0 II", "0.5 mo1/kg", "n/a", "saturated"} {
		text1, cell1 := n.Normalize(raw)
		text2, cell2 := n.Normalize(text1)
		assert.Equal(t, text1, text2, "text changed on second pass for %q", raw)
		assert.Equal(t, cell1, cell2, "cell changed on second pass for %q", raw)
	}
}

func TestCollapseNumericWhitespace_LeavesLabelsAlone(t *testing.T) {
	assert.Equal(t, "25.0 II", collapseNumericWhitespace("25.0 II"))
	assert.Equal(t, "7.5 A+B", collapseNumericWhitespace("7.5 A+B"))
}

func TestFixDecimalComma_OnlySingleComma(t *testing.T) {
	assert.Equal(t, "0.016", fixDecimalComma("0,016"))
	assert.Equal(t, "1,2,3", fixDecimalComma("1,2,3"))
	assert.Equal(t, "a, b", fixDecimalComma("a, b"))
}
