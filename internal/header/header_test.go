package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soltab/internal/config"
	"soltab/internal/domain"
)

func newEngine() *Engine {
	return New(config.Default().Header)
}

func TestLiteralRow_Fires(t *testing.T) {
	e := newEngine()
	cells := []domain.Cell{domain.TextCell("Temp"), domain.TextCell("Solubility"), domain.TextCell("Phase")}
	raw := []string{"Temp", " Solubility ", "Phase"}

	headers, ok := e.LiteralRow(cells, raw)

	require.True(t, ok)
	assert.Equal(t, []string{"Temp", "Solubility", "Phase"}, headers)
}

func TestLiteralRow_Declines(t *testing.T) {
	e := newEngine()

	t.Run("partially numeric row", func(t *testing.T) {
		cells := []domain.Cell{domain.TextCell("Temp"), domain.NumberCell(25.0)}
		_, ok := e.LiteralRow(cells, []string{"Temp", "25.0"})
		assert.False(t, ok)
	})

	t.Run("numeric-looking text cell", func(t *testing.T) {
		cells := []domain.Cell{domain.TextCell("Temp"), domain.TextCell("1,2,3")}
		_, ok := e.LiteralRow(cells, []string{"Temp", "1,2,3"})
		assert.False(t, ok)
	})

	t.Run("missing cell in row", func(t *testing.T) {
		cells := []domain.Cell{domain.TextCell("Temp"), domain.MissingCell()}
		_, ok := e.LiteralRow(cells, []string{"Temp", ""})
		assert.False(t, ok)
	})

	t.Run("empty row", func(t *testing.T) {
		_, ok := e.LiteralRow(nil, nil)
		assert.False(t, ok)
	})
}

func TestInferColumn_Cascade(t *testing.T) {
	e := newEngine()

	t.Run("classifier strategy", func(t *testing.T) {
		res := e.InferColumn(0, domain.TypeTemperature, 0.9, nil)
		assert.Equal(t, "Temperature (°C)", res.Header)
		assert.Equal(t, 0.9, res.Confidence)
		assert.Equal(t, domain.HeaderClassifier, res.Method)
	})

	t.Run("generic type falls past classifier", func(t *testing.T) {
		res := e.InferColumn(0, domain.TypeNumericGeneric, 0.9, nil)
		assert.Equal(t, domain.HeaderFallback, res.Method)
	})

	t.Run("below threshold falls to metadata", func(t *testing.T) {
		hint := &domain.ColumnHint{Column: 1, Name: "Solubility", Confidence: 0.6}
		res := e.InferColumn(1, domain.TypeTemperature, 0.4, hint)
		assert.Equal(t, "Solubility", res.Header)
		assert.Equal(t, 0.6, res.Confidence)
		assert.Equal(t, domain.HeaderMetadata, res.Method)
	})

	t.Run("weak hint falls to fallback", func(t *testing.T) {
		hint := &domain.ColumnHint{Column: 1, Name: "Solubility", Confidence: 0.2}
		res := e.InferColumn(1, domain.TypeTextGeneric, 0.1, hint)
		assert.Equal(t, "Column_B", res.Header)
		assert.Equal(t, 0.3, res.Confidence)
		assert.Equal(t, domain.HeaderFallback, res.Method)
	})

	t.Run("no evidence at all", func(t *testing.T) {
		res := e.InferColumn(0, domain.TypeTextGeneric, 0.1, nil)
		assert.Equal(t, "Column_A", res.Header)
		assert.Equal(t, domain.HeaderFallback, res.Method)
	})
}

func TestAlphabeticName(t *testing.T) {
	assert.Equal(t, "Column_A", AlphabeticName(0))
	assert.Equal(t, "Column_B", AlphabeticName(1))
	assert.Equal(t, "Column_Z", AlphabeticName(25))
	assert.Equal(t, "Column_AA", AlphabeticName(26))
	assert.Equal(t, "Column_AB", AlphabeticName(27))
	assert.Equal(t, "Column_AZ", AlphabeticName(51))
	assert.Equal(t, "Column_BA", AlphabeticName(52))
}

func TestMakeUnique(t *testing.T) {
	in := []string{"Mass %", "Temp", "Mass %", "Mass %", "Temp"}
	out := MakeUnique(in)

	assert.Equal(t, []string{"Mass %", "Temp", "Mass %_1", "Mass %_2", "Temp_1"}, out)
	// Input is untouched.
	assert.Equal(t, "Mass %", in[2])
}
