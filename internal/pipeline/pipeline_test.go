package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soltab/internal/config"
	"soltab/internal/domain"
	"soltab/internal/pipeline"
)

func newProcessor() *pipeline.Processor {
	return pipeline.New(config.Default())
}

func rawTable(source string, rows [][]string) *domain.RawTable {
	return &domain.RawTable{SourceID: source, Page: 1, Index: 0, Rows: rows}
}

func TestProcess_LiteralHeaderRow(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{
		{"Temp", "Solubility", "Phase"},
		{"25.0", "12.5", "I"},
		{"50.0", "19.3", "II"},
	})

	table, err := p.Process(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, table.RowCount)
	require.Len(t, table.Columns, 3)
	for i, want := range []string{"Temp", "Solubility", "Phase"} {
		c := table.Columns[i]
		assert.Equal(t, want, c.Header)
		assert.Equal(t, domain.HeaderLiteralRow, c.HeaderMethod)
		assert.Equal(t, 1.0, c.HeaderConfidence)
	}
	// The header row never reaches the data.
	assert.Equal(t, 25.0, table.Columns[0].Cells[0].Value)
	assert.Equal(t, domain.TypePhaseLabel, table.Columns[2].Type)
}

func TestProcess_AnnotationExtraction(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{
		{"0.026 (D)", "1.2"},
		{"0.031 (D)", "2.4"},
		{"0.035", "3.1"},
	})

	table, err := p.Process(raw)
	require.NoError(t, err)

	col := table.Columns[0]
	require.NotNil(t, col.Annotations)
	assert.Equal(t, []string{"D", "D", ""}, col.Annotations.Labels)
	assert.Equal(t, 0, col.Annotations.Parent)
	assert.InDelta(t, 2.0/3.0, col.Annotations.Confidence, 1e-9)
	assert.Equal(t, col.Header+"_phase", col.Annotations.Header)

	// The parent column holds clean numbers after extraction.
	for i, want := range []float64{0.026, 0.031, 0.035} {
		require.True(t, col.Cells[i].IsNumber())
		assert.Equal(t, want, col.Cells[i].Value)
	}
	assert.Nil(t, table.Columns[1].Annotations)
}

func TestProcess_ClassifierInformedHeader(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{{"-5.7"}, {"20.77"}, {"1.81"}})

	table, err := p.Process(raw)
	require.NoError(t, err)

	col := table.Columns[0]
	assert.Equal(t, domain.TypeTemperature, col.Type)
	assert.Equal(t, "Temperature (°C)", col.Header)
	assert.Equal(t, domain.HeaderClassifier, col.HeaderMethod)
	assert.InDelta(t, 1.0, col.HeaderConfidence, 1e-9)
}

func TestProcess_FallbackHeader(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{{"1000000"}, {"2000000"}, {"3000000"}})

	table, err := p.Process(raw)
	require.NoError(t, err)

	col := table.Columns[0]
	assert.Equal(t, domain.TypeNumericGeneric, col.Type)
	assert.Equal(t, "Column_A", col.Header)
	assert.Equal(t, domain.HeaderFallback, col.HeaderMethod)
	assert.Equal(t, 0.3, col.HeaderConfidence)
}

func TestProcess_MetadataHeader(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{{"1000000"}, {"2000000"}, {"3000000"}})
	raw.Hints = []domain.ColumnHint{{Column: 0, Name: "Pressure", Confidence: 0.6}}

	table, err := p.Process(raw)
	require.NoError(t, err)

	col := table.Columns[0]
	assert.Equal(t, "Pressure", col.Header)
	assert.Equal(t, domain.HeaderMetadata, col.HeaderMethod)
	assert.Equal(t, 0.6, col.HeaderConfidence)
}

func TestProcess_OutOfRangeValueRetained(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{{"-300"}, {"25"}, {"40"}})

	table, err := p.Process(raw)
	require.NoError(t, err)

	col := table.Columns[0]
	require.Equal(t, domain.TypeTemperature, col.Type)
	assert.Equal(t, -300.0, col.Cells[0].Value)

	var flagged bool
	for _, f := range table.Quality.Flags {
		if f.Kind == domain.FlagOutOfRangeValue {
			flagged = true
			assert.Equal(t, domain.SeverityCritical, f.Severity)
		}
	}
	assert.True(t, flagged)
	assert.True(t, table.Quality.NeedsReview)
	assert.Equal(t, domain.PriorityCritical, table.Quality.Priority)
}

func TestProcess_RaggedRowsPaddedAndFlagged(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{{"1", "2"}, {"3"}})

	table, err := p.Process(raw)
	require.NoError(t, err)

	require.Len(t, table.Columns, 2)
	assert.True(t, table.Columns[1].Cells[1].IsMissing())

	var ragged bool
	for _, f := range table.Quality.Flags {
		if f.Kind == domain.FlagRaggedRows {
			ragged = true
		}
	}
	assert.True(t, ragged)
}

func TestProcess_DuplicateHeadersDisambiguated(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{
		{"10", "15"},
		{"20", "25"},
		{"30", "35"},
	})

	table, err := p.Process(raw)
	require.NoError(t, err)

	assert.Equal(t, "Temperature (°C)", table.Columns[0].Header)
	assert.Equal(t, "Temperature (°C)_1", table.Columns[1].Header)
}

func TestProcess_ConfidenceBounds(t *testing.T) {
	p := newProcessor()
	raw := rawTable("doc", [][]string{
		{"Temp", "Solubility", "Notes"},
		{"25.0", "0.026 (D)", "saturated"},
		{"-300", "1e9", ""},
	})

	table, err := p.Process(raw)
	require.NoError(t, err)

	for _, c := range table.Columns {
		assert.GreaterOrEqual(t, c.TypeConfidence, 0.0)
		assert.LessOrEqual(t, c.TypeConfidence, 1.0)
		assert.GreaterOrEqual(t, c.HeaderConfidence, 0.0)
		assert.LessOrEqual(t, c.HeaderConfidence, 1.0)
		assert.NotEmpty(t, c.Header)
		if a := c.Annotations; a != nil {
			assert.GreaterOrEqual(t, a.Confidence, 0.0)
			assert.LessOrEqual(t, a.Confidence, 1.0)
		}
	}
	q := table.Quality
	for _, score := range []float64{q.HeaderQuality, q.Completeness, q.ColumnSeparation, q.NumericAccuracy, q.OverallScore} {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestProcess_MalformedInput(t *testing.T) {
	p := newProcessor()

	for name, rows := range map[string][][]string{
		"no rows":    {},
		"empty rows": {{}, {}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Process(rawTable("doc", rows))
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	p := newProcessor()
	rows := [][]string{{"0.026 (D)"}, {"0,031"}}
	raw := rawTable("doc", rows)

	_, err := p.Process(raw)
	require.NoError(t, err)

	assert.Equal(t, "0.026 (D)", rows[0][0])
	assert.Equal(t, "0,031", rows[1][0])
}

func TestRunBatch(t *testing.T) {
	p := newProcessor()
	tables := []*domain.RawTable{
		rawTable("a", [][]string{{"1"}, {"2"}}),
		rawTable("b", [][]string{{"3"}, {"4"}}),
		rawTable("bad", nil),
		rawTable("c", [][]string{{"5"}, {"6"}}),
	}

	outcomes := p.RunBatch(context.Background(), tables, 2)

	require.Len(t, outcomes, 4)
	bySource := make(map[string]pipeline.Outcome, len(outcomes))
	for _, o := range outcomes {
		bySource[o.Raw.SourceID] = o
	}
	for _, src := range []string{"a", "b", "c"} {
		o := bySource[src]
		assert.NoError(t, o.Err)
		require.NotNil(t, o.Table)
		assert.Equal(t, src, o.Table.SourceID)
	}
	assert.ErrorIs(t, bySource["bad"].Err, domain.ErrMalformedInput)
	assert.Nil(t, bySource["bad"].Table)
}

func TestRunBatch_CanceledContextStopsDispatch(t *testing.T) {
	p := newProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tables := make([]*domain.RawTable, 50)
	for i := range tables {
		tables[i] = rawTable("doc", [][]string{{"1"}, {"2"}})
	}

	outcomes := p.RunBatch(ctx, tables, 2)

	// Dispatch stops at the cancellation point; anything already
	// dispatched still completes.
	assert.Less(t, len(outcomes), len(tables))
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
}
