package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	assert.Equal(t, "25", NumberCell(25).String())
	assert.Equal(t, "0.026", NumberCell(0.026).String())
	assert.Equal(t, "-5.7", NumberCell(-5.7).String())
	assert.Equal(t, "saturated", TextCell("saturated").String())
	assert.Equal(t, "", MissingCell().String())
}

func TestSemanticTypeNumericExpecting(t *testing.T) {
	for _, typ := range []SemanticType{
		TypeTemperature, TypeMassPercent, TypeMolePercent,
		TypeMolality, TypePH, TypeDensity, TypeNumericGeneric,
	} {
		assert.True(t, typ.NumericExpecting(), "%s should expect numbers", typ)
	}
	assert.False(t, TypePhaseLabel.NumericExpecting())
	assert.False(t, TypeTextGeneric.NumericExpecting())
}

func TestSemanticTypeGeneric(t *testing.T) {
	assert.True(t, TypeNumericGeneric.Generic())
	assert.True(t, TypeTextGeneric.Generic())
	assert.False(t, TypeTemperature.Generic())
}

func TestAnnotationColumnHasLabels(t *testing.T) {
	assert.True(t, (&AnnotationColumn{Labels: []string{"", "D", ""}}).HasLabels())
	assert.False(t, (&AnnotationColumn{Labels: []string{"", "", ""}}).HasLabels())
}
