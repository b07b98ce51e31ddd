package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_NilExtractorFallsBackToRuleBased(t *testing.T) {
	var e *Extractor
	intent := e.Extract(context.Background(), "modern kitchen in Austin")

	assert.False(t, intent.HasLocation)
	assert.Equal(t, "modern kitchen in Austin", intent.CleanedQuery)
	assert.Equal(t, float64(0), intent.Confidence)
}

func TestExtract_ExtractorWithoutBackendFallsBackToRuleBased(t *testing.T) {
	e := &Extractor{}
	intent := e.Extract(context.Background(), "condo in San Jose CA")

	assert.False(t, intent.HasLocation)
	assert.Equal(t, "condo in San Jose CA", intent.CleanedQuery)
}

func TestRuleBasedExtraction_NeverFindsLocation(t *testing.T) {
	intent := ruleBasedExtraction("family home in Salinas California")

	assert.False(t, intent.HasLocation)
	assert.Empty(t, intent.City)
	assert.Empty(t, intent.State)
	assert.Equal(t, "family home in Salinas California", intent.CleanedQuery)
}

func TestNormalizeField_TreatsSentinelsAsEmpty(t *testing.T) {
	assert.Equal(t, "", normalizeField(""))
	assert.Equal(t, "", normalizeField("unknown"))
	assert.Equal(t, "", normalizeField("Unknown"))
	assert.Equal(t, "", normalizeField("none"))
	assert.Equal(t, "", normalizeField("  "))
	assert.Equal(t, "San Francisco", normalizeField("San Francisco"))
}

func TestNew_RejectsUnsupportedProvider(t *testing.T) {
	_, err := New("cohere", "some-model", "")
	assert.Error(t, err)
}
