package services

import (
	"testing"

	"github.com/nulzo/model-sync-api/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestMerge_PreservesIDSetAndOrder(t *testing.T) {
	ids := []string{"m3", "m1", "m2"}
	enrichment := schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"m1": {Name: "Model One"},
			// m2 and m3 intentionally absent
			"mX": {Name: "Not Listed"}, // must not leak in
		},
	}

	reg := Merge(ids, enrichment)

	assert.Equal(t, ids, reg.IDs())
}

func TestMerge_NoEnrichment_AllDefaults(t *testing.T) {
	// Scenario: authoritative returns two ids, enrichment absent
	reg := Merge([]string{"m1", "m2"}, schema.EnrichmentMap{})

	assert.Len(t, reg, 2)
	for _, m := range reg {
		assert.True(t, m.Free())
		assert.Equal(t, schema.BackendOpenAICompatible, m.Backend)
		assert.Equal(t, DefaultContextWindow, m.ContextWindow)
		assert.Equal(t, DefaultMaxOutput, m.MaxOutput)
		assert.Equal(t, []string{"text"}, m.Modalities)
		assert.Equal(t, m.ID, m.Name)
		assert.False(t, m.Reasoning)
	}
}

func TestMerge_CostDefaultsToZero(t *testing.T) {
	reg := Merge([]string{"m1"}, schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"m1": {Name: "Model One", Cost: &schema.MetadataCost{}},
		},
	})

	assert.Equal(t, schema.ModelCost{}, reg[0].Cost)
	assert.True(t, reg[0].Free())
}

func TestMerge_ProviderDefaultHintApplies(t *testing.T) {
	// Scenario: entry has no hint, provider default maps to anthropic
	reg := Merge([]string{"m1"}, schema.EnrichmentMap{
		DefaultHint: "@ai-sdk/anthropic",
		Models: map[string]schema.ModelMetadata{
			"m1": {
				Name: "Model One",
				Cost: &schema.MetadataCost{Input: f64(0.01), Output: f64(0.03)},
			},
		},
	})

	assert.Equal(t, schema.BackendAnthropic, reg[0].Backend)
	assert.False(t, reg[0].Free())
	assert.Equal(t, 0.01, reg[0].Cost.Input)
	assert.Equal(t, 0.03, reg[0].Cost.Output)
}

func TestMerge_EntryHintWinsOverDefault(t *testing.T) {
	reg := Merge([]string{"m1"}, schema.EnrichmentMap{
		DefaultHint: "@ai-sdk/anthropic",
		Models: map[string]schema.ModelMetadata{
			"m1": {Hint: "@ai-sdk/google"},
		},
	})

	assert.Equal(t, schema.BackendGoogle, reg[0].Backend)
}

func TestMerge_UnknownHintFallsBackToGeneric(t *testing.T) {
	reg := Merge([]string{"m1"}, schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"m1": {Hint: "@ai-sdk/some-future-backend"},
		},
	})

	assert.Equal(t, schema.BackendOpenAICompatible, reg[0].Backend)
}

func TestMerge_Modalities(t *testing.T) {
	reg := Merge([]string{"att", "img", "txt"}, schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"att": {Attachment: true},
			"img": {Modalities: &schema.MetadataModals{Input: []string{"text", "image"}}},
			"txt": {Modalities: &schema.MetadataModals{Input: []string{"text"}}},
		},
	})

	assert.Equal(t, []string{"text", "image"}, reg[0].Modalities)
	assert.Equal(t, []string{"text", "image"}, reg[1].Modalities)
	assert.Equal(t, []string{"text"}, reg[2].Modalities)
}

func TestMerge_LimitOverrides(t *testing.T) {
	reg := Merge([]string{"m1", "m2"}, schema.EnrichmentMap{
		Models: map[string]schema.ModelMetadata{
			"m1": {Limit: &schema.MetadataLimit{Context: i(200000), Output: i(8192)}},
			"m2": {Limit: &schema.MetadataLimit{}},
		},
	})

	assert.Equal(t, 200000, reg[0].ContextWindow)
	assert.Equal(t, 8192, reg[0].MaxOutput)
	assert.Equal(t, DefaultContextWindow, reg[1].ContextWindow)
	assert.Equal(t, DefaultMaxOutput, reg[1].MaxOutput)
}

func TestFree_IgnoresCacheCosts(t *testing.T) {
	m := schema.ModelRecord{Cost: schema.ModelCost{CacheRead: 0.5, CacheWrite: 0.5}}
	assert.True(t, m.Free())

	m.Cost.Input = 0.001
	assert.False(t, m.Free())
}
