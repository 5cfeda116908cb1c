package services

import (
	"github.com/nulzo/model-sync-api/pkg/schema"
)

// Defaults applied when enrichment is absent or an entry omits a field.
const (
	DefaultContextWindow = 128000
	DefaultMaxOutput     = 16384
)

// The four routing hints we recognize. Anything else maps to the
// generic openai-compatible backend.
const (
	hintOpenAI           = "@ai-sdk/openai"
	hintAnthropic        = "@ai-sdk/anthropic"
	hintGoogle           = "@ai-sdk/google"
	hintOpenAICompatible = "@ai-sdk/openai-compatible"
)

// Merge reconciles the authoritative id list with enrichment metadata
// into a normalized Registry. It is pure and order-preserving: the
// output id set equals the input id set exactly, in input order.
// Callers own persistence of the result.
func Merge(ids []string, enrichment schema.EnrichmentMap) schema.Registry {
	out := make(schema.Registry, 0, len(ids))
	for _, id := range ids {
		meta, ok := enrichment.Models[id]
		if !ok {
			out = append(out, defaultRecord(id))
			continue
		}
		out = append(out, buildRecord(id, meta, enrichment.DefaultHint))
	}
	return out
}

func defaultRecord(id string) schema.ModelRecord {
	return schema.ModelRecord{
		ID:            id,
		Name:          id,
		Backend:       schema.BackendOpenAICompatible,
		Modalities:    []string{"text"},
		ContextWindow: DefaultContextWindow,
		MaxOutput:     DefaultMaxOutput,
	}
}

func buildRecord(id string, meta schema.ModelMetadata, defaultHint string) schema.ModelRecord {
	rec := schema.ModelRecord{
		ID:            id,
		Name:          meta.Name,
		Backend:       backendForHint(meta.Hint, defaultHint),
		Reasoning:     meta.Reasoning,
		Modalities:    deriveModalities(meta),
		ContextWindow: DefaultContextWindow,
		MaxOutput:     DefaultMaxOutput,
	}

	if rec.Name == "" {
		rec.Name = id
	}

	if meta.Cost != nil {
		rec.Cost = schema.ModelCost{
			Input:      floatOrZero(meta.Cost.Input),
			Output:     floatOrZero(meta.Cost.Output),
			CacheRead:  floatOrZero(meta.Cost.CacheRead),
			CacheWrite: floatOrZero(meta.Cost.CacheWrite),
		}
	}

	if meta.Limit != nil {
		if meta.Limit.Context != nil {
			rec.ContextWindow = *meta.Limit.Context
		}
		if meta.Limit.Output != nil {
			rec.MaxOutput = *meta.Limit.Output
		}
	}

	return rec
}

// backendForHint collapses the routing hint into the backend enum.
// Entry hint wins, then the provider default, then the generic backend.
// Unmatched strings are not an error.
func backendForHint(hint, defaultHint string) schema.Backend {
	if hint == "" {
		hint = defaultHint
	}
	switch hint {
	case hintOpenAI:
		return schema.BackendOpenAI
	case hintAnthropic:
		return schema.BackendAnthropic
	case hintGoogle:
		return schema.BackendGoogle
	case hintOpenAICompatible:
		return schema.BackendOpenAICompatible
	default:
		return schema.BackendOpenAICompatible
	}
}

// deriveModalities always includes text; image is added when the entry
// declares attachment support or lists image among its input modalities.
func deriveModalities(meta schema.ModelMetadata) []string {
	mods := []string{"text"}
	if meta.Attachment {
		return append(mods, "image")
	}
	if meta.Modalities != nil {
		for _, m := range meta.Modalities.Input {
			if m == "image" {
				return append(mods, "image")
			}
		}
	}
	return mods
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
