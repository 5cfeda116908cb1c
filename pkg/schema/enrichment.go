package schema

// EnrichmentMap is the per-model metadata fetched from the secondary
// source, keyed by model id. Pointer fields distinguish "absent" from
// "zero" so the merge engine can apply its own defaults.
type EnrichmentMap struct {
	// DefaultHint is the provider-level routing hint applied when an
	// individual entry carries none.
	DefaultHint string
	Models      map[string]ModelMetadata
}

// ModelMetadata mirrors one entry of the enrichment payload.
type ModelMetadata struct {
	Name       string          `json:"name"`
	Hint       string          `json:"npm"`
	Reasoning  bool            `json:"reasoning"`
	Attachment bool            `json:"attachment"`
	Cost       *MetadataCost   `json:"cost"`
	Limit      *MetadataLimit  `json:"limit"`
	Modalities *MetadataModals `json:"modalities"`
}

type MetadataCost struct {
	Input      *float64 `json:"input"`
	Output     *float64 `json:"output"`
	CacheRead  *float64 `json:"cache_read"`
	CacheWrite *float64 `json:"cache_write"`
}

type MetadataLimit struct {
	Context *int `json:"context"`
	Output  *int `json:"output"`
}

type MetadataModals struct {
	Input []string `json:"input"`
}
