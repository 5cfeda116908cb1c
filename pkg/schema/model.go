package schema

// Backend identifies the wire protocol used to talk to a model's upstream.
// It is internal routing data and never leaves the service.
type Backend string

const (
	BackendOpenAI           Backend = "openai"
	BackendAnthropic        Backend = "anthropic"
	BackendGoogle           Backend = "google"
	BackendOpenAICompatible Backend = "openai-compatible"
)

// ModelCost holds per-token unit prices. All zero means the model is free.
type ModelCost struct {
	Input      float64 `json:"input"`
	Output     float64 `json:"output"`
	CacheRead  float64 `json:"cache_read"`
	CacheWrite float64 `json:"cache_write"`
}

// ModelRecord is one row of the synchronized registry. Records are
// immutable once built; a refresh produces a whole new Registry.
type ModelRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Backend       Backend   `json:"backend"`
	Reasoning     bool      `json:"reasoning"`
	Modalities    []string  `json:"modalities"`
	Cost          ModelCost `json:"cost"`
	ContextWindow int       `json:"context_window"`
	MaxOutput     int       `json:"max_output"`
}

// Free reports whether the model costs nothing to use. Only input and
// output prices count; cache prices are ignored on purpose.
func (m ModelRecord) Free() bool {
	return m.Cost.Input == 0 && m.Cost.Output == 0
}

// Registry is an ordered model listing. Order follows the authoritative
// source's listing order and is preserved through merge and persistence.
type Registry []ModelRecord

// IDs returns the record ids in listing order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, m := range r {
		ids = append(ids, m.ID)
	}
	return ids
}

// FreeIDs returns the ids of all free records, in listing order.
func (r Registry) FreeIDs() []string {
	var ids []string
	for _, m := range r {
		if m.Free() {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// FilterFree returns the free subset, preserving order.
func (r Registry) FilterFree() Registry {
	var out Registry
	for _, m := range r {
		if m.Free() {
			out = append(out, m)
		}
	}
	return out
}
