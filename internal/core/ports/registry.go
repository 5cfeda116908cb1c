package ports

import "github.com/nulzo/model-sync-api/pkg/schema"

// ModelRegistry is the published registry consumed by the dispatch path.
// Replace installs a complete snapshot; readers always observe either
// the old or the new registry, never a partial one.
type ModelRegistry interface {
	// Lookup returns the record for a registry id
	Lookup(id string) (*schema.ModelRecord, error)

	// List returns the current snapshot in listing order
	List() schema.Registry

	// Replace installs a new snapshot wholesale
	Replace(reg schema.Registry)
}

// Notifier receives the change-event payload when the free-model set
// differs from the previous session. Presentation is owned by the
// collaborator behind this interface.
type Notifier interface {
	Notify(title, message string)
}
