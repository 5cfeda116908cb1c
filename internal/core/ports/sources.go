package ports

import (
	"context"

	"github.com/nulzo/model-sync-api/pkg/schema"
)

// CatalogClient fetches the authoritative list of model ids from the
// primary endpoint. One request, no retries. Deadlines are applied by
// the caller through the context; a timeout is reported as an ordinary
// error, not a distinct kind.
type CatalogClient interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// EnrichmentClient fetches descriptive metadata for a superset of
// possible model ids. Enrichment is best-effort: implementations never
// return an error, they report ok=false instead.
type EnrichmentClient interface {
	FetchMetadata(ctx context.Context) (schema.EnrichmentMap, bool)
}
