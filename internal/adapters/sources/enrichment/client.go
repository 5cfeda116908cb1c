package enrichment

import (
	"context"
	"net/http"

	"github.com/nulzo/model-sync-api/internal/httpclient"
	"github.com/nulzo/model-sync-api/internal/logger"
	"github.com/nulzo/model-sync-api/pkg/schema"
	"go.uber.org/zap"
)

// Client fetches model metadata from the secondary endpoint. The payload
// is keyed by provider; only the configured provider's entry is used.
// Enrichment is strictly best-effort: every failure collapses to absent.
type Client struct {
	url      string
	provider string
	client   httpclient.HTTPClient
}

func NewClient(url, provider string, client httpclient.HTTPClient) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: url, provider: provider, client: client}
}

type providerEntry struct {
	Npm    string                          `json:"npm"`
	Models map[string]schema.ModelMetadata `json:"models"`
}

// FetchMetadata returns the metadata map for the configured provider.
// Network errors, bad payloads and a missing provider entry all report
// ok=false; callers treat absence as "merge with defaults".
func (c *Client) FetchMetadata(ctx context.Context) (schema.EnrichmentMap, bool) {
	var payload map[string]providerEntry
	if err := httpclient.GetJSON(ctx, c.client, c.url, nil, &payload); err != nil {
		logger.Debug("enrichment unavailable", zap.Error(err))
		return schema.EnrichmentMap{}, false
	}

	entry, ok := payload[c.provider]
	if !ok || len(entry.Models) == 0 {
		logger.Debug("enrichment has no entry for provider", zap.String("provider", c.provider))
		return schema.EnrichmentMap{}, false
	}

	return schema.EnrichmentMap{
		DefaultHint: entry.Npm,
		Models:      entry.Models,
	}, true
}
