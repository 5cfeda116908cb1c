package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nulzo/model-sync-api/internal/httpclient"
	"github.com/nulzo/model-sync-api/internal/logger"
	"go.uber.org/zap"
)

// Client fetches the authoritative model listing from the primary
// endpoint. It implements ports.CatalogClient.
type Client struct {
	url    string
	client httpclient.HTTPClient
}

func NewClient(url string, client httpclient.HTTPClient) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: url, client: client}
}

// listingResponse mirrors the primary endpoint's payload. Only the id
// field is authoritative; everything else comes from enrichment.
type listingResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListIDs issues one request and returns the listed ids in order.
// An empty or malformed payload is an error just like a network
// failure; there is no retry.
func (c *Client) ListIDs(ctx context.Context) ([]string, error) {
	var resp listingResponse
	if err := httpclient.GetJSON(ctx, c.client, c.url, nil, &resp); err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("catalog returned no models")
	}

	ids := make([]string, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if entry.ID == "" {
			continue
		}
		ids = append(ids, entry.ID)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("catalog entries missing ids")
	}

	logger.Debug("fetched model catalog", zap.Int("count", len(ids)))
	return ids, nil
}
