package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const schemasPath = "/api/1/metastore/schemas"

// SchemasClient implements dkan.SchemasClient.
type SchemasClient struct {
	httpClient *http.Client
}

// NewSchemasClient creates a new schemas client.
func NewSchemasClient(httpClient *http.Client) *SchemasClient {
	return &SchemasClient{
		httpClient: httpClient,
	}
}

// List implements dkan.SchemasClient.List, returning the schema catalog
// keyed by schema id.
func (c *SchemasClient) List(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, schemasPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}

	var schemas map[string]interface{}

	err = json.Unmarshal(resp.Body, &schemas)
	if err != nil {
		return nil, fmt.Errorf("parsing schema list: %w", err)
	}

	return schemas, nil
}

// Get implements dkan.SchemasClient.Get, returning one schema definition.
func (c *SchemasClient) Get(ctx context.Context, schemaID string) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, schemasPath+"/"+schemaID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting schema: %w", err)
	}

	var schema map[string]interface{}

	err = json.Unmarshal(resp.Body, &schema)
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	return schema, nil
}

// Items implements dkan.SchemasClient.Items. Like the other list endpoints
// the items may arrive id-keyed; they are coerced to an ordered slice.
func (c *SchemasClient) Items(ctx context.Context, schemaID string, opts *dkan.GetOptions) ([]map[string]interface{}, error) {
	path := schemasPath + "/" + schemaID + "/items"

	resp, err := c.httpClient.GetWithFlags(ctx, path, nil, opts.Flags())
	if err != nil {
		return nil, fmt.Errorf("listing schema items: %w", err)
	}

	items, err := dkan.DecodeItems[map[string]interface{}](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing schema items: %w", err)
	}

	return items, nil
}
