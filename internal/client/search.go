package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

// SearchClient implements dkan.SearchClient.
type SearchClient struct {
	httpClient *http.Client
}

// NewSearchClient creates a new search client.
func NewSearchClient(httpClient *http.Client) *SearchClient {
	return &SearchClient{
		httpClient: httpClient,
	}
}

// Search implements dkan.SearchClient.Search.
func (c *SearchClient) Search(ctx context.Context, params *dkan.SearchParams) (*dkan.SearchResponse, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/api/1/search", query)
	if err != nil {
		return nil, fmt.Errorf("searching datasets: %w", err)
	}

	var search dkan.SearchResponse

	err = json.Unmarshal(resp.Body, &search)
	if err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &search, nil
}

// Facets implements dkan.SearchClient.Facets, returning the facet list as the
// server sent it.
func (c *SearchClient) Facets(ctx context.Context) ([]dkan.Facet, error) {
	resp, err := c.httpClient.Get(ctx, "/api/1/search/facets", nil)
	if err != nil {
		return nil, fmt.Errorf("getting facets: %w", err)
	}

	var envelope struct {
		Facets []dkan.Facet `json:"facets"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing facets: %w", err)
	}

	return envelope.Facets, nil
}

// FlattenedFacets implements dkan.SearchClient.FlattenedFacets.
func (c *SearchClient) FlattenedFacets(ctx context.Context) (*dkan.FacetCollection, error) {
	facets, err := c.Facets(ctx)
	if err != nil {
		return nil, err
	}

	collection := dkan.FlattenFacets(facets)

	return &collection, nil
}
