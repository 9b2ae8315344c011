package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

// RevisionsClient implements dkan.RevisionsClient.
type RevisionsClient struct {
	httpClient *http.Client
}

// NewRevisionsClient creates a new revisions client.
func NewRevisionsClient(httpClient *http.Client) *RevisionsClient {
	return &RevisionsClient{
		httpClient: httpClient,
	}
}

func revisionsPath(schemaID, identifier string) string {
	return "/api/1/metastore/schemas/" + schemaID + "/items/" + identifier + "/revisions"
}

// List implements dkan.RevisionsClient.List.
func (c *RevisionsClient) List(ctx context.Context, schemaID, identifier string) ([]dkan.Revision, error) {
	resp, err := c.httpClient.Get(ctx, revisionsPath(schemaID, identifier), nil)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}

	revisions, err := dkan.DecodeItems[dkan.Revision](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing revision list: %w", err)
	}

	return revisions, nil
}

// Get implements dkan.RevisionsClient.Get.
func (c *RevisionsClient) Get(ctx context.Context, schemaID, identifier, revisionID string) (*dkan.Revision, error) {
	path := revisionsPath(schemaID, identifier) + "/" + revisionID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting revision: %w", err)
	}

	var revision dkan.Revision

	err = json.Unmarshal(resp.Body, &revision)
	if err != nil {
		return nil, fmt.Errorf("parsing revision: %w", err)
	}

	return &revision, nil
}

// Create implements dkan.RevisionsClient.Create, moving the item to a new
// workflow state.
func (c *RevisionsClient) Create(ctx context.Context, schemaID, identifier string, request *dkan.RevisionRequest) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Post(ctx, revisionsPath(schemaID, identifier), request)
	if err != nil {
		return nil, fmt.Errorf("creating revision: %w", err)
	}

	return decodeWriteResponse(resp.Body, "revision")
}
