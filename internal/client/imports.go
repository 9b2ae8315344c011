package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const importsPath = "/api/1/datastore/imports"

// ImportsClient implements dkan.ImportsClient.
type ImportsClient struct {
	httpClient *http.Client
}

// NewImportsClient creates a new datastore imports client.
func NewImportsClient(httpClient *http.Client) *ImportsClient {
	return &ImportsClient{
		httpClient: httpClient,
	}
}

// List implements dkan.ImportsClient.List. The endpoint returns a map keyed
// by import identifier.
func (c *ImportsClient) List(ctx context.Context) (map[string]dkan.ImportStatus, error) {
	resp, err := c.httpClient.Get(ctx, importsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}

	var imports map[string]dkan.ImportStatus

	err = json.Unmarshal(resp.Body, &imports)
	if err != nil {
		return nil, fmt.Errorf("parsing import list: %w", err)
	}

	return imports, nil
}

// Get implements dkan.ImportsClient.Get.
func (c *ImportsClient) Get(ctx context.Context, identifier string) (*dkan.ImportStatus, error) {
	resp, err := c.httpClient.Get(ctx, importsPath+"/"+identifier, nil)
	if err != nil {
		return nil, fmt.Errorf("getting import: %w", err)
	}

	var status dkan.ImportStatus

	err = json.Unmarshal(resp.Body, &status)
	if err != nil {
		return nil, fmt.Errorf("parsing import status: %w", err)
	}

	return &status, nil
}

// Create implements dkan.ImportsClient.Create, triggering an import for the
// given distribution resource.
func (c *ImportsClient) Create(ctx context.Context, resourceID string) (map[string]dkan.ImportStatus, error) {
	body := map[string]string{"resource_ids": resourceID}

	resp, err := c.httpClient.Post(ctx, importsPath, body)
	if err != nil {
		return nil, fmt.Errorf("creating import: %w", err)
	}

	var imports map[string]dkan.ImportStatus

	err = json.Unmarshal(resp.Body, &imports)
	if err != nil {
		return nil, fmt.Errorf("parsing import response: %w", err)
	}

	return imports, nil
}

// Delete implements dkan.ImportsClient.Delete, dropping the imported table.
func (c *ImportsClient) Delete(ctx context.Context, identifier string) error {
	_, err := c.httpClient.Delete(ctx, importsPath+"/"+identifier)
	if err != nil {
		return fmt.Errorf("deleting import: %w", err)
	}

	return nil
}

// WaitForImport polls until the importer reports done or error, or the
// context is cancelled.
func (c *ImportsClient) WaitForImport(ctx context.Context, identifier string, pollInterval time.Duration) (*dkan.ImportStatus, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.Get(ctx, identifier)
		if err != nil {
			return nil, err
		}

		switch status.ImporterStatus {
		case dkan.ImportStatusDone:
			return status, nil
		case dkan.ImportStatusError:
			return status, fmt.Errorf("%w: %s", dkan.ErrImportFailed, status.ImporterError)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
