package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const datasetItemsPath = "/api/1/metastore/schemas/dataset/items"

// DatasetsClient implements dkan.DatasetsClient.
type DatasetsClient struct {
	httpClient *http.Client
}

// NewDatasetsClient creates a new datasets client.
func NewDatasetsClient(httpClient *http.Client) *DatasetsClient {
	return &DatasetsClient{
		httpClient: httpClient,
	}
}

// Get implements dkan.DatasetsClient.Get.
func (c *DatasetsClient) Get(ctx context.Context, identifier string, opts *dkan.GetOptions) (*dkan.Dataset, error) {
	if identifier == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	path := datasetItemsPath + "/" + identifier

	resp, err := c.httpClient.GetWithFlags(ctx, path, nil, opts.Flags())
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}

	var dataset dkan.Dataset

	err = json.Unmarshal(resp.Body, &dataset)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return &dataset, nil
}

// List implements dkan.DatasetsClient.List. The endpoint returns an id-keyed
// object on some sites and an array on others; both decode to an ordered
// slice.
func (c *DatasetsClient) List(ctx context.Context, opts *dkan.GetOptions) ([]dkan.Dataset, error) {
	resp, err := c.httpClient.GetWithFlags(ctx, datasetItemsPath, nil, opts.Flags())
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	datasets, err := dkan.DecodeItems[dkan.Dataset](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset list: %w", err)
	}

	return datasets, nil
}

// Create implements dkan.DatasetsClient.Create.
func (c *DatasetsClient) Create(ctx context.Context, dataset *dkan.Dataset) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Post(ctx, datasetItemsPath, dataset)
	if err != nil {
		return nil, fmt.Errorf("creating dataset: %w", err)
	}

	return decodeWriteResponse(resp.Body, "dataset")
}

// Update implements dkan.DatasetsClient.Update.
func (c *DatasetsClient) Update(ctx context.Context, identifier string, dataset *dkan.Dataset) (*dkan.MetastoreWriteResponse, error) {
	if identifier == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	resp, err := c.httpClient.Put(ctx, datasetItemsPath+"/"+identifier, dataset)
	if err != nil {
		return nil, fmt.Errorf("updating dataset: %w", err)
	}

	return decodeWriteResponse(resp.Body, "dataset")
}

// Patch implements dkan.DatasetsClient.Patch.
func (c *DatasetsClient) Patch(ctx context.Context, identifier string, fields map[string]interface{}) (*dkan.MetastoreWriteResponse, error) {
	if identifier == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	resp, err := c.httpClient.Patch(ctx, datasetItemsPath+"/"+identifier, fields)
	if err != nil {
		return nil, fmt.Errorf("patching dataset: %w", err)
	}

	return decodeWriteResponse(resp.Body, "dataset")
}

// Delete implements dkan.DatasetsClient.Delete.
func (c *DatasetsClient) Delete(ctx context.Context, identifier string) (*dkan.MetastoreWriteResponse, error) {
	if identifier == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	resp, err := c.httpClient.Delete(ctx, datasetItemsPath+"/"+identifier)
	if err != nil {
		return nil, fmt.Errorf("deleting dataset: %w", err)
	}

	return decodeWriteResponse(resp.Body, "dataset")
}

// decodeWriteResponse parses the metastore's write acknowledgement.
func decodeWriteResponse(body []byte, resource string) (*dkan.MetastoreWriteResponse, error) {
	var write dkan.MetastoreWriteResponse

	err := json.Unmarshal(body, &write)
	if err != nil {
		return nil, fmt.Errorf("parsing %s write response: %w", resource, err)
	}

	return &write, nil
}
