package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const dictionaryItemsPath = "/api/1/metastore/schemas/data-dictionary/items"

// DataDictionariesClient implements dkan.DataDictionariesClient.
type DataDictionariesClient struct {
	httpClient *http.Client
}

// NewDataDictionariesClient creates a new data dictionaries client.
func NewDataDictionariesClient(httpClient *http.Client) *DataDictionariesClient {
	return &DataDictionariesClient{
		httpClient: httpClient,
	}
}

// Get implements dkan.DataDictionariesClient.Get.
func (c *DataDictionariesClient) Get(ctx context.Context, identifier string) (*dkan.DataDictionary, error) {
	resp, err := c.httpClient.Get(ctx, dictionaryItemsPath+"/"+identifier, nil)
	if err != nil {
		return nil, fmt.Errorf("getting data dictionary: %w", err)
	}

	var dictionary dkan.DataDictionary

	err = json.Unmarshal(resp.Body, &dictionary)
	if err != nil {
		return nil, fmt.Errorf("parsing data dictionary: %w", err)
	}

	return &dictionary, nil
}

// List implements dkan.DataDictionariesClient.List, coercing the id-keyed
// object form to an ordered slice.
func (c *DataDictionariesClient) List(ctx context.Context) ([]dkan.DataDictionary, error) {
	resp, err := c.httpClient.Get(ctx, dictionaryItemsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing data dictionaries: %w", err)
	}

	dictionaries, err := dkan.DecodeItems[dkan.DataDictionary](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing data dictionary list: %w", err)
	}

	return dictionaries, nil
}

// Create implements dkan.DataDictionariesClient.Create.
func (c *DataDictionariesClient) Create(ctx context.Context, dictionary *dkan.DataDictionary) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Post(ctx, dictionaryItemsPath, dictionary)
	if err != nil {
		return nil, fmt.Errorf("creating data dictionary: %w", err)
	}

	return decodeWriteResponse(resp.Body, "data dictionary")
}

// Update implements dkan.DataDictionariesClient.Update.
func (c *DataDictionariesClient) Update(ctx context.Context, identifier string, dictionary *dkan.DataDictionary) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Put(ctx, dictionaryItemsPath+"/"+identifier, dictionary)
	if err != nil {
		return nil, fmt.Errorf("updating data dictionary: %w", err)
	}

	return decodeWriteResponse(resp.Body, "data dictionary")
}

// Delete implements dkan.DataDictionariesClient.Delete.
func (c *DataDictionariesClient) Delete(ctx context.Context, identifier string) (*dkan.MetastoreWriteResponse, error) {
	resp, err := c.httpClient.Delete(ctx, dictionaryItemsPath+"/"+identifier)
	if err != nil {
		return nil, fmt.Errorf("deleting data dictionary: %w", err)
	}

	return decodeWriteResponse(resp.Body, "data dictionary")
}
