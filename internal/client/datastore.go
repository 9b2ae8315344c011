package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

// DatastoreClient implements dkan.DatastoreClient.
type DatastoreClient struct {
	httpClient *http.Client
}

// NewDatastoreClient creates a new datastore client.
func NewDatastoreClient(httpClient *http.Client) *DatastoreClient {
	return &DatastoreClient{
		httpClient: httpClient,
	}
}

func datastoreQueryPath(datasetID string, index int) string {
	return "/api/1/datastore/query/" + datasetID + "/" + strconv.Itoa(index)
}

// Query implements dkan.DatastoreClient.Query using the default POST
// delivery.
func (c *DatastoreClient) Query(ctx context.Context, datasetID string, index int, opts *dkan.DatastoreQueryOptions) (*dkan.DatastoreQueryResponse, error) {
	if datasetID == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	body := opts
	if body == nil {
		body = &dkan.DatastoreQueryOptions{}
	}

	resp, err := c.httpClient.Post(ctx, datastoreQueryPath(datasetID, index), body)
	if err != nil {
		return nil, fmt.Errorf("querying datastore: %w", err)
	}

	return decodeQueryResponse(resp.Body)
}

// QueryAll implements dkan.DatastoreClient.QueryAll, the multi-resource form
// where resources and joins are named in the options.
func (c *DatastoreClient) QueryAll(ctx context.Context, opts *dkan.DatastoreQueryOptions) (*dkan.DatastoreQueryResponse, error) {
	body := opts
	if body == nil {
		body = &dkan.DatastoreQueryOptions{}
	}

	resp, err := c.httpClient.Post(ctx, "/api/1/datastore/query", body)
	if err != nil {
		return nil, fmt.Errorf("querying datastore: %w", err)
	}

	return decodeQueryResponse(resp.Body)
}

// QueryGet implements dkan.DatastoreClient.QueryGet, delivering the options
// as query-string parameters instead of a JSON body.
func (c *DatastoreClient) QueryGet(ctx context.Context, datasetID string, index int, opts *dkan.DatastoreQueryOptions) (*dkan.DatastoreQueryResponse, error) {
	if datasetID == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	resp, err := c.httpClient.Get(ctx, datastoreQueryPath(datasetID, index), opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("querying datastore: %w", err)
	}

	return decodeQueryResponse(resp.Body)
}

// Schema implements dkan.DatastoreClient.Schema.
func (c *DatastoreClient) Schema(ctx context.Context, datasetID string, index int) (*dkan.DatastoreQueryResponse, error) {
	if datasetID == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	query := url.Values{}
	query.Set("schema", "true")

	resp, err := c.httpClient.Get(ctx, datastoreQueryPath(datasetID, index), query)
	if err != nil {
		return nil, fmt.Errorf("getting datastore schema: %w", err)
	}

	return decodeQueryResponse(resp.Body)
}

// SQL implements dkan.DatastoreClient.SQL. The bracketed statement is passed
// through verbatim: as a ?query= parameter under the default GET delivery, or
// as a JSON body field under POST.
func (c *DatastoreClient) SQL(ctx context.Context, query string, opts *dkan.SQLOptions) ([]map[string]interface{}, error) {
	if query == "" {
		return nil, dkan.ErrQueryRequired
	}

	const sqlPath = "/api/1/datastore/sql"

	var (
		resp *http.Response
		err  error
	)

	if opts != nil && opts.UsePost {
		body := map[string]interface{}{"query": query}
		if opts.ShowDBColumns {
			body["show_db_columns"] = true
		}

		resp, err = c.httpClient.Post(ctx, sqlPath, body)
	} else {
		values := url.Values{}
		values.Set("query", query)

		if opts != nil && opts.ShowDBColumns {
			values.Set("show_db_columns", "true")
		}

		resp, err = c.httpClient.Get(ctx, sqlPath, values)
	}

	if err != nil {
		return nil, fmt.Errorf("running SQL query: %w", err)
	}

	var rows []map[string]interface{}

	err = json.Unmarshal(resp.Body, &rows)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL response: %w", err)
	}

	return rows, nil
}

// Download implements dkan.DatastoreClient.Download. The response body is
// returned as-is, with no parsing.
func (c *DatastoreClient) Download(ctx context.Context, datasetID string, index int, opts *dkan.DownloadOptions) ([]byte, error) {
	if datasetID == "" {
		return nil, dkan.ErrDatasetIDRequired
	}

	path := datastoreQueryPath(datasetID, index) + "/download"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("downloading query results: %w", err)
	}

	return resp.Body, nil
}

func decodeQueryResponse(body []byte) (*dkan.DatastoreQueryResponse, error) {
	var query dkan.DatastoreQueryResponse

	err := json.Unmarshal(body, &query)
	if err != nil {
		return nil, fmt.Errorf("parsing datastore query response: %w", err)
	}

	return &query, nil
}
