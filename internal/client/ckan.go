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

const ckanActionPath = "/api/3/action"

// CKANClient implements dkan.CKANClient, the legacy compatibility shims. The
// result payloads stay raw inside the envelope; callers decode them into
// whatever legacy shape they expect.
type CKANClient struct {
	httpClient *http.Client
}

// NewCKANClient creates a new CKAN compatibility client.
func NewCKANClient(httpClient *http.Client) *CKANClient {
	return &CKANClient{
		httpClient: httpClient,
	}
}

func (c *CKANClient) action(ctx context.Context, name string, query url.Values) (*dkan.CKANResponse, error) {
	resp, err := c.httpClient.Get(ctx, ckanActionPath+"/"+name, query)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", name, err)
	}

	var envelope dkan.CKANResponse

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", name, err)
	}

	return &envelope, nil
}

// PackageList implements dkan.CKANClient.PackageList.
func (c *CKANClient) PackageList(ctx context.Context) (*dkan.CKANResponse, error) {
	return c.action(ctx, "package_list", nil)
}

// PackageShow implements dkan.CKANClient.PackageShow.
func (c *CKANClient) PackageShow(ctx context.Context, id string) (*dkan.CKANResponse, error) {
	query := url.Values{}
	query.Set("id", id)

	return c.action(ctx, "package_show", query)
}

// PackageSearch implements dkan.CKANClient.PackageSearch.
func (c *CKANClient) PackageSearch(ctx context.Context, q string, rows, start int) (*dkan.CKANResponse, error) {
	query := url.Values{}

	if q != "" {
		query.Set("q", q)
	}

	if rows > 0 {
		query.Set("rows", strconv.Itoa(rows))
	}

	if start > 0 {
		query.Set("start", strconv.Itoa(start))
	}

	return c.action(ctx, "package_search", query)
}

// DatastoreSearch implements dkan.CKANClient.DatastoreSearch.
func (c *CKANClient) DatastoreSearch(ctx context.Context, resourceID string, limit, offset int) (*dkan.CKANResponse, error) {
	query := url.Values{}
	query.Set("resource_id", resourceID)

	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	return c.action(ctx, "datastore_search", query)
}

// DatastoreSearchSQL implements dkan.CKANClient.DatastoreSearchSQL.
func (c *CKANClient) DatastoreSearchSQL(ctx context.Context, sql string) (*dkan.CKANResponse, error) {
	query := url.Values{}
	query.Set("sql", sql)

	return c.action(ctx, "datastore_search_sql", query)
}

// ResourceShow implements dkan.CKANClient.ResourceShow.
func (c *CKANClient) ResourceShow(ctx context.Context, id string) (*dkan.CKANResponse, error) {
	query := url.Values{}
	query.Set("id", id)

	return c.action(ctx, "resource_show", query)
}

// CurrentPackageListWithResources implements
// dkan.CKANClient.CurrentPackageListWithResources.
func (c *CKANClient) CurrentPackageListWithResources(ctx context.Context) (*dkan.CKANResponse, error) {
	return c.action(ctx, "current_package_list_with_resources", nil)
}
