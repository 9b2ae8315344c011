// Package client implements the dkan.Client interface on top of the internal
// HTTP transport.
package client

import (
	"github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

// Client implements the dkan.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     dkan.Logger

	datasets     dkan.DatasetsClient
	search       dkan.SearchClient
	datastore    dkan.DatastoreClient
	imports      dkan.ImportsClient
	dictionaries dkan.DataDictionariesClient
	schemas      dkan.SchemasClient
	revisions    dkan.RevisionsClient
	harvests     dkan.HarvestsClient
	ckan         dkan.CKANClient
}

// New creates a client for the given configuration. The base URL must already
// be normalized (no trailing slash); dkanclient.New takes care of that for
// public callers.
func New(config *dkan.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, dkan.ErrBaseURLRequired
	}

	httpClient := http.NewClient(config.BaseURL, config.Credential(), httpOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    config.BaseURL,
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// httpOptions builds transport options from config.
func httpOptions(config *dkan.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWait := dkan.DefaultRetryWait
		if config.RetryWait > 0 {
			retryWait = config.RetryWait
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, retryWait))
	}

	return opts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.datasets = NewDatasetsClient(c.httpClient)
	c.search = NewSearchClient(c.httpClient)
	c.datastore = NewDatastoreClient(c.httpClient)
	c.imports = NewImportsClient(c.httpClient)
	c.dictionaries = NewDataDictionariesClient(c.httpClient)
	c.schemas = NewSchemasClient(c.httpClient)
	c.revisions = NewRevisionsClient(c.httpClient)
	c.harvests = NewHarvestsClient(c.httpClient)
	c.ckan = NewCKANClient(c.httpClient)
}

// Datasets implements dkan.Client.Datasets.
func (c *Client) Datasets() dkan.DatasetsClient {
	return c.datasets
}

// Search implements dkan.Client.Search.
func (c *Client) Search() dkan.SearchClient {
	return c.search
}

// Datastore implements dkan.Client.Datastore.
func (c *Client) Datastore() dkan.DatastoreClient {
	return c.datastore
}

// Imports implements dkan.Client.Imports.
func (c *Client) Imports() dkan.ImportsClient {
	return c.imports
}

// DataDictionaries implements dkan.Client.DataDictionaries.
func (c *Client) DataDictionaries() dkan.DataDictionariesClient {
	return c.dictionaries
}

// Schemas implements dkan.Client.Schemas.
func (c *Client) Schemas() dkan.SchemasClient {
	return c.schemas
}

// Revisions implements dkan.Client.Revisions.
func (c *Client) Revisions() dkan.RevisionsClient {
	return c.revisions
}

// Harvests implements dkan.Client.Harvests.
func (c *Client) Harvests() dkan.HarvestsClient {
	return c.harvests
}

// CKAN implements dkan.Client.CKAN.
func (c *Client) CKAN() dkan.CKANClient {
	return c.ckan
}

// loggerAdapter adapts dkan.Logger to http.Logger.
type loggerAdapter struct {
	logger dkan.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
