// Package dkanclient provides the main entry point for creating DKAN API clients
package dkanclient

import (
	"strings"

	"github.com/dcgoodwin2112/dkan-client-go/internal/client"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

// New creates a new DKAN API client.
func New(config *dkan.Config) (dkan.Client, error) {
	if config == nil {
		return nil, dkan.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, dkan.ErrBaseURLRequired
	}

	// Normalize base URL
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	dkanClient, err := client.New(config)
	if err != nil {
		return nil, err
	}

	return dkanClient, nil
}

// NewWithEndpoint creates a new client with just a site URL (no auth).
func NewWithEndpoint(endpoint string) (dkan.Client, error) {
	return New(&dkan.Config{
		BaseURL: endpoint,
	})
}

// NewWithToken creates a new client with a site URL and bearer token.
func NewWithToken(endpoint, token string) (dkan.Client, error) {
	return New(&dkan.Config{
		BaseURL: endpoint,
		Token:   token,
	})
}

// NewWithBasicAuth creates a new client using HTTP basic authentication.
func NewWithBasicAuth(endpoint, username, password string) (dkan.Client, error) {
	return New(&dkan.Config{
		BaseURL:  endpoint,
		Username: username,
		Password: password,
	})
}
