//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"
	"time"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkanclient"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint string
	Token    string
	Username string
	Password string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint: os.Getenv("DKAN_ENDPOINT"),
		Token:    os.Getenv("DKAN_TOKEN"),
		Username: os.Getenv("DKAN_USERNAME"),
		Password: os.Getenv("DKAN_PASSWORD"),
		Verbose:  os.Getenv("DKAN_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.Endpoint == "" {
		t.Skip("DKAN_ENDPOINT not set, skipping integration test")
	}
}

// CanWrite reports whether the environment carries credentials for mutating
// endpoints.
func (config *TestConfig) CanWrite() bool {
	return config.Token != "" || config.Username != ""
}

// NewClient builds a client for the configured site.
func NewClient(t *testing.T, config *TestConfig) dkan.Client {
	t.Helper()

	client, err := dkanclient.New(&dkan.Config{
		BaseURL:   config.Endpoint,
		Token:     config.Token,
		Username:  config.Username,
		Password:  config.Password,
		RetryMax:  2,
		RetryWait: time.Second,
	})
	require.NoError(t, err)

	return client
}
