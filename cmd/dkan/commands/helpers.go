package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkanclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"
)

// Common static errors used throughout the commands package.
var (
	ErrNoURLConfigured   = errors.New("no DKAN site URL configured (use --url or 'dkan login')")
	ErrDatasetIDRequired = errors.New("dataset identifier is required")
	ErrQueryRequired     = errors.New("query text is required")
)

// CreateClient builds a client from the effective CLI configuration.
func CreateClient() (dkan.Client, error) {
	url := viper.GetString("url")
	if url == "" {
		return nil, ErrNoURLConfigured
	}

	config := &dkan.Config{
		BaseURL:  url,
		Token:    viper.GetString("token"),
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
		Debug:    viper.GetBool("verbose"),
	}

	client, err := dkanclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// renderJSON writes data to stdout as indented JSON.
func renderJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to JSON: %w", err)
	}

	return nil
}

// renderYAML writes data to stdout as YAML.
func renderYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding to YAML: %w", err)
	}

	return nil
}

// renderStructured writes data as JSON or YAML based on the output format,
// returning false when the format calls for a table instead.
func renderStructured(data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return true, renderJSON(data)
	case OutputFormatYAML:
		return true, renderYAML(data)
	default:
		return false, nil
	}
}

// renderKeyValueTable writes a two-column property table to stdout.
func renderKeyValueTable(rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// valueOrNA substitutes N/A for empty strings in table cells.
func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
