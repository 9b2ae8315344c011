package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDatasetCommand creates the dataset command group
func NewDatasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dataset",
		Aliases: []string{"datasets"},
		Short:   "Manage datasets",
		Long:    "List, show, create, update, and delete DKAN datasets",
	}

	cmd.AddCommand(newDatasetListCommand())
	cmd.AddCommand(newDatasetGetCommand())
	cmd.AddCommand(newDatasetCreateCommand())
	cmd.AddCommand(newDatasetUpdateCommand())
	cmd.AddCommand(newDatasetDeleteCommand())

	return cmd
}

func newDatasetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			datasets, err := client.Datasets().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list datasets: %w", err)
			}

			structured, err := renderStructured(datasets)
			if structured {
				return err
			}

			if len(datasets) == 0 {
				_, _ = os.Stdout.WriteString("No datasets found\n")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Identifier", "Title", "Modified")

			for _, dataset := range datasets {
				_ = table.Append(dataset.Identifier, dataset.Title, valueOrNA(dataset.Modified))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newDatasetGetCommand() *cobra.Command {
	var showReferenceIDs bool

	cmd := &cobra.Command{
		Use:   "get DATASET_ID",
		Short: "Show a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			var opts *dkan.GetOptions
			if showReferenceIDs {
				opts = &dkan.GetOptions{ShowReferenceIDs: true}
			}

			dataset, err := client.Datasets().Get(context.Background(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to get dataset: %w", err)
			}

			structured, err := renderStructured(dataset)
			if structured {
				return err
			}

			keywords := make([]string, 0, len(dataset.Keyword))

			for _, keyword := range dataset.Keyword {
				if value, err := keyword.Value(); err == nil {
					keywords = append(keywords, value)
				}
			}

			return renderKeyValueTable([][]string{
				{"Identifier", dataset.Identifier},
				{"Title", dataset.Title},
				{"Description", valueOrNA(dataset.Description)},
				{"Access Level", valueOrNA(dataset.AccessLevel)},
				{"Modified", valueOrNA(dataset.Modified)},
				{"Keywords", valueOrNA(strings.Join(keywords, ", "))},
				{"Distributions", fmt.Sprintf("%d", len(dataset.Distribution))},
			})
		},
	}

	cmd.Flags().BoolVar(&showReferenceIDs, "show-reference-ids", false, "include internal reference identifiers")

	return cmd
}

func newDatasetCreateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a dataset from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := readDatasetFile(fromFile)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Datasets().Create(context.Background(), dataset)
			if err != nil {
				return fmt.Errorf("failed to create dataset: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created dataset '%s'\n", result.Identifier)

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "path to dataset JSON (required)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newDatasetUpdateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update DATASET_ID",
		Short: "Replace a dataset from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := readDatasetFile(fromFile)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Datasets().Update(context.Background(), args[0], dataset)
			if err != nil {
				return fmt.Errorf("failed to update dataset: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated dataset '%s'\n", result.Identifier)

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "path to dataset JSON (required)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newDatasetDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete DATASET_ID",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete dataset '%s'? (y/N): ", args[0])

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Datasets().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete dataset: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted dataset '%s'\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func readDatasetFile(path string) (*dkan.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}

	var dataset dkan.Dataset

	err = json.Unmarshal(data, &dataset)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}

	return &dataset, nil
}
