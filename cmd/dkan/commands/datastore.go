package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDatastoreCommand creates the datastore command group
func NewDatastoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datastore",
		Short: "Query the datastore",
		Long:  "Query tabular data behind dataset distributions",
	}

	cmd.AddCommand(newDatastoreQueryCommand())
	cmd.AddCommand(newDatastoreDownloadCommand())
	cmd.AddCommand(newImportCommand())

	return cmd
}

func newDatastoreQueryCommand() *cobra.Command {
	var (
		index  int
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "query DATASET_ID",
		Short: "Run a structured datastore query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			opts := &dkan.DatastoreQueryOptions{
				Limit:  limit,
				Offset: offset,
			}

			results, err := client.Datastore().Query(context.Background(), args[0], index, opts)
			if err != nil {
				return fmt.Errorf("failed to query datastore: %w", err)
			}

			structured, err := renderStructured(results)
			if structured {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Total rows: %d\n", results.Count)

			return renderRows(results.Results)
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "distribution index within the dataset")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	return cmd
}

func newDatastoreDownloadCommand() *cobra.Command {
	var (
		index  int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "download DATASET_ID",
		Short: "Download datastore contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			opts := &dkan.DownloadOptions{Format: format}

			data, err := client.Datastore().Download(context.Background(), args[0], index, opts)
			if err != nil {
				return fmt.Errorf("failed to download: %w", err)
			}

			if output == "" {
				_, _ = os.Stdout.Write(data)

				return nil
			}

			err = os.WriteFile(output, data, 0644)
			if err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Wrote %d bytes to %s\n", len(data), output)

			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "distribution index within the dataset")
	cmd.Flags().StringVar(&format, "format", "csv", "download format (csv, json)")
	cmd.Flags().StringVarP(&output, "output-file", "o", "", "write to file instead of stdout")

	return cmd
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Manage datastore imports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List datastore imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			imports, err := client.Imports().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list imports: %w", err)
			}

			structured, err := renderStructured(imports)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Identifier", "File", "Status")

			identifiers := make([]string, 0, len(imports))
			for identifier := range imports {
				identifiers = append(identifiers, identifier)
			}

			sort.Strings(identifiers)

			for _, identifier := range identifiers {
				status := imports[identifier]
				_ = table.Append(identifier, valueOrNA(status.FileName), valueOrNA(status.ImporterStatus))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get IMPORT_ID",
		Short: "Show an import's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Imports().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get import: %w", err)
			}

			structured, err := renderStructured(status)
			if structured {
				return err
			}

			return renderKeyValueTable([][]string{
				{"File", valueOrNA(status.FileName)},
				{"Fetcher Status", valueOrNA(status.FileFetcherStatus)},
				{"Importer Status", valueOrNA(status.ImporterStatus)},
				{"Importer Error", valueOrNA(status.ImporterError)},
			})
		},
	})

	cmd.AddCommand(newImportCreateCommand())

	cmd.AddCommand(&cobra.Command{
		Use:   "delete IMPORT_ID",
		Short: "Drop a datastore import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Imports().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete import: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted import '%s'\n", args[0])

			return nil
		},
	})

	return cmd
}

func newImportCreateCommand() *cobra.Command {
	var (
		wait         bool
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create RESOURCE_ID",
		Short: "Start a datastore import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			_, err = client.Imports().Create(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to start import: %w", err)
			}

			if !wait {
				_, _ = fmt.Fprintf(os.Stdout, "Started import for resource '%s'\n", args[0])

				return nil
			}

			status, err := client.Imports().WaitForImport(ctx, args[0], pollInterval)
			if err != nil {
				return fmt.Errorf("import did not complete: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Import finished: %s\n", status.ImporterStatus)

			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "block until the import finishes")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "status poll interval when waiting")

	return cmd
}

// renderRows prints datastore rows with a column order derived from the
// first row.
func renderRows(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		_, _ = os.Stdout.WriteString("No rows returned\n")

		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}

	sort.Strings(columns)

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, row := range rows {
		cells := make([]interface{}, len(columns))
		for i, column := range columns {
			cells[i] = fmt.Sprintf("%v", row[column])
		}

		_ = table.Append(cells...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
