package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command group
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		Aliases: []string{"schemas"},
		Short:   "Inspect metastore schemas",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List metastore schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schemas, err := client.Schemas().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list schemas: %w", err)
			}

			structured, err := renderStructured(schemas)
			if structured {
				return err
			}

			names := make([]string, 0, len(schemas))
			for name := range schemas {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				_, _ = fmt.Fprintf(os.Stdout, "  - %s\n", name)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get SCHEMA_ID",
		Short: "Show a schema definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			schema, err := client.Schemas().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get schema: %w", err)
			}

			return renderJSON(schema)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "items SCHEMA_ID",
		Short: "List items of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			items, err := client.Schemas().Items(context.Background(), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to list schema items: %w", err)
			}

			return renderJSON(items)
		},
	})

	return cmd
}
