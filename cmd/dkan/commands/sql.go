package commands

import (
	"context"
	"fmt"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/spf13/cobra"
)

// NewSQLCommand creates the sql command
func NewSQLCommand() *cobra.Command {
	var (
		usePost       bool
		showDBColumns bool
	)

	cmd := &cobra.Command{
		Use:   "sql QUERY",
		Short: "Run a datastore SQL query",
		Long: `Run a query in the bracketed DKAN SQL dialect, for example:

  dkan sql '[SELECT * FROM abc-123][LIMIT 10];'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return ErrQueryRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			opts := &dkan.SQLOptions{
				UsePost:       usePost,
				ShowDBColumns: showDBColumns,
			}

			rows, err := client.Datastore().SQL(context.Background(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to run query: %w", err)
			}

			structured, err := renderStructured(rows)
			if structured {
				return err
			}

			return renderRows(rows)
		},
	}

	cmd.Flags().BoolVar(&usePost, "post", false, "send the query in a POST body instead of the query string")
	cmd.Flags().BoolVar(&showDBColumns, "show-db-columns", false, "return raw database column names")

	return cmd
}
