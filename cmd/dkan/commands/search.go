package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command group
func NewSearchCommand() *cobra.Command {
	var (
		fulltext  string
		theme     string
		keyword   string
		sort      []string
		sortOrder []string
		page      int
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search the catalog",
		Long:  "Full-text search across datasets, with optional facet filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fulltext = args[0]
			}

			params := &dkan.SearchParams{
				Fulltext:  fulltext,
				Theme:     theme,
				Keyword:   keyword,
				Sort:      sort,
				SortOrder: sortOrder,
				Page:      page,
				PageSize:  pageSize,
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			results, err := client.Search().Search(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to search: %w", err)
			}

			structured, err := renderStructured(results)
			if structured {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Total results: %d\n", results.Total)

			if len(results.Results) == 0 {
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Identifier", "Title", "Modified")

			for _, dataset := range results.Results {
				_ = table.Append(dataset.Identifier, dataset.Title, valueOrNA(dataset.Modified))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fulltext, "fulltext", "", "full-text query")
	cmd.Flags().StringVar(&theme, "theme", "", "filter by theme")
	cmd.Flags().StringVar(&keyword, "keyword", "", "filter by keyword")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "sort field (repeatable)")
	cmd.Flags().StringSliceVar(&sortOrder, "sort-order", nil, "sort order for each sort field (repeatable)")
	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	cmd.AddCommand(newSearchFacetsCommand())

	return cmd
}

func newSearchFacetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List search facets",
		Long:  "List theme, keyword, and publisher facets with usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			facets, err := client.Search().Facets(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list facets: %w", err)
			}

			structured, err := renderStructured(facets)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Type", "Value", "Count")

			for _, facet := range facets {
				for _, value := range facet.Values {
					_ = table.Append(facet.Type, value.Value, fmt.Sprintf("%d", value.Count))
				}
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
