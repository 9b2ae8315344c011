package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDictionaryCommand creates the dictionary command group
func NewDictionaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dictionary",
		Aliases: []string{"dictionaries"},
		Short:   "Manage data dictionaries",
		Long:    "List and show metastore data dictionaries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List data dictionaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dictionaries, err := client.DataDictionaries().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list data dictionaries: %w", err)
			}

			structured, err := renderStructured(dictionaries)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Identifier", "Title", "Fields")

			for _, dictionary := range dictionaries {
				_ = table.Append(dictionary.Identifier, valueOrNA(dictionary.Data.Title),
					fmt.Sprintf("%d", len(dictionary.Data.Fields)))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get DICTIONARY_ID",
		Short: "Show a data dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			dictionary, err := client.DataDictionaries().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get data dictionary: %w", err)
			}

			structured, err := renderStructured(dictionary)
			if structured {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Type", "Title")

			for _, field := range dictionary.Data.Fields {
				_ = table.Append(field.Name, string(field.Type), valueOrNA(field.Title))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	})

	return cmd
}
