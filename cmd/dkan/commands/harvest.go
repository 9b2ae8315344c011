package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/spf13/cobra"
)

// NewHarvestCommand creates the harvest command group
func NewHarvestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Manage harvests",
		Long:  "Register harvest plans and run them against external catalogs",
	}

	cmd.AddCommand(newHarvestPlansCommand())
	cmd.AddCommand(newHarvestRegisterCommand())
	cmd.AddCommand(newHarvestRunsCommand())
	cmd.AddCommand(newHarvestRunCommand())

	return cmd
}

func newHarvestPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List harvest plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			plans, err := client.Harvests().ListPlans(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list harvest plans: %w", err)
			}

			structured, err := renderStructured(plans)
			if structured {
				return err
			}

			if len(plans) == 0 {
				_, _ = os.Stdout.WriteString("No harvest plans registered\n")

				return nil
			}

			for _, plan := range plans {
				_, _ = fmt.Fprintf(os.Stdout, "  - %s\n", plan)
			}

			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get PLAN_ID",
		Short: "Show a harvest plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			plan, err := client.Harvests().GetPlan(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get harvest plan: %w", err)
			}

			structured, err := renderStructured(plan)
			if structured {
				return err
			}

			return renderKeyValueTable([][]string{
				{"Identifier", plan.Identifier},
				{"Extract Type", valueOrNA(plan.Extract.Type)},
				{"Extract URI", valueOrNA(plan.Extract.URI)},
				{"Load Type", valueOrNA(plan.Load.Type)},
			})
		},
	})

	return cmd
}

func newHarvestRegisterCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a harvest plan from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(fromFile)
			if err != nil {
				return fmt.Errorf("reading plan file: %w", err)
			}

			var plan dkan.HarvestPlan

			err = json.Unmarshal(data, &plan)
			if err != nil {
				return fmt.Errorf("parsing plan file: %w", err)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Harvests().RegisterPlan(context.Background(), &plan)
			if err != nil {
				return fmt.Errorf("failed to register harvest plan: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Registered harvest plan '%s'\n", result.Identifier)

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "path to harvest plan JSON (required)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newHarvestRunsCommand() *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs for a harvest plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			runs, err := client.Harvests().ListRuns(context.Background(), planID)
			if err != nil {
				return fmt.Errorf("failed to list harvest runs: %w", err)
			}

			structured, err := renderStructured(runs)
			if structured {
				return err
			}

			if len(runs) == 0 {
				_, _ = os.Stdout.WriteString("No runs found\n")

				return nil
			}

			for _, run := range runs {
				_, _ = fmt.Fprintf(os.Stdout, "  - %s\n", run)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "harvest plan identifier (required)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newHarvestRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run PLAN_ID",
		Short: "Start a harvest run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			run, err := client.Harvests().Run(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to start harvest: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Started harvest run '%s'\n", run.Identifier)

			return nil
		},
	}
}
