package cmd

import (
	"fmt"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the state with sample data",
	Long:  `Seed the state with an onboarded sample budget for development and demos.`,
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		out := cmd.OutOrStdout()
		if clearData {
			if err := deps.Store.ResetAll(); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
			fmt.Fprintln(out, "cleared existing data")
		}

		if deps.Store.State().IsOnboarded {
			fmt.Fprintln(out, "already onboarded; use --clear to start over")
			return nil
		}

		if err := deps.Store.Onboard(decimal.NewFromInt(50000), decimal.NewFromInt(10000), true); err != nil {
			return fmt.Errorf("failed to onboard: %w", err)
		}

		categories := []budget.CategoryInput{
			{Name: "Rent", Budget: decimal.NewFromInt(15000)},
			{Name: "Food", Budget: decimal.NewFromInt(8000)},
			{Name: "Transport", Budget: decimal.NewFromInt(3000)},
			{Name: "Entertainment", Budget: decimal.NewFromInt(4000)},
		}
		created, err := deps.Store.CompleteCategorySetup(categories)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		for _, c := range created {
			fmt.Fprintf(out, "Seeded category: %s\n", c.Name)
		}

		expenses := []budget.ExpenseInput{
			{Amount: decimal.NewFromInt(15000), CategoryID: created[0].ID, Note: "monthly rent"},
			{Amount: decimal.NewFromInt(1200), CategoryID: created[1].ID, Note: "groceries"},
			{Amount: decimal.RequireFromString("249.50"), CategoryID: created[2].ID, Note: "metro card"},
			{Amount: decimal.NewFromInt(500), Note: "gift"},
		}
		for _, in := range expenses {
			if _, err := deps.Store.AddExpense(in); err != nil {
				return fmt.Errorf("failed to seed expense: %w", err)
			}
		}
		fmt.Fprintf(out, "Seeded %d expenses\n", len(expenses))
		return nil
	}),
}
