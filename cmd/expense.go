package cmd

import (
	"fmt"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/spf13/cobra"
)

var (
	expenseAmount   string
	expenseCategory string
	expenseNote     string
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses"},
	Short:   "Record and list this month's expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		amount, err := parseAmount("amount", expenseAmount)
		if err != nil {
			return err
		}

		in := budget.ExpenseInput{Amount: amount, Note: expenseNote}
		if expenseCategory != "" {
			c, ok := resolveCategory(deps.Store.State(), expenseCategory)
			if !ok {
				return internal.NewValidationFieldError("category",
					fmt.Sprintf("category %s does not exist", expenseCategory), internal.ErrCodeInvalidCategory)
			}
			in.CategoryID = c.ID
		}

		e, err := deps.Store.AddExpense(in)
		if err != nil {
			return err
		}
		state := deps.Store.State()
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s), remaining %s\n",
			money(state.Currency, e.Amount), e.ID, money(state.Currency, budget.RemainingBalance(state)))
		return nil
	}),
}

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		deleted, err := deps.Store.DeleteExpense(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return internal.ErrExpenseNotFound
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	}),
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this month's expenses, newest first",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		printExpenses(cmd.OutOrStdout(), deps.Store.State())
		return nil
	}),
}

func init() {
	expenseAddCmd.Flags().StringVar(&expenseAmount, "amount", "", "amount spent")
	expenseAddCmd.Flags().StringVar(&expenseCategory, "category", "", "category id or name")
	expenseAddCmd.Flags().StringVar(&expenseNote, "note", "", "free-form note")
	_ = expenseAddCmd.MarkFlagRequired("amount")

	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseDeleteCmd)
	expenseCmd.AddCommand(expenseListCmd)
}
