package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// withStore runs fn against a loaded store and closes the state file after.
func withStore(fn func(cmd *cobra.Command, args []string, deps *Dependencies) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()
		return fn(cmd, args, deps)
	}
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, internal.NewValidationFieldError(flag,
			fmt.Sprintf("%q is not a number", value), internal.ErrCodeInvalidAmount)
	}
	return d, nil
}

// resolveCategory accepts a category id or, failing that, a case-insensitive
// name.
func resolveCategory(state budget.AppState, ref string) (budget.Category, bool) {
	if c, ok := state.FindCategory(ref); ok {
		return c, true
	}
	for _, c := range state.Categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, true
		}
	}
	return budget.Category{}, false
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printCategories(w io.Writer, state budget.AppState) {
	if len(state.Categories) == 0 {
		fmt.Fprintln(w, "no categories")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ORDER\tNAME\tBUDGET\tSPENT\tREMAINING\tID")
	for _, c := range budget.SortedCategories(state) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.Order,
			c.Name,
			money(state.Currency, c.Budget),
			money(state.Currency, budget.CategorySpent(state, c.ID)),
			money(state.Currency, budget.CategoryRemaining(state, c.ID)),
			c.ID)
	}
	tw.Flush()
}

func printExpenses(w io.Writer, state budget.AppState) {
	if len(state.Expenses) == 0 {
		fmt.Fprintf(w, "no expenses in %s\n", state.CurrentMonth)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCATEGORY\tNOTE\tID")
	for _, e := range state.Expenses {
		category := "-"
		if c, ok := state.FindCategory(e.CategoryID); ok {
			category = c.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Local().Format("2006-01-02 15:04"),
			money(state.Currency, e.Amount),
			category,
			e.Note,
			e.ID)
	}
	tw.Flush()
}

func printSummary(w io.Writer, s budget.Summary) {
	fmt.Fprintf(w, "Month:       %s\n", s.Month)
	fmt.Fprintf(w, "Spendable:   %s\n", money(s.Currency, s.SpendableAmount))
	fmt.Fprintf(w, "Spent:       %s (%d expenses)\n", money(s.Currency, s.TotalSpent), s.ExpenseCount)
	fmt.Fprintf(w, "Remaining:   %s (%s%%)\n", money(s.Currency, s.RemainingBalance), s.PercentageLeft.StringFixed(2))
	if len(s.Categories) == 0 {
		return
	}
	fmt.Fprintf(w, "Allocated:   %s, unallocated %s\n", money(s.Currency, s.TotalAllocated), money(s.Currency, s.UnallocatedAmount))
	fmt.Fprintf(w, "Uncategorized spend: %s\n\n", money(s.Currency, s.UncategorizedSpent))

	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tBUDGET\tSPENT\tREMAINING")
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.Name,
			money(s.Currency, c.Budget),
			money(s.Currency, c.Spent),
			money(s.Currency, c.Remaining))
	}
	tw.Flush()
}
