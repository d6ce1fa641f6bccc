package cmd

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/spf13/cobra"
)

var (
	categoryName   string
	categoryBudget string
	updateName     string
	updateBudget   string
	setupEntries   []string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage category budgets",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories in display order",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		printCategories(cmd.OutOrStdout(), deps.Store.State())
		return nil
	}),
}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a category after the existing ones",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		amount, err := parseAmount("budget", categoryBudget)
		if err != nil {
			return err
		}
		c, err := deps.Store.AddCategory(budget.CategoryInput{Name: categoryName, Budget: amount})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", c.Name, c.ID)
		return nil
	}),
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Rename a category or change its budget",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		c, ok := resolveCategory(deps.Store.State(), args[0])
		if !ok {
			return internal.ErrCategoryNotFound
		}

		var update budget.CategoryUpdate
		if cmd.Flags().Changed("name") {
			update.Name = &updateName
		}
		if cmd.Flags().Changed("budget") {
			amount, err := parseAmount("budget", updateBudget)
			if err != nil {
				return err
			}
			update.Budget = &amount
		}
		if update.IsEmpty() {
			return internal.NewValidationError("nothing to update; pass --name and/or --budget", internal.ErrCodeValidationFailed)
		}

		found, err := deps.Store.UpdateCategory(c.ID, update)
		if err != nil {
			return err
		}
		if !found {
			return internal.ErrCategoryNotFound
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", c.ID)
		return nil
	}),
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a category; its expenses become uncategorized",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		c, ok := resolveCategory(deps.Store.State(), args[0])
		if !ok {
			return internal.ErrCategoryNotFound
		}
		deleted, err := deps.Store.DeleteCategory(c.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return internal.ErrCategoryNotFound
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", c.Name)
		return nil
	}),
}

var categoryReorderCmd = &cobra.Command{
	Use:   "reorder <id|name>...",
	Short: "Set the display order; every category must be listed exactly once",
	Args:  cobra.MinimumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		state := deps.Store.State()
		ids := make([]string, len(args))
		for i, ref := range args {
			ids[i] = ref
			if c, ok := resolveCategory(state, ref); ok {
				ids[i] = c.ID
			}
		}
		if err := deps.Store.ReorderCategories(ids); err != nil {
			return err
		}
		printCategories(cmd.OutOrStdout(), deps.Store.State())
		return nil
	}),
}

var categorySetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Replace all categories and finish onboarding",
	Long:  `Each --category is name=budget; categories keep the order given.`,
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		inputs, err := parseSetupEntries(setupEntries)
		if err != nil {
			return err
		}
		created, err := deps.Store.CompleteCategorySetup(inputs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d categories\n", len(created))
		printCategories(cmd.OutOrStdout(), deps.Store.State())
		return nil
	}),
}

func parseSetupEntries(entries []string) ([]budget.CategoryInput, error) {
	inputs := make([]budget.CategoryInput, 0, len(entries))
	for _, entry := range entries {
		name, amount, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, internal.NewValidationFieldError("category",
				fmt.Sprintf("%q must look like name=budget", entry), internal.ErrCodeValidationFailed)
		}
		value, err := parseAmount("category", amount)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, budget.CategoryInput{Name: name, Budget: value})
	}
	return inputs, nil
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryName, "name", "", "category name")
	categoryAddCmd.Flags().StringVar(&categoryBudget, "budget", "0", "monthly budget")
	_ = categoryAddCmd.MarkFlagRequired("name")

	categoryUpdateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	categoryUpdateCmd.Flags().StringVar(&updateBudget, "budget", "", "new monthly budget")

	categorySetupCmd.Flags().StringArrayVar(&setupEntries, "category", nil, "name=budget, repeatable")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryUpdateCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryReorderCmd)
	categoryCmd.AddCommand(categorySetupCmd)
}
