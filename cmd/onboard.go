package cmd

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/spf13/cobra"
)

var (
	onboardIncome     string
	onboardInvestment string
	onboardCategories bool
	onboardCurrency   string
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Set monthly income and investment",
	Long: `Record monthly income and investment; the spendable amount becomes income minus investment.
With --categories, finish onboarding with "category setup".`,
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		income, err := parseAmount("income", onboardIncome)
		if err != nil {
			return err
		}
		investment, err := parseAmount("investment", onboardInvestment)
		if err != nil {
			return err
		}

		data := budget.NewOnboarding(income, investment, onboardCategories)
		if currency := strings.TrimSpace(onboardCurrency); currency != "" {
			data.Currency = &currency
		}
		if err := deps.Store.ApplyOnboardingData(data); err != nil {
			return err
		}

		state := deps.Store.State()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Spendable this month: %s\n", money(state.Currency, state.SpendableAmount))
		if !state.IsOnboarded {
			fmt.Fprintln(out, `Next: allocate budgets with "category setup --category name=amount ..."`)
		}
		return nil
	}),
}

func init() {
	onboardCmd.Flags().StringVar(&onboardIncome, "income", "", "monthly income")
	onboardCmd.Flags().StringVar(&onboardInvestment, "investment", "0", "amount set aside for investment each month")
	onboardCmd.Flags().BoolVar(&onboardCategories, "categories", false, "track spending against category budgets")
	onboardCmd.Flags().StringVar(&onboardCurrency, "currency", "", "currency symbol")
	_ = onboardCmd.MarkFlagRequired("income")
}
