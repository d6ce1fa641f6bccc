package budget

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// OnboardingData is a partial update of the onboarding fields. Nil fields are
// left untouched.
type OnboardingData struct {
	MonthlyIncome     *decimal.Decimal `json:"monthlyIncome,omitempty"`
	MonthlyInvestment *decimal.Decimal `json:"monthlyInvestment,omitempty"`
	SpendableAmount   *decimal.Decimal `json:"spendableAmount,omitempty"`
	UseCategories     *bool            `json:"useCategories,omitempty"`
	IsOnboarded       *bool            `json:"isOnboarded,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
}

// NewOnboarding is the wizard's single update: income, investment and the
// spendable amount they leave. Onboarding is complete unless categories still
// need to be set up.
func NewOnboarding(income, investment decimal.Decimal, useCategories bool) OnboardingData {
	spendable := income.Sub(investment)
	onboarded := !useCategories
	return OnboardingData{
		MonthlyIncome:     &income,
		MonthlyInvestment: &investment,
		SpendableAmount:   &spendable,
		UseCategories:     &useCategories,
		IsOnboarded:       &onboarded,
	}
}

func (d OnboardingData) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.MonthlyIncome != nil {
		v.Field("monthlyIncome", *d.MonthlyIncome).
			NonNegative(internal.ErrCodeInvalidIncome).
			MaxAmount(validation.MaxAmount, internal.ErrCodeInvalidIncome)
	}
	if d.MonthlyInvestment != nil {
		v.Field("monthlyInvestment", *d.MonthlyInvestment).
			NonNegative(internal.ErrCodeInvalidInvestment).
			MaxAmount(validation.MaxAmount, internal.ErrCodeInvalidInvestment)
	}
	if d.SpendableAmount != nil {
		v.Field("spendableAmount", *d.SpendableAmount).
			NonNegative(internal.ErrCodeInvalidAmount)
	}
	if d.Currency != nil {
		v.Field("currency", *d.Currency).
			Required(internal.ErrCodeInvalidCurrency).
			MaxLength(validation.MaxCurrencyLength, internal.ErrCodeInvalidCurrency)
	}
	return v.Validate()
}

type CategoryInput struct {
	Name   string          `json:"name"`
	Budget decimal.Decimal `json:"budget"`
}

func (in CategoryInput) Validate() *internal.AppError {
	return validation.ValidateCategory(in.Name, in.Budget)
}

// CategoryUpdate changes name and/or budget. Id and order are not updatable
// here; order changes go through ReorderCategories.
type CategoryUpdate struct {
	Name   *string          `json:"name,omitempty"`
	Budget *decimal.Decimal `json:"budget,omitempty"`
}

func (u CategoryUpdate) Validate() *internal.AppError {
	v := validation.NewValidator()
	if u.Name != nil {
		v.Field("name", *u.Name).
			Required(internal.ErrCodeInvalidName).
			MaxLength(validation.MaxNameLength, internal.ErrCodeInvalidName)
	}
	if u.Budget != nil {
		v.Field("budget", *u.Budget).
			NonNegative(internal.ErrCodeInvalidBudget).
			MaxAmount(validation.MaxAmount, internal.ErrCodeInvalidBudget)
	}
	return v.Validate()
}

func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Budget == nil
}

type ExpenseInput struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId,omitempty"`
	Note       string          `json:"note,omitempty"`
}

func (in ExpenseInput) Validate() *internal.AppError {
	return validation.ValidateExpense(in.Amount, strings.TrimSpace(in.Note))
}

type ReorderCategoriesDTO struct {
	IDs []string `json:"ids"`
}

type ResetDTO struct {
	Confirm bool `json:"confirm"`
}

type CategorySetupDTO struct {
	Categories []CategoryInput `json:"categories"`
}

func (dto CategorySetupDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	for i, c := range dto.Categories {
		v.Field(fmt.Sprintf("categories[%d].name", i), c.Name).
			Required(internal.ErrCodeInvalidName).
			MaxLength(validation.MaxNameLength, internal.ErrCodeInvalidName)
		v.Field(fmt.Sprintf("categories[%d].budget", i), c.Budget).
			NonNegative(internal.ErrCodeInvalidBudget).
			MaxAmount(validation.MaxAmount, internal.ErrCodeInvalidBudget)
	}
	return v.Validate()
}

// CategorySummary is a category with its spend for the current month.
type CategorySummary struct {
	Category
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type Summary struct {
	Month              string            `json:"month"`
	Currency           string            `json:"currency"`
	SpendableAmount    decimal.Decimal   `json:"spendableAmount"`
	TotalSpent         decimal.Decimal   `json:"totalSpent"`
	RemainingBalance   decimal.Decimal   `json:"remainingBalance"`
	PercentageLeft     decimal.Decimal   `json:"percentageLeft"`
	TotalAllocated     decimal.Decimal   `json:"totalAllocated"`
	UnallocatedAmount  decimal.Decimal   `json:"unallocatedAmount"`
	UncategorizedSpent decimal.Decimal   `json:"uncategorizedSpent"`
	ExpenseCount       int               `json:"expenseCount"`
	Categories         []CategorySummary `json:"categories"`
}
