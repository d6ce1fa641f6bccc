// Package budget holds the personal budget state: onboarding figures, spending
// categories and the current month's expense ledger, together with the
// balances derived from them.
package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Budget decimal.Decimal `json:"budget"`
	Order  int             `json:"order"`
}

// Expense is immutable once recorded. An empty CategoryID means uncategorized.
type Expense struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId,omitempty"`
	Note       string          `json:"note,omitempty"`
	Date       time.Time       `json:"date"`
	Month      Month           `json:"month"`
}

func (e Expense) IsCategorized() bool {
	return e.CategoryID != ""
}

// AppState is the whole persisted aggregate. SpendableAmount is fixed when
// onboarding completes and is not recomputed afterwards.
type AppState struct {
	IsOnboarded       bool            `json:"isOnboarded"`
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
	MonthlyInvestment decimal.Decimal `json:"monthlyInvestment"`
	SpendableAmount   decimal.Decimal `json:"spendableAmount"`
	UseCategories     bool            `json:"useCategories"`
	Categories        []Category      `json:"categories"`
	Expenses          []Expense       `json:"expenses"`
	CurrentMonth      Month           `json:"currentMonth"`
	Currency          string          `json:"currency"`
}

// DefaultState is the state of a user who has never onboarded.
func DefaultState(month Month, currency string) AppState {
	return AppState{
		MonthlyIncome:     decimal.Zero,
		MonthlyInvestment: decimal.Zero,
		SpendableAmount:   decimal.Zero,
		Categories:        []Category{},
		Expenses:          []Expense{},
		CurrentMonth:      month,
		Currency:          currency,
	}
}

// Clone returns a copy that shares no slices with s.
func (s AppState) Clone() AppState {
	out := s
	out.Categories = append(make([]Category, 0, len(s.Categories)), s.Categories...)
	out.Expenses = append(make([]Expense, 0, len(s.Expenses)), s.Expenses...)
	return out
}

func (s AppState) FindCategory(id string) (Category, bool) {
	if id == "" {
		return Category{}, false
	}
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (s AppState) FindExpense(id string) (Expense, bool) {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}
