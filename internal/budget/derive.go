package budget

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalSpent sums every expense in the ledger. The ledger only ever holds the
// current month's expenses, so no month filter is applied.
func TotalSpent(s AppState) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// RemainingBalance may be negative when the user has overspent.
func RemainingBalance(s AppState) decimal.Decimal {
	return s.SpendableAmount.Sub(TotalSpent(s))
}

// CategorySpent sums expenses tagged with id. An id that names no existing
// category yields zero: such expenses count as uncategorized.
func CategorySpent(s AppState, id string) decimal.Decimal {
	if _, ok := s.FindCategory(id); !ok {
		return decimal.Zero
	}
	return categorySpent(s, id)
}

func categorySpent(s AppState, id string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		if e.CategoryID == id {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CategoryRemaining is the category budget minus its spend, or zero when no
// category has that id.
func CategoryRemaining(s AppState, id string) decimal.Decimal {
	c, ok := s.FindCategory(id)
	if !ok {
		return decimal.Zero
	}
	return c.Budget.Sub(categorySpent(s, id))
}

// UncategorizedSpent sums expenses without a category, including any whose
// category id no longer resolves.
func UncategorizedSpent(s AppState) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		if _, ok := s.FindCategory(e.CategoryID); !ok {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalAllocated sums the category budgets.
func TotalAllocated(s AppState) decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		total = total.Add(c.Budget)
	}
	return total
}

// PercentageLeft is the remaining balance as a percentage of the spendable
// amount, rounded to two places. Zero when nothing is spendable.
func PercentageLeft(s AppState) decimal.Decimal {
	if s.SpendableAmount.IsZero() {
		return decimal.Zero
	}
	return RemainingBalance(s).Mul(hundred).Div(s.SpendableAmount).Round(2)
}

// SortedCategories returns the categories ordered by their order field.
func SortedCategories(s AppState) []Category {
	return sortCategories(s.Categories)
}

func sortCategories(categories []Category) []Category {
	out := append([]Category(nil), categories...)
	slices.SortStableFunc(out, func(a, b Category) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

func BuildSummary(s AppState) Summary {
	sorted := SortedCategories(s)
	rows := make([]CategorySummary, 0, len(sorted))
	for _, c := range sorted {
		spent := categorySpent(s, c.ID)
		rows = append(rows, CategorySummary{
			Category:  c,
			Spent:     spent,
			Remaining: c.Budget.Sub(spent),
		})
	}

	allocated := TotalAllocated(s)
	return Summary{
		Month:              s.CurrentMonth.String(),
		Currency:           s.Currency,
		SpendableAmount:    s.SpendableAmount,
		TotalSpent:         TotalSpent(s),
		RemainingBalance:   RemainingBalance(s),
		PercentageLeft:     PercentageLeft(s),
		TotalAllocated:     allocated,
		UnallocatedAmount:  s.SpendableAmount.Sub(allocated),
		UncategorizedSpent: UncategorizedSpent(s),
		ExpenseCount:       len(s.Expenses),
		Categories:         rows,
	}
}
