package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every snapshot. Documents without the field
// are version 0, the original unversioned layout, which has the same shape.
const SchemaVersion = 1

var (
	ErrInvalidSnapshot   = errors.New("invalid budget snapshot")
	ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")
)

const dateLayout = "2006-01-02T15:04:05.000Z07:00"

type snapshotDocument struct {
	SchemaVersion     int                `json:"schemaVersion"`
	IsOnboarded       bool               `json:"isOnboarded"`
	MonthlyIncome     json.Number        `json:"monthlyIncome"`
	MonthlyInvestment json.Number        `json:"monthlyInvestment"`
	SpendableAmount   json.Number        `json:"spendableAmount"`
	UseCategories     bool               `json:"useCategories"`
	Categories        []categoryDocument `json:"categories"`
	Expenses          []expenseDocument  `json:"expenses"`
	CurrentMonth      string             `json:"currentMonth"`
	Currency          string             `json:"currency"`
}

type categoryDocument struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Budget json.Number `json:"budget"`
	Order  int         `json:"order"`
}

type expenseDocument struct {
	ID         string      `json:"id"`
	Amount     json.Number `json:"amount"`
	CategoryID string      `json:"categoryId,omitempty"`
	Note       string      `json:"note,omitempty"`
	Date       string      `json:"date"`
	Month      string      `json:"month"`
}

// EncodeSnapshot serializes the full state. Money is written as JSON numbers
// and timestamps as UTC ISO-8601 with millisecond precision.
func EncodeSnapshot(s AppState) ([]byte, error) {
	doc := snapshotDocument{
		SchemaVersion:     SchemaVersion,
		IsOnboarded:       s.IsOnboarded,
		MonthlyIncome:     moneyNumber(s.MonthlyIncome),
		MonthlyInvestment: moneyNumber(s.MonthlyInvestment),
		SpendableAmount:   moneyNumber(s.SpendableAmount),
		UseCategories:     s.UseCategories,
		Categories:        make([]categoryDocument, len(s.Categories)),
		Expenses:          make([]expenseDocument, len(s.Expenses)),
		CurrentMonth:      s.CurrentMonth.String(),
		Currency:          s.Currency,
	}
	for i, c := range s.Categories {
		doc.Categories[i] = categoryDocument{
			ID:     c.ID,
			Name:   c.Name,
			Budget: moneyNumber(c.Budget),
			Order:  c.Order,
		}
	}
	for i, e := range s.Expenses {
		doc.Expenses[i] = expenseDocument{
			ID:         e.ID,
			Amount:     moneyNumber(e.Amount),
			CategoryID: e.CategoryID,
			Note:       e.Note,
			Date:       e.Date.UTC().Format(dateLayout),
			Month:      e.Month.String(),
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a persisted snapshot. Any error means
// the document must be discarded.
func DecodeSnapshot(data []byte) (AppState, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if doc.SchemaVersion < 0 || doc.SchemaVersion > SchemaVersion {
		return AppState{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, doc.SchemaVersion)
	}

	state, err := doc.toState()
	if err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := checkSnapshot(state); err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return state, nil
}

func (doc snapshotDocument) toState() (AppState, error) {
	var (
		state AppState
		err   error
	)
	state.IsOnboarded = doc.IsOnboarded
	state.UseCategories = doc.UseCategories
	state.Currency = doc.Currency

	if state.MonthlyIncome, err = parseMoney("monthlyIncome", doc.MonthlyIncome); err != nil {
		return AppState{}, err
	}
	if state.MonthlyInvestment, err = parseMoney("monthlyInvestment", doc.MonthlyInvestment); err != nil {
		return AppState{}, err
	}
	if state.SpendableAmount, err = parseMoney("spendableAmount", doc.SpendableAmount); err != nil {
		return AppState{}, err
	}
	if doc.CurrentMonth != "" {
		if state.CurrentMonth, err = ParseMonth(doc.CurrentMonth); err != nil {
			return AppState{}, fmt.Errorf("currentMonth: %w", err)
		}
	}

	state.Categories = make([]Category, 0, len(doc.Categories))
	for i, c := range doc.Categories {
		budget, err := parseMoney(fmt.Sprintf("categories[%d].budget", i), c.Budget)
		if err != nil {
			return AppState{}, err
		}
		state.Categories = append(state.Categories, Category{
			ID:     c.ID,
			Name:   c.Name,
			Budget: budget,
			Order:  c.Order,
		})
	}

	state.Expenses = make([]Expense, 0, len(doc.Expenses))
	for i, e := range doc.Expenses {
		amount, err := parseMoney(fmt.Sprintf("expenses[%d].amount", i), e.Amount)
		if err != nil {
			return AppState{}, err
		}
		date, err := time.Parse(time.RFC3339Nano, e.Date)
		if err != nil {
			return AppState{}, fmt.Errorf("expenses[%d].date: %w", i, err)
		}
		month, err := ParseMonth(e.Month)
		if err != nil {
			return AppState{}, fmt.Errorf("expenses[%d].month: %w", i, err)
		}
		state.Expenses = append(state.Expenses, Expense{
			ID:         e.ID,
			Amount:     amount,
			CategoryID: e.CategoryID,
			Note:       e.Note,
			Date:       date.UTC(),
			Month:      month,
		})
	}

	return state, nil
}

func checkSnapshot(s AppState) error {
	if s.MonthlyIncome.IsNegative() || s.MonthlyInvestment.IsNegative() {
		return errors.New("income and investment must not be negative")
	}

	categoryIDs := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if c.ID == "" {
			return errors.New("category without id")
		}
		if _, dup := categoryIDs[c.ID]; dup {
			return fmt.Errorf("duplicate category id %q", c.ID)
		}
		categoryIDs[c.ID] = struct{}{}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %q has no name", c.ID)
		}
		if c.Budget.IsNegative() {
			return fmt.Errorf("category %q has a negative budget", c.ID)
		}
	}

	expenseIDs := make(map[string]struct{}, len(s.Expenses))
	for _, e := range s.Expenses {
		if e.ID == "" {
			return errors.New("expense without id")
		}
		if _, dup := expenseIDs[e.ID]; dup {
			return fmt.Errorf("duplicate expense id %q", e.ID)
		}
		expenseIDs[e.ID] = struct{}{}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("expense %q has a non-positive amount", e.ID)
		}
	}
	return nil
}

func moneyNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func parseMoney(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
