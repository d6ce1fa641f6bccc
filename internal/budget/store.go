package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/core/events"
	"github.com/frahmantamala/monthly-budget/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is a key-value store holding the serialized snapshot.
type RepositoryAPI interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
}

// Store owns the single AppState. Every mutation derives a new snapshot from
// the current one, persists it, and only then makes it visible.
type Store struct {
	mu    sync.RWMutex
	state AppState
	ready bool

	repo     RepositoryAPI
	key      string
	currency string
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	bus      *events.EventBus
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(lg *slog.Logger) Option {
	return func(s *Store) { s.logger = lg }
}

func WithEventBus(bus *events.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithStorageKey sets the key the snapshot is stored under.
func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithDefaultCurrency sets the symbol used for a fresh or reset state.
func WithDefaultCurrency(symbol string) Option {
	return func(s *Store) { s.currency = symbol }
}

func NewStore(repo RepositoryAPI, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		key:      internal.DefaultStorageKey,
		currency: internal.DefaultCurrency,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.LoggerWrapper()
	}
	s.state = DefaultState(s.currentMonth(), s.currency)
	return s
}

func (s *Store) currentMonth() Month {
	return MonthOf(s.now())
}

// Load resolves the initial state from the repository and marks the store
// ready. A missing, unreadable or invalid snapshot yields the default state;
// a snapshot from an earlier month has its expense ledger cleared. The
// returned error only reports a failure to write the resolved state back,
// the store is ready either way.
func (s *Store) Load() error {
	loaded, err := s.load()
	s.publish(loaded)
	return err
}

func (s *Store) load() (events.BaseEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	month := s.currentMonth()
	state, source := s.resolve(month)

	s.state = state
	s.ready = true
	s.logger.Info("budget state loaded",
		"source", source,
		"month", month.String(),
		"categories", len(state.Categories),
		"expenses", len(state.Expenses))
	loaded := events.NewStateLoadedEvent(source, month.String())

	if source == "snapshot" {
		return loaded, nil
	}
	if err := s.persist(state); err != nil {
		s.logger.Warn("failed to persist resolved state", "source", source, "error", err)
		return loaded, err
	}
	return loaded, nil
}

func (s *Store) resolve(month Month) (AppState, string) {
	raw, found, err := s.repo.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read stored state, using defaults", "key", s.key, "error", err)
		return DefaultState(month, s.currency), "recovered"
	}
	if !found {
		return DefaultState(month, s.currency), "default"
	}

	state, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("failed to parse stored state, using defaults", "key", s.key, "error", err)
		return DefaultState(month, s.currency), "recovered"
	}

	if !state.CurrentMonth.Equal(month) {
		s.logger.Info("month rollover, clearing expense ledger",
			"from", state.CurrentMonth.String(),
			"to", month.String(),
			"cleared_expenses", len(state.Expenses))
		state.Expenses = []Expense{}
		state.CurrentMonth = month
		return state, "rollover"
	}
	return state, "snapshot"
}

func (s *Store) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// State returns a copy of the current snapshot.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ApplyOnboardingData merges the given fields into the state. The spendable
// amount is only ever taken from data.SpendableAmount; changing income or
// investment later leaves it as fixed at onboarding.
func (s *Store) ApplyOnboardingData(data OnboardingData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	return s.mutate("apply_onboarding_data", nil, func(next *AppState) error {
		income := next.MonthlyIncome
		if data.MonthlyIncome != nil {
			income = *data.MonthlyIncome
		}
		investment := next.MonthlyInvestment
		if data.MonthlyInvestment != nil {
			investment = *data.MonthlyInvestment
		}
		if investment.GreaterThan(income) {
			return internal.NewValidationFieldError("monthlyInvestment",
				"monthlyInvestment must not exceed monthlyIncome", internal.ErrCodeInvalidInvestment)
		}

		next.MonthlyIncome = income
		next.MonthlyInvestment = investment
		if data.SpendableAmount != nil {
			next.SpendableAmount = *data.SpendableAmount
		}
		if data.UseCategories != nil {
			next.UseCategories = *data.UseCategories
		}
		if data.IsOnboarded != nil {
			next.IsOnboarded = *data.IsOnboarded
		}
		if data.Currency != nil {
			next.Currency = strings.TrimSpace(*data.Currency)
		}
		return nil
	})
}

// Onboard records income and investment and fixes the spendable amount. With
// categories enabled onboarding finishes in CompleteCategorySetup.
func (s *Store) Onboard(income, investment decimal.Decimal, useCategories bool) error {
	return s.ApplyOnboardingData(NewOnboarding(income, investment, useCategories))
}

// CompleteCategorySetup replaces the categories, numbering them in the given
// order, and marks onboarding complete.
func (s *Store) CompleteCategorySetup(inputs []CategoryInput) ([]Category, error) {
	if err := (CategorySetupDTO{Categories: inputs}).Validate(); err != nil {
		return nil, err
	}

	var created []Category
	err := s.mutate("complete_category_setup", nil, func(next *AppState) error {
		created = make([]Category, 0, len(inputs))
		for i, in := range inputs {
			created = append(created, Category{
				ID:     s.newID(),
				Name:   strings.TrimSpace(in.Name),
				Budget: in.Budget,
				Order:  i,
			})
		}
		next.Categories = append([]Category(nil), created...)
		next.IsOnboarded = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddExpense records a new expense at the head of the ledger, stamped with
// the current time and the ledger month.
func (s *Store) AddExpense(in ExpenseInput) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}

	var created Expense
	err := s.mutate("add_expense", nil, func(next *AppState) error {
		if in.CategoryID != "" {
			if _, ok := next.FindCategory(in.CategoryID); !ok {
				return internal.NewValidationFieldError("categoryId",
					fmt.Sprintf("category %s does not exist", in.CategoryID), internal.ErrCodeInvalidCategory)
			}
		}
		created = Expense{
			ID:         s.newID(),
			Amount:     in.Amount,
			CategoryID: in.CategoryID,
			Note:       strings.TrimSpace(in.Note),
			Date:       s.now().UTC().Truncate(time.Millisecond),
			Month:      next.CurrentMonth,
		}
		next.Expenses = append([]Expense{created}, next.Expenses...)
		return nil
	})
	if err != nil {
		return Expense{}, err
	}
	return created, nil
}

// DeleteExpense reports whether an expense was removed.
func (s *Store) DeleteExpense(id string) (bool, error) {
	deleted := false
	err := s.mutate("delete_expense", map[string]interface{}{"expense_id": id}, func(next *AppState) error {
		kept := make([]Expense, 0, len(next.Expenses))
		for _, e := range next.Expenses {
			if e.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, e)
		}
		if !deleted {
			return errNoChange
		}
		next.Expenses = kept
		return nil
	})
	return deleted, err
}

// AddCategory appends a category after the existing ones.
func (s *Store) AddCategory(in CategoryInput) (Category, error) {
	if err := in.Validate(); err != nil {
		return Category{}, err
	}

	var created Category
	err := s.mutate("add_category", nil, func(next *AppState) error {
		created = Category{
			ID:     s.newID(),
			Name:   strings.TrimSpace(in.Name),
			Budget: in.Budget,
			Order:  len(next.Categories),
		}
		next.Categories = append(next.Categories, created)
		return nil
	})
	if err != nil {
		return Category{}, err
	}
	return created, nil
}

// UpdateCategory reports whether a category with that id existed.
func (s *Store) UpdateCategory(id string, update CategoryUpdate) (bool, error) {
	if err := update.Validate(); err != nil {
		return false, err
	}

	found := false
	err := s.mutate("update_category", map[string]interface{}{"category_id": id}, func(next *AppState) error {
		for i := range next.Categories {
			if next.Categories[i].ID != id {
				continue
			}
			found = true
			if update.Name != nil {
				next.Categories[i].Name = strings.TrimSpace(*update.Name)
			}
			if update.Budget != nil {
				next.Categories[i].Budget = *update.Budget
			}
		}
		if !found || update.IsEmpty() {
			return errNoChange
		}
		return nil
	})
	return found, err
}

// DeleteCategory removes the category and detaches its expenses; expenses
// are never deleted with their category. Remaining categories are renumbered
// densely, keeping their relative order.
func (s *Store) DeleteCategory(id string) (bool, error) {
	deleted := false
	err := s.mutate("delete_category", map[string]interface{}{"category_id": id}, func(next *AppState) error {
		if _, ok := next.FindCategory(id); !ok {
			return errNoChange
		}
		deleted = true

		remaining := sortCategories(next.Categories)
		kept := make([]Category, 0, len(remaining))
		for _, c := range remaining {
			if c.ID == id {
				continue
			}
			c.Order = len(kept)
			kept = append(kept, c)
		}
		next.Categories = kept

		for i := range next.Expenses {
			if next.Expenses[i].CategoryID == id {
				next.Expenses[i].CategoryID = ""
			}
		}
		return nil
	})
	return deleted, err
}

// ReorderCategories assigns each category the position of its id in ids.
// ids must be a permutation of the current category ids.
func (s *Store) ReorderCategories(ids []string) error {
	return s.mutate("reorder_categories", nil, func(next *AppState) error {
		if err := checkPermutation(next.Categories, ids); err != nil {
			return err
		}
		byID := make(map[string]Category, len(next.Categories))
		for _, c := range next.Categories {
			byID[c.ID] = c
		}
		reordered := make([]Category, len(ids))
		for i, id := range ids {
			c := byID[id]
			c.Order = i
			reordered[i] = c
		}
		next.Categories = reordered
		return nil
	})
}

func checkPermutation(categories []Category, ids []string) *internal.AppError {
	invalid := func(msg string) *internal.AppError {
		return internal.NewValidationFieldError("ids", msg, internal.ErrCodeInvalidReorder)
	}
	if len(ids) != len(categories) {
		return invalid(fmt.Sprintf("expected %d category ids, got %d", len(categories), len(ids)))
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok {
			return invalid(fmt.Sprintf("unknown category id %s", id))
		}
		if seen {
			return invalid(fmt.Sprintf("duplicate category id %s", id))
		}
		known[id] = true
	}
	return nil
}

// ResetAll discards everything and starts over in the current month. Callers
// are expected to have confirmed this with the user.
func (s *Store) ResetAll() error {
	return s.mutate("reset_all", nil, func(next *AppState) error {
		*next = DefaultState(s.currentMonth(), s.currency)
		return nil
	})
}

func (s *Store) TotalSpent() decimal.Decimal {
	return TotalSpent(s.State())
}

func (s *Store) RemainingBalance() decimal.Decimal {
	return RemainingBalance(s.State())
}

func (s *Store) CategorySpent(id string) decimal.Decimal {
	return CategorySpent(s.State(), id)
}

func (s *Store) CategoryRemaining(id string) decimal.Decimal {
	return CategoryRemaining(s.State(), id)
}

func (s *Store) Summary() Summary {
	return BuildSummary(s.State())
}

// errNoChange lets a mutation end as a silent no-op.
var errNoChange = errors.New("no change")

func (s *Store) mutate(op string, fields map[string]interface{}, apply func(next *AppState) error) error {
	changed, err := s.commit(op, fields, apply)
	if err != nil || changed == nil {
		return err
	}
	s.publish(*changed)
	return nil
}

// commit applies and persists under the write lock. Subscribers are notified
// by the caller once the lock is released, so they may read the store.
func (s *Store) commit(op string, fields map[string]interface{}, apply func(next *AppState) error) (*events.BaseEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, internal.ErrStoreNotReady
	}

	next := s.state.Clone()
	if err := apply(&next); err != nil {
		if errors.Is(err, errNoChange) {
			s.logger.Debug("budget mutation had no effect", append([]any{"op", op}, flatten(fields)...)...)
			return nil, nil
		}
		s.logger.Warn("budget mutation rejected", append([]any{"op", op, "error", err}, flatten(fields)...)...)
		return nil, err
	}

	if err := s.persist(next); err != nil {
		s.logger.Error("failed to persist budget state", "op", op, "error", err)
		return nil, internal.NewInternalError("failed to save budget state", err)
	}
	s.state = next

	s.logger.Info("budget state updated", append([]any{
		"op", op,
		"categories", len(next.Categories),
		"expenses", len(next.Expenses),
	}, flatten(fields)...)...)
	changed := events.NewStateChangedEvent(op, next.CurrentMonth.String(), fields)
	return &changed, nil
}

func (s *Store) persist(state AppState) error {
	data, err := EncodeSnapshot(state)
	if err != nil {
		return err
	}
	if err := s.repo.Put(s.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) publish(event events.BaseEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("state event subscriber failed", "event_type", event.EventType(), "error", err)
	}
}

func flatten(fields map[string]interface{}) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
