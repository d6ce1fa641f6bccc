package budget

import (
	"net/http"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/transport"
	"github.com/go-chi/chi"
)

// ServiceAPI is the part of *Store the HTTP layer drives.
type ServiceAPI interface {
	IsReady() bool
	State() AppState
	Summary() Summary
	ApplyOnboardingData(data OnboardingData) error
	CompleteCategorySetup(inputs []CategoryInput) ([]Category, error)
	AddExpense(in ExpenseInput) (Expense, error)
	DeleteExpense(id string) (bool, error)
	AddCategory(in CategoryInput) (Category, error)
	UpdateCategory(id string, update CategoryUpdate) (bool, error)
	DeleteCategory(id string) (bool, error)
	ReorderCategories(ids []string) error
	ResetAll() error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type ExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.State())
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Summary())
}

func (h *Handler) ApplyOnboarding(w http.ResponseWriter, r *http.Request) {
	var dto OnboardingData
	if !h.decode(w, r, &dto) {
		return
	}

	if err := h.Service.ApplyOnboardingData(dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.State())
}

func (h *Handler) CompleteCategorySetup(w http.ResponseWriter, r *http.Request) {
	var dto CategorySetupDTO
	if !h.decode(w, r, &dto) {
		return
	}

	created, err := h.Service.CompleteCategorySetup(dto.Categories)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CompleteCategorySetup: categories created", "count", len(created))
	h.WriteJSON(w, http.StatusCreated, CategoriesResponse{Categories: created})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryInput
	if !h.decode(w, r, &dto) {
		return
	}

	category, err := h.Service.AddCategory(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto CategoryUpdate
	if !h.decode(w, r, &dto) {
		return
	}

	found, err := h.Service.UpdateCategory(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !found {
		h.HandleServiceError(w, internal.ErrCategoryNotFound)
		return
	}

	category, _ := h.Service.State().FindCategory(id)
	h.WriteJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.Service.DeleteCategory(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !deleted {
		h.HandleServiceError(w, internal.ErrCategoryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var dto ReorderCategoriesDTO
	if !h.decode(w, r, &dto) {
		return
	}

	if err := h.Service.ReorderCategories(dto.IDs); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Categories: SortedCategories(h.Service.State())})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto ExpenseInput
	if !h.decode(w, r, &dto) {
		return
	}

	expense, err := h.Service.AddExpense(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateExpense: expense recorded",
		"expense_id", expense.ID,
		"category_id", expense.CategoryID,
		"amount", expense.Amount.String())
	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.Service.DeleteExpense(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !deleted {
		h.HandleServiceError(w, internal.ErrExpenseNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset wipes all data. The body must carry {"confirm": true}.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var dto ResetDTO
	if !h.decode(w, r, &dto) {
		return
	}
	if !dto.Confirm {
		h.HandleServiceError(w, internal.NewValidationFieldError("confirm",
			"reset must be confirmed", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.ResetAll(); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.Logger.Warn("Reset: all budget data cleared")
	h.WriteJSON(w, http.StatusOK, h.Service.State())
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Service.IsReady() {
		return true
	}
	h.HandleServiceError(w, internal.ErrStoreNotReady)
	return false
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := h.DecodeJSON(w, r, dst); err != nil {
		h.Logger.Error("invalid request body", "path", r.URL.Path, "error", err)
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
		return false
	}
	return true
}
