package budget_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/frahmantamala/monthly-budget/internal/budget/memory"
	"github.com/frahmantamala/monthly-budget/internal/transport"
	"github.com/frahmantamala/monthly-budget/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Budget Handler", func() {
	var (
		store  *budget.Store
		router *chi.Mux
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			switch b := body.(type) {
			case string:
				buf.WriteString(b)
			default:
				Expect(json.NewEncoder(&buf).Encode(b)).To(Succeed())
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		clock := &testClock{now: time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)}
		store = budget.NewStore(memory.NewStateRepository(),
			budget.WithClock(clock.Now),
			budget.WithIDGenerator(sequentialIDs()),
			budget.WithLogger(logger.Discard()),
		)

		handler := budget.NewHandler(transport.NewBaseHandler(logger.Discard()), store)
		router = chi.NewRouter()
		router.Get("/state", handler.GetState)
		router.Get("/summary", handler.GetSummary)
		router.Post("/onboarding", handler.ApplyOnboarding)
		router.Post("/onboarding/categories", handler.CompleteCategorySetup)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/order", handler.ReorderCategories)
		router.Patch("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
		router.Post("/expenses", handler.CreateExpense)
		router.Delete("/expenses/{id}", handler.DeleteExpense)
		router.Post("/reset", handler.Reset)
	})

	It("should answer 503 until the state is loaded", func() {
		w := do(http.MethodGet, "/state", nil)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(decodeError(w).Error.Code).To(Equal("STORE_NOT_READY"))

		w = do(http.MethodPost, "/expenses", map[string]interface{}{"amount": 10})
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	Context("when loaded", func() {
		BeforeEach(func() {
			Expect(store.Load()).To(Succeed())
		})

		It("should onboard, record expenses and summarize", func() {
			w := do(http.MethodPost, "/onboarding", map[string]interface{}{
				"monthlyIncome":     50000,
				"monthlyInvestment": 10000,
				"spendableAmount":   40000,
				"useCategories":     true,
			})
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodPost, "/onboarding/categories", map[string]interface{}{
				"categories": []map[string]interface{}{{"name": "Food", "budget": "5000"}},
			})
			Expect(w.Code).To(Equal(http.StatusCreated))
			var setup budget.CategoriesResponse
			Expect(json.NewDecoder(w.Body).Decode(&setup)).To(Succeed())
			Expect(setup.Categories).To(HaveLen(1))
			foodID := setup.Categories[0].ID

			w = do(http.MethodPost, "/expenses", map[string]interface{}{"amount": 1500})
			Expect(w.Code).To(Equal(http.StatusCreated))
			w = do(http.MethodPost, "/expenses", map[string]interface{}{"amount": "1200", "categoryId": foodID, "note": "groceries"})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var created budget.Expense
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.Month.String()).To(Equal("2026-01"))
			Expect(created.Amount.String()).To(Equal("1200"))

			w = do(http.MethodGet, "/summary", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			var summary budget.Summary
			Expect(json.NewDecoder(w.Body).Decode(&summary)).To(Succeed())
			Expect(summary.RemainingBalance.String()).To(Equal("37300"))
			Expect(summary.Categories).To(HaveLen(1))
			Expect(summary.Categories[0].Remaining.String()).To(Equal("3800"))
		})

		It("should merge onboarding fields without touching the spendable amount", func() {
			Expect(store.Onboard(dec("50000"), dec("10000"), false)).To(Succeed())

			w := do(http.MethodPost, "/onboarding", map[string]interface{}{"monthlyIncome": 60000})
			Expect(w.Code).To(Equal(http.StatusOK))

			var state budget.AppState
			Expect(json.NewDecoder(w.Body).Decode(&state)).To(Succeed())
			Expect(state.MonthlyIncome.String()).To(Equal("60000"))
			Expect(state.SpendableAmount.String()).To(Equal("40000"))
		})

		It("should return 400 with field details for invalid input", func() {
			w := do(http.MethodPost, "/expenses", map[string]interface{}{"amount": 0})
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			body := decodeError(w)
			Expect(body.Error.Type).To(Equal("VALIDATION_ERROR"))
			Expect(body.Error.Details.Errors).To(HaveLen(1))
			Expect(body.Error.Details.Errors[0].Field).To(Equal("amount"))
			Expect(body.Error.Details.Errors[0].Code).To(Equal("INVALID_AMOUNT"))
		})

		It("should return 400 for a malformed body", func() {
			w := do(http.MethodPost, "/categories", `{"name": "Food", "budget": `)
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			w = do(http.MethodPost, "/categories", `{"name": "Food", "colour": "red"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should update, reorder and delete categories", func() {
			ids := []string{}
			for _, name := range []string{"A", "B", "C"} {
				w := do(http.MethodPost, "/categories", map[string]interface{}{"name": name, "budget": 100})
				Expect(w.Code).To(Equal(http.StatusCreated))
				var c budget.Category
				Expect(json.NewDecoder(w.Body).Decode(&c)).To(Succeed())
				ids = append(ids, c.ID)
			}

			w := do(http.MethodPatch, "/categories/"+ids[1], map[string]interface{}{"name": "Bee"})
			Expect(w.Code).To(Equal(http.StatusOK))
			var updated budget.Category
			Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
			Expect(updated.Name).To(Equal("Bee"))
			Expect(updated.Budget.String()).To(Equal("100"))

			w = do(http.MethodPut, "/categories/order", map[string]interface{}{"ids": []string{ids[2], ids[0], ids[1]}})
			Expect(w.Code).To(Equal(http.StatusOK))
			var ordered budget.CategoriesResponse
			Expect(json.NewDecoder(w.Body).Decode(&ordered)).To(Succeed())
			Expect(ordered.Categories[0].Name).To(Equal("C"))
			Expect(ordered.Categories[2].Name).To(Equal("Bee"))

			w = do(http.MethodPut, "/categories/order", map[string]interface{}{"ids": []string{ids[0]}})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Details.Errors[0].Code).To(Equal("INVALID_REORDER"))

			w = do(http.MethodDelete, "/categories/"+ids[0], nil)
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(store.State().Categories).To(HaveLen(2))
		})

		It("should return 404 for unknown ids", func() {
			w := do(http.MethodDelete, "/categories/missing", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("CATEGORY_NOT_FOUND"))

			w = do(http.MethodPatch, "/categories/missing", map[string]interface{}{"name": "X"})
			Expect(w.Code).To(Equal(http.StatusNotFound))

			w = do(http.MethodDelete, "/expenses/missing", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("EXPENSE_NOT_FOUND"))
		})

		It("should delete an expense", func() {
			e, err := store.AddExpense(budget.ExpenseInput{Amount: dec("10")})
			Expect(err).NotTo(HaveOccurred())

			w := do(http.MethodDelete, "/expenses/"+e.ID, nil)
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(store.State().Expenses).To(BeEmpty())
		})

		It("should only reset when confirmed", func() {
			_, err := store.AddExpense(budget.ExpenseInput{Amount: dec("10")})
			Expect(err).NotTo(HaveOccurred())

			w := do(http.MethodPost, "/reset", map[string]interface{}{"confirm": false})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(store.State().Expenses).To(HaveLen(1))

			w = do(http.MethodPost, "/reset", map[string]interface{}{"confirm": true})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(store.State().Expenses).To(BeEmpty())
		})
	})
})
