package budget_test

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Snapshot", func() {
	sample := func() budget.AppState {
		month := budget.NewMonth(2026, time.January)
		state := budget.DefaultState(month, "₹")
		state.IsOnboarded = true
		state.MonthlyIncome = dec("50000")
		state.MonthlyInvestment = dec("10000")
		state.SpendableAmount = dec("40000")
		state.UseCategories = true
		state.Categories = []budget.Category{
			{ID: "cat-food", Name: "Food", Budget: dec("5000.50"), Order: 0},
		}
		state.Expenses = []budget.Expense{
			{
				ID:         "exp-2",
				Amount:     dec("1200"),
				CategoryID: "cat-food",
				Note:       "groceries",
				Date:       time.Date(2026, time.January, 14, 9, 15, 30, 123000000, time.UTC),
				Month:      month,
			},
			{
				ID:     "exp-1",
				Amount: dec("1500.25"),
				Date:   time.Date(2026, time.January, 2, 18, 0, 0, 0, time.UTC),
				Month:  month,
			},
		}
		return state
	}

	It("should write the camelCase layout with a schema version and numeric money", func() {
		data, err := budget.EncodeSnapshot(sample())
		Expect(err).NotTo(HaveOccurred())

		var doc map[string]interface{}
		Expect(json.Unmarshal(data, &doc)).To(Succeed())
		Expect(doc).To(HaveKeyWithValue("schemaVersion", BeNumerically("==", budget.SchemaVersion)))
		Expect(doc).To(HaveKeyWithValue("monthlyIncome", BeNumerically("==", 50000)))
		Expect(doc).To(HaveKeyWithValue("currentMonth", "2026-01"))
		Expect(doc).To(HaveKeyWithValue("currency", "₹"))

		expenses := doc["expenses"].([]interface{})
		first := expenses[0].(map[string]interface{})
		Expect(first).To(HaveKeyWithValue("date", "2026-01-14T09:15:30.123Z"))
		Expect(first).To(HaveKeyWithValue("categoryId", "cat-food"))
		second := expenses[1].(map[string]interface{})
		Expect(second).NotTo(HaveKey("categoryId"))
		Expect(second).NotTo(HaveKey("note"))
	})

	It("should read back what it wrote", func() {
		original := sample()
		data, err := budget.EncodeSnapshot(original)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := budget.DecodeSnapshot(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.CurrentMonth.Equal(original.CurrentMonth)).To(BeTrue())
		Expect(decoded.SpendableAmount.Equal(original.SpendableAmount)).To(BeTrue())
		Expect(decoded.Categories[0].Budget.String()).To(Equal("5000.5"))
		Expect(decoded.Expenses[0].Date.Equal(original.Expenses[0].Date)).To(BeTrue())
		Expect(decoded.Expenses[1].Amount.String()).To(Equal("1500.25"))

		again, err := budget.EncodeSnapshot(decoded)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(MatchJSON(data))
	})

	It("should accept an unversioned document", func() {
		data := []byte(`{
			"isOnboarded": true,
			"monthlyIncome": 50000,
			"monthlyInvestment": 10000,
			"spendableAmount": 40000,
			"useCategories": false,
			"categories": [],
			"expenses": [
				{"id": "e1", "amount": 1500, "date": "2026-01-05T10:00:00.000Z", "month": "2026-01"}
			],
			"currentMonth": "2026-01",
			"currency": "₹"
		}`)

		state, err := budget.DecodeSnapshot(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.IsOnboarded).To(BeTrue())
		Expect(budget.RemainingBalance(state).String()).To(Equal("38500"))
	})

	It("should treat null collections and a missing month as empty", func() {
		state, err := budget.DecodeSnapshot([]byte(`{"categories": null, "expenses": null}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Categories).To(BeEmpty())
		Expect(state.Expenses).To(BeEmpty())
		Expect(state.CurrentMonth.IsZero()).To(BeTrue())
	})

	It("should reject a newer schema version", func() {
		_, err := budget.DecodeSnapshot([]byte(`{"schemaVersion": 2}`))
		Expect(errors.Is(err, budget.ErrUnsupportedSchema)).To(BeTrue())
	})

	DescribeTable("should reject invalid documents",
		func(doc string) {
			_, err := budget.DecodeSnapshot([]byte(doc))
			Expect(errors.Is(err, budget.ErrInvalidSnapshot)).To(BeTrue())
		},
		Entry("not JSON", `not json`),
		Entry("negative income", `{"monthlyIncome": -1}`),
		Entry("bad month", `{"currentMonth": "January"}`),
		Entry("category without name", `{"categories": [{"id": "c1", "name": " ", "budget": 1, "order": 0}]}`),
		Entry("duplicate category id", `{"categories": [{"id": "c1", "name": "A", "budget": 1, "order": 0}, {"id": "c1", "name": "B", "budget": 1, "order": 1}]}`),
		Entry("negative budget", `{"categories": [{"id": "c1", "name": "A", "budget": -1, "order": 0}]}`),
		Entry("zero expense", `{"expenses": [{"id": "e1", "amount": 0, "date": "2026-01-05T10:00:00.000Z", "month": "2026-01"}]}`),
		Entry("bad date", `{"expenses": [{"id": "e1", "amount": 1, "date": "yesterday", "month": "2026-01"}]}`),
	)
})
