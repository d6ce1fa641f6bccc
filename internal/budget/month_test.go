package budget_test

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Month", func() {
	It("should take the month of an instant in UTC", func() {
		ist := time.FixedZone("IST", 5*3600+1800)
		local := time.Date(2026, time.February, 1, 3, 0, 0, 0, ist)

		Expect(budget.MonthOf(local).String()).To(Equal("2026-01"))
		Expect(budget.MonthOf(local).Contains(local)).To(BeTrue())
	})

	It("should parse and format YYYY-MM", func() {
		m, err := budget.ParseMonth("2026-11")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.String()).To(Equal("2026-11"))
		Expect(m.Equal(budget.NewMonth(2026, time.November))).To(BeTrue())

		_, err = budget.ParseMonth("2026-13")
		Expect(err).To(HaveOccurred())
	})

	It("should never equal a real month when zero", func() {
		var zero budget.Month
		Expect(zero.IsZero()).To(BeTrue())
		Expect(zero.String()).To(BeEmpty())
		Expect(zero.Equal(budget.NewMonth(2026, time.January))).To(BeFalse())
	})

	It("should marshal as a JSON string", func() {
		data, err := json.Marshal(budget.NewMonth(2026, time.March))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"2026-03"`))

		var m budget.Month
		Expect(json.Unmarshal([]byte(`"2025-12"`), &m)).To(Succeed())
		Expect(m.String()).To(Equal("2025-12"))

		Expect(json.Unmarshal([]byte(`""`), &m)).To(Succeed())
		Expect(m.IsZero()).To(BeTrue())
	})
})
