package memory_test

import (
	"testing"

	"github.com/frahmantamala/monthly-budget/internal/budget/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMemoryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Memory State Repository Suite")
}

var _ = Describe("StateRepository", func() {
	It("should store and overwrite values", func() {
		repo := memory.NewStateRepository()

		_, found, err := repo.Get("k")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())

		Expect(repo.Put("k", []byte("one"))).To(Succeed())
		Expect(repo.Put("k", []byte("two"))).To(Succeed())

		value, found, err := repo.Get("k")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(string(value)).To(Equal("two"))
	})

	It("should not share byte slices with callers", func() {
		repo := memory.NewStateRepository()
		in := []byte("abc")
		Expect(repo.Put("k", in)).To(Succeed())
		in[0] = 'x'

		out, _, _ := repo.Get("k")
		Expect(string(out)).To(Equal("abc"))
		out[1] = 'y'

		again, _, _ := repo.Get("k")
		Expect(string(again)).To(Equal("abc"))
	})
})
