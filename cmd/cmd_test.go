package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frahmantamala/monthly-budget/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("loadConfig", func() {
	AfterEach(func() {
		ephemeral = false
	})

	It("should fall back to defaults without a config file", func() {
		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverSQLite))
		Expect(cfg.Storage.Key).To(Equal(internal.DefaultStorageKey))
		Expect(cfg.App.Currency).To(Equal("₹"))
		Expect(cfg.Server.Port).To(Equal(8080))
	})

	It("should read a config file and let the environment override it", func() {
		dir := GinkgoT().TempDir()
		file := filepath.Join(dir, "config.yml")
		Expect(os.WriteFile(file, []byte("app:\n  currency: \"$\"\nhttp_server:\n  port: 9090\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv("BUDGET_HTTP_SERVER_PORT", "9191")

		cfg, err := loadConfig(file)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.App.Currency).To(Equal("$"))
		Expect(cfg.Server.Port).To(Equal(9191))
	})

	It("should switch to memory storage with --ephemeral", func() {
		ephemeral = true
		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverMemory))
	})

	It("should reject an invalid configuration", func() {
		GinkgoT().Setenv("BUDGET_STORAGE_DRIVER", "postgres")
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(MatchError(ContainSubstring("storage config")))
	})
})

var _ = Describe("parseSetupEntries", func() {
	It("should keep the given order", func() {
		inputs, err := parseSetupEntries([]string{"Rent=15000", "Food=5000.50"})
		Expect(err).NotTo(HaveOccurred())
		Expect(inputs).To(HaveLen(2))
		Expect(inputs[0].Name).To(Equal("Rent"))
		Expect(inputs[1].Budget.String()).To(Equal("5000.5"))
	})

	It("should reject malformed entries", func() {
		_, err := parseSetupEntries([]string{"Rent"})
		Expect(err).To(HaveOccurred())
		_, err = parseSetupEntries([]string{"Rent=lots"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("confirm", func() {
	DescribeTable("answers",
		func(input string, expected bool) {
			var out bytes.Buffer
			Expect(confirm(strings.NewReader(input), &out, "sure? ")).To(Equal(expected))
			Expect(out.String()).To(Equal("sure? "))
		},
		Entry("yes", "yes\n", true),
		Entry("y without newline", "y", true),
		Entry("no", "n\n", false),
		Entry("empty", "", false),
	)
})

var _ = Describe("commands", func() {
	AfterEach(func() {
		ephemeral = false
		onboardInvestment = "0"
		onboardCurrency = ""
		rootCmd.SetArgs(nil)
	})

	It("should onboard and summarize in memory", func() {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"--ephemeral", "--config", GinkgoT().TempDir(), "onboard", "--income", "50000", "--investment", "10000"})

		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Spendable this month: ₹40000.00"))
	})

	It("should report unknown expenses", func() {
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"--ephemeral", "--config", GinkgoT().TempDir(), "expense", "delete", "missing"})

		err := rootCmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(formatError(err)).To(ContainSubstring("EXPENSE_NOT_FOUND"))
	})

	It("should leave the currency alone when onboarding is rejected", func() {
		dir := GinkgoT().TempDir()
		GinkgoT().Setenv("BUDGET_STORAGE_PATH", filepath.Join(dir, "budget.db"))

		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"--config", dir, "onboard", "--income", "100", "--investment", "200", "--currency", "$"})
		err := rootCmd.Execute()
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.HasCode(internal.ErrCodeInvalidInvestment)).To(BeTrue())

		onboardCurrency = ""
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"--config", dir, "onboard", "--income", "50000", "--investment", "10000"})
		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Spendable this month: ₹40000.00"))
	})
})
