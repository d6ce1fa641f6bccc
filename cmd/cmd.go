package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:           "monthly-budget",
	Short:         "Monthly Budget",
	Long:          `Track a monthly spendable amount, category budgets and expenses. The expense ledger starts over every calendar month.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError prefers the field-level message of a rejected operation.
func formatError(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return fmt.Sprintf("error: %s (%s)", appErr.GetDetailedMessage(), appErr.Code)
	}
	return fmt.Sprintf("error: %v", err)
}

// loadConfig reads an optional config.yml (a file path or a directory holding
// one), then BUDGET_* environment variables, on top of internal.Defaults.
func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	for key, value := range internal.Defaults() {
		v.SetDefault(key, value)
	}

	if path != "" && filepath.Ext(path) != "" {
		v.SetConfigFile(path)
	} else {
		if path == "" {
			path = "."
		}
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}
	v.SetEnvPrefix("BUDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if ephemeral {
		cfg.Storage.Driver = internal.StorageDriverMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file, or directory containing config.yml")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory only; nothing is written to disk")

	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Reset all data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(resetCmd)
}
