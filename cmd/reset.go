package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start over",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		out := cmd.OutOrStdout()
		if !resetConfirmed && !confirm(cmd.InOrStdin(), out, "This deletes income, categories and every expense. Continue? [y/N] ") {
			fmt.Fprintln(out, "reset cancelled")
			return nil
		}
		if err := deps.Store.ResetAll(); err != nil {
			return err
		}
		fmt.Fprintln(out, "all data cleared")
		return nil
	}),
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirmed, "yes", "y", false, "skip the confirmation prompt")
}
