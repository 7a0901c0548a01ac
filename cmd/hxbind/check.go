package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/hxbind"
)

var checkCmd = &cobra.Command{
	Use:   "check PAGE...",
	Short: "Report marker attributes that would fail or fall back at run time",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := cfg.Options(nil, nil)

	total := 0
	for _, path := range args {
		doc, err := readPage(cmd, path)
		if err != nil {
			return err
		}
		for _, p := range hxbind.Lint(doc, opts...) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, p)
			total++
		}
	}
	if total > 0 {
		return fmt.Errorf("%d problem(s) found", total)
	}
	return nil
}
