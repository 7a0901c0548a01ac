package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/hxbind/lib/generator"
)

var dryRun bool

var generateCmd = &cobra.Command{
	Use:   "generate [packages]",
	Short: "Generate typed instruction accessors (*_hx.go)",
	Example: `  hxbind generate ./...                 Generate for all packages
  hxbind generate ./widgets             Generate for a specific package
  hxbind generate --dry-run ./...       Preview generation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := generator.New(generator.Options{DryRun: dryRun, Log: cmd.OutOrStdout()})
		return gen.Generate(patterns(args)...)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [packages]",
	Short: "Remove generated files (*_hx.go)",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := generator.New(generator.Options{DryRun: dryRun, Log: cmd.OutOrStdout()})
		return gen.Clean(patterns(args)...)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hxbind version %s\n", version)
	},
}

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without deleting files")
	rootCmd.AddCommand(generateCmd, cleanCmd, versionCmd)
}

func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}
