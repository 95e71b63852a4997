// Command clara is a demo CLI for the rule engine: construct a session
// from the built-in demo rulebase, insert facts from a file, fire rules
// and print query results (spec §11.2). Grounded on the teacher's own
// cmd/nerd command-tree layout: one file per subcommand plus a root
// command wiring persistent flags and zap logger init
// (cmd/nerd/main.go's rootCmd/PersistentPreRunE pattern).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kahunamoore/clara-rules/internal/logging"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clara",
	Short: "a forward-chaining production rule engine demo CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		ws, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine workspace: %w", err)
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not initialize engine logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
