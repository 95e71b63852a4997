package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kahunamoore/clara-rules/clara"
	"github.com/kahunamoore/clara-rules/internal/tracinglistener"
)

var traceCmd = &cobra.Command{
	Use:   "trace <rules.json> <facts.json>",
	Short: "like run, but print a styled trace of every network event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rb, err := buildDemoRulebase()
		if err != nil {
			return fmt.Errorf("build rulebase: %w", err)
		}
		in, err := loadFacts(args[1])
		if err != nil {
			return err
		}
		opts := defaultOptions()
		opts.Listeners = []clara.Listener{tracinglistener.New(os.Stdout)}
		sess := rb.NewSession(opts)
		sess = sess.Insert(in...)
		sess, err = sess.FireRules()
		if err != nil {
			return fmt.Errorf("fire rules: %w", err)
		}
		return printQueryResults(sess)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
}
