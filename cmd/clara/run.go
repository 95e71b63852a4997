package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run <rules.json> <facts.json>",
	Short: "insert facts, fire rules, print every registered query's results",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("starting session")
		rb, err := buildDemoRulebase()
		if err != nil {
			return fmt.Errorf("build rulebase: %w", err)
		}
		in, err := loadFacts(args[1])
		if err != nil {
			return err
		}
		sess, sessionID := newAuditedSession(rb)
		logger.Info("session opened", zap.String("session_id", sessionID))
		sess = sess.Insert(in...)
		sess, err = sess.FireRules()
		if err != nil {
			return fmt.Errorf("fire rules: %w", err)
		}
		return printQueryResults(sess)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
