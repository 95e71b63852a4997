package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var benchSessions int

var benchCmd = &cobra.Command{
	Use:   "bench <facts.json>",
	Short: "run N independent sessions concurrently over the same facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadFacts(args[0])
		if err != nil {
			return err
		}
		rb, err := buildDemoRulebase()
		if err != nil {
			return fmt.Errorf("build rulebase: %w", err)
		}

		start := time.Now()
		g, _ := errgroup.WithContext(context.Background())
		results := make([]int, benchSessions)
		for i := 0; i < benchSessions; i++ {
			i := i
			g.Go(func() error {
				sess, _ := newAuditedSession(rb)
				sess = sess.Insert(in...)
				sess, err := sess.FireRules()
				if err != nil {
					return fmt.Errorf("session %d: %w", i, err)
				}
				total := 0
				for _, name := range demoRuleNames {
					rs, err := sess.Query(name, nil)
					if err != nil {
						continue
					}
					total += len(rs)
				}
				results[i] = total
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("bench complete", zap.Int("sessions", benchSessions), zap.Duration("elapsed", time.Since(start)))
		for i, total := range results {
			fmt.Printf("session %d: %d total result(s) across queries\n", i, total)
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchSessions, "sessions", "n", 4, "number of concurrent sessions to run")
	rootCmd.AddCommand(benchCmd)
}
