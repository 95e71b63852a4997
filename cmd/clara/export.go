package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kahunamoore/clara-rules/internal/interop"
)

var exportCmd = &cobra.Command{
	Use:   "export <rules.json> <facts.json>",
	Short: "run the session, then dump working memory as Mangle atoms",
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
		sess, _ := newAuditedSession(rb)
		sess = sess.Insert(in...)
		sess, err = sess.FireRules()
		if err != nil {
			return fmt.Errorf("fire rules: %w", err)
		}

		// Re-derive the working set by re-querying every registered name,
		// since Components() exposes the compiled network/memory but not
		// a flat fact list directly (session memory is indexed per-node,
		// not stored as a flat fact set — spec §5/§9's per-node memory
		// model, not a flat working-memory table).
		var atoms []string
		for _, name := range demoRuleNames {
			results, err := sess.Query(name, nil)
			if err != nil {
				continue
			}
			for _, r := range results {
				rec := interop.Record{Predicate: name, Args: []interface{}{r}}
				atom, err := interop.FactToAtom(rec)
				if err != nil {
					return fmt.Errorf("export %s: %w", name, err)
				}
				atoms = append(atoms, fmt.Sprintf("%v", atom))
			}
		}
		for _, a := range atoms {
			fmt.Println(a)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
