package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kahunamoore/clara-rules/clara"
	"github.com/kahunamoore/clara-rules/internal/logging"
)

// defaultOptions returns the runtime options every session minted by this
// CLI uses: the zero Options. It does not set FactTypeFn/AncestorsFn
// here — those are network-construction options already baked into
// buildDemoRulebase's NewRulebase call. The uuid session id for audit
// correlation (spec §11.4) is assigned by newAuditedSession, not here.
func defaultOptions() clara.Options {
	return clara.Options{}
}

// newAuditedSession mints a session, logging its creation under a fresh
// session id the way the teacher's own session lifecycle logging does
// (internal/logging.AuditWithSession).
func newAuditedSession(rb *clara.Rulebase) (clara.Session, string) {
	sessionID := uuid.NewString()
	audit := logging.AuditWithSession(sessionID)
	audit.SessionLifecycle(logging.AuditSessionOpen, 0)
	return rb.NewSession(defaultOptions()), sessionID
}

func printQueryResults(sess clara.Session) error {
	for _, name := range demoRuleNames {
		results, err := sess.Query(name, nil)
		if err != nil {
			// not every registered name is a query (mark-cold is a rule)
			continue
		}
		fmt.Printf("%s: %d result(s)\n", name, len(results))
		for _, r := range results {
			fmt.Printf("  %v\n", r)
		}
	}
	return nil
}
