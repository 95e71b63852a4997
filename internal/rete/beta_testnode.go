package rete

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// TestNode filters tokens by a pure predicate over bindings (spec §4.5).
// It has no right input: a test condition introduces no candidate fact.
type TestNode struct {
	id        NodeID
	predicate dnf.TestFunc
	children  []NodeID
}

func (n *TestNode) ID() NodeID         { return n.id }
func (n *TestNode) JoinKeys() []string { return nil }
func (n *TestNode) Children() []NodeID { return n.children }

func (n *TestNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	var out []facts.Token
	for _, t := range tokens {
		if n.predicate(tx.env, t.Bindings) {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		tx.dispatchLeft(n.children, out)
	}
}

// LeftRetract forwards every retracted token unconditionally: a token
// that failed the predicate was never propagated, so retracting it here
// is a no-op downstream — dispatch is idempotent to spurious retractions
// by construction (spec §4.5, §9).
func (n *TestNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	tx.dispatchLeftRetract(n.children, tokens)
}
