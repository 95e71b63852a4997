package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// RootJoinNode is the beta root: a join node whose left side is the
// constant empty token (spec §4.2). One instance sits between each alpha
// node that serves as some rule's first condition and that rule's
// downstream beta chain; instances are shared across rules whose first
// condition compiles to the same alpha node (the builder memoizes this,
// see network_builder.go).
type RootJoinNode struct {
	id       NodeID
	children []NodeID
}

func (n *RootJoinNode) ID() NodeID         { return n.id }
func (n *RootJoinNode) JoinKeys() []string { return nil }
func (n *RootJoinNode) Children() []NodeID { return n.children }

// RightActivate emits one token per incoming element, each carrying that
// element's fact and bindings and nothing else.
func (n *RootJoinNode) RightActivate(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	toks := make([]facts.Token, 0, len(elements))
	for _, e := range elements {
		tok, ok := facts.Root().Extend(e.Fact, int(n.id), e.Bindings)
		if !ok {
			continue
		}
		mem.rootRight[facts.CanonKey(e.Fact)] = tok
		toks = append(toks, tok)
	}
	if len(toks) > 0 {
		tx.dispatchLeft(n.children, toks)
	}
}

// RightRetract removes the corresponding elements from right-memory and
// retracts the downstream tokens they produced.
func (n *RootJoinNode) RightRetract(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	var toks []facts.Token
	for _, e := range elements {
		key := facts.CanonKey(e.Fact)
		if tok, ok := mem.rootRight[key]; ok {
			toks = append(toks, tok)
			delete(mem.rootRight, key)
		}
	}
	if len(toks) > 0 {
		tx.dispatchLeftRetract(n.children, toks)
	}
}

// Left-activate and left-retract are intentionally unimplemented: the
// root's left input is the constant empty token, so it has nothing to do
// on either call. RootJoinNode therefore does not satisfy LeftActivator
// or LeftRetractor, and dispatch silently skips it.
