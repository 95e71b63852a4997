package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// QueryNode is a terminal node exposing its accumulated tokens for
// ad-hoc lookup by parameter bindings (spec §4.9). Unlike a production
// node, a query node never fires an RHS; Session.Query reads this node's
// memory directly.
type QueryNode struct {
	id         NodeID
	name       string
	paramKeys  []string
}

func (n *QueryNode) ID() NodeID         { return n.id }
func (n *QueryNode) JoinKeys() []string { return n.paramKeys }
func (n *QueryNode) Children() []NodeID { return nil }

func (n *QueryNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for _, t := range tokens {
		b := t.Bindings.KeyFor(n.paramKeys)
		mem.left[b] = append(mem.left[b], t)
	}
}

func (n *QueryNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for _, t := range tokens {
		b := t.Bindings.KeyFor(n.paramKeys)
		mem.left[b] = removeTokens(mem.left[b], []facts.Token{t})
	}
}

// Run returns one Binding per stored token whose projection onto the
// query's declared parameters matches params exactly.
func (n *QueryNode) Run(p *Persistent, params facts.Binding) []facts.Binding {
	mem, ok := p.nodeMem[n.id]
	if !ok {
		return nil
	}
	key := params.KeyFor(n.paramKeys)
	toks := mem.left[key]
	out := make([]facts.Binding, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Bindings.Clone())
	}
	return out
}
