package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// JoinNode performs a standard equi-join between its left (token) memory
// and right (element) memory, indexed by joinKeys (spec §4.3).
type JoinNode struct {
	id       NodeID
	joinKeys []string
	children []NodeID
}

func (n *JoinNode) ID() NodeID         { return n.id }
func (n *JoinNode) JoinKeys() []string { return n.joinKeys }
func (n *JoinNode) Children() []NodeID { return n.children }

func (n *JoinNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = append(mem.left[b], toks...)
		right := mem.right[b]
		var out []facts.Token
		for _, t := range toks {
			for _, e := range right {
				if ct, ok := t.Extend(e.Fact, int(n.id), e.Bindings); ok {
					out = append(out, ct)
				}
			}
		}
		if len(out) > 0 {
			tx.dispatchLeft(n.children, out)
		}
	}
}

func (n *JoinNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = removeTokens(mem.left[b], toks)
		right := mem.right[b]
		var out []facts.Token
		for _, t := range toks {
			for _, e := range right {
				if ct, ok := t.Extend(e.Fact, int(n.id), e.Bindings); ok {
					out = append(out, ct)
				}
			}
		}
		if len(out) > 0 {
			tx.dispatchLeftRetract(n.children, out)
		}
	}
}

func (n *JoinNode) RightActivate(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for b, elems := range groupElementsByKey(elements, n.joinKeys) {
		mem.right[b] = append(mem.right[b], elems...)
		left := mem.left[b]
		var out []facts.Token
		for _, e := range elems {
			for _, t := range left {
				if ct, ok := t.Extend(e.Fact, int(n.id), e.Bindings); ok {
					out = append(out, ct)
				}
			}
		}
		if len(out) > 0 {
			tx.dispatchLeft(n.children, out)
		}
	}
}

func (n *JoinNode) RightRetract(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for b, elems := range groupElementsByKey(elements, n.joinKeys) {
		mem.right[b] = removeElements(mem.right[b], elems)
		left := mem.left[b]
		var out []facts.Token
		for _, e := range elems {
			for _, t := range left {
				if ct, ok := t.Extend(e.Fact, int(n.id), e.Bindings); ok {
					out = append(out, ct)
				}
			}
		}
		if len(out) > 0 {
			tx.dispatchLeftRetract(n.children, out)
		}
	}
}
