package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// NegationNode propagates a left token downstream exactly while its
// right memory, restricted to the token's join-key group, is empty
// (spec §4.4): "no matching fact blocks this token."
type NegationNode struct {
	id       NodeID
	joinKeys []string
	children []NodeID
}

func (n *NegationNode) ID() NodeID         { return n.id }
func (n *NegationNode) JoinKeys() []string { return n.joinKeys }
func (n *NegationNode) Children() []NodeID { return n.children }

func (n *NegationNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = append(mem.left[b], toks...)
		if len(mem.right[b]) == 0 {
			tx.dispatchLeft(n.children, toks)
		}
	}
}

func (n *NegationNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = removeTokens(mem.left[b], toks)
		if len(mem.right[b]) == 0 {
			tx.dispatchLeftRetract(n.children, toks)
		}
	}
}

func (n *NegationNode) RightActivate(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for b, elems := range groupElementsByKey(elements, n.joinKeys) {
		mem.right[b] = append(mem.right[b], elems...)
		if blocked := mem.left[b]; len(blocked) > 0 {
			tx.dispatchLeftRetract(n.children, blocked)
		}
	}
}

func (n *NegationNode) RightRetract(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for b, elems := range groupElementsByKey(elements, n.joinKeys) {
		mem.right[b] = removeElements(mem.right[b], elems)
		if len(mem.right[b]) == 0 {
			if unblocked := mem.left[b]; len(unblocked) > 0 {
				tx.dispatchLeft(n.children, unblocked)
			}
		}
	}
}
