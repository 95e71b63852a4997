package rete

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// AccumFilterNode is the join-filtered accumulator (spec §4.7): the
// JoinFilter predicate depends on the specific left token, so candidates
// cannot be pre-reduced independent of which token is asking — memory
// holds the raw candidate list per (B, G) and every activation recomputes
// the fold against the tokens it concerns.
type AccumFilterNode struct {
	id       NodeID
	joinKeys []string
	spec     *dnf.AccumulatorSpec
	filter   dnf.JoinFilterFunc
	children []NodeID
}

func (n *AccumFilterNode) ID() NodeID         { return n.id }
func (n *AccumFilterNode) JoinKeys() []string { return n.joinKeys }
func (n *AccumFilterNode) Children() []NodeID { return n.children }

func (n *AccumFilterNode) doAccumulate(env facts.Env, token facts.Token, candidates []facts.Element) interface{} {
	val := n.spec.InitialValue
	for _, e := range candidates {
		if n.filter(env, token.Bindings, e.Fact, e.Bindings) {
			val = n.spec.Reduce(val, n.spec.Extract(e.Fact, e.Bindings))
		}
	}
	return val
}

func (n *AccumFilterNode) emit(tx *Transient, token facts.Token, group facts.Binding, value interface{}, retract bool) {
	converted := n.spec.ConvertReturn(value)
	extra := resultExtra(group, n.spec.ResultBinding, converted)
	ct, ok := token.Extend(converted, int(n.id), extra)
	if !ok {
		return
	}
	if retract {
		tx.dispatchLeftRetract(n.children, []facts.Token{ct})
	} else {
		tx.dispatchLeft(n.children, []facts.Token{ct})
	}
}

func (n *AccumFilterNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = append(mem.left[b], toks...)
		groups := mem.candidatesByB(b)
		for _, t := range toks {
			if len(groups) == 0 {
				if n.spec.InitialValue != nil {
					n.emit(tx, t, facts.Binding{}, n.spec.InitialValue, false)
				}
				continue
			}
			for g, candidates := range groups {
				group := groupBindingsOf(candidates)
				_ = g
				n.emit(tx, t, group, n.doAccumulate(tx.env, t, candidates), false)
			}
		}
	}
}

func (n *AccumFilterNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = removeTokens(mem.left[b], toks)
		groups := mem.candidatesByB(b)
		for _, t := range toks {
			if len(groups) == 0 {
				if n.spec.InitialValue != nil {
					n.emit(tx, t, facts.Binding{}, n.spec.InitialValue, true)
				}
				continue
			}
			for _, candidates := range groups {
				group := groupBindingsOf(candidates)
				n.emit(tx, t, group, n.doAccumulate(tx.env, t, candidates), true)
			}
		}
	}
}

func (n *AccumFilterNode) RightActivate(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for _, e := range elements {
		b := e.Bindings.KeyFor(n.joinKeys)
		g := e.Bindings.FullKey()
		groups := mem.candidatesByB(b)
		before := append([]facts.Element(nil), groups[g]...)
		left := mem.left[b]
		for _, t := range left {
			n.emit(tx, t, e.Bindings, n.doAccumulate(tx.env, t, before), true)
		}
		groups[g] = append(groups[g], e)
		after := groups[g]
		for _, t := range left {
			val := n.doAccumulate(tx.env, t, after)
			tx.notifyAddAccumReduced(n.id, e.Bindings, val)
			n.emit(tx, t, e.Bindings, val, false)
		}
	}
}

func (n *AccumFilterNode) RightRetract(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for _, e := range elements {
		b := e.Bindings.KeyFor(n.joinKeys)
		g := e.Bindings.FullKey()
		groups := mem.candidatesByB(b)
		before := groups[g]
		if len(before) == 0 {
			continue
		}
		left := mem.left[b]
		for _, t := range left {
			n.emit(tx, t, e.Bindings, n.doAccumulate(tx.env, t, before), true)
		}
		after := removeOneElement(before, e.Fact)
		if len(after) == 0 {
			delete(groups, g)
		} else {
			groups[g] = after
		}
		for _, t := range left {
			val := n.doAccumulate(tx.env, t, after)
			if val == nil {
				continue
			}
			n.emit(tx, t, e.Bindings, val, false)
		}
	}
}

func groupBindingsOf(elems []facts.Element) facts.Binding {
	if len(elems) == 0 {
		return facts.Binding{}
	}
	return elems[0].Bindings
}
