package rete

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// AccumNode is the no-join-filter accumulator (spec §4.6): every
// candidate element can be pre-reduced as soon as it arrives, independent
// of which left tokens currently exist, because nothing about the
// accumulation depends on the joining token's bindings beyond the join
// key itself.
type AccumNode struct {
	id       NodeID
	joinKeys []string
	spec     *dnf.AccumulatorSpec
	children []NodeID
}

func (n *AccumNode) ID() NodeID         { return n.id }
func (n *AccumNode) JoinKeys() []string { return n.joinKeys }
func (n *AccumNode) Children() []NodeID { return n.children }

func resultExtra(group facts.Binding, resultBinding string, converted interface{}) facts.Binding {
	return group.WithResult(resultBinding, converted)
}

func (n *AccumNode) emitFor(tx *Transient, toks []facts.Token, converted interface{}, group facts.Binding, retract bool) {
	extra := resultExtra(group, n.spec.ResultBinding, converted)
	var out []facts.Token
	for _, t := range toks {
		if ct, ok := t.Extend(converted, int(n.id), extra); ok {
			out = append(out, ct)
		}
	}
	if len(out) == 0 {
		return
	}
	if retract {
		tx.dispatchLeftRetract(n.children, out)
	} else {
		tx.dispatchLeft(n.children, out)
	}
}

// LeftActivate emits, for every join-key group already reduced under b,
// a token carrying that group's current value; if no group has been
// reduced yet and the token itself binds every declared join key, it
// emits the accumulator's initial value instead (spec §4.6).
func (n *AccumNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = append(mem.left[b], toks...)
		cells := mem.accumByB(b)
		if len(cells) > 0 {
			for _, cell := range cells {
				n.emitFor(tx, toks, n.spec.ConvertReturn(cell.value), cell.group, false)
			}
		} else if n.spec.InitialValue != nil {
			var bound []facts.Token
			for _, t := range toks {
				bindsAll := true
				for _, k := range n.joinKeys {
					if _, ok := t.Bindings[k]; !ok {
						bindsAll = false
						break
					}
				}
				if bindsAll {
					bound = append(bound, t)
				}
			}
			n.emitFor(tx, bound, n.spec.ConvertReturn(n.spec.InitialValue), facts.Binding{}, false)
		}
	}
}

func (n *AccumNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for b, toks := range groupTokensByKey(tokens, n.joinKeys) {
		mem.left[b] = removeTokens(mem.left[b], toks)
		cells := mem.accumByB(b)
		if len(cells) > 0 {
			for _, cell := range cells {
				n.emitFor(tx, toks, n.spec.ConvertReturn(cell.value), cell.group, true)
			}
		} else if n.spec.InitialValue != nil {
			n.emitFor(tx, toks, n.spec.ConvertReturn(n.spec.InitialValue), facts.Binding{}, true)
		}
	}
}

// RightActivate pre-reduces the incoming elements per full-binding group,
// combines each group's batch value into its running total, and
// re-emits the affected groups' tokens downstream (spec §4.6).
func (n *AccumNode) RightActivate(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	type groupBatch struct {
		bindings facts.Binding
		elems    []facts.Element
	}
	batches := map[string]*groupBatch{}
	for _, e := range elements {
		g := e.Bindings.FullKey()
		gb, ok := batches[g]
		if !ok {
			gb = &groupBatch{bindings: e.Bindings}
			batches[g] = gb
		}
		gb.elems = append(gb.elems, e)
	}
	for g, gb := range batches {
		b := gb.bindings.KeyFor(n.joinKeys)
		batchVal := n.spec.InitialValue
		for _, e := range gb.elems {
			batchVal = n.spec.Reduce(batchVal, n.spec.Extract(e.Fact, e.Bindings))
		}
		cells := mem.accumByB(b)
		left := mem.left[b]
		if cell, exists := cells[g]; exists {
			n.emitFor(tx, left, n.spec.ConvertReturn(cell.value), cell.group, true)
			cell.value = n.spec.Combine(cell.value, batchVal)
			tx.notifyAddAccumReduced(n.id, cell.group, cell.value)
			n.emitFor(tx, left, n.spec.ConvertReturn(cell.value), cell.group, false)
			continue
		}
		if n.spec.InitialValue != nil {
			n.emitFor(tx, left, n.spec.ConvertReturn(n.spec.InitialValue), facts.Binding{}, true)
		}
		cells[g] = &accumCell{value: batchVal, group: gb.bindings}
		tx.notifyAddAccumReduced(n.id, gb.bindings, batchVal)
		n.emitFor(tx, left, n.spec.ConvertReturn(batchVal), gb.bindings, false)
	}
}

// RightRetract recomputes each retracted element's group via the
// accumulator's retract-fn, retracts the stale token and emits a fresh
// one unless the group's value became nil (spec §4.6, §9).
func (n *AccumNode) RightRetract(tx *Transient, elements []facts.Element) {
	mem := tx.mem(n.id)
	for _, e := range elements {
		b := e.Bindings.KeyFor(n.joinKeys)
		g := e.Bindings.FullKey()
		cells := mem.accumByB(b)
		cell, ok := cells[g]
		if !ok {
			continue
		}
		left := mem.left[b]
		n.emitFor(tx, left, n.spec.ConvertReturn(cell.value), cell.group, true)
		newVal := n.spec.Retract(cell.value, n.spec.Extract(e.Fact, e.Bindings))
		if newVal == nil {
			delete(cells, g)
			continue
		}
		cell.value = newVal
		n.emitFor(tx, left, n.spec.ConvertReturn(cell.value), cell.group, false)
	}
}
