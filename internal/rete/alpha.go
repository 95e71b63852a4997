package rete

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// AlphaNode is a single-condition predicate node routed by fact type and
// ancestor (spec §4.1). It has no left side: it receives raw facts
// directly from Insert/Retract, not tokens from an upstream node, so it
// does not implement LeftActivator/LeftRetractor.
type AlphaNode struct {
	id          NodeID
	factType    string
	constraints []dnf.ConstraintFunc
	children    []NodeID
}

func (a *AlphaNode) ID() NodeID          { return a.id }
func (a *AlphaNode) JoinKeys() []string  { return nil }
func (a *AlphaNode) Children() []NodeID  { return a.children }

// evaluate runs every constraint against fact in order, threading the
// bindings each constraint introduces into the next. It returns the
// accumulated bindings and whether every constraint was satisfied.
func (a *AlphaNode) evaluate(env facts.Env, fact facts.Fact) (facts.Binding, bool) {
	bindings := facts.Binding{}
	for _, c := range a.constraints {
		next, ok := c(env, fact, bindings)
		if !ok {
			return nil, false
		}
		merged, ok := bindings.Merge(next)
		if !ok {
			return nil, false
		}
		bindings = merged
	}
	return bindings, true
}

// insert evaluates newFacts against this node's constraints and forwards
// the matching elements to its children via right-activate.
func (a *AlphaNode) insert(tx *Transient, newFacts []facts.Fact) {
	var elems []facts.Element
	for _, f := range newFacts {
		if bindings, ok := a.evaluate(tx.env, f); ok {
			elems = append(elems, facts.Element{Fact: f, Bindings: bindings})
		}
	}
	if len(elems) == 0 {
		return
	}
	tx.dispatchRight(a.children, elems)
}

// retract re-evaluates oldFacts (a fact being retracted must have
// matched when it was inserted, but re-evaluating here is what lets the
// node compute the same bindings it originally propagated without having
// to remember them itself) and forwards matching elements to its
// children via right-retract.
func (a *AlphaNode) retract(tx *Transient, oldFacts []facts.Fact) {
	var elems []facts.Element
	for _, f := range oldFacts {
		if bindings, ok := a.evaluate(tx.env, f); ok {
			elems = append(elems, facts.Element{Fact: f, Bindings: bindings})
		}
	}
	if len(elems) == 0 {
		return
	}
	tx.dispatchRightRetract(a.children, elems)
}
