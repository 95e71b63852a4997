package clara

import "github.com/kahunamoore/clara-rules/internal/dnf"

type dnfCondition = dnf.Condition

// Re-exported condition-building types (spec §3, §6.3).
type (
	ConstraintFunc  = dnf.ConstraintFunc
	TestFunc        = dnf.TestFunc
	JoinFilterFunc  = dnf.JoinFilterFunc
	AccumulatorSpec = dnf.AccumulatorSpec
)

// Type constructs a type condition matching facts tagged factType by
// every constraint (spec §3).
func Type(factType string, constraints ...ConstraintFunc) *Condition {
	return dnf.Type(factType, constraints...)
}

// Not constructs a negation condition: matches iff inner has no matches.
// joinVars names the variables the negation is scoped by.
func Not(inner *Condition, joinVars ...string) *Condition {
	return dnf.Negation(inner, joinVars...)
}

// TestCond constructs a test condition from a pure predicate over
// bindings (spec §3, §4.5).
func TestCond(pred TestFunc) *Condition {
	return dnf.TestCond(pred)
}

// Accumulate wraps inner in an accumulator condition (spec §4.6, §4.7).
// joinFilter may be nil; joinVars names the variables the accumulation
// groups by.
func Accumulate(spec AccumulatorSpec, inner *Condition, joinFilter JoinFilterFunc, joinVars ...string) *Condition {
	return dnf.Accumulate(spec, inner, joinFilter, joinVars...)
}

// And composes children conjunctively.
func And(children ...*Condition) *Condition { return dnf.And(children...) }

// Or composes children disjunctively.
func Or(children ...*Condition) *Condition { return dnf.Or(children...) }
