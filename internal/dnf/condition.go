// Package dnf defines the condition AST (spec §3's Condition variants) and
// the disjunctive-normal-form rewrite that turns one rule's LHS into one or
// more flat production variants before network construction (spec §4.10).
package dnf

import "github.com/kahunamoore/clara-rules/internal/facts"

// Kind tags which Condition variant a node represents.
type Kind int

const (
	// KindType is a type condition: a fact-type tag plus zero or more
	// constraints.
	KindType Kind = iota
	// KindNegation is a subcondition required to have no matches.
	KindNegation
	// KindTest is a pure predicate over bindings, no candidate fact.
	KindTest
	// KindAccumulator is an aggregation over an inner condition.
	KindAccumulator
	// KindAnd and KindOr are boolean composition used only before
	// normalization; the normalized tree contains neither.
	KindAnd
	KindOr
	// KindNot is the boolean "not" composition operator; like KindAnd and
	// KindOr it appears only in the pre-normalization tree.
	KindNot
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindNegation:
		return "negation"
	case KindTest:
		return "test"
	case KindAccumulator:
		return "accumulator"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindNot:
		return "not"
	default:
		return "unknown"
	}
}

// ConstraintFunc evaluates one constraint of a type condition against a
// candidate fact and the bindings accumulated so far. It returns the
// bindings the constraint introduces (merged against the running
// bindings by the alpha node) and whether the fact satisfies it.
type ConstraintFunc func(env facts.Env, fact facts.Fact, bindings facts.Binding) (facts.Binding, bool)

// TestFunc is a pure predicate over bindings used by KindTest conditions.
type TestFunc func(env facts.Env, bindings facts.Binding) bool

// JoinFilterFunc filters an accumulator's candidate facts by the left
// token's bindings (spec §4.7); nil means the accumulator has no join
// filter and can pre-reduce (spec §4.6).
type JoinFilterFunc func(env facts.Env, tokenBindings facts.Binding, fact facts.Fact, elementBindings facts.Binding) bool

// AccumulatorSpec is the caller-supplied accumulator descriptor (spec
// §6.3): Extract pulls the value of interest out of a matching fact,
// Reduce folds one item into an accumulator value, Combine merges two
// partial accumulator values (defaults to Reduce — both share the
// (acc, item) shape, so an accumulator whose Reduce treats its second
// argument opaquely composes as its own combiner), Retract removes one
// item's contribution (defaults to a no-op), and ConvertReturn maps the
// internal accumulator value to what rules downstream actually see
// (defaults to identity).
type AccumulatorSpec struct {
	InitialValue  interface{}
	Extract       func(fact facts.Fact, bindings facts.Binding) interface{}
	Reduce        func(acc interface{}, item interface{}) interface{}
	Combine       func(acc1, acc2 interface{}) interface{}
	Retract       func(acc interface{}, item interface{}) interface{}
	ConvertReturn func(acc interface{}) interface{}

	// ResultBinding is the variable name the converted result binds to,
	// e.g. "?count". Empty means the accumulator's value is not itself
	// bound to a variable (unusual but legal).
	ResultBinding string
}

// normalized returns a copy of spec with every optional function filled
// in with its documented default.
func (spec AccumulatorSpec) normalized() AccumulatorSpec {
	out := spec
	if out.Extract == nil {
		out.Extract = func(fact facts.Fact, _ facts.Binding) interface{} { return fact }
	}
	if out.Combine == nil {
		out.Combine = out.Reduce
	}
	if out.Retract == nil {
		out.Retract = func(acc interface{}, _ interface{}) interface{} { return acc }
	}
	if out.ConvertReturn == nil {
		out.ConvertReturn = func(acc interface{}) interface{} { return acc }
	}
	return out
}

// Condition is a tagged-variant node in the LHS condition tree. Which
// fields are meaningful depends on Kind; see the Kind constants.
type Condition struct {
	Kind Kind

	// KindType
	FactType    string
	Constraints []ConstraintFunc

	// KindNegation, KindAccumulator: the wrapped subcondition.
	Inner *Condition

	// KindTest
	Predicate TestFunc

	// KindAccumulator
	Accumulator *AccumulatorSpec
	JoinFilter  JoinFilterFunc

	// KindAnd, KindOr, KindNot
	Children []*Condition

	// JoinVars names the already-bound variables this condition's beta
	// node should index its memory by (network_builder.go wires this
	// straight into the compiled node's join keys). For a plain type
	// condition this is an indexing optimization only — Token.Extend's
	// Merge check catches any over-broad bucketing regardless. For a
	// negation or accumulator condition it is load-bearing: those nodes
	// gate structurally per bucket, with no downstream merge to correct
	// an overly coarse grouping, so JoinVars must name every variable
	// the rule's semantics require matching on.
	JoinVars []string
}

// Type constructs a type condition: match facts tagged factType by every
// constraint.
func Type(factType string, constraints ...ConstraintFunc) *Condition {
	return &Condition{Kind: KindType, FactType: factType, Constraints: constraints}
}

// Negation wraps inner in a negation condition: matches iff inner has no
// matches. joinVars names the variables the negation is scoped by (e.g.
// "no WindSpeed fact for this same station" needs joinVars ["?station"];
// omitting it makes the negation global across all bindings).
func Negation(inner *Condition, joinVars ...string) *Condition {
	return &Condition{Kind: KindNegation, Inner: inner, JoinVars: joinVars}
}

// TestCond constructs a test condition from a pure predicate over bindings.
func TestCond(pred TestFunc) *Condition {
	return &Condition{Kind: KindTest, Predicate: pred}
}

// Accumulate wraps inner in an accumulator condition. joinFilter may be
// nil (spec §4.6); a non-nil joinFilter selects the filtered variant
// (spec §4.7). joinVars names the variables the accumulation groups by.
func Accumulate(spec AccumulatorSpec, inner *Condition, joinFilter JoinFilterFunc, joinVars ...string) *Condition {
	norm := spec.normalized()
	return &Condition{Kind: KindAccumulator, Inner: inner, Accumulator: &norm, JoinFilter: joinFilter, JoinVars: joinVars}
}

// And composes children conjunctively.
func And(children ...*Condition) *Condition {
	return &Condition{Kind: KindAnd, Children: children}
}

// Or composes children disjunctively.
func Or(children ...*Condition) *Condition {
	return &Condition{Kind: KindOr, Children: children}
}

// Not composes the boolean negation of inner. Not is a normalization-time
// operator only; Normalize eliminates it, either canceling it against an
// existing KindNegation, pushing it across And/Or via De Morgan, or
// wrapping a leaf condition in KindNegation.
func Not(inner *Condition) *Condition {
	return &Condition{Kind: KindNot, Children: []*Condition{inner}}
}
