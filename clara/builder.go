package clara

import (
	"github.com/kahunamoore/clara-rules/internal/facts"
	"github.com/kahunamoore/clara-rules/internal/rete"
)

// Options holds session-construction options (spec §6.4). A zero Options
// yields the documented defaults: fact type derived from the Go type
// name, no ancestors, salience-descending activation groups, no
// listeners, env left nil.
type Options struct {
	// FactTypeFn tags a fact with its type for alpha routing (spec
	// §4.1). Nil defaults to the fact's Go type name.
	FactTypeFn func(facts.Fact) string

	// AncestorsFn expands a type tag to the tags alpha nodes should also
	// match against (spec §4.1). Nil means no ancestors.
	AncestorsFn func(typeTag string) []string

	// ActivationGroupFn and ActivationGroupLess together define firing
	// order (spec §5). Nil defaults to grouping and ordering by rule
	// salience, descending.
	ActivationGroupFn   GroupFunc
	ActivationGroupLess GroupLess

	Listeners []Listener
	Env       Env

	// DisableCache, when true, forces every condition to compile its own
	// dedicated alpha/root-join nodes even if an identical condition
	// value is reused across rules (spec §6.4's cache=false). Named so
	// the zero value — the common case — leaves compile-side memoization
	// on, matching "A zero Options yields the documented defaults" above.
	DisableCache bool
}

// Rulebase is a compiled set of productions and queries, ready to mint
// sessions from. Building it once and calling NewSession repeatedly
// avoids recompiling the network per session.
type Rulebase struct {
	network *rete.Network
}

// NewRulebase compiles productions and queries into a Rulebase using
// opts' FactTypeFn/AncestorsFn/DisableCache (the only options that affect
// network construction; the rest are applied per-session in NewSession).
func NewRulebase(productions []Production, queries []QueryDef, opts Options) (*Rulebase, error) {
	b := rete.NewBuilder(opts.FactTypeFn, opts.AncestorsFn, !opts.DisableCache)
	for _, p := range productions {
		if err := b.AddProduction(p); err != nil {
			return nil, err
		}
	}
	for _, q := range queries {
		if err := b.AddQuery(q); err != nil {
			return nil, err
		}
	}
	return &Rulebase{network: b.Build()}, nil
}

// NewSession mints a fresh, empty Session from rb using opts' runtime
// options (env, listeners, activation policy).
func (rb *Rulebase) NewSession(opts Options) Session {
	return newSession(rb.network, opts)
}
