// Package clara is the public surface of the rule engine: Session (the
// insert/retract/fire-rules/query API, spec §6.1), RHS helpers (spec
// §6.2) and the types a rule author needs to build a rulebase
// (Condition, AccumulatorSpec, Production, Query) without reaching into
// internal packages.
package clara

import (
	"github.com/kahunamoore/clara-rules/internal/engineerr"
	"github.com/kahunamoore/clara-rules/internal/facts"
	"github.com/kahunamoore/clara-rules/internal/rete"
)

// Re-exported type aliases give callers a single import for the whole
// authoring surface.
type (
	Fact        = facts.Fact
	Binding     = facts.Binding
	Env         = facts.Env
	Condition   = dnfCondition
	Production  = rete.Production
	QueryDef    = rete.QueryDef
	RHS         = rete.RHS
	RHSContext  = rete.RHSContext
	Listener    = rete.Listener
	GroupFunc   = rete.GroupFunc
	GroupLess   = rete.GroupLess
)

// Session is an immutable handle wrapping working memory and the
// compiled network (spec §2, §5). Every mutating method returns a new
// Session; the receiver is left untouched, so a Session can be safely
// shared and fired from many goroutines as long as each goroutine works
// from its own returned snapshot.
type Session struct {
	network    *rete.Network
	persistent *rete.Persistent
	env        facts.Env
	listeners  []rete.Listener
	groupFn    rete.GroupFunc
	groupLess  rete.GroupLess
}

// newSession wraps a freshly built network and empty memory, seeding any
// synthetic root-join nodes the network needs for rules/queries that open
// with a negation or accumulator condition (see Network.SeedSyntheticRoots).
func newSession(network *rete.Network, opts Options) Session {
	s := Session{
		network:    network,
		persistent: rete.NewPersistent(),
		env:        opts.Env,
		listeners:  opts.Listeners,
		groupFn:    opts.ActivationGroupFn,
		groupLess:  opts.ActivationGroupLess,
	}
	tx := s.transient()
	network.SeedSyntheticRoots(tx)
	return s.freeze(tx)
}

func (s Session) transient() *rete.Transient {
	tx := s.persistent.ToTransient(s.network, s.env, s.listeners)
	tx.SetActivationPolicy(s.groupFn, s.groupLess)
	return tx
}

// Insert adds facts to working memory and alpha-activates them,
// returning a new Session reflecting the change (spec §6.1).
func (s Session) Insert(facts ...Fact) Session {
	tx := s.transient()
	tx.Insert(facts)
	return s.freeze(tx)
}

// Retract removes fact instances equal to the arguments. Retracting a
// fact that is not present is a no-op, not an error (spec §6.1).
func (s Session) Retract(facts ...Fact) Session {
	tx := s.transient()
	tx.Retract(facts)
	return s.freeze(tx)
}

// FireRules drains the activation queue, running every pending
// production's RHS in priority-group, then-FIFO order, until the queue
// is empty (spec §5, §6.1). It returns the resulting Session and the
// first RHSException encountered, if any.
func (s Session) FireRules() (Session, error) {
	tx := s.transient()
	if err := tx.FireRules(); err != nil {
		return s.freeze(tx), err
	}
	return s.freeze(tx), nil
}

func (s Session) freeze(tx *rete.Transient) Session {
	out := s
	out.persistent = tx.ToPersistent()
	return out
}

// Query runs the named query (its fully qualified name) against the
// session's current memory, returning one binding map per match (spec
// §6.1). An unknown name fails with an invalid-query EngineError.
func (s Session) Query(name string, params Binding) ([]Binding, error) {
	if params == nil {
		params = Binding{}
	}
	return rete.RunQuery(s.network, s.persistent, name, params)
}

// Components exposes the session's rulebase and memory handles for
// introspection (spec §6.1) — nothing here is meant to be mutated
// directly; use Insert/Retract/FireRules for that.
type Components struct {
	Network    *rete.Network
	Memory     *rete.Persistent
	Listeners  []rete.Listener
	Env        facts.Env
}

// Components returns s's introspection handle.
func (s Session) Components() Components {
	return Components{Network: s.network, Memory: s.persistent, Listeners: s.listeners, Env: s.env}
}

// Kind re-exports engineerr.Kind so callers can classify errors without
// importing an internal package.
type Kind = engineerr.Kind

const (
	InvalidRule             = engineerr.InvalidRule
	InvalidQuery            = engineerr.InvalidQuery
	InvalidAccumulatorUsage = engineerr.InvalidAccumulatorUsage
	RHSException            = engineerr.RHSException
)

// KindOf reports the Kind of err if it wraps an engine error.
func KindOf(err error) (Kind, bool) {
	return engineerr.KindOf(err)
}
