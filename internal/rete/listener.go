package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// Listener observes session activity for tracing and auditing (spec
// §6.5). Every method is optional to care about; a no-op listener costs
// nothing beyond the dispatch. The element-level callbacks
// (LeftActivate/LeftRetract/RightActivate/RightRetract/AddAccumReduced)
// fire once per node per dispatch batch, so a listener that only wants
// rule-level events should ignore them rather than assume they are rare.
type Listener interface {
	InsertFacts(newFacts []facts.Fact)
	InsertFactsLogical(ruleName string, token facts.Token, newFacts []facts.Fact)
	RetractFacts(oldFacts []facts.Fact)

	LeftActivate(nodeID NodeID, tokens []facts.Token)
	LeftRetract(nodeID NodeID, tokens []facts.Token)
	RightActivate(nodeID NodeID, elements []facts.Element)
	RightRetract(nodeID NodeID, elements []facts.Element)
	AddAccumReduced(nodeID NodeID, bindings facts.Binding, value interface{})

	AddActivation(ruleName string, token facts.Token)
	RemoveActivation(ruleName string, token facts.Token)
	RuleFired(ruleName string, token facts.Token)
}

// PersistentListener is a Listener that participates in the same
// transient/persistent split as working memory (spec §6.5's "a
// persistent listener exposes to-transient/to-persistent mirroring
// memory"): a listener that accumulates its own state across calls (a
// trace buffer, a running event count) hands back an independent working
// copy when a session mints a Transient, and folds that copy back into a
// frozen snapshot when the Transient freezes — the same shape as
// Persistent.ToTransient/Transient.ToPersistent. A Listener that holds no
// state of its own (the common case) need not implement this.
type PersistentListener interface {
	Listener
	ToTransient() Listener
	ToPersistent() Listener
}

// adaptListenersToTransient converts every listener that participates in
// the persistent/transient split into its working copy, leaving stateless
// listeners untouched.
func adaptListenersToTransient(listeners []Listener) []Listener {
	if listeners == nil {
		return nil
	}
	out := make([]Listener, len(listeners))
	for i, l := range listeners {
		if pl, ok := l.(PersistentListener); ok {
			out[i] = pl.ToTransient()
			continue
		}
		out[i] = l
	}
	return out
}

// adaptListenersToPersistent is adaptListenersToTransient's inverse,
// called when a Transient freezes back into a Persistent.
func adaptListenersToPersistent(listeners []Listener) []Listener {
	if listeners == nil {
		return nil
	}
	out := make([]Listener, len(listeners))
	for i, l := range listeners {
		if pl, ok := l.(PersistentListener); ok {
			out[i] = pl.ToPersistent()
			continue
		}
		out[i] = l
	}
	return out
}

func (t *Transient) notifyInsert(fs []facts.Fact) {
	for _, l := range t.listeners {
		l.InsertFacts(fs)
	}
}

func (t *Transient) notifyInsertLogical(rule string, token facts.Token, fs []facts.Fact) {
	for _, l := range t.listeners {
		l.InsertFactsLogical(rule, token, fs)
	}
}

func (t *Transient) notifyRetract(fs []facts.Fact) {
	for _, l := range t.listeners {
		l.RetractFacts(fs)
	}
}

func (t *Transient) notifyLeftActivate(nodeID NodeID, tokens []facts.Token) {
	for _, l := range t.listeners {
		l.LeftActivate(nodeID, tokens)
	}
}

func (t *Transient) notifyLeftRetract(nodeID NodeID, tokens []facts.Token) {
	for _, l := range t.listeners {
		l.LeftRetract(nodeID, tokens)
	}
}

func (t *Transient) notifyRightActivate(nodeID NodeID, elements []facts.Element) {
	for _, l := range t.listeners {
		l.RightActivate(nodeID, elements)
	}
}

func (t *Transient) notifyRightRetract(nodeID NodeID, elements []facts.Element) {
	for _, l := range t.listeners {
		l.RightRetract(nodeID, elements)
	}
}

func (t *Transient) notifyAddAccumReduced(nodeID NodeID, bindings facts.Binding, value interface{}) {
	for _, l := range t.listeners {
		l.AddAccumReduced(nodeID, bindings, value)
	}
}

func (t *Transient) notifyAddActivation(rule string, token facts.Token) {
	for _, l := range t.listeners {
		l.AddActivation(rule, token)
	}
}

func (t *Transient) notifyRemoveActivation(rule string, token facts.Token) {
	for _, l := range t.listeners {
		l.RemoveActivation(rule, token)
	}
}

func (t *Transient) notifyRuleFired(rule string, token facts.Token) {
	for _, l := range t.listeners {
		l.RuleFired(rule, token)
	}
}
