package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// Persistent is an immutable (by convention) working-memory snapshot: the
// frozen result of one session call. Sessions never mutate a Persistent
// directly; every public operation clones it into a Transient, mutates
// that, and freezes the result back (spec §5, §9).
type Persistent struct {
	nodeMem    map[NodeID]*nodeMemory
	activation *schedulerState
	support    map[string][]facts.Fact
	factCount  map[string]int
	factIndex  map[string]facts.Fact

	// listeners holds the listeners of the last Transient this snapshot
	// was produced from, each PersistentListener in its frozen form and
	// every other listener as it was; nil until a freeze with listeners.
	// When non-nil, ToTransient uses it in place of the listeners the
	// caller passes; when nil, it uses the caller's.
	listeners []Listener
}

// NewPersistent returns the empty working memory for a freshly built
// Network.
func NewPersistent() *Persistent {
	return &Persistent{
		nodeMem:    map[NodeID]*nodeMemory{},
		activation: newSchedulerState(),
		support:    map[string][]facts.Fact{},
		factCount:  map[string]int{},
		factIndex:  map[string]facts.Fact{},
	}
}

// Transient is the exclusive mutable builder a single session call
// mutates. It shares no state with the Persistent it was cloned from;
// ToPersistent freezes it back into a fresh, independent snapshot.
type Transient struct {
	network *Network
	env     facts.Env

	nodeMem    map[NodeID]*nodeMemory
	activation *schedulerState
	support    map[string][]facts.Fact
	factCount  map[string]int
	factIndex  map[string]facts.Fact

	listeners []Listener

	// currentRule is the rule name currently executing its RHS, used by
	// no-loop productions (spec §5) to suppress re-activation caused by
	// their own insert!/retract! calls.
	currentRule string
}

// ToTransient clones p into a fresh, exclusively-owned Transient bound to
// network. The clone is a deep copy: mutating the Transient never
// affects p or any other Transient cloned from it.
func (p *Persistent) ToTransient(network *Network, env facts.Env, listeners []Listener) *Transient {
	base := listeners
	if p.listeners != nil {
		base = p.listeners
	}
	t := &Transient{
		network:   network,
		env:       env,
		nodeMem:   map[NodeID]*nodeMemory{},
		support:   map[string][]facts.Fact{},
		factCount: map[string]int{},
		factIndex: map[string]facts.Fact{},
		listeners: adaptListenersToTransient(base),
	}
	for id, m := range p.nodeMem {
		t.nodeMem[id] = m.clone()
	}
	for k, v := range p.support {
		t.support[k] = append([]facts.Fact(nil), v...)
	}
	for k, v := range p.factCount {
		t.factCount[k] = v
	}
	for k, v := range p.factIndex {
		t.factIndex[k] = v
	}
	t.activation = p.activation.clone()
	return t
}

// ToPersistent freezes t into a new, independent Persistent snapshot.
func (t *Transient) ToPersistent() *Persistent {
	p := &Persistent{
		nodeMem:   map[NodeID]*nodeMemory{},
		support:   map[string][]facts.Fact{},
		factCount: map[string]int{},
		factIndex: map[string]facts.Fact{},
	}
	for id, m := range t.nodeMem {
		p.nodeMem[id] = m.clone()
	}
	for k, v := range t.support {
		p.support[k] = append([]facts.Fact(nil), v...)
	}
	for k, v := range t.factCount {
		p.factCount[k] = v
	}
	for k, v := range t.factIndex {
		p.factIndex[k] = v
	}
	p.activation = t.activation.clone()
	p.listeners = adaptListenersToPersistent(t.listeners)
	return p
}

func (t *Transient) mem(id NodeID) *nodeMemory {
	m, ok := t.nodeMem[id]
	if !ok {
		m = newNodeMemory()
		t.nodeMem[id] = m
	}
	return m
}

func (t *Transient) dispatchLeft(children []NodeID, tokens []facts.Token) {
	if len(tokens) == 0 {
		return
	}
	for _, id := range children {
		if la, ok := t.network.node(id).(LeftActivator); ok {
			t.notifyLeftActivate(id, tokens)
			la.LeftActivate(t, tokens)
		}
	}
}

func (t *Transient) dispatchLeftRetract(children []NodeID, tokens []facts.Token) {
	if len(tokens) == 0 {
		return
	}
	for _, id := range children {
		if lr, ok := t.network.node(id).(LeftRetractor); ok {
			t.notifyLeftRetract(id, tokens)
			lr.LeftRetract(t, tokens)
		}
	}
}

func (t *Transient) dispatchRight(children []NodeID, elements []facts.Element) {
	if len(elements) == 0 {
		return
	}
	for _, id := range children {
		if ra, ok := t.network.node(id).(RightActivator); ok {
			t.notifyRightActivate(id, elements)
			ra.RightActivate(t, elements)
		}
	}
}

func (t *Transient) dispatchRightRetract(children []NodeID, elements []facts.Element) {
	if len(elements) == 0 {
		return
	}
	for _, id := range children {
		if rr, ok := t.network.node(id).(RightRetractor); ok {
			t.notifyRightRetract(id, elements)
			rr.RightRetract(t, elements)
		}
	}
}
