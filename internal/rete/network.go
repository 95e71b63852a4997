// Package rete implements the alpha/beta network, working memory,
// scheduler and truth maintenance described in spec §4, §5 and §9. The
// four concerns share one package because node behavior (this file and
// alpha.go/beta_*.go) and working-memory state (memory.go) reference each
// other directly: a node's activate method needs the transaction's
// per-node memory, and the transaction's dispatch methods need to look
// nodes up by id to call their behavior. Splitting them into separate
// packages would force an import cycle; spec §9 lists this as an
// implementation detail left to the core, not a contract callers observe.
package rete

import (
	"reflect"
	"sync"

	"github.com/kahunamoore/clara-rules/internal/facts"
)

// NodeID identifies a node in a Network's arena. IDs are stable for the
// lifetime of a Network and are never reused, so a Token's Matches can
// reference a node by id without holding a pointer into mutable topology.
type NodeID int

// Node is the common shape every alpha and beta node satisfies. Behavior
// beyond identity and topology — LeftActivate, RightActivate, and their
// retraction counterparts — is expressed as optional interfaces a node
// may or may not implement, since (for example) a root-join node ignores
// left-activate entirely and a test node has no right side at all.
type Node interface {
	ID() NodeID
	JoinKeys() []string
	Children() []NodeID
}

// LeftActivator receives tokens from a node's left (token) input.
type LeftActivator interface {
	LeftActivate(tx *Transient, tokens []facts.Token)
}

// LeftRetractor receives token retractions from a node's left input.
type LeftRetractor interface {
	LeftRetract(tx *Transient, tokens []facts.Token)
}

// RightActivator receives elements from a node's right (fact) input.
type RightActivator interface {
	RightActivate(tx *Transient, elements []facts.Element)
}

// RightRetractor receives element retractions from a node's right input.
type RightRetractor interface {
	RightRetract(tx *Transient, elements []facts.Element)
}

// Network is the immutable compiled topology: the alpha nodes, the beta
// DAG reachable from them, and the registered queries. A Network may be
// shared by many concurrently running sessions — each session owns its
// own Memory exclusively (spec §5) but the topology that memory is
// indexed by never changes once built.
type Network struct {
	nodes   map[NodeID]Node
	alphas  []*AlphaNode
	queries map[string][]*QueryNode

	typeFn      func(fact facts.Fact) string
	ancestorsFn func(typeTag string) []string

	// routeCacheMu guards routeCache: spec §5 lets many sessions run
	// concurrently on one shared Network (cmd/clara's bench subcommand and
	// clara/concurrency_test.go exercise exactly this), and routeFact is called from every session's
	// Insert/Retract path, so the lazily-populated cache below is
	// written from multiple goroutines at once.
	routeCacheMu sync.RWMutex
	routeCache   map[string][]*AlphaNode

	// syntheticRoot/syntheticRoots back Builder.syntheticRootNode: a
	// single shared root-join node used when a production or query's
	// first condition is a negation or accumulator (spec §8 scenario
	// 5/6: a rule can open with "no matches of X" and nothing else). It
	// must be seeded with one constant empty-bindings token when a
	// session is minted, since nothing ever right-activates it through
	// the alpha network otherwise.
	syntheticRoot  *RootJoinNode
	syntheticRoots []NodeID
}

// rootSeed is the constant fact used to seed a synthetic root-join node:
// any comparable zero-field value works, since only its presence (one
// emitted token) matters.
type rootSeed struct{}

// SyntheticRoots returns the root-join node ids that need seeding when a
// new session is minted (see Builder.syntheticRootNode).
func (n *Network) SyntheticRoots() []NodeID { return n.syntheticRoots }

// SeedSyntheticRoots right-activates every synthetic root-join node in tx
// with the constant root seed, so rules/queries whose LHS opens with a
// negation or accumulator see their implicit empty token immediately on a
// freshly minted session. Idempotent: a root whose right-memory already
// holds the seed is skipped, so calling this more than once on the same
// Transient is harmless.
func (n *Network) SeedSyntheticRoots(tx *Transient) {
	for _, id := range n.syntheticRoots {
		root, ok := n.node(id).(*RootJoinNode)
		if !ok {
			continue
		}
		if _, seeded := tx.mem(id).rootRight[facts.CanonKey(rootSeed{})]; seeded {
			continue
		}
		root.RightActivate(tx, []facts.Element{{Fact: rootSeed{}, Bindings: facts.Binding{}}})
	}
}

func newNetwork(typeFn func(facts.Fact) string, ancestorsFn func(string) []string) *Network {
	if typeFn == nil {
		typeFn = defaultTypeTag
	}
	if ancestorsFn == nil {
		ancestorsFn = func(string) []string { return nil }
	}
	return &Network{
		nodes:       map[NodeID]Node{},
		queries:     map[string][]*QueryNode{},
		typeFn:      typeFn,
		ancestorsFn: ancestorsFn,
		routeCache:  map[string][]*AlphaNode{},
	}
}

func (n *Network) node(id NodeID) Node { return n.nodes[id] }

// routeFact returns every alpha node registered for fact's type tag or any
// of its ancestors (spec §4.1's type/ancestor routing), memoized per type
// tag since the routing set is static once the network and its ancestor
// function are fixed.
func (n *Network) routeFact(fact facts.Fact) []*AlphaNode {
	tag := n.typeFn(fact)

	n.routeCacheMu.RLock()
	cached, ok := n.routeCache[tag]
	n.routeCacheMu.RUnlock()
	if ok {
		return cached
	}

	seen := map[NodeID]bool{}
	var out []*AlphaNode
	add := func(tag string) {
		for _, a := range n.alphas {
			if a.factType == tag && !seen[a.id] {
				seen[a.id] = true
				out = append(out, a)
			}
		}
	}
	add(tag)
	for _, anc := range n.ancestorsFn(tag) {
		add(anc)
	}

	n.routeCacheMu.Lock()
	n.routeCache[tag] = out
	n.routeCacheMu.Unlock()
	return out
}

// Query looks up the registered query node instances for a fully
// qualified query name (more than one if the query's LHS normalized to
// several DNF variants).
func (n *Network) Query(name string) ([]*QueryNode, bool) {
	q, ok := n.queries[name]
	return q, ok
}

// defaultTypeTag derives a fact's type tag from its Go type name when the
// caller does not supply a type-fn (spec §9's fact-type-fn option).
func defaultTypeTag(fact facts.Fact) string {
	t := reflect.TypeOf(fact)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
