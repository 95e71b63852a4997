package rete

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/engineerr"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// Production is one compiled rule: a name, firing policy, LHS (in
// whatever boolean form the author wrote it — the builder normalizes to
// DNF itself) and RHS (spec §3, §6.2).
type Production struct {
	Name     string
	Salience int
	NoLoop   bool
	LHS      *dnf.Condition
	RHS      RHS
}

// QueryDef is one compiled query: a name, LHS and the set of variables
// callers may supply as lookup parameters (spec §4.9).
type QueryDef struct {
	Name   string
	LHS    *dnf.Condition
	Params []string
}

// Builder compiles a set of productions and queries into a Network,
// sharing alpha nodes and root-join nodes whenever the same *dnf.
// Condition value is reused across rules (network construction helpers,
// spec §9's 10% budget item — not a full macro/compiler surface, just
// enough sharing that reusing a condition object is rewarded).
type Builder struct {
	net    *Network
	nextID NodeID

	// cache gates alphaFor/rootJoinFor's memoization (spec §6.4's
	// cache=false session-construction option). When false, every
	// condition compiles its own dedicated alpha/root-join nodes even if
	// an identical *dnf.Condition value is reused across rules.
	cache bool

	alphaByCond map[*dnf.Condition]*AlphaNode
	rootJoinOf  map[*AlphaNode]*RootJoinNode
}

// NewBuilder starts a Builder for a network using typeFn to tag facts by
// type (nil defaults to the fact's Go type name), ancestorsFn to expand a
// type tag to its ancestor tags for routing (nil means no ancestors), and
// cache to control whether repeated *dnf.Condition values share a
// compiled alpha/root-join node (spec §6.4).
func NewBuilder(typeFn func(facts.Fact) string, ancestorsFn func(string) []string, cache bool) *Builder {
	return &Builder{
		net:         newNetwork(typeFn, ancestorsFn),
		cache:       cache,
		alphaByCond: map[*dnf.Condition]*AlphaNode{},
		rootJoinOf:  map[*AlphaNode]*RootJoinNode{},
	}
}

func (b *Builder) newID() NodeID {
	b.nextID++
	return b.nextID
}

func (b *Builder) alphaFor(cond *dnf.Condition) *AlphaNode {
	if b.cache {
		if a, ok := b.alphaByCond[cond]; ok {
			return a
		}
	}
	a := &AlphaNode{id: b.newID(), factType: cond.FactType, constraints: cond.Constraints}
	if b.cache {
		b.alphaByCond[cond] = a
	}
	b.net.alphas = append(b.net.alphas, a)
	b.net.nodes[a.id] = a
	return a
}

func (b *Builder) rootJoinFor(a *AlphaNode) *RootJoinNode {
	if b.cache {
		if r, ok := b.rootJoinOf[a]; ok {
			return r
		}
	}
	r := &RootJoinNode{id: b.newID()}
	if b.cache {
		b.rootJoinOf[a] = r
	}
	b.net.nodes[r.id] = r
	a.addChild(r.id)
	return r
}

// syntheticRootNode returns the network's single shared root-join node for
// rules/queries whose first condition is a negation or accumulator rather
// than a type condition (spec §8 scenario 5: "[:not [Temperature t<20]]"
// with nothing else on the LHS). Unlike rootJoinFor's nodes, nothing ever
// right-activates this one through the alpha network — Network.SyntheticRoots
// reports its id so newSession can seed it with one constant empty-bindings
// token when a session is minted.
func (b *Builder) syntheticRootNode() *RootJoinNode {
	if b.net.syntheticRoot != nil {
		return b.net.syntheticRoot
	}
	r := &RootJoinNode{id: b.newID()}
	b.net.nodes[r.id] = r
	b.net.syntheticRoot = r
	b.net.syntheticRoots = append(b.net.syntheticRoots, r.id)
	return r
}

// compileChain walks one flat (already-DNF-normalized) condition list and
// returns the node that the rule's terminal (production or query) should
// attach to as a child. A leading type condition gets the usual
// alpha/root-join treatment; a leading negation, test or accumulator
// condition instead attaches to the shared synthetic root (spec §8
// scenario 5/6: a rule may open with "no matches of X" and nothing else).
func (b *Builder) compileChain(ruleName string, conds []*dnf.Condition) (childAdder, error) {
	if len(conds) == 0 {
		return nil, engineerr.NewInvalidRule(ruleName, "production has no conditions")
	}
	var current childAdder
	rest := conds
	if conds[0].Kind == dnf.KindType {
		alpha := b.alphaFor(conds[0])
		current = b.rootJoinFor(alpha)
		rest = conds[1:]
	} else {
		current = b.syntheticRootNode()
	}

	for _, cond := range rest {
		switch cond.Kind {
		case dnf.KindType:
			a := b.alphaFor(cond)
			j := &JoinNode{id: b.newID(), joinKeys: cond.JoinVars}
			b.net.nodes[j.id] = j
			current.addChild(j.id)
			a.addChild(j.id)
			current = j

		case dnf.KindNegation:
			if cond.Inner == nil || cond.Inner.Kind != dnf.KindType {
				return nil, engineerr.NewInvalidRule(ruleName, "negation must wrap a type condition")
			}
			innerAlpha := b.alphaFor(cond.Inner)
			neg := &NegationNode{id: b.newID(), joinKeys: cond.JoinVars}
			b.net.nodes[neg.id] = neg
			current.addChild(neg.id)
			innerAlpha.addChild(neg.id)
			current = neg

		case dnf.KindTest:
			if cond.Predicate == nil {
				return nil, engineerr.NewInvalidRule(ruleName, "test condition has no predicate")
			}
			tn := &TestNode{id: b.newID(), predicate: cond.Predicate}
			b.net.nodes[tn.id] = tn
			current.addChild(tn.id)
			current = tn

		case dnf.KindAccumulator:
			if cond.Inner == nil || cond.Inner.Kind != dnf.KindType {
				return nil, engineerr.NewInvalidRule(ruleName, "accumulator must wrap a type condition")
			}
			if cond.Accumulator == nil {
				return nil, engineerr.NewInvalidAccumulatorUsage("accumulator condition missing its descriptor")
			}
			innerAlpha := b.alphaFor(cond.Inner)
			if cond.JoinFilter != nil {
				an := &AccumFilterNode{id: b.newID(), joinKeys: cond.JoinVars, spec: cond.Accumulator, filter: cond.JoinFilter}
				b.net.nodes[an.id] = an
				current.addChild(an.id)
				innerAlpha.addChild(an.id)
				current = an
			} else {
				an := &AccumNode{id: b.newID(), joinKeys: cond.JoinVars, spec: cond.Accumulator}
				b.net.nodes[an.id] = an
				current.addChild(an.id)
				innerAlpha.addChild(an.id)
				current = an
			}

		default:
			return nil, engineerr.NewInvalidRule(ruleName, "unexpected condition kind %s mid-chain", cond.Kind)
		}
	}
	return current, nil
}

// AddProduction normalizes p's LHS to DNF and compiles one production
// node per resulting variant, every variant sharing p's name, salience
// and RHS (an Or at the top of a rule's LHS compiles to several parallel
// beta-chains feeding the same production logic, spec §4.10).
func (b *Builder) AddProduction(p Production) error {
	variants := dnf.Normalize(p.LHS)
	for _, variant := range variants {
		parent, err := b.compileChain(p.Name, variant)
		if err != nil {
			return err
		}
		pn := &ProductionNode{id: b.newID(), ruleName: p.Name, salience: p.Salience, noLoop: p.NoLoop, rhs: p.RHS}
		b.net.nodes[pn.id] = pn
		parent.addChild(pn.id)
	}
	return nil
}

// AddQuery compiles q into one or more query node instances (one per DNF
// variant, same as AddProduction), registering each under q.Name.
func (b *Builder) AddQuery(q QueryDef) error {
	if _, exists := b.net.queries[q.Name]; exists {
		return engineerr.NewInvalidQuery("query %q already registered", q.Name)
	}
	variants := dnf.Normalize(q.LHS)
	var instances []*QueryNode
	for _, variant := range variants {
		parent, err := b.compileChain(q.Name, variant)
		if err != nil {
			return engineerr.NewInvalidQuery("query %q: %v", q.Name, err)
		}
		qn := &QueryNode{id: b.newID(), name: q.Name, paramKeys: q.Params}
		b.net.nodes[qn.id] = qn
		parent.addChild(qn.id)
		instances = append(instances, qn)
	}
	b.net.queries[q.Name] = instances
	return nil
}

// Build returns the compiled, immutable Network.
func (b *Builder) Build() *Network {
	return b.net
}
