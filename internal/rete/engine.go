package rete

import (
	"github.com/kahunamoore/clara-rules/internal/engineerr"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// Insert adds fs to working memory. A fact already present (by value
// equality, spec §3) has its multiplicity count incremented rather than
// being routed through the network a second time; only a fact's first
// appearance (count 0→1) is propagated. This is what gives the engine
// its confluence property for duplicate insertion (spec §8): inserting
// the same fact twice and retracting it once leaves one copy present.
func (t *Transient) Insert(fs []facts.Fact) {
	if len(fs) == 0 {
		return
	}
	var newlyPresent []facts.Fact
	for _, f := range fs {
		k := facts.CanonKey(f)
		t.factCount[k]++
		t.factIndex[k] = f
		if t.factCount[k] == 1 {
			newlyPresent = append(newlyPresent, f)
		}
	}
	t.notifyInsert(fs)
	t.routeInsert(newlyPresent)
}

// insertLogical is Insert plus TMS support bookkeeping: the inserted
// facts are tied to (nodeID, token) and will be retracted automatically
// if that token is ever retracted (spec §4.11).
func (t *Transient) insertLogical(nodeID NodeID, token facts.Token, fs []facts.Fact) {
	if len(fs) == 0 {
		return
	}
	t.Insert(fs)
	t.Supports(nodeID, token, fs)
	t.notifyInsertLogical(t.currentRule, token, fs)
}

// Retract removes fs from working memory. A fact present more than once
// only loses one copy per Retract call; it is actually removed from the
// network (and any TMS support tied to it cascades) only when its
// multiplicity count reaches zero.
func (t *Transient) Retract(fs []facts.Fact) {
	if len(fs) == 0 {
		return
	}
	var newlyAbsent []facts.Fact
	for _, f := range fs {
		k := facts.CanonKey(f)
		if t.factCount[k] <= 0 {
			continue
		}
		t.factCount[k]--
		if t.factCount[k] == 0 {
			newlyAbsent = append(newlyAbsent, t.factIndex[k])
			delete(t.factCount, k)
			delete(t.factIndex, k)
		}
	}
	t.notifyRetract(fs)
	t.routeRetract(newlyAbsent)
}

func (t *Transient) routeInsert(fs []facts.Fact) {
	if len(fs) == 0 {
		return
	}
	byAlpha := map[*AlphaNode][]facts.Fact{}
	var order []*AlphaNode
	for _, f := range fs {
		for _, a := range t.network.routeFact(f) {
			if _, seen := byAlpha[a]; !seen {
				order = append(order, a)
			}
			byAlpha[a] = append(byAlpha[a], f)
		}
	}
	for _, a := range order {
		a.insert(t, byAlpha[a])
	}
}

func (t *Transient) routeRetract(fs []facts.Fact) {
	if len(fs) == 0 {
		return
	}
	byAlpha := map[*AlphaNode][]facts.Fact{}
	var order []*AlphaNode
	for _, f := range fs {
		for _, a := range t.network.routeFact(f) {
			if _, seen := byAlpha[a]; !seen {
				order = append(order, a)
			}
			byAlpha[a] = append(byAlpha[a], f)
		}
	}
	for _, a := range order {
		a.retract(t, byAlpha[a])
	}
}

// FireRules drains the activation queue: within each priority group,
// activations fire in FIFO order; a fired rule's own inserts/retracts
// may enqueue new activations (including into a higher-priority group,
// which takes over immediately), and the loop continues until every
// group is empty (spec §5).
func (t *Transient) FireRules() error {
	for {
		g, ok := t.activation.currentGroup()
		if !ok {
			return nil
		}
		act, ok := t.activation.popFront(g)
		if !ok {
			continue
		}
		node, ok := t.network.node(act.NodeID).(*ProductionNode)
		if !ok {
			continue
		}
		if err := node.fire(t, act.Token); err != nil {
			return err
		}
		t.notifyRuleFired(act.RuleName, act.Token)
	}
}

// RunQuery evaluates the named query against p, aggregating results
// across every DNF-variant instance the query compiled to (spec §4.9).
func RunQuery(network *Network, p *Persistent, name string, params facts.Binding) ([]facts.Binding, error) {
	instances, ok := network.Query(name)
	if !ok {
		return nil, engineerr.NewInvalidQuery("unknown query %q", name)
	}
	var out []facts.Binding
	for _, qn := range instances {
		out = append(out, qn.Run(p, params)...)
	}
	return out, nil
}
