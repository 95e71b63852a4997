package rete

import (
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// accumCell holds one join-key/full-binding group's running accumulator
// value (spec §4.6), keyed by the group's own bindings so a downstream
// token can be reconstructed without re-deriving G from scratch.
type accumCell struct {
	value interface{}
	group facts.Binding
}

// nodeMemory is the per-node working-memory state a beta node reads and
// mutates through its Transient handle. Which fields a node kind actually
// uses depends on the kind; unused fields stay at their zero value.
type nodeMemory struct {
	left  map[string][]facts.Token
	right map[string][]facts.Element

	// rootRight is RootJoinNode's right memory, keyed by fact CanonKey
	// rather than by join key (the root has none).
	rootRight map[string]facts.Token

	// accum is the non-filtered accumulator's reduced state: join key ->
	// full-binding group key -> cell (spec §4.6).
	accum map[string]map[string]*accumCell

	// accumCandidates is the join-filtered accumulator's raw candidate
	// list: join key -> full-binding group key -> elements (spec §4.7).
	accumCandidates map[string]map[string][]facts.Element

	// fired tracks, for a production node, which token keys have already
	// run their RHS without an intervening retraction (spec §4.8, §8).
	fired map[string]bool
}

func newNodeMemory() *nodeMemory {
	return &nodeMemory{
		left:            map[string][]facts.Token{},
		right:           map[string][]facts.Element{},
		rootRight:       map[string]facts.Token{},
		accum:           map[string]map[string]*accumCell{},
		accumCandidates: map[string]map[string][]facts.Element{},
		fired:           map[string]bool{},
	}
}

func (m *nodeMemory) accumByB(b string) map[string]*accumCell {
	g, ok := m.accum[b]
	if !ok {
		g = map[string]*accumCell{}
		m.accum[b] = g
	}
	return g
}

func (m *nodeMemory) candidatesByB(b string) map[string][]facts.Element {
	g, ok := m.accumCandidates[b]
	if !ok {
		g = map[string][]facts.Element{}
		m.accumCandidates[b] = g
	}
	return g
}

func (m *nodeMemory) clone() *nodeMemory {
	out := newNodeMemory()
	for k, v := range m.left {
		out.left[k] = append([]facts.Token(nil), v...)
	}
	for k, v := range m.right {
		out.right[k] = append([]facts.Element(nil), v...)
	}
	for k, v := range m.rootRight {
		out.rootRight[k] = v
	}
	for b, groups := range m.accum {
		og := map[string]*accumCell{}
		for g, cell := range groups {
			c := *cell
			og[g] = &c
		}
		out.accum[b] = og
	}
	for b, groups := range m.accumCandidates {
		og := map[string][]facts.Element{}
		for g, elems := range groups {
			og[g] = append([]facts.Element(nil), elems...)
		}
		out.accumCandidates[b] = og
	}
	for k, v := range m.fired {
		out.fired[k] = v
	}
	return out
}

// groupTokensByKey partitions tokens by their projection onto joinKeys.
func groupTokensByKey(tokens []facts.Token, joinKeys []string) map[string][]facts.Token {
	out := map[string][]facts.Token{}
	for _, t := range tokens {
		b := t.Bindings.KeyFor(joinKeys)
		out[b] = append(out[b], t)
	}
	return out
}

// groupElementsByKey partitions elements by their projection onto joinKeys.
func groupElementsByKey(elements []facts.Element, joinKeys []string) map[string][]facts.Element {
	out := map[string][]facts.Element{}
	for _, e := range elements {
		b := e.Bindings.KeyFor(joinKeys)
		out[b] = append(out[b], e)
	}
	return out
}

func removeTokens(existing, toRemove []facts.Token) []facts.Token {
	if len(toRemove) == 0 {
		return existing
	}
	dead := make(map[string]int, len(toRemove))
	for _, t := range toRemove {
		dead[t.Key()]++
	}
	out := existing[:0:0]
	for _, t := range existing {
		k := t.Key()
		if dead[k] > 0 {
			dead[k]--
			continue
		}
		out = append(out, t)
	}
	return out
}

func elementKey(e facts.Element) string {
	return facts.CanonKey(e.Fact) + "\x1e" + e.Bindings.FullKey()
}

func removeElements(existing, toRemove []facts.Element) []facts.Element {
	if len(toRemove) == 0 {
		return existing
	}
	dead := make(map[string]int, len(toRemove))
	for _, e := range toRemove {
		dead[elementKey(e)]++
	}
	out := existing[:0:0]
	for _, e := range existing {
		k := elementKey(e)
		if dead[k] > 0 {
			dead[k]--
			continue
		}
		out = append(out, e)
	}
	return out
}

// removeOneElement removes the first occurrence of target from existing
// by CanonKey(fact), leaving duplicate facts with distinct bindings
// otherwise untouched (used by the filtered-accumulator right-retract
// path, spec §4.7, which removes "one occurrence" per retracted fact).
func removeOneElement(existing []facts.Element, target facts.Fact) []facts.Element {
	targetKey := facts.CanonKey(target)
	for i, e := range existing {
		if facts.CanonKey(e.Fact) == targetKey {
			out := make([]facts.Element, 0, len(existing)-1)
			out = append(out, existing[:i]...)
			out = append(out, existing[i+1:]...)
			return out
		}
	}
	return existing
}
