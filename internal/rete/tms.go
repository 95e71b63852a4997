package rete

import "github.com/kahunamoore/clara-rules/internal/facts"

// supportKey names the (production node, supporting token) pair a set of
// logically-inserted facts depends on (spec §4.11).
func supportKey(nodeID NodeID, token facts.Token) string {
	return token.Key() + "\x1d" + facts.CanonKey(int(nodeID))
}

// Supports records that the facts produced by insert! under the given
// production node and supporting token now depend on that token staying
// in the network. Calling Supports again for the same (node, token) pair
// appends rather than replaces, matching insert-all!'s "may be called
// more than once per activation" behavior.
func (t *Transient) Supports(nodeID NodeID, token facts.Token, produced []facts.Fact) {
	k := supportKey(nodeID, token)
	t.support[k] = append(t.support[k], produced...)
}

// RetractSupport removes every fact whose sole support was (nodeID,
// token), retracting them (and, recursively, anything logically
// supported only by them) from the working memory. This is invoked when
// the supporting token itself is retracted — either because the fact it
// matched was retracted, or because an upstream negation/accumulator
// state change removed it (spec §4.11).
func (t *Transient) RetractSupport(nodeID NodeID, token facts.Token) {
	k := supportKey(nodeID, token)
	produced, ok := t.support[k]
	if !ok {
		return
	}
	delete(t.support, k)
	if len(produced) > 0 {
		t.Retract(produced)
	}
}
