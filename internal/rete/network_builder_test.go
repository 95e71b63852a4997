package rete

import (
	"testing"

	"github.com/kahunamoore/clara-rules/internal/dnf"
)

// TestBuilderCacheSharesNodesForIdenticalCondition verifies spec §6.4's
// cache=true default: reusing the same *dnf.Condition value across two
// rules shares one compiled alpha node and one root-join node instead of
// compiling a dedicated pair for each rule.
func TestBuilderCacheSharesNodesForIdenticalCondition(t *testing.T) {
	b := NewBuilder(nil, nil, true)
	cond := dnf.Type("Temperature")

	a1 := b.alphaFor(cond)
	a2 := b.alphaFor(cond)
	if a1 != a2 {
		t.Fatalf("expected the same alpha node for a reused condition with caching on")
	}

	r1 := b.rootJoinFor(a1)
	r2 := b.rootJoinFor(a2)
	if r1 != r2 {
		t.Fatalf("expected the same root-join node for a reused alpha with caching on")
	}
}

// TestBuilderDisableCacheCompilesDedicatedNodes verifies spec §6.4's
// cache=false: an Options.DisableCache session forces every condition
// lookup to mint a fresh node even for the identical *dnf.Condition
// value.
func TestBuilderDisableCacheCompilesDedicatedNodes(t *testing.T) {
	b := NewBuilder(nil, nil, false)
	cond := dnf.Type("Temperature")

	a1 := b.alphaFor(cond)
	a2 := b.alphaFor(cond)
	if a1 == a2 {
		t.Fatalf("expected distinct alpha nodes for a reused condition with caching off")
	}

	r1 := b.rootJoinFor(a1)
	r2 := b.rootJoinFor(a1)
	if r1 == r2 {
		t.Fatalf("expected distinct root-join nodes per lookup with caching off")
	}
}
