package facts

import "testing"

type Temperature struct {
	Value    int
	Location string
}

func TestBindingMergeConsistent(t *testing.T) {
	a := Binding{"?loc": "MCI"}
	b := Binding{"?t": 10}

	merged, ok := a.Merge(b)
	if !ok {
		t.Fatal("expected merge of disjoint keys to succeed")
	}
	if merged["?loc"] != "MCI" || merged["?t"] != 10 {
		t.Errorf("unexpected merged binding: %v", merged)
	}
}

func TestBindingMergeConflict(t *testing.T) {
	a := Binding{"?t": 10}
	b := Binding{"?t": 20}

	if _, ok := a.Merge(b); ok {
		t.Fatal("expected merge to fail on conflicting shared variable")
	}
}

func TestBindingMergeSameValueOk(t *testing.T) {
	a := Binding{"?t": 10}
	b := Binding{"?t": 10}

	merged, ok := a.Merge(b)
	if !ok {
		t.Fatal("expected merge with equal shared value to succeed")
	}
	if merged["?t"] != 10 {
		t.Errorf("unexpected value: %v", merged["?t"])
	}
}

func TestCanonKeyStableAcrossEqualFacts(t *testing.T) {
	a := Temperature{Value: 10, Location: "MCI"}
	b := Temperature{Value: 10, Location: "MCI"}

	if CanonKey(a) != CanonKey(b) {
		t.Errorf("expected equal structs to produce equal canonical keys")
	}
}

func TestCanonKeyDistinguishesDifferentFacts(t *testing.T) {
	a := Temperature{Value: 10, Location: "MCI"}
	b := Temperature{Value: 20, Location: "MCI"}

	if CanonKey(a) == CanonKey(b) {
		t.Errorf("expected different facts to produce different canonical keys")
	}
}

func TestTokenExtend(t *testing.T) {
	root := Root()
	fact := Temperature{Value: 10, Location: "MCI"}

	tok, ok := root.Extend(fact, 1, Binding{"?t": 10})
	if !ok {
		t.Fatal("expected extend to succeed from root")
	}
	if len(tok.Matches) != 1 || tok.Matches[0].NodeID != 1 {
		t.Errorf("unexpected matches: %v", tok.Matches)
	}
	if tok.Bindings["?t"] != 10 {
		t.Errorf("unexpected bindings: %v", tok.Bindings)
	}
}

func TestTokenKeyStable(t *testing.T) {
	fact := Temperature{Value: 10, Location: "MCI"}
	t1, _ := Root().Extend(fact, 1, Binding{"?t": 10})
	t2, _ := Root().Extend(fact, 1, Binding{"?t": 10})

	if t1.Key() != t2.Key() {
		t.Errorf("expected structurally identical tokens to share a key")
	}
}

func TestBindingKeyForOrdersByVarList(t *testing.T) {
	b := Binding{"?b": 2, "?a": 1}
	k1 := b.KeyFor([]string{"?a", "?b"})
	k2 := b.KeyFor([]string{"?a", "?b"})
	if k1 != k2 {
		t.Error("expected KeyFor to be deterministic for the same var order")
	}
}
