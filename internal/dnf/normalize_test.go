package dnf

import "testing"

func TestNormalizeSingleTypeConditionIsUnchanged(t *testing.T) {
	temp := Type("Temperature")
	variants := Normalize(temp)

	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatalf("expected exactly one disjunct with one leaf, got %v", variants)
	}
	if variants[0][0].Kind != KindType {
		t.Errorf("expected KindType, got %s", variants[0][0].Kind)
	}
}

func TestNormalizeAndFlattensNested(t *testing.T) {
	a := Type("A")
	b := Type("B")
	c := Type("C")
	tree := And(And(a, b), c)

	variants := Normalize(tree)
	if len(variants) != 1 {
		t.Fatalf("expected one disjunct, got %d", len(variants))
	}
	if len(variants[0]) != 3 {
		t.Fatalf("expected flattened 3-leaf conjunction, got %d leaves", len(variants[0]))
	}
}

func TestNormalizeOrProducesMultipleDisjuncts(t *testing.T) {
	a := Type("A")
	b := Type("B")
	tree := Or(a, b)

	variants := Normalize(tree)
	if len(variants) != 2 {
		t.Fatalf("expected two disjuncts, got %d", len(variants))
	}
}

func TestNormalizeDistributesAndOverOr(t *testing.T) {
	a := Type("A")
	b := Type("B")
	c := Type("C")
	tree := And(a, Or(b, c))

	variants := Normalize(tree)
	if len(variants) != 2 {
		t.Fatalf("expected 2 disjuncts from distribution, got %d", len(variants))
	}
	for _, v := range variants {
		if len(v) != 2 {
			t.Errorf("expected each disjunct to have 2 leaves, got %d", len(v))
		}
	}
}

// TestNormalizeNegatedOrOfTypes matches spec §8 scenario 6:
// [:not [:or [WindSpeed>30] [Temperature<20]]] normalizes to a single
// conjunction of two negation leaves.
func TestNormalizeNegatedOrOfTypes(t *testing.T) {
	wind := Type("WindSpeed")
	temp := Type("Temperature")
	tree := Not(Or(wind, temp))

	variants := Normalize(tree)
	if len(variants) != 1 {
		t.Fatalf("expected a single disjunct, got %d", len(variants))
	}
	leaves := variants[0]
	if len(leaves) != 2 {
		t.Fatalf("expected 2 negation leaves, got %d", len(leaves))
	}
	for _, l := range leaves {
		if l.Kind != KindNegation {
			t.Errorf("expected KindNegation, got %s", l.Kind)
		}
		if l.Inner.Kind != KindType {
			t.Errorf("expected negated leaf to wrap a KindType condition, got %s", l.Inner.Kind)
		}
	}
}

func TestNormalizeDoubleNegationCancels(t *testing.T) {
	temp := Type("Temperature")
	tree := Not(Not(temp))

	variants := Normalize(tree)
	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatalf("expected single leaf, got %v", variants)
	}
	if variants[0][0].Kind != KindType {
		t.Errorf("expected double negation to cancel back to KindType, got %s", variants[0][0].Kind)
	}
}

func TestNormalizeNotOfNegationCancelsToInner(t *testing.T) {
	temp := Type("Temperature")
	neg := Negation(temp)
	tree := Not(neg)

	variants := Normalize(tree)
	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatalf("expected single leaf, got %v", variants)
	}
	if variants[0][0].Kind != KindType {
		t.Errorf("expected not(negation(x)) to cancel to x, got %s", variants[0][0].Kind)
	}
}

func TestNormalizeNotOfAndAppliesDeMorgan(t *testing.T) {
	a := Type("A")
	b := Type("B")
	tree := Not(And(a, b))

	variants := Normalize(tree)
	if len(variants) != 2 {
		t.Fatalf("expected De Morgan to produce an Or (2 disjuncts), got %d", len(variants))
	}
	for _, v := range variants {
		if len(v) != 1 || v[0].Kind != KindNegation {
			t.Errorf("expected each disjunct to be a single negation leaf, got %v", v)
		}
	}
}

func TestAccumulatorSpecDefaultCombineFallsBackToReduce(t *testing.T) {
	called := false
	spec := AccumulatorSpec{
		InitialValue: 0,
		Reduce: func(acc interface{}, item interface{}) interface{} {
			called = true
			return acc.(int) + item.(int)
		},
	}
	cond := Accumulate(spec, Type("Temperature"), nil)

	got := cond.Accumulator.Combine(1, 2)
	if !called {
		t.Fatal("expected default Combine to delegate to Reduce")
	}
	if got.(int) != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestAccumulatorSpecDefaultExtractReturnsFactItself(t *testing.T) {
	spec := AccumulatorSpec{InitialValue: 0}
	cond := Accumulate(spec, Type("Temperature"), nil)

	got := cond.Accumulator.Extract("fact-value", nil)
	if got != "fact-value" {
		t.Errorf("expected identity extraction, got %v", got)
	}
}
