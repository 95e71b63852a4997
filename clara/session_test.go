package clara

import (
	"testing"

	"github.com/kahunamoore/clara-rules/accumulators"
)

type Temperature struct {
	Value    int
	Location string
}

type WindSpeed struct {
	Value    int
	Location string
}

type Cold struct {
	Value int
}

func lt(value func(fact Fact) int, threshold int) ConstraintFunc {
	return func(_ Env, fact Fact, bindings Binding) (Binding, bool) {
		if value(fact) < threshold {
			return Binding{}, true
		}
		return nil, false
	}
}

func bindVar(name string, value func(fact Fact) interface{}) ConstraintFunc {
	return func(_ Env, fact Fact, _ Binding) (Binding, bool) {
		return Binding{name: value(fact)}, true
	}
}

// Scenario 1: single rule [Temperature t<20] => capture t.
func TestScenario1SingleRuleCapturesMatch(t *testing.T) {
	var fired bool
	var gotValue int
	rule := Production{
		Name: "low-temp",
		LHS:  Type("Temperature", lt(func(f Fact) int { return f.(Temperature).Value }, 20), bindVar("?t", func(f Fact) interface{} { return f.(Temperature).Value })),
		RHS: func(ctx *RHSContext) error {
			fired = true
			gotValue = ctx.Bindings()["?t"].(int)
			return nil
		},
	}

	rb, err := NewRulebase([]Production{rule}, nil, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})
	sess = sess.Insert(Temperature{10, "MCI"})
	sess, err = sess.FireRules()
	if err != nil {
		t.Fatalf("fire rules: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire")
	}
	if gotValue != 10 {
		t.Fatalf("expected captured value 10, got %v", gotValue)
	}
}

// Scenario 2: [Temperature t=?t][WindSpeed w=?t] => capture ?t.
func TestScenario2JoinAcrossTwoConditions(t *testing.T) {
	var gotValue int
	var fired bool
	rule := Production{
		Name: "matching-readings",
		LHS: And(
			Type("Temperature", bindVar("?t", func(f Fact) interface{} { return f.(Temperature).Value })),
			Type("WindSpeed", bindVar("?t", func(f Fact) interface{} { return f.(WindSpeed).Value })),
		),
		RHS: func(ctx *RHSContext) error {
			fired = true
			gotValue = ctx.Bindings()["?t"].(int)
			return nil
		},
	}
	rb, err := NewRulebase([]Production{rule}, nil, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})
	sess = sess.Insert(Temperature{10, "MCI"}, WindSpeed{10, "MCI"})
	sess, err = sess.FireRules()
	if err != nil {
		t.Fatalf("fire rules: %v", err)
	}
	if !fired {
		t.Fatal("expected rule to fire")
	}
	if gotValue != 10 {
		t.Fatalf("expected captured value 10, got %v", gotValue)
	}
}

// Scenario 3: accumulator (min :temperature) from Temperature.
func TestScenario3MinAccumulatorQuery(t *testing.T) {
	minSpec := accumulators.Min(func(fact Fact, _ Binding) interface{} {
		return fact.(Temperature).Value
	})
	minSpec.ResultBinding = "?result"
	query := QueryDef{
		Name:   "min-temp",
		Params: nil,
		LHS:    Accumulate(minSpec, Type("Temperature"), nil),
	}

	rb, err := NewRulebase(nil, []QueryDef{query}, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})
	sess = sess.Insert(Temperature{15, "MCI"}, Temperature{10, "MCI"}, Temperature{80, "MCI"})

	results, err := sess.Query("min-temp", nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
}

// Scenario 4: [Temperature t<20] => insert!(Cold t); query for Cold.
func TestScenario4LogicalInsertWithRetraction(t *testing.T) {
	rule := Production{
		Name: "mark-cold",
		LHS:  Type("Temperature", lt(func(f Fact) int { return f.(Temperature).Value }, 20), bindVar("?t", func(f Fact) interface{} { return f.(Temperature).Value })),
		RHS: func(ctx *RHSContext) error {
			ctx.Insert(Cold{ctx.Bindings()["?t"].(int)})
			return nil
		},
	}
	query := QueryDef{Name: "cold-readings", LHS: Type("Cold")}

	rb, err := NewRulebase([]Production{rule}, []QueryDef{query}, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})
	temp := Temperature{10, "MCI"}
	sess = sess.Insert(temp)
	sess, err = sess.FireRules()
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	results, err := sess.Query("cold-readings", nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one Cold result, got %d", len(results))
	}

	sess = sess.Retract(temp)
	sess, err = sess.FireRules()
	if err != nil {
		t.Fatalf("fire after retract: %v", err)
	}
	results, err = sess.Query("cold-readings", nil)
	if err != nil {
		t.Fatalf("query after retract: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected zero Cold results after retracting supporting fact, got %d", len(results))
	}
}

// Scenario 5: negation round-trip.
func TestScenario5NegationRoundTrip(t *testing.T) {
	query := QueryDef{
		Name: "no-cold-snap",
		LHS:  Not(Type("Temperature", lt(func(f Fact) int { return f.(Temperature).Value }, 20))),
	}
	rb, err := NewRulebase(nil, []QueryDef{query}, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})

	results, _ := sess.Query("no-cold-snap", nil)
	if len(results) != 1 {
		t.Fatalf("expected one match with no facts present, got %d", len(results))
	}

	temp := Temperature{10, "MCI"}
	sess = sess.Insert(temp)
	results, _ = sess.Query("no-cold-snap", nil)
	if len(results) != 0 {
		t.Fatalf("expected zero matches once a violating fact is inserted, got %d", len(results))
	}

	sess = sess.Retract(temp)
	results, _ = sess.Query("no-cold-snap", nil)
	if len(results) != 1 {
		t.Fatalf("expected one match again after retraction, got %d", len(results))
	}
}

// Scenario 6: [:not [:or [WindSpeed>30] [Temperature<20]]].
func TestScenario6NegatedOrOfTwoTypes(t *testing.T) {
	windy := Type("WindSpeed", func(_ Env, f Fact, b Binding) (Binding, bool) {
		if f.(WindSpeed).Value > 30 {
			return Binding{}, true
		}
		return nil, false
	})
	cold := Type("Temperature", lt(func(f Fact) int { return f.(Temperature).Value }, 20))

	rule := Production{
		Name: "normal-weather",
		LHS:  Not(Or(windy, cold)),
		RHS:  func(ctx *RHSContext) error { return nil },
	}
	query := QueryDef{Name: "calm", LHS: Not(Or(windy, cold))}

	rb, err := NewRulebase([]Production{rule}, []QueryDef{query}, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}
	sess := rb.NewSession(Options{})

	results, _ := sess.Query("calm", nil)
	if len(results) != 1 {
		t.Fatalf("expected one match with no facts, got %d", len(results))
	}

	sess = sess.Insert(WindSpeed{40, "MCI"})
	results, _ = sess.Query("calm", nil)
	if len(results) != 0 {
		t.Fatalf("expected zero matches with a qualifying WindSpeed fact, got %d", len(results))
	}
}

// Salience ordering: three rules at salience 100, 50, 0 fire in that
// order on a single triggering fact regardless of definition order.
func TestSalienceOrdering(t *testing.T) {
	var order []int
	mk := func(salience int) Production {
		return Production{
			Name:     "log-salience",
			Salience: salience,
			LHS:      Type("Temperature"),
			RHS: func(ctx *RHSContext) error {
				order = append(order, salience)
				return nil
			},
		}
	}
	rb, err := NewRulebase([]Production{mk(0), mk(100), mk(50)}, nil, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sess := rb.NewSession(Options{})
	sess = sess.Insert(Temperature{10, "MCI"})
	if _, err := sess.FireRules(); err != nil {
		t.Fatalf("fire: %v", err)
	}
	want := []int{100, 50, 0}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

// No-loop: a no-loop rule whose RHS re-inserts a fact that would
// re-satisfy its own LHS fires only once per token.
func TestNoLoopSuppressesSelfReactivation(t *testing.T) {
	fireCount := 0
	rule := Production{
		Name:   "self-feeding",
		NoLoop: true,
		LHS:    Type("Temperature", bindVar("?t", func(f Fact) interface{} { return f.(Temperature).Value })),
		RHS: func(ctx *RHSContext) error {
			fireCount++
			ctx.InsertUnconditional(Temperature{ctx.Bindings()["?t"].(int) + 1, "MCI"})
			return nil
		},
	}
	rb, err := NewRulebase([]Production{rule}, nil, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sess := rb.NewSession(Options{})
	sess = sess.Insert(Temperature{10, "MCI"})
	if _, err := sess.FireRules(); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if fireCount != 1 {
		t.Fatalf("expected the rule to fire exactly once for its own token, got %d", fireCount)
	}
}
