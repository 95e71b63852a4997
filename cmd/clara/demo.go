package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kahunamoore/clara-rules/accumulators"
	"github.com/kahunamoore/clara-rules/clara"
)

// Fact is the generic working-memory fact this CLI loads facts.json into:
// a type tag plus a field bag. The engine's own Fact type is `interface{}`
// (spec §3) — any Go value works as a fact — but a demo CLI that reads
// facts from a file needs one concrete, JSON-shaped fact type to decode
// into, the way the teacher's own scan/init commands decode files into a
// fixed Go struct before handing them to the logic layer
// (cmd_init_scan.go's writeScanFacts).
type Fact struct {
	Type   string                 `json:"type"`
	Fields map[string]interface{} `json:"fields"`
}

func factType(f clara.Fact) string {
	if df, ok := f.(Fact); ok {
		return df.Type
	}
	return "unknown"
}

func loadFacts(path string) ([]clara.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts file: %w", err)
	}
	var raw []Fact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse facts file: %w", err)
	}
	out := make([]clara.Fact, len(raw))
	for i, f := range raw {
		out[i] = f
	}
	return out, nil
}

// numField reads a numeric field out of a demo Fact's field bag,
// tolerating both float64 (the shape encoding/json decodes JSON numbers
// into) and int.
func numField(f clara.Fact, name string) float64 {
	df, ok := f.(Fact)
	if !ok {
		return 0
	}
	switch v := df.Fields[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func lessThan(field string, threshold float64) clara.ConstraintFunc {
	return func(_ clara.Env, f clara.Fact, _ clara.Binding) (clara.Binding, bool) {
		if numField(f, field) < threshold {
			return clara.Binding{}, true
		}
		return nil, false
	}
}

func bindField(varName, field string) clara.ConstraintFunc {
	return func(_ clara.Env, f clara.Fact, _ clara.Binding) (clara.Binding, bool) {
		return clara.Binding{varName: numField(f, field)}, true
	}
}

// demoRuleNames lists the rule/query names the built-in demo rulebase
// registers, so cmd output can report what ran without duplicating the
// list everywhere.
var demoRuleNames = []string{"mark-cold", "cold-readings", "min-temperature"}

// buildDemoRulebase is the CLI's fixed rulebase: the rule/query scenarios
// spec §8 describes (low-temperature marking plus a min-temperature
// accumulator query), wired against the generic demo Fact type above.
// The rules.json argument is accepted but not read; every subcommand
// uses this built-in rather than driving a macro parser — the surface
// rule/query authoring syntax is explicitly out of scope
// (spec §1's Non-goals), so this CLI demonstrates the engine's semantics
// against one fixed, representative rulebase rather than inventing one.
func buildDemoRulebase() (*clara.Rulebase, error) {
	markCold := clara.Production{
		Name: "mark-cold",
		LHS: clara.Type("Temperature",
			lessThan("Value", 20),
			bindField("?t", "Value")),
		RHS: func(ctx *clara.RHSContext) error {
			t := ctx.Bindings()["?t"].(float64)
			ctx.Insert(Fact{Type: "Cold", Fields: map[string]interface{}{"Value": t}})
			return nil
		},
	}

	coldReadings := clara.QueryDef{Name: "cold-readings", LHS: clara.Type("Cold")}

	minSpec := accumulators.Min(func(f clara.Fact, _ clara.Binding) interface{} {
		return numField(f, "Value")
	})
	minSpec.ResultBinding = "?min"
	minTemperature := clara.QueryDef{
		Name: "min-temperature",
		LHS:  clara.Accumulate(minSpec, clara.Type("Temperature"), nil),
	}

	opts := clara.Options{FactTypeFn: factType}
	return clara.NewRulebase(
		[]clara.Production{markCold},
		[]clara.QueryDef{coldReadings, minTemperature},
		opts,
	)
}
