// Package accumulators provides the common accumulator descriptors
// (spec §6.3) as ready-made dnf.AccumulatorSpec values: Count, Sum, Max,
// Min, Distinct and All. Rule authors compose these with
// clara.Accumulate instead of hand-writing Extract/Reduce/Combine for
// the common cases.
package accumulators

import (
	"github.com/kahunamoore/clara-rules/internal/dnf"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// Count returns an accumulator that counts matching facts.
func Count() dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		InitialValue: 0,
		Reduce: func(acc, _ interface{}) interface{} {
			return acc.(int) + 1
		},
		Combine: func(acc1, acc2 interface{}) interface{} {
			return acc1.(int) + acc2.(int)
		},
		Retract: func(acc, _ interface{}) interface{} {
			n := acc.(int) - 1
			if n < 0 {
				n = 0
			}
			return n
		},
	}
}

// Sum returns an accumulator that sums extract's numeric result across
// matching facts. extract must return an int or float64.
func Sum(extract func(fact facts.Fact, bindings facts.Binding) interface{}) dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		InitialValue: 0.0,
		Extract:      adaptExtract(extract),
		Reduce: func(acc, item interface{}) interface{} {
			return acc.(float64) + toFloat(item)
		},
		Retract: func(acc, item interface{}) interface{} {
			return acc.(float64) - toFloat(item)
		},
	}
}

// Max returns an accumulator that tracks the maximum extracted value
// seen so far. Its running state is nil until the first fact arrives.
func Max(extract func(fact facts.Fact, bindings facts.Binding) interface{}) dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		Extract: adaptExtract(extract),
		Reduce: func(acc, item interface{}) interface{} {
			if acc == nil || toFloat(item) > toFloat(acc) {
				return item
			}
			return acc
		},
	}
}

// Min returns an accumulator that tracks the minimum extracted value
// seen so far.
func Min(extract func(fact facts.Fact, bindings facts.Binding) interface{}) dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		Extract: adaptExtract(extract),
		Reduce: func(acc, item interface{}) interface{} {
			if acc == nil || toFloat(item) < toFloat(acc) {
				return item
			}
			return acc
		},
	}
}

// Distinct returns an accumulator that collects the distinct extracted
// values seen across matching facts, converted to a slice on read; the
// order of the slice is not defined.
func Distinct(extract func(fact facts.Fact, bindings facts.Binding) interface{}) dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		InitialValue: map[interface{}]bool{},
		Extract:      adaptExtract(extract),
		Reduce: func(acc, item interface{}) interface{} {
			set := cloneSet(acc)
			set[item] = true
			return set
		},
		Combine: func(acc1, acc2 interface{}) interface{} {
			set := cloneSet(acc1)
			other, _ := acc2.(map[interface{}]bool)
			for v := range other {
				set[v] = true
			}
			return set
		},
		ConvertReturn: func(acc interface{}) interface{} {
			set, _ := acc.(map[interface{}]bool)
			out := make([]interface{}, 0, len(set))
			for v := range set {
				out = append(out, v)
			}
			return out
		},
	}
}

// All returns an accumulator that collects every matching fact into a
// slice, preserving no particular order guarantee beyond arrival order.
func All() dnf.AccumulatorSpec {
	return dnf.AccumulatorSpec{
		InitialValue: []interface{}{},
		Reduce: func(acc, item interface{}) interface{} {
			return append(append([]interface{}{}, acc.([]interface{})...), item)
		},
		Combine: func(acc1, acc2 interface{}) interface{} {
			return append(append([]interface{}{}, acc1.([]interface{})...), acc2.([]interface{})...)
		},
	}
}

func adaptExtract(extract func(fact facts.Fact, bindings facts.Binding) interface{}) func(facts.Fact, facts.Binding) interface{} {
	if extract == nil {
		return func(fact facts.Fact, _ facts.Binding) interface{} { return fact }
	}
	return extract
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func cloneSet(acc interface{}) map[interface{}]bool {
	src, _ := acc.(map[interface{}]bool)
	out := make(map[interface{}]bool, len(src)+1)
	for k, v := range src {
		out[k] = v
	}
	return out
}
