// Package facts defines the engine's core data model: facts, variable
// bindings, alpha elements and beta tokens (spec §3). A Fact is an opaque,
// caller-supplied value; two facts are interchangeable exactly when they
// are value-equal, never by identity.
package facts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fact is an opaque datum asserted into a session. Any comparable-by-value
// Go value may be used; structs are the common case.
type Fact = interface{}

// Env is the caller-supplied environment threaded through constraint,
// test and accumulator evaluation (spec §9's open question on external
// parameterization): a session-scoped value — typically a map or struct
// the rule author controls — passed unchanged to every predicate
// evaluated over the network's lifetime.
type Env = interface{}

// Binding maps a rule variable (conventionally written "?name") to a
// fact-derived value. Bindings grow monotonically from network root to
// leaf: once a variable is bound, later conditions either read it or
// unify against it.
type Binding map[string]interface{}

// Clone returns a shallow copy, safe to mutate independently of b.
func (b Binding) Clone() Binding {
	if b == nil {
		return Binding{}
	}
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Merge combines b with other, returning the union and true if every
// variable present in both maps to an equal value (an unbound join
// restricted to consistent bindings per spec §4.3). If any shared
// variable's values differ, Merge returns (nil, false) and the beta node
// must not propagate that pairing.
func (b Binding) Merge(other Binding) (Binding, bool) {
	out := make(Binding, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		if existing, ok := out[k]; ok && !valuesEqual(existing, v) {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

func valuesEqual(a, b interface{}) bool {
	return CanonKey(a) == CanonKey(b)
}

// KeyFor computes a stable string key from b restricted to vars, in the
// order given. Used to index beta-node memory by join key.
func (b Binding) KeyFor(vars []string) string {
	if len(vars) == 0 {
		return ""
	}
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v + "=" + CanonKey(b[v])
	}
	return strings.Join(parts, "\x1f")
}

// FullKey computes a stable string key from every entry in b, sorted by
// variable name. Used by accumulator nodes to group elements by their
// complete binding set (spec §4.6's "group by full element-bindings").
func (b Binding) FullKey() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + CanonKey(b[k])
	}
	return strings.Join(parts, "\x1f")
}

// WithResult returns a clone of b with the named variable bound to value.
// If name is empty, WithResult returns a plain clone (no variable added) —
// this is how an accumulator without a ResultBinding still carries its
// group bindings downstream without also exposing a named result.
func (b Binding) WithResult(name string, value interface{}) Binding {
	out := b.Clone()
	if name != "" {
		out[name] = value
	}
	return out
}

// CanonKey renders any Go value (fact, binding value, whatever) as a
// stable string suitable for map keys and value-equality comparisons.
// Grounded on the teacher's internal/core canonFact/canonValue dedup
// helpers: a deterministic textual form, falling back to the Go type name
// plus JSON encoding (which sorts map keys) for composite values, so two
// values of different types never share a key.
func CanonKey(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return "s:" + val
	case bool:
		return fmt.Sprintf("b:%v", val)
	case int:
		return fmt.Sprintf("i:%d", val)
	case int32:
		return fmt.Sprintf("i:%d", val)
	case int64:
		return fmt.Sprintf("i:%d", val)
	case float32:
		return fmt.Sprintf("f:%v", float64(val))
	case float64:
		return fmt.Sprintf("f:%v", val)
	case fmt.Stringer:
		return "t:" + val.String()
	default:
		if data, err := json.Marshal(val); err == nil {
			return fmt.Sprintf("j:%T:%s", val, data)
		}
		return fmt.Sprintf("g:%#v", val)
	}
}

// Element is a fact paired with the bindings its alpha node extracted
// (spec §3, §4.1). Produced by an alpha node, or carried through
// accumulator memory as the raw candidate list.
type Element struct {
	Fact     Fact
	Bindings Binding
}

// Match is one (fact, originating-node-id) pair inside a Token.
type Match struct {
	Fact   Fact
	NodeID int
}

// Token is an ordered list of matched facts plus the accumulated bindings
// along one path in the beta network (spec §3).
type Token struct {
	Matches  []Match
	Bindings Binding
}

// Root returns the empty token implicitly held by the root-join node.
func Root() Token {
	return Token{Bindings: Binding{}}
}

// Extend returns a new token carrying this token's matches plus
// (fact, nodeID), with bindings merged against extra. Returns ok=false if
// extra conflicts with the parent's bindings on a shared variable.
func (t Token) Extend(fact Fact, nodeID int, extra Binding) (Token, bool) {
	merged, ok := t.Bindings.Merge(extra)
	if !ok {
		return Token{}, false
	}
	matches := make([]Match, len(t.Matches)+1)
	copy(matches, t.Matches)
	matches[len(t.Matches)] = Match{Fact: fact, NodeID: nodeID}
	return Token{Matches: matches, Bindings: merged}, true
}

// Key renders a token as a stable string: useful for scheduler activation
// identity and for map-based token stores where structural equality
// (same matches, same bindings) must be treated as the same token.
func (t Token) Key() string {
	parts := make([]string, 0, len(t.Matches)+1)
	for _, m := range t.Matches {
		parts = append(parts, fmt.Sprintf("%d:%s", m.NodeID, CanonKey(m.Fact)))
	}
	keys := make([]string, 0, len(t.Bindings))
	for k := range t.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+CanonKey(t.Bindings[k]))
	}
	return strings.Join(parts, "|")
}
