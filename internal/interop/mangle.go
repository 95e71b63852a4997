// Package interop bridges this engine's working-memory facts to
// github.com/google/mangle's ast.Atom representation, for the demo CLI's
// export path (spec SPEC_FULL.md §11.1) — not the hot insert/retract/
// fire-rules path, which never touches Mangle. Mangle's QueryContext
// evaluates a stratified Datalog program bottom-up over a whole fact
// store; that execution model has no notion of incremental left/right-
// activation, so it cannot serve as this repository's Rete engine. What
// it is good for is exactly what this package offers: letting a
// session's current facts be dumped as ast.Atom values and queried
// ad hoc with factstore/unionfind, the way a user might pipe a session
// snapshot through `clara export` for offline analysis.
package interop

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/unionfind"

	"github.com/kahunamoore/clara-rules/internal/facts"
)

// Record is the generic predicate/args shape a Fact converts to and from,
// mirroring the teacher's own mangle.Fact{Predicate, Args} vocabulary
// (internal/mangle/engine.go, factToAtomLocked) since working-memory
// facts here are arbitrary Go structs rather than facts declared against
// a Mangle schema — there is no predicate declaration to check arity or
// argument types against, so every exported field becomes one ordered
// argument, sorted by field name for determinism.
type Record struct {
	Predicate string
	Args      []interface{}
}

// FactToAtom converts a working-memory fact to an ast.Atom, deriving the
// predicate name from the fact's Go type name (lower-cased, matching
// Mangle's convention that predicate symbols are not capitalized) and one
// argument per exported struct field, sorted by field name so the same
// fact shape always produces the same argument order.
func FactToAtom(fact facts.Fact) (ast.Atom, error) {
	rec, err := toRecord(fact)
	if err != nil {
		return ast.Atom{}, err
	}
	args := make([]ast.BaseTerm, 0, len(rec.Args))
	for _, raw := range rec.Args {
		term, err := convertValueToTerm(raw)
		if err != nil {
			return ast.Atom{}, fmt.Errorf("fact %s: %w", rec.Predicate, err)
		}
		args = append(args, term)
	}
	sym := ast.PredicateSym{Symbol: rec.Predicate, Arity: len(args)}
	return ast.Atom{Predicate: sym, Args: args}, nil
}

// toRecord flattens a struct fact into a Record. Non-struct facts (a
// Record itself, or a bare scalar) pass through with a best-effort
// predicate name.
func toRecord(fact facts.Fact) (Record, error) {
	if rec, ok := fact.(Record); ok {
		return rec, nil
	}
	v := reflect.ValueOf(fact)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return Record{}, fmt.Errorf("cannot convert nil pointer fact to an atom")
		}
		v = v.Elem()
	}
	t := v.Type()
	predicate := strings.ToLower(t.Name())
	if predicate == "" {
		predicate = "fact"
	}
	if v.Kind() != reflect.Struct {
		return Record{Predicate: predicate, Args: []interface{}{v.Interface()}}, nil
	}

	type field struct {
		name string
		val  interface{}
	}
	var fs []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		fs = append(fs, field{name: sf.Name, val: v.Field(i).Interface()})
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].name < fs[j].name })
	args := make([]interface{}, len(fs))
	for i, f := range fs {
		args[i] = f.val
	}
	return Record{Predicate: predicate, Args: args}, nil
}

// convertValueToTerm maps a Go value onto an ast.BaseTerm, following the
// same type-by-type fallback the teacher's convertValueToTypedTerm uses
// once no schema-declared expected type narrows the choice: strings
// starting with "/" are Mangle names, other strings are Mangle strings,
// integers and floats become Number/Float64 constants, bools become
// ast.TrueConstant/ast.FalseConstant.
func convertValueToTerm(value interface{}) (ast.BaseTerm, error) {
	switch v := value.(type) {
	case ast.BaseTerm:
		return v, nil
	case string:
		if strings.HasPrefix(v, "/") {
			name, err := ast.Name(v)
			if err != nil {
				return nil, err
			}
			return name, nil
		}
		return ast.String(v), nil
	case int:
		return ast.Number(int64(v)), nil
	case int32:
		return ast.Number(int64(v)), nil
	case int64:
		return ast.Number(v), nil
	case float32:
		return ast.Float64(float64(v)), nil
	case float64:
		return ast.Float64(v), nil
	case bool:
		if v {
			return ast.TrueConstant, nil
		}
		return ast.FalseConstant, nil
	case nil:
		return ast.String(""), nil
	default:
		return ast.String(fmt.Sprintf("%v", v)), nil
	}
}

// BuildStore converts a batch of working-memory facts into an in-memory
// Mangle fact store for ad hoc Datalog-style querying (spec §11.1),
// matching the teacher's own factstore.NewSimpleInMemoryStore/Add usage.
// The demo CLI's `export` subcommand does not call it; it prints atoms
// built with FactToAtom directly.
func BuildStore(in []facts.Fact) (factstore.FactStore, error) {
	store := factstore.NewSimpleInMemoryStore()
	for _, f := range in {
		atom, err := FactToAtom(f)
		if err != nil {
			return nil, err
		}
		store.Add(atom)
	}
	return store, nil
}

// QueryPredicate returns every atom in store matching predicate/arity,
// using ast.NewQuery the same way the teacher's GetFacts does.
func QueryPredicate(store factstore.FactStore, predicate string, arity int) ([]ast.Atom, error) {
	sym := ast.PredicateSym{Symbol: predicate, Arity: arity}
	var out []ast.Atom
	err := store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		out = append(out, atom)
		return nil
	})
	return out, err
}

// EmptyBindingEnv returns a fresh Mangle unification environment, the
// same starting point the teacher's Query method passes to
// mengine.EvalQuery for each ad hoc query it runs.
func EmptyBindingEnv() unionfind.UnionFind {
	return unionfind.New()
}

// AtomToFact converts an ast.Atom back into a Record fact. The original
// Go struct type cannot be reconstructed from an atom alone (Mangle has
// no notion of the fact's originating Go type), so the round trip lands
// on Record — callers that need a specific struct back can type-switch
// on Record.Predicate themselves.
func AtomToFact(a ast.Atom) (facts.Fact, error) {
	args := make([]interface{}, len(a.Args))
	for i, term := range a.Args {
		args[i] = convertTermToValue(term)
	}
	return Record{Predicate: a.Predicate.Symbol, Args: args}, nil
}

// convertTermToValue is AtomToFact's inverse of convertValueToTerm,
// grounded on the teacher's convertBaseTermToInterface/constantToInterface.
func convertTermToValue(term ast.BaseTerm) interface{} {
	switch v := term.(type) {
	case ast.Constant:
		switch v.Type {
		case ast.StringType, ast.NameType, ast.BytesType:
			return v.Symbol
		case ast.NumberType:
			return v.NumValue
		case ast.Float64Type:
			return math.Float64frombits(uint64(v.NumValue))
		default:
			return v.String()
		}
	case ast.Variable:
		return v.Symbol
	default:
		return fmt.Sprintf("%v", term)
	}
}
