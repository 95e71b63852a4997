package tracinglistener

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kahunamoore/clara-rules/internal/facts"
	"github.com/kahunamoore/clara-rules/internal/rete"
)

type sensor struct{ Name string }

func TestInsertFactsWritesLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.InsertFacts([]facts.Fact{sensor{Name: "oven"}})
	if !strings.Contains(buf.String(), "insert 1 fact(s)") {
		t.Fatalf("expected insert line, got: %q", buf.String())
	}
}

func TestRetractFactsWritesLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.RetractFacts([]facts.Fact{sensor{Name: "oven"}})
	if !strings.Contains(buf.String(), "retract 1 fact(s)") {
		t.Fatalf("expected retract line, got: %q", buf.String())
	}
}

func TestInsertFactsLogicalIncludesRuleName(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.InsertFactsLogical("mark-cold", facts.Token{}, []facts.Fact{sensor{Name: "oven"}})
	if !strings.Contains(buf.String(), "mark-cold") {
		t.Fatalf("expected rule name in output, got: %q", buf.String())
	}
}

func TestActivationLifecycleWritesDistinctLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	tok := facts.Root()
	l.AddActivation("mark-cold", tok)
	l.RemoveActivation("mark-cold", tok)
	l.RuleFired("mark-cold", tok)

	out := buf.String()
	for _, want := range []string{"+activation", "-activation", "fired"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got: %q", want, out)
		}
	}
}

func TestElementLevelCallbacksWriteDimLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	tok := facts.Root()
	elems := []facts.Element{{Fact: sensor{Name: "oven"}, Bindings: facts.Binding{}}}

	l.LeftActivate(rete.NodeID(1), []facts.Token{tok})
	l.LeftRetract(rete.NodeID(1), []facts.Token{tok})
	l.RightActivate(rete.NodeID(2), elems)
	l.RightRetract(rete.NodeID(2), elems)
	l.AddAccumReduced(rete.NodeID(3), facts.Binding{"?g": "MCI"}, 42)

	out := buf.String()
	for _, want := range []string{"left-activate", "left-retract", "right-activate", "right-retract", "add-accum-reduced"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got: %q", want, out)
		}
	}
}
