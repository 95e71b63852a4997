// Package tracinglistener implements the engine's listener interface
// (spec §6.5) as a styled io.Writer trace: bold for activation add/remove
// and rule firings, dim for element-level left/right-activate noise, red
// for retractions — grounded on the teacher's own lipgloss-styled
// log/trace rendering (cmd/nerd/ui/styles.go's semantic color palette),
// scoped down to plain line-oriented output since a rule engine's trace
// listener is a logging concern, not an interactive bubbletea program
// (SPEC_FULL.md §11.3).
package tracinglistener

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/kahunamoore/clara-rules/internal/facts"
	"github.com/kahunamoore/clara-rules/internal/rete"
)

var (
	insertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	retractStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	activationAdd  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	activationDrop = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107"))
	firedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// Listener writes a styled trace line to w for every session event (spec
// §6.5). It satisfies rete.Listener structurally and uses internal/rete
// only for the NodeID type, since a listener is plain data flow — no
// network or memory access is needed to render one.
type Listener struct {
	w io.Writer
}

// New returns a Listener writing styled trace lines to w.
func New(w io.Writer) *Listener {
	return &Listener{w: w}
}

func (l *Listener) line(style lipgloss.Style, format string, args ...interface{}) {
	fmt.Fprintln(l.w, style.Render(fmt.Sprintf(format, args...)))
}

// InsertFacts logs an unconditional insert.
func (l *Listener) InsertFacts(newFacts []facts.Fact) {
	l.line(insertStyle, "insert %d fact(s): %v", len(newFacts), newFacts)
}

// InsertFactsLogical logs a rule's logical (supported) insert.
func (l *Listener) InsertFactsLogical(ruleName string, token facts.Token, newFacts []facts.Fact) {
	l.line(insertStyle, "insert-logical [%s] %d fact(s): %v", ruleName, len(newFacts), newFacts)
}

// RetractFacts logs a retraction.
func (l *Listener) RetractFacts(oldFacts []facts.Fact) {
	l.line(retractStyle, "retract %d fact(s): %v", len(oldFacts), oldFacts)
}

// LeftActivate logs a beta node receiving tokens on its left input. This
// fires on every node, every dispatch batch, so it is rendered dim —
// the element-level noise underneath the rule-level events above.
func (l *Listener) LeftActivate(nodeID rete.NodeID, tokens []facts.Token) {
	l.line(dimStyle, "  left-activate node=%d count=%d", nodeID, len(tokens))
}

// LeftRetract logs a beta node receiving token retractions on its left
// input.
func (l *Listener) LeftRetract(nodeID rete.NodeID, tokens []facts.Token) {
	l.line(dimStyle, "  left-retract node=%d count=%d", nodeID, len(tokens))
}

// RightActivate logs a beta node receiving elements on its right input.
func (l *Listener) RightActivate(nodeID rete.NodeID, elements []facts.Element) {
	l.line(dimStyle, "  right-activate node=%d count=%d", nodeID, len(elements))
}

// RightRetract logs a beta node receiving element retractions on its
// right input.
func (l *Listener) RightRetract(nodeID rete.NodeID, elements []facts.Element) {
	l.line(dimStyle, "  right-retract node=%d count=%d", nodeID, len(elements))
}

// AddAccumReduced logs an accumulator node folding a new value into one
// of its groups.
func (l *Listener) AddAccumReduced(nodeID rete.NodeID, bindings facts.Binding, value interface{}) {
	l.line(dimStyle, "  add-accum-reduced node=%d bindings=%v value=%v", nodeID, bindings, value)
}

// AddActivation logs a production node's activation being queued.
func (l *Listener) AddActivation(ruleName string, token facts.Token) {
	l.line(activationAdd, "+activation [%s] token=%s", ruleName, token.Key())
}

// RemoveActivation logs a queued activation being dropped (its supporting
// token was retracted before it fired).
func (l *Listener) RemoveActivation(ruleName string, token facts.Token) {
	l.line(activationDrop, "-activation [%s] token=%s", ruleName, token.Key())
}

// RuleFired logs a production's RHS having run to completion.
func (l *Listener) RuleFired(ruleName string, token facts.Token) {
	l.line(firedStyle, "fired [%s] token=%s", ruleName, token.Key())
}
