package rete

import (
	"fmt"

	"github.com/kahunamoore/clara-rules/internal/engineerr"
	"github.com/kahunamoore/clara-rules/internal/facts"
)

// RHS is a rule's right-hand side: the action run once per matching
// token, with the ability to insert or retract facts through ctx (spec
// §3, §6.2).
type RHS func(ctx *RHSContext) error

// RHSContext is the handle an RHS uses to read its bindings and mutate
// working memory. Facts inserted via Insert/InsertAll are logically
// supported by the firing token (spec §4.11): retracting the fact that
// produced this activation cascades into retracting them automatically.
type RHSContext struct {
	tx     *Transient
	nodeID NodeID
	token  facts.Token
}

// Bindings returns the variable bindings this activation's token carries.
func (c *RHSContext) Bindings() facts.Binding { return c.token.Bindings }

// Insert logically inserts fact, supported by this activation's token.
func (c *RHSContext) Insert(fact facts.Fact) {
	c.tx.insertLogical(c.nodeID, c.token, []facts.Fact{fact})
}

// InsertAll logically inserts every fact in fs, supported by this
// activation's token.
func (c *RHSContext) InsertAll(fs []facts.Fact) {
	c.tx.insertLogical(c.nodeID, c.token, fs)
}

// InsertUnconditional inserts fact with no logical support: it survives
// even if the token that produced this activation is later retracted.
func (c *RHSContext) InsertUnconditional(fact facts.Fact) {
	c.tx.Insert([]facts.Fact{fact})
}

// InsertAllUnconditional inserts every fact in fs with no logical support.
func (c *RHSContext) InsertAllUnconditional(fs []facts.Fact) {
	c.tx.Insert(fs)
}

// Retract immediately retracts fact (not a logical/TMS operation).
func (c *RHSContext) Retract(fact facts.Fact) {
	c.tx.Retract([]facts.Fact{fact})
}

// ProductionNode is a terminal node: a compiled rule's RHS, its salience
// and no-loop flag, and nothing downstream (spec §4.8).
type ProductionNode struct {
	id       NodeID
	ruleName string
	salience int
	noLoop   bool
	rhs      RHS
}

func (n *ProductionNode) ID() NodeID         { return n.id }
func (n *ProductionNode) JoinKeys() []string { return nil }
func (n *ProductionNode) Children() []NodeID { return nil }

// LeftActivate queues one activation per token, unless no-loop is set
// and the rule currently firing is this node's own rule (spec §5's
// no-loop semantics: a rule never re-triggers itself via its own RHS).
func (n *ProductionNode) LeftActivate(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	for _, t := range tokens {
		if n.noLoop && tx.currentRule == n.ruleName {
			continue
		}
		mem.left[""] = append(mem.left[""], t)
		tx.activation.add(Activation{NodeID: n.id, Token: t, RuleName: n.ruleName, Salience: n.salience})
		tx.notifyAddActivation(n.ruleName, t)
	}
}

// LeftRetract dequeues any pending activation for the retracted tokens,
// clears their fired bookkeeping so a later re-production can fire
// again, and cascades a TMS retraction of anything the token's firing
// had logically inserted.
func (n *ProductionNode) LeftRetract(tx *Transient, tokens []facts.Token) {
	mem := tx.mem(n.id)
	mem.left[""] = removeTokens(mem.left[""], tokens)
	for _, t := range tokens {
		tx.activation.remove(n.id, t)
		delete(mem.fired, t.Key())
		tx.notifyRemoveActivation(n.ruleName, t)
		tx.RetractSupport(n.id, t)
	}
}

// fire runs the production's RHS for token, marking it fired so the
// no-re-fire-without-retraction invariant (spec §8) holds.
func (n *ProductionNode) fire(tx *Transient, token facts.Token) (err error) {
	mem := tx.mem(n.id)
	key := token.Key()
	if mem.fired[key] {
		return nil
	}
	prevRule := tx.currentRule
	tx.currentRule = n.ruleName
	defer func() {
		tx.currentRule = prevRule
		if r := recover(); r != nil {
			err = engineerr.NewRHSException(n.ruleName, int(n.id), panicToError(r))
		}
	}()
	ctx := &RHSContext{tx: tx, nodeID: n.id, token: token}
	if rhsErr := n.rhs(ctx); rhsErr != nil {
		return engineerr.NewRHSException(n.ruleName, int(n.id), rhsErr)
	}
	mem.fired[key] = true
	return nil
}

func panicToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicValue{r}
}

type panicValue struct{ v interface{} }

func (p *panicValue) Error() string { return fmt.Sprintf("rhs panic: %v", p.v) }
