// Package engineerr defines the error kinds raised by the rule engine core.
package engineerr

import "fmt"

// Kind identifies one of the four error categories the engine can raise.
type Kind string

const (
	// InvalidRule marks a rule that lacks an RHS action, or whose LHS
	// references a variable with no binding source. Detected at network
	// construction time.
	InvalidRule Kind = "invalid-rule"

	// InvalidQuery marks a query lookup by a name or reference that is not
	// in the rulebase.
	InvalidQuery Kind = "invalid-query"

	// InvalidAccumulatorUsage marks an accumulator used in a position whose
	// bindings cannot be resolved.
	InvalidAccumulatorUsage Kind = "invalid-accumulator-usage"

	// RHSException marks an error or panic raised by a user RHS action.
	RHSException Kind = "rhs-exception"
)

// EngineError is the error type returned for all four kinds above.
type EngineError struct {
	Kind Kind
	Msg  string

	// Rule and NodeID are populated for RHSException; Rule is also
	// populated for InvalidRule.
	Rule   string
	NodeID int
	Err    error
}

func (e *EngineError) Error() string {
	switch e.Kind {
	case RHSException:
		return fmt.Sprintf("rhs-exception in rule %q (node %d): %s", e.Rule, e.NodeID, e.Msg)
	case InvalidRule:
		if e.Rule != "" {
			return fmt.Sprintf("invalid-rule %q: %s", e.Rule, e.Msg)
		}
		return fmt.Sprintf("invalid-rule: %s", e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *EngineError) Unwrap() error { return e.Err }

// KindOf reports the Kind of the first *EngineError found in err's
// Unwrap chain, and false if err is nil or wraps no *EngineError.
func KindOf(err error) (Kind, bool) {
	var ee *EngineError
	if err == nil {
		return "", false
	}
	if asEngineError(err, &ee) {
		return ee.Kind, true
	}
	return "", false
}

func asEngineError(err error, target **EngineError) bool {
	for err != nil {
		if ee, ok := err.(*EngineError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// NewInvalidRule builds an InvalidRule error for the named rule.
func NewInvalidRule(rule, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: InvalidRule, Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// NewInvalidQuery builds an InvalidQuery error.
func NewInvalidQuery(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: InvalidQuery, Msg: fmt.Sprintf(format, args...)}
}

// NewInvalidAccumulatorUsage builds an InvalidAccumulatorUsage error.
func NewInvalidAccumulatorUsage(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: InvalidAccumulatorUsage, Msg: fmt.Sprintf(format, args...)}
}

// NewRHSException wraps a panic or error raised by a firing rule's RHS.
func NewRHSException(rule string, nodeID int, cause error) *EngineError {
	msg := "unknown cause"
	if cause != nil {
		msg = cause.Error()
	}
	return &EngineError{Kind: RHSException, Rule: rule, NodeID: nodeID, Msg: msg, Err: cause}
}
