package dnf

// Normalize rewrites c to disjunctive normal form and returns one flat,
// ordered condition list per disjunct (spec §4.10). Each returned slice is
// a production variant's LHS: a sequence of KindType / KindNegation /
// KindTest / KindAccumulator leaves with no remaining KindAnd, KindOr or
// KindNot nodes.
func Normalize(c *Condition) [][]*Condition {
	if c == nil {
		return [][]*Condition{{}}
	}
	pushed := pushNotInward(c, false)
	return toDisjuncts(pushed)
}

// pushNotInward returns the tree equivalent to c (if negate is false) or
// to the logical negation of c (if negate is true), with all KindNot
// nodes eliminated via De Morgan's laws. KindType/KindTest/KindAccumulator
// leaves are preserved verbatim — negating them wraps them in a new
// KindNegation node, since a beta negation node is how "no match" is
// represented downstream. KindNegation leaves cancel under double
// negation: negating "no matches of X" yields X itself. A KindNegation
// whose Inner is an And/Or/Not composite is pushed inward like KindNot;
// the leaf negations this produces carry no JoinVars.
func pushNotInward(c *Condition, negate bool) *Condition {
	switch c.Kind {
	case KindNot:
		return pushNotInward(c.Children[0], !negate)

	case KindAnd:
		children := make([]*Condition, len(c.Children))
		for i, ch := range c.Children {
			children[i] = pushNotInward(ch, negate)
		}
		if negate {
			return &Condition{Kind: KindOr, Children: children}
		}
		return &Condition{Kind: KindAnd, Children: children}

	case KindOr:
		children := make([]*Condition, len(c.Children))
		for i, ch := range c.Children {
			children[i] = pushNotInward(ch, negate)
		}
		if negate {
			return &Condition{Kind: KindAnd, Children: children}
		}
		return &Condition{Kind: KindOr, Children: children}

	case KindNegation:
		if c.Inner != nil && (c.Inner.Kind == KindAnd || c.Inner.Kind == KindOr || c.Inner.Kind == KindNot) {
			return pushNotInward(c.Inner, !negate)
		}
		if negate {
			// not(no matches of inner) == inner.
			return c.Inner
		}
		return c

	default:
		// KindType, KindTest, KindAccumulator: leaves with no internal
		// boolean structure to push through.
		if negate {
			return &Condition{Kind: KindNegation, Inner: c}
		}
		return c
	}
}

// toDisjuncts distributes And over Or, flattening nested And along the
// way, to produce the final list of flat conjunctive clauses.
func toDisjuncts(c *Condition) [][]*Condition {
	switch c.Kind {
	case KindOr:
		var result [][]*Condition
		for _, ch := range c.Children {
			result = append(result, toDisjuncts(ch)...)
		}
		if len(result) == 0 {
			return [][]*Condition{{}}
		}
		return result

	case KindAnd:
		acc := [][]*Condition{{}}
		for _, ch := range c.Children {
			childDisjuncts := toDisjuncts(ch)
			var next [][]*Condition
			for _, partial := range acc {
				for _, cd := range childDisjuncts {
					combined := make([]*Condition, 0, len(partial)+len(cd))
					combined = append(combined, partial...)
					combined = append(combined, cd...)
					next = append(next, combined)
				}
			}
			acc = next
		}
		if len(acc) == 0 {
			return [][]*Condition{{}}
		}
		return acc

	default:
		// KindType, KindTest, KindAccumulator, KindNegation: leaves.
		return [][]*Condition{{c}}
	}
}
