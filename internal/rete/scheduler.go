package rete

import (
	"sort"
	"strconv"

	"github.com/kahunamoore/clara-rules/internal/facts"
)

// Activation is one pending rule firing: a production node plus the
// token that triggered it (spec §5).
type Activation struct {
	NodeID   NodeID
	Token    facts.Token
	RuleName string
	Salience int
}

// GroupFunc assigns an activation to a named priority group. The default
// groups by salience (spec §5's "rule salience descending"); callers may
// override it via a session construction option to group activations any
// other way (e.g. by rule name prefix).
type GroupFunc func(a Activation) string

// GroupLess reports whether group a has strictly higher priority than
// group b. The default parses both as integers and orders them
// descending, matching the default GroupFunc's salience grouping.
type GroupLess func(a, b string) bool

func defaultGroupFunc(a Activation) string {
	return strconv.Itoa(a.Salience)
}

func defaultGroupLess(a, b string) bool {
	ai, _ := strconv.Atoi(a)
	bi, _ := strconv.Atoi(b)
	return ai > bi
}

// schedulerState is the activation queue: FIFO within a group, groups
// visited in priority order (spec §5). It lives inside Persistent /
// Transient like any other working-memory state.
type schedulerState struct {
	buckets map[string][]Activation
	groupFn GroupFunc
	less    GroupLess
}

func newSchedulerState() *schedulerState {
	return &schedulerState{
		buckets: map[string][]Activation{},
		groupFn: defaultGroupFunc,
		less:    defaultGroupLess,
	}
}

func (s *schedulerState) clone() *schedulerState {
	out := &schedulerState{
		buckets: map[string][]Activation{},
		groupFn: s.groupFn,
		less:    s.less,
	}
	for k, v := range s.buckets {
		out.buckets[k] = append([]Activation(nil), v...)
	}
	return out
}

// SetActivationPolicy overrides t's activation grouping/ordering policy
// (spec §6.4's activation-group-fn/activation-group-sort-fn options).
func (t *Transient) SetActivationPolicy(groupFn GroupFunc, less GroupLess) {
	t.activation.setPolicy(groupFn, less)
}

func (s *schedulerState) setPolicy(groupFn GroupFunc, less GroupLess) {
	if groupFn != nil {
		s.groupFn = groupFn
	}
	if less != nil {
		s.less = less
	}
}

func (s *schedulerState) add(a Activation) {
	g := s.groupFn(a)
	s.buckets[g] = append(s.buckets[g], a)
}

// remove drops the first queued activation matching nodeID and token's
// key, if any is still pending (used when a production node's supporting
// token is retracted before it fires).
func (s *schedulerState) remove(nodeID NodeID, token facts.Token) {
	key := token.Key()
	for g, acts := range s.buckets {
		for i, a := range acts {
			if a.NodeID == nodeID && a.Token.Key() == key {
				s.buckets[g] = append(acts[:i], acts[i+1:]...)
				return
			}
		}
	}
}

func (s *schedulerState) empty() bool {
	for _, acts := range s.buckets {
		if len(acts) > 0 {
			return false
		}
	}
	return true
}

func (s *schedulerState) nonEmptyGroups() []string {
	var groups []string
	for g, acts := range s.buckets {
		if len(acts) > 0 {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return s.less(groups[i], groups[j]) })
	return groups
}

// currentGroup returns the highest-priority non-empty group, or "" with
// ok=false if the queue is empty.
func (s *schedulerState) currentGroup() (string, bool) {
	groups := s.nonEmptyGroups()
	if len(groups) == 0 {
		return "", false
	}
	return groups[0], true
}

// popFront removes and returns the first-queued activation in group g.
func (s *schedulerState) popFront(g string) (Activation, bool) {
	acts := s.buckets[g]
	if len(acts) == 0 {
		return Activation{}, false
	}
	a := acts[0]
	s.buckets[g] = acts[1:]
	return a, true
}
