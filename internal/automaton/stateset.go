package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// StateSet is a set of state ids. Its Key is canonical, so two sets with
// the same members always map to the same subset-construction state.
type StateSet map[string]struct{}

func NewStateSet(ids ...string) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StateSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s StateSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StateSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s StateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Key joins the sorted members, each quoted so ids containing the
// separator cannot collide.
func (s StateSet) Key() string {
	ids := s.Sorted()
	for i, id := range ids {
		ids[i] = strconv.Quote(id)
	}
	return strings.Join(ids, ",")
}

func (s StateSet) Equal(o StateSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// Intersects reports whether the two sets share a member.
func (s StateSet) Intersects(o StateSet) bool {
	small, big := s, o
	if len(small) > len(big) {
		small, big = big, small
	}
	for id := range small {
		if big.Has(id) {
			return true
		}
	}
	return false
}

func (s StateSet) Clone() StateSet {
	out := make(StateSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
