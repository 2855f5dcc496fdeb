package automaton

import (
	"container/list"
)

// Table indexes transitions by source state and symbol so closure and move
// do not rescan the transition list.
type Table struct {
	next map[string]map[Symbol][]string
}

func NewTable(a *Automaton) *Table {
	t := &Table{next: make(map[string]map[Symbol][]string, len(a.States))}
	for _, tr := range a.Transitions {
		out, ok := t.next[tr.From]
		if !ok {
			out = make(map[Symbol][]string)
			t.next[tr.From] = out
		}
		out[tr.Symbol] = append(out[tr.Symbol], tr.To)
	}
	return t
}

// Targets lists the states reached from id on sym, in insertion order.
func (t *Table) Targets(id string, sym Symbol) []string {
	return t.next[id][sym]
}

// Closure returns the smallest superset of set closed under epsilon moves.
// The argument is left untouched.
func (t *Table) Closure(set StateSet) StateSet {
	out := set.Clone()
	stack := list.New()
	for id := range set {
		stack.PushBack(id)
	}
	for stack.Len() > 0 {
		id := stack.Remove(stack.Back()).(string)
		for _, to := range t.next[id][Epsilon] {
			if out.Add(to) {
				stack.PushBack(to)
			}
		}
	}
	return out
}

// Move collects the targets of sym-labelled transitions leaving set.
func (t *Table) Move(set StateSet, sym Symbol) StateSet {
	out := NewStateSet()
	if sym.IsEpsilon() {
		return out
	}
	for id := range set {
		for _, to := range t.next[id][sym] {
			out.Add(to)
		}
	}
	return out
}

// Reachable returns every state reachable from the given roots over any
// transition, epsilon included.
func (t *Table) Reachable(roots ...string) StateSet {
	seen := NewStateSet(roots...)
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, targets := range t.next[id] {
			for _, to := range targets {
				if seen.Add(to) {
					queue = append(queue, to)
				}
			}
		}
	}
	return seen
}
