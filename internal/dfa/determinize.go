// Package dfa holds the algorithms that produce or compare deterministic
// automata: subset construction, Moore minimization and equivalence.
package dfa

import (
	"automata/internal/automaton"
)

// Determinize runs the subset construction with epsilon-closure. Any valid
// automaton is accepted, a DFA included; only a missing initial state is
// refused. The input is never modified.
func Determinize(a *automaton.Automaton) (*automaton.Automaton, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	initial, ok := a.Initial()
	if !ok {
		return nil, automaton.ErrMissingInitialState
	}

	table := automaton.NewTable(a)
	accepting := a.Accepting()
	alphabet := a.Alphabet()

	b := automaton.NewBuilder(automaton.DFA)
	start := table.Closure(automaton.NewStateSet(initial.ID))
	ids := map[string]string{start.Key(): b.AddState(start.Intersects(accepting))}
	b.SetInitial(ids[start.Key()])

	queue := []automaton.StateSet{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := ids[cur.Key()]
		for _, sym := range alphabet {
			moved := table.Move(cur, sym)
			if moved.Len() == 0 {
				continue
			}
			next := table.Closure(moved)
			key := next.Key()
			to, seen := ids[key]
			if !seen {
				to = b.AddState(next.Intersects(accepting))
				ids[key] = to
				queue = append(queue, next)
			}
			b.AddTransition(from, to, sym)
		}
	}
	return b.Build(), nil
}
