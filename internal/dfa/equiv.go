package dfa

import (
	"sort"

	"automata/internal/automaton"
)

// Equivalent decides whether a and b accept the same language. Both are
// determinized and their product is walked breadth-first, so when they
// differ the returned word is a shortest one accepted by exactly one side.
func Equivalent(a, b *automaton.Automaton) (bool, string, error) {
	da, err := Determinize(a)
	if err != nil {
		return false, "", err
	}
	db, err := Determinize(b)
	if err != nil {
		return false, "", err
	}

	left, right := newSide(da), newSide(db)
	alphabet := unionSymbols(da.Alphabet(), db.Alphabet())

	type pair struct{ a, b string }
	type step struct {
		prev pair
		sym  automaton.Symbol
	}
	start := pair{left.initial, right.initial}
	parent := map[pair]step{start: {}}
	queue := []pair{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if left.accepts(p.a) != right.accepts(p.b) {
			var word []rune
			for cur := p; cur != start; cur = parent[cur].prev {
				word = append(word, rune(parent[cur].sym))
			}
			for i, j := 0, len(word)-1; i < j; i, j = i+1, j-1 {
				word[i], word[j] = word[j], word[i]
			}
			return false, string(word), nil
		}
		for _, sym := range alphabet {
			next := pair{left.next(p.a, sym), right.next(p.b, sym)}
			if next.a == "" && next.b == "" {
				continue
			}
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = step{prev: p, sym: sym}
			queue = append(queue, next)
		}
	}
	return true, "", nil
}

// side is one DFA of the product; "" is the implicit dead state.
type side struct {
	initial   string
	table     *automaton.Table
	accepting automaton.StateSet
}

func newSide(d *automaton.Automaton) side {
	initial, _ := d.Initial()
	return side{initial: initial.ID, table: automaton.NewTable(d), accepting: d.Accepting()}
}

func (s side) accepts(id string) bool { return id != "" && s.accepting.Has(id) }

func (s side) next(id string, sym automaton.Symbol) string {
	if id == "" {
		return ""
	}
	if to := s.table.Targets(id, sym); len(to) > 0 {
		return to[0]
	}
	return ""
}

func unionSymbols(a, b []automaton.Symbol) []automaton.Symbol {
	seen := make(map[automaton.Symbol]struct{}, len(a)+len(b))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		seen[s] = struct{}{}
	}
	out := make([]automaton.Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
