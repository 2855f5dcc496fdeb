package automaton

import (
	"fmt"
	"sort"
)

// Edge is the editor's view of a transition: one arrow that may carry
// several symbols. Algorithms only ever see its expansion.
type Edge struct {
	ID      string
	From    string
	To      string
	Symbols []Symbol
}

func (e Edge) Label() string { return FormatLabel(e.Symbols) }

// Expand turns every edge into one transition per symbol. Single-symbol
// edges keep their id; the others get "<id>/<n>" ids.
func Expand(edges []Edge) []Transition {
	var out []Transition
	for _, e := range edges {
		for i, s := range e.Symbols {
			id := e.ID
			if len(e.Symbols) > 1 {
				id = fmt.Sprintf("%s/%d", e.ID, i)
			}
			out = append(out, Transition{ID: id, From: e.From, To: e.To, Symbol: s})
		}
	}
	return out
}

// Group merges transitions sharing endpoints into edges, in order of first
// appearance, with symbols sorted (epsilon first).
func Group(transitions []Transition) []Edge {
	type pair struct{ from, to string }
	index := make(map[pair]int)
	var out []Edge
	for _, t := range transitions {
		p := pair{t.From, t.To}
		i, ok := index[p]
		if !ok {
			i = len(out)
			index[p] = i
			out = append(out, Edge{ID: t.ID, From: t.From, To: t.To})
		}
		out[i].Symbols = append(out[i].Symbols, t.Symbol)
	}
	for i := range out {
		syms := out[i].Symbols
		sort.Slice(syms, func(a, b int) bool { return syms[a] < syms[b] })
	}
	return out
}

// ParseEdge builds an edge from raw label text such as "a,b".
func ParseEdge(id, from, to, label string) (Edge, error) {
	syms, err := ParseLabel(label)
	if err != nil {
		return Edge{}, err
	}
	return Edge{ID: id, From: from, To: to, Symbols: syms}, nil
}
