package regex

import (
	"unicode/utf8"

	"automata/internal/automaton"
)

type nodeType int

const (
	nSymbol  nodeType = iota // literal or ε
	nConcat                  // left right
	nUnion                   // left | right
	nKleene                  // left*
)

type node struct {
	typ   nodeType
	sym   automaton.Symbol
	left  *node
	right *node
}

func symbolNode(s automaton.Symbol) *node { return &node{typ: nSymbol, sym: s} }

// lower folds the parse tree into binary nodes, left associative, with one
// kleene node per star.
func (a *alternation) lower() *node {
	var out *node
	for _, seq := range a.Alts {
		n := seq.lower()
		if out == nil {
			out = n
			continue
		}
		out = &node{typ: nUnion, left: out, right: n}
	}
	return out
}

func (s *sequence) lower() *node {
	var out *node
	for _, term := range s.Terms {
		n := term.lower()
		if out == nil {
			out = n
			continue
		}
		out = &node{typ: nConcat, left: out, right: n}
	}
	return out
}

func (r *repetition) lower() *node {
	n := r.Atom.lower()
	for range r.Stars {
		n = &node{typ: nKleene, left: n}
	}
	return n
}

func (a *atom) lower() *node {
	switch {
	case a.Epsilon:
		return symbolNode(automaton.Epsilon)
	case a.Escaped != nil:
		r, _ := utf8.DecodeRuneInString((*a.Escaped)[1:])
		return symbolNode(automaton.Symbol(r))
	case a.Literal != nil:
		r, _ := utf8.DecodeRuneInString(*a.Literal)
		return symbolNode(automaton.Symbol(r))
	default:
		return a.Group.lower()
	}
}
