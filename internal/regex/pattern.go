package regex

import (
	"sort"
	"strings"
	"unicode"

	"automata/internal/automaton"
)

// FromAutomaton writes a pattern, in the grammar accepted by Compile, for
// the language of a. It eliminates states one by one from a generalized
// automaton whose edges carry expressions (McNaughton-Yamada).
func FromAutomaton(a *automaton.Automaton) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	initial, ok := a.Initial()
	if !ok {
		return "", automaton.ErrMissingInitialState
	}

	live := automaton.NewTable(a).Reachable(initial.ID)
	index := make(map[string]int)
	var order []automaton.State
	for _, s := range a.States {
		if live.Has(s.ID) {
			index[s.ID] = len(order)
			order = append(order, s)
		}
	}

	n := len(order)
	start, final := n, n+1
	g := gnfa{}
	g.add(start, index[initial.ID], symbolNode(automaton.Epsilon))
	for i, s := range order {
		if s.Accepting {
			g.add(i, final, symbolNode(automaton.Epsilon))
		}
	}
	for _, t := range a.Transitions {
		from, ok1 := index[t.From]
		to, ok2 := index[t.To]
		if ok1 && ok2 {
			g.add(from, to, symbolNode(t.Symbol))
		}
	}

	for k := 0; k < n; k++ {
		g.eliminate(k)
	}

	expr := g[[2]int{start, final}]
	if expr == nil {
		return "", ErrEmptyLanguage
	}
	return format(expr), nil
}

type gnfa map[[2]int]*node

func (g gnfa) add(i, j int, e *node) {
	k := [2]int{i, j}
	g[k] = union(g[k], e)
}

func (g gnfa) eliminate(k int) {
	var ins, outs []int
	for key := range g {
		switch {
		case key[0] == k && key[1] == k:
		case key[1] == k:
			ins = append(ins, key[0])
		case key[0] == k:
			outs = append(outs, key[1])
		}
	}
	sort.Ints(ins)
	sort.Ints(outs)

	loop := kleene(g[[2]int{k, k}])
	for _, i := range ins {
		for _, j := range outs {
			g.add(i, j, concat(concat(g[[2]int{i, k}], loop), g[[2]int{k, j}]))
		}
	}
	for key := range g {
		if key[0] == k || key[1] == k {
			delete(g, key)
		}
	}
}

// nil stands for the empty language in the helpers below.

func isEpsilon(n *node) bool { return n != nil && n.typ == nSymbol && n.sym.IsEpsilon() }

func union(a, b *node) *node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case format(a) == format(b):
		return a
	}
	return &node{typ: nUnion, left: a, right: b}
}

func concat(a, b *node) *node {
	switch {
	case a == nil || b == nil:
		return nil
	case isEpsilon(a):
		return b
	case isEpsilon(b):
		return a
	}
	return &node{typ: nConcat, left: a, right: b}
}

func kleene(a *node) *node {
	switch {
	case a == nil || isEpsilon(a):
		return symbolNode(automaton.Epsilon)
	case a.typ == nKleene:
		return a
	}
	return &node{typ: nKleene, left: a}
}

func precedence(n *node) int {
	switch n.typ {
	case nUnion:
		return 1
	case nConcat:
		return 2
	case nKleene:
		return 3
	default:
		return 4
	}
}

func format(n *node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *node, min int) {
	if precedence(n) < min {
		sb.WriteByte('(')
		defer sb.WriteByte(')')
	}
	switch n.typ {
	case nSymbol:
		writeSymbol(sb, n.sym)
	case nUnion:
		writeNode(sb, n.left, 1)
		sb.WriteByte('|')
		writeNode(sb, n.right, 1)
	case nConcat:
		writeNode(sb, n.left, 2)
		writeNode(sb, n.right, 2)
	case nKleene:
		writeNode(sb, n.left, 3)
		sb.WriteByte('*')
	}
}

func writeSymbol(sb *strings.Builder, s automaton.Symbol) {
	if s.IsEpsilon() {
		sb.WriteString(automaton.EpsilonLabel)
		return
	}
	r := rune(s)
	if strings.ContainsRune(`()|*\`, r) || unicode.IsSpace(r) || string(r) == automaton.EpsilonLabel {
		sb.WriteByte('\\')
	}
	sb.WriteRune(r)
}
