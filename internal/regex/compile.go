// Package regex turns patterns over literal symbols, grouping, star,
// concatenation and alternation into Thompson NFAs, and back.
package regex

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"

	"automata/internal/automaton"
)

// Compile parses pattern and builds its Thompson NFA. A malformed pattern
// yields a *SyntaxError and no automaton.
func Compile(pattern string) (*automaton.Automaton, error) {
	root, err := parse(pattern)
	if err != nil {
		return nil, err
	}
	b := automaton.NewBuilder(automaton.NFA)
	frag := build(b, root)
	b.SetInitial(frag.start)
	b.SetAccepting(frag.end, true)
	return b.Build(), nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(pattern string) *automaton.Automaton {
	a, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return a
}

func parse(pattern string) (*node, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, &SyntaxError{Pattern: pattern, Offset: 0, Column: 1, Msg: "empty pattern"}
	}
	tree, err := patternParser.ParseString("", pattern)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			return nil, &SyntaxError{Pattern: pattern, Offset: pos.Offset, Column: pos.Column, Msg: perr.Message()}
		}
		return nil, &SyntaxError{Pattern: pattern, Column: 1, Msg: err.Error()}
	}
	return tree.lower(), nil
}

type fragment struct {
	start, end string
}

// build applies Thompson's construction bottom-up. Each call allocates its
// own states, so no state is shared between sub-automata.
func build(b *automaton.Builder, n *node) fragment {
	switch n.typ {
	case nSymbol:
		start := b.AddState(false)
		end := b.AddState(false)
		b.AddTransition(start, end, n.sym)
		return fragment{start, end}
	case nConcat:
		left := build(b, n.left)
		right := build(b, n.right)
		b.AddTransition(left.end, right.start, automaton.Epsilon)
		return fragment{left.start, right.end}
	case nUnion:
		start := b.AddState(false)
		end := b.AddState(false)
		left := build(b, n.left)
		right := build(b, n.right)
		b.AddTransition(start, left.start, automaton.Epsilon)
		b.AddTransition(start, right.start, automaton.Epsilon)
		b.AddTransition(left.end, end, automaton.Epsilon)
		b.AddTransition(right.end, end, automaton.Epsilon)
		return fragment{start, end}
	case nKleene:
		start := b.AddState(false)
		end := b.AddState(false)
		inner := build(b, n.left)
		b.AddTransition(start, end, automaton.Epsilon)
		b.AddTransition(start, inner.start, automaton.Epsilon)
		b.AddTransition(inner.end, end, automaton.Epsilon)
		b.AddTransition(inner.end, inner.start, automaton.Epsilon)
		return fragment{start, end}
	default:
		panic("regex: unknown node type")
	}
}
