// Package automaton holds the in-memory model shared by every algorithm in
// the engine: states, single-symbol transitions and the DFA/NFA kind.
package automaton

import (
	"sort"
)

// Kind tells whether an automaton is restricted to deterministic moves.
type Kind string

const (
	DFA Kind = "DFA"
	NFA Kind = "NFA"
)

func (k Kind) Valid() bool { return k == DFA || k == NFA }

// Symbol is one input symbol. Epsilon is reserved for non-consuming moves.
type Symbol rune

// Epsilon lies outside the rune range so it can never collide with input.
const Epsilon Symbol = -1

// EpsilonLabel is how epsilon is written in patterns, labels and exports.
const EpsilonLabel = "ε"

func (s Symbol) IsEpsilon() bool { return s == Epsilon }

func (s Symbol) String() string {
	if s == Epsilon {
		return EpsilonLabel
	}
	return string(rune(s))
}

type State struct {
	ID        string
	Name      string
	Initial   bool
	Accepting bool
}

// Transition carries exactly one symbol. Edges labelled with several
// symbols are expanded with Expand before they reach an algorithm.
type Transition struct {
	ID     string
	From   string
	To     string
	Symbol Symbol
}

// Automaton is replaced wholesale by the producing algorithms; none of them
// patches an existing value.
type Automaton struct {
	Kind        Kind
	States      []State
	Transitions []Transition
}

// New returns an empty automaton of the given kind.
func New(kind Kind) *Automaton {
	return &Automaton{Kind: kind}
}

// Alphabet derives the sorted set of non-epsilon symbols in use.
func (a *Automaton) Alphabet() []Symbol {
	seen := make(map[Symbol]struct{})
	for _, t := range a.Transitions {
		if t.Symbol.IsEpsilon() {
			continue
		}
		seen[t.Symbol] = struct{}{}
	}
	out := make([]Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasSymbol reports whether s belongs to the alphabet.
func (a *Automaton) HasSymbol(s Symbol) bool {
	if s.IsEpsilon() {
		return false
	}
	for _, t := range a.Transitions {
		if t.Symbol == s {
			return true
		}
	}
	return false
}

// Initial returns the first state flagged initial.
func (a *Automaton) Initial() (State, bool) {
	for _, s := range a.States {
		if s.Initial {
			return s, true
		}
	}
	return State{}, false
}

func (a *Automaton) State(id string) (State, bool) {
	for _, s := range a.States {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}

// Accepting returns the ids of all accepting states.
func (a *Automaton) Accepting() StateSet {
	out := NewStateSet()
	for _, s := range a.States {
		if s.Accepting {
			out.Add(s.ID)
		}
	}
	return out
}

func (a *Automaton) Clone() *Automaton {
	if a == nil {
		return nil
	}
	return &Automaton{
		Kind:        a.Kind,
		States:      append([]State(nil), a.States...),
		Transitions: append([]Transition(nil), a.Transitions...),
	}
}

// IsEmpty reports whether the automaton has no states at all.
func (a *Automaton) IsEmpty() bool { return len(a.States) == 0 }
