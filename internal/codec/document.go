package codec

import (
	"fmt"

	"automata/internal/automaton"
)

// Document is the stored shape of an automaton. Symbols use the edge label
// syntax, so "ε" is epsilon and `\ε` the literal character.
type Document struct {
	Kind        string          `json:"kind" yaml:"kind" msgpack:"kind"`
	Alphabet    []string        `json:"alphabet,omitempty" yaml:"alphabet,omitempty" msgpack:"alphabet,omitempty"`
	States      []StateDoc      `json:"states" yaml:"states" msgpack:"states"`
	Transitions []TransitionDoc `json:"transitions" yaml:"transitions" msgpack:"transitions"`
}

type StateDoc struct {
	ID        string `json:"id" yaml:"id" msgpack:"id"`
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Initial   bool   `json:"initial,omitempty" yaml:"initial,omitempty" msgpack:"initial,omitempty"`
	Accepting bool   `json:"accepting,omitempty" yaml:"accepting,omitempty" msgpack:"accepting,omitempty"`
}

// TransitionDoc may carry a comma separated list of symbols; it is
// expanded into one transition per symbol on load.
type TransitionDoc struct {
	ID     string `json:"id" yaml:"id" msgpack:"id"`
	From   string `json:"from" yaml:"from" msgpack:"from"`
	To     string `json:"to" yaml:"to" msgpack:"to"`
	Symbol string `json:"symbol" yaml:"symbol" msgpack:"symbol"`
}

// NewDocument captures a. The alphabet is written for readers only.
func NewDocument(a *automaton.Automaton) Document {
	doc := Document{
		Kind:        string(a.Kind),
		States:      make([]StateDoc, len(a.States)),
		Transitions: make([]TransitionDoc, len(a.Transitions)),
	}
	for _, s := range a.Alphabet() {
		doc.Alphabet = append(doc.Alphabet, automaton.FormatLabel([]automaton.Symbol{s}))
	}
	for i, s := range a.States {
		doc.States[i] = StateDoc{ID: s.ID, Name: s.Name, Initial: s.Initial, Accepting: s.Accepting}
	}
	for i, t := range a.Transitions {
		doc.Transitions[i] = TransitionDoc{
			ID:     t.ID,
			From:   t.From,
			To:     t.To,
			Symbol: automaton.FormatLabel([]automaton.Symbol{t.Symbol}),
		}
	}
	return doc
}

// Automaton rebuilds and validates the automaton. The stored alphabet is
// ignored; it is always derived from the transitions.
func (d Document) Automaton() (*automaton.Automaton, error) {
	a := automaton.New(automaton.Kind(d.Kind))
	for _, s := range d.States {
		a.States = append(a.States, automaton.State{ID: s.ID, Name: s.Name, Initial: s.Initial, Accepting: s.Accepting})
	}
	edges := make([]automaton.Edge, 0, len(d.Transitions))
	for _, t := range d.Transitions {
		e, err := automaton.ParseEdge(t.ID, t.From, t.To, t.Symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: transition %s: %w", ErrInvalidDocument, t.ID, err)
		}
		edges = append(edges, e)
	}
	a.Transitions = automaton.Expand(edges)
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return a, nil
}
