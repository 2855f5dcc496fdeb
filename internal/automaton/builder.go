package automaton

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder assembles a fresh automaton. States get display names q0, q1, ...
// in creation order and ids that are unique across every build.
type Builder struct {
	a     *Automaton
	index map[string]int
	newID func() string
}

func NewBuilder(kind Kind) *Builder {
	return &Builder{
		a:     New(kind),
		index: make(map[string]int),
		newID: uuid.NewString,
	}
}

// AddState creates a state and returns its id.
func (b *Builder) AddState(accepting bool) string {
	id := b.newID()
	b.index[id] = len(b.a.States)
	b.a.States = append(b.a.States, State{
		ID:        id,
		Name:      fmt.Sprintf("q%d", len(b.a.States)),
		Accepting: accepting,
	})
	return id
}

// SetInitial makes id the only initial state.
func (b *Builder) SetInitial(id string) {
	for i := range b.a.States {
		b.a.States[i].Initial = b.a.States[i].ID == id
	}
}

func (b *Builder) SetAccepting(id string, accepting bool) {
	if i, ok := b.index[id]; ok {
		b.a.States[i].Accepting = accepting
	}
}

func (b *Builder) Rename(id, name string) {
	if i, ok := b.index[id]; ok {
		b.a.States[i].Name = name
	}
}

// AddTransition links two states already created by this builder.
func (b *Builder) AddTransition(from, to string, sym Symbol) string {
	id := b.newID()
	b.a.Transitions = append(b.a.Transitions, Transition{ID: id, From: from, To: to, Symbol: sym})
	return id
}

func (b *Builder) Len() int { return len(b.a.States) }

// Build hands the automaton over; the builder must not be used afterwards.
func (b *Builder) Build() *Automaton {
	a := b.a
	b.a = nil
	return a
}
