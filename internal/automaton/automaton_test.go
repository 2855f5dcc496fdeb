package automaton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture: q0 -a-> q1, q0 -ε-> q2, q2 -b-> q1 (accepting)
func sample() *Automaton {
	return &Automaton{
		Kind: NFA,
		States: []State{
			{ID: "q0", Name: "q0", Initial: true},
			{ID: "q1", Name: "q1", Accepting: true},
			{ID: "q2", Name: "q2"},
		},
		Transitions: []Transition{
			{ID: "t0", From: "q0", To: "q1", Symbol: 'a'},
			{ID: "t1", From: "q0", To: "q2", Symbol: Epsilon},
			{ID: "t2", From: "q2", To: "q1", Symbol: 'b'},
		},
	}
}

func TestAlphabetIsDerived(t *testing.T) {
	a := sample()
	assert.Equal(t, []Symbol{'a', 'b'}, a.Alphabet())

	a.Transitions = a.Transitions[:2]
	assert.Equal(t, []Symbol{'a'}, a.Alphabet())
	assert.False(t, a.HasSymbol(Epsilon))
	assert.True(t, a.HasSymbol('a'))
	assert.False(t, a.HasSymbol('b'))
}

func TestValidate(t *testing.T) {
	require.NoError(t, sample().Validate())
	require.NoError(t, New(DFA).Validate(), "empty automaton is valid")

	tests := []struct {
		name string
		edit func(a *Automaton)
		want error
	}{
		{"bad kind", func(a *Automaton) { a.Kind = "PDA" }, ErrInvalidKind},
		{"duplicate state", func(a *Automaton) { a.States[2].ID = "q1" }, ErrDuplicateState},
		{"duplicate transition", func(a *Automaton) { a.Transitions[1].ID = "t0" }, ErrDuplicateTransition},
		{"dangling target", func(a *Automaton) { a.Transitions[0].To = "nope" }, ErrUnknownState},
		{"dangling source", func(a *Automaton) { a.Transitions[0].From = "nope" }, ErrUnknownState},
		{"no initial", func(a *Automaton) { a.States[0].Initial = false }, ErrMissingInitialState},
		{"two initials", func(a *Automaton) { a.States[1].Initial = true }, ErrMultipleInitialStates},
		{"epsilon in dfa", func(a *Automaton) { a.Kind = DFA }, ErrEpsilonInDFA},
		{"nondeterministic dfa", func(a *Automaton) {
			a.Kind = DFA
			a.Transitions[1].Symbol = 'a'
		}, ErrNondeterministic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sample()
			tt.edit(a)
			err := a.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestIsDeterministic(t *testing.T) {
	assert.False(t, sample().IsDeterministic())

	a := sample()
	a.Transitions[1].Symbol = 'b'
	assert.True(t, a.IsDeterministic())

	a.Transitions = append(a.Transitions, Transition{ID: "t3", From: "q0", To: "q0", Symbol: 'a'})
	assert.False(t, a.IsDeterministic())
}

func TestClone(t *testing.T) {
	a := sample()
	c := a.Clone()
	c.States[0].Name = "changed"
	c.Transitions[0].Symbol = 'z'
	assert.Equal(t, "q0", a.States[0].Name)
	assert.Equal(t, Symbol('a'), a.Transitions[0].Symbol)
}

func TestStateSet(t *testing.T) {
	s := NewStateSet("b", "a")
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
	assert.Equal(t, `"a","b","c"`, s.Key())
	assert.NotEqual(t, NewStateSet("a,b").Key(), NewStateSet("a", "b").Key())
	assert.Equal(t, NewStateSet("c", "a", "b").Key(), s.Key())
	assert.True(t, s.Equal(NewStateSet("a", "b", "c")))
	assert.False(t, s.Equal(NewStateSet("a", "b")))
	assert.True(t, s.Intersects(NewStateSet("z", "b")))
	assert.False(t, s.Intersects(NewStateSet("z")))
}

func TestTableClosureAndMove(t *testing.T) {
	a := sample()
	// chain of epsilons with a cycle: q1 -ε-> q3 -ε-> q1
	a.States = append(a.States, State{ID: "q3", Name: "q3"})
	a.Transitions = append(a.Transitions,
		Transition{ID: "t3", From: "q1", To: "q3", Symbol: Epsilon},
		Transition{ID: "t4", From: "q3", To: "q1", Symbol: Epsilon},
	)
	tab := NewTable(a)

	start := NewStateSet("q0")
	closed := tab.Closure(start)
	assert.Equal(t, []string{"q0", "q2"}, closed.Sorted())
	assert.Equal(t, 1, start.Len(), "closure must not modify its argument")

	moved := tab.Move(closed, 'b')
	assert.Equal(t, []string{"q1"}, moved.Sorted())
	assert.Equal(t, []string{"q1", "q3"}, tab.Closure(moved).Sorted())

	assert.Zero(t, tab.Move(closed, 'z').Len())
	assert.Zero(t, tab.Move(closed, Epsilon).Len())
	assert.Equal(t, []string{"q0", "q1", "q2", "q3"}, tab.Reachable("q0").Sorted())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(NFA)
	s0 := b.AddState(false)
	s1 := b.AddState(true)
	b.AddTransition(s0, s1, 'x')
	b.SetInitial(s0)
	a := b.Build()

	require.NoError(t, a.Validate())
	assert.NotEqual(t, s0, s1)
	assert.Equal(t, "q0", a.States[0].Name)
	assert.Equal(t, "q1", a.States[1].Name)
	start, ok := a.Initial()
	require.True(t, ok)
	assert.Equal(t, s0, start.ID)
	assert.Equal(t, []string{s1}, a.Accepting().Sorted())

	// ids are never shared between builds
	other := NewBuilder(NFA)
	assert.NotEqual(t, s0, other.AddState(false))
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label string
		want  []Symbol
	}{
		{"a", []Symbol{'a'}},
		{"a,b", []Symbol{'a', 'b'}},
		{" a , b ,c", []Symbol{'a', 'b', 'c'}},
		{"ε", []Symbol{Epsilon}},
		{"a,ε", []Symbol{'a', Epsilon}},
		{"a,a,b", []Symbol{'a', 'b'}},
		{`\,,\\`, []Symbol{',', '\\'}},
		{`\ε`, []Symbol{'ε'}},
		{"é,ü", []Symbol{'é', 'ü'}},
	}
	for _, tt := range tests {
		got, err := ParseLabel(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}

	for _, bad := range []string{"", "  ", "ab", "a,", ",a", "a,,b", "a b"} {
		_, err := ParseLabel(bad)
		assert.ErrorIs(t, err, ErrInvalidLabel, "label %q", bad)
	}
}

func TestFormatLabelRoundTrip(t *testing.T) {
	syms := []Symbol{'a', Epsilon, ',', '\\', 'ε'}
	got, err := ParseLabel(FormatLabel(syms))
	require.NoError(t, err)
	assert.Equal(t, syms, got)
}

func TestExpandAndGroup(t *testing.T) {
	edge, err := ParseEdge("e1", "q0", "q1", "a,b")
	require.NoError(t, err)
	edges := []Edge{edge, {ID: "e2", From: "q1", To: "q1", Symbols: []Symbol{Epsilon}}}

	ts := Expand(edges)
	require.Len(t, ts, 3)
	assert.Equal(t, Transition{ID: "e1/0", From: "q0", To: "q1", Symbol: 'a'}, ts[0])
	assert.Equal(t, Transition{ID: "e1/1", From: "q0", To: "q1", Symbol: 'b'}, ts[1])
	assert.Equal(t, Transition{ID: "e2", From: "q1", To: "q1", Symbol: Epsilon}, ts[2])

	grouped := Group(ts)
	require.Len(t, grouped, 2)
	assert.Equal(t, []Symbol{'a', 'b'}, grouped[0].Symbols)
	assert.Equal(t, "a,b", grouped[0].Label())
	assert.Equal(t, "ε", grouped[1].Label())
}

func TestFingerprint(t *testing.T) {
	a := sample()
	b := sample()
	b.States[0], b.States[2] = b.States[2], b.States[0]
	b.Transitions[0], b.Transitions[1] = b.Transitions[1], b.Transitions[0]
	assert.Equal(t, Fingerprint(a), Fingerprint(b), "slice order is not significant")

	b.States[1].Accepting = false
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)
}
