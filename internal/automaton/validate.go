package automaton

// Validate checks the structural invariants: unique ids, known endpoints,
// the DFA restrictions and exactly one initial state when non-empty.
func (a *Automaton) Validate() error {
	if !a.Kind.Valid() {
		return &ValidationError{Element: string(a.Kind), Err: ErrInvalidKind}
	}

	states := make(map[string]struct{}, len(a.States))
	initials := 0
	for _, s := range a.States {
		if _, dup := states[s.ID]; dup {
			return &ValidationError{Element: s.ID, Err: ErrDuplicateState}
		}
		states[s.ID] = struct{}{}
		if s.Initial {
			initials++
		}
	}
	if len(a.States) > 0 {
		switch {
		case initials == 0:
			return ErrMissingInitialState
		case initials > 1:
			return ErrMultipleInitialStates
		}
	}

	type move struct {
		from string
		sym  Symbol
	}
	ids := make(map[string]struct{}, len(a.Transitions))
	moves := make(map[move]struct{}, len(a.Transitions))
	for _, t := range a.Transitions {
		if _, dup := ids[t.ID]; dup {
			return &ValidationError{Element: t.ID, Err: ErrDuplicateTransition}
		}
		ids[t.ID] = struct{}{}
		if _, ok := states[t.From]; !ok {
			return &ValidationError{Element: t.ID, Err: ErrUnknownState}
		}
		if _, ok := states[t.To]; !ok {
			return &ValidationError{Element: t.ID, Err: ErrUnknownState}
		}
		if a.Kind != DFA {
			continue
		}
		if t.Symbol.IsEpsilon() {
			return &ValidationError{Element: t.ID, Err: ErrEpsilonInDFA}
		}
		m := move{t.From, t.Symbol}
		if _, dup := moves[m]; dup {
			return &ValidationError{Element: t.ID, Err: ErrNondeterministic}
		}
		moves[m] = struct{}{}
	}
	return nil
}

// IsDeterministic reports whether the transitions would satisfy the DFA
// restrictions regardless of the declared kind.
func (a *Automaton) IsDeterministic() bool {
	seen := make(map[string]map[Symbol]struct{})
	for _, t := range a.Transitions {
		if t.Symbol.IsEpsilon() {
			return false
		}
		out, ok := seen[t.From]
		if !ok {
			out = make(map[Symbol]struct{})
			seen[t.From] = out
		}
		if _, dup := out[t.Symbol]; dup {
			return false
		}
		out[t.Symbol] = struct{}{}
	}
	return true
}
