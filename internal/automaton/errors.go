package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInitialState is returned when an algorithm needs a start
	// state and the automaton has none.
	ErrMissingInitialState = errors.New("automaton has no initial state")
	// ErrMultipleInitialStates marks a non-empty automaton with more than
	// one initial state.
	ErrMultipleInitialStates = errors.New("automaton has more than one initial state")
	// ErrNotDFA is returned by operations defined only over DFAs.
	ErrNotDFA = errors.New("automaton is not a DFA")

	ErrInvalidKind         = errors.New("invalid automaton kind")
	ErrDuplicateState      = errors.New("duplicate state id")
	ErrDuplicateTransition = errors.New("duplicate transition id")
	ErrUnknownState        = errors.New("transition references unknown state")
	ErrEpsilonInDFA        = errors.New("epsilon transition in DFA")
	ErrNondeterministic    = errors.New("more than one transition for a state and symbol in DFA")
	ErrInvalidLabel        = errors.New("invalid transition label")
)

// ValidationError ties an invariant violation to the element breaking it.
type ValidationError struct {
	Element string // state or transition id
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Element, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
