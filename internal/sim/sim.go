// Package sim steps an automaton over an input word one symbol at a time.
// DFAs and NFAs share one code path: the current state set is kept closed
// under epsilon moves.
package sim

import (
	"errors"
	"fmt"

	"automata/internal/automaton"
)

// Status is the lifecycle of a Simulator.
type Status int

const (
	Idle Status = iota
	Running
	Halted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrInvalidSimulatorState is returned when Step or Accepted is called in a
// status that does not allow it.
var ErrInvalidSimulatorState = errors.New("invalid simulator state")

// UnknownSymbolError reports an input symbol missing from the alphabet.
// Position counts symbols from 0.
type UnknownSymbolError struct {
	Symbol   automaton.Symbol
	Position int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q at position %d is not in the alphabet", string(rune(e.Symbol)), e.Position)
}

// Frame is a copy of the simulator's progress. Symbol is the symbol
// consumed last, Epsilon before the first step.
type Frame struct {
	Position int
	Symbol   automaton.Symbol
	Current  []string
}

// Simulator is owned by a single caller and is not safe for concurrent use.
type Simulator struct {
	a         *automaton.Automaton
	table     *automaton.Table
	accepting automaton.StateSet

	status   Status
	input    []rune
	position int
	current  automaton.StateSet
}

// New returns an idle simulator over a copy of a.
func New(a *automaton.Automaton) *Simulator {
	c := a.Clone()
	return &Simulator{
		a:         c,
		table:     automaton.NewTable(c),
		accepting: c.Accepting(),
		current:   automaton.NewStateSet(),
	}
}

// ValidateInput checks every symbol of input against the alphabet of a.
// Start assumes this has been done.
func ValidateInput(a *automaton.Automaton, input string) error {
	alphabet := make(map[automaton.Symbol]struct{})
	for _, s := range a.Alphabet() {
		alphabet[s] = struct{}{}
	}
	pos := 0
	for _, r := range input {
		if _, ok := alphabet[automaton.Symbol(r)]; !ok {
			return &UnknownSymbolError{Symbol: automaton.Symbol(r), Position: pos}
		}
		pos++
	}
	return nil
}

// Start begins a run over input from the closure of the initial state. It
// may be called in any status and discards earlier progress. An empty
// input halts at once.
func (s *Simulator) Start(input string) error {
	initial, ok := s.a.Initial()
	if !ok {
		return automaton.ErrMissingInitialState
	}
	s.input = []rune(input)
	s.position = 0
	s.current = s.table.Closure(automaton.NewStateSet(initial.ID))
	s.status = Running
	if len(s.input) == 0 {
		s.status = Halted
	}
	return nil
}

// Step consumes one symbol. Reaching no state is a dead run, not an error:
// the position still advances and the current set stays empty.
func (s *Simulator) Step() error {
	if s.status != Running {
		return fmt.Errorf("%w: step while %s", ErrInvalidSimulatorState, s.status)
	}
	sym := automaton.Symbol(s.input[s.position])
	reached := s.table.Move(s.table.Closure(s.current), sym)
	s.current = s.table.Closure(reached)
	s.position++
	if s.position == len(s.input) {
		s.status = Halted
	}
	return nil
}

// Stop returns to Idle. The automaton is kept.
func (s *Simulator) Stop() {
	s.status = Idle
	s.input = nil
	s.position = 0
	s.current = automaton.NewStateSet()
}

// Accepted reports whether a halted run ended in an accepting state.
func (s *Simulator) Accepted() (bool, error) {
	if s.status != Halted {
		return false, fmt.Errorf("%w: acceptance queried while %s", ErrInvalidSimulatorState, s.status)
	}
	return s.current.Intersects(s.accepting), nil
}

func (s *Simulator) Status() Status { return s.status }

// Position is the number of symbols consumed so far.
func (s *Simulator) Position() int { return s.position }

// Current returns the sorted ids of the current states.
func (s *Simulator) Current() []string { return s.current.Sorted() }

// Dead reports a run that can no longer reach any state.
func (s *Simulator) Dead() bool { return s.status != Idle && s.current.Len() == 0 }

func (s *Simulator) Input() string { return string(s.input) }

// Remaining is the part of the input not consumed yet.
func (s *Simulator) Remaining() string { return string(s.input[s.position:]) }

// Automaton returns the simulator's copy of the automaton.
func (s *Simulator) Automaton() *automaton.Automaton { return s.a }

func (s *Simulator) Snapshot() Frame {
	f := Frame{Position: s.position, Symbol: automaton.Epsilon, Current: s.Current()}
	if s.position > 0 {
		f.Symbol = automaton.Symbol(s.input[s.position-1])
	}
	return f
}

// Run validates input, then steps a fresh simulator to the end.
func Run(a *automaton.Automaton, input string) (bool, error) {
	if err := ValidateInput(a, input); err != nil {
		return false, err
	}
	s := New(a)
	if err := s.Start(input); err != nil {
		return false, err
	}
	for s.Status() == Running {
		if err := s.Step(); err != nil {
			return false, err
		}
	}
	return s.Accepted()
}
