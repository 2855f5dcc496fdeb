// Package engine is the command surface an editor drives: one call per
// algorithm, each taking an automaton and returning a new one.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"automata/internal/automaton"
	"automata/internal/dfa"
	"automata/internal/regex"
	"automata/internal/sim"
)

// Options configures an Engine.
type Options struct {
	// Logger for command events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Engine holds no automaton state and is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With("component", "engine")}
}

// CompileRegex builds the Thompson NFA for pattern.
func (e *Engine) CompileRegex(pattern string) (*automaton.Automaton, error) {
	start := time.Now()
	a, err := regex.Compile(pattern)
	if err != nil {
		e.logger.Warn("compile regex failed", "pattern", pattern, "error", err)
		return nil, err
	}
	e.done("compile regex", start, nil, a, "pattern", pattern)
	return a, nil
}

// Determinize runs the subset construction.
func (e *Engine) Determinize(a *automaton.Automaton) (*automaton.Automaton, error) {
	start := time.Now()
	d, err := dfa.Determinize(a)
	if err != nil {
		e.logger.Warn("determinize failed", "error", err)
		return nil, fmt.Errorf("determinize: %w", err)
	}
	e.done("determinize", start, a, d)
	return d, nil
}

// Minimize returns the minimal DFA. NFAs are refused, not determinized.
func (e *Engine) Minimize(a *automaton.Automaton) (*automaton.Automaton, error) {
	start := time.Now()
	m, err := dfa.Minimize(a)
	if err != nil {
		e.logger.Warn("minimize failed", "error", err)
		return nil, fmt.Errorf("minimize: %w", err)
	}
	e.done("minimize", start, a, m)
	return m, nil
}

// Refine returns the partition after each refinement round.
func (e *Engine) Refine(a *automaton.Automaton) ([]dfa.Partition, error) {
	rounds, err := dfa.Refine(a)
	if err != nil {
		e.logger.Warn("refine failed", "error", err)
		return nil, fmt.Errorf("refine: %w", err)
	}
	e.logger.Debug("refine", "rounds", len(rounds))
	return rounds, nil
}

// Equivalent compares the languages of a and b. The witness is a shortest
// word accepted by only one of them.
func (e *Engine) Equivalent(a, b *automaton.Automaton) (bool, string, error) {
	eq, witness, err := dfa.Equivalent(a, b)
	if err != nil {
		e.logger.Warn("equivalence failed", "error", err)
		return false, "", fmt.Errorf("equivalence: %w", err)
	}
	e.logger.Debug("equivalence", "equal", eq, "witness", witness)
	return eq, witness, nil
}

// ToPattern writes a pattern for the language of a.
func (e *Engine) ToPattern(a *automaton.Automaton) (string, error) {
	p, err := regex.FromAutomaton(a)
	if err != nil {
		e.logger.Warn("pattern extraction failed", "error", err)
		return "", fmt.Errorf("pattern: %w", err)
	}
	return p, nil
}

// SimulationStart validates input against the alphabet and returns a
// running simulator.
func (e *Engine) SimulationStart(a *automaton.Automaton, input string) (*sim.Simulator, error) {
	if err := sim.ValidateInput(a, input); err != nil {
		e.logger.Warn("simulation input rejected", "error", err)
		return nil, err
	}
	s := sim.New(a)
	if err := s.Start(input); err != nil {
		e.logger.Warn("simulation start failed", "error", err)
		return nil, err
	}
	e.logger.Debug("simulation started", "input", input, "current", len(s.Current()))
	return s, nil
}

// SimulationStep advances h by one symbol and returns it.
func (e *Engine) SimulationStep(h *sim.Simulator) (*sim.Simulator, error) {
	if err := h.Step(); err != nil {
		return h, err
	}
	e.logger.Debug("simulation step", "position", h.Position(), "status", h.Status(), "current", len(h.Current()))
	return h, nil
}

// SimulationStop resets h to idle.
func (e *Engine) SimulationStop(h *sim.Simulator) {
	h.Stop()
	e.logger.Debug("simulation stopped")
}

// Accepts runs input to completion.
func (e *Engine) Accepts(a *automaton.Automaton, input string) (bool, error) {
	ok, err := sim.Run(a, input)
	if err != nil {
		e.logger.Warn("simulation failed", "input", input, "error", err)
		return false, err
	}
	e.logger.Debug("simulation finished", "input", input, "accepted", ok)
	return ok, nil
}

func (e *Engine) done(op string, start time.Time, in, out *automaton.Automaton, attrs ...any) {
	attrs = append(attrs, "states", len(out.States), "transitions", len(out.Transitions), "duration", time.Since(start))
	if in != nil {
		attrs = append(attrs, "input_states", len(in.States))
	}
	e.logger.Debug(op, attrs...)
}
