package dfa

import (
	"strconv"
	"strings"

	"automata/internal/automaton"
)

// Partition is one refinement round: blocks of state ids in block order,
// members in the order the states appear in the automaton.
type Partition [][]string

// Len is the number of blocks.
func (p Partition) Len() int { return len(p) }

// Describe renders a partition with state names instead of ids, e.g.
// "{q0 q1} {q2}".
func Describe(a *automaton.Automaton, p Partition) string {
	blocks := make([]string, len(p))
	for i, block := range p {
		names := make([]string, len(block))
		for j, id := range block {
			names[j] = id
			if s, ok := a.State(id); ok {
				names[j] = s.Name
			}
		}
		blocks[i] = "{" + strings.Join(names, " ") + "}"
	}
	return strings.Join(blocks, " ")
}

// machine is the pruned DFA the refinement works on.
type machine struct {
	initial   string
	states    []automaton.State
	delta     map[string]map[automaton.Symbol]string
	alphabet  []automaton.Symbol
	accepting automaton.StateSet
}

// Minimize returns the minimal DFA for the language of a. Unreachable
// states and states that can never reach an accepting one are dropped
// (the initial state always survives), then Moore refinement merges the
// indistinguishable rest. Output states are named q0, q1, ... in
// breadth-first order from the initial one.
func Minimize(a *automaton.Automaton) (*automaton.Automaton, error) {
	m, rounds, err := refine(a)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return automaton.New(automaton.DFA), nil
	}
	return m.collapse(rounds[len(rounds)-1]), nil
}

// Refine runs the same refinement as Minimize and reports the partition
// after every round. The first element is the accepting/non-accepting
// split, the last one the fixpoint.
func Refine(a *automaton.Automaton) ([]Partition, error) {
	m, rounds, err := refine(a)
	if err != nil || m == nil {
		return nil, err
	}
	out := make([]Partition, len(rounds))
	for i, blocks := range rounds {
		out[i] = m.partition(blocks)
	}
	return out, nil
}

func refine(a *automaton.Automaton) (*machine, []map[string]int, error) {
	if a.Kind != automaton.DFA {
		return nil, nil, automaton.ErrNotDFA
	}
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	if a.IsEmpty() {
		return nil, nil, nil
	}

	m := prune(a)
	blocks := m.split()
	rounds := []map[string]int{blocks}
	for {
		next, n := m.round(blocks)
		if n == count(blocks) {
			break
		}
		rounds = append(rounds, next)
		blocks = next
	}
	return m, rounds, nil
}

// prune keeps the states that are reachable from the initial state and
// can reach an accepting state, plus the initial state itself.
func prune(a *automaton.Automaton) *machine {
	initial, _ := a.Initial()
	reach := automaton.NewTable(a).Reachable(initial.ID)

	reverse := automaton.New(automaton.DFA)
	for _, t := range a.Transitions {
		reverse.Transitions = append(reverse.Transitions, automaton.Transition{From: t.To, To: t.From, Symbol: t.Symbol})
	}
	var finals []string
	for _, s := range a.States {
		if s.Accepting && reach.Has(s.ID) {
			finals = append(finals, s.ID)
		}
	}
	coreach := automaton.NewTable(reverse).Reachable(finals...)

	m := &machine{
		initial:   initial.ID,
		delta:     make(map[string]map[automaton.Symbol]string),
		accepting: automaton.NewStateSet(),
	}
	live := automaton.NewStateSet(initial.ID)
	for _, s := range a.States {
		if s.ID == initial.ID || (reach.Has(s.ID) && coreach.Has(s.ID)) {
			live.Add(s.ID)
			m.states = append(m.states, s)
			if s.Accepting {
				m.accepting.Add(s.ID)
			}
		}
	}

	symbols := make(map[automaton.Symbol]struct{})
	for _, t := range a.Transitions {
		if !live.Has(t.From) || !live.Has(t.To) {
			continue
		}
		out, ok := m.delta[t.From]
		if !ok {
			out = make(map[automaton.Symbol]string)
			m.delta[t.From] = out
		}
		out[t.Symbol] = t.To
		symbols[t.Symbol] = struct{}{}
	}
	for _, sym := range a.Alphabet() {
		if _, ok := symbols[sym]; ok {
			m.alphabet = append(m.alphabet, sym)
		}
	}
	return m
}

// split is the first partition: accepting states in block 0, the others
// in the next block. An empty class gets no block.
func (m *machine) split() map[string]int {
	blocks := make(map[string]int, len(m.states))
	nonAccepting := 0
	if m.accepting.Len() > 0 {
		nonAccepting = 1
	}
	for _, s := range m.states {
		if m.accepting.Has(s.ID) {
			blocks[s.ID] = 0
		} else {
			blocks[s.ID] = nonAccepting
		}
	}
	return blocks
}

// round splits every block by signature: the current block followed by the
// target block per symbol, -1 when there is no transition. Block numbers
// follow first appearance in state order.
func (m *machine) round(blocks map[string]int) (map[string]int, int) {
	next := make(map[string]int, len(blocks))
	index := make(map[string]int)
	var sig strings.Builder
	for _, s := range m.states {
		sig.Reset()
		sig.WriteString(strconv.Itoa(blocks[s.ID]))
		for _, sym := range m.alphabet {
			sig.WriteByte(':')
			if to, ok := m.delta[s.ID][sym]; ok {
				sig.WriteString(strconv.Itoa(blocks[to]))
			} else {
				sig.WriteString("-1")
			}
		}
		key := sig.String()
		b, ok := index[key]
		if !ok {
			b = len(index)
			index[key] = b
		}
		next[s.ID] = b
	}
	return next, len(index)
}

func count(blocks map[string]int) int {
	seen := make(map[int]struct{})
	for _, b := range blocks {
		seen[b] = struct{}{}
	}
	return len(seen)
}

func (m *machine) partition(blocks map[string]int) Partition {
	p := make(Partition, count(blocks))
	for _, s := range m.states {
		b := blocks[s.ID]
		p[b] = append(p[b], s.ID)
	}
	return p
}

// collapse builds one state per block, numbering blocks breadth-first from
// the block of the initial state.
func (m *machine) collapse(blocks map[string]int) *automaton.Automaton {
	members := m.partition(blocks)
	b := automaton.NewBuilder(automaton.DFA)
	ids := make(map[int]string, len(members))

	visit := func(block int) string {
		if id, ok := ids[block]; ok {
			return id
		}
		id := b.AddState(m.accepting.Has(members[block][0]))
		ids[block] = id
		return id
	}

	first := blocks[m.initial]
	b.SetInitial(visit(first))
	queue := []int{first}
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]
		rep := members[block][0]
		for _, sym := range m.alphabet {
			to, ok := m.delta[rep][sym]
			if !ok {
				continue
			}
			target := blocks[to]
			if _, seen := ids[target]; !seen {
				queue = append(queue, target)
			}
			b.AddTransition(ids[block], visit(target), sym)
		}
	}
	return b.Build()
}
