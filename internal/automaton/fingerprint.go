package automaton

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"lukechampine.com/blake3"
)

// Fingerprint hashes the canonical structure: kind, states and transitions
// sorted by id. Order of the slices does not matter, ids and names do.
func Fingerprint(a *Automaton) string {
	h := blake3.New(32, nil)
	writeCanonical(h, a)
	return hex.EncodeToString(h.Sum(nil))
}

func writeCanonical(w io.Writer, a *Automaton) {
	states := append([]State(nil), a.States...)
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	transitions := append([]Transition(nil), a.Transitions...)
	sort.Slice(transitions, func(i, j int) bool { return transitions[i].ID < transitions[j].ID })

	fmt.Fprintf(w, "kind %s\n", a.Kind)
	for _, s := range states {
		fmt.Fprintf(w, "state %q %q %t %t\n", s.ID, s.Name, s.Initial, s.Accepting)
	}
	for _, t := range transitions {
		fmt.Fprintf(w, "transition %q %q %q %d\n", t.ID, t.From, t.To, t.Symbol)
	}
}
