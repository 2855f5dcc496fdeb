package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"automata/internal/automaton"
	"automata/internal/codec"
	"automata/internal/dfa"
	"automata/internal/sim"
)

func (a *app) runRegex(cmd *cobra.Command, args []string) error {
	nfa, err := a.eng.CompileRegex(args[0])
	if err != nil {
		return err
	}
	return a.write(cmd, nfa)
}

func (a *app) runDeterminize(cmd *cobra.Command, args []string) error {
	in, err := a.read(cmd, argOr(args, 0))
	if err != nil {
		return err
	}
	d, err := a.eng.Determinize(in)
	if err != nil {
		return err
	}
	return a.write(cmd, d)
}

func (a *app) runMinimize(cmd *cobra.Command, args []string) error {
	in, err := a.read(cmd, argOr(args, 0))
	if err != nil {
		return err
	}
	if a.trace {
		rounds, err := a.eng.Refine(in)
		if err != nil {
			return err
		}
		for i, p := range rounds {
			fmt.Fprintf(cmd.ErrOrStderr(), "round %d: %s\n", i, dfa.Describe(in, p))
		}
	}
	m, err := a.eng.Minimize(in)
	if err != nil {
		return err
	}
	return a.write(cmd, m)
}

func (a *app) runSimulate(cmd *cobra.Command, args []string) error {
	word := args[0]
	in, err := a.read(cmd, argOr(args, 1))
	if err != nil {
		return err
	}
	h, err := a.eng.SimulationStart(in, word)
	if err != nil {
		return err
	}
	total := len([]rune(word))
	if a.trace {
		printFrame(cmd.ErrOrStderr(), in, h.Snapshot(), total)
	}
	for h.Status() == sim.Running {
		if h, err = a.eng.SimulationStep(h); err != nil {
			return err
		}
		if a.trace {
			printFrame(cmd.ErrOrStderr(), in, h.Snapshot(), total)
		}
	}
	ok, err := h.Accepted()
	if err != nil {
		return err
	}
	verdict := "rejected"
	if ok {
		verdict = "accepted"
	}
	return a.text(cmd, verdict+"\n")
}

func printFrame(w io.Writer, aut *automaton.Automaton, f sim.Frame, total int) {
	names := make([]string, len(f.Current))
	for i, id := range f.Current {
		names[i] = id
		if s, ok := aut.State(id); ok {
			names[i] = s.Name
		}
	}
	fmt.Fprintf(w, "step %d / %d  %-3s {%s}\n", f.Position, total, f.Symbol, strings.Join(names, " "))
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	in, err := a.read(cmd, argOr(args, 0))
	if err != nil {
		return err
	}
	return a.write(cmd, in)
}

func (a *app) runEquiv(cmd *cobra.Command, args []string) error {
	left, err := a.read(cmd, args[0])
	if err != nil {
		return err
	}
	right, err := a.read(cmd, args[1])
	if err != nil {
		return err
	}
	eq, witness, err := a.eng.Equivalent(left, right)
	if err != nil {
		return err
	}
	if eq {
		return a.text(cmd, "equivalent\n")
	}
	return a.text(cmd, fmt.Sprintf("different: %q is accepted by only one of them\n", witness))
}

func (a *app) runPattern(cmd *cobra.Command, args []string) error {
	in, err := a.read(cmd, argOr(args, 0))
	if err != nil {
		return err
	}
	p, err := a.eng.ToPattern(in)
	if err != nil {
		return err
	}
	return a.text(cmd, p+"\n")
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	in, err := a.read(cmd, argOr(args, 0))
	if err != nil {
		return err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "kind:          %s\n", in.Kind)
	fmt.Fprintf(&sb, "states:        %d\n", len(in.States))
	fmt.Fprintf(&sb, "transitions:   %d\n", len(in.Transitions))
	fmt.Fprintf(&sb, "alphabet:      %s\n", automaton.FormatLabel(in.Alphabet()))
	fmt.Fprintf(&sb, "deterministic: %t\n", in.IsDeterministic())
	if initial, ok := in.Initial(); ok {
		fmt.Fprintf(&sb, "initial:       %s\n", initial.Name)
	}
	var accepting []string
	for _, s := range in.States {
		if s.Accepting {
			accepting = append(accepting, s.Name)
		}
	}
	fmt.Fprintf(&sb, "accepting:     %s\n", strings.Join(accepting, " "))
	fmt.Fprintf(&sb, "fingerprint:   %s\n", automaton.Fingerprint(in))
	return a.text(cmd, sb.String())
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "-"
}

// read loads an automaton from path, or stdin for "-". Without
// --input-format the file format comes from the extension, and a trailing
// ".zst" means zstd.
func (a *app) read(cmd *cobra.Command, path string) (*automaton.Automaton, error) {
	format, zip := a.out, a.zip
	explicit := a.inFormat != ""
	if explicit {
		f, err := codec.ParseFormat(a.inFormat)
		if err != nil {
			return nil, err
		}
		format = f
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
		var detected codec.Format
		detected, zip = detect(path, format, zip)
		if !explicit {
			format = detected
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	aut, err := codec.Unmarshal(data, format, zip)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return aut, nil
}

// detect guesses the format from the extension. A ".zst" suffix forces
// zstd; otherwise the configured compression stands.
func detect(path string, fallback codec.Format, zip codec.Compression) (codec.Format, codec.Compression) {
	if strings.HasSuffix(path, ".zst") {
		zip = codec.CompressionZstd
		path = strings.TrimSuffix(path, ".zst")
	}
	if f, err := codec.ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f, zip
	}
	return fallback, zip
}

func (a *app) write(cmd *cobra.Command, aut *automaton.Automaton) error {
	data, err := codec.Marshal(aut, a.out, a.zip)
	if err != nil {
		return err
	}
	return a.emit(cmd, data)
}

func (a *app) text(cmd *cobra.Command, s string) error {
	return a.emit(cmd, []byte(s))
}

func (a *app) emit(cmd *cobra.Command, data []byte) error {
	if a.outPath == "" || a.outPath == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(a.outPath, data, 0o644)
}
