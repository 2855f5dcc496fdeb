// Package main provides the automata CLI: compile patterns, convert,
// minimize and simulate finite automata stored as JSON, YAML, MessagePack
// or DOT.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"automata/internal/codec"
	"automata/internal/config"
	"automata/internal/engine"
)

// app carries the flag values and what PersistentPreRunE builds from them.
type app struct {
	configPath  string
	format      string
	compression string
	logLevel    string
	outPath     string
	inFormat    string

	trace bool

	cfg *config.Config
	eng *engine.Engine
	out codec.Format
	zip codec.Compression
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "automata",
		Short:         "Finite automaton engine",
		Long:          `automata compiles patterns to Thompson NFAs, determinizes and minimizes them, and simulates them on input words.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVarP(&a.format, "format", "f", "", "output format: json, yaml, msgpack, dot")
	pf.StringVar(&a.compression, "compression", "", "output compression: none, zstd")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&a.outPath, "output", "o", "-", "output file, - for stdout")
	pf.StringVar(&a.inFormat, "input-format", "", "format of automata read from stdin (default: output format)")

	regexCmd := &cobra.Command{
		Use:   "regex <pattern>",
		Short: "Compile a pattern into its Thompson NFA",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runRegex,
	}
	determinizeCmd := &cobra.Command{
		Use:   "determinize [file]",
		Short: "Run the subset construction",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runDeterminize,
	}
	minimizeCmd := &cobra.Command{
		Use:   "minimize [file]",
		Short: "Minimize a DFA",
		Long: `Minimize a DFA with Moore partition refinement.

Examples:
  automata regex '(a|b)*abb' | automata determinize | automata minimize
  automata minimize --trace dfa.yaml       # print every refinement round to stderr`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runMinimize,
	}
	minimizeCmd.Flags().BoolVar(&a.trace, "trace", false, "print the partition after every refinement round")

	simulateCmd := &cobra.Command{
		Use:   "simulate <word> [file]",
		Short: "Run an automaton on a word",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  a.runSimulate,
	}
	simulateCmd.Flags().BoolVar(&a.trace, "trace", false, "print every step")

	convertCmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-encode an automaton in the output format",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runConvert,
	}
	equivCmd := &cobra.Command{
		Use:   "equiv <file> <file>",
		Short: "Check whether two automata accept the same language",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runEquiv,
	}
	patternCmd := &cobra.Command{
		Use:   "pattern [file]",
		Short: "Print a pattern for the language of an automaton",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runPattern,
	}
	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize an automaton",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runInspect,
	}

	root.AddCommand(regexCmd, determinizeCmd, minimizeCmd, simulateCmd, convertCmd, equivCmd, patternCmd, inspectCmd)
	return root
}

// setup layers flags over the loaded configuration and builds the engine.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = a.format
	}
	if flags.Changed("compression") {
		cfg.Output.Compression = a.compression
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.eng = engine.New(engine.Options{Logger: logger})
	a.out, _ = codec.ParseFormat(cfg.Output.Format)
	a.zip, _ = codec.ParseCompression(cfg.Output.Compression)
	logger.Debug("configuration loaded", "config", a.configPath, "format", a.out, "compression", a.zip)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
