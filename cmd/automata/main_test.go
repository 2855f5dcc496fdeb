package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automata/internal/codec"
)

func run(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{"AUTOMATA_LOG_LEVEL", "AUTOMATA_LOG_FORMAT", "AUTOMATA_FORMAT", "AUTOMATA_COMPRESSION"} {
		t.Setenv(k, "")
	}
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "automata", root.Use)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"regex", "determinize", "minimize", "simulate", "convert", "equiv", "pattern", "inspect"} {
		assert.Contains(t, names, want)
	}
}

func TestPipeline(t *testing.T) {
	nfa, _, err := run(t, nil, "regex", "(a|b)*abb")
	require.NoError(t, err)
	assert.Contains(t, nfa, `"kind": "NFA"`)

	d, _, err := run(t, []byte(nfa), "determinize")
	require.NoError(t, err)
	m, stderr, err := run(t, []byte(d), "minimize", "--trace")
	require.NoError(t, err)
	assert.Contains(t, stderr, "round 0:")

	a, err := codec.Unmarshal([]byte(m), codec.FormatJSON, codec.CompressionNone)
	require.NoError(t, err)
	assert.Len(t, a.States, 4)

	out, _, err := run(t, []byte(m), "simulate", "babb")
	require.NoError(t, err)
	assert.Equal(t, "accepted\n", out)

	out, stderr, err = run(t, []byte(m), "simulate", "--trace", "ab")
	require.NoError(t, err)
	assert.Equal(t, "rejected\n", out)
	assert.Contains(t, stderr, "step 2 / 2")
}

func TestSimulateUnknownSymbol(t *testing.T) {
	nfa, _, err := run(t, nil, "regex", "a|b")
	require.NoError(t, err)
	_, _, err = run(t, []byte(nfa), "simulate", "c")
	assert.ErrorContains(t, err, "not in the alphabet")
}

func TestFilesAndFormats(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "nfa.yaml.zst")
	_, _, err := run(t, nil, "regex", "a*b", "--format", "yaml", "--compression", "zstd", "-o", yamlPath)
	require.NoError(t, err)

	dotPath := filepath.Join(dir, "nfa.dot")
	_, _, err = run(t, nil, "convert", yamlPath, "--format", "dot", "-o", dotPath)
	require.NoError(t, err)
	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "digraph NFA"))

	out, _, err := run(t, nil, "equiv", yamlPath, dotPath)
	require.NoError(t, err)
	assert.Equal(t, "equivalent\n", out)

	out, _, err = run(t, nil, "inspect", dotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "kind:          NFA")
	assert.Contains(t, out, "alphabet:      a,b")
	assert.Contains(t, out, "deterministic: false")

	out, _, err = run(t, nil, "pattern", dotPath)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestInputFlagsOverrideFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfa.json")
	_, _, err := run(t, nil, "regex", "ab", "--format", "msgpack", "--compression", "zstd", "-o", path)
	require.NoError(t, err)

	out, _, err := run(t, nil, "inspect", path, "--input-format", "msgpack", "--compression", "zstd")
	require.NoError(t, err)
	assert.Contains(t, out, "kind:          NFA")
	assert.Contains(t, out, "alphabet:      a,b")

	_, _, err = run(t, nil, "inspect", path)
	assert.Error(t, err)
}

func TestEquivWitness(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	_, _, err := run(t, nil, "regex", "a*", "-o", left)
	require.NoError(t, err)
	_, _, err = run(t, nil, "regex", "aa*", "-o", right)
	require.NoError(t, err)

	out, _, err := run(t, nil, "equiv", left, right)
	require.NoError(t, err)
	assert.Equal(t, "different: \"\" is accepted by only one of them\n", out)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0o644))
	out, _, err := run(t, nil, "regex", "a", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: NFA")

	_, _, err = run(t, nil, "regex", "a", "--format", "xml")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, nil, "regex", "(a")
	assert.ErrorContains(t, err, "column")

	nfa, _, err := run(t, nil, "regex", "a")
	require.NoError(t, err)
	_, _, err = run(t, []byte(nfa), "minimize")
	assert.ErrorContains(t, err, "not a DFA")
}
