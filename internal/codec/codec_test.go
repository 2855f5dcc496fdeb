package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automata/internal/automaton"
	"automata/internal/dfa"
	"automata/internal/regex"
)

func fixtures(t *testing.T) map[string]*automaton.Automaton {
	t.Helper()
	nfa := regex.MustCompile(`(a|b)*abb|\ε|\,`)
	d, err := dfa.Determinize(nfa)
	require.NoError(t, err)
	m, err := dfa.Minimize(d)
	require.NoError(t, err)
	return map[string]*automaton.Automaton{
		"nfa":   nfa,
		"dfa":   d,
		"min":   m,
		"empty": automaton.New(automaton.NFA),
		"spaced ids": {
			Kind: automaton.NFA,
			States: []automaton.State{
				{ID: "p 0", Name: "p", Initial: true},
				{ID: "q,1", Name: "q", Accepting: true},
			},
			Transitions: []automaton.Transition{
				{ID: "t 1", From: "p 0", To: "q,1", Symbol: ','},
				{ID: "t2", From: "p 0", To: "q,1", Symbol: automaton.Epsilon},
				{ID: `t"3 ]`, From: "q,1", To: "q,1", Symbol: 'a'},
			},
		},
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	for name, a := range fixtures(t) {
		for _, f := range Formats() {
			for _, c := range []Compression{CompressionNone, CompressionZstd} {
				data, err := Marshal(a, f, c)
				require.NoError(t, err, "%s %s %s", name, f, c)
				assert.NotEmpty(t, data)

				back, err := Unmarshal(data, f, c)
				require.NoError(t, err, "%s %s %s", name, f, c)
				assert.Equal(t, automaton.Fingerprint(a), automaton.Fingerprint(back), "%s %s %s", name, f, c)
				assert.Equal(t, a.Alphabet(), back.Alphabet(), "%s %s %s", name, f, c)
			}
		}
	}
}

func TestCodecs(t *testing.T) {
	doc := NewDocument(regex.MustCompile("ab"))
	for _, c := range []Codec{NewJSONCodec(), NewYAMLCodec(), NewMsgPackCodec()} {
		data, err := c.Encode(doc)
		require.NoError(t, err, c.Name())
		var back Document
		require.NoError(t, c.Decode(data, &back), c.Name())
		assert.Equal(t, doc, back, c.Name())
	}
	assert.Equal(t, "json", NewJSONCodec().Name())
	assert.Equal(t, "yaml", NewYAMLCodec().Name())
	assert.Equal(t, "msgpack", NewMsgPackCodec().Name())
}

func TestDocumentSymbols(t *testing.T) {
	doc := NewDocument(regex.MustCompile(`a\ε`))
	assert.Equal(t, []string{"a", `\ε`}, doc.Alphabet)

	var labels []string
	for _, tr := range doc.Transitions {
		labels = append(labels, tr.Symbol)
	}
	assert.ElementsMatch(t, []string{"a", "ε", `\ε`}, labels)
}

func TestUnmarshalIgnoresStoredAlphabet(t *testing.T) {
	src := `{
  "kind": "DFA",
  "alphabet": ["x", "y", "z"],
  "states": [
    {"id": "s0", "name": "start", "initial": true},
    {"id": "s1", "name": "end", "accepting": true}
  ],
  "transitions": [
    {"id": "t0", "from": "s0", "to": "s1", "symbol": "a, b"}
  ]
}`
	a, err := Unmarshal([]byte(src), FormatJSON, CompressionNone)
	require.NoError(t, err)
	assert.Equal(t, []automaton.Symbol{'a', 'b'}, a.Alphabet())
	require.Len(t, a.Transitions, 2)
	assert.Equal(t, "t0/0", a.Transitions[0].ID)
	assert.Equal(t, "t0/1", a.Transitions[1].ID)
}

func TestUnmarshalValidates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "epsilon in dfa",
			src: `kind: DFA
states:
  - {id: s0, name: q0, initial: true}
transitions:
  - {id: t0, from: s0, to: s0, symbol: ε}`,
			want: automaton.ErrEpsilonInDFA,
		},
		{
			name: "unknown state",
			src: `kind: NFA
states:
  - {id: s0, name: q0, initial: true}
transitions:
  - {id: t0, from: s0, to: s9, symbol: a}`,
			want: automaton.ErrUnknownState,
		},
		{
			name: "bad label",
			src: `kind: NFA
states:
  - {id: s0, name: q0, initial: true}
transitions:
  - {id: t0, from: s0, to: s0, symbol: "ab"}`,
			want: automaton.ErrInvalidLabel,
		},
		{
			name: "bad kind",
			src:  `kind: PDA`,
			want: automaton.ErrInvalidKind,
		},
		{
			name: "no initial",
			src: `kind: NFA
states:
  - {id: s0, name: q0}`,
			want: automaton.ErrMissingInitialState,
		},
	}
	for _, tt := range tests {
		_, err := Unmarshal([]byte(tt.src), FormatYAML, CompressionNone)
		assert.ErrorIs(t, err, ErrInvalidDocument, tt.name)
		assert.ErrorIs(t, err, tt.want, tt.name)
	}
}

func TestUnknownFormatAndCompression(t *testing.T) {
	a := regex.MustCompile("a")
	_, err := Marshal(a, Format("xml"), CompressionNone)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Marshal(a, FormatJSON, Compression("lz4"))
	assert.ErrorIs(t, err, ErrUnknownCompression)

	_, err = ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrUnknownCompression)
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)
}

func TestZstdShrinksLargeAutomata(t *testing.T) {
	a := regex.MustCompile(strings.Repeat("(a|b)*", 40))
	plain, err := Marshal(a, FormatJSON, CompressionNone)
	require.NoError(t, err)
	packed, err := Marshal(a, FormatJSON, CompressionZstd)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(plain))
}

func TestWriteDOT(t *testing.T) {
	b := automaton.NewBuilder(automaton.DFA)
	q0 := b.AddState(false)
	q1 := b.AddState(true)
	b.SetInitial(q0)
	b.AddTransition(q0, q1, 'b')
	b.AddTransition(q0, q1, 'a')
	a := b.Build()

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, a))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph DFA {"))
	assert.Contains(t, out, `label="q1", shape=doublecircle`)
	assert.Contains(t, out, "__start [shape=point]")
	assert.Contains(t, out, `label="a,b"`)
	assert.Equal(t, 1, strings.Count(out, "label=\"a,b\""))
}

func TestReadDOTHandWritten(t *testing.T) {
	src := `// drawn by hand
digraph G {
    rankdir = LR;
    node [shape=circle];
    start [shape=point];
    s0 [label="even", shape=doublecircle];
    s1 [label="odd"];
    start -> s0;
    s0 -> s1 [label="a"];
    s1 -> s0 [label="a"];
    s0 -> s0 [label="b, c"];
    s1 -> s1 [label="b,c"]
}`
	a, err := ReadDOT(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, automaton.DFA, a.Kind)
	require.Len(t, a.States, 2)
	assert.Equal(t, "even", a.States[0].Name)
	assert.True(t, a.States[0].Initial)
	assert.True(t, a.States[0].Accepting)
	assert.False(t, a.States[1].Accepting)
	assert.Len(t, a.Transitions, 6)
	assert.Equal(t, []automaton.Symbol{'a', 'b', 'c'}, a.Alphabet())
}

func TestReadDOTInfersNFA(t *testing.T) {
	src := `digraph { p [shape=point]; p -> x; x -> y [label="ε"]; y [shape=doublecircle]; }`
	a, err := ReadDOT(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, automaton.NFA, a.Kind)
	assert.Len(t, a.States, 2)
}

func TestReadDOTErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `digraph { a -> }`},
		{"no label", `digraph { p [shape=point]; p -> a; a -> b; }`},
		{"bad label", `digraph { p [shape=point]; p -> a; a -> b [label="ab"]; }`},
		{"two initials", `digraph { p [shape=point]; p -> a; p -> b; }`},
		{"id count", `digraph { p [shape=point]; p -> a; a -> b [label="a,b", ids="t1"]; }`},
		{"ids list", `digraph { p [shape=point]; p -> a; a -> b [label="a", ids="[t1"]; }`},
		{"nondeterministic dfa", `digraph DFA { p [shape=point]; p -> a; a -> b [label="x"]; a -> a [label="x"]; }`},
	}
	for _, tt := range tests {
		_, err := ReadDOT(strings.NewReader(tt.src))
		assert.ErrorIs(t, err, ErrInvalidDOT, tt.name)
	}
}
