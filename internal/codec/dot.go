package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/uuid"

	"automata/internal/automaton"
)

// WriteDOT prints a Graphviz digraph named after the kind. Transitions
// sharing endpoints become one edge with a multi-symbol label; their ids
// travel in the "ids" attribute as a JSON list, in label order.
func WriteDOT(w io.Writer, a *automaton.Automaton) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", a.Kind)
	sb.WriteString("    rankdir=LR;\n")

	var initial string
	for _, s := range a.States {
		shape := "circle"
		if s.Accepting {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "    %s [label=%s, shape=%s];\n", strconv.Quote(s.ID), strconv.Quote(s.Name), shape)
		if s.Initial {
			initial = s.ID
		}
	}
	if initial != "" {
		fmt.Fprintf(&sb, "    __start [shape=point];\n    __start -> %s;\n", strconv.Quote(initial))
	}

	for _, e := range groupEdges(a.Transitions) {
		syms := make([]automaton.Symbol, len(e.moves))
		ids := make([]string, len(e.moves))
		for i, m := range e.moves {
			syms[i] = m.Symbol
			ids[i] = m.ID
		}
		list, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "    %s -> %s [label=%s, ids=%s];\n",
			strconv.Quote(e.from), strconv.Quote(e.to),
			strconv.Quote(automaton.FormatLabel(syms)), strconv.Quote(string(list)))
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

type dotEdgeGroup struct {
	from, to string
	moves    []automaton.Transition
}

func groupEdges(transitions []automaton.Transition) []*dotEdgeGroup {
	type pair struct{ from, to string }
	index := make(map[pair]*dotEdgeGroup)
	var out []*dotEdgeGroup
	for _, t := range transitions {
		p := pair{t.From, t.To}
		g, ok := index[p]
		if !ok {
			g = &dotEdgeGroup{from: t.From, to: t.To}
			index[p] = g
			out = append(out, g)
		}
		g.moves = append(g.moves, t)
	}
	for _, g := range out {
		moves := g.moves
		sort.SliceStable(moves, func(i, j int) bool { return moves[i].Symbol < moves[j].Symbol })
	}
	return out
}

// The accepted DOT subset: one digraph of node, edge and attribute
// statements. Subgraphs and ports are not supported.

type dotGraph struct {
	Pos   lexer.Position
	Name  string     `parser:"'digraph' @(Ident | String)? '{'"`
	Stmts []*dotStmt `parser:"( @@ ';'? )* '}'"`
}

type dotStmt struct {
	Edge *dotEdge `parser:"  @@"`
	Attr *dotAttr `parser:"| @@"`
	Node *dotNode `parser:"| @@"`
}

type dotEdge struct {
	Pos   lexer.Position
	From  string     `parser:"@(Ident | String | Number) '->'"`
	To    string     `parser:"@(Ident | String | Number)"`
	Attrs []*dotAttr `parser:"( '[' ( @@ ( ',' | ';' )? )* ']' )?"`
}

type dotNode struct {
	Pos   lexer.Position
	ID    string     `parser:"@(Ident | String | Number)"`
	Attrs []*dotAttr `parser:"( '[' ( @@ ( ',' | ';' )? )* ']' )?"`
}

type dotAttr struct {
	Key   string `parser:"@(Ident | String) '='"`
	Value string `parser:"@(Ident | String | Number)"`
}

var dotLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|#[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Number", Pattern: `-?(\d+(\.\d*)?|\.\d+)`},
	{Name: "Ident", Pattern: `[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*`},
	{Name: "Punct", Pattern: `[{}\[\];,=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var dotParser = participle.MustBuild[dotGraph](
	participle.Lexer(dotLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

func attrs(list []*dotAttr) map[string]string {
	out := make(map[string]string, len(list))
	for _, a := range list {
		out[a.Key] = a.Value
	}
	return out
}

// ReadDOT imports a digraph in the shape WriteDOT produces. Nodes drawn as
// points mark the initial state through their outgoing edge, doublecircle
// nodes accept, and edge labels may list several symbols. Without an "ids"
// attribute transition ids are generated.
func ReadDOT(r io.Reader) (*automaton.Automaton, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	g, err := dotParser.ParseBytes("", src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidDOT, perr.Position().Line, perr.Position().Column, perr.Message())
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDOT, err)
	}

	b := dotBuilder{index: make(map[string]int), markers: make(map[string]bool)}
	for _, st := range g.Stmts {
		if st.Node != nil {
			b.node(st.Node)
		}
	}
	var edges []automaton.Edge
	for _, st := range g.Stmts {
		if st.Edge == nil {
			continue
		}
		e, err := b.edge(st.Edge)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e...)
	}
	if b.initialErr != nil {
		return nil, b.initialErr
	}

	kind := automaton.Kind(g.Name)
	a := &automaton.Automaton{Kind: kind, States: b.states, Transitions: automaton.Expand(edges)}
	if !kind.Valid() {
		a.Kind = automaton.NFA
		if a.IsDeterministic() {
			a.Kind = automaton.DFA
		}
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDOT, err)
	}
	return a, nil
}

type dotBuilder struct {
	states     []automaton.State
	index      map[string]int
	markers    map[string]bool
	initialErr error
}

// DOT keywords that look like node statements.
var dotDefaults = map[string]bool{"node": true, "edge": true, "graph": true}

func (b *dotBuilder) node(n *dotNode) {
	if dotDefaults[n.ID] {
		return
	}
	at := attrs(n.Attrs)
	if at["shape"] == "point" {
		b.markers[n.ID] = true
		return
	}
	i := b.ensure(n.ID)
	if label, ok := at["label"]; ok {
		b.states[i].Name = label
	}
	b.states[i].Accepting = at["shape"] == "doublecircle"
}

func (b *dotBuilder) ensure(id string) int {
	if i, ok := b.index[id]; ok {
		return i
	}
	b.index[id] = len(b.states)
	b.states = append(b.states, automaton.State{ID: id, Name: id})
	return len(b.states) - 1
}

func (b *dotBuilder) edge(e *dotEdge) ([]automaton.Edge, error) {
	if b.markers[e.From] {
		i := b.ensure(e.To)
		for j := range b.states {
			if b.states[j].Initial && j != i && b.initialErr == nil {
				b.initialErr = fmt.Errorf("%w: line %d: %w", ErrInvalidDOT, e.Pos.Line, automaton.ErrMultipleInitialStates)
			}
		}
		b.states[i].Initial = true
		return nil, nil
	}
	b.ensure(e.From)
	b.ensure(e.To)

	at := attrs(e.Attrs)
	label, ok := at["label"]
	if !ok {
		return nil, fmt.Errorf("%w: line %d: edge %s -> %s has no label", ErrInvalidDOT, e.Pos.Line, e.From, e.To)
	}
	syms, err := automaton.ParseLabel(label)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidDOT, e.Pos.Line, err)
	}

	ids, err := edgeIDs(at["ids"])
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: ids: %w", ErrInvalidDOT, e.Pos.Line, err)
	}
	if id, ok := at["id"]; ok && len(ids) == 0 {
		ids = []string{id}
	}
	if len(ids) == len(syms) {
		out := make([]automaton.Edge, len(syms))
		for i, s := range syms {
			out[i] = automaton.Edge{ID: ids[i], From: e.From, To: e.To, Symbols: []automaton.Symbol{s}}
		}
		return out, nil
	}
	if len(ids) != 0 {
		return nil, fmt.Errorf("%w: line %d: %d ids for %d symbols", ErrInvalidDOT, e.Pos.Line, len(ids), len(syms))
	}
	return []automaton.Edge{{ID: uuid.NewString(), From: e.From, To: e.To, Symbols: syms}}, nil
}

// edgeIDs reads the "ids" attribute: a JSON list as written by WriteDOT,
// or whitespace-separated ids in hand-written graphs.
func edgeIDs(v string) ([]string, error) {
	if !strings.HasPrefix(strings.TrimSpace(v), "[") {
		return strings.Fields(v), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
