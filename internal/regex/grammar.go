package regex

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Precedence climbs from alternation through implicit concatenation and
// postfix star down to atoms, one struct per level.

type alternation struct {
	Pos  lexer.Position
	Alts []*sequence `parser:"@@ ( '|' @@ )*"`
}

type sequence struct {
	Pos   lexer.Position
	Terms []*repetition `parser:"@@+"`
}

type repetition struct {
	Pos   lexer.Position
	Atom  *atom    `parser:"@@"`
	Stars []string `parser:"@'*'*"`
}

type atom struct {
	Pos     lexer.Position
	Epsilon bool         `parser:"  @Epsilon"`
	Escaped *string      `parser:"| @Escaped"`
	Literal *string      `parser:"| @Symbol"`
	Group   *alternation `parser:"| '(' @@ ')'"`
}

var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escaped", Pattern: `\\(?s:.)`},
	{Name: "Epsilon", Pattern: `ε`},
	{Name: "Operator", Pattern: `[()|*]`},
	{Name: "Symbol", Pattern: `[^()|*\\\s]`},
})

var patternParser = participle.MustBuild[alternation](
	participle.Lexer(patternLexer),
)
