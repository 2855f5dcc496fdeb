package automaton

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type labelTokenType int

const (
	labelSymbol labelTokenType = iota
	labelEpsilon
	labelComma
)

type labelToken struct {
	typ    labelTokenType
	text   string
	column int
}

var (
	labelOnce  sync.Once
	labelLex   *lexmachine.Lexer
	labelLexEr error
)

// Labels accept `\,` `\\` and `\ε` for the otherwise reserved characters.
func newLabelLexer() (*lexmachine.Lexer, error) {
	lex := lexmachine.NewLexer()
	lex.Add([]byte(`[ \t\n\r]+`), skipLabel)
	lex.Add([]byte(`ε`), labelAction(labelEpsilon))
	lex.Add([]byte(`,`), labelAction(labelComma))
	lex.Add([]byte(`\\,`), escapedAction)
	lex.Add([]byte(`\\\\`), escapedAction)
	lex.Add([]byte(`\\ε`), escapedAction)
	lex.Add([]byte(`[^,\\ \t\n\r]+`), labelAction(labelSymbol))
	if err := lex.Compile(); err != nil {
		return nil, err
	}
	return lex, nil
}

func skipLabel(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func labelAction(typ labelTokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return labelToken{typ: typ, text: string(m.Bytes), column: m.StartColumn}, nil
	}
}

func escapedAction(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return labelToken{typ: labelSymbol, text: string(m.Bytes[1:]), column: m.StartColumn}, nil
}

// ParseLabel splits an edge label such as "a, b, ε" into its symbols.
// Every symbol must be a single character; duplicates are dropped.
func ParseLabel(label string) ([]Symbol, error) {
	labelOnce.Do(func() { labelLex, labelLexEr = newLabelLexer() })
	if labelLexEr != nil {
		return nil, labelLexEr
	}
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}

	scanner, err := labelLex.Scanner([]byte(label))
	if err != nil {
		return nil, err
	}

	var (
		out       []Symbol
		seen      = make(map[Symbol]struct{})
		wantComma bool
		lastCol   int
	)
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidLabel, label, err)
		}
		t := tok.(labelToken)
		lastCol = t.column
		if t.typ == labelComma {
			if !wantComma {
				return nil, fmt.Errorf("%w %q: unexpected ',' at column %d", ErrInvalidLabel, label, t.column)
			}
			wantComma = false
			continue
		}
		if wantComma {
			return nil, fmt.Errorf("%w %q: missing ',' before column %d", ErrInvalidLabel, label, t.column)
		}
		sym := Epsilon
		if t.typ == labelSymbol {
			if utf8.RuneCountInString(t.text) != 1 {
				return nil, fmt.Errorf("%w %q: symbol %q is not a single character", ErrInvalidLabel, label, t.text)
			}
			r, _ := utf8.DecodeRuneInString(t.text)
			sym = Symbol(r)
		}
		if _, dup := seen[sym]; !dup {
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
		wantComma = true
	}
	if !wantComma {
		return nil, fmt.Errorf("%w %q: dangling ',' at column %d", ErrInvalidLabel, label, lastCol)
	}
	return out, nil
}

// FormatLabel is the inverse of ParseLabel.
func FormatLabel(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		switch {
		case s.IsEpsilon():
			parts[i] = EpsilonLabel
		case s == ',' || s == '\\' || string(rune(s)) == EpsilonLabel:
			parts[i] = `\` + string(rune(s))
		default:
			parts[i] = string(rune(s))
		}
	}
	return strings.Join(parts, ",")
}
