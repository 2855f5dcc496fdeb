package regex

import (
	"errors"
	"fmt"
)

// ErrEmptyLanguage is returned by FromAutomaton when no word is accepted;
// the pattern grammar has no way to spell the empty language.
var ErrEmptyLanguage = errors.New("automaton accepts no word")

// SyntaxError reports a malformed pattern. Offset counts bytes and Column
// counts characters from 1.
type SyntaxError struct {
	Pattern string
	Offset  int
	Column  int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex %q: column %d: %s", e.Pattern, e.Column, e.Msg)
}
