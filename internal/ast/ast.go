// Package ast holds the small set of source-position types shared by the
// lexer, parser, and evaluator. The language itself has no separate syntax
// tree: a parsed form is already the value.Value it evaluates to (s-expressions
// are both code and data). Positions are still threaded through the pipeline
// so error reports and tracebacks can point at source.
package ast

import "fmt"

// Pos identifies a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Pos) IsZero() bool {
	return p == Pos{}
}

// Span is a half-open range [Start, End) in a source file.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
