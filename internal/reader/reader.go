// Package reader implements the reader-macro layer that sits between the
// lexer and the parser: a pipeline stage that watches a sliding window of
// upcoming tokens, and when a registered rule matches the window
// positionally, splices the rule's transform output into the stream in
// place of the matched tokens. original_source's own Rust implementation
// (reader/readermacro.rs) stubbed the actual windowing algorithm out with
// a bare "// TODO" pass-through; this package is the real thing, built to
// the shape that stub's surrounding types (ReaderMacro, ReaderMacroIterator,
// buffer_in/buffer_out) already describe.
package reader

import (
	"container/list"

	"github.com/jlisp/jlisp/internal/lexer"
)

// Source is anything that can be pulled one token at a time — satisfied by
// *lexer.Lexer and, recursively, by *MacroIterator itself, so reader
// macros can be stacked.
type Source interface {
	Next() (lexer.Token, error)
}

// Transform rewrites a matched token window into a replacement token
// sequence. It may return a window of different length than it was given
// (that's the entire point: macros usually expand one trigger into many
// tokens, or delete trigger tokens entirely).
type Transform func(window []lexer.Token) ([]lexer.Token, error)

// Macro pairs a fixed-length matching rule with the transform to run when
// the rule matches.
type Macro struct {
	Rule      lexer.Rule
	Transform Transform
}

func (m Macro) windowLen() int { return len(m.Rule) }

// Wrap builds a MacroIterator applying macro over src.
func (m Macro) Wrap(src Source) *MacroIterator {
	return NewMacroIterator(src, []Macro{m})
}

// MacroIterator is a Source decorator implementing the sliding-window
// algorithm: it keeps a window of upcoming tokens in bufIn exactly as
// long as the longest registered rule, tries rules leftmost-first
// (earlier-registered rules win ties) against that window, and on a match
// replaces the tokens the rule matched with the transform's output in
// bufOut, which it
// then drains before pulling more input. On a mismatch it slides the
// window forward by one token (the buffer's head token is emitted, and one
// more token is pulled in behind it) rather than restarting the match —
// greedy-leftmost, not backtracking.
type MacroIterator struct {
	src     Source
	macros  []Macro
	maxWin  int
	bufIn   *list.List // pending tokens not yet matched or emitted
	bufOut  *list.List // tokens ready to emit, from a completed transform
	atEOF   bool
}

// NewMacroIterator wraps src with every macro in macros. Macros are tried
// in slice order at each window position, so earlier entries take
// precedence when more than one rule could match the same tokens.
func NewMacroIterator(src Source, macros []Macro) *MacroIterator {
	maxWin := 1
	for _, m := range macros {
		if n := m.windowLen(); n > maxWin {
			maxWin = n
		}
	}
	return &MacroIterator{
		src:    src,
		macros: macros,
		maxWin: maxWin,
		bufIn:  list.New(),
		bufOut: list.New(),
	}
}

// Next returns the next token after reader-macro expansion.
func (it *MacroIterator) Next() (lexer.Token, error) {
	for {
		if it.bufOut.Len() > 0 {
			return it.popOut(), nil
		}

		if err := it.fill(); err != nil {
			return lexer.Token{}, err
		}

		if it.bufIn.Len() == 0 {
			return lexer.Token{Type: lexer.EOF}, nil
		}

		window := it.frontWindow()
		if m, ok := it.matchAt(window); ok {
			if n := m.windowLen(); n > 0 {
				window = window[:n]
			}
			out, err := m.Transform(window)
			if err != nil {
				return lexer.Token{}, err
			}
			it.dropFront(len(window))
			for _, tok := range out {
				it.bufOut.PushBack(tok)
			}
			continue
		}

		// No rule matched at this position: emit the head token as-is and
		// slide the window forward by one.
		return it.popFront(), nil
	}
}

// fill tops bufIn up to maxWin tokens (fewer only at true EOF).
func (it *MacroIterator) fill() error {
	for !it.atEOF && it.bufIn.Len() < it.maxWin {
		tok, err := it.src.Next()
		if err != nil {
			return err
		}
		if tok.IsEOF() {
			it.atEOF = true
			break
		}
		it.bufIn.PushBack(tok)
	}
	return nil
}

// frontWindow returns up to maxWin tokens from the front of bufIn without
// consuming them, for matching. Shorter than maxWin only at end of input.
func (it *MacroIterator) frontWindow() []lexer.Token {
	out := make([]lexer.Token, 0, it.bufIn.Len())
	for e := it.bufIn.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(lexer.Token))
	}
	return out
}

// matchAt tries each macro's rule against the longest compatible prefix of
// window, leftmost rule (registration order) wins on a tie.
func (it *MacroIterator) matchAt(window []lexer.Token) (Macro, bool) {
	for _, m := range it.macros {
		n := m.windowLen()
		if n > len(window) {
			continue
		}
		if m.Rule.Match(window[:n]) {
			return m, true
		}
	}
	return Macro{}, false
}

func (it *MacroIterator) popFront() lexer.Token {
	e := it.bufIn.Front()
	it.bufIn.Remove(e)
	return e.Value.(lexer.Token)
}

func (it *MacroIterator) dropFront(n int) {
	for i := 0; i < n; i++ {
		if e := it.bufIn.Front(); e != nil {
			it.bufIn.Remove(e)
		}
	}
}

func (it *MacroIterator) popOut() lexer.Token {
	e := it.bufOut.Front()
	it.bufOut.Remove(e)
	return e.Value.(lexer.Token)
}
