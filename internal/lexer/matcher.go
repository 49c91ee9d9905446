package lexer

// Matcher tests a single Token as part of a reader-macro rule. A rule is a
// fixed-length slice of Matchers; internal/reader slides a same-length
// window of tokens across the stream and asks each Matcher in turn whether
// it accepts the token at that position (sliding-window, greedy-leftmost
// matching — see SPEC_FULL.md's reader macro section).
type Matcher func(Token) bool

// Any matches any token at all.
func Any() Matcher {
	return func(Token) bool { return true }
}

// Exact matches a token of the given type with the given literal.
func Exact(t TokenType, literal string) Matcher {
	return func(tok Token) bool {
		return tok.Type == t && tok.Literal == literal
	}
}

// OfType matches any token of the given type, regardless of literal.
func OfType(t TokenType) Matcher {
	return func(tok Token) bool { return tok.Type == t }
}

// Or matches if any of the given matchers matches.
func Or(ms ...Matcher) Matcher {
	return func(tok Token) bool {
		for _, m := range ms {
			if m(tok) {
				return true
			}
		}
		return false
	}
}

// Rule is an ordered, fixed-length sequence of Matchers describing one
// reader macro's trigger pattern.
type Rule []Matcher

// Match reports whether window (a slice of exactly len(r) tokens) satisfies
// the rule positionally.
func (r Rule) Match(window []Token) bool {
	if len(window) != len(r) {
		return false
	}
	for i, m := range r {
		if !m(window[i]) {
			return false
		}
	}
	return true
}
