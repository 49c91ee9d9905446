package value

import "strings"

// reprValue renders v as read-back syntax. It exists (rather than calling
// v.String() directly from composite types like Pair/Vector) so list and
// vector printing can special-case strings to stay quoted through nesting,
// matching how most Lisp printers distinguish print-for-read from
// print-for-display.
func reprValue(v Value) string {
	return v.String()
}

// reprPair renders a cons chain as "(a b c)" for proper lists and
// "(a b . c)" for improper ones. It does no abbreviation of its own:
// Quote/Quasiquote/Unquote/UnquoteSplice are separate value types whose
// own String() already prints the shorthand reader syntax.
func reprPair(p Pair, render func(Value) string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(render(p.Car))
	rest := p.Cdr
	for {
		switch x := rest.(type) {
		case Nil:
			b.WriteByte(')')
			return b.String()
		case Pair:
			b.WriteByte(' ')
			b.WriteString(render(x.Car))
			rest = x.Cdr
		default:
			b.WriteString(" . ")
			b.WriteString(render(rest))
			b.WriteByte(')')
			return b.String()
		}
	}
}

// reprVector renders a Vector as "#(a b c)".
func reprVector(v Vector, render func(Value) string) string {
	var b strings.Builder
	b.WriteString("#(")
	if v.Items != nil {
		for i, item := range *v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(render(item))
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Display renders v the way a REPL prints a result or (display v) writes
// it: strings are unquoted, a Quote displays as its inner form without the
// leading quote mark, and everything else matches String(). This is the
// "human-facing" counterpart to the read-back String() representation
// (spec.md §4.1's display-vs-repr distinction).
func Display(v Value) string {
	switch x := v.(type) {
	case String:
		return string(x)
	case Pair:
		return reprPair(x, Display)
	case Vector:
		return reprVector(x, Display)
	case Quote:
		return Display(x.X)
	default:
		return v.String()
	}
}
