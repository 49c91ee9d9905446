package value

import "fmt"

// Params is a parsed lambda/macro parameter list: a fixed sequence of
// names, optionally followed by a single variadic "rest" name bound to the
// list of any remaining arguments (the `(a b . rest)` dotted-tail form, and
// its `(a b &rest r)` sugar, both parse down to this one shape).
type Params struct {
	Fixed    []string
	Variadic string // empty if there is no rest parameter
}

// ParamError reports a malformed parameter list, e.g. a dotted tail
// followed by more than one name, or "." appearing anywhere but
// second-to-last.
type ParamError struct {
	Msg string
}

func (e *ParamError) Error() string { return e.Msg }

// NewParams parses a parameter-list Value (as written in a lambda form —
// either a proper list, a dotted list, or a bare symbol meaning "bind all
// args to this one name") into a Params.
func NewParams(spec Value) (Params, error) {
	// (fn args body...) with a single symbol as the whole parameter list
	// binds every argument to that one name.
	if sym, ok := ToSymbol(spec); ok {
		return Params{Variadic: sym.Name}, nil
	}

	var fixed []string
	cur := spec
	for {
		switch x := cur.(type) {
		case Nil:
			return Params{Fixed: fixed}, nil
		case Pair:
			sym, ok := ToSymbol(x.Car)
			if !ok {
				return Params{}, &ParamError{Msg: fmt.Sprintf("parameter name must be a symbol, got %s", x.Car.Type())}
			}
			if sym.Name == "." || sym.Name == "&rest" {
				rest, ok := x.Cdr.(Pair)
				if !ok {
					return Params{}, &ParamError{Msg: "malformed dotted parameter list: nothing follows '.'"}
				}
				restName, ok := ToSymbol(rest.Car)
				if !ok {
					return Params{}, &ParamError{Msg: "rest parameter name must be a symbol"}
				}
				if _, isNil := rest.Cdr.(Nil); !isNil {
					return Params{}, &ParamError{Msg: "malformed dotted parameter list: more than one name after '.'"}
				}
				return Params{Fixed: fixed, Variadic: restName.Name}, nil
			}
			fixed = append(fixed, sym.Name)
			cur = x.Cdr
		default:
			// improper tail without an explicit "." symbol, e.g. (a . b)
			// parsed directly as nested Pairs by the reader.
			restName, ok := ToSymbol(cur)
			if !ok {
				return Params{}, &ParamError{Msg: fmt.Sprintf("malformed parameter list tail: %s", cur.Type())}
			}
			return Params{Fixed: fixed, Variadic: restName.Name}, nil
		}
	}
}

// Arity reports the minimum number of arguments this parameter list
// requires, and whether it accepts unbounded extra arguments.
func (p Params) Arity() (min int, variadic bool) {
	return len(p.Fixed), p.Variadic != ""
}

// Bind creates a child of parent with each parameter name bound to its
// corresponding argument; extra arguments (when Variadic is set) are
// collected into a list bound to Variadic.
func (p Params) Bind(parent *Env, args []Value) (*Env, error) {
	min, variadic := p.Arity()
	if variadic {
		if len(args) < min {
			return nil, &ParamError{Msg: fmt.Sprintf("expected at least %d argument(s), got %d", min, len(args))}
		}
	} else if len(args) != min {
		return nil, &ParamError{Msg: fmt.Sprintf("expected %d argument(s), got %d", min, len(args))}
	}

	env := parent.Child()
	for i, name := range p.Fixed {
		env.Define(name, args[i])
	}
	if variadic {
		env.Define(p.Variadic, FromSlice(args[len(p.Fixed):]))
	}
	return env, nil
}
