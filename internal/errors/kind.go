// Package errors defines jlisp's closed error-kind taxonomy, a JSON-able
// structured report type, and traceback frames.
package errors

import "fmt"

// Kind is the closed set of error kinds a jlisp program can raise, plus one
// open UserDefined escape hatch for user-tagged errors created with (error
// 'name "message").
type Kind struct {
	name string
	user string // non-empty only for UserDefined
}

func (k Kind) String() string {
	if k.user != "" {
		return k.user
	}
	return k.name
}

// Code returns the short phase-prefixed code used in structured reports,
// e.g. "TYP" for TypeError, "USR:my-tag" for a user-defined kind.
func (k Kind) Code() string {
	if k.user != "" {
		return "USR:" + k.user
	}
	code, ok := kindCodes[k.name]
	if !ok {
		return "UNK"
	}
	return code
}

var kindCodes = map[string]string{
	"Exception":      "EXC",
	"AssertionError": "ASR",
	"TypeError":      "TYP",
	"EvalError":      "EVL",
	"ApplyError":     "APL",
	"NotDefined":     "NDF",
	"OsError":        "OSE",
	"SyntaxError":    "SYN",
}

var (
	Exception      = Kind{name: "Exception"}
	AssertionError = Kind{name: "AssertionError"}
	TypeError      = Kind{name: "TypeError"}
	EvalError      = Kind{name: "EvalError"}
	ApplyError     = Kind{name: "ApplyError"}
	NotDefined     = Kind{name: "NotDefined"}
	OsError        = Kind{name: "OsError"}
	SyntaxError    = Kind{name: "SyntaxError"}
)

// UserDefined constructs an open error kind tagged with a user-chosen name,
// e.g. (error 'http-timeout "request took too long").
func UserDefined(tag string) Kind {
	return Kind{user: tag}
}

// IsUserDefined reports whether k was built with UserDefined.
func (k Kind) IsUserDefined() bool {
	return k.user != ""
}

// Equal compares kinds the way spec.md requires: identical kind and message
// compare equal for first-class error values. Kind equality alone is by name.
func (k Kind) Equal(other Kind) bool {
	return k.name == other.name && k.user == other.user
}

// fmt.Stringer sanity: kind must never render as the Go zero value.
var _ fmt.Stringer = Kind{}
