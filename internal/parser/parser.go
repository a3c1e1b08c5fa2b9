// Package parser provides the combinator engine behind the combat log line
// grammar.
//
// A Parser consumes a prefix of its input and returns the parsed value
// together with the unconsumed suffix. Parsers never panic on malformed
// input: every failure is an error value built by a Reporter, and a failed
// parser hands back its input unchanged so an alternative can retry from
// the same position.
package parser

import (
	"errors"
	"fmt"
)

// Parser parses a prefix of input.
//
// Returns:
//   - (value, rest, nil): matched; rest is the unconsumed suffix of input
//   - (zero, input, error): no match; input is returned unchanged
type Parser[T any] func(input string) (T, string, error)

// Tuple holds the results of two sequenced parsers.
type Tuple[A, B any] struct {
	First  A
	Second B
}

// Kind classifies a parse failure.
type Kind int

const (
	// NoDigits means a numeric scanner found no leading digit.
	NoDigits Kind = iota + 1
	// NumericOverflow means a number does not fit its declared range.
	NumericOverflow
	// UnexpectedDelimiter means the current character is not one of the
	// accepted separators, or the input ended where one was required.
	UnexpectedDelimiter
	// UnexpectedWhitespace means whitespace appeared where the grammar
	// forbids it.
	UnexpectedWhitespace
	// MissingWhitespace means required separating whitespace is absent.
	MissingWhitespace
	// IncompleteLine means the input ended before the grammar was satisfied.
	IncompleteLine
)

var kindNames = map[Kind]string{
	NoDigits:             "no digits",
	NumericOverflow:      "numeric overflow",
	UnexpectedDelimiter:  "unexpected delimiter",
	UnexpectedWhitespace: "unexpected whitespace",
	MissingWhitespace:    "missing whitespace",
	IncompleteLine:       "incomplete line",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the failure value produced by the built-in reporters.
//
// Two errors are equal under errors.Is when their kinds match, so callers
// can test against the sentinels regardless of which reporter built them.
type Error struct {
	Kind Kind

	// Expected describes what the failing scanner was looking for.
	// Empty for errors built by Brief.
	Expected string

	// Near holds a short excerpt of the input at the failure point.
	Near string

	// Remaining is the length of the unconsumed input at the failure point,
	// or -1 when the reporter did not record a position.
	Remaining int
}

func (e *Error) Error() string {
	if e.Expected == "" {
		return e.Kind.String()
	}
	if e.Remaining == 0 {
		return fmt.Sprintf("%s: expected %s, found end of input", e.Kind, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, found %q", e.Kind, e.Expected, e.Near)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors, one per kind. Brief returns these values directly.
var (
	ErrNoDigits             = &Error{Kind: NoDigits, Remaining: -1}
	ErrNumericOverflow      = &Error{Kind: NumericOverflow, Remaining: -1}
	ErrUnexpectedDelimiter  = &Error{Kind: UnexpectedDelimiter, Remaining: -1}
	ErrUnexpectedWhitespace = &Error{Kind: UnexpectedWhitespace, Remaining: -1}
	ErrMissingWhitespace    = &Error{Kind: MissingWhitespace, Remaining: -1}
	ErrIncompleteLine       = &Error{Kind: IncompleteLine, Remaining: -1}
)

var sentinels = map[Kind]*Error{
	NoDigits:             ErrNoDigits,
	NumericOverflow:      ErrNumericOverflow,
	UnexpectedDelimiter:  ErrUnexpectedDelimiter,
	UnexpectedWhitespace: ErrUnexpectedWhitespace,
	MissingWhitespace:    ErrMissingWhitespace,
	IncompleteLine:       ErrIncompleteLine,
}

// KindOf returns the kind of the first *Error in err's chain,
// or 0 if there is none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// Reporter builds the error returned by a failing scanner.
// input is the unconsumed input at the failure point and expected
// describes what the scanner wanted.
//
// Reporters must be safe for concurrent use.
type Reporter interface {
	Report(kind Kind, input, expected string) error
}

// ReporterFunc is an adapter to allow ordinary functions to be used as Reporters.
type ReporterFunc func(kind Kind, input, expected string) error

// Report implements the Reporter interface.
func (f ReporterFunc) Report(kind Kind, input, expected string) error {
	return f(kind, input, expected)
}

// Brief reports failures as the shared sentinel errors.
// It never allocates, which suits bulk scans that skip malformed lines.
var Brief Reporter = ReporterFunc(func(kind Kind, _, _ string) error {
	if s, ok := sentinels[kind]; ok {
		return s
	}
	return &Error{Kind: kind, Remaining: -1}
})

// nearLen bounds the input excerpt kept by Detailed.
const nearLen = 16

// Detailed reports failures with the failure position, an excerpt of the
// input and what was expected.
var Detailed Reporter = ReporterFunc(func(kind Kind, input, expected string) error {
	near := input
	if len(near) > nearLen {
		near = near[:nearLen]
	}
	return &Error{
		Kind:      kind,
		Expected:  expected,
		Near:      near,
		Remaining: len(input),
	}
})
