package wowlog

import (
	"fmt"
	"strings"

	"github.com/wowlog/wowlog-go/internal/parser"
)

// Parser parses a prefix of its input and returns the value and the
// unconsumed suffix. On failure the input is returned unchanged.
type Parser[T any] = parser.Parser[T]

// Reporter builds the error returned when a scanner fails.
// It decides how much detail a failure carries.
type Reporter = parser.Reporter

// Built-in reporters.
var (
	// Brief reports failures as the shared sentinel errors without
	// allocating. LineError.Offset is -1 with this reporter.
	Brief = parser.Brief

	// Detailed records the failure position, what was expected and an
	// excerpt of the input.
	Detailed = parser.Detailed
)

// NumberStrategy builds the scanner used for every numeric field of the
// date and time prefix.
type NumberStrategy interface {
	Number(r Reporter) Parser[uint16]
}

// NumberStrategyFunc is an adapter to allow ordinary functions to be used
// as NumberStrategies.
type NumberStrategyFunc func(r Reporter) Parser[uint16]

// Number implements the NumberStrategy interface.
func (f NumberStrategyFunc) Number(r Reporter) Parser[uint16] {
	return f(r)
}

// Built-in number strategies.
var (
	// Integer accepts a run of decimal digits only (default).
	Integer NumberStrategy = NumberStrategyFunc(parser.Digits)

	// Truncating accepts a decimal floating-point literal and truncates it
	// toward zero, so "29.9" reads as 29. Because a fraction is consumed as
	// part of the number, "." cannot also separate fields: with this
	// strategy "03.895" is the second 3, not a second and a millisecond.
	Truncating NumberStrategy = NumberStrategyFunc(parser.Truncated)
)

// Default delimiters.
const (
	DefaultTimeDelimiters = ":."
	DefaultDateDelimiter  = '/'
	DefaultFieldDelimiter = ','
)

// GrammarOption configures a Grammar using the functional options pattern.
type GrammarOption func(*grammarConfig)

type grammarConfig struct {
	numbers        NumberStrategy
	reporter       Reporter
	timeDelimiters string
	dateDelimiter  byte
	fieldDelimiter byte
}

func defaultGrammarConfig() *grammarConfig {
	return &grammarConfig{
		numbers:        Integer,
		reporter:       Detailed,
		timeDelimiters: DefaultTimeDelimiters,
		dateDelimiter:  DefaultDateDelimiter,
		fieldDelimiter: DefaultFieldDelimiter,
	}
}

// validate rejects delimiters that would make the grammar ambiguous.
func (c *grammarConfig) validate() error {
	if c.timeDelimiters == "" {
		return fmt.Errorf("time delimiters must not be empty")
	}
	check := func(what string, b byte) error {
		if b >= '0' && b <= '9' || parser.IsSpace(b) || b == '\n' || b == '\r' {
			return fmt.Errorf("%s delimiter %q must not be a digit or whitespace", what, b)
		}
		return nil
	}
	for i := 0; i < len(c.timeDelimiters); i++ {
		if err := check("time", c.timeDelimiters[i]); err != nil {
			return err
		}
	}
	if err := check("date", c.dateDelimiter); err != nil {
		return err
	}
	if err := check("field", c.fieldDelimiter); err != nil {
		return err
	}
	if strings.IndexByte(c.timeDelimiters, c.dateDelimiter) >= 0 {
		return fmt.Errorf("date delimiter %q is also a time delimiter", c.dateDelimiter)
	}
	return nil
}

// WithNumbers sets the number scanning strategy. Default: Integer.
// A nil strategy has no effect.
func WithNumbers(s NumberStrategy) GrammarOption {
	return func(c *grammarConfig) {
		if s != nil {
			c.numbers = s
		}
	}
}

// WithReporter sets how failures are reported. Default: Detailed.
// A nil reporter has no effect.
func WithReporter(r Reporter) GrammarOption {
	return func(c *grammarConfig) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithTimeDelimiters sets the characters accepted between time fields.
// Each position may use any of them. Default: ":.".
func WithTimeDelimiters(set string) GrammarOption {
	return func(c *grammarConfig) {
		c.timeDelimiters = set
	}
}

// WithDateDelimiter sets the character between month and day. Default: '/'.
func WithDateDelimiter(b byte) GrammarOption {
	return func(c *grammarConfig) {
		c.dateDelimiter = b
	}
}

// WithFieldDelimiter sets the payload field separator. Default: ','.
func WithFieldDelimiter(b byte) GrammarOption {
	return func(c *grammarConfig) {
		c.fieldDelimiter = b
	}
}

// Grammar is the combat log line grammar:
//
//	line   = date ws+ time [ws+ fields]
//	date   = num "/" num
//	time   = num delim num delim num delim num    (delim is ":" or ".")
//	fields = span *("," span)                     (spans may be empty)
//
// A Grammar is immutable and safe for concurrent use by multiple goroutines.
type Grammar struct {
	cfg grammarConfig

	number Parser[uint16]
	date   Parser[Date]
	time   Parser[Time]
	fields Parser[[]string]
	stamp  Parser[Stamp]
	line   Parser[Record]
}

// NewGrammar builds a Grammar from options.
// Returns an error for delimiter settings that would make lines ambiguous.
func NewGrammar(opts ...GrammarOption) (*Grammar, error) {
	cfg := defaultGrammarConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	r := cfg.reporter
	g := &Grammar{cfg: *cfg}
	g.number = cfg.numbers.Number(r)

	timeDelim := timeDelimiter(r, cfg.timeDelimiters)
	g.time = parser.Map(
		parser.Seq(
			g.number,
			parser.Preceded(timeDelim, g.number),
			parser.Preceded(timeDelim, g.number),
			parser.Preceded(timeDelim, g.number),
		),
		func(v []uint16) Time {
			return Time{Hour: v[0], Minute: v[1], Second: v[2], Millisecond: v[3]}
		},
	)

	g.date = parser.Map(
		parser.SeparatedPair(g.number, parser.OneOf(r, string(cfg.dateDelimiter)), g.number),
		func(v parser.Tuple[uint16, uint16]) Date {
			return Date{Month: v.First, Day: v.Second}
		},
	)

	g.fields = parser.SeparatedList0(
		parser.TakeUntil(cfg.fieldDelimiter),
		parser.OneOf(r, string(cfg.fieldDelimiter)),
	)

	g.stamp = parser.Map(
		parser.Preceded(
			parser.Forbid(r, parser.UnexpectedWhitespace, "date", parser.IsSpace),
			parser.SeparatedPair(g.date, parser.Space1(r), g.time),
		),
		func(v parser.Tuple[Date, Time]) Stamp {
			return Stamp{Date: v.First, Time: v.Second}
		},
	)

	g.line = parser.Map(
		parser.Pair(g.stamp, parser.Opt(parser.Preceded(parser.Space1(r), g.fields))),
		func(v parser.Tuple[Stamp, []string]) Record {
			return Record{Date: v.First.Date, Time: v.First.Time, Fields: v.Second}
		},
	)

	return g, nil
}

// timeDelimiter accepts any single character of set. Each character is its
// own alternative; a miss is reported against the whole set.
func timeDelimiter(r parser.Reporter, set string) Parser[byte] {
	alts := make([]parser.Parser[byte], 0, len(set))
	for i := 0; i < len(set); i++ {
		alts = append(alts, parser.OneOf(r, set[i:i+1]))
	}
	alt := parser.Alt(alts...)
	expected := fmt.Sprintf("one of %q", set)
	return func(input string) (byte, string, error) {
		b, rest, err := alt(input)
		if err != nil {
			return 0, input, r.Report(parser.UnexpectedDelimiter, input, expected)
		}
		return b, rest, nil
	}
}

// MustGrammar is like NewGrammar but panics on invalid options.
func MustGrammar(opts ...GrammarOption) *Grammar {
	g, err := NewGrammar(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Number returns the numeric field scanner.
func (g *Grammar) Number() Parser[uint16] { return g.number }

// Date returns the date parser.
func (g *Grammar) Date() Parser[Date] { return g.date }

// Time returns the time parser.
func (g *Grammar) Time() Parser[Time] { return g.time }

// Fields returns the payload field-list parser. It never fails.
func (g *Grammar) Fields() Parser[[]string] { return g.fields }

// Stamp returns the date-and-time prefix parser. The payload, including the
// whitespace before it, is left in the remainder.
func (g *Grammar) Stamp() Parser[Stamp] { return g.stamp }

// Line returns the full line parser.
func (g *Grammar) Line() Parser[Record] { return g.line }

// ParseLine parses a full line.
//
// Return values:
//   - (Record, rest, nil): the line matched; rest is any input the grammar
//     did not describe (normally empty, returned rather than rejected)
//   - (Record{}, line, *LineError): the line does not match; the error
//     wraps the first failure and, with the Detailed reporter, locates it
func (g *Grammar) ParseLine(line string) (Record, string, error) {
	rec, rest, err := g.line(line)
	if err != nil {
		return Record{}, line, newLineError(line, err)
	}
	return rec, rest, nil
}

// ParseStamp parses only the date and time prefix of line.
// Errors are *LineError, as for ParseLine.
func (g *Grammar) ParseStamp(line string) (Stamp, string, error) {
	s, rest, err := g.stamp(line)
	if err != nil {
		return Stamp{}, line, newLineError(line, err)
	}
	return s, rest, nil
}

// ParseTime parses a time token such as "00:46:03.895".
func (g *Grammar) ParseTime(s string) (Time, string, error) {
	return g.time(s)
}

// ParseDate parses a date token such as "10/16".
func (g *Grammar) ParseDate(s string) (Date, string, error) {
	return g.date(s)
}

// ParseFields splits s on the field delimiter. It never fails.
func (g *Grammar) ParseFields(s string) []string {
	fields, _, _ := g.fields(s)
	return fields
}
