package wowlog

import (
	"errors"
	"fmt"

	"github.com/wowlog/wowlog-go/internal/logfinder"
	"github.com/wowlog/wowlog-go/internal/parser"
)

// Kind classifies a line parse failure.
type Kind = parser.Kind

// Parse failure kinds.
const (
	NoDigits             = parser.NoDigits
	NumericOverflow      = parser.NumericOverflow
	UnexpectedDelimiter  = parser.UnexpectedDelimiter
	UnexpectedWhitespace = parser.UnexpectedWhitespace
	MissingWhitespace    = parser.MissingWhitespace
	IncompleteLine       = parser.IncompleteLine
)

// ParseError is the error value built by the Brief and Detailed reporters.
// Use errors.Is against the Err* sentinels to test for a kind.
type ParseError = parser.Error

// Sentinel parse errors, matched by kind with errors.Is.
var (
	ErrNoDigits             = parser.ErrNoDigits
	ErrNumericOverflow      = parser.ErrNumericOverflow
	ErrUnexpectedDelimiter  = parser.ErrUnexpectedDelimiter
	ErrUnexpectedWhitespace = parser.ErrUnexpectedWhitespace
	ErrMissingWhitespace    = parser.ErrMissingWhitespace
	ErrIncompleteLine       = parser.ErrIncompleteLine
)

// Sentinel errors.
var (
	// ErrOutOfRange is returned by Timestamp when a parsed field is not a
	// valid calendar or clock value.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidUTF8 is returned when a line read from a file is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

	// ErrFollowerClosed is returned by Follow after Close.
	ErrFollowerClosed = errors.New("follower closed")

	// ErrAlreadyFollowing is returned when Follow is called twice.
	ErrAlreadyFollowing = errors.New("already following")

	// ErrNoLogFiles is returned when the log directory holds no combat logs.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrLogDirNotFound is returned when no log directory can be located.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound
)

// KindOf returns the parse failure kind carried by err, or 0 if err is not
// a parse failure.
func KindOf(err error) Kind {
	return parser.KindOf(err)
}

// LineError reports a line that does not match the grammar.
type LineError struct {
	// Line is the input line.
	Line string

	// Number is the 1-based line number within the scanned source,
	// or 0 when the line was parsed on its own.
	Number int

	// Offset is the byte offset of the failure within Line,
	// or -1 when the reporter did not record a position.
	Offset int

	Err error
}

func (e *LineError) Error() string {
	prefix := "parse line"
	if e.Number > 0 {
		prefix = fmt.Sprintf("parse line %d", e.Number)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: offset %d: %v", prefix, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Kind returns the kind of the underlying parse failure.
func (e *LineError) Kind() Kind {
	return parser.KindOf(e.Err)
}

// newLineError wraps a grammar failure for line, locating it when the
// reporter recorded how much input remained.
func newLineError(line string, err error) *LineError {
	offset := -1
	var pe *parser.Error
	if errors.As(err, &pe) && pe.Remaining >= 0 && pe.Remaining <= len(line) {
		offset = len(line) - pe.Remaining
	}
	return &LineError{Line: line, Offset: offset, Err: err}
}

// ScanOp identifies the scan step that failed.
type ScanOp string

// Scan operations.
const (
	ScanOpOpen   ScanOp = "open"
	ScanOpRead   ScanOp = "read"
	ScanOpDecode ScanOp = "decode"
)

// ScanError reports a failure of the line source itself. Unlike a
// LineError it always ends the scan.
type ScanError struct {
	Op   ScanOp
	Path string // empty for Scan over an io.Reader
	Line int    // line number for ScanOpDecode, 0 otherwise
	Err  error
}

func (e *ScanError) Error() string {
	msg := "scan " + string(e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// FollowOp identifies the follow step that failed.
type FollowOp string

// Follow operations.
const (
	FollowOpFindLatest FollowOp = "find_latest"
	FollowOpTail       FollowOp = "tail"
	FollowOpRotation   FollowOp = "rotation"
	FollowOpDecode     FollowOp = "decode"
)

// FollowError reports a failure while following a log directory.
type FollowError struct {
	Op   FollowOp
	Path string
	Line int // line number for FollowOpDecode, 0 otherwise
	Err  error
}

func (e *FollowError) Error() string {
	msg := "follow " + string(e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	return msg + ": " + e.Err.Error()
}

func (e *FollowError) Unwrap() error {
	return e.Err
}
