package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsSpace reports whether c is a horizontal whitespace character.
func IsSpace(c byte) bool { return c == ' ' || c == '\t' }

func countDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// Digits scans the maximal leading run of decimal digits as an unsigned
// 16-bit integer. Leading zeros are accepted.
//
// An empty run fails with NoDigits (IncompleteLine on empty input), a run
// whose value exceeds 65535 fails with NumericOverflow. A run beginning
// with a non-digit is a failure, never the value 0.
func Digits(r Reporter) Parser[uint16] {
	return func(input string) (uint16, string, error) {
		var v uint32
		overflow := false
		n := 0
		for n < len(input) && isDigit(input[n]) {
			if !overflow {
				v = v*10 + uint32(input[n]-'0')
				overflow = v > math.MaxUint16
			}
			n++
		}
		switch {
		case n == 0 && input == "":
			return 0, input, r.Report(IncompleteLine, input, "digit")
		case n == 0:
			return 0, input, r.Report(NoDigits, input, "digit")
		case overflow:
			return 0, input, r.Report(NumericOverflow, input, "number in range 0-65535")
		}
		return uint16(v), input[n:], nil
	}
}

// OneOf matches exactly one byte from set.
// Anything else, including end of input, fails with UnexpectedDelimiter.
func OneOf(r Reporter, set string) Parser[byte] {
	expected := fmt.Sprintf("one of %q", set)
	return func(input string) (byte, string, error) {
		if input == "" || strings.IndexByte(set, input[0]) < 0 {
			return 0, input, r.Report(UnexpectedDelimiter, input, expected)
		}
		return input[0], input[1:], nil
	}
}

// floatLen returns the length of the decimal floating-point literal at the
// start of s: [+-]? digits? ('.' digits?)? ([eE] [+-]? digits)?
// with at least one mantissa digit. It returns 0 when there is none.
func floatLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := countDigits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = countDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if d := countDigits(s[j:]); d > 0 {
			i = j + d
		}
	}
	return i
}

// Float scans a decimal floating-point literal and truncates it toward
// zero. The fractional part is discarded, never rounded: "2.9" is 2 and
// "-2.9" is -2. An exponent marker without digits is left unconsumed.
//
// Values outside the int64 range fail with NumericOverflow.
func Float(r Reporter) Parser[int64] {
	return func(input string) (int64, string, error) {
		n := floatLen(input)
		if n == 0 {
			if input == "" {
				return 0, input, r.Report(IncompleteLine, input, "number")
			}
			return 0, input, r.Report(NoDigits, input, "number")
		}
		f, err := strconv.ParseFloat(input[:n], 64)
		if err != nil {
			return 0, input, r.Report(NumericOverflow, input, "finite number")
		}
		t := math.Trunc(f)
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, input, r.Report(NumericOverflow, input, "number in int64 range")
		}
		return int64(t), input[n:], nil
	}
}

// Truncated narrows Float to the unsigned 16-bit range.
// Negative results and results above 65535 fail with NumericOverflow.
func Truncated(r Reporter) Parser[uint16] {
	float := Float(r)
	return func(input string) (uint16, string, error) {
		v, rest, err := float(input)
		if err != nil {
			return 0, input, err
		}
		if v < 0 || v > math.MaxUint16 {
			return 0, input, r.Report(NumericOverflow, input, "number in range 0-65535")
		}
		return uint16(v), rest, nil
	}
}

// Space1 consumes one or more spaces or tabs.
// It fails with MissingWhitespace, or IncompleteLine on empty input.
func Space1(r Reporter) Parser[string] {
	return func(input string) (string, string, error) {
		n := 0
		for n < len(input) && IsSpace(input[n]) {
			n++
		}
		if n == 0 {
			if input == "" {
				return "", input, r.Report(IncompleteLine, input, "whitespace")
			}
			return "", input, r.Report(MissingWhitespace, input, "whitespace")
		}
		return input[:n], input[n:], nil
	}
}

// TakeUntil returns the maximal prefix that does not contain delim.
// The prefix may be empty; TakeUntil never fails.
// The returned span shares memory with input.
func TakeUntil(delim byte) Parser[string] {
	return func(input string) (string, string, error) {
		i := strings.IndexByte(input, delim)
		if i < 0 {
			return input, "", nil
		}
		return input[:i], input[i:], nil
	}
}

// Forbid fails with kind when the next byte satisfies reject, and
// otherwise succeeds without consuming anything.
func Forbid(r Reporter, kind Kind, expected string, reject func(byte) bool) Parser[struct{}] {
	return func(input string) (struct{}, string, error) {
		if input != "" && reject(input[0]) {
			return struct{}{}, input, r.Report(kind, input, expected)
		}
		return struct{}{}, input, nil
	}
}
