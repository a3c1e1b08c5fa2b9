package wowlog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     wowlog.Time
		wantRest string
		wantErr  error
	}{
		{
			name:  "colons and dot",
			input: "00:46:03.895",
			want:  wowlog.Time{Hour: 0, Minute: 46, Second: 3, Millisecond: 895},
		},
		{
			name:  "delimiters chosen per position",
			input: "1.2:3:4",
			want:  wowlog.Time{Hour: 1, Minute: 2, Second: 3, Millisecond: 4},
		},
		{
			name:     "stops after millisecond",
			input:    "01:00:29.037  SPELL_DAMAGE",
			want:     wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
			wantRest: "  SPELL_DAMAGE",
		},
		{
			name:  "no range validation",
			input: "99:99:99.9999",
			want:  wowlog.Time{Hour: 99, Minute: 99, Second: 99, Millisecond: 9999},
		},
		{name: "missing millisecond", input: "00:46:03", wantErr: wowlog.ErrUnexpectedDelimiter},
		{name: "wrong delimiter", input: "00-46:03.895", wantErr: wowlog.ErrUnexpectedDelimiter},
		{name: "empty field", input: "00::03.895", wantErr: wowlog.ErrNoDigits},
		{name: "overflow", input: "00:46:03.70000", wantErr: wowlog.ErrNumericOverflow},
		{name: "truncated after delimiter", input: "00:46:", wantErr: wowlog.ErrIncompleteLine},
		{name: "empty", input: "", wantErr: wowlog.ErrIncompleteLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := wowlog.ParseTime(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.input, rest, "failed parse must not consume input")
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, rest, err := wowlog.ParseDate("10/16")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Date{Month: 10, Day: 16}, got)
	assert.Empty(t, rest)

	got, rest, err = wowlog.ParseDate("1/5 00:00")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Date{Month: 1, Day: 5}, got)
	assert.Equal(t, " 00:00", rest)

	_, rest, err = wowlog.ParseDate("10.16")
	assert.ErrorIs(t, err, wowlog.ErrUnexpectedDelimiter)
	assert.Equal(t, "10.16", rest)

	_, _, err = wowlog.ParseDate("10/")
	assert.ErrorIs(t, err, wowlog.ErrIncompleteLine)

	_, _, err = wowlog.ParseDate("/16")
	assert.ErrorIs(t, err, wowlog.ErrNoDigits)

	_, _, err = wowlog.ParseDate("70000/1")
	assert.ErrorIs(t, err, wowlog.ErrNumericOverflow)
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "a,a,a", want: []string{"a", "a", "a"}},
		{input: "", want: []string{}},
		{input: "a,,b", want: []string{"a", "", "b"}},
		{input: "HELLO_WORLD", want: []string{"HELLO_WORLD"}},
		{input: `SPELL_DAMAGE,"Thrall-Draenor",0x511`, want: []string{"SPELL_DAMAGE", `"Thrall-Draenor"`, "0x511"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := wowlog.ParseFields(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     wowlog.Record
		wantRest string
	}{
		{
			name:  "single field payload",
			input: "10/17 01:00:29.037 HELLO_WORLD",
			want: wowlog.Record{
				Date:   wowlog.Date{Month: 10, Day: 17},
				Time:   wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
				Fields: []string{"HELLO_WORLD"},
			},
		},
		{
			name:  "game style double space",
			input: "10/17 01:00:29.037  SPELL_DAMAGE,Player-1,,0x511",
			want: wowlog.Record{
				Date:   wowlog.Date{Month: 10, Day: 17},
				Time:   wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
				Fields: []string{"SPELL_DAMAGE", "Player-1", "", "0x511"},
			},
		},
		{
			name:  "tabs as whitespace",
			input: "1/2\t3:4:5.6\tX",
			want: wowlog.Record{
				Date:   wowlog.Date{Month: 1, Day: 2},
				Time:   wowlog.Time{Hour: 3, Minute: 4, Second: 5, Millisecond: 6},
				Fields: []string{"X"},
			},
		},
		{
			name:  "stamp only",
			input: "10/17 01:00:29.037",
			want: wowlog.Record{
				Date: wowlog.Date{Month: 10, Day: 17},
				Time: wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
			},
		},
		{
			name:  "blank payload",
			input: "10/17 01:00:29.037   ",
			want: wowlog.Record{
				Date:   wowlog.Date{Month: 10, Day: 17},
				Time:   wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
				Fields: []string{},
			},
		},
		{
			name:  "trailing content without whitespace is returned",
			input: "10/17 01:00:29.037X,Y",
			want: wowlog.Record{
				Date: wowlog.Date{Month: 10, Day: 17},
				Time: wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
			},
			wantRest: "X,Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := wowlog.ParseLine(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantKind   wowlog.Kind
		wantOffset int
	}{
		{name: "empty", input: "", wantKind: wowlog.IncompleteLine, wantOffset: 0},
		{name: "leading whitespace", input: " 10/17 01:00:29.037", wantKind: wowlog.UnexpectedWhitespace, wantOffset: 0},
		{name: "header text", input: "COMBAT_LOG_VERSION,20", wantKind: wowlog.NoDigits, wantOffset: 0},
		{name: "date only", input: "10/17", wantKind: wowlog.IncompleteLine, wantOffset: 5},
		{name: "no space after date", input: "10/17x01:00:29.037", wantKind: wowlog.MissingWhitespace, wantOffset: 5},
		{name: "bad day", input: "10/x 01:00:29.037", wantKind: wowlog.NoDigits, wantOffset: 3},
		{name: "bad time delimiter", input: "10/17 01-00:29.037", wantKind: wowlog.UnexpectedDelimiter, wantOffset: 8},
		{name: "millisecond overflow", input: "10/17 01:00:29.99999 X", wantKind: wowlog.NumericOverflow, wantOffset: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := wowlog.ParseLine(tt.input)
			require.Error(t, err)
			assert.Zero(t, got)
			assert.Equal(t, tt.input, rest)

			var le *wowlog.LineError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.wantKind, le.Kind())
			assert.Equal(t, tt.wantKind, wowlog.KindOf(err))
			assert.Equal(t, tt.wantOffset, le.Offset)
			assert.Equal(t, tt.input, le.Line)
		})
	}
}

func TestParseLine_RoundTrip(t *testing.T) {
	for _, c := range []struct{ d1, d2, h, m, s, ms uint16 }{
		{1, 1, 0, 0, 0, 0},
		{10, 17, 1, 0, 29, 37},
		{12, 31, 23, 59, 59, 999},
		{9999, 65535, 65535, 1000, 4, 7},
	} {
		line := fmt.Sprintf("%d/%d %d:%d:%d.%d rest,of,line", c.d1, c.d2, c.h, c.m, c.s, c.ms)
		rec, rest, err := wowlog.ParseLine(line)
		require.NoError(t, err, line)
		assert.Empty(t, rest)
		assert.Equal(t, wowlog.Date{Month: c.d1, Day: c.d2}, rec.Date)
		assert.Equal(t, wowlog.Time{Hour: c.h, Minute: c.m, Second: c.s, Millisecond: c.ms}, rec.Time)
		assert.Equal(t, []string{"rest", "of", "line"}, rec.Fields)
	}
}

func TestParseStamp(t *testing.T) {
	s, rest, err := wowlog.ParseStamp("10/17 01:00:29.037  SPELL_DAMAGE,A")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Stamp{
		Date: wowlog.Date{Month: 10, Day: 17},
		Time: wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37},
	}, s)
	// The minimal grammar never reaches into the payload.
	assert.Equal(t, "  SPELL_DAMAGE,A", rest)

	_, _, err = wowlog.ParseStamp("10/17")
	var le *wowlog.LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, wowlog.IncompleteLine, le.Kind())
}

func TestGrammar_BriefReporter(t *testing.T) {
	g, err := wowlog.NewGrammar(wowlog.WithReporter(wowlog.Brief))
	require.NoError(t, err)

	_, _, err = g.ParseLine("10/17 01:00:xx.037")
	var le *wowlog.LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, -1, le.Offset)
	assert.Same(t, wowlog.ErrNoDigits, le.Err)
	assert.Equal(t, "parse line: no digits", err.Error())
}

func TestGrammar_DetailedMessage(t *testing.T) {
	_, _, err := wowlog.ParseLine("10/17 01:00:xx.037")
	require.Error(t, err)
	assert.Equal(t, `parse line: offset 12: no digits: expected digit, found "xx.037"`, err.Error())
}

func TestGrammar_TruncatingNumbers(t *testing.T) {
	g, err := wowlog.NewGrammar(wowlog.WithNumbers(wowlog.Truncating))
	require.NoError(t, err)

	d, rest, err := g.ParseDate("10.9/16.2")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Date{Month: 10, Day: 16}, d)
	assert.Empty(t, rest)

	tm, _, err := g.ParseTime("1:2:3:4")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Time{Hour: 1, Minute: 2, Second: 3, Millisecond: 4}, tm)

	// The seconds literal swallows ".895", so the millisecond delimiter is missing.
	_, _, err = g.ParseTime("00:46:03.895")
	assert.ErrorIs(t, err, wowlog.ErrUnexpectedDelimiter)

	// A negative number is outside the unsigned range.
	_, _, err = g.ParseDate("-1/2")
	assert.ErrorIs(t, err, wowlog.ErrNumericOverflow)
}

func TestGrammar_CustomNumberStrategy(t *testing.T) {
	calls := 0
	strategy := wowlog.NumberStrategyFunc(func(r wowlog.Reporter) wowlog.Parser[uint16] {
		calls++
		return wowlog.Integer.Number(r)
	})

	g, err := wowlog.NewGrammar(wowlog.WithNumbers(strategy))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "strategy is built once per grammar")

	_, _, err = g.ParseLine("10/17 01:00:29.037 X")
	require.NoError(t, err)
}

func TestGrammar_FieldDelimiter(t *testing.T) {
	g, err := wowlog.NewGrammar(wowlog.WithFieldDelimiter('|'))
	require.NoError(t, err)

	rec, _, err := g.ParseLine("10/17 01:00:29.037 a|b,c||d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c", "", "d"}, rec.Fields)
}

func TestGrammar_DateAndTimeDelimiters(t *testing.T) {
	g, err := wowlog.NewGrammar(wowlog.WithDateDelimiter('-'), wowlog.WithTimeDelimiters(":"))
	require.NoError(t, err)

	rec, _, err := g.ParseLine("10-17 01:00:29:037")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Date{Month: 10, Day: 17}, rec.Date)

	_, _, err = g.ParseLine("10/17 01:00:29:037")
	assert.ErrorIs(t, err, wowlog.ErrUnexpectedDelimiter)
	_, _, err = g.ParseLine("10-17 01:00:29.037")
	assert.ErrorIs(t, err, wowlog.ErrUnexpectedDelimiter)
}

func TestGrammar_TimeDelimiterAlternatives(t *testing.T) {
	g, err := wowlog.NewGrammar(wowlog.WithTimeDelimiters(":.-"), wowlog.WithReporter(wowlog.Detailed))
	require.NoError(t, err)

	tm, _, err := g.ParseTime("01-00.29:037")
	require.NoError(t, err)
	assert.Equal(t, wowlog.Time{Hour: 1, Minute: 0, Second: 29, Millisecond: 37}, tm)

	_, rest, err := g.ParseTime("01_00:29.037")
	assert.ErrorIs(t, err, wowlog.ErrUnexpectedDelimiter)
	assert.ErrorContains(t, err, `expected one of ":.-"`)
	assert.Equal(t, "01_00:29.037", rest)
}

func TestNewGrammar_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  wowlog.GrammarOption
	}{
		{"empty time delimiters", wowlog.WithTimeDelimiters("")},
		{"digit time delimiter", wowlog.WithTimeDelimiters(":1")},
		{"space field delimiter", wowlog.WithFieldDelimiter(' ')},
		{"tab date delimiter", wowlog.WithDateDelimiter('\t')},
		{"date delimiter shared with time", wowlog.WithDateDelimiter('.')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wowlog.NewGrammar(tt.opt)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() { wowlog.MustGrammar(wowlog.WithTimeDelimiters("")) })
}

func TestGrammar_NilOptionsIgnored(t *testing.T) {
	g, err := wowlog.NewGrammar(nil, wowlog.WithNumbers(nil), wowlog.WithReporter(nil))
	require.NoError(t, err)

	_, _, err = g.ParseLine("10/17 01:00:29.037 X")
	assert.NoError(t, err)
}

func TestGrammar_ComposableParsers(t *testing.T) {
	g := wowlog.DefaultGrammar()

	n, rest, err := g.Number()("69.420")
	require.NoError(t, err)
	assert.Equal(t, uint16(69), n)
	assert.Equal(t, ".420", rest)

	n, rest, err = g.Number()("999")
	require.NoError(t, err)
	assert.Equal(t, uint16(999), n)
	assert.Empty(t, rest)

	fields, rest, err := g.Fields()("a,b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fields)
	assert.Empty(t, rest)

	_, _, err = g.Line()("nope")
	assert.ErrorIs(t, err, wowlog.ErrNoDigits)
}

func TestGrammar_ConcurrentUse(t *testing.T) {
	g := wowlog.DefaultGrammar()
	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func(i int) {
			var err error
			for j := 0; j < 200 && err == nil; j++ {
				line := fmt.Sprintf("%d/%d 01:00:%d.%d EV,%d", i+1, j%28+1, j%60, j, i)
				var rec wowlog.Record
				rec, _, err = g.ParseLine(line)
				if err == nil && rec.Date.Month != uint16(i+1) {
					err = fmt.Errorf("line %q parsed month %d", line, rec.Date.Month)
				}
			}
			done <- err
		}(i)
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
