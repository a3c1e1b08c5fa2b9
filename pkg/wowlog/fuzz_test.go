package wowlog_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

func FuzzParseLine(f *testing.F) {
	f.Add("10/17 01:00:29.037 HELLO_WORLD")
	f.Add("10/17 01:00:29.037  SPELL_DAMAGE,,x")
	f.Add(" 10/17 01:00:29.037")
	f.Add("10/17 01:00:29.99999")
	f.Add("")
	f.Add("1/1\t1.1.1.1\t")

	brief := wowlog.MustGrammar(wowlog.WithReporter(wowlog.Brief))
	truncating := wowlog.MustGrammar(wowlog.WithNumbers(wowlog.Truncating))

	f.Fuzz(func(t *testing.T, line string) {
		for _, g := range []*wowlog.Grammar{wowlog.DefaultGrammar(), brief, truncating} {
			rec, rest, err := g.ParseLine(line)
			if err != nil {
				var le *wowlog.LineError
				if !errors.As(err, &le) {
					t.Fatalf("error is %T, want *LineError", err)
				}
				if rest != line {
					t.Fatalf("failed parse consumed input: rest %q", rest)
				}
				if le.Offset > len(line) {
					t.Fatalf("offset %d beyond line length %d", le.Offset, len(line))
				}
				if le.Kind() == 0 {
					t.Fatalf("error %v has no kind", err)
				}
				continue
			}
			if !strings.HasSuffix(line, rest) {
				t.Fatalf("rest %q is not a suffix of %q", rest, line)
			}
			for _, field := range rec.Fields {
				if strings.IndexByte(field, ',') >= 0 {
					t.Fatalf("field %q contains delimiter", field)
				}
			}
		}
	})
}

func FuzzStampRoundTrip(f *testing.F) {
	f.Add(uint16(10), uint16(17), uint16(1), uint16(0), uint16(29), uint16(37), "HELLO_WORLD")
	f.Add(uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), uint16(0), "")

	f.Fuzz(func(t *testing.T, mo, d, h, mi, s, ms uint16, payload string) {
		if strings.ContainsAny(payload, "\r\n") {
			t.Skip()
		}
		payload = strings.TrimLeft(payload, " \t")
		line := fmt.Sprintf("%d/%d %d:%d:%d.%d %s", mo, d, h, mi, s, ms, payload)

		rec, rest, err := wowlog.ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		want := wowlog.Record{
			Date: wowlog.Date{Month: mo, Day: d},
			Time: wowlog.Time{Hour: h, Minute: mi, Second: s, Millisecond: ms},
		}
		if rec.Date != want.Date || rec.Time != want.Time {
			t.Fatalf("ParseLine(%q) = %v %v, want %v %v", line, rec.Date, rec.Time, want.Date, want.Time)
		}
		if rest != "" {
			t.Fatalf("ParseLine(%q) left %q", line, rest)
		}
		if got := strings.Join(rec.Fields, ","); got != payload {
			t.Fatalf("fields %q do not rebuild payload %q", rec.Fields, payload)
		}
	})
}
