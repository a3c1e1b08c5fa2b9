package wowlog

import (
	"fmt"
	"strings"
	"time"
)

// Time is the time-of-day prefix of a combat log line ("01:00:29.037").
// Fields hold whatever the digits say; ranges are checked by Record.Timestamp.
type Time struct {
	Hour        uint16 `json:"hour"`
	Minute      uint16 `json:"minute"`
	Second      uint16 `json:"second"`
	Millisecond uint16 `json:"millisecond"`
}

// String formats the time as HH:MM:SS.mmm.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
}

// Date is the month/day prefix of a combat log line ("10/17").
type Date struct {
	Month uint16 `json:"month"`
	Day   uint16 `json:"day"`
}

// String formats the date as M/D, the way the game writes it.
func (d Date) String() string {
	return fmt.Sprintf("%d/%d", d.Month, d.Day)
}

// Stamp is the date and time prefix of a line without its payload.
type Stamp struct {
	Date Date `json:"date"`
	Time Time `json:"time"`
}

// String formats the stamp as it appears in the log.
func (s Stamp) String() string {
	return s.Date.String() + " " + s.Time.String()
}

// Record is a fully parsed combat log line.
type Record struct {
	Date Date `json:"date"`
	Time Time `json:"time"`

	// Fields are the comma-separated payload spans. They share memory with
	// the parsed line. Fields is nil when the line has no payload and empty
	// when the payload is blank.
	Fields []string `json:"fields"`
}

// Stamp returns the date and time of the record.
func (r Record) Stamp() Stamp {
	return Stamp{Date: r.Date, Time: r.Time}
}

// Event returns the first payload field, which names the combat event
// (e.g. "SPELL_DAMAGE"), or "" if there is no payload.
func (r Record) Event() string {
	if len(r.Fields) == 0 {
		return ""
	}
	return r.Fields[0]
}

// Clone returns a copy of the record whose fields no longer share memory
// with the parsed line.
func (r Record) Clone() Record {
	if r.Fields == nil {
		return r
	}
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = strings.Clone(f)
	}
	r.Fields = fields
	return r
}

// Timestamp converts the record's date and time to a time.Time in the given
// year and location. Combat logs carry no year, so the caller supplies it.
//
// The parser accepts any digits; this is where calendar and clock ranges
// are enforced. Out-of-range values return an error wrapping ErrOutOfRange.
func (r Record) Timestamp(year int, loc *time.Location) (time.Time, error) {
	return r.Stamp().Timestamp(year, loc)
}

// Timestamp converts the stamp to a time.Time. See Record.Timestamp.
func (s Stamp) Timestamp(year int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, t := s.Date, s.Time
	if d.Month < 1 || d.Month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrOutOfRange, d.Month)
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, time.Month(d.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d.Day < 1 || int(d.Day) > last {
		return time.Time{}, fmt.Errorf("%w: day %d of month %d", ErrOutOfRange, d.Day, d.Month)
	}
	switch {
	case t.Hour > 23:
		return time.Time{}, fmt.Errorf("%w: hour %d", ErrOutOfRange, t.Hour)
	case t.Minute > 59:
		return time.Time{}, fmt.Errorf("%w: minute %d", ErrOutOfRange, t.Minute)
	case t.Second > 59:
		return time.Time{}, fmt.Errorf("%w: second %d", ErrOutOfRange, t.Second)
	case t.Millisecond > 999:
		return time.Time{}, fmt.Errorf("%w: millisecond %d", ErrOutOfRange, t.Millisecond)
	}
	return time.Date(year, time.Month(d.Month), int(d.Day),
		int(t.Hour), int(t.Minute), int(t.Second), int(t.Millisecond)*int(time.Millisecond), loc), nil
}
