package wowlog

// defaultGrammar uses the Integer strategy and the Detailed reporter.
var defaultGrammar = MustGrammar()

// DefaultGrammar returns the grammar used by the package-level Parse functions.
func DefaultGrammar() *Grammar {
	return defaultGrammar
}

// ParseLine parses a single combat log line with the default grammar.
//
// Return values:
//   - (Record, rest, nil): successfully parsed; rest is unconsumed input
//   - (Record{}, line, error): malformed line; the error is a *LineError
//
// Example:
//
//	rec, _, err := wowlog.ParseLine("10/17 01:00:29.037  SPELL_DAMAGE,Player-1,Foo")
//	if err != nil {
//	    log.Printf("skipping line: %v", err)
//	} else {
//	    fmt.Println(rec.Event(), rec.Time)
//	}
func ParseLine(line string) (Record, string, error) {
	return defaultGrammar.ParseLine(line)
}

// ParseStamp parses the date and time prefix of line with the default grammar.
func ParseStamp(line string) (Stamp, string, error) {
	return defaultGrammar.ParseStamp(line)
}

// ParseTime parses a time token such as "00:46:03.895".
func ParseTime(s string) (Time, string, error) {
	return defaultGrammar.ParseTime(s)
}

// ParseDate parses a date token such as "10/16".
func ParseDate(s string) (Date, string, error) {
	return defaultGrammar.ParseDate(s)
}

// ParseFields splits a payload on commas. It never fails.
func ParseFields(s string) []string {
	return defaultGrammar.ParseFields(s)
}
