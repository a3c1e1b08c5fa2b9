package wowlog

// Stats summarizes a scan. The zero value is ready to use.
// Stats is not safe for concurrent use.
type Stats struct {
	// Lines counts non-blank lines seen (Parsed + Malformed).
	Lines int `json:"lines"`

	// Parsed counts lines that matched the grammar.
	Parsed int `json:"parsed"`

	// Malformed counts lines that did not.
	Malformed int `json:"malformed"`

	// WithRest counts parsed lines that left unconsumed input.
	WithRest int `json:"with_rest"`

	// ByKind counts malformed lines per failure kind.
	ByKind map[Kind]int `json:"-"`

	// Events counts parsed lines per event name (first payload field).
	Events map[string]int `json:"events,omitempty"`
}

// Add records a parsed entry.
func (s *Stats) Add(e Entry) {
	s.Lines++
	s.Parsed++
	if e.Rest != "" {
		s.WithRest++
	}
	if ev := e.Event(); ev != "" {
		if s.Events == nil {
			s.Events = make(map[string]int)
		}
		s.Events[ev]++
	}
}

// AddMalformed records a malformed line. It has the signature expected by
// WithScanOnMalformed.
func (s *Stats) AddMalformed(le *LineError) {
	s.Lines++
	s.Malformed++
	if s.ByKind == nil {
		s.ByKind = make(map[Kind]int)
	}
	s.ByKind[le.Kind()]++
}
