// Package wowlog parses World of Warcraft combat log lines.
//
// Every line of a combat log starts with a date and a time followed by a
// comma-separated payload:
//
//	10/17 01:00:29.037  SPELL_DAMAGE,Player-1084-0A5F4B21,"Thrall-Draenor",...
//
// This package allows you to:
//   - Parse a single line into a Record (date, time, payload fields)
//   - Scan a whole log file, skipping or stopping at malformed lines
//   - Follow the newest combat log in real time
//   - Compose your own line grammars from the same building blocks
//
// # Parsing Lines
//
//	rec, rest, err := wowlog.ParseLine(line)
//	if err != nil {
//	    // err is a *LineError; the line can be skipped
//	}
//
// Parsing never panics. Numbers are read digit by digit and anything that
// does not fit in 16 bits fails with NumericOverflow. Calendar and clock
// ranges are not checked by the parser; use Record.Timestamp for that.
// Input the grammar does not describe is returned as rest, not rejected.
//
// # Grammars
//
// A [Grammar] is assembled from combinators over [Parser] values. Two
// concerns are pluggable:
//
//   - [NumberStrategy]: [Integer] reads digit runs, [Truncating] reads a
//     decimal literal and drops its fraction.
//   - [Reporter]: [Detailed] records where and why a parse failed,
//     [Brief] returns shared sentinel errors without allocating.
//
//	g, err := wowlog.NewGrammar(
//	    wowlog.WithReporter(wowlog.Brief),
//	    wowlog.WithFieldDelimiter('|'),
//	)
//
// Grammars are immutable and safe for concurrent use.
//
// # Scanning Files
//
//	for entry, err := range wowlog.ScanFile(ctx, "WoWCombatLog.txt") {
//	    if err != nil {
//	        log.Fatal(err) // the file itself is unusable
//	    }
//	    fmt.Println(entry.Number, entry.Event())
//	}
//
// # Following Logs
//
// [Follower] tails the newest WoWCombatLog*.txt in the game's Logs
// directory and switches files when a new session log appears.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Blizzard Entertainment.
package wowlog
