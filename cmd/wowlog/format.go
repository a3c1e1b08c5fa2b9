package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wowlog/wowlog-go/internal/config"
	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

// OutputEntry writes an entry in the specified format to the writer.
func OutputEntry(format string, e wowlog.Entry, out io.Writer) error {
	switch format {
	case config.FormatJSONL:
		return OutputJSON(e, out)
	case config.FormatPretty:
		return OutputPretty(e, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an entry as JSON Lines format.
func OutputJSON(e wowlog.Entry, out io.Writer) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes an entry in human-readable format:
//
//	10/17 01:00:29.037 | SPELL_DAMAGE Player-1 "Thrall Draenor"
func OutputPretty(e wowlog.Entry, out io.Writer) error {
	var sb strings.Builder
	sb.WriteString(e.Stamp().String())
	if e.Fields != nil {
		sb.WriteString(" |")
		for _, f := range e.Fields {
			sb.WriteByte(' ')
			sb.WriteString(quoteIfNeeded(f))
		}
	}
	if e.Rest != "" {
		sb.WriteString(" ~ ")
		sb.WriteString(quoteIfNeeded(e.Rest))
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(out, sb.String())
	return err
}

// OutputStats writes a scan summary.
func OutputStats(stats *wowlog.Stats, elapsed time.Duration, out io.Writer) error {
	byKind := make(map[string]int, len(stats.ByKind))
	for k, n := range stats.ByKind {
		byKind[strings.ReplaceAll(k.String(), " ", "_")] = n
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "lines:     %d\n", stats.Lines)
	fmt.Fprintf(&sb, "parsed:    %d\n", stats.Parsed)
	fmt.Fprintf(&sb, "malformed: %d\n", stats.Malformed)
	if len(byKind) > 0 {
		fmt.Fprintf(&sb, "  %s\n", formatCounts(byKind))
	}
	if stats.WithRest > 0 {
		fmt.Fprintf(&sb, "with rest: %d\n", stats.WithRest)
	}
	fmt.Fprintf(&sb, "events:    %d\n", len(stats.Events))
	fmt.Fprintf(&sb, "elapsed:   %d ms\n", elapsed.Milliseconds())

	_, err := io.WriteString(out, sb.String())
	return err
}

// formatCounts formats counts as key=value pairs sorted by key.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(counts))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", quoteIfNeeded(k), counts[k]))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains spaces, quotes, backslashes or
// control characters. An empty value is shown as "".
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	needsQuote := false
	for _, c := range v {
		if c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// caret renders line with a marker under byte offset.
func caret(line string, offset int) string {
	if offset < 0 || offset > len(line) {
		return line
	}
	pad := make([]byte, offset)
	for i := range pad {
		// Keep tabs so the marker lines up in a terminal.
		if line[i] == '\t' {
			pad[i] = '\t'
		} else {
			pad[i] = ' '
		}
	}
	return line + "\n" + string(pad) + "^"
}
