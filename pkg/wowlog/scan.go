package wowlog

import (
	"bufio"
	"context"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/wowlog/wowlog-go/internal/decompress"
	"github.com/wowlog/wowlog-go/internal/safefile"
)

// Entry is a parsed line together with its position in the source.
type Entry struct {
	// Number is the 1-based line number.
	Number int `json:"line"`

	Record

	// Rest is input after the grammar's end, normally empty.
	Rest string `json:"rest,omitempty"`

	// Raw is the original line, set only with WithScanIncludeRaw or
	// WithFollowIncludeRaw.
	Raw string `json:"raw,omitempty"`
}

// Scan parses every line read from r, in order.
//
// Malformed lines are skipped unless WithScanStopOnError is set, in which
// case the *LineError is yielded and the scan ends. Read failures and lines
// that are not valid UTF-8 yield a *ScanError and end the scan. Blank lines
// are ignored. A trailing "\r" is removed from every line.
//
// The iterator stops with ctx.Err() when ctx is cancelled.
func Scan(ctx context.Context, r io.Reader, opts ...ScanOption) iter.Seq2[Entry, error] {
	cfg := applyScanOptions(opts)
	return func(yield func(Entry, error) bool) {
		scanLines(ctx, r, "", cfg, yield)
	}
}

// ScanFile opens path and parses its lines like Scan. The file must be a
// regular file; failure to open it yields a *ScanError. Gzip and zstd
// compressed files are decompressed transparently.
//
// Example:
//
//	for entry, err := range wowlog.ScanFile(ctx, "WoWCombatLog.txt") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(entry.Time, entry.Event())
//	}
func ScanFile(ctx context.Context, path string, opts ...ScanOption) iter.Seq2[Entry, error] {
	cfg := applyScanOptions(opts)
	return func(yield func(Entry, error) bool) {
		f, _, err := safefile.OpenRegular(path)
		if err != nil {
			yield(Entry{}, &ScanError{Op: ScanOpOpen, Path: path, Err: err})
			return
		}
		defer f.Close()

		r, err := decompress.NewReader(f)
		if err != nil {
			yield(Entry{}, &ScanError{Op: ScanOpOpen, Path: path, Err: err})
			return
		}
		defer r.Close()

		cfg.logger.Debug("scanning file", "path", path, "compression", r.Format)
		scanLines(ctx, r, path, cfg, yield)
	}
}

// ScanFileAll collects every entry of path. It returns the entries read so
// far together with the first error.
func ScanFileAll(ctx context.Context, path string, opts ...ScanOption) ([]Entry, error) {
	var entries []Entry
	for e, err := range ScanFile(ctx, path, opts...) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// initialLineBuffer is the starting size of the line buffer; it grows up
// to the configured maximum.
const initialLineBuffer = 64 * 1024

func scanLines(ctx context.Context, r io.Reader, path string, cfg *scanConfig, yield func(Entry, error) bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(initialLineBuffer, cfg.maxLineBytes)), cfg.maxLineBytes)

	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			yield(Entry{}, err)
			return
		}

		// Text copies the scanner buffer, so records may keep borrowing
		// from line after the next Scan.
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			yield(Entry{}, &ScanError{Op: ScanOpDecode, Path: path, Line: n, Err: ErrInvalidUTF8})
			return
		}

		rec, rest, err := cfg.grammar.line(line)
		if err != nil {
			le := newLineError(line, err)
			le.Number = n
			if cfg.onMalformed != nil {
				cfg.onMalformed(le)
			}
			if cfg.stopOnError {
				yield(Entry{}, le)
				return
			}
			cfg.logger.Debug("skipping malformed line", "line", n, "offset", le.Offset, "error", le.Err)
			continue
		}

		e := Entry{Number: n, Record: rec, Rest: rest}
		if cfg.includeRaw {
			e.Raw = line
		}
		if !yield(e, nil) {
			return
		}
	}

	if err := sc.Err(); err != nil {
		yield(Entry{}, &ScanError{Op: ScanOpRead, Path: path, Err: err})
	}
}
