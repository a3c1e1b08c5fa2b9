package wowlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/wowlog/wowlog-go/internal/logfinder"
	"github.com/wowlog/wowlog-go/internal/tailer"
)

// followErrBuffer is the buffer size for the error channel.
const followErrBuffer = 16

// Follower tails the newest combat log in a directory and parses each new
// line. When the game starts a new log file, the follower switches to it.
type Follower struct {
	cfg    followConfig // immutable after creation
	logDir string
	log    *slog.Logger

	mu        sync.Mutex
	closed    bool
	cancel    context.CancelFunc
	doneCh    chan struct{}
	following bool
}

// NewFollower creates a follower. It validates options and locates the log
// directory but starts no goroutines.
//
// Example:
//
//	f, err := wowlog.NewFollower(wowlog.WithFollowLogDir(`C:\Games\World of Warcraft\_retail_\Logs`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//	entries, errs, err := f.Follow(ctx)
func NewFollower(opts ...FollowOption) (*Follower, error) {
	cfg := applyFollowOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logDir, err := logfinder.FindLogDir(cfg.logDir)
	if err != nil {
		return nil, fmt.Errorf("finding log directory: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Follower{
		cfg:    *cfg,
		logDir: logDir,
		log:    log,
	}, nil
}

// LogDir returns the resolved log directory.
func (f *Follower) LogDir() string {
	return f.logDir
}

// Follow starts following and returns the entry and error channels.
// Both channels are closed when ctx is cancelled, Close is called, or a
// fatal error occurs. Malformed lines are reported as *LineError on the
// error channel and otherwise skipped.
//
// Follow can only be called once per Follower.
func (f *Follower) Follow(ctx context.Context) (<-chan Entry, <-chan error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, ErrFollowerClosed
	}
	if f.following {
		return nil, nil, ErrAlreadyFollowing
	}
	f.following = true

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.doneCh = make(chan struct{})

	entryCh := make(chan Entry)
	errCh := make(chan error, followErrBuffer)

	go f.run(ctx, entryCh, errCh)

	return entryCh, errCh, nil
}

// Close stops the follower and waits for its goroutine to exit.
// Safe to call multiple times.
func (f *Follower) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
	doneCh := f.doneCh
	f.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (f *Follower) run(ctx context.Context, entryCh chan<- Entry, errCh chan<- error) {
	defer close(f.doneCh)
	defer close(entryCh)
	defer close(errCh)

	logFile, err := logfinder.FindLatestLogFile(f.logDir)
	if err != nil {
		sendError(ctx, errCh, &FollowError{Op: FollowOpFindLatest, Err: err})
		return
	}
	f.log.Debug("found latest combat log", "path", logFile)

	cfg := tailer.DefaultConfig()
	cfg.FromStart = f.cfg.fromStart
	t, err := tailer.New(ctx, logFile, cfg)
	if err != nil {
		sendError(ctx, errCh, &FollowError{Op: FollowOpTail, Path: logFile, Err: err})
		return
	}
	defer func() { _ = t.Stop() }()
	f.log.Debug("started tailing", "path", logFile, "from_start", cfg.FromStart)

	rotationTicker := time.NewTicker(f.cfg.pollInterval)
	defer rotationTicker.Stop()

	currentFile := logFile
	n := 0

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			n++
			f.processLine(ctx, currentFile, n, line, entryCh, errCh)
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			sendError(ctx, errCh, &FollowError{Op: FollowOpTail, Path: currentFile, Err: err})
		case <-rotationTicker.C:
			newFile, err := logfinder.FindLatestLogFile(f.logDir)
			if err != nil {
				if !errors.Is(err, ErrNoLogFiles) {
					sendError(ctx, errCh, &FollowError{Op: FollowOpRotation, Err: err})
				}
				continue
			}
			if newFile == currentFile {
				continue
			}
			f.log.Debug("log rotation detected", "from", currentFile, "to", newFile)
			cfg := tailer.DefaultConfig()
			cfg.FromStart = true // a new session log is read whole
			newTailer, err := tailer.New(ctx, newFile, cfg)
			if err != nil {
				sendError(ctx, errCh, &FollowError{Op: FollowOpTail, Path: newFile, Err: err})
				continue
			}
			_ = t.Stop()
			t = newTailer
			currentFile = newFile
			n = 0
		}
	}
}

// processLine parses one followed line. Lines that are not valid UTF-8 are
// reported as decode errors and never parsed, as in Scan; the follower
// keeps going since the game may still write good lines after them.
func (f *Follower) processLine(ctx context.Context, path string, n int, line string, entryCh chan<- Entry, errCh chan<- error) {
	if line == "" {
		return
	}
	if !utf8.ValidString(line) {
		f.log.Debug("skipping undecodable line", "path", path, "line", n)
		sendError(ctx, errCh, &FollowError{Op: FollowOpDecode, Path: path, Line: n, Err: ErrInvalidUTF8})
		return
	}

	rec, rest, err := f.cfg.grammar.line(line)
	if err != nil {
		le := newLineError(line, err)
		le.Number = n
		f.log.Debug("skipping malformed line", "line", n, "offset", le.Offset, "error", le.Err)
		sendError(ctx, errCh, le)
		return
	}

	e := Entry{Number: n, Record: rec, Rest: rest}
	if f.cfg.includeRaw {
		e.Raw = line
	}
	select {
	case entryCh <- e:
	case <-ctx.Done():
	}
}

// sendError sends an error to the error channel without blocking shutdown.
// Errors are dropped only when the buffer is full.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}
