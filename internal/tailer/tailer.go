// Package tailer follows a growing combat log file line by line.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// Config controls how a file is followed.
type Config struct {
	// FromStart reads the file from the beginning instead of the end.
	FromStart bool

	// Poll uses polling instead of filesystem notifications.
	Poll bool

	// ReOpen reopens the file when it is truncated or recreated.
	ReOpen bool
}

// DefaultConfig returns the configuration used for combat logs: start at
// the end, follow with notifications and reopen on truncation.
func DefaultConfig() Config {
	return Config{ReOpen: true}
}

// Tailer delivers complete lines appended to a file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// New starts following path. The file must exist.
// Lines have any trailing "\r" removed.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tc := tail.Config{
		Follow:    true,
		ReOpen:    cfg.ReOpen,
		MustExist: true,
		Poll:      cfg.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tc.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tc)
	if err != nil {
		return nil, fmt.Errorf("tailing file: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Lines returns the channel of lines. It is closed when the tailer stops.
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns the channel of read errors. It is closed when the tailer stops.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following the file and waits for the delivery goroutine.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	tl.stopOnce.Do(func() {
		tl.cancel()
		<-tl.done
		tl.stopErr = tl.t.Stop()
		tl.t.Cleanup()
	})
	return tl.stopErr
}
