package wowlog

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DefaultMaxLineBytes is the default limit on a single line read by Scan.
const DefaultMaxLineBytes = 1024 * 1024

// ScanOption configures Scan and ScanFile behavior.
type ScanOption func(*scanConfig)

// scanConfig holds internal configuration for scanning.
type scanConfig struct {
	grammar      *Grammar
	stopOnError  bool
	includeRaw   bool
	maxLineBytes int
	logger       *slog.Logger
	onMalformed  func(*LineError)
}

// defaultScanConfig returns a scanConfig with sensible defaults.
func defaultScanConfig() *scanConfig {
	return &scanConfig{
		grammar:      defaultGrammar,
		maxLineBytes: DefaultMaxLineBytes,
		logger:       discardLogger,
	}
}

// applyScanOptions applies functional options to a scanConfig.
func applyScanOptions(opts []ScanOption) *scanConfig {
	cfg := defaultScanConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithScanGrammar sets the grammar used to parse each line.
// If g is nil, this option has no effect (the default grammar remains active).
func WithScanGrammar(g *Grammar) ScanOption {
	return func(c *scanConfig) {
		if g != nil {
			c.grammar = g
		}
	}
}

// WithScanStopOnError stops scanning at the first malformed line and yields
// its *LineError. Default: false (malformed lines are skipped).
func WithScanStopOnError(stop bool) ScanOption {
	return func(c *scanConfig) {
		c.stopOnError = stop
	}
}

// WithScanIncludeRaw includes the original line in Entry.Raw.
func WithScanIncludeRaw(include bool) ScanOption {
	return func(c *scanConfig) {
		c.includeRaw = include
	}
}

// WithScanMaxLineBytes sets the longest line Scan accepts.
// Longer lines end the scan with a ScanError. Values <= 0 keep the default.
func WithScanMaxLineBytes(n int) ScanOption {
	return func(c *scanConfig) {
		if n > 0 {
			c.maxLineBytes = n
		}
	}
}

// WithScanLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithScanLogger(logger *slog.Logger) ScanOption {
	return func(c *scanConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithScanOnMalformed registers fn to be called for every malformed line,
// whether or not the scan stops on it.
func WithScanOnMalformed(fn func(*LineError)) ScanOption {
	return func(c *scanConfig) {
		c.onMalformed = fn
	}
}

// FollowOption configures a Follower using the functional options pattern.
type FollowOption func(*followConfig)

// followConfig holds internal configuration for the follower.
type followConfig struct {
	logDir       string
	pollInterval time.Duration
	fromStart    bool
	includeRaw   bool
	grammar      *Grammar
	logger       *slog.Logger
}

// defaultFollowConfig returns a followConfig with sensible defaults.
func defaultFollowConfig() *followConfig {
	return &followConfig{
		pollInterval: 2 * time.Second,
		grammar:      defaultGrammar,
	}
}

// applyFollowOptions applies functional options to a followConfig.
func applyFollowOptions(opts []FollowOption) *followConfig {
	cfg := defaultFollowConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *followConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	return nil
}

// WithFollowLogDir sets the combat log directory.
// If not set, it is taken from WOWLOG_LOGDIR or auto-detected.
func WithFollowLogDir(dir string) FollowOption {
	return func(c *followConfig) {
		c.logDir = dir
	}
}

// WithFollowPollInterval sets how often to check for a newer combat log.
// Default: 2 seconds.
func WithFollowPollInterval(interval time.Duration) FollowOption {
	return func(c *followConfig) {
		c.pollInterval = interval
	}
}

// WithFollowFromStart reads the current combat log from the beginning
// instead of only new lines.
func WithFollowFromStart(fromStart bool) FollowOption {
	return func(c *followConfig) {
		c.fromStart = fromStart
	}
}

// WithFollowIncludeRaw includes the original line in Entry.Raw.
func WithFollowIncludeRaw(include bool) FollowOption {
	return func(c *followConfig) {
		c.includeRaw = include
	}
}

// WithFollowGrammar sets the grammar used to parse each line.
// If g is nil, this option has no effect.
func WithFollowGrammar(g *Grammar) FollowOption {
	return func(c *followConfig) {
		if g != nil {
			c.grammar = g
		}
	}
}

// WithFollowLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithFollowLogger(logger *slog.Logger) FollowOption {
	return func(c *followConfig) {
		c.logger = logger
	}
}
