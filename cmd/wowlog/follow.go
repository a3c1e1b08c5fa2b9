package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wowlog/wowlog-go/internal/metrics"
	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

var (
	// follow flags
	followEvents    []string
	followRaw       bool
	followFromStart bool
	followPoll      time.Duration
	metricsAddr     string
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow the live combat log and output parsed lines",
	Long: `Follow the newest combat log in real time and output parsed lines.

The log directory is taken from --log-dir, the config file, the
WOWLOG_LOGDIR environment variable, or the default install locations,
in that order. --log-dir may also name the game install folder or a
client folder such as _retail_. When the game starts a new log file,
wowlog switches to it.

Lines are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq.

Examples:
  # Follow with default settings (auto-detect log directory)
  wowlog follow

  # Specify log directory
  wowlog follow --log-dir "C:\Program Files (x86)\World of Warcraft\_retail_\Logs"

  # Only encounter boundaries, human-readable
  wowlog follow --events ENCOUNTER_START,ENCOUNTER_END --format pretty

  # Replay the current log from the start
  wowlog follow --from-start

  # Expose parse counters for Prometheus
  wowlog follow --metrics-addr :9464 > /dev/null`,
	Args: cobra.NoArgs,
	RunE: runFollow,
}

func init() {
	addGrammarFlags(followCmd)
	followCmd.Flags().StringP("log-dir", "d", "",
		"Combat log directory (auto-detected if not specified)")
	followCmd.Flags().StringSliceVarP(&followEvents, "events", "e", nil,
		"Event names to show (comma-separated, e.g. SPELL_DAMAGE,UNIT_DIED)")
	followCmd.Flags().BoolVar(&followRaw, "raw", false,
		"Include raw log lines in output")
	followCmd.Flags().BoolVar(&followFromStart, "from-start", false,
		"Read the current log from the beginning")
	followCmd.Flags().DurationVar(&followPoll, "poll-interval", 2*time.Second,
		"How often to check for a newer log file")
	followCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9464)")

	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := settings(cmd, fileConfig)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	grammar, err := cfg.Grammar()
	if err != nil {
		return err
	}

	follower, err := wowlog.NewFollower(
		wowlog.WithFollowLogDir(cfg.LogDir),
		wowlog.WithFollowPollInterval(followPoll),
		wowlog.WithFollowFromStart(followFromStart),
		wowlog.WithFollowIncludeRaw(followRaw),
		wowlog.WithFollowGrammar(grammar),
		wowlog.WithFollowLogger(logger),
	)
	if err != nil {
		return err
	}
	defer follower.Close()

	logger.Debug("following", "log_dir", follower.LogDir())

	entries, errs, err := follower.Follow(ctx)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		go func() {
			if err := m.Serve(ctx, metricsAddr, logger); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	return followLoop(ctx, cmd, cfg.Format, eventFilter(followEvents), m, entries, errs)
}

// eventFilter returns a set of event names, or nil to accept every event.
func eventFilter(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	filter := make(map[string]bool, len(names))
	for _, n := range names {
		filter[n] = true
	}
	return filter
}

// followLoop writes entries until the channels close or ctx is done.
// When the follower stops on its own, the last follow error is returned.
// m may be nil.
func followLoop(ctx context.Context, cmd *cobra.Command, format string, filter map[string]bool,
	m *metrics.Metrics, entries <-chan wowlog.Entry, errs <-chan error) error {
	out := cmd.OutOrStdout()
	var last error

	handleErr := func(err error) {
		if m != nil {
			m.ObserveError(err)
		}
		var le *wowlog.LineError
		if errors.As(err, &le) {
			logger.Debug("malformed line", "line", le.Number, "kind", le.Kind(), "offset", le.Offset)
			return
		}
		logger.Warn("follow error", "error", err)
		last = err
	}

	for {
		select {
		case e, ok := <-entries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				// errs is closed before entries, so draining cannot block.
				if errs != nil {
					for err := range errs {
						handleErr(err)
					}
				}
				return last
			}
			if m != nil {
				m.ObserveEntry(e)
			}
			if filter != nil && !filter[e.Event()] {
				continue
			}
			if err := OutputEntry(format, e, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			handleErr(err)

		case <-ctx.Done():
			return nil
		}
	}
}
