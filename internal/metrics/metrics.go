// Package metrics exposes parse counters for a running follower in the
// Prometheus text format.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wowlog/wowlog-go/pkg/wowlog"
)

const namespace = "wowlog"

// Metrics holds the follower counters.
type Metrics struct {
	reg *prometheus.Registry

	lines     prometheus.Counter
	malformed *prometheus.CounterVec
	events    *prometheus.CounterVec
	errors    *prometheus.CounterVec
	lastLine  prometheus.Gauge
}

// New creates the counters on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_parsed_total",
			Help:      "Combat log lines that matched the line grammar.",
		}),
		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_malformed_total",
			Help:      "Combat log lines that did not match, by failure kind.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Parsed lines by event name.",
		}, []string{"event"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follow_errors_total",
			Help:      "Follower errors by operation.",
		}, []string{"op"}),
		lastLine: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_line_timestamp_seconds",
			Help:      "Wall clock time the last line was parsed.",
		}),
	}
	reg.MustRegister(
		m.lines, m.malformed, m.events, m.errors, m.lastLine,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveEntry counts a parsed entry.
func (m *Metrics) ObserveEntry(e wowlog.Entry) {
	m.lines.Inc()
	if ev := e.Event(); ev != "" {
		m.events.WithLabelValues(ev).Inc()
	}
	m.lastLine.SetToCurrentTime()
}

// ObserveError counts a follower error. Malformed lines are counted by
// kind, everything else by the failing operation.
func (m *Metrics) ObserveError(err error) {
	var le *wowlog.LineError
	if errors.As(err, &le) {
		m.malformed.WithLabelValues(strings.ReplaceAll(le.Kind().String(), " ", "_")).Inc()
		return
	}
	op := "unknown"
	var fe *wowlog.FollowError
	if errors.As(err, &fe) {
		op = string(fe.Op)
	}
	m.errors.WithLabelValues(op).Inc()
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve serves /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Debug("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
