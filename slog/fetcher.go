package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagescout"
)

// Ensure LoggingFetcher implements pagescout.Fetcher.
var _ pagescout.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of every request.
type LoggingFetcher struct {
	next   pagescout.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagescout.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Ensure LoggingProber implements pagescout.Prober.
var _ pagescout.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with debug logging of every probe.
type LoggingProber struct {
	next   pagescout.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next pagescout.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the operation.
func (p *LoggingProber) Probe(ctx context.Context, url string) (found bool, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("probe",
			"url", url,
			"found", found,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Probe(ctx, url)
}
