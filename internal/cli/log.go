// Package cli implements the sortnet command-line interface.
//
// Commands run simulations (run, compare, watch), draw them (diagram), serve
// them over HTTP (serve) and manage the stores behind them (history, cache,
// config). The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - run: Sort one sequence and print the outcome, optionally round by round
//   - compare: Run every strategy on the same input and tabulate the results
//   - watch: Replay a run interactively, one round at a time
//   - diagram: Draw a run as a Graphviz diagram (dot, svg, png, pdf)
//   - serve: Serve the HTTP API
//   - history: List and show recorded runs
//   - cache: Clear or locate the result cache
//   - config: Create, show or locate the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// one line per round from the engine. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// and filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures the wall time of an operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// elapsed returns the time since the progress was created, rounded to the
// millisecond.
func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg with the elapsed time, e.g. "Sorted 10 values (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
