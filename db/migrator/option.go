package migrator

import (
	"io"
	"log/slog"
	"time"
)

// Option is a function that allows configuring the Migrator.
type Option func(*Migrator) error

// WithLogger sets the logger used by the Migrator.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) error {
		m.logger = logger.With("component", "migrator")
		return nil
	}
}

// WithOutput sets the writer progress messages are written to.
func WithOutput(w io.Writer) Option {
	return func(m *Migrator) error {
		m.out = w
		return nil
	}
}

// WithTimeNow sets the function used to retrieve the current time, which is
// used for measuring script run times.
func WithTimeNow(timeNowFn func() time.Time) Option {
	return func(m *Migrator) error {
		m.timeNow = timeNowFn
		return nil
	}
}

// DefaultOptions returns the default Migrator options.
func DefaultOptions() []Option {
	return []Option{
		WithLogger(slog.Default()),
		WithOutput(io.Discard),
		WithTimeNow(time.Now),
	}
}
