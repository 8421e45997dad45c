package memwatch

import (
	"io"
	"os"
	"time"
)

const (
	// DefaultInterval is the time between reports when none is configured.
	DefaultInterval = 30 * time.Second

	// DefaultHistorySize retains one hour of samples at the default interval.
	DefaultHistorySize = 120
)

func defaultOptions() *Options {
	return &Options{
		Interval:    DefaultInterval,
		Output:      os.Stdout,
		Formatter:   FormatterFunc(defaultFormat),
		HistorySize: DefaultHistorySize,
	}
}

type Options struct {
	Interval    time.Duration
	Target      Target
	Output      io.Writer
	Formatter   Formatter
	HistorySize int
}

type Option func(*Options)

func WithInterval(d time.Duration) Option {
	return func(opts *Options) {
		opts.Interval = d
	}
}

// WithTarget monitors the given process instead of the current one.
func WithTarget(t Target) Option {
	return func(opts *Options) {
		opts.Target = t
	}
}

func WithOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
	}
}

func WithFormatter(f Formatter) Option {
	return func(opts *Options) {
		opts.Formatter = f
	}
}

func WithHistorySize(n int) Option {
	return func(opts *Options) {
		opts.HistorySize = n
	}
}
