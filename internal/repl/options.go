package repl

import (
	"log/slog"

	"github.com/zephyrtronium/calc/internal/session"
)

// Option configures a REPL or a call to Dispatch.
type Option func(*options)

type options struct {
	prompt   string
	format   string
	echo     bool
	maxDepth int
	log      *slog.Logger
	history  *session.History
}

func newOptions(opts []Option) *options {
	o := &options{
		prompt: DefaultPrompt,
		format: DefaultFormat,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPrompt sets the prompt printed before each line.
func WithPrompt(prompt string) Option {
	return func(o *options) {
		o.prompt = prompt
	}
}

// WithFormat sets the fmt format string used to print results. An empty
// format uses DefaultFormat.
func WithFormat(format string) Option {
	return func(o *options) {
		if format == "" {
			format = DefaultFormat
		}
		o.format = format
	}
}

// WithEcho prints the parse tree of each expression before its result.
func WithEcho(echo bool) Option {
	return func(o *options) {
		o.echo = echo
	}
}

// WithMaxDepth sets the nesting limit for parsing expressions. Zero or less
// uses the parser's default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithLogger sets the logger for evaluation records. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithHistory makes the REPL record into an existing history instead of a new
// one.
func WithHistory(h *session.History) Option {
	return func(o *options) {
		o.history = h
	}
}
