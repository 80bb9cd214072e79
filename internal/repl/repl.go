// Package repl implements the line-oriented calculator session.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zephyrtronium/calc/internal/session"
)

// REPL reads expressions and commands line by line and writes their results.
type REPL struct {
	in   io.Reader
	out  io.Writer
	hist *session.History
	opts *options
}

// New creates a REPL reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *REPL {
	o := newOptions(opts)
	h := o.history
	if h == nil {
		h = session.New()
	}
	return &REPL{in: in, out: out, hist: h, opts: o}
}

// History returns the session history the REPL records into.
func (r *REPL) History() *session.History {
	return r.hist
}

// Run prints the banner and processes input until a quit command, the end of
// input, or cancellation of ctx. The end of input and cancellation print a
// final newline so the shell prompt starts on its own line. Lines longer than
// MaxLineLength are reported like failed expressions. The only errors Run
// returns are from reading input.
func (r *REPL) Run(ctx context.Context) error {
	r.opts.log.InfoContext(ctx, "session started", slog.String("session", r.hist.ID().String()))
	defer r.opts.log.InfoContext(ctx, "session ended", slog.String("session", r.hist.ID().String()))

	fmt.Fprintln(r.out, Banner)
	done := make(chan struct{})
	defer close(done)
	lines := make(chan input)
	errc := make(chan error, 1)
	go scan(r.in, lines, errc, done)
	for {
		fmt.Fprint(r.out, r.opts.prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case in, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return <-errc
			}
			if in.err != nil {
				r.opts.log.DebugContext(ctx, "rejected line",
					slog.String("session", r.hist.ID().String()),
					slog.Any("err", in.err),
				)
				fmt.Fprintln(r.out, "Error: "+in.err.Error())
				continue
			}
			reply := r.opts.dispatch(ctx, r.hist, in.text)
			if reply.Quit {
				return nil
			}
			for _, s := range reply.Lines {
				fmt.Fprintln(r.out, s)
			}
		}
	}
}

// input is a line of input, or the error for a line that was rejected.
type input struct {
	text string
	err  error
}

// scan sends lines from in until it ends or done closes. Lines that are too
// long are sent as errors. When in ends, scan sends the read error (nil at
// EOF) on errc before closing lines.
func scan(in io.Reader, lines chan<- input, errc chan<- error, done <-chan struct{}) {
	defer close(lines)
	lr := NewLineReader(in)
	for {
		text, err := lr.Next()
		if err != nil && !errors.Is(err, ErrLineTooLong) {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			errc <- err
			return
		}
		select {
		case lines <- input{text: text, err: err}:
		case <-done:
			return
		}
	}
}
