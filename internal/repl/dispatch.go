package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/session"
)

const (
	// Banner is printed when an interactive session starts.
	Banner = "Calculator REPL. Type 'help' for commands."
	// DefaultPrompt is the prompt printed before each line of input.
	DefaultPrompt = "calc> "
	// DefaultFormat is the fmt verb used to print results.
	DefaultFormat = "%v"

	helpText    = "Enter a math expression (e.g. 2 + 3*4). Commands: history, clear, help, quit"
	noHistory   = "(no history)"
	clearedText = "history cleared"
)

// Reply is the outcome of dispatching one line of input.
type Reply struct {
	// Lines is the output for the line, one element per output line.
	Lines []string
	// Err is the error from evaluating an expression, if any. Lines holds
	// its formatted message.
	Err error
	// Quit is whether the session should end.
	Quit bool
}

// Dispatch handles one line of input. Commands are matched case-insensitively
// before anything is parsed. Any other non-blank line is evaluated; on success
// it is appended to h, and on failure h is unchanged.
func Dispatch(h *session.History, line string, opts ...Option) Reply {
	o := newOptions(opts)
	return o.dispatch(context.Background(), h, line)
}

func (o *options) dispatch(ctx context.Context, h *session.History, line string) Reply {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reply{}
	}
	switch strings.ToLower(line) {
	case "quit", "exit":
		return Reply{Quit: true}
	case "help":
		return Reply{Lines: []string{helpText}}
	case "history":
		lines := h.Lines()
		if len(lines) == 0 {
			lines = []string{noHistory}
		}
		return Reply{Lines: lines}
	case "clear":
		h.Clear()
		o.log.DebugContext(ctx, "history cleared", slog.String("session", h.ID().String()))
		return Reply{Lines: []string{clearedText}}
	}

	start := time.Now()
	tree, v, err := o.evaluate(line)
	elapsed := time.Since(start)
	if err != nil {
		o.log.DebugContext(ctx, "evaluation failed",
			slog.String("session", h.ID().String()),
			slog.String("expr", line),
			slog.Any("err", err),
			slog.Duration("elapsed", elapsed),
		)
		return Reply{Lines: []string{"Error: " + err.Error()}, Err: err}
	}
	h.Append(line, v)
	o.log.DebugContext(ctx, "evaluated",
		slog.String("session", h.ID().String()),
		slog.String("expr", line),
		slog.String("result", v.String()),
		slog.Duration("elapsed", elapsed),
	)
	s := fmt.Sprintf(o.format, v)
	if o.echo {
		s = tree.String() + " : " + s
	}
	return Reply{Lines: []string{s}}
}

func (o *options) evaluate(line string) (calc.Node, calc.Value, error) {
	n, err := calc.Parse(line, calc.MaxDepth(o.maxDepth))
	if err != nil {
		return nil, calc.Value{}, err
	}
	v, err := calc.Eval(n)
	if err != nil {
		return n, calc.Value{}, err
	}
	return n, v, nil
}
