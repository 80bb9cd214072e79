// Command calc evaluates arithmetic expressions, either from its arguments and
// input files or interactively.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/repr"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/repl"
	"github.com/zephyrtronium/calc/internal/session"
	"github.com/zephyrtronium/calc/internal/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errFailed reports that some expressions failed. Their errors have already
// been printed.
var errFailed = errors.New("some expressions failed")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "calc:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Safe arithmetic calculator",
		Long: `calc evaluates arithmetic expressions using + - * / ^ (or **), unary + and -,
and parentheses. Nothing else is accepted: there are no names, functions, or
code.

Each argument is evaluated as a separate expression. Put -- before expressions
that begin with a minus sign. With --in, each line of the file is evaluated.
With neither, calc starts an interactive session; type 'help' there for
commands.

Settings are read from --config (TOML or YAML), then CALC_* environment
variables, then flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	cmd.SetVersionTemplate("calc version {{.Version}}\n")

	f := cmd.Flags()
	f.String("config", "", "config file (.toml, .yaml, or .yml)")
	f.String("in", "", "input file with one expression per line (- for stdin)")
	f.String("fmt", "", `result formatting string (default "%v", env CALC_FORMAT)`)
	f.String("prompt", "", `interactive prompt (default "calc> ", env CALC_PROMPT)`)
	f.Int("max-depth", 0, "nesting limit for expressions (default 256, env CALC_MAX_DEPTH)")
	f.Bool("echo", false, "print parse trees before results (env CALC_ECHO)")
	f.Bool("ast", false, "print the syntax tree of each expression instead of evaluating it")
	f.Bool("tui", false, "use the full-screen interface for interactive sessions (env CALC_TUI)")
	f.BoolP("verbose", "v", false, "log evaluations to stderr")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	h := session.New()
	opts := []repl.Option{
		repl.WithPrompt(cfg.Prompt),
		repl.WithFormat(cfg.Format),
		repl.WithEcho(cfg.Echo),
		repl.WithMaxDepth(cfg.MaxDepth),
		repl.WithLogger(log),
		repl.WithHistory(h),
	}
	log.Debug("configured",
		slog.String("session", h.ID().String()),
		slog.String("config", cfgPath),
		slog.String("format", cfg.Format),
		slog.Int("max_depth", cfg.MaxDepth),
		slog.Bool("tui", cfg.TUI),
	)

	exprs, err := gather(cmd, args)
	if err != nil {
		return err
	}
	if ast, _ := cmd.Flags().GetBool("ast"); ast {
		return dumpTrees(cmd.OutOrStdout(), cmd.ErrOrStderr(), exprs, cfg.MaxDepth)
	}
	if exprs != nil {
		return batch(cmd.OutOrStdout(), cmd.ErrOrStderr(), h, exprs, opts)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if cfg.TUI {
		m := tui.New(h, cfg.Prompt, opts...)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	}
	return repl.New(cmd.InOrStdin(), cmd.OutOrStdout(), opts...).Run(ctx)
}

// applyFlags overrides configuration with flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("fmt") {
		cfg.Format, _ = f.GetString("fmt")
	}
	if f.Changed("prompt") {
		cfg.Prompt, _ = f.GetString("prompt")
	}
	if f.Changed("max-depth") {
		cfg.MaxDepth, _ = f.GetInt("max-depth")
	}
	if f.Changed("echo") {
		cfg.Echo, _ = f.GetBool("echo")
	}
	if f.Changed("tui") {
		cfg.TUI, _ = f.GetBool("tui")
	}
	return cfg.Validate()
}

// inputLine is an expression to process, or the error for an input line that
// was rejected.
type inputLine struct {
	text string
	err  error
}

// gather collects non-interactive input: lines of the --in file followed by
// the arguments. The result is nil if there is none.
func gather(cmd *cobra.Command, args []string) ([]inputLine, error) {
	inname, _ := cmd.Flags().GetString("in")
	var exprs []inputLine
	if inname != "" {
		var in io.Reader
		if inname == "-" {
			in = cmd.InOrStdin()
		} else {
			f, err := os.Open(inname)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			in = f
		}
		exprs = []inputLine{}
		lr := repl.NewLineReader(in)
		for {
			line, err := lr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && !errors.Is(err, repl.ErrLineTooLong) {
				return nil, fmt.Errorf("reading %s: %w", inname, err)
			}
			if line = strings.TrimSpace(line); line != "" || err != nil {
				exprs = append(exprs, inputLine{text: line, err: err})
			}
		}
	}
	for _, arg := range args {
		exprs = append(exprs, inputLine{text: arg})
	}
	return exprs, nil
}

// batch dispatches each line in order, like an interactive session without
// prompts. Results go to out and errors to errout.
func batch(out, errout io.Writer, h *session.History, lines []inputLine, opts []repl.Option) error {
	failed := false
	for _, line := range lines {
		if line.err != nil {
			fmt.Fprintln(errout, "Error:", line.err)
			failed = true
			continue
		}
		reply := repl.Dispatch(h, line.text, opts...)
		if reply.Quit {
			break
		}
		w := out
		if reply.Err != nil {
			w = errout
			failed = true
		}
		for _, s := range reply.Lines {
			fmt.Fprintln(w, s)
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// dumpTrees prints the syntax tree of each expression.
func dumpTrees(out, errout io.Writer, exprs []inputLine, maxDepth int) error {
	failed := false
	for _, src := range exprs {
		if src.err != nil {
			fmt.Fprintln(errout, "Error:", src.err)
			failed = true
			continue
		}
		n, err := calc.Parse(src.text, calc.MaxDepth(maxDepth))
		if err != nil {
			fmt.Fprintln(errout, "Error:", err)
			failed = true
			continue
		}
		fmt.Fprintln(out, repr.String(n, repr.Indent("  ")))
	}
	if failed {
		return errFailed
	}
	return nil
}
