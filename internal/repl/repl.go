package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"kite/internal/evaluator"
	"kite/internal/journal"
	"kite/internal/object"
	"kite/internal/util"
)

const (
	PROMPT      = ">> "
	CONT_PROMPT = ".. "
)

const helpText = `Commands:
  :reset   drop every variable and any unfinished input
  :vars    list visible variables
  :help    show this help
  :quit    leave the session (also :exit)
`

type Options struct {
	Config  util.Configuration
	Journal *journal.Session // nil disables recording
	Color   bool

	// Restore is evaluated silently before the first prompt so a resumed
	// session starts with its earlier bindings.
	Restore []journal.Entry
}

// Repl evaluates one line at a time against a single evaluator.
type Repl struct {
	eval    *evaluator.Evaluator
	out     io.Writer
	journal *journal.Session
	styles  styles
}

func New(out io.Writer, opts Options) *Repl {
	r := &Repl{
		eval:    evaluator.New(opts.Config),
		out:     out,
		journal: opts.Journal,
		styles:  newStyles(out, opts.Color),
	}
	for _, entry := range opts.Restore {
		_, _ = r.eval.Parse(entry.Source)
	}
	if len(opts.Restore) > 0 {
		slog.Info("session restored",
			slog.Int("entries", len(opts.Restore)),
			slog.Int("variables", len(r.eval.Env().Visible())))
	}
	return r
}

// Start reads lines from in until EOF or :quit.
func Start(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	r := New(out, opts)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, r.Prompt())
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := r.Handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// Prompt is the continuation prompt while brackets are open.
func (r *Repl) Prompt() string {
	if r.eval.Pending() > 0 {
		return CONT_PROMPT
	}
	return PROMPT
}

// Handle runs a meta command or evaluates line, and reports whether the
// session should end.
func (r *Repl) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") && r.eval.Pending() == 0 {
		return r.command(trimmed)
	}
	if trimmed == "" && r.eval.Pending() == 0 {
		return false
	}

	value, err := r.eval.Parse(line)
	r.record(ctx, line, value, err)
	r.report(value, err)
	return false
}

func (r *Repl) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":exit":
		return true
	case ":reset":
		r.eval.Reset()
		fmt.Fprintln(r.out, r.styles.muted.Render("environment reset"))
	case ":vars":
		vars := r.eval.Env().Visible()
		if len(vars) == 0 {
			fmt.Fprintln(r.out, r.styles.muted.Render("no variables"))
		}
		for _, v := range vars {
			fmt.Fprintf(r.out, "%s = %s %s\n", v.Name,
				r.styles.value.Render(v.Value.Inspect()),
				r.styles.muted.Render(fmt.Sprintf("(depth %d)", v.Depth)))
		}
	case ":help":
		fmt.Fprint(r.out, helpText)
	default:
		fmt.Fprintln(r.out, r.styles.err.Render(fmt.Sprintf("unknown command %s, type :help", cmd)))
	}
	return false
}

func (r *Repl) record(ctx context.Context, source string, value object.Object, evalErr error) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(ctx, source, value, evalErr); err != nil {
		slog.Warn("failed to journal input",
			slog.String("session", r.journal.ID),
			slog.Any("error", err))
	}
}

// RunFile evaluates a whole file in one Parse and prints its value.
func RunFile(ctx context.Context, path string, out io.Writer, opts Options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}

	r := New(out, opts)
	value, err := r.eval.Parse(string(src))
	r.record(ctx, string(src), value, err)
	if err != nil {
		var oe *object.Error
		if errors.As(err, &oe) && oe.Located {
			line, column := util.LineAndColumn(string(src), oe.Position)
			fmt.Fprint(out, util.ContextLines(string(src), oe.Position))
			return fmt.Errorf("%s:%d:%d: %w", path, line, column, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	if value != object.VOID {
		fmt.Fprintln(out, r.styles.value.Render(value.Inspect()))
	}
	return nil
}
