package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0 && liner.TerminalSupported()
}

// Interactive runs the session on the controlling terminal with line editing
// and history kept in historyFile.
func Interactive(ctx context.Context, out io.Writer, historyFile string, opts Options) error {
	r := New(out, opts)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer saveHistory(ln, historyFile)
	}

	fmt.Fprintln(out, r.styles.muted.Render("kite "+opts.Config.Version+", type :help for commands"))

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := ln.Prompt(r.Prompt())
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			// ^C drops unfinished input
			r.eval.Discard()
			continue
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if quit := r.Handle(ctx, line); quit {
			return nil
		}
	}
}

func saveHistory(ln *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("failed to save history",
			slog.String("path", path),
			slog.Any("error", err))
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}
