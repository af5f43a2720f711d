package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"kite/internal/journal"
	"kite/internal/object"
)

// Replay evaluates the inputs of a journaled session on a fresh evaluator,
// echoing each input after the prompt it was typed at.
func Replay(ctx context.Context, store *journal.Store, sessionID string, out io.Writer, opts Options) error {
	entries, err := store.Entries(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}

	opts.Journal = nil
	opts.Restore = nil
	r := New(out, opts)
	for _, entry := range entries {
		fmt.Fprint(out, r.Prompt())
		fmt.Fprintln(out, entry.Source)

		value, evalErr := r.eval.Parse(entry.Source)
		r.report(value, evalErr)

		if diverged(entry, value, evalErr) {
			slog.Warn("replay diverged from journal",
				slog.String("session", sessionID),
				slog.Int("seq", entry.Seq),
				slog.String("journaled", entry.Result+entry.Error))
		}
	}
	return nil
}

// report prints a value or error. An error raised only because brackets are
// still open prints nothing.
func (r *Repl) report(value object.Object, err error) {
	switch {
	case err != nil && object.KindOf(err) == object.BRACKET_MISMATCH && r.eval.Pending() > 0:
		// wait for the closing brackets
	case err != nil:
		fmt.Fprintln(r.out, r.styles.err.Render("error: "+err.Error()))
	case value != object.VOID:
		fmt.Fprintln(r.out, r.styles.value.Render(value.Inspect()))
	}
}

func diverged(entry journal.Entry, value object.Object, err error) bool {
	if err != nil {
		return entry.ErrorKind != string(object.KindOf(err))
	}
	return entry.ErrorKind != "" || entry.Result != value.Inspect()
}
