package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.Level(-8)
	// LevelNone is above every level a record can carry.
	LevelNone = slog.Level(math.MaxInt32)
)

var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
}

type Options struct {
	Level string
	File  string // empty logs to stderr
	JSON  bool
}

// ParseLevel maps trace, debug, info, warn, error and none to a slog level.
// Unknown names report false and map to none.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "none", "":
		return LevelNone, true
	default:
		return LevelNone, false
	}
}

// NewHandler builds the text or JSON handler used for every kite logger.
func NewHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: replaceLevel,
	}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok {
		if name, found := levelNames[lvl]; found {
			a.Value = slog.StringValue(name)
		}
	}
	return a
}

// Init installs the default slog logger. The returned closer releases the
// log file, if any, and stops listening for SIGHUP.
func Init(opts Options) (io.Closer, error) {
	level, ok := ParseLevel(opts.Level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", opts.Level)
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := OpenFile(opts.File)
		if err != nil {
			return nil, err
		}
		f.setupLogRotation()
		out, closer = f, f
	}

	slog.SetDefault(slog.New(NewHandler(out, level, opts.JSON)))
	return closer, nil
}

// Trace logs below debug, used for per-token cursor movement.
func Trace(msg string, args ...any) {
	ctx := context.Background()
	logger := slog.Default()
	if !logger.Enabled(ctx, LevelTrace) {
		return
	}
	logger.Log(ctx, LevelTrace, msg, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// File is an append-only log file that can be reopened in place after rotation.
type File struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	sigs chan os.Signal
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for %q: %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return &File{path: path, fh: fh}, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fh.Write(p)
}

// Reopen closes the current handle and opens the path again.
func (f *File) Reopen() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("reopen log file %q: %w", f.path, err)
	}
	_ = f.fh.Close()
	f.fh = fh
	return nil
}

func (f *File) Close() error {
	if f.sigs != nil {
		signal.Stop(f.sigs)
		close(f.sigs)
		f.sigs = nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fh.Close()
}

func (f *File) setupLogRotation() {
	/*
	 * listen for SIGHUP on log file rotation
	 * mv kite.log kite.bak && kill -HUP <pid>
	 */
	f.sigs = make(chan os.Signal, 1)
	signal.Notify(f.sigs, syscall.SIGHUP)
	go func(sigs chan os.Signal) {
		for range sigs {
			if err := f.Reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}(f.sigs)
}
