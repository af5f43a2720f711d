package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kite/internal/journal"
	"kite/internal/log"
	"kite/internal/repl"
	"kite/internal/util"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

var (
	config    util.Configuration
	logCloser io.Closer
	// flag values
	configPath string
	resumeID   string
)

var rootCmd = &cobra.Command{
	Use:   "kite [file]",
	Short: "kite expression language: run a file or start the REPL",
	Long: `kite evaluates integer and string expressions with block-scoped variables.

Examples:
  kite                      Start the REPL
  kite prog.kite            Evaluate a file and print its value
  kite --log-level=debug    Start with debug logging enabled
  kite serve --addr :9000   Serve evaluation sessions over HTTP`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.Version = fmt.Sprintf("'v%s' %s %s", Version, BuildDate, Commit)
	rootCmd.SetVersionTemplate("kite version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (.toml or .yaml), default $KITE_CONFIG or $KITE_HOME/config.toml")
	flags.String("log-level", util.DefaultLogLevel, "Log level: trace, debug, info, warn, error, none")
	flags.String("log-file", "", "Log file path (if not set, logs to stderr)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Int("max-depth", util.DefaultMaxDepth, "Maximum nesting of brackets and blocks")
	flags.String("journal-driver", util.DefaultJournalDriver, "Journal database driver: sqlite3, mysql, postgres")
	flags.String("journal-dsn", "", "Journal data source, empty disables journaling")
	flags.Bool("no-color", false, "Disable colored output")

	rootCmd.Flags().StringVar(&resumeID, "resume", "", "Continue a journaled session, restoring its variables")

	rootCmd.AddCommand(serveCmd, sessionsCmd, replayCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup layers flags over the loaded configuration and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	config, err = util.Load(configPath, os.Getenv)
	if err != nil {
		return err
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		config.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-json") {
		config.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("max-depth") {
		config.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("journal-driver") {
		config.Journal.Driver, _ = flags.GetString("journal-driver")
	}
	if flags.Changed("journal-dsn") {
		config.Journal.DSN, _ = flags.GetString("journal-dsn")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		config.Color = false
	}

	logCloser, err = log.Init(log.Options{
		Level: config.LogLevel,
		File:  config.LogFile,
		JSON:  config.LogJSON,
	})
	return err
}

// openJournal returns nil when journaling is disabled.
func openJournal(ctx context.Context) (*journal.Store, error) {
	if config.Journal.DSN == "" {
		return nil, nil
	}
	return journal.Open(ctx, config.Journal.Driver, config.Journal.DSN)
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openJournal(ctx)
	if err != nil {
		return err
	}
	opts := repl.Options{
		Config: config,
		Color:  config.Color && repl.IsTerminal(os.Stdout),
	}
	if store != nil {
		defer store.Close()
	}

	switch {
	case resumeID != "" && store == nil:
		return errNoJournal
	case resumeID != "":
		if opts.Journal, err = store.Resume(ctx, resumeID); err != nil {
			return err
		}
		if opts.Restore, err = store.Entries(ctx, resumeID); err != nil {
			return err
		}
	case store != nil:
		if opts.Journal, err = store.Begin(ctx); err != nil {
			return err
		}
	}

	if len(args) == 1 {
		return repl.RunFile(ctx, args[0], os.Stdout, opts)
	}
	if repl.IsTerminal(os.Stdin) {
		return repl.Interactive(ctx, os.Stdout, config.HistoryFile, opts)
	}
	return repl.Start(ctx, os.Stdin, os.Stdout, opts)
}
