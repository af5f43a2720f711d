package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kite/internal/repl"
	"kite/internal/server"
)

var errNoJournal = errors.New("no journal configured, set --journal-dsn or KITE_JOURNAL_DSN")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve evaluation sessions over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			config.Server.Addr = addr
		}

		store, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		srv := server.New(config, store)
		go func() {
			<-cmd.Context().Done()
			slog.Info("shutting down http api")
			if err := srv.Shutdown(); err != nil {
				slog.Error("error during shutdown", slog.Any("error", err))
			}
		}()
		return srv.Listen(config.Server.Addr)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List journaled sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		if store == nil {
			return errNoJournal
		}
		defer store.Close()

		sessions, err := store.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tENTRIES")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%d\n", s.ID, s.Entries)
		}
		return w.Flush()
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Evaluate a journaled session again and print each result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		if store == nil {
			return errNoJournal
		}
		defer store.Close()

		return repl.Replay(cmd.Context(), store, args[0], os.Stdout, repl.Options{
			Config: config,
			Color:  config.Color && repl.IsTerminal(os.Stdout),
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080, env KITE_SERVER_ADDR)")
}
