package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	SQLite   = "sqlite3"
	MySQL    = "mysql"
	Postgres = "postgres"
)

var schemas = map[string]string{
	SQLite: `CREATE TABLE IF NOT EXISTS kite_journal (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	source      TEXT NOT NULL,
	result_type TEXT NOT NULL,
	result      TEXT NOT NULL,
	error_kind  TEXT NOT NULL,
	error       TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	UNIQUE (session_id, seq)
)`,
	MySQL: `CREATE TABLE IF NOT EXISTS kite_journal (
	id          BIGINT AUTO_INCREMENT PRIMARY KEY,
	session_id  VARCHAR(36) NOT NULL,
	seq         INT NOT NULL,
	source      TEXT NOT NULL,
	result_type VARCHAR(32) NOT NULL,
	result      TEXT NOT NULL,
	error_kind  VARCHAR(32) NOT NULL,
	error       TEXT NOT NULL,
	created_at  DATETIME(6) NOT NULL,
	UNIQUE (session_id, seq)
)`,
	Postgres: `CREATE TABLE IF NOT EXISTS kite_journal (
	id          BIGSERIAL PRIMARY KEY,
	session_id  VARCHAR(36) NOT NULL,
	seq         INTEGER NOT NULL,
	source      TEXT NOT NULL,
	result_type VARCHAR(32) NOT NULL,
	result      TEXT NOT NULL,
	error_kind  VARCHAR(32) NOT NULL,
	error       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (session_id, seq)
)`,
}

// Store keeps one row per evaluated input, grouped by session.
type Store struct {
	db     *sql.DB
	driver string
}

// Entry is one journaled evaluation.
type Entry struct {
	ID         int64
	SessionID  string
	Seq        int
	Source     string
	ResultType string
	Result     string
	ErrorKind  string
	Error      string
	CreatedAt  time.Time
}

// SessionInfo summarizes a journaled session.
type SessionInfo struct {
	ID      string
	Entries int
}

// Open connects to the journal database and creates the table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("journal: unsupported driver %q", driver)
	}

	dsn, err := prepareDSN(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open connection: %w", err)
	}
	if driver == SQLite {
		// a single writer avoids "database is locked"
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to create schema: %w", err)
	}

	slog.Info("journal opened", slog.String("driver", driver))
	return &Store{db: db, driver: driver}, nil
}

// prepareDSN creates the directory of a sqlite file and makes mysql scan
// DATETIME columns into time.Time.
func prepareDSN(driver, dsn string) (string, error) {
	switch driver {
	case SQLite:
		if dsn == "" {
			return "", fmt.Errorf("journal: empty sqlite path")
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return "", fmt.Errorf("journal: create directory for %q: %w", dsn, err)
			}
		}
	case MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("journal: invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}
	return dsn, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Sessions lists every journaled session, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, COUNT(*) FROM kite_journal
GROUP BY session_id ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("journal: query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Entries); err != nil {
			return nil, fmt.Errorf("journal: scan session: %w", err)
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// Entries returns the inputs of one session in evaluation order.
func (s *Store) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, session_id, seq, source, result_type,
result, error_kind, error, created_at FROM kite_journal WHERE session_id = ? ORDER BY seq`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("journal: query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Source, &e.ResultType,
			&e.Result, &e.ErrorKind, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// lastSeq returns the highest sequence number of a session, 0 when it has none.
func (s *Store) lastSeq(ctx context.Context, sessionID string) (int, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT MAX(seq) FROM kite_journal WHERE session_id = ?`),
		sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("journal: query sequence: %w", err)
	}
	return int(seq.Int64), nil
}
