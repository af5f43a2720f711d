package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"kite/internal/object"
)

// Session appends the inputs of one evaluator to the journal.
type Session struct {
	ID    string
	store *Store

	mu  sync.Mutex
	seq int
}

// Begin starts a session with a fresh id.
func (s *Store) Begin(ctx context.Context) (*Session, error) {
	return &Session{ID: uuid.NewString(), store: s}, nil
}

// Resume continues a session, numbering new entries after its last one.
func (s *Store) Resume(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("journal: invalid session id %q: %w", id, err)
	}
	seq, err := s.lastSeq(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, store: s, seq: seq}, nil
}

// Record stores one evaluated input with its value or error.
func (s *Session) Record(ctx context.Context, source string, value object.Object, evalErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resultType, result, errorKind, errorMessage string
	if value != nil {
		resultType, result = string(value.Type()), value.Inspect()
	}
	if evalErr != nil {
		errorKind, errorMessage = string(object.KindOf(evalErr)), evalErr.Error()
	}

	_, err := s.store.db.ExecContext(ctx, s.store.rebind(`INSERT INTO kite_journal
(session_id, seq, source, result_type, result, error_kind, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID, s.seq+1, source, resultType, result, errorKind, errorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("journal: record entry: %w", err)
	}
	s.seq++
	return nil
}
