package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleConfirmation means a newer order of the session was already confirmed.
var ErrStaleConfirmation = errors.New("session already confirmed a later order")

// DB is the subset of pgxpool used by the session ledgers.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// SessionSequences numbers the orders placed from one browser session.
type SessionSequences struct {
	db DB
}

func NewSessionSequences(db DB) *SessionSequences {
	return &SessionSequences{db: db}
}

// NextOrderSequence reserves the next sequence for session and remembers
// orderID as the session's latest order.
func (s *SessionSequences) NextOrderSequence(ctx context.Context, session, orderID string) (int64, error) {
	if session == "" {
		return 0, errors.New("next order sequence: empty session")
	}
	var seq int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO session_order_sequence (session_id, last_sequence, last_order_id)
		VALUES ($1, 1, $2)
		ON CONFLICT (session_id)
		DO UPDATE SET
			last_sequence = session_order_sequence.last_sequence + 1,
			last_order_id = EXCLUDED.last_order_id,
			updated_at = now()
		RETURNING last_sequence
	`, session, orderID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next order sequence for session %s: %w", session, err)
	}
	return seq, nil
}

// Confirmed is the last order confirmation handled for a session.
type Confirmed struct {
	SessionID string
	OrderID   string
	Sequence  int64
	Mailed    bool
	At        time.Time
}

// ConfirmationLedger records which order confirmations went out per session.
type ConfirmationLedger struct {
	db DB
}

func NewConfirmationLedger(db DB) *ConfirmationLedger {
	return &ConfirmationLedger{db: db}
}

// LastConfirmed returns the session's latest confirmation. The boolean is
// false when nothing was confirmed yet.
func (l *ConfirmationLedger) LastConfirmed(ctx context.Context, session string) (Confirmed, bool, error) {
	c := Confirmed{SessionID: session}
	err := l.db.QueryRow(ctx, `
		SELECT last_order_id, last_sequence, mailed, confirmed_at
		FROM order_confirmation
		WHERE session_id=$1
	`, session).Scan(&c.OrderID, &c.Sequence, &c.Mailed, &c.At)
	if errors.Is(err, pgx.ErrNoRows) {
		return Confirmed{}, false, nil
	}
	if err != nil {
		return Confirmed{}, false, fmt.Errorf("select confirmation for session %s: %w", session, err)
	}
	return c, true, nil
}

// MarkConfirmed moves the session's confirmation forward to c. A c that is
// not newer than the stored one returns ErrStaleConfirmation.
func (l *ConfirmationLedger) MarkConfirmed(ctx context.Context, c Confirmed) error {
	tag, err := l.db.Exec(ctx, `
		INSERT INTO order_confirmation (session_id, last_order_id, last_sequence, mailed, confirmed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id)
		DO UPDATE SET
			last_order_id = EXCLUDED.last_order_id,
			last_sequence = EXCLUDED.last_sequence,
			mailed = EXCLUDED.mailed,
			confirmed_at = EXCLUDED.confirmed_at
		WHERE order_confirmation.last_sequence < EXCLUDED.last_sequence
	`, c.SessionID, c.OrderID, c.Sequence, c.Mailed, c.At)
	if err != nil {
		return fmt.Errorf("mark order %s confirmed: %w", c.OrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleConfirmation
	}
	return nil
}
