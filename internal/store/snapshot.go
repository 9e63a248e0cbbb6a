package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// snapshotRepo implements SnapshotRepo over the snapshots table.
type snapshotRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type snapshotRow struct {
	SessionID string `db:"session_id"`
	Sequence  int64  `db:"sequence"`
	Timestamp int64  `db:"timestamp"`
	ExpiresAt int64  `db:"expires_at"`
	Data      string `db:"data"`
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = now()
	}
	var expires int64
	if !snap.ExpiresAt.IsZero() {
		expires = toMillis(snap.ExpiresAt)
	}

	_, err = r.db.ExecContext(ctx, `INSERT OR REPLACE INTO snapshots
		(session_id, sequence, timestamp, expires_at, data) VALUES (?, ?, ?, ?, ?)`,
		snap.SessionID, seqNum, toMillis(ts), expires, string(snap.Data))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	snap.Sequence = seqNum
	return nil
}

func (r *snapshotRepo) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	var row snapshotRow
	err := r.db.GetContext(ctx, &row,
		`SELECT session_id, sequence, timestamp, expires_at, data FROM snapshots WHERE session_id = ?`,
		sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	if row.ExpiresAt > 0 && row.ExpiresAt <= toMillis(now()) {
		return nil, nil
	}

	snap := &Snapshot{
		SessionID: row.SessionID,
		Sequence:  row.Sequence,
		Timestamp: fromMillis(row.Timestamp),
		Data:      []byte(row.Data),
	}
	if row.ExpiresAt > 0 {
		snap.ExpiresAt = fromMillis(row.ExpiresAt)
	}
	return snap, nil
}

func (r *snapshotRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Prune(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE expires_at > 0 AND expires_at <= ?`, toMillis(t))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return n, nil
}
