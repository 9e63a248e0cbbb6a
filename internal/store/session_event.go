package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events
		(sequence, timestamp, session_id, action, problems_served, judgments,
		 correct_judgments, corrections_accepted, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, toMillis(now()), data.SessionID, data.Action, data.ProblemsServed,
		data.Judgments, data.CorrectJudgments, data.CorrectionsAccepted, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

type sessionRow struct {
	SessionID           string `db:"session_id"`
	Timestamp           int64  `db:"timestamp"`
	ProblemsServed      int    `db:"problems_served"`
	Judgments           int    `db:"judgments"`
	CorrectJudgments    int    `db:"correct_judgments"`
	CorrectionsAccepted int    `db:"corrections_accepted"`
	DurationSecs        int    `db:"duration_secs"`
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionSummaryRecord, error) {
	query := `SELECT session_id, timestamp, problems_served, judgments, correct_judgments,
		corrections_accepted, duration_secs
		FROM session_events WHERE action = ? ORDER BY sequence DESC`
	args := []any{ActionEnd}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	records := make([]SessionSummaryRecord, len(rows))
	for i, row := range rows {
		records[i] = SessionSummaryRecord{
			SessionID:           row.SessionID,
			Timestamp:           fromMillis(row.Timestamp),
			ProblemsServed:      row.ProblemsServed,
			Judgments:           row.Judgments,
			CorrectJudgments:    row.CorrectJudgments,
			CorrectionsAccepted: row.CorrectionsAccepted,
			DurationSecs:        row.DurationSecs,
		}
	}
	return records, nil
}
