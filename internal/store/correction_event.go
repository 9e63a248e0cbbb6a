package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendCorrectionEvent(ctx context.Context, data CorrectionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO correction_events
		(sequence, timestamp, session_id, category, variant, original, revision,
		 accepted, parse_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, toMillis(now()), data.SessionID, data.Category, data.Variant,
		data.Original, data.Revision, boolInt(data.Accepted), data.ParseMessage,
	)
	if err != nil {
		return fmt.Errorf("save correction event: %w", err)
	}
	return nil
}
