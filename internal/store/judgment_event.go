package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendJudgmentEvent(ctx context.Context, data JudgmentEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO judgment_events
		(sequence, timestamp, session_id, category, variant, snippet, judgment,
		 actual_valid, correct, parse_message, time_ms)
		VALUES (:sequence, :timestamp, :session_id, :category, :variant, :snippet, :judgment,
		 :actual_valid, :correct, :parse_message, :time_ms)`,
		map[string]any{
			"sequence":      seqNum,
			"timestamp":     toMillis(now()),
			"session_id":    data.SessionID,
			"category":      data.Category,
			"variant":       data.Variant,
			"snippet":       data.Snippet,
			"judgment":      data.Judgment,
			"actual_valid":  boolInt(data.ActualValid),
			"correct":       boolInt(data.Correct),
			"parse_message": data.ParseMessage,
			"time_ms":       data.TimeMs,
		})
	if err != nil {
		return fmt.Errorf("save judgment event: %w", err)
	}
	return nil
}

type judgmentRow struct {
	Sequence     int64  `db:"sequence"`
	Timestamp    int64  `db:"timestamp"`
	SessionID    string `db:"session_id"`
	Category     string `db:"category"`
	Variant      string `db:"variant"`
	Snippet      string `db:"snippet"`
	Judgment     string `db:"judgment"`
	ActualValid  bool   `db:"actual_valid"`
	Correct      bool   `db:"correct"`
	ParseMessage string `db:"parse_message"`
	TimeMs       int    `db:"time_ms"`
}

func (r *eventRepo) QueryJudgmentEvents(ctx context.Context, opts QueryOpts) ([]JudgmentEventRecord, error) {
	where, args := opts.filter()
	query := `SELECT sequence, timestamp, session_id, category, variant, snippet, judgment,
		actual_valid, correct, parse_message, time_ms FROM judgment_events` +
		where + " ORDER BY sequence DESC" + opts.limit()

	var rows []judgmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query judgment events: %w", err)
	}

	records := make([]JudgmentEventRecord, len(rows))
	for i, row := range rows {
		records[i] = JudgmentEventRecord{
			JudgmentEventData: JudgmentEventData{
				SessionID:    row.SessionID,
				Category:     row.Category,
				Variant:      row.Variant,
				Snippet:      row.Snippet,
				Judgment:     row.Judgment,
				ActualValid:  row.ActualValid,
				Correct:      row.Correct,
				ParseMessage: row.ParseMessage,
				TimeMs:       row.TimeMs,
			},
			Sequence:  row.Sequence,
			Timestamp: fromMillis(row.Timestamp),
		}
	}
	return records, nil
}

func (r *eventRepo) CategoryAccuracy(ctx context.Context) ([]CategoryStats, error) {
	var rows []struct {
		Category  string `db:"category"`
		Attempted int    `db:"attempted"`
		Correct   int    `db:"correct"`
	}
	err := r.db.SelectContext(ctx, &rows, `SELECT category,
		COUNT(*) AS attempted, COALESCE(SUM(correct), 0) AS correct
		FROM judgment_events GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query category accuracy: %w", err)
	}

	stats := make([]CategoryStats, len(rows))
	for i, row := range rows {
		stats[i] = CategoryStats{Category: row.Category, Attempted: row.Attempted, Correct: row.Correct}
	}
	return stats, nil
}
