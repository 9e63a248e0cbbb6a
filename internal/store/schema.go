package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied on every Open. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		problems_served INTEGER NOT NULL DEFAULT 0,
		judgments INTEGER NOT NULL DEFAULT 0,
		correct_judgments INTEGER NOT NULL DEFAULT 0,
		corrections_accepted INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_action ON session_events (action, sequence)`,

	`CREATE TABLE IF NOT EXISTS judgment_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		category TEXT NOT NULL,
		variant TEXT NOT NULL,
		snippet TEXT NOT NULL,
		judgment TEXT NOT NULL,
		actual_valid INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		parse_message TEXT NOT NULL DEFAULT '',
		time_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_judgment_events_category ON judgment_events (category)`,

	`CREATE TABLE IF NOT EXISTS correction_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		category TEXT NOT NULL,
		variant TEXT NOT NULL,
		original TEXT NOT NULL,
		revision TEXT NOT NULL,
		accepted INTEGER NOT NULL,
		parse_message TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL
	)`,
}

func migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
