package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM events by their purpose label. Other queries
	// ignore it.
	Purpose string
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID           string
	Action              string // ActionStart or ActionEnd
	ProblemsServed      int
	Judgments           int
	CorrectJudgments    int
	CorrectionsAccepted int
	DurationSecs        int
}

// JudgmentEventData captures one graded judgment.
type JudgmentEventData struct {
	SessionID    string
	Category     string
	Variant      string
	Snippet      string
	Judgment     string
	ActualValid  bool
	Correct      bool
	ParseMessage string
	TimeMs       int
}

// CorrectionEventData captures one submitted correction.
type CorrectionEventData struct {
	SessionID    string
	Category     string
	Variant      string
	Original     string
	Revision     string
	Accepted     bool
	ParseMessage string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// JudgmentEventRecord is a stored judgment.
type JudgmentEventRecord struct {
	JudgmentEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionSummaryRecord is a completed session, built from its end event.
type SessionSummaryRecord struct {
	SessionID           string
	Timestamp           time.Time
	ProblemsServed      int
	Judgments           int
	CorrectJudgments    int
	CorrectionsAccepted int
	DurationSecs        int
}

// CategoryStats is the all-time judgment tally for one category.
type CategoryStats struct {
	Category  string
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (c CategoryStats) Accuracy() float64 {
	if c.Attempted == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempted)
}

// LLMEventRecord is a stored LLM request.
type LLMEventRecord struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendJudgmentEvent(ctx context.Context, data JudgmentEventData) error
	AppendCorrectionEvent(ctx context.Context, data CorrectionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryJudgmentEvents returns judgments newest first.
	QueryJudgmentEvents(ctx context.Context, opts QueryOpts) ([]JudgmentEventRecord, error)

	// CategoryAccuracy returns per-category tallies ordered by category.
	CategoryAccuracy(ctx context.Context) ([]CategoryStats, error)

	// RecentSessions returns completed sessions newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionSummaryRecord, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns nil, nil when the ID does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// Snapshot is the serialized state of one live session.
type Snapshot struct {
	SessionID string
	Sequence  int64
	Timestamp time.Time
	ExpiresAt time.Time // zero means no expiry
	Data      json.RawMessage
}

// SnapshotRepo persists live session state keyed by session ID.
type SnapshotRepo interface {
	// Save inserts or replaces the snapshot for snap.SessionID.
	Save(ctx context.Context, snap *Snapshot) error

	// Get returns the snapshot, or nil if none exists or it has expired.
	Get(ctx context.Context, sessionID string) (*Snapshot, error)

	Delete(ctx context.Context, sessionID string) error

	// Prune deletes snapshots that expired before t and returns how many.
	Prune(ctx context.Context, t time.Time) (int64, error)
}
