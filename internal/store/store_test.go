package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"session_events", "judgment_events", "correction_events", "llm_request_events", "snapshots", "global_sequence"} {
		var name string
		err := s.DB().Get(&name, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syntaxiz.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "a", Action: ActionStart}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	// The counter survives reopening.
	seq, err := s.seq.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestRecentSessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: ActionStart}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: ActionEnd, ProblemsServed: 4, Judgments: 4, CorrectJudgments: 3, CorrectionsAccepted: 1, DurationSecs: 90,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", Action: ActionStart}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", Action: ActionEnd, ProblemsServed: 1}))

	got, err := repo.RecentSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].SessionID)
	assert.Equal(t, "s1", got[1].SessionID)
	assert.Equal(t, 3, got[1].CorrectJudgments)
	assert.Equal(t, 1, got[1].CorrectionsAccepted)
	assert.Equal(t, 90, got[1].DurationSecs)

	got, err = repo.RecentSessions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestJudgmentEventsAndCategoryAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []JudgmentEventData{
		{SessionID: "s", Category: "quotes", Variant: "mismatched-quotes", Snippet: `'a"`, Judgment: "invalid", Correct: true, ParseMessage: "Invalid or unexpected token"},
		{SessionID: "s", Category: "quotes", Variant: "matched-quotes", Snippet: `'a'`, Judgment: "invalid", ActualValid: true},
		{SessionID: "s", Category: "for-loop", Variant: "correct", Snippet: "for (;;) {}", Judgment: "valid", ActualValid: true, Correct: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendJudgmentEvent(ctx, e))
	}

	stats, err := repo.CategoryAccuracy(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, CategoryStats{Category: "for-loop", Attempted: 1, Correct: 1}, stats[0])
	assert.Equal(t, CategoryStats{Category: "quotes", Attempted: 2, Correct: 1}, stats[1])
	assert.InDelta(t, 0.5, stats[1].Accuracy(), 1e-9)

	recs, err := repo.QueryJudgmentEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "correct", recs[0].Variant)
	assert.True(t, recs[0].ActualValid)
	assert.Equal(t, "matched-quotes", recs[1].Variant)
	assert.False(t, recs[1].Correct)

	recs, err = repo.QueryJudgmentEvents(ctx, QueryOpts{After: recs[1].Sequence})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestCorrectionEvent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EventRepo().AppendCorrectionEvent(ctx, CorrectionEventData{
		SessionID: "s", Category: "quotes", Variant: "mismatched-quotes", Original: `'a"`, Revision: `'a'`, Accepted: true,
	}))

	var accepted int
	require.NoError(t, s.DB().Get(&accepted, "SELECT accepted FROM correction_events"))
	assert.Equal(t, 1, accepted)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "explain", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, RequestBody: "[user]\nhi", ResponseBody: "{}"},
		{Provider: "mock", Model: "m1", Purpose: "explain", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "m2", Purpose: "other", LatencyMs: 50, ErrorMessage: "boom"},
	}
	for _, d := range data {
		require.NoError(t, repo.AppendLLMRequest(ctx, d))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "m2", events[0].Model)
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)

	explains, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "explain", Limit: 1})
	require.NoError(t, err)
	require.Len(t, explains, 1)
	assert.Equal(t, 20, explains[0].InputTokens)

	first := events[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nhi", got.RequestBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsageStats{Purpose: "explain", Calls: 2, InputTokens: 30, OutputTokens: 10, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, LLMModelUsage{Model: "m1", Calls: 2, InputTokens: 30, OutputTokens: 10}, byModel[0])
}

func TestQueryOptsFilter(t *testing.T) {
	from := time.UnixMilli(1000)
	where, args := QueryOpts{After: 3, Before: 9, From: from}.filter()
	assert.Equal(t, " WHERE sequence > ? AND sequence < ? AND timestamp >= ?", where)
	assert.Equal(t, []any{int64(3), int64(9), int64(1000)}, args)

	where, args = QueryOpts{}.filter()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestSnapshotSaveGetDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, snap)

	data := json.RawMessage(`{"id":"abc"}`)
	require.NoError(t, repo.Save(ctx, &Snapshot{SessionID: "abc", Data: data}))
	require.NoError(t, repo.Save(ctx, &Snapshot{SessionID: "abc", Data: json.RawMessage(`{"id":"abc","n":2}`)}))

	snap, err = repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.JSONEq(t, `{"id":"abc","n":2}`, string(snap.Data))
	assert.True(t, snap.ExpiresAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "abc"))
	snap, err = repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotExpiryAndPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Save(ctx, &Snapshot{SessionID: "old", ExpiresAt: base.Add(-time.Minute), Data: json.RawMessage(`{}`)}))
	require.NoError(t, repo.Save(ctx, &Snapshot{SessionID: "live", ExpiresAt: base.Add(time.Hour), Data: json.RawMessage(`{}`)}))
	require.NoError(t, repo.Save(ctx, &Snapshot{SessionID: "forever", Data: json.RawMessage(`{}`)}))

	snap, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, snap, "expired snapshot must not be returned")

	n, err := repo.Prune(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	snap, err = repo.Get(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SYNTAXIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "syntaxiz", "syntaxiz.db"), p)

	custom := filepath.Join(dir, "nested", "x.db")
	t.Setenv("SYNTAXIZ_DB", custom)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, custom, p)
}
