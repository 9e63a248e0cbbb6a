package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/syntaxiz/internal/session"
	"github.com/abhisek/syntaxiz/internal/store"
)

// SnapshotRegistry keeps sessions in the SQLite snapshots table, so they
// survive a server restart without redis.
type SnapshotRegistry struct {
	repo store.SnapshotRepo
	ttl  time.Duration
	now  func() time.Time
}

// NewSnapshotRegistry wraps a snapshot repo. A non-positive ttl keeps
// sessions until they are deleted.
func NewSnapshotRegistry(repo store.SnapshotRepo, ttl time.Duration) *SnapshotRegistry {
	return &SnapshotRegistry{repo: repo, ttl: ttl, now: time.Now}
}

func (s *SnapshotRegistry) Get(ctx context.Context, id string) (*session.State, error) {
	snap, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}

	var st session.State
	if err := json.Unmarshal(snap.Data, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

func (s *SnapshotRegistry) Put(ctx context.Context, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.ID, err)
	}

	now := s.now()
	snap := &store.Snapshot{
		SessionID: st.ID,
		Timestamp: now,
		Data:      data,
	}
	if s.ttl > 0 {
		snap.ExpiresAt = now.Add(s.ttl)
	}
	return s.repo.Save(ctx, snap)
}

func (s *SnapshotRegistry) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Prune removes expired sessions.
func (s *SnapshotRegistry) Prune(ctx context.Context) (int64, error) {
	return s.repo.Prune(ctx, s.now())
}
