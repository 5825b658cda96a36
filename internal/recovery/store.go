// Package recovery gives in-progress draft edits a persistence boundary
// independent of the backend. Two keyspaces cooperate: the autosave mirror
// is written on every edit and used to detect local-newer-than-server on
// mount; the recovery snapshot is written right before a save attempt and
// cleared only after confirmed success.
package recovery

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	recoveryKeyPrefix = "draft_recovery_"
	autosaveKeyPrefix = "draft_autosave_"

	// MaxSnapshotAge is how long a recovery snapshot survives before the
	// startup purge garbage-collects it
	MaxSnapshotAge = 7 * 24 * time.Hour
)

// KeyValue is the storage capability the durability layer is built on.
// Production wires db.KVStore; tests use an in-memory fake.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Snapshot is a point-in-time local mirror of a draft's edited fields
type Snapshot struct {
	DraftID   string    `json:"draftId"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Store implements the durability layer. Every operation is individually
// fault-tolerant: storage failures are logged and swallowed, never
// propagated, because local durability is best-effort and must not block
// the save/edit flow.
type Store struct {
	kv     KeyValue
	logger *log.Logger
	now    func() time.Time
}

// NewStore creates a durability store over kv. A nil kv disables the layer;
// every operation becomes a logged no-op.
func NewStore(kv KeyValue, logger *log.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Store) write(ctx context.Context, key string, snap Snapshot) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logf("recovery: encode snapshot %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logf("recovery: write snapshot %s: %v", key, err)
	}
}

func (s *Store) read(ctx context.Context, key string) (Snapshot, bool) {
	if s.kv == nil {
		return Snapshot{}, false
	}
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logf("recovery: read snapshot %s: %v", key, err)
		return Snapshot{}, false
	}
	if !found {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logf("recovery: decode snapshot %s: %v", key, err)
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Store) clear(ctx context.Context, key string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logf("recovery: clear snapshot %s: %v", key, err)
	}
}

// SaveRecoverySnapshot mirrors the edited fields under the recovery
// keyspace. Called immediately before a server save attempt as a
// pre-flight safety net.
func (s *Store) SaveRecoverySnapshot(ctx context.Context, draftID, subject, body string) {
	s.write(ctx, recoveryKeyPrefix+draftID, Snapshot{
		DraftID:   draftID,
		Subject:   subject,
		Body:      body,
		Timestamp: s.now(),
	})
}

// ReadRecoverySnapshot returns the recovery snapshot for draftID, if any
func (s *Store) ReadRecoverySnapshot(ctx context.Context, draftID string) (Snapshot, bool) {
	return s.read(ctx, recoveryKeyPrefix+draftID)
}

// ClearRecoverySnapshot removes the recovery entry. Called after a
// confirmed successful save and on explicit discard.
func (s *Store) ClearRecoverySnapshot(ctx context.Context, draftID string) {
	s.clear(ctx, recoveryKeyPrefix+draftID)
}

// ListRecoverySnapshots scans the whole recovery keyspace; used by the
// startup purge and cross-draft cleanup
func (s *Store) ListRecoverySnapshots(ctx context.Context) []Snapshot {
	if s.kv == nil {
		return nil
	}
	keys, err := s.kv.KeysWithPrefix(ctx, recoveryKeyPrefix)
	if err != nil {
		s.logf("recovery: list snapshots: %v", err)
		return nil
	}
	var snaps []Snapshot
	for _, key := range keys {
		if snap, ok := s.read(ctx, key); ok {
			snaps = append(snaps, snap)
		}
	}
	return snaps
}

// PurgeOlderThan deletes recovery snapshots whose capture timestamp is
// older than age. Invoked once per session on startup with MaxSnapshotAge.
// Returns how many entries were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, age time.Duration) int {
	cutoff := s.now().Add(-age)
	purged := 0
	for _, snap := range s.ListRecoverySnapshots(ctx) {
		if snap.Timestamp.Before(cutoff) {
			s.ClearRecoverySnapshot(ctx, snap.DraftID)
			purged++
		}
	}
	return purged
}

// AutoSave mirrors the edited fields under the autosave keyspace,
// unconditionally on every content change
func (s *Store) AutoSave(ctx context.Context, draftID, subject, body string) {
	s.write(ctx, autosaveKeyPrefix+draftID, Snapshot{
		DraftID:   draftID,
		Subject:   subject,
		Body:      body,
		Timestamp: s.now(),
	})
}

// ReadAutoSave returns the autosave snapshot for draftID, if any
func (s *Store) ReadAutoSave(ctx context.Context, draftID string) (Snapshot, bool) {
	return s.read(ctx, autosaveKeyPrefix+draftID)
}

// ClearAutoSave removes the autosave entry; called after a confirmed
// successful save or a dismissed recovery offer
func (s *Store) ClearAutoSave(ctx context.Context, draftID string) {
	s.clear(ctx, autosaveKeyPrefix+draftID)
}

// IsLocalNewerThanServer reports whether the autosave snapshot for draftID
// was captured strictly later than the server's updated_at. Clock skew
// between client and backend can produce false offers; reconciling that
// would need a product decision, so the raw timestamps are compared.
func (s *Store) IsLocalNewerThanServer(ctx context.Context, draftID string, serverUpdatedAt time.Time) bool {
	snap, found := s.ReadAutoSave(ctx, draftID)
	if !found {
		return false
	}
	return snap.Timestamp.After(serverUpdatedAt)
}
