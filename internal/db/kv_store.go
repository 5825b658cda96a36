package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// KVStore exposes the local_kv table as a keyed string store with prefix
// scans. It is the persistence behind the draft durability layer.
type KVStore struct {
	db *sql.DB
}

// NewKVStore creates a key-value store from a base store
func NewKVStore(store *Store) *KVStore {
	if store == nil {
		return nil
	}
	return &KVStore{db: store.DB()}
}

// Get returns the value for key, reporting presence separately from errors
func (kv *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if kv == nil || kv.db == nil {
		return "", false, fmt.Errorf("kv store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return "", false, fmt.Errorf("empty key")
	}
	var out string
	err := kv.db.QueryRowContext(ctx, `SELECT value FROM local_kv WHERE key=?`, key).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Set upserts the value for key
func (kv *KVStore) Set(ctx context.Context, key, value string) error {
	if kv == nil || kv.db == nil {
		return fmt.Errorf("kv store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty key")
	}
	_, err := kv.db.ExecContext(ctx, `INSERT INTO local_kv(key, value, updated_at)
VALUES(?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`, key, value, time.Now().Unix())
	return err
}

// Delete removes key; deleting an absent key is not an error
func (kv *KVStore) Delete(ctx context.Context, key string) error {
	if kv == nil || kv.db == nil {
		return fmt.Errorf("kv store not initialized")
	}
	_, err := kv.db.ExecContext(ctx, `DELETE FROM local_kv WHERE key=?`, key)
	return err
}

// KeysWithPrefix returns all keys starting with prefix, sorted
func (kv *KVStore) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if kv == nil || kv.db == nil {
		return nil, fmt.Errorf("kv store not initialized")
	}
	rows, err := kv.db.QueryContext(ctx, `SELECT key FROM local_kv WHERE key LIKE ? ESCAPE '\' ORDER BY key`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in the prefix; the snapshot
// keyspaces use underscores, which LIKE would otherwise treat as
// single-character wildcards
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
