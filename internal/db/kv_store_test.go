package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestKV(t *testing.T) *KVStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewKVStore(store)
}

func TestNewKVStore_NilBase(t *testing.T) {
	assert.Nil(t, NewKVStore(nil))
}

func TestKVStore_NotInitialized(t *testing.T) {
	ctx := context.Background()
	var kv *KVStore

	_, _, err := kv.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, kv.Set(ctx, "k", "v"))
	assert.Error(t, kv.Delete(ctx, "k"))
	_, err = kv.KeysWithPrefix(ctx, "k")
	assert.Error(t, err)
}

func TestKVStore_EmptyKeyRejected(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	_, _, err := kv.Get(ctx, "   ")
	assert.Error(t, err)
	assert.Error(t, kv.Set(ctx, "", "v"))
}

func TestKVStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	require.NoError(t, kv.Set(ctx, "draft_autosave_d1", `{"subject":"a"}`))

	val, found, err := kv.Get(ctx, "draft_autosave_d1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"subject":"a"}`, val)
}

func TestKVStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	val, found, err := kv.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	require.NoError(t, kv.Set(ctx, "k", "first"))
	require.NoError(t, kv.Set(ctx, "k", "second"))

	val, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", val)
}

func TestKVStore_Delete(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	require.NoError(t, kv.Delete(ctx, "k"))

	_, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is a no-op
	assert.NoError(t, kv.Delete(ctx, "k"))
}

func TestKVStore_KeysWithPrefix(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	require.NoError(t, kv.Set(ctx, "draft_recovery_d1", "a"))
	require.NoError(t, kv.Set(ctx, "draft_recovery_d2", "b"))
	require.NoError(t, kv.Set(ctx, "draft_autosave_d1", "c"))

	keys, err := kv.KeysWithPrefix(ctx, "draft_recovery_")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft_recovery_d1", "draft_recovery_d2"}, keys)
}

func TestKVStore_KeysWithPrefix_UnderscoreIsLiteral(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	// Without escaping, the underscore in the prefix would match "draftXrecovery"
	require.NoError(t, kv.Set(ctx, "draftXrecoveryXd1", "a"))
	require.NoError(t, kv.Set(ctx, "draft_recovery_d1", "b"))

	keys, err := kv.KeysWithPrefix(ctx, "draft_recovery_")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft_recovery_d1"}, keys)
}

func TestKVStore_KeysWithPrefix_NoMatches(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	keys, err := kv.KeysWithPrefix(ctx, "draft_recovery_")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
