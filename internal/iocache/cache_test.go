package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals allows InitStores and CloseStores to run again in a test.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite backends", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		runPath := filepath.Join(dir, "runs.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runPath)
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetFetchStore(), "Fetch store should not be nil")
		assert.NotNil(t, Manager.GetRunStore(), "Run store should not be nil")

		CloseStores()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Cache database file should be created")
		_, err = os.Stat(runPath)
		assert.NoError(t, err, "Run database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		err1 := InitStores(schema.SQLiteBackend, cachePath, "", "")
		err2 := InitStores(schema.MySQLBackend, "bogus", "", "")

		assert.NoError(t, err1, "First init should not fail")
		assert.NoError(t, err2, "Second init is skipped")

		CloseStores()
		CloseStores()
	})

	t.Run("empty run backend leaves store unset", func(t *testing.T) {
		resetGlobals(t)

		err := InitStores(schema.NoneBackend, "", "", "")
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetFetchStore())
		assert.Nil(t, Manager.GetRunStore())
		CloseStores()
	})

	t.Run("invalid run backend closes fetch store", func(t *testing.T) {
		resetGlobals(t)

		err := InitStores(schema.NoneBackend, "", schema.RedisBackend, "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetFetchStore())
	})
}

func TestNoneBackendCacheStore(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Expected error from Get on none backend")

	assert.NoError(t, store.Set("test_key", []byte("test_value"), 1, 123456789))

	_, _, _, err = store.Get("test_key")
	assert.Error(t, err, "Set is a no-op on none backend")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid name starting with underscore", "_test_table", false},
		{"valid mixed case", "TestTable_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"test_table"`},
		{schema.MySQLBackend, "`test_table`"},
		{schema.PostgreSQLBackend, `"test_table"`},
		{schema.NoneBackend, `"test_table"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("test_table", tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 1))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?, ?, ?", placeholderList(schema.SQLiteBackend, 3))
	assert.Equal(t, "$1, $2", placeholderList(schema.PostgreSQLBackend, 2))
}

func TestDriverFor(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverFor(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := driverFor(schema.RedisBackend)
	assert.Error(t, err)
}

func TestSQLiteCacheStore(t *testing.T) {
	newStore := func(t *testing.T) *CacheStoreImpl {
		t.Helper()
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
		require.NoError(t, err, "Failed to create SQLite store")
		t.Cleanup(func() { _ = store.Close() })
		return store.(*CacheStoreImpl)
	}

	t.Run("set and get", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("test_key", []byte("test_value_data"), 1, 1234567890))

		value, version, timestamp, err := store.Get("test_key")
		require.NoError(t, err)
		assert.Equal(t, "test_value_data", string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1234567890), timestamp)
	})

	t.Run("upsert behavior", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("upsert_key", []byte("initial_value"), 1, 1000))
		require.NoError(t, store.Set("upsert_key", []byte("updated_value"), 2, 2000))

		value, version, timestamp, err := store.Get("upsert_key")
		require.NoError(t, err)
		assert.Equal(t, "updated_value", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), timestamp)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		store := newStore(t)

		_, _, _, err := store.Get("non_existent_key")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("status", func(t *testing.T) {
		store := newStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("2"), 1, 3000))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(3000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.GreaterOrEqual(t, status.TableSizeBytes, int64(0))
	})
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore("ok_name", schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(fetchTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "missing.db"), ""))
	})

	t.Run("sqlite requires a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
		assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("oracle"), "", ""))
		assert.Error(t, ClearRuns(schema.RedisBackend, "", ""))
	})
}
