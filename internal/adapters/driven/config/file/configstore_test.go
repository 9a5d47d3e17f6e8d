package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".skillroute", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("corpus.root", "/srv/skills"))
	require.NoError(t, store.Set("corpus.workers", 8))
	require.NoError(t, store.Set("server.rate_limit", 12.5))
	require.NoError(t, store.Set("watch.enabled", false))
	require.NoError(t, store.Set("tags", []string{"a", "b"}))

	assert.Equal(t, "/srv/skills", store.GetString("corpus.root"))
	assert.Equal(t, 8, store.GetInt("corpus.workers"))
	assert.Equal(t, 12.5, store.GetFloat("server.rate_limit"))
	assert.Equal(t, 8.0, store.GetFloat("corpus.workers"))
	assert.False(t, store.GetBool("watch.enabled"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("tags"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("corpus.workers"))
	assert.Zero(t, store.GetInt("corpus.root"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("corpus.root"))
	assert.Nil(t, store.GetStringSlice("corpus.root"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("corpus.root", "/srv/skills"))
	require.NoError(t, store.Set("server.rate_burst", 20))
	require.NoError(t, store.Set("server.rate_limit", 2.5))
	require.NoError(t, store.Set("vocabulary.domains.security", "SEC"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/skills", reloaded.GetString("corpus.root"))
	assert.Equal(t, 20, reloaded.GetInt("server.rate_burst"))
	assert.Equal(t, 2.5, reloaded.GetFloat("server.rate_limit"))
	assert.Equal(t, "SEC", reloaded.GetString("vocabulary.domains.security"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("server.addr", ":9090"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[server]")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[corpus]
root = "/data/skills"
workers = 2

[vocabulary.domains]
security = "SEC"
"data science" = "DS"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/skills", store.GetString("corpus.root"))
	assert.Equal(t, 2, store.GetInt("corpus.workers"))
	assert.Equal(t, []string{"vocabulary.domains.data science", "vocabulary.domains.security"},
		store.Keys("vocabulary.domains."))
}

func TestConfigStore_Keys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("b.two", 2))
	require.NoError(t, store.Set("b.one", 1))
	require.NoError(t, store.Set("a", 0))

	assert.Equal(t, []string{"b.one", "b.two"}, store.Keys("b."))
	assert.Equal(t, []string{"a", "b.one", "b.two"}, store.Keys(""))
	assert.Empty(t, store.Keys("zzz"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Empty(t, store.Keys(""))
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("this is [not toml"), 0600))

	store, err := NewConfigStore(dir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("corpus.workers", i)
			_ = store.GetInt("corpus.workers")
			_ = store.Keys("corpus.")
		}()
	}
	wg.Wait()

	_, ok := store.Get("corpus.workers")
	assert.True(t, ok)
}

func TestUnflattenMap(t *testing.T) {
	got := unflattenMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
		"a.c":   "conflict",
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": "conflict",
		},
		"a.c.d": "x",
		"e":     true,
	}, got)

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true},
		flattenMap(map[string]any{"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}}, "e": true}, ""))
}
