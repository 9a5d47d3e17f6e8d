package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CopiesSeed(t *testing.T) {
	seed := map[string]any{"corpus.root": "/srv/corpus"}
	store := NewConfigStore(seed)
	seed["corpus.root"] = "/elsewhere"

	assert.Equal(t, "/srv/corpus", store.GetString("corpus.root"))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("server.addr", ":8080"))

	val, ok := store.Get("server.addr")
	assert.True(t, ok)
	assert.Equal(t, ":8080", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s":      "text",
		"i":      7,
		"i64":    int64(8),
		"f":      2.5,
		"b":      true,
		"slice":  []string{"a", "b"},
		"anyvec": []any{"x", 1, "y"},
	})

	assert.Equal(t, "text", store.GetString("s"))
	assert.Empty(t, store.GetString("i"))

	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 8, store.GetInt("i64"))
	assert.Equal(t, 2, store.GetInt("f"))
	assert.Zero(t, store.GetInt("s"))

	assert.InDelta(t, 2.5, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("i"), 1e-9)
	assert.InDelta(t, 8.0, store.GetFloat("i64"), 1e-9)
	assert.Zero(t, store.GetFloat("b"))

	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("anyvec"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"vocabulary.domains.ops":   "DO",
		"vocabulary.domains.admin": "PM",
		"server.addr":              ":8080",
	})

	assert.Equal(t, []string{"vocabulary.domains.admin", "vocabulary.domains.ops"},
		store.Keys("vocabulary.domains."))
	assert.Len(t, store.Keys(""), 3)
	assert.Empty(t, store.Keys("nothing."))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore(nil)

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key.%d", n)
			_ = store.Set(key, n)
			assert.Equal(t, n, store.GetInt(key))
			_ = store.Keys("key.")
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys("key."), 20)
}
