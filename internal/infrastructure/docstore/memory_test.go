package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReadAbsent(t *testing.T) {
	store := NewMemoryStore()

	raw, err := store.Read(context.Background(), "branches/x/products/missing")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMemoryStoreWriteRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	require.NoError(t, store.Write(ctx, "branches/b1/products/p1", doc{Name: "Soda", Stock: 4}))

	raw, err := store.Read(ctx, "branches/b1/products/p1")
	require.NoError(t, err)
	var got doc
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, doc{Name: "Soda", Stock: 4}, got)

	// Overwrite replaces the whole document.
	require.NoError(t, store.Write(ctx, "branches/b1/products/p1", doc{Name: "Water", Stock: 9}))
	raw, err = store.Read(ctx, "branches/b1/products/p1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, doc{Name: "Water", Stock: 9}, got)
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "customers/c1", map[string]any{"name": "Jane", "points": 10}))
	require.NoError(t, store.Update(ctx, "customers/c1", map[string]any{"points": 25}))

	raw, err := store.Read(ctx, "customers/c1")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Jane", got["name"])
	assert.EqualValues(t, 25, got["points"])
}

func TestMemoryStoreUpdateCreatesDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "customers/new", map[string]any{"name": "Fresh"}))
	raw, err := store.Read(ctx, "customers/new")
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestMemoryStorePushGeneratesUniqueKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	k1, err := store.Push(ctx, "customers/c1/points_history", map[string]any{"points": 5})
	require.NoError(t, err)
	k2, err := store.Push(ctx, "customers/c1/points_history", map[string]any{"points": 7})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	docs, err := store.List(ctx, "customers/c1/points_history")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestMemoryStoreRemoveIsRecursive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "customers/c1", map[string]any{"name": "Jane"}))
	require.NoError(t, store.Write(ctx, "customers/c1/points_history/h1", map[string]any{"points": 5}))
	require.NoError(t, store.Write(ctx, "customers/c2", map[string]any{"name": "Omar"}))

	require.NoError(t, store.Remove(ctx, "customers/c1"))

	raw, err := store.Read(ctx, "customers/c1")
	require.NoError(t, err)
	assert.Nil(t, raw)
	raw, err = store.Read(ctx, "customers/c1/points_history/h1")
	require.NoError(t, err)
	assert.Nil(t, raw)

	// Siblings survive.
	raw, err = store.Read(ctx, "customers/c2")
	require.NoError(t, err)
	assert.NotNil(t, raw)

	// Removing an absent path is a no-op.
	assert.NoError(t, store.Remove(ctx, "customers/ghost"))
}

func TestMemoryStoreListDirectChildrenOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "branches/b1/products/p1", map[string]any{"name": "A"}))
	require.NoError(t, store.Write(ctx, "branches/b1/products/p2", map[string]any{"name": "B"}))
	require.NoError(t, store.Write(ctx, "branches/b1/products/p1/variants/v1", map[string]any{"size": "L"}))
	require.NoError(t, store.Write(ctx, "branches/b1/invoices/i1", map[string]any{"total": 10}))

	docs, err := store.List(ctx, "branches/b1/products")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, "p2", docs[1].ID)
}

func TestMemoryStoreListEmptyCollection(t *testing.T) {
	store := NewMemoryStore()

	docs, err := store.List(context.Background(), "branches/none/products")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStoreTransact(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type counter struct {
		Next int64 `json:"next"`
	}

	// Absent path: fn sees nil and seeds the document.
	err := store.Transact(ctx, "branches/b1/counters/invoice_seq", func(current json.RawMessage) (any, error) {
		require.Nil(t, current)
		return counter{Next: 2}, nil
	})
	require.NoError(t, err)

	// A failing fn leaves the document untouched.
	wantErr := errors.New("nope")
	err = store.Transact(ctx, "branches/b1/counters/invoice_seq", func(current json.RawMessage) (any, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	raw, err := store.Read(ctx, "branches/b1/counters/invoice_seq")
	require.NoError(t, err)
	var got counter
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, int64(2), got.Next)
}

func TestMemoryStoreTransactConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type counter struct {
		Next int64 `json:"next"`
	}

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Transact(ctx, "counters/seq", func(current json.RawMessage) (any, error) {
				var c counter
				if current != nil {
					if err := json.Unmarshal(current, &c); err != nil {
						return nil, err
					}
				}
				c.Next++
				return c, nil
			})
		}()
	}
	wg.Wait()

	raw, err := store.Read(ctx, "counters/seq")
	require.NoError(t, err)
	var got counter
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, int64(writers), got.Next)
}

func TestPathJoining(t *testing.T) {
	assert.Equal(t, "branches/b1/products", Path("branches", "b1", "products"))
	assert.Equal(t, "a/b", Path("/a/", "", "b/"))
	assert.Equal(t, "", Path())
}
