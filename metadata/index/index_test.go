package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratuspay/vecstore/metadata"
)

func TestInvertedAddCompile(t *testing.T) {
	ix := New()
	ix.Add(0, metadata.Document{"category": metadata.String("tech"), "year": metadata.Int(2024)})
	ix.Add(1, metadata.Document{"category": metadata.String("tech"), "year": metadata.Int(2025)})
	ix.Add(2, metadata.Document{"category": metadata.String("finance")})

	t.Run("single equality", func(t *testing.T) {
		bm, ok := ix.Compile(metadata.NewFilterSet(
			metadata.Eq("category", metadata.String("tech")),
		))
		require.True(t, ok)
		assert.Equal(t, []uint32{0, 1}, bm.ToArray())
	})

	t.Run("conjunction", func(t *testing.T) {
		bm, ok := ix.Compile(metadata.NewFilterSet(
			metadata.Eq("category", metadata.String("tech")),
			metadata.Eq("year", metadata.Int(2025)),
		))
		require.True(t, ok)
		assert.Equal(t, []uint32{1}, bm.ToArray())
	})

	t.Run("in operator", func(t *testing.T) {
		bm, ok := ix.Compile(metadata.NewFilterSet(metadata.Filter{
			Key:      "category",
			Operator: metadata.OpIn,
			Value:    metadata.Array([]metadata.Value{metadata.String("tech"), metadata.String("finance")}),
		}))
		require.True(t, ok)
		assert.Equal(t, []uint32{0, 1, 2}, bm.ToArray())
	})

	t.Run("unseen value yields empty conjunction", func(t *testing.T) {
		bm, ok := ix.Compile(metadata.NewFilterSet(
			metadata.Eq("category", metadata.String("sports")),
		))
		require.True(t, ok)
		assert.True(t, bm.IsEmpty())
	})

	t.Run("unsupported operator falls back", func(t *testing.T) {
		_, ok := ix.Compile(metadata.NewFilterSet(metadata.Filter{
			Key:      "year",
			Operator: metadata.OpGreaterThan,
			Value:    metadata.Int(2024),
		}))
		assert.False(t, ok)
	})

	t.Run("nil filter set falls back", func(t *testing.T) {
		_, ok := ix.Compile(nil)
		assert.False(t, ok)
	})
}

func TestInvertedRemoveUpdate(t *testing.T) {
	ix := New()
	docA := metadata.Document{"status": metadata.String("open")}
	docB := metadata.Document{"status": metadata.String("closed")}

	ix.Add(7, docA)
	ix.Update(7, docA, docB)

	bm, ok := ix.Compile(metadata.NewFilterSet(metadata.Eq("status", metadata.String("open"))))
	require.True(t, ok)
	assert.True(t, bm.IsEmpty())

	bm, ok = ix.Compile(metadata.NewFilterSet(metadata.Eq("status", metadata.String("closed"))))
	require.True(t, ok)
	assert.Equal(t, []uint32{7}, bm.ToArray())

	ix.Remove(7, docB)
	bm, ok = ix.Compile(metadata.NewFilterSet(metadata.Eq("status", metadata.String("closed"))))
	require.True(t, ok)
	assert.True(t, bm.IsEmpty())
}

func TestInvertedValueKindsDoNotCollide(t *testing.T) {
	ix := New()
	ix.Add(1, metadata.Document{"v": metadata.Int(1)})
	ix.Add(2, metadata.Document{"v": metadata.String("1")})
	ix.Add(3, metadata.Document{"v": metadata.Bool(true)})

	bm, ok := ix.Compile(metadata.NewFilterSet(metadata.Eq("v", metadata.Int(1))))
	require.True(t, ok)
	assert.Equal(t, []uint32{1}, bm.ToArray())
}
