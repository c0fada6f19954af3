package wordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaBumpAllocation(t *testing.T) {
	t.Parallel()
	a := NewArena(100, nil)
	assert.Equal(t, 100, a.CapacityWords())

	first, err := a.Grow(nil, 10)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 10, cap(first), "arena slices must not extend into the next block")
	assert.Equal(t, 10, a.UsedWords())

	first[0] = 42
	second, err := a.Grow(first, 30)
	require.NoError(t, err)
	assert.Equal(t, Word(42), second[0])
	assert.Equal(t, 40, a.UsedWords())
}

func TestArenaStrictExhaustion(t *testing.T) {
	t.Parallel()
	a := NewArena(8, nil)
	old, err := a.Grow(nil, 6)
	require.NoError(t, err)

	got, err := a.Grow(old, 7)
	require.Error(t, err)
	assert.True(t, IsAllocationFailure(err))
	assert.Equal(t, old, got)
	assert.Equal(t, 6, a.UsedWords(), "failed request must not consume arena space")
}

func TestArenaFallback(t *testing.T) {
	t.Parallel()
	stats := &Stats{}
	a := NewArena(4, Instrument(&Heap{}, stats))

	words, err := a.Grow(nil, 16)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(words), 16)
	assert.Equal(t, 0, a.UsedWords())
	assert.Equal(t, int64(1), stats.Grows.Load())
}

func TestArenaResetClearsReusedStorage(t *testing.T) {
	t.Parallel()
	a := NewArena(16, nil)
	words, err := a.Grow(nil, 16)
	require.NoError(t, err)
	for i := range words {
		words[i] = Word(i + 1)
	}

	a.Reset()
	assert.Equal(t, 0, a.UsedWords())

	again, err := a.Grow(nil, 16)
	require.NoError(t, err)
	for i, w := range again {
		require.Zerof(t, w, "reused arena storage not cleared at %d", i)
	}
}

func TestZeroSizedArena(t *testing.T) {
	t.Parallel()
	a := NewArena(0, nil)
	assert.Equal(t, 0, a.CapacityWords())
	_, err := a.Grow(nil, 1)
	assert.True(t, IsAllocationFailure(err))
}
