package orderedmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/freemap/internal/orderedmap"
)

func TestSetGetDelete(t *testing.T) {
	m := orderedmap.New[int, string](0)

	_, replaced := m.Set(10, "ten")
	require.False(t, replaced)

	old, replaced := m.Set(10, "TEN")
	require.True(t, replaced)
	require.Equal(t, "ten", old)

	value, ok := m.Get(10)
	require.True(t, ok)
	require.Equal(t, "TEN", value)
	_, ok = m.Get(11)
	require.False(t, ok)

	removed, ok := m.Delete(10)
	require.True(t, ok)
	require.Equal(t, "TEN", removed)
	require.Equal(t, 0, m.Len())

	_, ok = m.Delete(10)
	require.False(t, ok)
}

func TestNeighborSearch(t *testing.T) {
	m := orderedmap.New[int, int](2)
	for _, key := range []int{10, 20, 30, 40} {
		m.Set(key, key*10)
	}

	entry, ok := m.Ceil(20)
	require.True(t, ok)
	require.Equal(t, 20, entry.Key)

	entry, ok = m.Ceil(21)
	require.True(t, ok)
	require.Equal(t, 30, entry.Key)

	_, ok = m.Ceil(41)
	require.False(t, ok)

	entry, ok = m.Higher(20)
	require.True(t, ok)
	require.Equal(t, 30, entry.Key)

	_, ok = m.Higher(40)
	require.False(t, ok)

	entry, ok = m.Floor(29)
	require.True(t, ok)
	require.Equal(t, 20, entry.Key)
	require.Equal(t, 200, entry.Value)

	_, ok = m.Floor(9)
	require.False(t, ok)

	minEntry, ok := m.Min()
	require.True(t, ok)
	require.Equal(t, 10, minEntry.Key)

	maxEntry, ok := m.Max()
	require.True(t, ok)
	require.Equal(t, 40, maxEntry.Key)
}

func TestUpdate(t *testing.T) {
	m := orderedmap.New[uint32, int](0)

	m.Update(5, func(value int, exists bool) (int, bool) {
		require.False(t, exists)
		return 1, true
	})

	m.Update(5, func(value int, exists bool) (int, bool) {
		require.True(t, exists)
		require.Equal(t, 1, value)
		return value + 1, true
	})

	value, ok := m.Get(5)
	require.True(t, ok)
	require.Equal(t, 2, value)

	m.Update(5, func(value int, exists bool) (int, bool) {
		return 0, false
	})
	_, ok = m.Get(5)
	require.False(t, ok)

	// Deleting a missing key is a no-op
	m.Update(6, func(value int, exists bool) (int, bool) {
		return 0, false
	})
	require.Equal(t, 0, m.Len())
}

func TestOrderedIteration(t *testing.T) {
	m := orderedmap.New[int64, struct{}](4)
	for _, key := range []int64{50, -3, 7, 100, 0} {
		m.Set(key, struct{}{})
	}

	var keys []int64
	m.Ascend(func(key int64, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})
	require.Equal(t, []int64{-3, 0, 7, 50, 100}, keys)

	// Returning false stops the walk
	keys = keys[:0]
	m.Ascend(func(key int64, _ struct{}) bool {
		keys = append(keys, key)
		return key < 7
	})
	require.Equal(t, []int64{-3, 0, 7}, keys)

	m.Clear()
	require.Equal(t, 0, m.Len())
}
