package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeIndexStrategies(t *testing.T) {
	index := newSizeIndex[int]()

	_, _, found := index.FindFreeRegion(1, AllocationStrategyFirstFit)
	require.False(t, found)
	_, _, found = index.FindFreeRegion(1, AllocationStrategyWorstFit)
	require.False(t, found)
	_, _, found = index.FindFreeRegion(1, AllocationStrategyBestFit)
	require.False(t, found)

	index.InsertOne(10, 100)
	index.InsertOne(30, 200)
	index.InsertOne(20, 300)
	require.Equal(t, 3, index.RegionCount())
	require.Equal(t, 3, index.BucketCount())

	offset, length, found := index.FindFreeRegion(15, AllocationStrategyFirstFit)
	require.True(t, found)
	require.Equal(t, 300, offset)
	require.Equal(t, 20, length)

	offset, length, found = index.FindFreeRegion(20, AllocationStrategyBestFit)
	require.True(t, found)
	require.Equal(t, 300, offset)
	require.Equal(t, 20, length)

	offset, length, found = index.FindFreeRegion(21, AllocationStrategyBestFit)
	require.True(t, found)
	require.Equal(t, 200, offset)
	require.Equal(t, 30, length)

	offset, length, found = index.FindFreeRegion(1, AllocationStrategyWorstFit)
	require.True(t, found)
	require.Equal(t, 200, offset)
	require.Equal(t, 30, length)

	_, _, found = index.FindFreeRegion(31, AllocationStrategyWorstFit)
	require.False(t, found)
	_, _, found = index.FindFreeRegion(31, AllocationStrategyFirstFit)
	require.False(t, found)
	_, _, found = index.FindFreeRegion(31, AllocationStrategyBestFit)
	require.False(t, found)

	smallest, ok := index.Smallest()
	require.True(t, ok)
	require.Equal(t, 10, smallest)

	largest, ok := index.Largest()
	require.True(t, ok)
	require.Equal(t, 30, largest)
}

func TestSizeIndexRemoveDeletesEmptyBuckets(t *testing.T) {
	index := newSizeIndex[int]()
	index.InsertOne(10, 0)
	index.InsertOne(10, 50)

	require.False(t, index.RemoveOne(10, 25))
	require.False(t, index.RemoveOne(11, 0))
	require.Equal(t, 2, index.RegionCount())

	require.True(t, index.RemoveOne(10, 0))
	require.True(t, index.Contains(10, 50))
	require.False(t, index.Contains(10, 0))
	require.Equal(t, 1, index.BucketCount())

	require.True(t, index.RemoveOne(10, 50))
	require.Equal(t, 0, index.BucketCount())
	require.Equal(t, 0, index.RegionCount())

	_, ok := index.Largest()
	require.False(t, ok)
}

func TestSizeIndexLargeBucket(t *testing.T) {
	index := newSizeIndex[int]()

	const count = bucketIndexThreshold * 4
	for i := 0; i < count; i++ {
		index.InsertOne(8, i*16)
	}

	bucket, ok := index.buckets.Get(8)
	require.True(t, ok)
	require.NotNil(t, bucket.positions)
	require.Equal(t, count, bucket.positions.Count())

	// Remove every other offset, moving the tail of the bucket around
	for i := 0; i < count; i += 2 {
		require.True(t, index.RemoveOne(8, i*16))
	}

	require.Equal(t, count/2, index.RegionCount())
	for i := 0; i < count; i++ {
		require.Equal(t, i%2 == 1, index.Contains(8, i*16))
	}

	for position, offset := range bucket.offsets {
		indexed, ok := bucket.positions.Get(offset)
		require.True(t, ok)
		require.Equal(t, position, indexed)
	}

	visited := 0
	index.VisitRegions(func(length, offset int) bool {
		require.Equal(t, 8, length)
		require.Equal(t, 16, offset%32)
		visited++
		return true
	})
	require.Equal(t, count/2, visited)

	index.Clear()
	require.Equal(t, 0, index.RegionCount())
	require.Equal(t, 0, index.BucketCount())
}

func TestBoundaryIndex(t *testing.T) {
	index := newBoundaryIndex[int]()

	// Free region [10, 30)
	index.SetFreeStart(10, 20)
	index.SetFreeEnd(30, 20)

	size, ok := index.LeftAdjacentFree(30)
	require.True(t, ok)
	require.Equal(t, 20, size)

	_, ok = index.LeftAdjacentFree(10)
	require.False(t, ok)

	size, ok = index.RightAdjacentFree(10)
	require.True(t, ok)
	require.Equal(t, 20, size)

	_, ok = index.RightAdjacentFree(30)
	require.False(t, ok)

	address, record, ok := index.Floor(25)
	require.True(t, ok)
	require.Equal(t, 10, address)
	require.Equal(t, boundaryFreeStart, record.kind)

	_, _, ok = index.Floor(5)
	require.False(t, ok)

	require.True(t, index.AnyWithin(5, 11))
	require.False(t, index.AnyWithin(10, 30))
	require.True(t, index.AnyWithin(10, 31))

	index.Resize(30, boundaryFreeEnd, 15)
	record, ok = index.Record(30)
	require.True(t, ok)
	require.Equal(t, boundary[int]{kind: boundaryFreeEnd, size: 15}, record)

	require.Panics(t, func() {
		index.Resize(30, boundaryFreeStart, 1)
	})
	require.Panics(t, func() {
		index.Resize(50, boundaryFreeEnd, 1)
	})

	require.True(t, index.Clear(30))
	require.False(t, index.Clear(30))
	require.Equal(t, 1, index.Len())

	index.ClearAll()
	require.Equal(t, 0, index.Len())
	require.Equal(t, "FreeEnd", boundaryFreeEnd.String())
}

func TestFreeMapValidateCatchesSizeIndexDrift(t *testing.T) {
	m, err := NewFreeMap[int](100, AllocationStrategyFirstFit)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	// A region in the size index with no start marker behind it
	m.sizes.InsertOne(5, 90)
	require.ErrorContains(t, m.Validate(), "no matching start marker")
	require.True(t, m.sizes.RemoveOne(5, 90))
	require.NoError(t, m.Validate())

	// A region indexed under a non-positive length
	m.sizes.InsertOne(-3, 50)
	require.ErrorContains(t, m.Validate(), "invalid length -3")
	require.True(t, m.sizes.RemoveOne(-3, 50))
	require.NoError(t, m.Validate())
}
