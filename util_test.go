package freemap_test

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/freemap"
)

func TestMaxAddress(t *testing.T) {
	require.Equal(t, math.MaxInt, freemap.MaxAddress[int]())
	require.Equal(t, int8(math.MaxInt8), freemap.MaxAddress[int8]())
	require.Equal(t, int32(math.MaxInt32), freemap.MaxAddress[int32]())
	require.Equal(t, uint16(math.MaxUint16), freemap.MaxAddress[uint16]())
	require.Equal(t, uint64(math.MaxUint64), freemap.MaxAddress[uint64]())
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, freemap.CheckPow2(1, "value"))
	require.NoError(t, freemap.CheckPow2(256, "value"))
	require.NoError(t, freemap.CheckPow2(uint8(128), "value"))

	require.ErrorIs(t, freemap.CheckPow2(0, "value"), freemap.ErrPowerOfTwo)
	require.ErrorIs(t, freemap.CheckPow2(-4, "value"), freemap.ErrPowerOfTwo)
	require.ErrorIs(t, freemap.CheckPow2(96, "value"), freemap.ErrPowerOfTwo)
}

func TestAlign(t *testing.T) {
	require.Equal(t, 0, freemap.AlignUp(0, 16))
	require.Equal(t, 16, freemap.AlignUp(1, 16))
	require.Equal(t, 16, freemap.AlignUp(16, 16))
	require.Equal(t, 32, freemap.AlignUp(17, 16))

	require.Equal(t, 0, freemap.AlignDown(15, 16))
	require.Equal(t, 16, freemap.AlignDown(31, 16))
	require.Equal(t, uint32(64), freemap.AlignDown(uint32(65), 8))
}

func TestCorruptionError(t *testing.T) {
	err := freemap.CorruptionError("free of [%d, %d) overlaps a free region", 10, 20)

	require.ErrorIs(t, err, freemap.ErrCorruptedFreeMap)
	require.True(t, errors.HasAssertionFailure(err))
	require.Contains(t, err.Error(), "free of [10, 20) overlaps a free region")
	require.False(t, errors.Is(err, freemap.ErrAllocationFailed))

	// Callers that only know the standard library must be able to detect the fault too
	require.True(t, stderrors.Is(err, freemap.ErrCorruptedFreeMap))
	require.False(t, stderrors.Is(err, freemap.ErrInvalidArgument))

	wrapped := errors.Wrap(err, "freeing texture")
	require.True(t, stderrors.Is(wrapped, freemap.ErrCorruptedFreeMap))
	require.True(t, errors.HasAssertionFailure(wrapped))
}

func TestDetailedStatistics(t *testing.T) {
	var stats freemap.DetailedStatistics[int]
	stats.Clear()
	stats.BlockCount = 1
	stats.BlockBytes = 100
	stats.AddAllocation(30)
	stats.AddAllocation(10)
	stats.AddUnusedRange(60)

	var other freemap.DetailedStatistics[int]
	other.Clear()
	other.BlockCount = 1
	other.BlockBytes = 50
	other.AddAllocation(50)

	var total freemap.DetailedStatistics[int]
	total.Clear()
	total.AddDetailedStatistics(&stats)
	total.AddDetailedStatistics(&other)

	require.Equal(t, freemap.DetailedStatistics[int]{
		Statistics: freemap.Statistics[int]{
			BlockCount:      2,
			AllocationCount: 3,
			BlockBytes:      150,
			AllocationBytes: 90,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  10,
		AllocationSizeMax:  50,
		UnusedRangeSizeMin: 60,
		UnusedRangeSizeMax: 60,
	}, total)
}
