package metadata

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/freemap"
)

// FreeMap tracks which parts of the linear range [0, Size()) are free. It never touches the
// storage behind the range: it only answers where a new allocation should go and folds freed
// ranges back into the free space.
//
// Free space is kept in two indices that are updated together by every operation:
//
//   - a size index, an ordered map from region length to the offsets of the free regions having
//     that length, which answers the strategy searches made by Allocate
//   - a boundary index, an ordered map from address to the length of the free region starting
//     or ending at that address, which lets Free find adjacent free regions with two point lookups
//
// Free regions are always maximal: two free regions are never adjacent, because Free merges a
// freed range with its free neighbours immediately.
//
// FreeMap is not safe for concurrent use. Callers that need concurrent access should wrap each
// call in a single exclusive lock.
type FreeMap[T freemap.Address] struct {
	size     T
	strategy AllocationStrategy

	sizes       sizeIndex[T]
	boundaries  boundaryIndex[T]
	sumFreeSize T
}

var _ freemap.Validatable = &FreeMap[int]{}

// NewFreeMap creates a FreeMap managing [0, size), initially consisting of a single free region.
// strategy is used by every call to Allocate for the lifetime of the map.
func NewFreeMap[T freemap.Address](size T, strategy AllocationStrategy) (*FreeMap[T], error) {
	if size < 0 {
		return nil, errors.Wrapf(freemap.ErrInvalidArgument, "free map size %d is negative", size)
	}

	err := strategy.Validate()
	if err != nil {
		return nil, err
	}

	m := &FreeMap[T]{
		size:       size,
		strategy:   strategy,
		sizes:      newSizeIndex[T](),
		boundaries: newBoundaryIndex[T](),
	}
	m.Clear()

	return m, nil
}

// Size returns the length of the managed range
func (m *FreeMap[T]) Size() T { return m.size }

// Strategy returns the allocation strategy chosen when the map was created
func (m *FreeMap[T]) Strategy() AllocationStrategy { return m.strategy }

// SumFreeSize returns the total length of all free regions
func (m *FreeMap[T]) SumFreeSize() T { return m.sumFreeSize }

// FreeRegionsCount returns the number of free regions. Since adjacent free regions are always
// merged, this is also a measure of external fragmentation.
func (m *FreeMap[T]) FreeRegionsCount() int { return m.sizes.RegionCount() }

// IsEmpty returns true if nothing in the managed range is allocated
func (m *FreeMap[T]) IsEmpty() bool { return m.sumFreeSize == m.size }

// LargestFreeRegion returns the length of the largest free region, or false if there is no
// free space
func (m *FreeMap[T]) LargestFreeRegion() (T, bool) {
	return m.sizes.Largest()
}

// MayHaveFreeBlock returns true if an allocation of the provided length would currently succeed.
// The answer doesn't depend on the strategy, since every strategy can use the largest region.
func (m *FreeMap[T]) MayHaveFreeBlock(length T) bool {
	if length <= 0 {
		return true
	}

	largest, ok := m.sizes.Largest()
	return ok && largest >= length
}

// IsFree returns true if [offset, offset+length) lies entirely within a single free region
func (m *FreeMap[T]) IsFree(offset, length T) bool {
	if length <= 0 {
		return true
	}

	address, record, ok := m.boundaries.Floor(offset)
	return ok && record.kind == boundaryFreeStart && address+record.size >= offset+length
}

// Clear frees the entire managed range, leaving a single free region
func (m *FreeMap[T]) Clear() {
	m.sizes.Clear()
	m.boundaries.ClearAll()
	m.sumFreeSize = 0

	if m.size > 0 {
		m.insertFreeRegion(0, m.size)
	}
}

// insertFreeRegion adds [offset, offset+length) to both indices. The caller is responsible for
// making sure that the region is not adjacent to another free region.
func (m *FreeMap[T]) insertFreeRegion(offset, length T) {
	m.sizes.InsertOne(length, offset)
	m.boundaries.SetFreeStart(offset, length)

	end := offset + length
	if end < m.size {
		m.boundaries.SetFreeEnd(end, length)
	}

	m.sumFreeSize += length
}

// removeFreeRegion drops [offset, offset+length) from both indices
func (m *FreeMap[T]) removeFreeRegion(offset, length T) {
	if !m.sizes.RemoveOne(length, offset) {
		panic(freemap.CorruptionError("free region [%d, %d) is missing from the size index", offset, offset+length))
	}

	m.boundaries.Clear(offset)

	end := offset + length
	if end < m.size {
		m.boundaries.Clear(end)
	}

	m.sumFreeSize -= length
}

// Allocate reserves length units of the managed range and returns the offset of the reserved
// range. The region used is chosen by the map's strategy, and the allocation is placed at the
// start of it; whatever remains of the region stays free.
//
// A zero-length allocation succeeds immediately with offset 0 and reserves nothing. If no free
// region is large enough, an error wrapping freemap.ErrAllocationFailed is returned and the map
// is not modified.
func (m *FreeMap[T]) Allocate(length T) (T, error) {
	if length == 0 {
		return 0, nil
	}
	if length < 0 {
		return 0, errors.Wrapf(freemap.ErrInvalidArgument, "allocation length %d is negative", length)
	}

	freemap.DebugValidate(m)

	offset, regionLength, found := m.sizes.FindFreeRegion(length, m.strategy)
	if !found {
		largest, _ := m.sizes.Largest()
		return 0, errors.Wrapf(freemap.ErrAllocationFailed,
			"%s could not place %d units, largest free region is %d", m.strategy, length, largest)
	}

	if !m.sizes.RemoveOne(regionLength, offset) {
		panic(freemap.CorruptionError("free region [%d, %d) was found but could not be removed", offset, offset+regionLength))
	}

	end := offset + regionLength
	m.boundaries.Clear(offset)

	if regionLength == length {
		// Exact fit, the region disappears completely
		if end < m.size {
			m.boundaries.Clear(end)
		}
	} else {
		residual := regionLength - length
		residualOffset := offset + length

		m.sizes.InsertOne(residual, residualOffset)
		m.boundaries.SetFreeStart(residualOffset, residual)
		if end < m.size {
			m.boundaries.Resize(end, boundaryFreeEnd, residual)
		}
	}

	m.sumFreeSize -= length
	return offset, nil
}

// Free returns [offset, offset+length) to the free space, merging it with the free regions
// immediately before and after it, if any. A zero-length free is a no-op.
//
// The range must be entirely allocated. It may span several allocations, or part of one. Before
// changing anything, Free checks the range against the boundary and size indices; if any of
// them says part of the range is already free, or that a neighbour the range would merge with
// is not where it should be, Free returns an error marked with freemap.ErrCorruptedFreeMap and
// leaves the map unmodified. That error means the caller has freed something twice, freed
// something that was never allocated, or used the wrong length: it is a bug, not a condition
// to retry.
func (m *FreeMap[T]) Free(offset, length T) error {
	if length == 0 {
		return nil
	}
	if length < 0 {
		return errors.Wrapf(freemap.ErrInvalidArgument, "free length %d is negative", length)
	}

	end := offset + length
	if offset < 0 || end < offset || end > m.size {
		return freemap.CorruptionError("range [%d, %d) is outside of the managed range [0, %d)", offset, end, m.size)
	}

	freemap.DebugValidate(m)

	// A free region starting at or before offset must not reach into the range
	address, record, ok := m.boundaries.Floor(offset)
	if ok && record.kind == boundaryFreeStart && address+record.size > offset {
		return freemap.CorruptionError("range [%d, %d) overlaps the free region [%d, %d)",
			offset, end, address, address+record.size)
	}

	// No free region may start or end inside the range
	if m.boundaries.AnyWithin(offset, end) {
		return freemap.CorruptionError("range [%d, %d) contains the boundary of a free region", offset, end)
	}

	leftLength, hasLeft := m.boundaries.LeftAdjacentFree(offset)
	if hasLeft && !m.sizes.Contains(leftLength, offset-leftLength) {
		return freemap.CorruptionError("free region [%d, %d) has a boundary marker but is missing from the size index",
			offset-leftLength, offset)
	}

	rightLength, hasRight := m.boundaries.RightAdjacentFree(end)
	if hasRight && !m.sizes.Contains(rightLength, end) {
		return freemap.CorruptionError("free region [%d, %d) has a boundary marker but is missing from the size index",
			end, end+rightLength)
	}

	mergedOffset := offset
	mergedLength := length

	if hasLeft {
		mergedOffset -= leftLength
		mergedLength += leftLength
		m.removeFreeRegion(mergedOffset, leftLength)
	}

	if hasRight {
		mergedLength += rightLength
		m.removeFreeRegion(end, rightLength)
	}

	m.insertFreeRegion(mergedOffset, mergedLength)
	return nil
}

// Grow extends the managed range by additional units at its end. The new space is free, and is
// merged with the last free region if that region reaches the old end of the range.
func (m *FreeMap[T]) Grow(additional T) error {
	if additional == 0 {
		return nil
	}

	newSize := m.size + additional
	if additional < 0 || newSize < m.size {
		return errors.Wrapf(freemap.ErrInvalidArgument, "cannot grow a free map of size %d by %d", m.size, additional)
	}

	oldSize := m.size
	m.size = newSize

	if oldSize > 0 {
		address, record, ok := m.boundaries.Floor(oldSize - 1)
		if ok && record.kind == boundaryFreeStart && address+record.size == oldSize {
			m.sizes.RemoveOne(record.size, address)
			m.sizes.InsertOne(record.size+additional, address)
			m.boundaries.Resize(address, boundaryFreeStart, record.size+additional)
			m.sumFreeSize += additional
			return nil
		}
	}

	m.insertFreeRegion(oldSize, additional)
	return nil
}

// allocatedSpanCount returns the number of maximal allocated ranges, which alternate with the
// free regions across the managed range
func (m *FreeMap[T]) allocatedSpanCount() int {
	if m.size == 0 || m.sumFreeSize == m.size {
		return 0
	}

	freeCount := m.sizes.RegionCount()
	if freeCount == 0 {
		return 1
	}

	spans := freeCount - 1

	if _, startsFree := m.boundaries.RightAdjacentFree(0); !startsFree {
		spans++
	}

	address, record, ok := m.boundaries.Floor(m.size - 1)
	endsFree := ok && record.kind == boundaryFreeStart && address+record.size == m.size
	if !endsFree {
		spans++
	}

	return spans
}

// VisitAllRegions calls handleRegion for every free region and every maximal allocated range, in
// address order. Iteration stops at the first error, which is returned.
func (m *FreeMap[T]) VisitAllRegions(handleRegion func(offset T, size T, free bool) error) error {
	var cursor T
	var err error

	m.boundaries.Visit(func(address T, record boundary[T]) bool {
		if record.kind != boundaryFreeStart {
			return true
		}

		if cursor < address {
			err = handleRegion(cursor, address-cursor, false)
			if err != nil {
				return false
			}
		}

		err = handleRegion(address, record.size, true)
		if err != nil {
			return false
		}

		cursor = address + record.size
		return true
	})
	if err != nil {
		return err
	}

	if cursor < m.size {
		return handleRegion(cursor, m.size-cursor, false)
	}

	return nil
}

// AddStatistics sums this map's statistics into stats. Each maximal allocated range counts
// as one allocation, since the map doesn't know how the caller divided it up.
func (m *FreeMap[T]) AddStatistics(stats *freemap.Statistics[T]) {
	stats.BlockCount++
	stats.BlockBytes += m.size
	stats.AllocationCount += m.allocatedSpanCount()
	stats.AllocationBytes += m.size - m.sumFreeSize
}

// AddDetailedStatistics sums this map's statistics into stats. Each maximal allocated range
// counts as one allocation.
func (m *FreeMap[T]) AddDetailedStatistics(stats *freemap.DetailedStatistics[T]) {
	stats.BlockCount++
	stats.BlockBytes += m.size

	_ = m.VisitAllRegions(func(offset T, size T, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddAllocation(size)
		}

		return nil
	})
}

// DebugLogFreeRegions writes every free region to logger at debug level
func (m *FreeMap[T]) DebugLogFreeRegions(logger *slog.Logger) {
	m.boundaries.Visit(func(address T, record boundary[T]) bool {
		if record.kind == boundaryFreeStart {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "free region",
				slog.Any("offset", address),
				slog.Any("size", record.size),
			)
		}
		return true
	})
}

// Validate performs a full consistency check of both indices against each other and against the
// map's counters. It walks every record, so it is expensive and meant for tests and diagnostics.
func (m *FreeMap[T]) Validate() error {
	if m.sumFreeSize < 0 || m.sumFreeSize > m.size {
		return errors.Newf("free size %d is outside of [0, %d]", m.sumFreeSize, m.size)
	}

	var err error
	var calculatedFreeSize T
	var freeCount int
	var previousEnd T
	var previousSize T
	var hasPrevious bool
	var expectEndMarker bool

	m.boundaries.Visit(func(address T, record boundary[T]) bool {
		switch record.kind {
		case boundaryFreeStart:
			if expectEndMarker {
				err = errors.Newf("free region ending at %d has no end marker", previousEnd)
				return false
			}
			if record.size <= 0 {
				err = errors.Newf("free region at %d has invalid size %d", address, record.size)
				return false
			}
			if address < 0 || address+record.size > m.size {
				err = errors.Newf("free region [%d, %d) is outside of the managed range [0, %d)", address, address+record.size, m.size)
				return false
			}
			if hasPrevious && address < previousEnd {
				err = errors.Newf("free region at %d overlaps the free region ending at %d", address, previousEnd)
				return false
			}
			if hasPrevious && address == previousEnd {
				err = errors.Newf("free region at %d is adjacent to the previous free region and should have been merged", address)
				return false
			}
			if !m.sizes.Contains(record.size, address) {
				err = errors.Newf("free region [%d, %d) is missing from the size index", address, address+record.size)
				return false
			}

			freeCount++
			calculatedFreeSize += record.size
			previousEnd = address + record.size
			previousSize = record.size
			hasPrevious = true
			expectEndMarker = previousEnd < m.size

		case boundaryFreeEnd:
			if !expectEndMarker || address != previousEnd {
				err = errors.Newf("end marker at %d does not close a free region", address)
				return false
			}
			if record.size != previousSize {
				err = errors.Newf("end marker at %d records size %d, but the free region it closes has size %d", address, record.size, previousSize)
				return false
			}

			expectEndMarker = false

		default:
			err = errors.Newf("unknown boundary kind %d at %d", record.kind, address)
			return false
		}

		return true
	})
	if err != nil {
		return err
	}

	if expectEndMarker {
		return errors.Newf("free region ending at %d has no end marker", previousEnd)
	}

	if smallest, ok := m.sizes.Smallest(); ok && smallest <= 0 {
		return errors.Newf("size index has a bucket for invalid length %d", smallest)
	}
	if m.sizes.BucketCount() > m.sizes.RegionCount() {
		return errors.Newf("size index has %d buckets for only %d regions", m.sizes.BucketCount(), m.sizes.RegionCount())
	}

	m.sizes.VisitBuckets(func(length T, regionCount int) bool {
		if regionCount == 0 {
			err = errors.Newf("size index has an empty bucket for length %d", length)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	// Every indexed region must also be known to the boundary index
	m.sizes.VisitRegions(func(length, offset T) bool {
		record, ok := m.boundaries.Record(offset)
		if !ok || record.kind != boundaryFreeStart || record.size != length {
			err = errors.Newf("size index entry [%d, %d) has no matching start marker", offset, offset+length)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	if freeCount != m.sizes.RegionCount() {
		return errors.Newf("the boundary index has %d free regions, but the size index has %d", freeCount, m.sizes.RegionCount())
	}

	if calculatedFreeSize != m.sumFreeSize {
		return errors.Newf("the free size of the map is %d, but the free regions only added up to %d", m.sumFreeSize, calculatedFreeSize)
	}

	return nil
}
