package metadata

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/freemap"
)

// Region is a free range of a FreeMap, as returned by FreeRegions and accepted by Restore
type Region[T freemap.Address] struct {
	Offset T
	Size   T
}

// End returns the first address after the region
func (r Region[T]) End() T {
	return r.Offset + r.Size
}

// FreeRegions returns every free region in address order
func (m *FreeMap[T]) FreeRegions() []Region[T] {
	regions := make([]Region[T], 0, m.sizes.RegionCount())

	m.boundaries.Visit(func(address T, record boundary[T]) bool {
		if record.kind == boundaryFreeStart {
			regions = append(regions, Region[T]{Offset: address, Size: record.size})
		}
		return true
	})

	return regions
}

// Restore builds a FreeMap managing [0, size) in which exactly the provided regions are free.
// The regions may be in any order, and adjacent regions are merged, but they may not overlap or
// fall outside of the managed range. Zero-length regions are ignored.
func Restore[T freemap.Address](size T, strategy AllocationStrategy, regions []Region[T]) (*FreeMap[T], error) {
	m, err := NewFreeMap[T](size, strategy)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(regions)
	slices.SortFunc(sorted, func(left, right Region[T]) int {
		return cmp.Compare(left.Offset, right.Offset)
	})

	m.sizes.Clear()
	m.boundaries.ClearAll()
	m.sumFreeSize = 0

	var pending Region[T]
	hasPending := false

	for _, region := range sorted {
		if region.Size == 0 {
			continue
		}

		if region.Size < 0 || region.Offset < 0 || region.End() < region.Offset || region.End() > size {
			return nil, errors.Wrapf(freemap.ErrInvalidArgument,
				"free region [%d, %d) is outside of the managed range [0, %d)", region.Offset, region.End(), size)
		}

		if hasPending && region.Offset < pending.End() {
			return nil, errors.Wrapf(freemap.ErrInvalidArgument,
				"free region [%d, %d) overlaps free region [%d, %d)", region.Offset, region.End(), pending.Offset, pending.End())
		}

		if hasPending && region.Offset == pending.End() {
			pending.Size += region.Size
			continue
		}

		if hasPending {
			m.insertFreeRegion(pending.Offset, pending.Size)
		}
		pending = region
		hasPending = true
	}

	if hasPending {
		m.insertFreeRegion(pending.Offset, pending.Size)
	}

	freemap.DebugValidate(m)
	return m, nil
}
