package virtual

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/freemap"
	"github.com/vkngwrapper/freemap/internal/utils"
	"github.com/vkngwrapper/freemap/metadata"
)

// ErrBlockDestroyed is returned by Block methods that allocate or free after Destroy has
// succeeded
var ErrBlockDestroyed = errors.New("block has been destroyed")

//go:generate mockgen -source block.go -destination ./mocks/region_allocator.go -package mock_virtual

// RegionAllocator is the free space bookkeeping behind a Block. metadata.FreeMap[int] is the
// only production implementation.
type RegionAllocator interface {
	Allocate(length int) (int, error)
	Free(offset, length int) error
	Clear()

	Size() int
	SumFreeSize() int
	FreeRegionsCount() int
	LargestFreeRegion() (int, bool)
	IsEmpty() bool
	IsFree(offset, length int) bool

	Validate() error
	AddDetailedStatistics(stats *freemap.DetailedStatistics[int])
	WriteJson(json *jwriter.ObjectState)
	WriteDetailedMap(json *jwriter.ObjectState)
}

var _ RegionAllocator = &metadata.FreeMap[int]{}

// BlockCounters contains the running operation totals of a Block
type BlockCounters struct {
	Allocations       uint64
	Frees             uint64
	FailedAllocations uint64
}

// Block hands out handle-based allocations from a linear address range that it does not own.
// Unless it was created with BlockCreateExternallySynchronized, all methods are safe for
// concurrent use.
type Block struct {
	logger      *slog.Logger
	mutex       utils.OptionalRWMutex
	strategy    metadata.AllocationStrategy
	granularity int

	allocator   RegionAllocator
	allocations *swiss.Map[AllocationHandle, *Allocation]
	nextHandle  atomic.Uint64
	destroyed   bool

	allocationCount       atomic.Uint64
	freeCount             atomic.Uint64
	failedAllocationCount atomic.Uint64
}

// Size returns the length of the block's address range
func (b *Block) Size() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.allocator.Size()
}

// Granularity returns the unit that allocation offsets and sizes are aligned to
func (b *Block) Granularity() int { return b.granularity }

// Strategy returns the allocation strategy used by the block
func (b *Block) Strategy() metadata.AllocationStrategy { return b.strategy }

// Allocate reserves a range of the block and returns a description of it, including the handle
// used to free it. If the block has no free region large enough, the returned error wraps
// freemap.ErrAllocationFailed.
func (b *Block) Allocate(createInfo AllocationCreateInfo) (Allocation, error) {
	if createInfo.Size <= 0 {
		return Allocation{}, errors.Wrapf(freemap.ErrInvalidArgument, "allocation size %d must be positive", createInfo.Size)
	}

	freemap.DebugCheckPow2(b.granularity, "block granularity")
	size := freemap.AlignUp(createInfo.Size, b.granularity)
	if size < createInfo.Size {
		return Allocation{}, errors.Wrapf(freemap.ErrInvalidArgument, "allocation size %d is too large", createInfo.Size)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.destroyed {
		return Allocation{}, ErrBlockDestroyed
	}

	offset, err := b.allocator.Allocate(size)
	if err != nil {
		b.failedAllocationCount.Add(1)

		b.logger.LogAttrs(context.Background(), slog.LevelDebug, "allocation failed",
			slog.Int("size", size),
			slog.String("strategy", b.strategy.String()),
			slog.Int("freeBytes", b.allocator.SumFreeSize()),
			slog.Any("error", err),
		)
		return Allocation{}, errors.Wrapf(err, "failed to allocate %d bytes", size)
	}

	allocation := &Allocation{
		Handle:        AllocationHandle(b.nextHandle.Add(1)),
		Offset:        offset,
		Size:          size,
		RequestedSize: createInfo.Size,
		UserData:      createInfo.UserData,
	}
	b.allocations.Put(allocation.Handle, allocation)
	b.allocationCount.Add(1)

	return *allocation, nil
}

// Free releases the allocation identified by handle
func (b *Block) Free(handle AllocationHandle) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.destroyed {
		return ErrBlockDestroyed
	}

	allocation, ok := b.allocations.Get(handle)
	if !ok {
		return errors.Wrapf(freemap.ErrInvalidArgument, "unknown allocation handle %d", handle)
	}

	err := b.allocator.Free(allocation.Offset, allocation.Size)
	if err != nil {
		b.logger.LogAttrs(context.Background(), slog.LevelError, "free map rejected a free",
			slog.Uint64("handle", uint64(handle)),
			slog.Int("offset", allocation.Offset),
			slog.Int("size", allocation.Size),
			slog.Any("error", err),
		)
		return err
	}

	b.allocations.Delete(handle)
	b.freeCount.Add(1)
	return nil
}

// AllocationInfo returns the description of a live allocation, or false if handle does not
// identify one
func (b *Block) AllocationInfo(handle AllocationHandle) (Allocation, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	allocation, ok := b.allocations.Get(handle)
	if !ok {
		return Allocation{}, false
	}

	return *allocation, true
}

// SetAllocationUserData replaces the user data stored with a live allocation
func (b *Block) SetAllocationUserData(handle AllocationHandle, userData any) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	allocation, ok := b.allocations.Get(handle)
	if !ok {
		return errors.Wrapf(freemap.ErrInvalidArgument, "unknown allocation handle %d", handle)
	}

	allocation.UserData = userData
	return nil
}

// AllocationCount returns the number of live allocations
func (b *Block) AllocationCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.allocations.Count()
}

// IsEmpty returns true if the block has no live allocations
func (b *Block) IsEmpty() bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.allocations.Count() == 0
}

// Counters returns the running operation totals of the block
func (b *Block) Counters() BlockCounters {
	return BlockCounters{
		Allocations:       b.allocationCount.Load(),
		Frees:             b.freeCount.Load(),
		FailedAllocations: b.failedAllocationCount.Load(),
	}
}

// Clear releases every live allocation at once. Outstanding handles become invalid.
func (b *Block) Clear() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.destroyed {
		return ErrBlockDestroyed
	}

	released := b.allocations.Count()
	b.allocations = swiss.NewMap[AllocationHandle, *Allocation](16)
	b.allocator.Clear()
	b.freeCount.Add(uint64(released))

	b.logger.LogAttrs(context.Background(), slog.LevelDebug, "block cleared",
		slog.Int("releasedAllocations", released),
	)
	return nil
}

// sortedAllocations returns the live allocations in address order. The caller must hold the
// mutex.
func (b *Block) sortedAllocations() []*Allocation {
	allocations := make([]*Allocation, 0, b.allocations.Count())
	b.allocations.Iter(func(handle AllocationHandle, allocation *Allocation) bool {
		allocations = append(allocations, allocation)
		return false
	})

	slices.SortFunc(allocations, func(left, right *Allocation) int {
		return cmp.Compare(left.Offset, right.Offset)
	})

	return allocations
}

// Validate checks the block's allocation table against its free map, and then validates the
// free map itself
func (b *Block) Validate() error {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	err := b.allocator.Validate()
	if err != nil {
		return err
	}

	var previousEnd int
	var allocatedBytes int
	for _, allocation := range b.sortedAllocations() {
		if allocation.Offset < previousEnd {
			return errors.Newf("allocation %d at offset %d overlaps the previous allocation, which ends at %d",
				allocation.Handle, allocation.Offset, previousEnd)
		}
		if allocation.Offset%b.granularity != 0 || allocation.Size%b.granularity != 0 {
			return errors.Newf("allocation %d is not aligned to the block granularity %d", allocation.Handle, b.granularity)
		}
		if allocation.Size < allocation.RequestedSize {
			return errors.Newf("allocation %d has size %d, which is smaller than its requested size %d",
				allocation.Handle, allocation.Size, allocation.RequestedSize)
		}
		if b.allocator.IsFree(allocation.Offset, 1) || b.allocator.IsFree(allocation.End()-1, 1) {
			return errors.Newf("allocation %d at offset %d is marked as free in the free map", allocation.Handle, allocation.Offset)
		}

		previousEnd = allocation.End()
		allocatedBytes += allocation.Size
	}

	if previousEnd > b.allocator.Size() {
		return errors.Newf("an allocation ends at %d, past the end of the block", previousEnd)
	}

	freeMapAllocatedBytes := b.allocator.Size() - b.allocator.SumFreeSize()
	if allocatedBytes != freeMapAllocatedBytes {
		return errors.Newf("live allocations add up to %d bytes, but the free map has %d bytes allocated",
			allocatedBytes, freeMapAllocatedBytes)
	}

	return nil
}

// Statistics returns basic usage numbers for the block
func (b *Block) Statistics() freemap.Statistics[int] {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return freemap.Statistics[int]{
		BlockCount:      1,
		AllocationCount: b.allocations.Count(),
		BlockBytes:      b.allocator.Size(),
		AllocationBytes: b.allocator.Size() - b.allocator.SumFreeSize(),
	}
}

// DetailedStatistics returns usage numbers for the block, including the size extremes of its
// live allocations and free regions
func (b *Block) DetailedStatistics() freemap.DetailedStatistics[int] {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.detailedStatistics()
}

func (b *Block) detailedStatistics() freemap.DetailedStatistics[int] {
	// The free map only sees maximal allocated ranges, so allocation numbers come from the handle
	// table instead
	var regions freemap.DetailedStatistics[int]
	regions.Clear()
	b.allocator.AddDetailedStatistics(&regions)

	var stats freemap.DetailedStatistics[int]
	stats.Clear()
	stats.BlockCount = 1
	stats.BlockBytes = b.allocator.Size()
	stats.UnusedRangeCount = regions.UnusedRangeCount
	stats.UnusedRangeSizeMin = regions.UnusedRangeSizeMin
	stats.UnusedRangeSizeMax = regions.UnusedRangeSizeMax

	b.allocations.Iter(func(handle AllocationHandle, allocation *Allocation) bool {
		stats.AddAllocation(allocation.Size)
		return false
	})

	return stats
}

func printStatistics(json *jwriter.ObjectState, stats *freemap.DetailedStatistics[int]) {
	json.Name("BlockCount").Int(stats.BlockCount)
	json.Name("BlockBytes").Int(stats.BlockBytes)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)

	if stats.AllocationCount > 1 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}
	if stats.UnusedRangeCount > 1 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}
}

// BuildStatsString returns a json string describing the block's usage. If detailed is true, the
// string also lists every free region, allocated range, and live allocation.
func (b *Block) BuildStatsString(detailed bool) string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	stats := b.detailedStatistics()
	totalObj := obj.Name("Total").Object()
	printStatistics(&totalObj, &stats)
	totalObj.End()

	if detailed {
		mapObj := obj.Name("FreeMap").Object()
		b.allocator.WriteJson(&mapObj)
		b.allocator.WriteDetailedMap(&mapObj)
		mapObj.End()

		allocationsArray := obj.Name("Allocations").Array()
		for _, allocation := range b.sortedAllocations() {
			allocationObj := allocationsArray.Object()
			allocation.printParameters(&allocationObj)
			allocationObj.End()
		}
		allocationsArray.End()
	}

	obj.End()
	return string(writer.Bytes())
}

// Destroy marks the block as unusable. If any allocations are still live, each of them is logged
// at error level and an error is returned; the block remains usable in that case so the caller
// can free them and try again.
func (b *Block) Destroy() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.destroyed {
		return ErrBlockDestroyed
	}

	remaining := b.allocations.Count()
	if remaining > 0 {
		for _, allocation := range b.sortedAllocations() {
			b.logUnreleasedAllocation(allocation)
		}

		return errors.Newf("%d allocations were not freed before the destruction of this block", remaining)
	}

	b.destroyed = true
	return nil
}

func (b *Block) logUnreleasedAllocation(allocation *Allocation) {
	b.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocation",
		slog.Uint64("handle", uint64(allocation.Handle)),
		slog.Int("offset", allocation.Offset),
		slog.Int("size", allocation.Size),
		slog.Any("userData", allocation.UserData),
	)
}
