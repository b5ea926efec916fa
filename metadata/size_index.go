package metadata

import (
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/freemap"
	"github.com/vkngwrapper/freemap/internal/orderedmap"
)

// bucketIndexThreshold is the bucket size above which a bucket keeps a position index so that
// removing a specific offset doesn't require a scan
const bucketIndexThreshold = 16

// sizeBucket is the set of start offsets of every free region having one particular length.
// Offsets are kept in a slice; the order is unspecified and changes as offsets are removed.
type sizeBucket[T freemap.Address] struct {
	offsets   []T
	positions *swiss.Map[T, int]
}

func (b *sizeBucket[T]) Len() int {
	return len(b.offsets)
}

func (b *sizeBucket[T]) First() T {
	return b.offsets[0]
}

func (b *sizeBucket[T]) Add(offset T) {
	if b.positions != nil {
		b.positions.Put(offset, len(b.offsets))
	}
	b.offsets = append(b.offsets, offset)

	if b.positions == nil && len(b.offsets) > bucketIndexThreshold {
		b.positions = swiss.NewMap[T, int](uint32(len(b.offsets) * 2))
		for i, o := range b.offsets {
			b.positions.Put(o, i)
		}
	}
}

func (b *sizeBucket[T]) indexOf(offset T) int {
	if b.positions != nil {
		index, ok := b.positions.Get(offset)
		if !ok {
			return -1
		}
		return index
	}

	for i, o := range b.offsets {
		if o == offset {
			return i
		}
	}

	return -1
}

func (b *sizeBucket[T]) Contains(offset T) bool {
	return b.indexOf(offset) >= 0
}

func (b *sizeBucket[T]) Remove(offset T) bool {
	index := b.indexOf(offset)
	if index < 0 {
		return false
	}

	last := len(b.offsets) - 1
	if index != last {
		moved := b.offsets[last]
		b.offsets[index] = moved
		if b.positions != nil {
			b.positions.Put(moved, index)
		}
	}
	b.offsets = b.offsets[:last]

	if b.positions != nil {
		b.positions.Delete(offset)
	}

	return true
}

// sizeIndex is an ordered map from region length to the bucket of free regions having exactly
// that length. It answers the strategy searches used by FreeMap.Allocate.
type sizeIndex[T freemap.Address] struct {
	buckets     *orderedmap.Map[T, *sizeBucket[T]]
	regionCount int
}

func newSizeIndex[T freemap.Address]() sizeIndex[T] {
	return sizeIndex[T]{
		buckets: orderedmap.New[T, *sizeBucket[T]](orderedmap.DefaultDegree),
	}
}

// FindFreeRegion locates a free region of at least minLen according to strategy and returns its
// offset and actual length. The index is not modified.
func (i *sizeIndex[T]) FindFreeRegion(minLen T, strategy AllocationStrategy) (offset T, length T, found bool) {
	var entry orderedmap.Entry[T, *sizeBucket[T]]

	switch strategy {
	case AllocationStrategyFirstFit:
		entry, found = i.buckets.Ceil(minLen)
	case AllocationStrategyBestFit:
		// Exact match first, smallest larger bucket second
		var bucket *sizeBucket[T]
		bucket, found = i.buckets.Get(minLen)
		if found {
			return bucket.First(), minLen, true
		}

		entry, found = i.buckets.Higher(minLen)
	case AllocationStrategyWorstFit:
		entry, found = i.buckets.Max()
		if found && entry.Key < minLen {
			found = false
		}
	}

	if !found {
		return 0, 0, false
	}

	return entry.Value.First(), entry.Key, true
}

// InsertOne adds a free region to the bucket for its length, creating the bucket if necessary
func (i *sizeIndex[T]) InsertOne(length, offset T) {
	i.buckets.Update(length, func(bucket *sizeBucket[T], exists bool) (*sizeBucket[T], bool) {
		if !exists {
			bucket = &sizeBucket[T]{}
		}

		bucket.Add(offset)
		return bucket, true
	})
	i.regionCount++
}

// RemoveOne drops a free region from the bucket for its length, deleting the bucket if it becomes
// empty. It returns false if no such region was indexed.
func (i *sizeIndex[T]) RemoveOne(length, offset T) bool {
	var removed bool

	i.buckets.Update(length, func(bucket *sizeBucket[T], exists bool) (*sizeBucket[T], bool) {
		if !exists {
			return nil, false
		}

		removed = bucket.Remove(offset)
		return bucket, bucket.Len() > 0
	})

	if removed {
		i.regionCount--
	}
	return removed
}

func (i *sizeIndex[T]) Contains(length, offset T) bool {
	bucket, ok := i.buckets.Get(length)
	return ok && bucket.Contains(offset)
}

func (i *sizeIndex[T]) Largest() (T, bool) {
	entry, ok := i.buckets.Max()
	return entry.Key, ok
}

func (i *sizeIndex[T]) Smallest() (T, bool) {
	entry, ok := i.buckets.Min()
	return entry.Key, ok
}

func (i *sizeIndex[T]) RegionCount() int {
	return i.regionCount
}

func (i *sizeIndex[T]) BucketCount() int {
	return i.buckets.Len()
}

// VisitRegions calls visit for every indexed region in increasing length order until visit
// returns false
func (i *sizeIndex[T]) VisitRegions(visit func(length, offset T) bool) {
	i.buckets.Ascend(func(length T, bucket *sizeBucket[T]) bool {
		for _, offset := range bucket.offsets {
			if !visit(length, offset) {
				return false
			}
		}

		return true
	})
}

// VisitBuckets calls visit for every bucket in increasing length order until visit returns false
func (i *sizeIndex[T]) VisitBuckets(visit func(length T, regionCount int) bool) {
	i.buckets.Ascend(func(length T, bucket *sizeBucket[T]) bool {
		return visit(length, bucket.Len())
	})
}

func (i *sizeIndex[T]) Clear() {
	i.buckets.Clear()
	i.regionCount = 0
}
