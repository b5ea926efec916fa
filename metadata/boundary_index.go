package metadata

import (
	"fmt"

	"github.com/vkngwrapper/freemap"
	"github.com/vkngwrapper/freemap/internal/orderedmap"
)

type boundaryKind uint8

const (
	// boundaryFreeStart marks the start address of a free region
	boundaryFreeStart boundaryKind = iota
	// boundaryFreeEnd marks the end address of a free region, which is also the start address of
	// the allocated region that follows it. Free regions that reach the end of the managed range
	// have no end marker.
	boundaryFreeEnd
)

var boundaryKindMapping = map[boundaryKind]string{
	boundaryFreeStart: "FreeStart",
	boundaryFreeEnd:   "FreeEnd",
}

func (k boundaryKind) String() string {
	return boundaryKindMapping[k]
}

// boundary records the length of the free region that starts or ends at the address it is
// stored under
type boundary[T freemap.Address] struct {
	kind boundaryKind
	size T
}

// boundaryIndex is an ordered map from address to boundary record. Because free regions are
// maximal, no address can hold both a start and an end marker.
type boundaryIndex[T freemap.Address] struct {
	records *orderedmap.Map[T, boundary[T]]
}

func newBoundaryIndex[T freemap.Address]() boundaryIndex[T] {
	return boundaryIndex[T]{
		records: orderedmap.New[T, boundary[T]](orderedmap.DefaultDegree),
	}
}

// LeftAdjacentFree reports the length of the free region ending exactly at offset, if any
func (i *boundaryIndex[T]) LeftAdjacentFree(offset T) (T, bool) {
	record, ok := i.records.Get(offset)
	if !ok || record.kind != boundaryFreeEnd {
		return 0, false
	}

	return record.size, true
}

// RightAdjacentFree reports the length of the free region starting exactly at end, if any
func (i *boundaryIndex[T]) RightAdjacentFree(end T) (T, bool) {
	record, ok := i.records.Get(end)
	if !ok || record.kind != boundaryFreeStart {
		return 0, false
	}

	return record.size, true
}

func (i *boundaryIndex[T]) Record(address T) (boundary[T], bool) {
	return i.records.Get(address)
}

func (i *boundaryIndex[T]) SetFreeStart(address, size T) {
	i.records.Set(address, boundary[T]{kind: boundaryFreeStart, size: size})
}

func (i *boundaryIndex[T]) SetFreeEnd(address, size T) {
	i.records.Set(address, boundary[T]{kind: boundaryFreeEnd, size: size})
}

// Resize changes the recorded length of an existing marker in place. The marker must exist and
// be of the provided kind.
func (i *boundaryIndex[T]) Resize(address T, kind boundaryKind, size T) {
	i.records.Update(address, func(record boundary[T], exists bool) (boundary[T], bool) {
		if !exists || record.kind != kind {
			panic(fmt.Sprintf("expected a %s boundary at address %d", kind, address))
		}

		record.size = size
		return record, true
	})
}

func (i *boundaryIndex[T]) Clear(address T) bool {
	_, ok := i.records.Delete(address)
	return ok
}

// Floor returns the record with the greatest address less than or equal to address
func (i *boundaryIndex[T]) Floor(address T) (T, boundary[T], bool) {
	entry, ok := i.records.Floor(address)
	return entry.Key, entry.Value, ok
}

// AnyWithin reports whether any record lies strictly between low and high
func (i *boundaryIndex[T]) AnyWithin(low, high T) bool {
	entry, ok := i.records.Higher(low)
	return ok && entry.Key < high
}

func (i *boundaryIndex[T]) Len() int {
	return i.records.Len()
}

// Visit calls visit for every record in address order until visit returns false
func (i *boundaryIndex[T]) Visit(visit func(address T, record boundary[T]) bool) {
	i.records.Ascend(visit)
}

func (i *boundaryIndex[T]) ClearAll() {
	i.records.Clear()
}
