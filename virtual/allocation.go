package virtual

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// AllocationHandle identifies a single allocation within a Block. Handles are never reused by
// the block that issued them.
type AllocationHandle uint64

// NullAllocationHandle is never issued by a Block
const NullAllocationHandle AllocationHandle = 0

// AllocationCreateInfo contains the parameters of a single allocation request
type AllocationCreateInfo struct {
	// Size is the number of units requested. It is rounded up to the block's granularity.
	Size int
	// UserData is an arbitrary value stored alongside the allocation and reported in stats strings
	// and unreleased allocation logs
	UserData any
}

// Allocation describes a live allocation within a Block
type Allocation struct {
	Handle AllocationHandle
	// Offset is the start of the allocated range
	Offset int
	// Size is the length of the allocated range, after rounding up to the block's granularity
	Size int
	// RequestedSize is the size originally passed to Block.Allocate
	RequestedSize int
	UserData      any
}

// End returns the first address after the allocated range
func (a Allocation) End() int {
	return a.Offset + a.Size
}

func (a *Allocation) printParameters(json *jwriter.ObjectState) {
	json.Name("Handle").Int(int(a.Handle))
	json.Name("Offset").Int(a.Offset)
	json.Name("Size").Int(a.Size)
	json.Name("RequestedSize").Int(a.RequestedSize)

	if a.UserData != nil {
		json.Name("CustomData").String(fmt.Sprintf("%+v", a.UserData))
	}
}
