package metadata

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/freemap"
)

// AllocationStrategy selects which free region satisfies an allocation request. It is fixed when
// a FreeMap is created, so that a single map never mixes conflicting fragmentation policies.
type AllocationStrategy uint32

const (
	// AllocationStrategyFirstFit minimizes allocation time. It performs a single successor search
	// for the smallest region length that satisfies the request and takes the first region of that
	// length.
	AllocationStrategyFirstFit AllocationStrategy = iota
	// AllocationStrategyWorstFit minimizes external fragmentation. It always carves the allocation
	// out of the largest free region so that leftover fragments stay large.
	AllocationStrategyWorstFit
	// AllocationStrategyBestFit minimizes memory usage. It looks for a region of exactly the
	// requested length first and otherwise takes the smallest larger region, so that the leftover
	// fragment is as small as possible.
	AllocationStrategyBestFit
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyFirstFit: "FirstFit",
	AllocationStrategyWorstFit: "WorstFit",
	AllocationStrategyBestFit:  "BestFit",
}

func (s AllocationStrategy) String() string {
	str, ok := allocationStrategyMapping[s]
	if !ok {
		return "Unknown"
	}
	return str
}

// Validate returns an error if the strategy is not one of the defined constants
func (s AllocationStrategy) Validate() error {
	if _, ok := allocationStrategyMapping[s]; !ok {
		return errors.Wrapf(freemap.ErrInvalidArgument, "unknown allocation strategy %d", uint32(s))
	}
	return nil
}
