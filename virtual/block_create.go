package virtual

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/freemap"
	"github.com/vkngwrapper/freemap/metadata"
)

// BlockCreateOptions contains the parameters used to create a new Block
type BlockCreateOptions struct {
	// Size is the length of the address range managed by the block. It must be a multiple of
	// Granularity.
	Size int
	// Strategy is the allocation strategy used for every allocation made from the block
	Strategy metadata.AllocationStrategy
	// Granularity is the unit that every allocation size and offset is aligned to. It must be a
	// power of two. If it is 0, a granularity of 1 is used.
	Granularity int
	Flags       BlockCreateFlags
}

func (o *BlockCreateOptions) granularity() int {
	if o.Granularity == 0 {
		return 1
	}

	return o.Granularity
}

func (o *BlockCreateOptions) validate() error {
	if o.Size < 0 {
		return errors.Wrapf(freemap.ErrInvalidArgument, "block size %d is negative", o.Size)
	}

	granularity := o.granularity()
	err := freemap.CheckPow2(granularity, "block granularity")
	if err != nil {
		return err
	}

	if freemap.AlignDown(o.Size, granularity) != o.Size {
		return errors.Wrapf(freemap.ErrInvalidArgument,
			"block size %d is not a multiple of the block granularity %d", o.Size, granularity)
	}

	return o.Strategy.Validate()
}

// NewBlock creates a Block managing the range [0, options.Size) using a free map with
// options.Strategy. logger receives diagnostics, including the allocations that are still live
// when the block is destroyed.
func NewBlock(logger *slog.Logger, options BlockCreateOptions) (*Block, error) {
	err := options.validate()
	if err != nil {
		return nil, err
	}

	freeMap, err := metadata.NewFreeMap[int](options.Size, options.Strategy)
	if err != nil {
		return nil, err
	}

	return newBlock(logger, options, freeMap)
}

func newBlock(logger *slog.Logger, options BlockCreateOptions, allocator RegionAllocator) (*Block, error) {
	err := options.validate()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	block := &Block{
		logger:      logger,
		strategy:    options.Strategy,
		granularity: options.granularity(),
		allocator:   allocator,
		allocations: swiss.NewMap[AllocationHandle, *Allocation](16),
	}
	block.mutex.UseMutex = options.Flags&BlockCreateExternallySynchronized == 0

	return block, nil
}
