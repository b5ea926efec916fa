package virtual

import (
	"fmt"
	"math/bits"
	"strings"
)

// BlockCreateFlags exposes options for block behavior that can be applied at creation time
type BlockCreateFlags int32

const (
	// BlockCreateExternallySynchronized indicates that the caller will synchronize all access to the
	// block, so the block's internal mutex can be skipped
	BlockCreateExternallySynchronized BlockCreateFlags = 1 << iota
)

var blockCreateFlagsMapping = map[BlockCreateFlags]string{
	BlockCreateExternallySynchronized: "BlockCreateExternallySynchronized",
}

func (f BlockCreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for remaining := uint32(f); remaining != 0; remaining &= remaining - 1 {
		flag := BlockCreateFlags(1 << bits.TrailingZeros32(remaining))

		name, ok := blockCreateFlagsMapping[flag]
		if !ok {
			name = fmt.Sprintf("UnknownFlag(%#x)", uint32(flag))
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}
