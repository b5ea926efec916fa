package freemap

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Address is the scalar type used for offsets and lengths within a managed range. Any
// integer type qualifies: the zero value is the start of the range, and lengths are
// differences between two addresses. Floating point types are excluded because their
// addition is not closed (a + b - b is not always a).
type Address interface {
	constraints.Integer
}

// MaxAddress returns the largest value representable by T
func MaxAddress[T Address]() T {
	var zero T
	ones := ^zero
	if ones > zero {
		// unsigned
		return ones
	}

	bitCount := unsafe.Sizeof(zero) * 8
	return T(uint64(1)<<(bitCount-1) - 1)
}
