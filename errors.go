package freemap

import "github.com/cockroachdb/errors"

var (
	// ErrAllocationFailed is returned when no free region is large enough to satisfy an allocation
	// under the configured strategy. The free map is left unmodified when it is returned.
	ErrAllocationFailed = errors.New("no free region is large enough for the requested allocation")

	// ErrCorruptedFreeMap marks errors reporting that a free call disagreed with the free map's
	// boundary or size indices: a double free, a free of a range that was never allocated, a free
	// with the wrong length, or an internal bug. The free map is left unmodified, but the caller's
	// view of the address space is no longer trustworthy and should not be used further.
	ErrCorruptedFreeMap = errors.New("corrupted free map")

	// ErrInvalidArgument is returned for negative lengths, out-of-range offsets and other arguments
	// that can never be valid
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPowerOfTwo is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
	ErrPowerOfTwo = errors.New("number must be a power of two")
)

// CorruptionError builds an assertion failure wrapping ErrCorruptedFreeMap, so that the standard
// library's errors.Is can detect it as well as errors.HasAssertionFailure
func CorruptionError(format string, args ...any) error {
	return errors.WithAssertionFailure(errors.Wrapf(ErrCorruptedFreeMap, format, args...))
}
