package metadata

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/freemap"
)

// RegionType identifies whether a range reported by a detailed map is free or allocated
type RegionType uint32

const (
	RegionFree RegionType = iota
	RegionAllocated
)

var regionTypeMapping = map[RegionType]string{
	RegionFree:      "FREE",
	RegionAllocated: "ALLOCATED",
}

func (t RegionType) String() string {
	return regionTypeMapping[t]
}

// writeAddress writes value as a json integer when it fits in an int. Larger unsigned values are
// written as floats, which loses precision but keeps the magnitude.
func writeAddress[T freemap.Address](writer *jwriter.Writer, value T) {
	if value > 0 && uint64(value) > math.MaxInt {
		writer.Float64(float64(value))
		return
	}

	writer.Int(int(value))
}

// WriteJson populates a json object with summary information about this free map
func (m *FreeMap[T]) WriteJson(json *jwriter.ObjectState) {
	json.Name("Strategy").String(m.strategy.String())
	writeAddress(json.Name("TotalBytes"), m.size)
	writeAddress(json.Name("UnusedBytes"), m.sumFreeSize)
	json.Name("Allocations").Int(m.allocatedSpanCount())
	json.Name("UnusedRanges").Int(m.sizes.RegionCount())
}

// WriteDetailedMap adds a "Regions" array to a json object, listing every free region and every
// allocated range in address order
func (m *FreeMap[T]) WriteDetailedMap(json *jwriter.ObjectState) {
	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	_ = m.VisitAllRegions(func(offset T, size T, free bool) error {
		regionType := RegionAllocated
		if free {
			regionType = RegionFree
		}

		obj := arrayState.Object()
		defer obj.End()

		writeAddress(obj.Name("Offset"), offset)
		obj.Name("Type").String(regionType.String())
		writeAddress(obj.Name("Size"), size)

		return nil
	})
}
