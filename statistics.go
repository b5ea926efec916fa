package freemap

// Statistics accumulates basic usage numbers across one or more managed ranges
type Statistics[T Address] struct {
	BlockCount      int
	AllocationCount int
	BlockBytes      T
	AllocationBytes T
}

func (s *Statistics[T]) Clear() {
	s.BlockCount = 0
	s.AllocationCount = 0
	s.BlockBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics[T]) AddStatistics(other *Statistics[T]) {
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.BlockBytes += other.BlockBytes
	s.AllocationBytes += other.AllocationBytes
}

// DetailedStatistics extends Statistics with unused range counts and size extremes. Call
// Clear before accumulating into a new value, so that the minimums start at MaxAddress.
type DetailedStatistics[T Address] struct {
	Statistics[T]
	UnusedRangeCount   int
	AllocationSizeMin  T
	AllocationSizeMax  T
	UnusedRangeSizeMin T
	UnusedRangeSizeMax T
}

func (s *DetailedStatistics[T]) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.AllocationSizeMin = MaxAddress[T]()
	s.AllocationSizeMax = 0
	s.UnusedRangeSizeMin = MaxAddress[T]()
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics[T]) AddUnusedRange(size T) {
	s.UnusedRangeCount++

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics[T]) AddAllocation(size T) {
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics[T]) AddDetailedStatistics(other *DetailedStatistics[T]) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.UnusedRangeCount += other.UnusedRangeCount

	if other.UnusedRangeSizeMin < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = other.UnusedRangeSizeMin
	}

	if other.UnusedRangeSizeMax > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = other.UnusedRangeSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
