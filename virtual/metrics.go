package virtual

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes the usage of a single Block to Prometheus. Gauges are read from the
// block each time the collector is scraped.
type MetricsCollector struct {
	block *Block

	totalBytes        *prometheus.Desc
	freeBytes         *prometheus.Desc
	allocatedBytes    *prometheus.Desc
	allocations       *prometheus.Desc
	freeRegions       *prometheus.Desc
	largestFreeRegion *prometheus.Desc

	allocationsTotal       *prometheus.Desc
	freesTotal             *prometheus.Desc
	failedAllocationsTotal *prometheus.Desc
}

var _ prometheus.Collector = &MetricsCollector{}

// NewMetricsCollector creates a collector for block. Every metric carries a "block" label set to
// name, so collectors for several blocks can be registered side by side.
func NewMetricsCollector(name string, block *Block) *MetricsCollector {
	labels := prometheus.Labels{"block": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("freemap", "block", metric), help, nil, labels)
	}

	return &MetricsCollector{
		block: block,

		totalBytes:        desc("size_bytes", "Length of the block's address range"),
		freeBytes:         desc("free_bytes", "Total length of the block's free regions"),
		allocatedBytes:    desc("allocated_bytes", "Total length of the block's live allocations"),
		allocations:       desc("allocations", "Number of live allocations"),
		freeRegions:       desc("free_regions", "Number of free regions"),
		largestFreeRegion: desc("largest_free_region_bytes", "Length of the largest free region"),

		allocationsTotal:       desc("allocations_total", "Total successful allocations"),
		freesTotal:             desc("frees_total", "Total frees"),
		failedAllocationsTotal: desc("failed_allocations_total", "Total allocations that found no free region large enough"),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalBytes
	ch <- c.freeBytes
	ch <- c.allocatedBytes
	ch <- c.allocations
	ch <- c.freeRegions
	ch <- c.largestFreeRegion
	ch <- c.allocationsTotal
	ch <- c.freesTotal
	ch <- c.failedAllocationsTotal
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	c.block.mutex.RLock()
	size := c.block.allocator.Size()
	free := c.block.allocator.SumFreeSize()
	allocations := c.block.allocations.Count()
	freeRegions := c.block.allocator.FreeRegionsCount()
	largest, _ := c.block.allocator.LargestFreeRegion()
	c.block.mutex.RUnlock()

	counters := c.block.Counters()

	ch <- prometheus.MustNewConstMetric(c.totalBytes, prometheus.GaugeValue, float64(size))
	ch <- prometheus.MustNewConstMetric(c.freeBytes, prometheus.GaugeValue, float64(free))
	ch <- prometheus.MustNewConstMetric(c.allocatedBytes, prometheus.GaugeValue, float64(size-free))
	ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.GaugeValue, float64(allocations))
	ch <- prometheus.MustNewConstMetric(c.freeRegions, prometheus.GaugeValue, float64(freeRegions))
	ch <- prometheus.MustNewConstMetric(c.largestFreeRegion, prometheus.GaugeValue, float64(largest))

	ch <- prometheus.MustNewConstMetric(c.allocationsTotal, prometheus.CounterValue, float64(counters.Allocations))
	ch <- prometheus.MustNewConstMetric(c.freesTotal, prometheus.CounterValue, float64(counters.Frees))
	ch <- prometheus.MustNewConstMetric(c.failedAllocationsTotal, prometheus.CounterValue, float64(counters.FailedAllocations))
}
