package virtual_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/freemap/metadata"
	"github.com/vkngwrapper/freemap/virtual"
)

func gatherValues(t *testing.T, registry *prometheus.Registry) map[string]float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		require.Len(t, family.GetMetric(), 1)
		metric := family.GetMetric()[0]

		require.Len(t, metric.GetLabel(), 1)
		require.Equal(t, "block", metric.GetLabel()[0].GetName())
		require.Equal(t, "textures", metric.GetLabel()[0].GetValue())

		if metric.GetCounter() != nil {
			values[family.GetName()] = metric.GetCounter().GetValue()
		} else {
			values[family.GetName()] = metric.GetGauge().GetValue()
		}
	}

	return values
}

func TestMetricsCollector(t *testing.T) {
	block := newBlock(t, virtual.BlockCreateOptions{Size: 1000, Strategy: metadata.AllocationStrategyWorstFit})

	registry := prometheus.NewPedanticRegistry()
	registry.MustRegister(virtual.NewMetricsCollector("textures", block))

	require.Equal(t, map[string]float64{
		"freemap_block_size_bytes":                1000,
		"freemap_block_free_bytes":                1000,
		"freemap_block_allocated_bytes":           0,
		"freemap_block_allocations":               0,
		"freemap_block_free_regions":              1,
		"freemap_block_largest_free_region_bytes": 1000,
		"freemap_block_allocations_total":         0,
		"freemap_block_frees_total":               0,
		"freemap_block_failed_allocations_total":  0,
	}, gatherValues(t, registry))

	first, err := block.Allocate(virtual.AllocationCreateInfo{Size: 300})
	require.NoError(t, err)
	_, err = block.Allocate(virtual.AllocationCreateInfo{Size: 200})
	require.NoError(t, err)
	_, err = block.Allocate(virtual.AllocationCreateInfo{Size: 600})
	require.Error(t, err)
	require.NoError(t, block.Free(first.Handle))

	require.Equal(t, map[string]float64{
		"freemap_block_size_bytes":                1000,
		"freemap_block_free_bytes":                800,
		"freemap_block_allocated_bytes":           200,
		"freemap_block_allocations":               1,
		"freemap_block_free_regions":              2,
		"freemap_block_largest_free_region_bytes": 500,
		"freemap_block_allocations_total":         2,
		"freemap_block_frees_total":               1,
		"freemap_block_failed_allocations_total":  1,
	}, gatherValues(t, registry))
}
