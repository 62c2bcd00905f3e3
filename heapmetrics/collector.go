// Package heapmetrics exports chunkheap statistics as Prometheus metrics.
package heapmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/chunkheap"
)

// StatsSource is anything that can report heap statistics.
type StatsSource interface {
	Stats() chunkheap.Stats
}

// Collector reads a fresh Stats snapshot on every scrape.
type Collector struct {
	src StatsSource

	allocCalls     *prometheus.Desc
	bytesRequested *prometheus.Desc
	peakBytes      *prometheus.Desc
	arenaGrowths   *prometheus.Desc
	corrupted      *prometheus.Desc
	unfreed        *prometheus.Desc
	inUse          *prometheus.Desc
	arenaBytes     *prometheus.Desc
	capacity       *prometheus.Desc
}

// NewCollector returns a Collector for src. Every metric name is prefixed
// with namespace, and constLabels are attached to every metric.
func NewCollector(src StatsSource, namespace string, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "heap", name), help, nil, constLabels)
	}
	return &Collector{
		src:            src,
		allocCalls:     desc("alloc_calls_total", "Allocation calls, including rejected ones."),
		bytesRequested: desc("requested_bytes_total", "Cumulative bytes requested by allocation calls."),
		peakBytes:      desc("peak_requested_bytes", "High-water mark of requested bytes."),
		arenaGrowths:   desc("arena_growths_total", "Arena growth attempts."),
		corrupted:      desc("corrupted_chunks_total", "Releases rejected by the sentinel check."),
		unfreed:        desc("unfreed_chunks", "Occupied chunks found by the leak audit."),
		inUse:          desc("in_use_bytes", "Payload bytes of occupied chunks."),
		arenaBytes:     desc("arena_bytes", "Bytes granted by the arena source."),
		capacity:       desc("arena_capacity_bytes", "Bytes the arena source can grant in total."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocCalls
	ch <- c.bytesRequested
	ch <- c.peakBytes
	ch <- c.arenaGrowths
	ch <- c.corrupted
	ch <- c.unfreed
	ch <- c.inUse
	ch <- c.arenaBytes
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter(c.allocCalls, s.AllocCalls)
	counter(c.bytesRequested, s.BytesRequested)
	gauge(c.peakBytes, s.PeakBytes)
	counter(c.arenaGrowths, s.ArenaGrowths)
	counter(c.corrupted, s.CorruptedChunks)
	gauge(c.unfreed, s.UnfreedChunks)
	gauge(c.inUse, s.InUse)
	gauge(c.arenaBytes, int64(s.ArenaBytes))
	gauge(c.capacity, int64(s.Capacity))
}

var _ prometheus.Collector = (*Collector)(nil)
