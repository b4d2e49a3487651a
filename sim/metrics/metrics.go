// Package metrics exposes factory counters through Prometheus.
//
// The Collector sits at the factory's interposition point: every allocation
// outcome, trash call, completed print, fragment and order passes through it.
// Each Collector owns its registry so several simulations can run in one
// process; WriteTextfile dumps the registry in the Prometheus text format for
// node_exporter's textfile collector or offline inspection.
//
// All Record* methods are safe on a nil *Collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the factory's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	allocations   *prometheus.CounterVec
	wastedFeet    *prometheus.CounterVec
	trashEvents   *prometheus.CounterVec
	jobsPrinted   prometheus.Counter
	printedFeet   prometheus.Counter
	fragments     prometheus.Counter
	orders        prometheus.Counter
	simClockTicks prometheus.Gauge
}

// NewCollector creates a Collector registered on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rugsim_allocation_requests_total",
			Help: "Allocation requests by outcome",
		}, []string{"outcome"}),
		wastedFeet: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rugsim_wasted_material_feet_total",
			Help: "Material sent to trash in feet, by reason",
		}, []string{"reason"}),
		trashEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rugsim_trash_operations_total",
			Help: "Trash operations, by reason",
		}, []string{"reason"}),
		jobsPrinted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugsim_jobs_printed_total",
			Help: "Print jobs completed",
		}),
		printedFeet: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugsim_printed_material_feet_total",
			Help: "Material consumed by completed print jobs in feet",
		}),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugsim_fragments_created_total",
			Help: "Leftover roll fragments kept for reuse",
		}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rugsim_orders_total",
			Help: "Order notifications generated",
		}),
		simClockTicks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rugsim_clock_ticks",
			Help: "Simulated time of the last recorded event",
		}),
	}

	c.registry.MustRegister(
		c.allocations,
		c.wastedFeet,
		c.trashEvents,
		c.jobsPrinted,
		c.printedFeet,
		c.fragments,
		c.orders,
		c.simClockTicks,
	)

	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordAllocation counts one allocation request with its outcome.
func (c *Collector) RecordAllocation(outcome string) {
	if c == nil {
		return
	}
	c.allocations.WithLabelValues(outcome).Inc()
}

// RecordTrash adds length feet of trashed material.
func (c *Collector) RecordTrash(reason string, length float64) {
	if c == nil {
		return
	}
	c.wastedFeet.WithLabelValues(reason).Add(length)
	c.trashEvents.WithLabelValues(reason).Inc()
}

// RecordPrint counts a completed job of length feet.
func (c *Collector) RecordPrint(length float64) {
	if c == nil {
		return
	}
	c.jobsPrinted.Inc()
	c.printedFeet.Add(length)
}

// RecordFragment counts a fragment kept for reuse.
func (c *Collector) RecordFragment() {
	if c == nil {
		return
	}
	c.fragments.Inc()
}

// RecordOrder counts a generated order.
func (c *Collector) RecordOrder() {
	if c == nil {
		return
	}
	c.orders.Inc()
}

// SetClock records the simulated time.
func (c *Collector) SetClock(ticks int64) {
	if c == nil {
		return
	}
	c.simClockTicks.Set(float64(ticks))
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
