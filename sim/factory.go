package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/rug-factory/rug-sim/sim/allocator"
	"github.com/rug-factory/rug-sim/sim/metrics"
	"github.com/rug-factory/rug-sim/sim/trace"
)

// Factory is the coordinator shared by all printers for the whole run.
// It owns the wasted-material total and is the single point through which
// printers reach the allocation service and the trash.
type Factory struct {
	cfg       Config
	allocator allocator.Allocator
	orders    OrderStore
	collector *metrics.Collector
	trace     *trace.SimulationTrace

	wastedTotal    float64
	wastedByReason map[trace.TrashReason]float64
	printed        float64
	jobs           int
	fragments      int
	orderCount     int
	outcomes       map[string]int
}

// NewFactory creates a Factory. A nil orders store becomes NoopOrderStore;
// a nil collector disables Prometheus metrics.
func NewFactory(cfg Config, alloc allocator.Allocator, orders OrderStore, collector *metrics.Collector) *Factory {
	if orders == nil {
		orders = NoopOrderStore{}
	}
	return &Factory{
		cfg:       cfg,
		allocator: alloc,
		orders:    orders,
		collector: collector,
		trace:     trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel}),

		wastedByReason: make(map[trace.TrashReason]float64),
		outcomes:       make(map[string]int),
	}
}

// WastedTotal returns the material trashed so far (ft).
func (f *Factory) WastedTotal() float64 {
	return f.wastedTotal
}

// Orders returns the number of order notifications generated.
func (f *Factory) Orders() int {
	return f.orderCount
}

// Metrics snapshots the factory's accounting at the current tick.
// Held fragments are counted across printers.
func (f *Factory) Metrics(now int64, printers []*Printer) *Metrics {
	m := &Metrics{
		SimEndedTime:       now,
		WastedMaterial:     f.wastedTotal,
		RejectedMaterial:   f.wastedByReason[trace.ReasonRejected],
		LayoutWaste:        f.wastedByReason[trace.ReasonLayout],
		PrintedMaterial:    f.printed,
		JobsPrinted:        f.jobs,
		FragmentsCreated:   f.fragments,
		Orders:             f.orderCount,
		AllocationOutcomes: make(map[string]int, len(f.outcomes)),
	}
	for o, n := range f.outcomes {
		m.AllocationOutcomes[o] = n
	}
	for _, p := range printers {
		m.FragmentsHeld += p.fragments.Len()
		m.HeldMaterial += p.fragments.Total()
	}
	return m
}

// Trace returns the event trace of the run.
func (f *Factory) Trace() *trace.SimulationTrace {
	return f.trace
}

// Trash discards length feet of material on behalf of printer and suspends
// the calling process for the trash duration. This is the only place the
// wasted total changes.
func (f *Factory) Trash(env *Environment, self *ProcessHandle, printer string, length float64, reason trace.TrashReason) {
	if !(length > 0) || math.IsInf(length, 0) {
		panic(fmt.Sprintf("trash of invalid length %v by %s", length, printer))
	}
	f.wastedTotal += length
	f.wastedByReason[reason] += length
	logrus.Infof("[tick %07d] %s trashed %g ft (%s)", env.Now(), printer, length, reason)
	f.trace.RecordTrash(trace.TrashRecord{
		Printer: printer,
		Clock:   env.Now(),
		Length:  length,
		Reason:  reason,
	})
	f.collector.RecordTrash(string(reason), length)
	f.collector.SetClock(env.Now())
	env.Timeout(self, f.cfg.TrashDuration)
}

// RequestPrintJob asks the allocation service for a job on a roll of the
// given length. Service failures and answers breaking the job contract are
// logged and reported as Unavailable so the run keeps going.
func (f *Factory) RequestPrintJob(env *Environment, printer string, length float64) allocator.JobResponse {
	resp, err := f.allocator.RequestJob(env.Context(), allocator.JobRequest{
		RollLength:  length,
		IncludeRush: f.cfg.IncludeRush,
	})
	if err == nil {
		resp, err = allocator.Check(length, resp)
	}
	record := trace.AllocationRecord{
		Printer:    printer,
		Clock:      env.Now(),
		RollLength: length,
	}
	if err != nil {
		logrus.Warnf("[tick %07d] %s allocation request failed, retrying later: %v", env.Now(), printer, err)
		resp = allocator.JobResponse{Outcome: allocator.Unavailable}
		record.Err = err.Error()
	}
	record.Outcome = string(resp.Outcome)
	record.JobLength = resp.Length
	record.PlanSize = len(resp.Plan)
	f.outcomes[record.Outcome]++
	f.trace.RecordAllocation(record)
	f.collector.RecordAllocation(string(resp.Outcome))
	return resp
}

// NewOrder notifies the order store of a new order.
// Store failures are logged; order generation never stops the run.
func (f *Factory) NewOrder(env *Environment) {
	f.orderCount++
	order := Order{Number: f.orderCount, PlacedAt: env.Now()}
	if err := f.orders.InsertOrder(env.Context(), order); err != nil {
		logrus.Warnf("[tick %07d] inserting order %d: %v", env.Now(), order.Number, err)
	}
	logrus.Debugf("[tick %07d] New order %d", env.Now(), order.Number)
	f.trace.RecordOrder(trace.OrderRecord{Number: order.Number, Clock: order.PlacedAt})
	f.collector.RecordOrder()
}

func (f *Factory) recordPrint(rec trace.PrintRecord) {
	f.jobs++
	f.printed += rec.JobLength
	f.trace.RecordPrint(rec)
	f.collector.RecordPrint(rec.JobLength)
	f.collector.SetClock(rec.End)
}

func (f *Factory) recordFragment(rec trace.FragmentRecord) {
	f.fragments++
	f.trace.RecordFragment(rec)
	f.collector.RecordFragment()
}
