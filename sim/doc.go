// Package sim provides the discrete-event simulation of a rug-printing
// factory: printers that ask an allocation service for jobs, print them,
// keep leftover roll segments for reuse and trash what cannot be used.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - environment.go: the simulated clock, process handles and the run loop
//   - printer.go: the printer state machine (request, print, retry, trash)
//   - factory.go: the shared coordinator that owns the wasted-material total
//
// # Architecture
//
// The sim package owns scheduling and the factory model; supporting pieces
// live in sub-packages:
//   - sim/allocator/: allocation service clients (HTTP, scripted replay) and a test server
//   - sim/layout/: cutting-plan waste evaluation and rendering
//   - sim/trace/: event trace recording and summaries
//   - sim/metrics/: Prometheus counters exported at the end of a run
//
// # Determinism
//
// All randomness flows through PartitionedRNG. Order timing draws from the
// master seed directly; each printer owns a derived stream. Same-tick
// wake-ups resume in process creation order, so a run is reproducible from
// its Config and allocator answers alone.
package sim
