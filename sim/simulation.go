package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rug-factory/rug-sim/sim/allocator"
	"github.com/rug-factory/rug-sim/sim/metrics"
)

// Simulation wires one factory run: the environment, the shared factory,
// the printers and the seeded random streams.
type Simulation struct {
	Config   Config
	Env      *Environment
	Factory  *Factory
	Printers []*Printer
	RNG      *PartitionedRNG
}

// NewSimulation validates cfg and builds every component of a run.
// orders and collector may be nil.
func NewSimulation(cfg Config, alloc allocator.Allocator, orders OrderStore, collector *metrics.Collector) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if alloc == nil {
		return nil, fmt.Errorf("invalid simulation config: no allocator")
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	factory := NewFactory(cfg, alloc, orders, collector)
	printers := make([]*Printer, cfg.NumMachines)
	for i := range printers {
		printers[i] = NewPrinter(fmt.Sprintf("Printer %d", i), factory, rng.ForSubsystem(SubsystemPrinter(i)))
	}
	return &Simulation{
		Config:   cfg,
		Env:      NewEnvironment(),
		Factory:  factory,
		Printers: printers,
		RNG:      rng,
	}, nil
}

// Run spawns the setup process and drives the environment up to the
// horizon. It returns the final metrics; on cancellation the metrics cover
// the run up to the point it stopped.
func (s *Simulation) Run(ctx context.Context) (*Metrics, error) {
	s.Env.Spawn(&setupProcess{
		factory:  s.Factory,
		printers: s.Printers,
		rng:      s.RNG.ForSubsystem(SubsystemOrders),
	})
	err := s.Env.Run(ctx, s.Config.Horizon)
	m := s.Factory.Metrics(s.Env.Now(), s.Printers)
	s.Factory.collector.SetClock(s.Env.Now())
	if err != nil {
		logrus.Warnf("[tick %07d] Simulation stopped early: %v", s.Env.Now(), err)
		return m, err
	}
	logrus.Infof("[tick %07d] Simulation ended, wasted material: %g ft", s.Env.Now(), m.WastedMaterial)
	return m, nil
}
