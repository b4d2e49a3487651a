package sim

import (
	"context"
	"math/rand"
)

// Order is the metadata handed to the order store.
type Order struct {
	Number   int   // 1-based sequence number within the run
	PlacedAt int64 // tick the order was generated
}

// OrderStore persists new orders. The factory calls it on a timer.
type OrderStore interface {
	InsertOrder(ctx context.Context, order Order) error
}

// NoopOrderStore discards orders.
type NoopOrderStore struct{}

// InsertOrder implements OrderStore.
func (NoopOrderStore) InsertOrder(context.Context, Order) error { return nil }

// setupProcess starts the printers on its first resumption and then
// generates an order every OrderInterval ± OrderJitter ticks, forever.
type setupProcess struct {
	factory  *Factory
	printers []*Printer
	rng      *rand.Rand
	started  bool
}

func (s *setupProcess) Name() string { return "setup" }

func (s *setupProcess) Resume(env *Environment, self *ProcessHandle) {
	if !s.started {
		for _, p := range s.printers {
			env.Spawn(p)
		}
		s.started = true
	} else {
		s.factory.NewOrder(env)
	}
	env.Timeout(self, JitteredTicks(s.rng, float64(s.factory.cfg.OrderInterval), s.factory.cfg.OrderJitter))
}
