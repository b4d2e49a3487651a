package sim

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrSchedulerMisuse marks programming errors against the Environment:
// negative timeouts, double suspension, or resuming a terminated process.
// These abort the run with a panic.
var ErrSchedulerMisuse = errors.New("scheduler misuse")

// Process is a resumable unit of work driven by the Environment.
//
// Resume runs the process until it either calls env.Timeout(self, d), which
// suspends it until Now()+d, or returns without doing so, which terminates
// it. Processes never run concurrently with one another.
type Process interface {
	Name() string
	Resume(env *Environment, self *ProcessHandle)
}

// ProcessState is the lifecycle state of a process.
type ProcessState string

const (
	ProcessRunning    ProcessState = "RUNNING"
	ProcessSuspended  ProcessState = "SUSPENDED"
	ProcessTerminated ProcessState = "TERMINATED"
)

// ProcessHandle is the Environment's bookkeeping for one spawned process.
type ProcessHandle struct {
	id      uint64 // creation order, used for same-tick tie-breaks
	process Process
	state   ProcessState
	wakeAt  int64
	parked  bool // Timeout already called during the current resumption
}

// Name returns the name of the underlying process.
func (h *ProcessHandle) Name() string { return h.process.Name() }

// State returns the current lifecycle state.
func (h *ProcessHandle) State() ProcessState { return h.state }

// WakeAt returns the tick a suspended process will resume at.
func (h *ProcessHandle) WakeAt() int64 { return h.wakeAt }

// Environment holds the simulated clock and the set of suspended processes.
// It is the single explicit simulation context: every component receives it
// rather than reaching for package state.
type Environment struct {
	clock       int64
	queue       EventQueue
	running     *ProcessHandle
	processes   []*ProcessHandle
	nextEventID uint64
	ctx         context.Context
}

// NewEnvironment creates an Environment at tick 0 with no processes.
func NewEnvironment() *Environment {
	return &Environment{
		queue: make(EventQueue, 0),
		ctx:   context.Background(),
	}
}

// Now returns the current simulated time in ticks.
func (env *Environment) Now() int64 {
	return env.clock
}

// Context returns the context of the current Run call, for blocking work
// (such as allocation service calls) performed inside a process.
func (env *Environment) Context() context.Context {
	return env.ctx
}

// Processes returns every spawned process in creation order.
func (env *Environment) Processes() []*ProcessHandle {
	return env.processes
}

// Pending returns the number of scheduled wake-ups.
func (env *Environment) Pending() int {
	return len(env.queue)
}

// Spawn registers p and schedules its first resumption at the current tick.
func (env *Environment) Spawn(p Process) *ProcessHandle {
	h := &ProcessHandle{
		id:      uint64(len(env.processes)) + 1,
		process: p,
		state:   ProcessSuspended,
		wakeAt:  env.clock,
	}
	env.processes = append(env.processes, h)
	env.schedule(h, env.clock)
	logrus.Debugf("[tick %07d] Spawned %s", env.clock, p.Name())
	return h
}

// Timeout suspends the running process h until Now()+d.
// It must be called at most once per resumption, from within h's Resume.
func (env *Environment) Timeout(h *ProcessHandle, d int64) {
	if d < 0 {
		panic(fmt.Errorf("%w: negative timeout %d for %s", ErrSchedulerMisuse, d, h.Name()))
	}
	if h != env.running {
		panic(fmt.Errorf("%w: %s is not the running process", ErrSchedulerMisuse, h.Name()))
	}
	if h.parked {
		panic(fmt.Errorf("%w: %s already suspended in this resumption", ErrSchedulerMisuse, h.Name()))
	}
	h.parked = true
	h.state = ProcessSuspended
	h.wakeAt = env.clock + d
	env.schedule(h, h.wakeAt)
}

func (env *Environment) schedule(h *ProcessHandle, at int64) {
	env.nextEventID++
	heap.Push(&env.queue, &WakeEvent{time: at, eventID: env.nextEventID, process: h})
}

// Run resumes processes in wake-time order until no process is runnable at
// or before until. The clock then rests at until; processes still suspended
// are abandoned. A cancelled ctx stops the run early and is returned.
func (env *Environment) Run(ctx context.Context, until int64) error {
	if until < env.clock {
		panic(fmt.Errorf("%w: horizon %d is before now %d", ErrSchedulerMisuse, until, env.clock))
	}
	env.ctx = ctx
	for len(env.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if env.queue[0].time > until {
			break
		}
		ev := heap.Pop(&env.queue).(*WakeEvent)

		// monotonicity
		if ev.time < env.clock {
			panic(fmt.Sprintf("Clock went backwards: %d < %d", ev.time, env.clock))
		}
		env.clock = ev.time
		env.resume(ev.process)
	}
	env.clock = until
	logrus.Debugf("[tick %07d] Simulation horizon reached, %d wake-ups abandoned", env.clock, len(env.queue))
	return nil
}

func (env *Environment) resume(h *ProcessHandle) {
	if h.state == ProcessTerminated {
		panic(fmt.Errorf("%w: resuming terminated process %s", ErrSchedulerMisuse, h.Name()))
	}
	logrus.Tracef("[tick %07d] Resuming %s", env.clock, h.Name())
	h.state = ProcessRunning
	h.parked = false
	env.running = h
	h.process.Resume(env, h)
	env.running = nil
	if !h.parked {
		h.state = ProcessTerminated
		logrus.Debugf("[tick %07d] %s terminated", env.clock, h.Name())
	}
}
