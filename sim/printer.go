package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/rug-factory/rug-sim/sim/allocator"
	"github.com/rug-factory/rug-sim/sim/layout"
	"github.com/rug-factory/rug-sim/sim/trace"
)

// PrinterState is the phase a printer is suspended in (or about to leave).
type PrinterState string

const (
	PrinterIdle       PrinterState = "IDLE"        // spawned, not yet started
	PrinterRequesting PrinterState = "REQUESTING"  // talking to the allocation service
	PrinterAwaiting   PrinterState = "AWAITING"    // allocation latency before acting on the answer
	PrinterWaiting    PrinterState = "WAITING"     // nothing to print, retry later
	PrinterRejecting  PrinterState = "REJECTING"   // trashing a refused roll segment
	PrinterCutting    PrinterState = "CUTTING"     // trashing cutting-plan waste before printing
	PrinterPrinting   PrinterState = "PRINTING"    // job in progress
)

// Printer is one worker process. It holds its leftover fragments privately
// and loops forever: request a job, then print, retry or trash.
type Printer struct {
	name      string
	factory   *Factory
	rng       *rand.Rand
	fragments FragmentStack

	state        PrinterState
	offered      float64               // roll length of the current request
	fromFragment bool                  // offered came off the fragment stack
	job          allocator.JobResponse // answer being acted upon
	printStart   int64
	jobsPrinted  int
}

// NewPrinter creates an idle printer drawing print-time jitter from rng.
func NewPrinter(name string, factory *Factory, rng *rand.Rand) *Printer {
	return &Printer{
		name:    name,
		factory: factory,
		rng:     rng,
		state:   PrinterIdle,
	}
}

// Name implements Process.
func (p *Printer) Name() string { return p.name }

// State returns the printer's current phase.
func (p *Printer) State() PrinterState { return p.state }

// Fragments returns the printer's fragment stack.
func (p *Printer) Fragments() *FragmentStack { return &p.fragments }

// JobsPrinted returns the number of completed jobs.
func (p *Printer) JobsPrinted() int { return p.jobsPrinted }

// Resume implements Process. Each resumption finishes the phase the printer
// was suspended in and runs until the next suspension.
func (p *Printer) Resume(env *Environment, self *ProcessHandle) {
	switch p.state {
	case PrinterIdle:
		logrus.Infof("[tick %07d] %s starts up", env.Now(), p.name)
	case PrinterAwaiting:
		p.handle(env, self)
		return
	case PrinterCutting:
		p.startPrinting(env, self)
		return
	case PrinterPrinting:
		p.finishPrinting(env)
	case PrinterWaiting, PrinterRejecting:
		// nothing left to do for these phases
	}
	p.request(env, self)
}

// request offers the newest fragment, or a full bundle when none is held.
func (p *Printer) request(env *Environment, self *ProcessHandle) {
	p.state = PrinterRequesting
	p.offered, p.fromFragment = p.fragments.Pop()
	if !p.fromFragment {
		p.offered = p.factory.cfg.BundleLength
	}

	p.job = p.factory.RequestPrintJob(env, p.name, p.offered)

	if latency := p.factory.cfg.AllocationLatency; latency > 0 {
		p.state = PrinterAwaiting
		env.Timeout(self, latency)
		return
	}
	p.handle(env, self)
}

func (p *Printer) handle(env *Environment, self *ProcessHandle) {
	switch p.job.Outcome {
	case allocator.Accepted:
		res := layout.Evaluate(p.job.Sizes())
		if res.Rendering != "" {
			logrus.Debugf("[tick %07d] %s cutting plan:\n%s", env.Now(), p.name, res.Rendering)
		}
		if res.Waste > 0 {
			p.state = PrinterCutting
			p.factory.Trash(env, self, p.name, res.Waste, trace.ReasonLayout)
			return
		}
		p.startPrinting(env, self)
	case allocator.Rejected:
		// the refused segment is gone; the next request starts from the stack
		p.state = PrinterRejecting
		p.factory.Trash(env, self, p.name, p.offered, trace.ReasonRejected)
	default:
		if p.fromFragment {
			p.fragments.Push(p.offered)
		}
		p.state = PrinterWaiting
		env.Timeout(self, p.factory.cfg.RetryInterval)
	}
}

func (p *Printer) startPrinting(env *Environment, self *ProcessHandle) {
	p.state = PrinterPrinting
	p.printStart = env.Now()
	logrus.Infof("[tick %07d] %s starts printing job of length %g on %g", env.Now(), p.name, p.job.Length, p.offered)
	env.Timeout(self, JitteredTicks(p.rng, p.job.Length, p.factory.cfg.PrintJitter))
}

func (p *Printer) finishPrinting(env *Environment) {
	p.jobsPrinted++
	logrus.Infof("[tick %07d] %s completed printing job of length %g", env.Now(), p.name, p.job.Length)
	p.factory.recordPrint(trace.PrintRecord{
		Printer:    p.name,
		RollID:     p.job.RollID,
		Start:      p.printStart,
		End:        env.Now(),
		RollLength: p.offered,
		JobLength:  p.job.Length,
	})

	if leftover := p.offered - p.job.Length; leftover != 0 {
		logrus.Infof("[tick %07d] %s created a rug segment of size %g", env.Now(), p.name, leftover)
		p.fragments.Push(leftover)
		p.factory.recordFragment(trace.FragmentRecord{
			Printer: p.name,
			Clock:   env.Now(),
			Length:  leftover,
		})
	}
}
