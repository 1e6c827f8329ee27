package synth

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/aiwc"
)

// tickPeriod is the fixed inter-event spacing used to schedule the
// synthetic trace. The absolute value carries no meaning; only the
// resulting event order matters to the Sink it drives.
const tickPeriod = sim.VTimeInSec(1e-9)

// Generator drives an aiwc.Sink through a scripted kernel trace, one event
// at a time, on an Akita engine. It implements sim.Handler.
type Generator struct {
	sink   aiwc.Sink
	engine sim.Engine
	steps  []step
	pos    int
}

// NewGenerator builds a Generator over engine, ready to drive sink once one
// or more traces have been queued with Enqueue.
func NewGenerator(engine sim.Engine, sink aiwc.Sink) *Generator {
	return &Generator{sink: sink, engine: engine}
}

// Enqueue appends a kernel trace's steps to the generator's script and
// schedules the first event if this is the first trace queued.
func (g *Generator) Enqueue(trace []step) {
	first := len(g.steps) == 0
	g.steps = append(g.steps, trace...)
	if first {
		g.scheduleNext(g.engine.CurrentTime())
	}
}

// Handle implements sim.Handler: it executes the pending step and, if more
// remain, schedules the next one a tick later.
func (g *Generator) Handle(e sim.Event) error {
	te, ok := e.(*traceEvent)
	if !ok {
		return nil
	}
	te.step(g)
	g.pos++
	if g.pos < len(g.steps) {
		g.scheduleNext(e.Time() + tickPeriod)
	}
	return nil
}

func (g *Generator) scheduleNext(at sim.VTimeInSec) {
	g.engine.Schedule(newTraceEvent(at, g, g.steps[g.pos]))
}

// Run drives the engine until every queued step has executed.
func (g *Generator) Run() error {
	return g.engine.Run()
}
