package synth

import "github.com/sarchlab/akita/v4/sim"

// step is one synthetic host action: a Sink hook to fire, in trace order.
// The generator turns a []step into scheduled Akita events one tick apart,
// so the trace plays out as a discrete-event simulation rather than a plain
// loop, exercising the Sink the way a real timing-simulator host would.
type step func(g *Generator)

// traceEvent carries the next pending step. Handle (on Generator) executes
// it and, if more steps remain, schedules the next traceEvent a tick later.
type traceEvent struct {
	*sim.EventBase
	step step
}

func newTraceEvent(time sim.VTimeInSec, handler sim.Handler, s step) *traceEvent {
	return &traceEvent{
		EventBase: sim.NewEventBase(time, handler),
		step:      s,
	}
}
