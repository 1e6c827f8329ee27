// Package aiwc implements the Architecture-Independent Workload
// Characterization measurement core: an instrumentation plugin that a host
// LLVM-IR interpreter drives through the Sink interface as an OpenCL kernel
// executes, producing a per-kernel markdown report and CSV artifact.
//
// The plugin does not interpret IR, emulate a device, or alter program
// semantics; it only observes the event stream the host delivers and
// derives hardware-independent statistics from it.
package aiwc

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/aiwc/aggregate"
	"github.com/sarchlab/aiwc/config"
	"github.com/sarchlab/aiwc/hostxfer"
	"github.com/sarchlab/aiwc/ir"
	"github.com/sarchlab/aiwc/report"
	"github.com/sarchlab/aiwc/worker"
)

// GroupHandle is the opaque token WorkGroupBegin returns and every
// subsequent call for that work-group must pass back in. It wraps the
// worker.State owned exclusively by the goroutine that is driving this
// work-group, from WorkGroupBegin to WorkGroupComplete. Ownership is an
// explicit handle rather than an implicit per-OS-thread lookup, so the
// plugin stays agnostic to how the host schedules its work-groups onto
// goroutines.
type GroupHandle struct {
	state *worker.State
}

// Sink is the contract the host interpreter drives the measurement core
// through. HostMemoryLoad and HostMemoryStore take no handle: they fire
// outside of any kernel's execution.
type Sink interface {
	KernelBegin(name string)
	KernelEnd(name string) (report.Metrics, error)

	WorkGroupBegin(groupID uint64) *GroupHandle
	WorkGroupComplete(h *GroupHandle)

	WorkItemBegin(h *GroupHandle, itemID uint64)
	WorkItemComplete(h *GroupHandle, itemID uint64)
	WorkItemBarrier(h *GroupHandle, itemID uint64)
	WorkItemClearBarrier(h *GroupHandle, itemID uint64)

	InstructionExecuted(h *GroupHandle, inst ir.Instruction) error

	MemoryLoad(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int)
	MemoryStore(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int)
	MemoryAtomicLoad(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int)
	MemoryAtomicStore(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int)

	HostMemoryLoad(region ir.MemoryRegion, addr uint64, size int)
	HostMemoryStore(region ir.MemoryRegion, addr uint64, size int)
}

// InterruptFunc is invoked on a host-contract violation (a branch whose
// successor matches neither recorded target). The default raises a Go
// panic; a host embedding the plugin as a library may substitute something
// that unwinds more gracefully.
type InterruptFunc func(err error)

// Plugin implements Sink and owns every piece of plugin-lifetime state: the
// current kernel's invocation aggregate, the host-transfer log, and the
// free-list of worker states reused across work-groups.
type Plugin struct {
	settings config.Settings
	log      *logrus.Logger
	stdout   io.Writer

	mu          sync.Mutex
	kernelName  string
	inKernel    bool
	invocation  *aggregate.Invocation
	transferLog *hostxfer.Log

	freeWorkers sync.Pool

	onInterrupt InterruptFunc
}

// PluginOption configures a Plugin at construction time.
type PluginOption func(*Plugin)

// WithLogger overrides the plugin's logrus logger.
func WithLogger(l *logrus.Logger) PluginOption {
	return func(p *Plugin) { p.log = l }
}

// WithStdout overrides where the per-kernel markdown report is written.
// Defaults to os.Stdout.
func WithStdout(w io.Writer) PluginOption {
	return func(p *Plugin) { p.stdout = w }
}

// WithInterrupt overrides the plugin's host-contract-violation handler.
func WithInterrupt(f InterruptFunc) PluginOption {
	return func(p *Plugin) { p.onInterrupt = f }
}

// NewPlugin constructs a Plugin from the given settings.
func NewPlugin(settings config.Settings, opts ...PluginOption) *Plugin {
	p := &Plugin{
		settings:    settings,
		log:         logrus.StandardLogger(),
		stdout:      os.Stdout,
		invocation:  aggregate.New(),
		transferLog: hostxfer.New(),
		onInterrupt: func(err error) { panic(err) },
	}
	p.freeWorkers.New = func() any { return worker.New() }

	for _, opt := range opts {
		opt(p)
	}

	if p.settings.Enabled {
		p.log.Infof("aiwc: activated, output dir %q", p.settings.OutputDir)
	}
	return p
}

// KernelBegin implements Sink.
func (p *Plugin) KernelBegin(name string) {
	if !p.settings.Enabled {
		return
	}
	p.mu.Lock()
	p.kernelName = name
	p.inKernel = true
	p.transferLog.OnKernelBegin(name)
	p.mu.Unlock()
}

// KernelEnd implements Sink: derives the report, emits it, and resets the
// invocation aggregate so the plugin is ready for the next kernel.
func (p *Plugin) KernelEnd(name string) (report.Metrics, error) {
	if !p.settings.Enabled {
		return report.Metrics{}, nil
	}

	m := report.Derive(name, p.invocation, p.settings)

	if err := report.WriteText(p.stdout, m); err != nil {
		return m, fmt.Errorf("aiwc: writing text report: %w", err)
	}
	if _, err := report.WriteCSV(p.settings.OutputDir, m); err != nil {
		p.log.Fatalf("aiwc: could not create CSV artifact for kernel %q: %v", name, err)
	}

	p.invocation.Reset()
	p.mu.Lock()
	p.inKernel = false
	p.mu.Unlock()

	return m, nil
}

// WorkGroupBegin implements Sink: lazily acquires a worker.State for this
// work-group and clears it.
func (p *Plugin) WorkGroupBegin(groupID uint64) *GroupHandle {
	if !p.settings.Enabled {
		return &GroupHandle{}
	}
	s := p.freeWorkers.Get().(*worker.State)
	s.Clear()
	return &GroupHandle{state: s}
}

// WorkGroupComplete implements Sink: folds the worker's state into the
// invocation aggregate under the aggregate's own mutex, then returns the
// worker.State to the pool for reuse.
func (p *Plugin) WorkGroupComplete(h *GroupHandle) {
	if h == nil || h.state == nil {
		return
	}
	p.invocation.Merge(h.state)
	p.freeWorkers.Put(h.state)
	h.state = nil
}

// WorkItemBegin implements Sink.
func (p *Plugin) WorkItemBegin(h *GroupHandle, itemID uint64) {
	if h == nil || h.state == nil {
		return
	}
	h.state.BeginWorkItem()
}

// WorkItemComplete implements Sink.
func (p *Plugin) WorkItemComplete(h *GroupHandle, itemID uint64) {
	if h == nil || h.state == nil {
		return
	}
	h.state.CompleteWorkItem()
}

// WorkItemBarrier implements Sink.
func (p *Plugin) WorkItemBarrier(h *GroupHandle, itemID uint64) {
	if h == nil || h.state == nil {
		return
	}
	h.state.Barrier()
}

// WorkItemClearBarrier implements Sink.
func (p *Plugin) WorkItemClearBarrier(h *GroupHandle, itemID uint64) {
	if h == nil || h.state == nil {
		return
	}
	h.state.ClearBarrier()
}

// InstructionExecuted implements Sink. A non-nil error indicates a branch
// host-contract violation: it is logged and handed to the plugin's
// InterruptFunc before being returned to the caller.
func (p *Plugin) InstructionExecuted(h *GroupHandle, inst ir.Instruction) error {
	if h == nil || h.state == nil {
		return nil
	}
	if err := h.state.HandleInstruction(inst); err != nil {
		p.log.Errorf("aiwc: %v", err)
		p.onInterrupt(err)
		return err
	}
	return nil
}

// MemoryLoad implements Sink.
func (p *Plugin) MemoryLoad(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int) {
	if h == nil || h.state == nil {
		return
	}
	h.state.HandleMemoryOp(region, addr)
}

// MemoryStore implements Sink.
func (p *Plugin) MemoryStore(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int) {
	if h == nil || h.state == nil {
		return
	}
	h.state.HandleMemoryOp(region, addr)
}

// MemoryAtomicLoad implements Sink.
func (p *Plugin) MemoryAtomicLoad(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int) {
	if h == nil || h.state == nil {
		return
	}
	h.state.HandleAtomicOp(region, addr)
}

// MemoryAtomicStore implements Sink.
func (p *Plugin) MemoryAtomicStore(h *GroupHandle, region ir.MemoryRegion, addr uint64, size int) {
	if h == nil || h.state == nil {
		return
	}
	h.state.HandleAtomicOp(region, addr)
}

// HostMemoryLoad implements Sink: device-to-host copies are tagged with the
// last-named kernel and never relabeled.
func (p *Plugin) HostMemoryLoad(region ir.MemoryRegion, addr uint64, size int) {
	if !p.settings.Enabled {
		return
	}
	p.mu.Lock()
	p.transferLog.RecordDeviceToHost()
	p.mu.Unlock()
}

// HostMemoryStore implements Sink: host-to-device copies are tagged with
// the last-named kernel, pending retroactive relabeling at the next
// kernelBegin.
func (p *Plugin) HostMemoryStore(region ir.MemoryRegion, addr uint64, size int) {
	if !p.settings.Enabled {
		return
	}
	p.mu.Lock()
	p.transferLog.RecordHostToDevice()
	p.mu.Unlock()
}

// Close writes the transfer-count CSV artifact and must be called once,
// when the plugin is torn down.
func (p *Plugin) Close() error {
	if !p.settings.Enabled {
		return nil
	}
	_, err := p.transferLog.WriteCSV(p.settings.OutputDir)
	return err
}

var _ Sink = (*Plugin)(nil)
