// Package hostxfer attributes host-to-device and device-to-host buffer
// transfers to the kernel invocation they belong to, even though the
// enqueue of that kernel is observed strictly after the buffer writes that
// feed it.
package hostxfer

import (
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/sarchlab/aiwc/outfile"
)

// Log is plugin-lifetime state: it survives across every kernel invocation,
// constructed once at plugin startup and drained once at plugin shutdown.
type Log struct {
	hostToDevice []string
	deviceToHost []string
	lastKernel   string
	pending      int
}

// New returns an empty host-transfer log with no kernel named yet.
func New() *Log {
	return &Log{}
}

// RecordHostToDevice tags a host-to-device copy with the last-named kernel
// and bumps the pending counter that OnKernelBegin will use to retroactively
// relabel this entry once the real destination kernel is enqueued.
func (l *Log) RecordHostToDevice() {
	l.hostToDevice = append(l.hostToDevice, l.lastKernel)
	l.pending++
}

// RecordDeviceToHost tags a device-to-host copy with the last-named kernel.
// Unlike host-to-device copies, these are never relabeled.
func (l *Log) RecordDeviceToHost() {
	l.deviceToHost = append(l.deviceToHost, l.lastKernel)
}

// OnKernelBegin relabels the most recent `pending` host-to-device entries to
// the newly enqueued kernel's name and resets the pending counter to zero.
// It also becomes the new "last known kernel" for untagged transfers that
// follow.
func (l *Log) OnKernelBegin(name string) {
	n := len(l.hostToDevice)
	for i := n - l.pending; i < n; i++ {
		if i < 0 {
			continue
		}
		l.hostToDevice[i] = name
	}
	l.pending = 0
	l.lastKernel = name
}

// Counts returns per-kernel host-to-device and device-to-host transfer
// counts, over the distinct kernel names present in each list.
func (l *Log) Counts() (hostToDevice, deviceToHost map[string]int) {
	hostToDevice = countByKernel(l.hostToDevice)
	deviceToHost = countByKernel(l.deviceToHost)
	return
}

func countByKernel(names []string) map[string]int {
	counts := make(map[string]int)
	for _, n := range names {
		counts[n]++
	}
	return counts
}

// WriteCSV emits aiwc_memory_transfers_<N>.csv under dir: header
// "metric,kernel,count", one row per (metric, distinct kernel name) pair,
// sorted by kernel name for reproducibility.
func (l *Log) WriteCSV(dir string) (string, error) {
	f, name, err := outfile.Create(dir, "aiwc_memory_transfers", ".csv")
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"metric", "kernel", "count"}); err != nil {
		return "", err
	}

	h2d, d2h := l.Counts()
	if err := writeSortedCounts(w, "transfer: host to device", h2d); err != nil {
		return "", err
	}
	if err := writeSortedCounts(w, "transfer: device to host", d2h); err != nil {
		return "", err
	}

	w.Flush()
	return name, w.Error()
}

func writeSortedCounts(w *csv.Writer, metric string, counts map[string]int) error {
	kernels := make([]string, 0, len(counts))
	for k := range counts {
		kernels = append(kernels, k)
	}
	sort.Strings(kernels)

	for _, k := range kernels {
		row := []string{metric, k, strconv.Itoa(counts[k])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
