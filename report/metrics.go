// Package report derives every scalar metric, entropy, and coverage
// threshold from a completed kernel invocation's aggregate, and emits both
// the stdout markdown report and the CSV artifact.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/aiwc/aggregate"
	"github.com/sarchlab/aiwc/config"
)

// defaultBranchHistoryWindow is the Yokota branch-entropy window length m
// used when a caller's config.Settings leaves BranchHistoryWindow at zero.
const defaultBranchHistoryWindow = 16

// defaultCoverageThreshold is the coverage fraction used when a caller's
// config.Settings leaves CoverageThreshold at zero.
const defaultCoverageThreshold = 0.9

// OpCount is one (mnemonic, count) pair from the compute-mix histogram,
// kept in descending-count order.
type OpCount struct {
	Name  string
	Count uint64
}

// Metrics holds every derived quantity for one kernel invocation, grouped
// the way the stdout report and CSV sections are grouped.
type Metrics struct {
	KernelName string

	// Compute
	ComputeOps            []OpCount
	TotalInstructionCount uint64
	UniqueOpcodesFor90Pct int
	TopOpcodeNames        []string

	// Parallelism: utilization
	FreedomToReorder float64
	ResourcePressure float64

	// Parallelism: thread-level
	ThreadsInvoked         uint64
	BarriersHit            uint64
	Granularity            float64
	MinInstToBarrier       uint64
	MaxInstToBarrier       uint64
	MedianInstToBarrier    uint64
	BarriersPerInstruction float64

	// Parallelism: work distribution
	MinPerWorkitem    uint64
	MaxPerWorkitem    uint64
	MedianPerWorkitem uint64

	// Parallelism: data
	SimdMin                int
	SimdMax                int
	SimdMean               float64
	SimdStdev              float64
	SimdSum                uint64
	InstructionsPerOperand float64

	// Memory footprint
	TotalMemoryFootprint int
	MemoryAccessCount    int
	Footprint90Pct       int

	// Memory entropy
	GlobalEntropy float64
	LocalEntropy  [10]float64 // index k-1 holds k LSBs skipped, k in 1..10

	// Memory diversity
	GlobalAccesses uint64
	LocalAccesses  uint64
	ConstAccesses  uint64
	LocalPct       float64
	ConstPct       float64

	// Control
	TotalBranchCount       int
	UniqueBranchesFor90Pct int

	// Branch entropy
	YokotaEntropy            float64
	YokotaEntropyPerWorkload float64
	AverageEntropy           float64
}

// Derive computes every metric in Metrics from a kernel invocation's
// aggregate, using settings to drive the coverage-fraction and
// branch-entropy-window knobs. Call it at kernelEnd, after all of that
// kernel's work-groups have completed so there are no concurrent writers
// to inv.
func Derive(kernelName string, inv *aggregate.Invocation, settings config.Settings) Metrics {
	m := Metrics{KernelName: kernelName}

	coverage := settings.CoverageThreshold
	if coverage == 0 {
		coverage = defaultCoverageThreshold
	}
	window := settings.BranchHistoryWindow
	if window == 0 {
		window = defaultBranchHistoryWindow
	}

	deriveCompute(&m, inv, coverage)
	deriveUtilization(&m, inv)
	deriveThreadLevel(&m, inv)
	deriveWorkDistribution(&m, inv)
	deriveDataParallelism(&m, inv)

	footprints := buildFootprintHistograms(inv.MemoryOps)
	deriveMemoryFootprint(&m, footprints, coverage)
	deriveMemoryEntropy(&m, footprints)
	deriveMemoryDiversity(&m, inv)

	deriveControl(&m, inv, coverage)
	deriveBranchEntropy(&m, inv, window)

	return m
}

func deriveCompute(m *Metrics, inv *aggregate.Invocation, coverage float64) {
	ops := make([]OpCount, 0, len(inv.ComputeOps))
	var total uint64
	for name, count := range inv.ComputeOps {
		ops = append(ops, OpCount{Name: name, Count: count})
		total += count
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Count != ops[j].Count {
			return ops[i].Count > ops[j].Count
		}
		return ops[i].Name < ops[j].Name
	})

	m.ComputeOps = ops
	m.TotalInstructionCount = total

	threshold := coverageThreshold(total, coverage)
	var cum uint64
	for i, op := range ops {
		cum += op.Count
		if cum >= threshold {
			m.UniqueOpcodesFor90Pct = i + 1
			break
		}
	}
	if m.UniqueOpcodesFor90Pct == 0 && len(ops) > 0 {
		m.UniqueOpcodesFor90Pct = len(ops)
	}
	for i := 0; i < m.UniqueOpcodesFor90Pct; i++ {
		m.TopOpcodeNames = append(m.TopOpcodeNames, ops[i].Name)
	}
}

// coverageThreshold is ⌈coverage × total⌉, used by the opcode, branch, and
// memory-footprint coverage derivations alike.
func coverageThreshold(total uint64, coverage float64) uint64 {
	return uint64(math.Ceil(coverage * float64(total)))
}

func deriveUtilization(m *Metrics, inv *aggregate.Invocation) {
	m.FreedomToReorder = mean(inv.BetweenLoadStore)

	var labelSum uint64
	for _, c := range inv.LoadLabels {
		labelSum += c
	}
	for _, c := range inv.StoreLabels {
		labelSum += c
	}
	if inv.ThreadsInvoked > 0 {
		m.ResourcePressure = float64(labelSum) / float64(inv.ThreadsInvoked)
	}
}

func deriveThreadLevel(m *Metrics, inv *aggregate.Invocation) {
	m.ThreadsInvoked = inv.ThreadsInvoked
	m.BarriersHit = inv.BarriersHit
	if inv.ThreadsInvoked > 0 {
		m.Granularity = 1.0 / float64(inv.ThreadsInvoked)
	}

	m.MinInstToBarrier, m.MaxInstToBarrier, m.MedianInstToBarrier = minMaxMedian(inv.BetweenBarriers)

	if m.TotalInstructionCount > 0 {
		m.BarriersPerInstruction = float64(inv.BarriersHit+inv.ThreadsInvoked) / float64(m.TotalInstructionCount)
	}
}

func deriveWorkDistribution(m *Metrics, inv *aggregate.Invocation) {
	m.MinPerWorkitem, m.MaxPerWorkitem, m.MedianPerWorkitem = minMaxMedian(inv.PerWorkitem)
}

func deriveDataParallelism(m *Metrics, inv *aggregate.Invocation) {
	if len(inv.InstWidth) == 0 {
		// Degenerate: no instructions observed.
		return
	}

	widths := make([]int, 0, len(inv.InstWidth))
	for w := range inv.InstWidth {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	m.SimdMin = widths[0]
	m.SimdMax = widths[len(widths)-1]

	xs := make([]float64, 0, len(widths))
	weights := make([]float64, 0, len(widths))
	var simdSum, simdNum uint64
	for _, w := range widths {
		c := inv.InstWidth[w]
		simdSum += uint64(w) * c
		simdNum += c
		xs = append(xs, float64(w))
		weights = append(weights, float64(c))
	}

	mean, variance := stat.PopMeanVariance(xs, weights)
	m.SimdMean = mean
	m.SimdStdev = math.Sqrt(variance)
	m.SimdSum = simdSum

	if simdSum > 0 {
		m.InstructionsPerOperand = float64(m.TotalInstructionCount) / float64(simdSum)
	}
}

func deriveMemoryDiversity(m *Metrics, inv *aggregate.Invocation) {
	m.GlobalAccesses = inv.GlobalAccesses
	m.LocalAccesses = inv.LocalAccesses
	m.ConstAccesses = inv.ConstAccesses

	denom := float64(inv.GlobalAccesses + inv.LocalAccesses + inv.ConstAccesses)
	if denom == 0 {
		return
	}
	m.LocalPct = float64(inv.LocalAccesses) / denom * 100
	m.ConstPct = float64(inv.ConstAccesses) / denom * 100
}

func deriveControl(m *Metrics, inv *aggregate.Invocation, coverage float64) {
	lengths := make([]int, 0, len(inv.BranchOps))
	var total int
	for _, seq := range inv.BranchOps {
		lengths = append(lengths, len(seq))
		total += len(seq)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	m.TotalBranchCount = total
	threshold := coverageThreshold(uint64(total), coverage)
	var cum uint64
	for i, n := range lengths {
		cum += uint64(n)
		if cum >= threshold {
			m.UniqueBranchesFor90Pct = i + 1
			break
		}
	}
	if m.UniqueBranchesFor90Pct == 0 && len(lengths) > 0 {
		m.UniqueBranchesFor90Pct = len(lengths)
	}
}

// mean is the arithmetic mean of a uint64 sequence, or 0 for an empty
// sequence.
func mean(xs []uint64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum uint64
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// minMaxMedian sorts a copy of xs and returns its min, max, and median,
// using integer-arithmetic averaging for even-length sequences.
func minMaxMedian(xs []uint64) (min, max, median uint64) {
	if len(xs) == 0 {
		return 0, 0, 0
	}
	sorted := append([]uint64(nil), xs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	min = sorted[0]
	max = sorted[n-1]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}
	return
}
