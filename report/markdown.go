package report

import (
	"io"
	"strings"

	"golang.org/x/text/message"
)

// WriteText renders the markdown-flavored per-kernel report to w. Section
// order: header, Compute, Parallelism (with its four sub-headings), Memory
// (with its three sub-headings), Control.
func WriteText(w io.Writer, m Metrics) error {
	p := localePrinter()

	if _, err := p.Fprintf(w, "# Architecture-Independent Workload Characterization of kernel: %s\n\n", m.KernelName); err != nil {
		return err
	}

	writeComputeSection(w, p, m)
	writeParallelismSection(w, p, m)
	writeMemorySection(w, p, m)
	writeControlSection(w, p, m)

	return nil
}

func writeComputeSection(w io.Writer, p *message.Printer, m Metrics) {
	p.Fprintf(w, "## Compute\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|total instruction count|%d|\n", m.TotalInstructionCount)
	p.Fprintf(w, "|unique opcodes for 90%% of instructions|%d|\n", m.UniqueOpcodesFor90Pct)
	p.Fprintf(w, "|opcodes|%s|\n\n", strings.Join(m.TopOpcodeNames, ", "))
}

func writeParallelismSection(w io.Writer, p *message.Printer, m Metrics) {
	p.Fprintf(w, "## Parallelism\n\n")

	p.Fprintf(w, "### Utilization\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|freedom to reorder|%.4f|\n", m.FreedomToReorder)
	p.Fprintf(w, "|resource pressure|%.4f|\n\n", m.ResourcePressure)

	p.Fprintf(w, "### Thread-Level Parallelism\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|granularity|%.6f|\n", m.Granularity)
	p.Fprintf(w, "|min instructions to barrier|%d|\n", m.MinInstToBarrier)
	p.Fprintf(w, "|max instructions to barrier|%d|\n", m.MaxInstToBarrier)
	p.Fprintf(w, "|median instructions to barrier|%d|\n", m.MedianInstToBarrier)
	p.Fprintf(w, "|barriers per instruction|%.6f|\n\n", m.BarriersPerInstruction)

	p.Fprintf(w, "### Work Distribution\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|min instructions per work-item|%d|\n", m.MinPerWorkitem)
	p.Fprintf(w, "|max instructions per work-item|%d|\n", m.MaxPerWorkitem)
	p.Fprintf(w, "|median instructions per work-item|%d|\n\n", m.MedianPerWorkitem)

	p.Fprintf(w, "### Data Parallelism\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|min simd width|%d|\n", m.SimdMin)
	p.Fprintf(w, "|max simd width|%d|\n", m.SimdMax)
	p.Fprintf(w, "|mean simd width|%.4f|\n", m.SimdMean)
	p.Fprintf(w, "|stdev simd width|%.4f|\n", m.SimdStdev)
	p.Fprintf(w, "|instructions per operand|%.4f|\n\n", m.InstructionsPerOperand)
}

func writeMemorySection(w io.Writer, p *message.Printer, m Metrics) {
	p.Fprintf(w, "## Memory\n\n")

	p.Fprintf(w, "### Memory Footprint\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|total memory footprint|%d|\n", m.TotalMemoryFootprint)
	p.Fprintf(w, "|90%% memory footprint|%d|\n\n", m.Footprint90Pct)

	p.Fprintf(w, "### Memory Entropy\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|global memory address entropy|%.6f|\n", m.GlobalEntropy)
	for k := 1; k <= 10; k++ {
		p.Fprintf(w, "|local memory address entropy, %d LSBs skipped|%.6f|\n", k, m.LocalEntropy[k-1])
	}
	p.Fprintf(w, "\n")

	p.Fprintf(w, "### Memory Diversity\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|relative local memory usage|%.2f%%|\n", m.LocalPct)
	p.Fprintf(w, "|relative constant memory usage|%.2f%%|\n\n", m.ConstPct)
}

func writeControlSection(w io.Writer, p *message.Printer, m Metrics) {
	p.Fprintf(w, "## Control\n\n")
	p.Fprintf(w, "|metric|value|\n|---|---|\n")
	p.Fprintf(w, "|total unique branch instructions|%d|\n", m.TotalBranchCount)
	p.Fprintf(w, "|90%% branch instructions|%d|\n", m.UniqueBranchesFor90Pct)
	p.Fprintf(w, "|branch entropy (yokota)|%.6f|\n", m.YokotaEntropy)
	p.Fprintf(w, "|branch entropy (yokota, per workload)|%.6f|\n", m.YokotaEntropyPerWorkload)
	p.Fprintf(w, "|branch entropy (average linear)|%.6f|\n", m.AverageEntropy)
}
