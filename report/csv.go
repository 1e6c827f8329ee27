package report

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/sarchlab/aiwc/outfile"
)

// WriteCSV emits aiwc_<kernelName>_<N>.csv under dir, in a fixed column
// order for reproducibility with existing artifacts. Header is
// "metric,count"; every row is a single metric regardless of its
// underlying type, formatted with locale-neutral (plain, unlocalized)
// number formatting.
func WriteCSV(dir string, m Metrics) (string, error) {
	f, name, err := outfile.Create(dir, sanitizeKernelName(m.KernelName), ".csv")
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"metric", "count"}); err != nil {
		return "", err
	}
	for _, row := range csvRows(m) {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()

	return name, w.Error()
}

func csvRows(m Metrics) [][]string {
	f := strconv.FormatFloat
	i := strconv.FormatUint

	rows := [][]string{
		{"unique opcodes for 90% of instructions", strconv.Itoa(m.UniqueOpcodesFor90Pct)},
		{"total instruction count", i(m.TotalInstructionCount, 10)},
		{"freedom to reorder", f(m.FreedomToReorder, 'g', -1, 64)},
		{"resource pressure", f(m.ResourcePressure, 'g', -1, 64)},
		{"workitems", i(m.ThreadsInvoked, 10)},
		{"operand sum", i(m.SimdSum, 10)},
		{"total # of barriers hit", i(m.BarriersHit, 10)},
		{"min instructions to barrier", i(m.MinInstToBarrier, 10)},
		{"max instructions to barrier", i(m.MaxInstToBarrier, 10)},
		{"median instructions to barrier", i(m.MedianInstToBarrier, 10)},
		{"min instructions executed by a work-item", i(m.MinPerWorkitem, 10)},
		{"max instructions executed by a work-item", i(m.MaxPerWorkitem, 10)},
		{"median instructions executed by a work-item", i(m.MedianPerWorkitem, 10)},
		{"max simd width", strconv.Itoa(m.SimdMax)},
		{"mean simd width", f(m.SimdMean, 'g', -1, 64)},
		{"stdev simd width", f(m.SimdStdev, 'g', -1, 64)},
		{"granularity", f(m.Granularity, 'g', -1, 64)},
		{"barriers per instruction", f(m.BarriersPerInstruction, 'g', -1, 64)},
		{"instructions per operand", f(m.InstructionsPerOperand, 'g', -1, 64)},
		{"total memory footprint", strconv.Itoa(m.TotalMemoryFootprint)},
		{"90% memory footprint", strconv.Itoa(m.Footprint90Pct)},
		{"global memory address entropy", f(m.GlobalEntropy, 'g', -1, 64)},
	}

	for k := 1; k <= 10; k++ {
		rows = append(rows, []string{
			"local memory address entropy -- " + strconv.Itoa(k) + " LSBs skipped",
			f(m.LocalEntropy[k-1], 'g', -1, 64),
		})
	}

	rows = append(rows,
		[]string{"total global memory accessed", i(m.GlobalAccesses, 10)},
		[]string{"total local memory accessed", i(m.LocalAccesses, 10)},
		[]string{"total constant memory accessed", i(m.ConstAccesses, 10)},
		[]string{"relative local memory usage", f(m.LocalPct, 'g', -1, 64)},
		[]string{"relative constant memory usage", f(m.ConstPct, 'g', -1, 64)},
		[]string{"total unique branch instructions", strconv.Itoa(m.TotalBranchCount)},
		[]string{"90% branch instructions", strconv.Itoa(m.UniqueBranchesFor90Pct)},
		[]string{"branch entropy (yokota)", f(m.YokotaEntropy, 'g', -1, 64)},
		[]string{"branch entropy (average linear)", f(m.AverageEntropy, 'g', -1, 64)},
	)

	return rows
}

// sanitizeKernelName strips characters that would be awkward in a
// filename; OpenCL kernel names are C identifiers so this is a defensive
// no-op in the common case.
func sanitizeKernelName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return "aiwc_" + replacer.Replace(name)
}
