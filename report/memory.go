package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// footprintSpan is the number of spatial-locality scales the memory
// footprint histograms cover: k = 0 (raw address) through k = 10 (10 LSBs
// shifted off).
const footprintSpan = 11

// footprintHistograms holds, for each shift k in [0, footprintSpan), a
// histogram of addresses right-shifted by k bits to count of occurrences.
type footprintHistograms [footprintSpan]map[uint64]uint64

func buildFootprintHistograms(addrs []uint64) footprintHistograms {
	var h footprintHistograms
	for k := range h {
		h[k] = make(map[uint64]uint64)
	}
	for _, a := range addrs {
		for k := 0; k < footprintSpan; k++ {
			h[k][a>>uint(k)]++
		}
	}
	return h
}

func deriveMemoryFootprint(m *Metrics, h footprintHistograms, coverage float64) {
	k0 := h[0]
	m.TotalMemoryFootprint = len(k0)

	var accessCount uint64
	counts := make([]uint64, 0, len(k0))
	for _, c := range k0 {
		accessCount += c
		counts = append(counts, c)
	}
	m.MemoryAccessCount = int(accessCount)

	sort.Sort(sort.Reverse(uint64Slice(counts)))
	threshold := coverageThreshold(accessCount, coverage)
	var cum uint64
	for i, c := range counts {
		cum += c
		if cum >= threshold {
			m.Footprint90Pct = i + 1
			break
		}
	}
	if m.Footprint90Pct == 0 && len(counts) > 0 {
		m.Footprint90Pct = len(counts)
	}
}

func deriveMemoryEntropy(m *Metrics, h footprintHistograms) {
	if m.MemoryAccessCount == 0 {
		return
	}
	total := float64(m.MemoryAccessCount)

	m.GlobalEntropy = shannonEntropyBits(h[0], total)
	for k := 1; k <= 10; k++ {
		m.LocalEntropy[k-1] = shannonEntropyBits(h[k], total)
	}
}

// shannonEntropyBits computes -Sum p*log2(p) over a histogram's counts,
// normalized by `total` (not the histogram's own sum, which for every
// shift k equals the same access count).
func shannonEntropyBits(histogram map[uint64]uint64, total float64) float64 {
	probs := make([]float64, 0, len(histogram))
	for _, c := range histogram {
		probs = append(probs, float64(c)/total)
	}
	return stat.Entropy(probs) / math.Ln2
}

type uint64Slice []uint64

func (s uint64Slice) Len() int           { return len(s) }
func (s uint64Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint64Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
