package report

import (
	"math"

	"github.com/sarchlab/aiwc/aggregate"
)

// deriveBranchEntropy computes the Yokota branch-entropy family over a
// fixed history window of `window` bits. The formula normalizes by the
// intra-pattern taken-rate p = takenCount/window rather than the pattern's
// empirical frequency across all windows, a choice preserved exactly for
// reproducibility with existing results.
func deriveBranchEntropy(m *Metrics, inv *aggregate.Invocation, window int) {
	var yokota, yokotaPerWorkload, averageSum float64
	var n uint64

	for _, seq := range inv.BranchOps {
		if len(seq) < window {
			continue
		}

		patterns := make(map[string]int)
		for start := 0; start+window <= len(seq); start++ {
			patterns[patternString(seq[start:start+window])]++
		}

		for pattern, c := range patterns {
			taken := countTaken(pattern)
			p := float64(taken) / float64(window)

			if p != 0 {
				yokota -= float64(c) * p * log2(p)
				yokotaPerWorkload -= p * log2(p)
			}

			linear := 2 * math.Min(p, 1-p)
			averageSum += float64(c) * linear
			n += uint64(c)
		}
	}

	m.YokotaEntropy = yokota
	m.YokotaEntropyPerWorkload = yokotaPerWorkload

	avg := averageSum / float64(n)
	if math.IsNaN(avg) {
		avg = 0
	}
	m.AverageEntropy = avg
}

func patternString(taken []bool) string {
	b := make([]byte, len(taken))
	for i, t := range taken {
		if t {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func countTaken(pattern string) int {
	n := 0
	for _, c := range pattern {
		if c == '1' {
			n++
		}
	}
	return n
}

func log2(x float64) float64 {
	return math.Log2(x)
}
