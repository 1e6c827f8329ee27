package report_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/aiwc/aggregate"
	"github.com/sarchlab/aiwc/config"
	"github.com/sarchlab/aiwc/report"
)

var _ = Describe("Derive", func() {
	Describe("compute and work-distribution", func() {
		It("merges two workers' compute ops and derives median per-workitem and barriers-per-instruction", func() {
			inv := aggregate.New()
			w1 := driveAdds(2)
			w2 := driveAdds(4)
			inv.Merge(w1)
			inv.Merge(w2)

			m := report.Derive("vecadd", inv, config.Default())

			Expect(m.ThreadsInvoked).To(Equal(uint64(2)))
			Expect(m.MedianPerWorkitem).To(Equal(uint64(3)))
			Expect(m.BarriersPerInstruction).To(BeNumerically("~", float64(0+2)/float64(6), 1e-9))

			want := []report.OpCount{{Name: "add", Count: 6}}
			if diff := cmp.Diff(want, m.ComputeOps); diff != "" {
				Fail("compute-op histogram mismatch (-want +got):\n" + diff)
			}
		})
	})

	Describe("a kernel with no recorded activity", func() {
		It("reports zero-valued degenerate metrics instead of dividing by zero", func() {
			inv := aggregate.New()

			m := report.Derive("empty", inv, config.Default())

			Expect(m.ThreadsInvoked).To(BeZero())
			Expect(m.BarriersPerInstruction).To(BeZero())
			Expect(m.Granularity).To(BeZero())
			Expect(m.SimdMean).To(BeZero())
			Expect(m.GlobalEntropy).To(BeZero())
		})
	})

	Describe("Settings.CoverageThreshold", func() {
		It("lowers how many opcodes are needed to cross the coverage fraction", func() {
			inv := aggregate.New()
			inv.ComputeOps = map[string]uint64{"a": 50, "b": 30, "c": 20}

			atDefault := report.Derive("k", inv, config.Default())
			Expect(atDefault.UniqueOpcodesFor90Pct).To(Equal(3))

			lenient := report.Derive("k", inv, config.New(func(s *config.Settings) {
				s.CoverageThreshold = 0.5
			}))
			Expect(lenient.UniqueOpcodesFor90Pct).To(Equal(1))
		})
	})

	Describe("Settings.BranchHistoryWindow", func() {
		It("changes which branch sequences are long enough to contribute entropy", func() {
			inv := aggregate.New()
			seq := make([]bool, 10)
			for i := range seq {
				seq[i] = i%2 == 0
			}
			inv.BranchOps = map[int][]bool{42: seq}

			atDefault := report.Derive("k", inv, config.Default())
			Expect(atDefault.AverageEntropy).To(BeZero())

			narrower := report.Derive("k", inv, config.New(func(s *config.Settings) {
				s.BranchHistoryWindow = 10
			}))
			Expect(narrower.AverageEntropy).To(BeNumerically("~", 1.0, 1e-9))
		})
	})
})
