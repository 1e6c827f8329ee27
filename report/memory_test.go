package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/aiwc/aggregate"
	"github.com/sarchlab/aiwc/config"
	"github.com/sarchlab/aiwc/report"
)

var _ = Describe("memory footprint and entropy", func() {
	It("computes ~0.7219 bits of entropy for an 80/20 address split", func() {
		inv := aggregate.New()
		inv.MemoryOps = []uint64{0x1000, 0x1000, 0x1000, 0x1000, 0x2000}

		m := report.Derive("k", inv, config.Default())

		Expect(m.TotalMemoryFootprint).To(Equal(2))
		Expect(m.MemoryAccessCount).To(Equal(5))
		Expect(m.Footprint90Pct).To(Equal(2))
		Expect(m.GlobalEntropy).To(BeNumerically("~", 0.7219, 1e-3))
	})

	It("reports zero entropy and a single-address footprint when every access hits the same address", func() {
		inv := aggregate.New()
		inv.MemoryOps = []uint64{0x4000, 0x4000, 0x4000}

		m := report.Derive("k", inv, config.Default())

		Expect(m.TotalMemoryFootprint).To(Equal(1))
		Expect(m.Footprint90Pct).To(Equal(1))
		Expect(m.GlobalEntropy).To(BeZero())
	})

	It("reports zero footprint metrics when no memory ops were recorded", func() {
		inv := aggregate.New()

		m := report.Derive("k", inv, config.Default())

		Expect(m.TotalMemoryFootprint).To(BeZero())
		Expect(m.MemoryAccessCount).To(BeZero())
		Expect(m.GlobalEntropy).To(BeZero())
	})
})
