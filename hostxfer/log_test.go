package hostxfer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/aiwc/hostxfer"
)

var _ = Describe("Log", func() {
	It("attributes pending host-to-device copies to the next-enqueued kernel", func() {
		l := hostxfer.New()

		l.RecordHostToDevice()
		l.RecordHostToDevice()
		l.OnKernelBegin("K")
		l.RecordDeviceToHost()

		h2d, d2h := l.Counts()
		Expect(h2d).To(HaveKeyWithValue("K", 2))
		Expect(d2h).To(HaveKeyWithValue("K", 1))
	})

	It("never retroactively relabels device-to-host copies", func() {
		l := hostxfer.New()

		l.OnKernelBegin("first")
		l.RecordDeviceToHost()
		l.OnKernelBegin("second")

		_, d2h := l.Counts()
		Expect(d2h).To(HaveKeyWithValue("first", 1))
		Expect(d2h).NotTo(HaveKey("second"))
	})

	It("relabels only the transfers pending since the previous kernelBegin, not earlier ones", func() {
		l := hostxfer.New()

		l.RecordHostToDevice() // pending, tagged "" for now
		l.OnKernelBegin("A")   // relabels the one pending entry to A
		l.RecordHostToDevice() // pending again, tagged "A" for now
		l.OnKernelBegin("B")   // relabels that entry to B, A's stays put

		h2d, _ := l.Counts()
		Expect(h2d).To(HaveKeyWithValue("A", 1))
		Expect(h2d).To(HaveKeyWithValue("B", 1))
	})
})
