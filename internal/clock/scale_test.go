package clock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/clock"
)

var _ = Describe("Scale selection", func() {
	DescribeTable("ScaleForStep",
		func(n int, want float64) {
			got, err := clock.ScaleForStep(n)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(clock.StepForScale(got)).To(Equal(n))
		},
		Entry("zero is real time", 0, 1.0),
		Entry("one", 1, 10.0),
		Entry("minus one", -1, -10.0),
		Entry("four", 4, 1e4),
		Entry("max", 7, 1e7),
		Entry("min", -7, -1e7),
	)

	It("rejects steps outside the control range", func() {
		_, err := clock.ScaleForStep(8)
		Expect(err).To(MatchError(clock.ErrScaleStep))
		_, err = clock.ScaleForStep(-8)
		Expect(err).To(MatchError(clock.ErrScaleStep))
	})

	It("snaps arbitrary scales to the nearest step", func() {
		Expect(clock.StepForScale(86400)).To(Equal(5))
		Expect(clock.StepForScale(-3600)).To(Equal(-4))
		Expect(clock.StepForScale(0.5)).To(Equal(0))
		Expect(clock.StepForScale(1e12)).To(Equal(clock.MaxStep))
	})

	It("lists presets in increasing order", func() {
		ps := clock.ListPresets()
		Expect(ps).To(HaveLen(7))
		Expect(ps[0].Name).To(Equal("realtime"))
		for i := 1; i < len(ps); i++ {
			Expect(ps[i].Scale).To(BeNumerically(">", ps[i-1].Scale))
		}
		ps[0].Scale = 99
		Expect(clock.ListPresets()[0].Scale).To(Equal(1.0))
	})

	It("resolves presets case-insensitively", func() {
		s, err := clock.PresetScale(" Day ")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(86400.0))
		_, err = clock.PresetScale("fortnight")
		Expect(err).To(MatchError(clock.ErrUnknownPreset))
	})

	Describe("on a clock", func() {
		var c *clock.Clock

		BeforeEach(func() {
			var err error
			c, err = clock.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), clock.Options{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes steps and presets to the same scale", func() {
			Expect(c.SetStep(3)).To(Succeed())
			Expect(c.Scale()).To(Equal(1000.0))
			Expect(c.SetPreset("hour")).To(Succeed())
			Expect(c.Scale()).To(Equal(3600.0))
			Expect(clock.StepForScale(c.Scale())).To(Equal(4))
		})

		It("keeps a rewind when a preset is chosen", func() {
			c.Reverse()
			Expect(c.SetPreset("week")).To(Succeed())
			Expect(c.Scale()).To(Equal(-604800.0))
		})

		It("leaves the scale alone on a bad preset", func() {
			Expect(c.SetPreset("nope")).To(MatchError(clock.ErrUnknownPreset))
			Expect(c.Scale()).To(Equal(1.0))
		})
	})
})
