package clock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/clock"
)

var _ = Describe("Clock", func() {
	var (
		c     *clock.Clock
		start time.Time
		wall  time.Time
	)

	BeforeEach(func() {
		start = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		wall = time.Unix(1_700_000_000, 0)
		var err error
		c, err = clock.New(start, clock.Options{})
		Expect(err).NotTo(HaveOccurred())
		c.Tick(wall)
	})

	It("starts running at real time", func() {
		s := c.Snapshot()
		Expect(s.Scale).To(Equal(1.0))
		Expect(s.Paused).To(BeFalse())
		Expect(s.Date).To(Equal(start))
		Expect(s.String()).To(Equal("running x1"))
	})

	It("only records the wall reference on the first tick", func() {
		fresh, err := clock.New(start, clock.Options{Scale: 1000})
		Expect(err).NotTo(HaveOccurred())
		fresh.Tick(wall.Add(time.Hour))
		Expect(fresh.Now()).To(Equal(start))
	})

	DescribeTable("advances strictly forward under positive scale",
		func(scale float64, delta time.Duration) {
			Expect(c.SetScale(scale)).To(Succeed())
			before := c.Now()
			c.Tick(wall.Add(delta))
			Expect(c.Now().After(before)).To(BeTrue())
			want := time.Duration(float64(delta) * scale)
			Expect(c.Now().Sub(before)).To(BeNumerically("~", want, time.Microsecond))
		},
		Entry("real time, one frame", 1.0, 16*time.Millisecond),
		Entry("slow motion", 0.5, time.Second),
		Entry("day per second", 86400.0, 16*time.Millisecond),
		Entry("ten million", 1e7, 20*time.Millisecond),
	)

	DescribeTable("moves strictly backward under negative scale",
		func(scale float64, delta time.Duration) {
			Expect(c.SetScale(scale)).To(Succeed())
			before := c.Now()
			c.Tick(wall.Add(delta))
			Expect(c.Now().Before(before)).To(BeTrue())
		},
		Entry("rewind real time", -1.0, time.Second),
		Entry("rewind a year per second", -31557600.0, 16*time.Millisecond),
	)

	It("treats a zero wall delta as a no-op", func() {
		Expect(c.SetScale(1e6)).To(Succeed())
		c.Tick(wall)
		c.Tick(wall)
		Expect(c.Now()).To(Equal(start))
	})

	It("never advances on SetScale", func() {
		for _, s := range []float64{10, -3, 1e7, 0.01} {
			Expect(c.SetScale(s)).To(Succeed())
			Expect(c.Now()).To(Equal(start))
		}
	})

	It("rejects degenerate scales and keeps the old one", func() {
		Expect(c.SetScale(0)).To(MatchError(clock.ErrInvalidScale))
		Expect(c.Scale()).To(Equal(1.0))
	})

	Context("when paused", func() {
		BeforeEach(func() {
			c.Pause()
		})

		It("ignores any number of ticks", func() {
			for i := 1; i <= 50; i++ {
				c.Tick(wall.Add(time.Duration(i) * time.Minute))
			}
			Expect(c.Now()).To(Equal(start))
			Expect(c.Snapshot().String()).To(Equal("paused"))
		})

		It("does not jump on resume", func() {
			c.Tick(wall.Add(10 * time.Second))
			c.Resume()
			c.Tick(wall.Add(time.Hour))
			Expect(c.Now()).To(Equal(start))

			c.Tick(wall.Add(time.Hour + time.Second))
			Expect(c.Now()).To(Equal(start.Add(time.Second)))
		})

		It("still honours JumpTo", func() {
			target := start.AddDate(1, 0, 0)
			Expect(c.JumpTo(target)).To(Succeed())
			Expect(c.Now()).To(Equal(target))
			Expect(c.Paused()).To(BeTrue())
		})
	})

	It("advances from the jumped-to date", func() {
		future := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
		Expect(c.SetScale(3600)).To(Succeed())
		Expect(c.JumpTo(future)).To(Succeed())
		c.Tick(wall.Add(time.Second))
		Expect(c.Now()).To(Equal(future.Add(time.Hour)))
	})

	It("rejects a zero jump target", func() {
		Expect(c.JumpTo(time.Time{})).To(MatchError(clock.ErrInvalidDate))
		Expect(c.Now()).To(Equal(start))
	})

	It("flips direction on Reverse", func() {
		Expect(c.SetScale(60)).To(Succeed())
		c.Reverse()
		Expect(c.Scale()).To(Equal(-60.0))
		c.Tick(wall.Add(time.Second))
		Expect(c.Now()).To(Equal(start.Add(-time.Minute)))
	})

	It("resets the reference when the wall clock steps back", func() {
		c.Tick(wall.Add(-time.Hour))
		Expect(c.Now()).To(Equal(start))
		c.Tick(wall.Add(-time.Hour + time.Second))
		Expect(c.Now()).To(Equal(start.Add(time.Second)))
	})

	It("accumulates sub-nanosecond advances", func() {
		Expect(c.SetScale(0.25)).To(Succeed())
		for i := 1; i <= 4; i++ {
			c.Tick(wall.Add(time.Duration(i)))
		}
		Expect(c.Now()).To(Equal(start.Add(time.Nanosecond)))
	})

	It("carries ticks shorter than a simulated nanosecond without going backwards", func() {
		Expect(c.SetScale(1e-7)).To(Succeed())
		prev := c.Now()
		for i := 1; i <= 100; i++ {
			c.Tick(wall.Add(time.Duration(i) * time.Millisecond))
			Expect(c.Now()).NotTo(BeTemporally("<", prev))
			prev = c.Now()
		}
		Expect(c.Now()).To(BeTemporally(">=", start.Add(9*time.Nanosecond)))
		Expect(c.Now()).To(BeTemporally("<=", start.Add(10*time.Nanosecond)))
	})

	It("handles advances beyond the time.Duration range", func() {
		Expect(c.SetScale(31557600)).To(Succeed())
		c.Tick(wall.Add(100 * time.Hour))
		// 360000 s of wall time at a Julian year per second.
		Expect(c.Now().Year()).To(BeNumerically("~", 2024+360000, 20))
	})

	It("moves by Advance even when paused", func() {
		c.Pause()
		c.Advance(48 * time.Hour)
		Expect(c.Now()).To(Equal(start.Add(48 * time.Hour)))
	})
})
