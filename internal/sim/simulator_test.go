package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/sim"
)

type fakeWall struct{ t time.Time }

func (w *fakeWall) Now() time.Time { return w.t }

func (w *fakeWall) Advance(d time.Duration) time.Time {
	w.t = w.t.Add(d)
	return w.t
}

type frameCounter struct{ n int }

func (c *frameCounter) Name() string         { return "frames" }
func (c *frameCounter) Observe(f *sim.Frame) { c.n++ }
func (c *frameCounter) Value() float64       { return float64(c.n) }
func (c *frameCounter) Reset()               { c.n = 0 }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Clock.Start = "2024-01-01"
	cfg.Clock.Scale = 86400
	cfg.Belt.Count = 20
	cfg.Belt.Batch = 5
	cfg.Belt.NearAU = 0
	return cfg
}

var _ = Describe("Simulator", func() {
	var (
		wall *fakeWall
		reg  *prometheus.Registry
		s    *sim.Simulator
	)

	BeforeEach(func() {
		wall = &fakeWall{t: time.Unix(1_700_000_000, 0)}
		reg = prometheus.NewRegistry()
		var err error
		s, err = sim.Build(testConfig(), sim.Deps{Registerer: reg, Now: wall.Now})
		Expect(err).NotTo(HaveOccurred())
	})

	It("advances the clock before propagating", func() {
		first := s.Step(wall.Now())
		Expect(first.Clock.Date).To(Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

		f := s.Step(wall.Advance(time.Second))
		Expect(f.Index).To(Equal(1))
		Expect(f.Clock.Date).To(Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
		Expect(f.Positions).To(HaveKey("earth"))
		Expect(f.Positions["earth"].JD).To(Equal(f.JD))
		Expect(f.Positions["moon"].JD).To(Equal(f.JD))
		Expect(f.Positions["earth"].Position).NotTo(Equal(first.Positions["earth"].Position))
	})

	It("returns every registered body when nothing fails", func() {
		f := s.Step(wall.Now())
		Expect(f.Err).NotTo(HaveOccurred())
		Expect(f.Skipped).To(BeEmpty())
		Expect(f.Positions).To(HaveLen(ephem.DefaultRegistry().Len()))
	})

	It("refreshes the belt in bounded batches", func() {
		f := s.Step(wall.Now())
		Expect(f.BeltUpdated).To(Equal(20))
		Expect(f.BeltCycle).To(Equal(4))
		for i := 0; i < 12; i++ {
			f = s.Step(wall.Advance(time.Second))
			Expect(f.BeltUpdated).To(Equal(5))
			Expect(f.BeltStalest).To(BeNumerically("<=", 3))
		}
		Expect(f.Belt).To(BeNil())
	})

	It("reports frame timing to the registry", func() {
		s.Step(wall.Now())
		s.Step(wall.Advance(time.Second))
		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		var count uint64
		for _, mf := range families {
			if mf.GetName() == "orrery_sim_frame_seconds" {
				count = mf.GetMetric()[0].GetHistogram().GetSampleCount()
			}
		}
		Expect(count).To(Equal(uint64(2)))
	})

	Context("with a body that cannot be propagated", func() {
		BeforeEach(func() {
			r := ephem.DefaultRegistry()
			Expect(r.AddPlanet("runaway", "Runaway", ephem.OrbitalElements{
				A: 1.5, E: 0.5, Rates: ephem.Rates{E: 1},
			})).To(Succeed())
			cfg := testConfig()
			cfg.Clock.Start = "2150-01-01"
			var err error
			s, err = sim.Build(cfg, sim.Deps{Registry: r, Now: wall.Now})
			Expect(err).NotTo(HaveOccurred())
		})

		It("skips it and keeps the rest of the frame", func() {
			f := s.Step(wall.Now())
			Expect(f.Err).To(MatchError(ephem.ErrInvalidState))
			Expect(f.Skipped).To(ConsistOf("runaway"))
			Expect(f.Positions).To(HaveKey("earth"))
			Expect(f.Positions).To(HaveKey("moon"))
		})
	})

	Describe("Run", func() {
		It("advances a synthetic wall clock per frame", func() {
			counter := &frameCounter{}
			s.AddMetric(counter)
			seen := 0
			s.AddObserver(sim.ObserverFunc(func(*sim.Frame) { seen++ }))

			res, err := s.Run(context.Background(), sim.RunConfig{
				Frames: 10, FPS: 10, Synthetic: true, KeepFrames: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.FramesRun).To(Equal(10))
			Expect(res.Frames).To(HaveLen(10))
			Expect(res.Metrics).To(HaveKeyWithValue("frames", 10.0))
			Expect(seen).To(Equal(10))
			// The first frame only sets the wall reference.
			Expect(res.End.Sub(res.Start)).To(Equal(9 * 100 * time.Millisecond * 86400))
		})

		It("paces real-time runs", func() {
			res, err := s.Run(context.Background(), sim.RunConfig{Frames: 3, FPS: 1000})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.FramesRun).To(Equal(3))
			Expect(res.Frames).To(BeNil())
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, sim.RunConfig{Frames: 5})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.FramesRun).To(Equal(0))
		})

		DescribeTable("rejects bad run configs",
			func(cfg sim.RunConfig) {
				_, err := s.Run(context.Background(), cfg)
				Expect(err).To(HaveOccurred())
			},
			Entry("no frames", sim.RunConfig{Frames: 0}),
			Entry("negative fps", sim.RunConfig{Frames: 1, FPS: -1}),
			Entry("synthetic without fps", sim.RunConfig{Frames: 1, Synthetic: true}),
		)
	})

	It("rejects an unknown follow target", func() {
		_, err := sim.Build(testConfig(), sim.Deps{Now: wall.Now, Follow: "pluto"})
		Expect(err).To(MatchError(ephem.ErrUnknownBody))
	})

	It("copies belt states when asked", func() {
		s, err := sim.Build(testConfig(), sim.Deps{Now: wall.Now, CopyBelt: true, Follow: "Mars"})
		Expect(err).NotTo(HaveOccurred())
		f := s.Step(wall.Now())
		Expect(f.Belt).To(HaveLen(20))
		Expect(f.Belt[0].Body).To(Equal("asteroid-0000"))
	})

	It("gates the belt around the followed body as propagated in the same frame", func() {
		cfg := testConfig()
		cfg.Clock.Scale = 30 * 86400
		cfg.Belt.Count = 200
		cfg.Belt.NearAU = 1.0
		s, err := sim.Build(cfg, sim.Deps{Now: wall.Now, CopyBelt: true, Follow: "mars"})
		Expect(err).NotTo(HaveOccurred())

		f0 := s.Step(wall.Now())
		f1 := s.Step(wall.Advance(time.Second))
		Expect(f1.Clock.Date.Sub(f0.Clock.Date)).To(Equal(30 * 24 * time.Hour))

		near := func(observer r3.Vec) map[int]bool {
			out := map[int]bool{}
			for i, st := range f0.Belt {
				if r3.Norm(r3.Sub(st.Position, observer)) <= cfg.Belt.NearAU {
					out[i] = true
				}
			}
			return out
		}
		expected := func(set map[int]bool) int {
			n := len(set)
			for i := 0; i < cfg.Belt.Batch; i++ {
				if !set[i] {
					n++
				}
			}
			return n
		}

		same := near(f1.Positions["mars"].Position)
		Expect(same).NotTo(BeEmpty())
		Expect(f1.BeltUpdated).To(Equal(expected(same)))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs independent members", func() {
		wall := time.Unix(1_700_000_000, 0)
		e := sim.NewEnsemble(func(i int) (*sim.Simulator, error) {
			cfg := testConfig()
			cfg.Clock.Scale = float64(i+1) * 3600
			return sim.Build(cfg, sim.Deps{Now: func() time.Time { return wall }})
		}, 3)
		results, err := e.Run(context.Background(), sim.RunConfig{Frames: 5, FPS: 1, Synthetic: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			Expect(r.End.Sub(r.Start)).To(Equal(time.Duration(4*(i+1)) * time.Hour))
		}
	})
})
