package ephem

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func smallBelt(t *testing.T, n int, seed int64) *Belt {
	t.Helper()
	cfg := DefaultBeltConfig()
	cfg.Count = n
	b, err := NewBelt(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new belt: %v", err)
	}
	return b
}

func TestBeltReproducible(t *testing.T) {
	a := smallBelt(t, 50, 42)
	b := smallBelt(t, 50, 42)
	c := smallBelt(t, 50, 43)
	for i := range a.Bodies {
		if a.Bodies[i] != b.Bodies[i] {
			t.Fatalf("body %d differs for the same seed", i)
		}
	}
	if a.Bodies[0] == c.Bodies[0] {
		t.Error("different seeds should give different belts")
	}
}

func TestBeltElementRanges(t *testing.T) {
	cfg := DefaultBeltConfig()
	b := smallBelt(t, 500, 7)
	for _, mb := range b.Bodies {
		el := mb.Elements
		if el.A < cfg.InnerAU || el.A >= cfg.OuterAU {
			t.Fatalf("%s: a = %v outside belt", mb.ID, el.A)
		}
		if el.E < 0 || el.E >= 0.2 {
			t.Fatalf("%s: e = %v outside [0, 0.2)", mb.ID, el.E)
		}
		if err := el.Validate(); err != nil {
			t.Fatalf("%s: %v", mb.ID, err)
		}
		// Kepler's third law: period in days from the mean motion.
		period := 2 * math.Pi / (el.Rates.L / 36525)
		want := 365.256898 * math.Pow(el.A, 1.5)
		if math.Abs(period-want)/want > 1e-3 {
			t.Fatalf("%s: period %v, want %v", mb.ID, period, want)
		}
	}
	if b.Bodies[12].ID != "asteroid-0012" {
		t.Errorf("unexpected id %q", b.Bodies[12].ID)
	}
}

func TestBeltConfigValidate(t *testing.T) {
	bad := []BeltConfig{
		{Count: -1, InnerAU: 2, OuterAU: 3},
		{Count: 1, InnerAU: 3, OuterAU: 2},
		{Count: 1, InnerAU: 2, OuterAU: 3, MaxEcc: 1},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d should be rejected", i)
		}
	}
	if _, err := NewBelt(DefaultBeltConfig(), nil); err == nil {
		t.Error("nil random source should be rejected")
	}
}

func TestSchedulerStalenessBound(t *testing.T) {
	b := smallBelt(t, 10, 1)
	s, err := NewBeltScheduler(b, 3, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cycle() != 4 {
		t.Fatalf("cycle = %d, want 4", s.Cycle())
	}

	date := J2000
	if n := s.Update(date, r3.Vec{}); n != 10 {
		t.Fatalf("first update computed %d bodies, want all 10", n)
	}
	for f := 0; f < 25; f++ {
		date = date.Add(24 * time.Hour)
		if n := s.Update(date, r3.Vec{}); n != 3 {
			t.Fatalf("frame %d updated %d bodies, want 3", s.Frame(), n)
		}
		if st := s.MaxStaleness(); st > uint64(s.Cycle()-1) {
			t.Fatalf("frame %d: staleness %d exceeds one cycle", s.Frame(), st)
		}
	}
}

func TestSchedulerDeferredBodiesKeepOldPosition(t *testing.T) {
	b := smallBelt(t, 10, 2)
	s, _ := NewBeltScheduler(b, 3, 0, nil)
	s.Update(J2000, r3.Vec{})
	first, _ := s.State(5)

	next := J2000.Add(30 * 24 * time.Hour)
	s.Update(next, r3.Vec{})

	stale, frame := s.State(5)
	if stale != first || frame != 1 {
		t.Error("body outside the window should keep its previous state")
	}
	fresh, frame := s.State(0)
	if frame != 2 || fresh.JD != JulianDate(next) {
		t.Errorf("body 0 should be refreshed in frame 2, got frame %d", frame)
	}
	want := Propagate(b.Bodies[0].Elements, JulianDate(next), MinorSolver)
	if fresh.Position != want.Position {
		t.Error("scheduled update should match a direct propagation")
	}
}

func TestSchedulerNearObserverEveryFrame(t *testing.T) {
	b := smallBelt(t, 20, 3)
	s, _ := NewBeltScheduler(b, 2, 100, nil)
	s.Update(J2000, r3.Vec{})
	for f := 0; f < 5; f++ {
		if n := s.Update(J2000.AddDate(0, 0, f+1), r3.Vec{}); n != 20 {
			t.Fatalf("every body is within range and should update, got %d", n)
		}
		if s.MaxStaleness() != 0 {
			t.Fatal("near bodies should never go stale")
		}
	}
}
