package metrics

import (
	"github.com/san-kum/orrery/internal/sim"
)

// Staleness is the worst belt lag seen, in frames. It stays below the
// scheduler's cycle length.
type Staleness struct {
	name  string
	worst uint64
}

func NewStaleness() *Staleness {
	return &Staleness{name: "belt_staleness"}
}

func (s *Staleness) Name() string {
	return s.name
}

func (s *Staleness) Observe(f *sim.Frame) {
	if f.BeltStalest > s.worst {
		s.worst = f.BeltStalest
	}
}

func (s *Staleness) Value() float64 {
	return float64(s.worst)
}

func (s *Staleness) Reset() {
	s.worst = 0
}

// Skipped is the fraction of frames in which at least one body was left out.
type Skipped struct {
	name     string
	affected int
	bodies   int
	samples  int
}

func NewSkipped() *Skipped {
	return &Skipped{name: "skipped"}
}

func (s *Skipped) Name() string {
	return s.name
}

func (s *Skipped) Observe(f *sim.Frame) {
	s.samples++
	if len(f.Skipped) > 0 {
		s.affected++
		s.bodies += len(f.Skipped)
	}
}

func (s *Skipped) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.affected) / float64(s.samples)
}

// Bodies is the total number of skipped body lookups.
func (s *Skipped) Bodies() int { return s.bodies }

func (s *Skipped) Reset() {
	s.affected = 0
	s.bodies = 0
	s.samples = 0
}
