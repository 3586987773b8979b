package sim

import (
	"time"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/ephem"
)

// Frame is one consistent snapshot: the clock is advanced first, then every
// body is propagated at the resulting date. Frames are never mutated after
// Step returns them.
type Frame struct {
	Index int
	Wall  time.Time
	Clock clock.State
	JD    float64

	Positions ephem.Positions
	// Skipped lists bodies left out of Positions this frame.
	Skipped []string
	Err     error

	// Belt holds minor-body states when the simulator copies them out.
	Belt        []ephem.State
	BeltUpdated int
	BeltStalest uint64
	BeltCycle   int
	ComputeTime time.Duration
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }

type RunConfig struct {
	Frames int
	// FPS paces frames with a rate limiter. Zero runs unpaced.
	FPS float64
	// Synthetic replaces the wall clock with one that advances exactly 1/FPS
	// per frame, and disables pacing. Recorded runs use it to be reproducible.
	Synthetic  bool
	KeepFrames bool
}

type Result struct {
	Frames     []*Frame
	FramesRun  int
	Start, End time.Time
	Metrics    map[string]float64
	Errors     []error
}
