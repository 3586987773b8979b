package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/sim"
)

var ErrBadStep = errors.New("automation: invalid scenario step")

const defaultFrameInterval = time.Second / 60

// Scenario is a scripted sequence of clock operations and frame runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// FrameInterval is the synthetic wall time between frames.
	FrameInterval time.Duration  `yaml:"frame_interval"`
	Steps         []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one action. Only the fields its action reads are used.
type ScenarioStep struct {
	Action  string        `yaml:"action"`
	Date    string        `yaml:"date,omitempty"`
	Scale   float64       `yaml:"scale,omitempty"`
	Step    *int          `yaml:"step,omitempty"`
	Preset  string        `yaml:"preset,omitempty"`
	Frames  int           `yaml:"frames,omitempty"`
	Advance time.Duration `yaml:"advance,omitempty"`
	Body    string        `yaml:"body,omitempty"`
}

// Checkpoint is the clock after a step and, for frames and mark, the
// last frame produced.
type Checkpoint struct {
	Step   int
	Action string
	Clock  clock.State
	Frame  *sim.Frame
	Mark   *ephem.State
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.FrameInterval <= 0 {
		scenario.FrameInterval = defaultFrameInterval
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	var errs []error
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err))
		}
	}
	return errors.Join(errs...)
}

func (st ScenarioStep) validate() error {
	switch st.Action {
	case "jump":
		if _, err := clock.ParseDate(st.Date); err != nil {
			return err
		}
	case "scale":
		if st.Scale == 0 {
			return fmt.Errorf("%w: scale must be non-zero", ErrBadStep)
		}
	case "step":
		if st.Step == nil {
			return fmt.Errorf("%w: step value missing", ErrBadStep)
		}
		if _, err := clock.ScaleForStep(*st.Step); err != nil {
			return err
		}
	case "preset":
		if _, err := clock.PresetScale(st.Preset); err != nil {
			return err
		}
	case "frames":
		if st.Frames <= 0 {
			return fmt.Errorf("%w: frames must be positive", ErrBadStep)
		}
	case "advance":
		if st.Advance == 0 {
			return fmt.Errorf("%w: advance must be non-zero", ErrBadStep)
		}
	case "mark":
		if st.Body == "" {
			return fmt.Errorf("%w: mark needs a body", ErrBadStep)
		}
	case "pause", "resume", "reverse":
	default:
		return fmt.Errorf("%w: unknown action %q", ErrBadStep, st.Action)
	}
	return nil
}

// Runner replays scenarios against one simulator with a synthetic wall clock.
type Runner struct {
	sim    *sim.Simulator
	wall   time.Time
	logger log.Logger
}

func NewRunner(s *sim.Simulator, wallStart time.Time, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{sim: s, wall: wallStart, logger: log.With(logger, "component", "automation")}
}

// Run executes every step in order. The first frame after construction only
// sets the clock's wall reference.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Checkpoint, error) {
	interval := sc.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	clk := r.sim.Clock()
	out := make([]Checkpoint, 0, len(sc.Steps))

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		level.Info(r.logger).Log("msg", "step", "n", i+1, "of", len(sc.Steps), "action", st.Action)

		cp := Checkpoint{Step: i + 1, Action: st.Action}
		var err error
		switch st.Action {
		case "jump":
			var t time.Time
			if t, err = clock.ParseDate(st.Date); err == nil {
				err = clk.JumpTo(t)
			}
		case "scale":
			err = clk.SetScale(st.Scale)
		case "step":
			if st.Step == nil {
				err = fmt.Errorf("%w: step value missing", ErrBadStep)
			} else {
				err = clk.SetStep(*st.Step)
			}
		case "preset":
			err = clk.SetPreset(st.Preset)
		case "pause":
			clk.Pause()
		case "resume":
			clk.Resume()
		case "reverse":
			clk.Reverse()
		case "advance":
			clk.Advance(st.Advance)
		case "frames":
			for n := 0; n < st.Frames; n++ {
				if err = ctx.Err(); err != nil {
					break
				}
				cp.Frame = r.sim.Step(r.wall)
				r.wall = r.wall.Add(interval)
			}
		case "mark":
			var state ephem.State
			state, err = r.sim.Propagator().PositionFor(st.Body, clk.Now())
			if err == nil {
				cp.Mark = &state
			}
		default:
			err = fmt.Errorf("%w: unknown action %q", ErrBadStep, st.Action)
		}
		if err != nil {
			return out, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}

		cp.Clock = clk.Snapshot()
		out = append(out, cp)
	}
	return out, nil
}
