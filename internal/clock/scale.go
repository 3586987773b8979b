package clock

import (
	"fmt"
	"math"
	"strings"
)

// MaxStep bounds the exponential scale control.
const MaxStep = 7

// ScaleForStep maps n in [-MaxStep, MaxStep] to ±10^|n|, with 0 meaning real time.
func ScaleForStep(n int) (float64, error) {
	if n < -MaxStep || n > MaxStep {
		return 0, fmt.Errorf("%w: %d", ErrScaleStep, n)
	}
	if n == 0 {
		return 1, nil
	}
	s := math.Pow(10, math.Abs(float64(n)))
	if n < 0 {
		s = -s
	}
	return s, nil
}

// StepForScale returns the step whose scale is nearest to s in log space.
func StepForScale(s float64) int {
	mag := math.Abs(s)
	if mag <= 1 || math.IsNaN(s) {
		return 0
	}
	n := int(math.Round(math.Log10(mag)))
	if n > MaxStep {
		n = MaxStep
	}
	if s < 0 {
		return -n
	}
	return n
}

type Preset struct {
	Name  string
	Scale float64
}

var presets = []Preset{
	{"realtime", 1},
	{"minute", 60},
	{"hour", 3600},
	{"day", 86400},
	{"week", 604800},
	{"month", 2592000},
	{"year", 31557600},
}

func ListPresets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func PresetScale(name string) (float64, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p.Scale, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func (c *Clock) SetStep(n int) error {
	s, err := ScaleForStep(n)
	if err != nil {
		return err
	}
	return c.SetScale(s)
}

// SetPreset selects a named rate and keeps the current direction.
func (c *Clock) SetPreset(name string) error {
	s, err := PresetScale(name)
	if err != nil {
		return err
	}
	if c.Scale() < 0 {
		s = -s
	}
	return c.SetScale(s)
}
