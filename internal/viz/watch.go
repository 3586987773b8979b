package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300
	frameRate       = 30
)

var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the watch application. It owns no simulation state of its own:
// every tick steps the simulator and draws the resulting frame.
type Model struct {
	sim    *sim.Simulator
	frame  *sim.Frame
	now    func() time.Time
	canvas *Canvas
	camera *Camera

	planets  []string
	follow   int // index into planets, -1 for the Sun
	history  []float64
	showBelt bool
	showHelp bool

	theme  int
	styles styles
	notice string
}

func NewModel(s *sim.Simulator) Model {
	reg := s.Propagator().Registry()
	var planets []string
	for _, id := range reg.IDs() {
		if b, _ := reg.Lookup(id); b.Kind == ephem.KindPlanet {
			planets = append(planets, id)
		}
	}
	c := NewCanvas(canvasWidth, canvasHeight)
	sw, sh := c.PixelSize()
	return Model{
		sim:      s,
		now:      time.Now,
		canvas:   c,
		camera:   NewCamera(FitZoom(5.5, sw, sh)),
		planets:  planets,
		follow:   -1,
		history:  make([]float64, 0, historyCapacity),
		showBelt: true,
		styles:   newStyles(Themes[0]),
	}
}

// WithTheme selects a theme by name, falling back to the default.
func (m Model) WithTheme(name string) Model {
	for i, t := range Themes {
		if t.Name == name {
			m.theme = i
		}
	}
	m.styles = newStyles(Themes[m.theme])
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	clk := m.sim.Clock()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if clk.Paused() {
				clk.Resume()
			} else {
				clk.Pause()
			}
		case "+", "=":
			m.setStep(clock.StepForScale(clk.Scale()) + 1)
		case "-", "_":
			m.setStep(clock.StepForScale(clk.Scale()) - 1)
		case "1", "2", "3", "4", "5", "6", "7":
			p := clock.ListPresets()[int(key[0]-'1')]
			if err := clk.SetPreset(p.Name); err != nil {
				m.notice = err.Error()
			} else {
				m.notice = "preset: " + p.Name
			}
		case "r":
			clk.Reverse()
		case "e":
			m.jump(j2000)
		case "n":
			m.jump(m.now())
		case "tab":
			m.follow++
			if m.follow >= len(m.planets) {
				m.follow = -1
			}
			m.history = m.history[:0]
		case "z":
			m.camera.ZoomIn()
		case "x":
			m.camera.ZoomOut()
		case "up":
			m.camera.TiltBy(0.1)
		case "down":
			m.camera.TiltBy(-0.1)
		case "b":
			m.showBelt = !m.showBelt
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) setStep(n int) {
	n = max(-clock.MaxStep, min(clock.MaxStep, n))
	if err := m.sim.Clock().SetStep(n); err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) jump(t time.Time) {
	if err := m.sim.Clock().JumpTo(t); err != nil {
		m.notice = err.Error()
		return
	}
	m.history = m.history[:0]
	m.notice = "jumped to " + t.UTC().Format("2006-01-02")
}

func (m *Model) step(wall time.Time) {
	m.frame = m.sim.Step(wall)
	m.sim.SetObserver(r3.Vec{})
	if id := m.followed(); id != "" {
		if st, ok := m.frame.Positions[id]; ok {
			// Belt bodies near the followed planet refresh every frame.
			m.sim.SetObserver(st.Position)
			m.history = append(m.history, st.R)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
	}
}

func (m Model) followed() string {
	if m.follow < 0 || m.follow >= len(m.planets) {
		return ""
	}
	return m.planets[m.follow]
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.frame == nil {
		return
	}
	sw, sh := m.canvas.PixelSize()
	m.camera.Center = r3.Vec{}
	if st, ok := m.frame.Positions[m.followed()]; ok {
		m.camera.Center = st.Position
	}

	if x, y, ok := m.camera.Project(r3.Vec{}, sw, sh); ok {
		m.canvas.Mark(x, y, 2)
	}
	if m.showBelt {
		for _, st := range m.frame.Belt {
			if x, y, ok := m.camera.Project(st.Position, sw, sh); ok {
				m.canvas.Set(x, y)
			}
		}
	}
	for id, st := range m.frame.Positions {
		x, y, ok := m.camera.Project(st.Position, sw, sh)
		if !ok {
			continue
		}
		if st.Parent != "" {
			m.canvas.Set(x, y)
			continue
		}
		m.canvas.Mark(x, y, 1)
		if id == m.followed() {
			m.canvas.Ring(x, y, 3)
		}
	}
}

func (m Model) status() string {
	if m.frame == nil {
		return "STARTING"
	}
	c := m.frame.Clock
	switch {
	case c.Paused:
		return m.styles.paused.Render("PAUSED")
	case c.Scale < 0:
		return m.styles.rewind.Render(fmt.Sprintf("REWIND x%g", -c.Scale))
	default:
		return m.styles.running.Render(fmt.Sprintf("RUNNING x%g", c.Scale))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render("ORRERY") + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	if f := m.frame; f != nil {
		row("Date", f.Clock.Date.Format("2006-01-02 15:04"))
		row("JD", fmt.Sprintf("%.4f", f.JD))
		row("Step", fmt.Sprintf("%+d", clock.StepForScale(f.Clock.Scale)))
		row("Bodies", fmt.Sprintf("%d (%d skipped)", len(f.Positions), len(f.Skipped)))
		if f.BeltCycle > 0 {
			row("Belt", fmt.Sprintf("%d/frame, lag %d of %d", f.BeltUpdated, f.BeltStalest, f.BeltCycle))
		}
		row("Frame", f.ComputeTime.Round(time.Microsecond).String())
	}

	follow := m.followed()
	if follow == "" {
		follow = "sun"
	}
	row("Follow", follow)
	if m.frame != nil {
		if st, ok := m.frame.Positions[m.followed()]; ok {
			row("r", fmt.Sprintf("%.5f AU", st.R))
			row("v", fmt.Sprintf("%.2f°", st.TrueAnomaly*180/math.Pi))
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("r (AU)"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}
	if m.notice != "" {
		s.WriteString(m.styles.warn.Render(m.notice) + "\n")
	}
	s.WriteString(m.styles.help.Render("SP:Pause +/-:Scale 1-7:Preset R:Reverse\nE:J2000 N:Now Tab:Follow Z/X:Zoom ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume the clock
  + / -    scale step up or down
  1-7      realtime, minute, hour, day, week, month, year per second
  R        reverse time
  E / N    jump to J2000 / to now
  Tab      follow the next planet
  Z / X    zoom in / out
  Up/Down  tilt the view
  B        toggle the asteroid belt
  T        cycle themes
  Q        quit
`
