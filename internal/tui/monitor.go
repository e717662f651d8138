package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/particles"
)

const (
	canvasWidth     = 48
	canvasHeight    = 16
	historyCapacity = 400
	maxStepsPerTick = 64
	orbitStep       = 0.15
	maxPitch        = 1.5
)

// Simulation is what the monitor drives.
type Simulation interface {
	Step(dt float32) error
	Stats() particles.Stats
	Vertices() []cloud.Vertex
}

// StepHook runs after every successful step, e.g. to record frames.
type StepHook func(step int, vs []cloud.Vertex) error

type TickMsg time.Time

type Config struct {
	Dt           float32
	StepsPerTick int
	// MaxSteps stops the run once reached; 0 runs until quit.
	MaxSteps int
	FPS      int
	View     mgl32.Mat4
	FovyRad  float32
	Hook     StepHook
}

type plotKind int

const (
	plotRadius plotKind = iota
	plotEnergy
)

type Model struct {
	sim     Simulation
	cfg     Config
	canvas  *Canvas
	yaw     float32
	pitch   float32
	running bool
	done    bool
	plot    plotKind
	stats   particles.Stats
	radius  []float64
	energy  []float64
	err     error
	started time.Time
	elapsed time.Duration
}

func NewModel(sim Simulation, cfg Config) Model {
	if cfg.StepsPerTick <= 0 {
		cfg.StepsPerTick = 1
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.FovyRad == 0 {
		cfg.FovyRad = mgl32.DegToRad(45)
	}
	if cfg.View == (mgl32.Mat4{}) {
		cfg.View = mgl32.LookAtV(mgl32.Vec3{2, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	}
	m := Model{
		sim:     sim,
		cfg:     cfg,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		radius:  make([]float64, 0, historyCapacity),
		energy:  make([]float64, 0, historyCapacity),
		started: time.Now(),
	}
	m.observe()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.cfg.StepsPerTick = min(m.cfg.StepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.cfg.StepsPerTick = max(m.cfg.StepsPerTick/2, 1)
		case "left", "h":
			m.yaw -= orbitStep
		case "right", "l":
			m.yaw += orbitStep
		case "up", "k":
			m.pitch = min(m.pitch+orbitStep, maxPitch)
		case "down", "j":
			m.pitch = max(m.pitch-orbitStep, -maxPitch)
		case "g":
			m.plot = (m.plot + 1) % 2
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		if m.done {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs one tick worth of steps and records statistics.
func (m *Model) advance() {
	for i := 0; i < m.cfg.StepsPerTick; i++ {
		if err := m.sim.Step(m.cfg.Dt); err != nil {
			m.err = err
			m.done = true
			break
		}
		st := m.sim.Stats()
		if m.cfg.Hook != nil {
			if err := m.cfg.Hook(st.Step, m.sim.Vertices()); err != nil {
				m.err = err
				m.done = true
				break
			}
		}
		if m.cfg.MaxSteps > 0 && st.Step >= m.cfg.MaxSteps {
			m.done = true
			m.running = false
			break
		}
	}
	m.elapsed = time.Since(m.started)
	m.observe()
}

func (m *Model) observe() {
	m.stats = m.sim.Stats()
	m.radius = pushHistory(m.radius, m.stats.RMSRadius)
	m.energy = pushHistory(m.energy, m.stats.KineticEnergy)
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

// MVP is the transform used for the preview.
func (m Model) MVP() mgl32.Mat4 {
	proj := mgl32.Perspective(m.cfg.FovyRad, m.canvas.Aspect(), 0.01, 100)
	orbit := mgl32.HomogRotate3DX(m.pitch).Mul4(mgl32.HomogRotate3DY(m.yaw))
	return proj.Mul4(m.cfg.View).Mul4(orbit)
}

func (m Model) Stats() particles.Stats { return m.stats }
func (m Model) Err() error             { return m.err }
func (m Model) Running() bool          { return m.running }
func (m Model) Done() bool             { return m.done }
func (m Model) StepsPerTick() int      { return m.cfg.StepsPerTick }

func (m Model) View() string {
	mvp := m.MVP()
	m.canvas.Clear()
	for _, v := range m.sim.Vertices() {
		m.canvas.Plot(mgl32.Vec3{v.X, v.Y, v.Z}, mvp)
	}

	status := statusRunning.Render("RUNNING")
	switch {
	case m.done:
		status = statusPaused.Render("DONE")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("pclview headless") + "\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("status", status)
	row("step", fmt.Sprintf("%d", m.stats.Step))
	row("points", fmt.Sprintf("%d", m.stats.Points))
	row("steps/tick", fmt.Sprintf("%d", m.cfg.StepsPerTick))
	row("kinetic", fmt.Sprintf("%.4e", m.stats.KineticEnergy))
	row("radius", fmt.Sprintf("%.5f", m.stats.RMSRadius))
	row("max speed", fmt.Sprintf("%.4e", m.stats.MaxSpeed))
	c := m.stats.Centroid
	row("centroid", fmt.Sprintf("%.3f %.3f %.3f", c[0], c[1], c[2]))
	row("elapsed", m.elapsed.Truncate(time.Millisecond).String())
	stats.WriteString("\n" + Sparkline(m.radius, 36) + "\n")
	if m.err != nil {
		stats.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(stats.String()))

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		graphStyle.Render(m.plotView()),
		helpStyle.Render("space pause • +/- speed • arrows orbit • g plot • q quit"),
	)
}

func (m Model) plotView() string {
	data, caption := m.radius, "rms radius"
	if m.plot == plotEnergy {
		data, caption = m.energy, "kinetic energy"
	}
	if len(data) < 2 {
		return caption + ": collecting..."
	}
	return asciigraph.Plot(data, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption(caption), asciigraph.Precision(5))
}

// Run blocks until the user quits or the step limit is reached and returns
// the final model.
func Run(sim Simulation, cfg Config) (Model, error) {
	final, err := tea.NewProgram(NewModel(sim, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return Model{}, err
	}
	m := final.(Model)
	return m, m.err
}
