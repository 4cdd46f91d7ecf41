package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	rotateStep      = 0.1
)

type TickMsg time.Time

// Builder creates a fresh simulator. It is called once at start and again
// on every reset.
type Builder func() (*sim.Simulator, error)

// Model is the live view: it advances one frame per tick and draws the
// latest snapshot.
type Model struct {
	build   Builder
	sim     *sim.Simulator
	frame   sim.Frame
	title   string
	canvas  *Canvas
	camera  *Camera
	layers  Layers
	theme   Theme
	styles  Styles
	running bool
	// damping is the coefficient the d key switches in.
	damping  float64
	energy   []float64
	err      error
	showHelp bool
}

func NewModel(title string, build Builder) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}

	cam := NewCamera()
	cam.Zoom = s.Display().Scale

	theme := Themes[0]
	m := Model{
		build:   build,
		sim:     s,
		title:   title,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		layers:  AllLayers(),
		theme:   theme,
		styles:  NewStyles(theme),
		running: s.Display().Animate,
		damping: config.EnabledDamping,
		energy:  make([]float64, 0, historyCapacity),
	}
	m.frame = s.Snapshot(time.Now())
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "r":
			m.reset()
		case "d":
			m.toggleDamping()
		case "1":
			m.layers.Edges = !m.layers.Edges
		case "2":
			m.layers.Glyphs = !m.layers.Glyphs
		case "3":
			m.layers.Springs = !m.layers.Springs
		case "4":
			m.layers.Plane = !m.layers.Plane
		case "x":
			m.camera.Rotate(mgl64.Vec3{1, 0, 0}, rotateStep)
		case "X":
			m.camera.Rotate(mgl64.Vec3{1, 0, 0}, -rotateStep)
		case "y":
			m.camera.Rotate(mgl64.Vec3{0, 1, 0}, rotateStep)
		case "Y":
			m.camera.Rotate(mgl64.Vec3{0, 1, 0}, -rotateStep)
		case "z":
			m.camera.Rotate(mgl64.Vec3{0, 0, 1}, rotateStep)
		case "Z":
			m.camera.Rotate(mgl64.Vec3{0, 0, 1}, -rotateStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-52, 20)
		h := max(msg.Height-4, 8)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// step advances one frame while running; otherwise it refreshes the
// snapshot so the elapsed-time labels keep counting.
func (m *Model) step(now time.Time) {
	if !m.running {
		m.frame = m.sim.Snapshot(now)
		return
	}

	m.frame = m.sim.Advance(now)
	if !m.sim.World().IsValid() {
		m.running = false
		m.err = &dynamo.SimulationError{Frame: m.frame.Index, Time: m.frame.SimTime, Wrapped: dynamo.ErrInvalidState}
		return
	}

	m.energy = append(m.energy, m.frame.Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sim = s
	m.err = nil
	m.energy = m.energy[:0]
	m.frame = s.Snapshot(time.Now())
}

// toggleDamping switches drag on or off in the running world. The energy
// bounds keep their history, so the drop stays visible.
func (m *Model) toggleDamping() {
	c := m.damping
	if m.sim.Model().Damping != 0 {
		c = 0
	}
	m.sim.Model().Damping = c
	m.sim.World().Params.Damping = c
}

// View renders the TUI interface.
func (m Model) View() string {
	m.canvas.Clear()
	Render(m.canvas, m.frame, m.camera, m.layers)
	canvasView := m.styles.Canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.Paused.Render("STOPPED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.Status.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	}

	for _, l := range m.frame.Labels {
		s.WriteString(st.Energy.Render(l) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	w := m.sim.World()
	row("Time", fmt.Sprintf("%.2fs", m.frame.SimTime))
	row("Frame", fmt.Sprintf("%d", m.frame.Index))
	row("Bodies", fmt.Sprintf("%d in %dD", len(w.Bodies), w.Params.Dim))
	row("Damping", fmt.Sprintf("%.2f", m.sim.Model().Damping))
	row("Spread", fmt.Sprintf("%.3f%%", 100*m.sim.Monitor().RelativeSpread()))

	s.WriteString(st.KeyHint.Render("SP:Pause R:Reset D:Damping Q:Quit\n1-4:Layers XYZ:Rotate +-:Zoom ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  R        rebuild the scene
  D        toggle damping
  1 2 3 4  edges, velocity glyphs, springs, plane
  x y z    rotate the camera (shift reverses)
  + -      zoom
  T        next color theme
  Q        quit
`

// Run starts the live view and blocks until the user quits.
func Run(title string, build Builder) error {
	m, err := NewModel(title, build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
