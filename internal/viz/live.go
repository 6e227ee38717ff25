package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/atomsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameInterval   = time.Second / 30
)

// TickMsg drives the simulation: each one advances the world by
// TicksPerFrame ticks while running.
type TickMsg time.Time

// WorldBuilder creates a fresh world; it is called on start and on reset.
type WorldBuilder func() (*physics.World, error)

// Model is the bubbletea model of the live view.
type Model struct {
	name   string
	build  WorldBuilder
	world  *physics.World
	scene  Scene
	canvas *Canvas
	camera *Camera

	TicksPerFrame int

	running  bool
	view3D   bool
	showHelp bool

	last      physics.TickReport
	energy    []float64
	deviation []float64
	promoted  int
	err       error
}

// NewModel builds the first world and returns a running model.
func NewModel(name string, scene Scene, build WorldBuilder) (Model, error) {
	w, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		name:          name,
		build:         build,
		world:         w,
		scene:         scene,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		TicksPerFrame: 1,
		running:       true,
		energy:        make([]float64, 0, historyCapacity),
		deviation:     make([]float64, 0, historyCapacity),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// World exposes the world being displayed.
func (m Model) World() *physics.World { return m.world }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "3":
			m.view3D = !m.view3D
		case "l":
			m.scene.Links = !m.scene.Links
		case "o":
			m.scene.Rings = !m.scene.Rings
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "]":
			m.TicksPerFrame = min(m.TicksPerFrame*2, 64)
		case "[":
			m.TicksPerFrame = max(m.TicksPerFrame/2, 1)
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.TicksPerFrame; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

// step advances the world one tick and records the charts.
func (m *Model) step() {
	if m.world == nil {
		return
	}
	m.last = m.world.Tick()
	m.promoted += m.last.Promoted()

	if !m.world.Valid() {
		m.running = false
		m.err = fmt.Errorf("tick %d: non-finite particle state", m.last.Tick)
	}

	m.energy = appendBounded(m.energy, m.world.KineticEnergy())
	m.deviation = appendBounded(m.deviation, meanAbsDeviation(m.last))
}

func (m *Model) reset() {
	w, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.last = physics.TickReport{}
	m.energy = m.energy[:0]
	m.deviation = m.deviation[:0]
	m.promoted = 0
	m.err = nil
}

func appendBounded(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func meanAbsDeviation(r physics.TickReport) float64 {
	sum, n := 0.0, 0
	for _, s := range r.Shells {
		for _, d := range s.Deviations {
			sum += math.Abs(d)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (m Model) draw() {
	m.canvas.Clear()
	if m.world == nil {
		return
	}
	bodies := m.world.Bodies()
	if m.view3D {
		Render3D(m.canvas, AtomWireframe(m.scene, bodies), m.camera)
		return
	}
	m.scene.Draw(m.canvas, bodies)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(fg(CurrentTheme.Primary).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.view3D {
		status += "  3D"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	if m.world != nil {
		row("Tick", fmt.Sprintf("%d", m.world.TickCount()))
		row("Particles", fmt.Sprintf("%d (%d nuclei)", m.world.Len(), len(m.world.Nuclei())))
		row("Kinetic", fmt.Sprintf("%.4f", m.world.KineticEnergy()))
		row("Pairs", fmt.Sprintf("%d", m.world.Relations().PairCount()/2))
		row("Promoted", fmt.Sprintf("%d", m.promoted))
		row("Speed", fmt.Sprintf("%dx", m.TicksPerFrame))
	}
	if m.err != nil {
		s.WriteString(fg(CurrentTheme.Bad).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\nSHELLS\n")
	s.WriteString(occupancyView(m.last))

	if len(m.deviation) > 1 {
		chart := asciigraph.Plot(m.deviation, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean |shell deviation|"))
		s.WriteString("\n" + fg(CurrentTheme.Secondary).Render(chart) + "\n")
	}
	if len(m.energy) > 1 {
		s.WriteString("\n" + labelStyle.Render("KE") + SparklineChart(m.energy, 30) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause S:Step R:Reset Q:Quit\n3:3D T:Theme [ ]:Speed ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpView() + "\n\n" + mainView
	}
	return mainView
}

// occupancyView draws one bar per shell of every nucleus from the last
// classification pass.
func occupancyView(r physics.TickReport) string {
	if len(r.Shells) == 0 {
		return labelStyle.Render("  (no data)") + "\n"
	}
	var b strings.Builder
	for _, sr := range r.Shells {
		b.WriteString(fmt.Sprintf("nucleus %d\n", sr.Nucleus))
		for n := 1; n <= sr.MaxShell; n++ {
			occ, capacity := sr.Occupancy[n], physics.ShellCapacity(n)
			b.WriteString(fmt.Sprintf("  n=%d %s %2d/%-2d unpaired %d\n",
				n, ProgressBar(float64(occ)/float64(capacity), 12), occ, capacity, sr.Unpaired[n]))
		}
	}
	return b.String()
}

func helpView() string {
	return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Single tick when paused  ║
║  R        - Rebuild the scenario     ║
║  [ / ]    - Halve/double speed       ║
║  3        - Toggle 3D view           ║
║  x y z    - Rotate camera (shift -)  ║
║  + / -    - Zoom                     ║
║  O / L    - Toggle rings/pair links  ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
}

// RunLive starts the live view full screen and blocks until it exits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
