package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}
	if !c.IsSet(0, 0) {
		t.Error("IsSet(0,0) should be true")
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != brailleBlank {
		t.Errorf("expected blank cell, got %U", c.Grid[0][0])
	}

	// out of range is ignored
	c.Set(-1, 3)
	c.Set(100, 100)
	if c.IsSet(100, 100) {
		t.Error("out-of-range dot reported set")
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 10)

	c.DrawLine(0, 0, 5, 0)
	for x := 0; x <= 5; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("line dot %d not set", x)
		}
	}

	c.Clear()
	c.DrawRing(20, 20, 4, 1)
	for _, p := range [][2]int{{24, 20}, {16, 20}, {20, 24}, {20, 16}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("ring dot %v not set", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("ring centre should be empty")
	}

	c.Clear()
	c.FillDisc(10, 10, 2)
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) {
		t.Error("disc should cover centre and radius")
	}
	if c.IsSet(13, 10) {
		t.Error("disc leaked past radius")
	}
}

func TestSceneProject(t *testing.T) {
	tests := []struct {
		name         string
		w, h         float64
		p            vecmath.Vec
		wantX, wantY int
	}{
		{"square centre", 100, 100, vecmath.Vec{X: 50, Y: 50}, 10, 10},
		{"wide origin", 200, 100, vecmath.Vec{}, 0, 5},
		{"wide corner", 200, 100, vecmath.Vec{X: 200, Y: 100}, 20, 15},
	}

	c := NewCanvas(10, 5) // 20x20 dots
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := NewScene(tt.w, tt.h, 16).Project(c, tt.p)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func testWorld(t *testing.T) *physics.World {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddAtom(vecmath.Vec{X: 160, Y: 100}, 3, 0, vecmath.Vec{}); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestSceneDraw(t *testing.T) {
	w := testWorld(t)
	s := NewScene(320, 200, w.Params().ShellInterval)
	c := NewCanvas(80, 24)
	s.Draw(c, w.Bodies())

	x, y := s.Project(c, vecmath.Vec{X: 160, Y: 100})
	if !c.IsSet(x, y) {
		t.Error("nucleus not drawn")
	}
	for _, id := range w.Electrons() {
		ex, ey := s.Project(c, w.Particle(id).Pos)
		if !c.IsSet(ex, ey) {
			t.Errorf("electron %d not drawn", id)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera()
	cam.RotX = 0

	x, y, _, ok := cam.Project(r3.Vec{}, 100, 60)
	if !ok || x != 50 || y != 30 {
		t.Errorf("origin projected to (%d,%d,%v)", x, y, ok)
	}

	if _, _, _, ok := cam.Project(r3.Vec{Z: 60}, 100, 60); ok {
		t.Error("point behind the camera should be invisible")
	}

	// Rotating a quarter turn about Y moves +X onto -Z.
	cam.RotateY(1.5707963267948966)
	p := cam.RotatePoint(r3.Vec{X: 1})
	if p.X > 1e-9 || p.Z > -0.999 {
		t.Errorf("unexpected rotation result %+v", p)
	}
}

func TestAtomWireframe(t *testing.T) {
	w := testWorld(t)
	s := NewScene(320, 200, w.Params().ShellInterval)
	wf := AtomWireframe(s, w.Bodies())

	// two shells of ring segments plus one point per particle
	want := 2*ringSegments + w.Len()
	if len(wf.Edges) != want {
		t.Errorf("expected %d edges, got %d", want, len(wf.Edges))
	}

	c := NewCanvas(80, 24)
	Render3D(c, wf, NewCamera())
	if !strings.ContainsFunc(c.String(), func(r rune) bool { return r > brailleBlank }) {
		t.Error("3D render drew nothing")
	}
}

func TestProgressBarAndSparkline(t *testing.T) {
	if n := strings.Count(ProgressBar(0.5, 10), "█"); n != 5 {
		t.Errorf("expected 5 filled cells, got %d", n)
	}
	if n := strings.Count(ProgressBar(2, 10), "█"); n != 10 {
		t.Errorf("over-full bar should be clamped, got %d", n)
	}
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline = %q", got)
	}
	line := SparklineChart([]float64{0, 1}, 5)
	if !strings.ContainsRune(line, '▁') || !strings.ContainsRune(line, '█') {
		t.Errorf("sparkline missing extremes: %q", line)
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	SetTheme("plasma")
	NextTheme()
	if CurrentTheme.Name != "phosphor" {
		t.Errorf("expected phosphor, got %s", CurrentTheme.Name)
	}
	SetTheme(Themes[len(Themes)-1].Name)
	NextTheme()
	if CurrentTheme.Name != Themes[0].Name {
		t.Errorf("theme should wrap around, got %s", CurrentTheme.Name)
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelUpdate(t *testing.T) {
	builds := 0
	m, err := NewModel("lithium", NewScene(320, 200, 16), func() (*physics.World, error) {
		builds++
		return testWorld(t), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	m = update(t, m, TickMsg(time.Now()))
	if got := m.World().TickCount(); got != 1 {
		t.Fatalf("expected 1 tick, got %d", got)
	}

	m = update(t, m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg(time.Now()))
	if got := m.World().TickCount(); got != 1 {
		t.Errorf("paused model advanced to %d", got)
	}
	m = update(t, m, key("s"))
	if got := m.World().TickCount(); got != 2 {
		t.Errorf("step should advance once, got %d", got)
	}

	m = update(t, m, key("]"))
	if m.TicksPerFrame != 2 {
		t.Errorf("expected speed 2, got %d", m.TicksPerFrame)
	}

	m = update(t, m, key("r"))
	if m.World().TickCount() != 0 || builds != 2 {
		t.Errorf("reset should rebuild, tick=%d builds=%d", m.World().TickCount(), builds)
	}

	view := m.View()
	if !strings.Contains(view, "LITHIUM") || !strings.Contains(view, "SHELLS") {
		t.Error("view missing header or shell panel")
	}

	m = update(t, m, key("3"))
	if view3D := m.View(); view3D == "" {
		t.Error("3D view rendered empty")
	}
}

func TestNewModelBuildError(t *testing.T) {
	want := errors.New("boom")
	if _, err := NewModel("x", Scene{}, func() (*physics.World, error) { return nil, want }); !errors.Is(err, want) {
		t.Errorf("expected build error, got %v", err)
	}
}

func TestMenuLaunch(t *testing.T) {
	var launched string
	launch := func(name string) (Model, error) {
		launched = name
		return NewModel(name, NewScene(320, 200, 16), func() (*physics.World, error) { return testWorld(t), nil })
	}

	var m tea.Model = NewMenu([]string{"hydrogen", "lithium"}, nil, launch)
	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if launched != "lithium" {
		t.Fatalf("expected lithium launched, got %q", launched)
	}
	if cmd == nil {
		t.Error("launch should start the tick loop")
	}
	if !strings.Contains(m.View(), "LITHIUM") {
		t.Error("menu should show the live view after launch")
	}
}
