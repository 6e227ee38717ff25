package export

import (
	"strings"
	"testing"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
	"github.com/san-kum/atomsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}
}

func frame() dynamo.Frame {
	return dynamo.Frame{
		Tick: 7,
		Bodies: []physics.Body{
			{ID: 0, Kind: physics.KindNucleus, Pos: vecmath.Vec{X: 50, Y: 50}, Charge: 3, Light: 1.7, MaxShell: 2, Nucleus: physics.NoParticle, Pair: physics.NoParticle},
			{ID: 1, Kind: physics.KindElectron, Pos: vecmath.Vec{X: 66, Y: 50}, Charge: -1, Light: 1, Nucleus: 0, Shell: 1, Pair: 2},
			{ID: 2, Kind: physics.KindElectron, Pos: vecmath.Vec{X: 34, Y: 50}, Charge: -1, Light: 1, Nucleus: 0, Shell: 1, Pair: 1},
			{ID: 3, Kind: physics.KindElectron, Pos: vecmath.Vec{X: 50, Y: 82}, Charge: -1, Light: 1, Nucleus: 0, Shell: 2, Pair: physics.NoParticle},
		},
	}
}

func TestFrameToSVG(t *testing.T) {
	svg := FrameToSVG(frame(), FrameOptions{Width: 100, Height: 100, ShellInterval: 16, Scale: 2})

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("output is not a complete svg document")
	}
	if !strings.Contains(svg, "<!-- tick 7 -->") {
		t.Error("missing tick marker")
	}
	// two rings plus four particles
	if n := strings.Count(svg, "<circle"); n != 6 {
		t.Errorf("expected 6 circles, got %d", n)
	}
	// one line for the pair, drawn once
	if n := strings.Count(svg, "<line"); n != 1 {
		t.Errorf("expected 1 pair line, got %d", n)
	}
	if !strings.Contains(svg, `r="64.00"`) {
		t.Error("outer ring should have radius 2*16*2")
	}
}

func TestTrajectory(t *testing.T) {
	frames := []dynamo.Frame{frame(), frame()}
	frames[1].Bodies = frames[1].Bodies[:1]

	pts := Trajectory(frames, 3)
	if len(pts) != 1 || pts[0] != (vecmath.Vec{X: 50, Y: 82}) {
		t.Errorf("unexpected trajectory %v", pts)
	}

	if TrajectoryToSVG(pts, 100, 100, "#fff") != "" {
		t.Error("a single point should not produce a path")
	}
	svg := TrajectoryToSVG([]vecmath.Vec{{X: 0, Y: 0}, {X: 10, Y: 10}}, 120, 120, "#fff")
	if !strings.Contains(svg, "M10.0,10.0 L110.0,110.0") {
		t.Errorf("unexpected path in %q", svg)
	}
}
