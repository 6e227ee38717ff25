package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position         r3.Vec
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Position: r3.Vec{Z: 50}, Near: 0.1, Zoom: 1.0, RotX: -0.6}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies the X, Y then Z rotations.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	sx, cx := math.Sincos(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	sy, cy := math.Sincos(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	sz, cz := math.Sincos(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts a point in the unit view volume to screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom, c.RotatePoint(p))
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Edge is a segment, or a point when Start == End. Weight is the disc
// radius in dots for points; edges ignore it.
type Edge struct {
	Start, End r3.Vec
	Weight     float64
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{Start: s, End: e}) }
func (w *Wireframe) Clear()              { w.Edges = w.Edges[:0] }

func (w *Wireframe) AddPoint(p r3.Vec, weight float64) {
	w.Edges = append(w.Edges, Edge{Start: p, End: p, Weight: weight})
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	weight         float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Weight})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			if e.weight > 0 {
				c.FillDisc(e.x1, e.y1, e.weight)
			} else {
				c.Set(e.x1, e.y1)
			}
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

const ringSegments = 32

// AtomWireframe lays the simulation plane into the unit view volume,
// centred on the scene. Each electron is raised off the plane by its shell
// number so the shell structure separates when the camera tilts.
func AtomWireframe(s Scene, bodies []physics.Body) *Wireframe {
	w := NewWireframe()
	half := math.Max(s.Width, s.Height) / 2
	if half <= 0 {
		half = 1
	}
	centre := vecmath.Vec{X: s.Width / 2, Y: s.Height / 2}
	lift := func(p vecmath.Vec, z float64) r3.Vec {
		return r3.Scale(1/half, vecmath.Lift(vecmath.Sub(p, centre), z))
	}
	layer := s.ShellInterval / 4

	for _, b := range bodies {
		if b.Kind != physics.KindNucleus || s.ShellInterval <= 0 {
			continue
		}
		for n := 1; n <= b.MaxShell; n++ {
			r := float64(n) * s.ShellInterval
			prev := lift(vecmath.Polar(b.Pos, r, 0), float64(n)*layer)
			for i := 1; i <= ringSegments; i++ {
				next := lift(vecmath.Polar(b.Pos, r, 2*math.Pi*float64(i)/ringSegments), float64(n)*layer)
				w.AddEdge(prev, next)
				prev = next
			}
		}
	}

	for _, b := range bodies {
		z := float64(b.Shell) * layer
		if b.Kind == physics.KindNucleus {
			w.AddPoint(lift(b.Pos, 0), math.Max(1, b.Light))
			continue
		}
		w.AddPoint(lift(b.Pos, z), 0)
		if b.Pair != physics.NoParticle && b.Pair > b.ID && int(b.Pair) < len(bodies) {
			o := bodies[b.Pair]
			w.AddEdge(lift(b.Pos, z), lift(o.Pos, float64(o.Shell)*layer))
		}
	}
	return w
}

// AxesWireframe returns the three unit axes, useful as an orientation cue.
func AxesWireframe(l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(r3.Vec{}, r3.Vec{X: l})
	w.AddEdge(r3.Vec{}, r3.Vec{Y: l})
	w.AddEdge(r3.Vec{}, r3.Vec{Z: l})
	return w
}
