package viz

import (
	"math"

	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// Scene maps world coordinates onto a canvas. The world rectangle
// [0,Width]x[0,Height] is fitted into the canvas keeping its aspect ratio.
type Scene struct {
	Width, Height float64
	ShellInterval float64

	Rings bool
	Links bool
}

func NewScene(width, height, shellInterval float64) Scene {
	return Scene{Width: width, Height: height, ShellInterval: shellInterval, Rings: true, Links: true}
}

// scale returns dots per world unit and the offset that centres the world.
func (s Scene) scale(c *Canvas) (float64, float64, float64) {
	cw, ch := c.Dots()
	if s.Width <= 0 || s.Height <= 0 {
		return 1, 0, 0
	}
	k := math.Min(float64(cw)/s.Width, float64(ch)/s.Height)
	ox := (float64(cw) - s.Width*k) / 2
	oy := (float64(ch) - s.Height*k) / 2
	return k, ox, oy
}

// Project converts a world position to dot coordinates.
func (s Scene) Project(c *Canvas, p vecmath.Vec) (int, int) {
	k, ox, oy := s.scale(c)
	return int(math.Round(ox + p.X*k)), int(math.Round(oy + p.Y*k))
}

// Draw renders shell rings, pair links and particles. Particles are drawn
// last so they stay visible over rings; their radius grows with Light.
func (s Scene) Draw(c *Canvas, bodies []physics.Body) {
	k, _, _ := s.scale(c)

	if s.Rings && s.ShellInterval > 0 {
		for _, b := range bodies {
			if b.Kind != physics.KindNucleus {
				continue
			}
			x, y := s.Project(c, b.Pos)
			for n := 1; n <= b.MaxShell; n++ {
				c.DrawRing(x, y, float64(n)*s.ShellInterval*k, 3)
			}
		}
	}

	if s.Links {
		for _, b := range bodies {
			if b.Pair == physics.NoParticle || b.Pair < b.ID || int(b.Pair) >= len(bodies) {
				continue
			}
			x0, y0 := s.Project(c, b.Pos)
			x1, y1 := s.Project(c, bodies[b.Pair].Pos)
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	for _, b := range bodies {
		x, y := s.Project(c, b.Pos)
		if b.Kind == physics.KindNucleus {
			c.FillDisc(x, y, math.Max(1, b.Light*k*0.5))
		} else {
			c.Set(x, y)
		}
	}
}
