package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
	"github.com/san-kum/atomsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dw, dh := canvas.Dots()
	var sb strings.Builder
	header(&sb, float64(dw)*scale, float64(dh)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameOptions controls FrameToSVG. Width and Height are the world extent;
// Scale is output pixels per world unit.
type FrameOptions struct {
	Width, Height float64
	ShellInterval float64
	Scale         float64
}

// FrameToSVG draws one recorded frame: dashed shell rings around every
// nucleus, a line per electron pair, then the particles themselves.
// Nuclei are sized by their light intensity.
func FrameToSVG(f dynamo.Frame, opt FrameOptions) string {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	k := opt.Scale

	var sb strings.Builder
	header(&sb, opt.Width*k, opt.Height*k)
	sb.WriteString(fmt.Sprintf("<!-- tick %d -->\n", f.Tick))

	byID := make(map[physics.ID]physics.Body, len(f.Bodies))
	for _, b := range f.Bodies {
		byID[b.ID] = b
	}

	sb.WriteString("<g fill=\"none\" stroke=\"#444466\" stroke-dasharray=\"2,3\">\n")
	for _, b := range f.Bodies {
		if b.Kind != physics.KindNucleus || opt.ShellInterval <= 0 {
			continue
		}
		for n := 1; n <= b.MaxShell; n++ {
			sb.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n",
				b.Pos.X*k, b.Pos.Y*k, float64(n)*opt.ShellInterval*k))
		}
	}
	sb.WriteString("</g>\n")

	sb.WriteString("<g stroke=\"#ff00ff\" stroke-width=\"1\">\n")
	for _, b := range f.Bodies {
		o, ok := byID[b.Pair]
		if b.Pair == physics.NoParticle || !ok || b.Pair < b.ID {
			continue
		}
		sb.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n",
			b.Pos.X*k, b.Pos.Y*k, o.Pos.X*k, o.Pos.Y*k))
	}
	sb.WriteString("</g>\n")

	for _, b := range f.Bodies {
		fill, r := "#00ffff", 1.5
		if b.Kind == physics.KindNucleus {
			fill, r = "#ffcc00", 2*b.Light
		}
		sb.WriteString(fmt.Sprintf("<circle id=\"p%d\" cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n",
			b.ID, b.Pos.X*k, b.Pos.Y*k, r*k, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Trajectory returns the positions of one particle across frames, skipping
// frames it is missing from.
func Trajectory(frames []dynamo.Frame, id physics.ID) []vecmath.Vec {
	points := make([]vecmath.Vec, 0, len(frames))
	for _, f := range frames {
		for _, b := range f.Bodies {
			if b.ID == id {
				points = append(points, b.Pos)
				break
			}
		}
	}
	return points
}

// TrajectoryToSVG draws a path fitted to the bounds of points with 10%
// padding. Y grows downwards as in the world.
func TrajectoryToSVG(points []vecmath.Vec, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
