package analysis

import (
	"strings"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

func find(bodies []physics.Body, id physics.ID) (physics.Body, bool) {
	if int(id) < len(bodies) && bodies[id].ID == id {
		return bodies[id], true
	}
	for _, b := range bodies {
		if b.ID == id {
			return b, true
		}
	}
	return physics.Body{}, false
}

// RadialSeries returns |electron - nucleus| for every frame holding both.
func RadialSeries(frames []dynamo.Frame, electron, nucleus physics.ID) []float64 {
	series := make([]float64, 0, len(frames))
	for _, f := range frames {
		e, ok1 := find(f.Bodies, electron)
		n, ok2 := find(f.Bodies, nucleus)
		if !ok1 || !ok2 {
			continue
		}
		series = append(series, vecmath.Distance(e.Pos, n.Pos))
	}
	return series
}

// ShellSeries returns the electron's recorded shell number per frame.
func ShellSeries(frames []dynamo.Frame, electron physics.ID) []float64 {
	series := make([]float64, 0, len(frames))
	for _, f := range frames {
		if e, ok := find(f.Bodies, electron); ok {
			series = append(series, float64(e.Shell))
		}
	}
	return series
}

// Point is one sample of a portrait.
type Point struct{ X, Y float64 }

// PhasePortrait pairs each radius with its change since the previous
// frame.
func PhasePortrait(radial []float64) []Point {
	if len(radial) < 2 {
		return nil
	}
	points := make([]Point, 0, len(radial)-1)
	for i := 1; i < len(radial); i++ {
		points = append(points, Point{X: radial[i], Y: radial[i] - radial[i-1]})
	}
	return points
}

// PortraitToASCII plots points on a width x height character grid.
func PortraitToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 1 || height <= 1 {
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
	maxY += rangeY * 0.1
	rangeX *= 1.2
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// zero radial speed
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
