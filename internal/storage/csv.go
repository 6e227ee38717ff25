package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

var csvHeader = []string{"tick", "id", "kind", "charge", "x", "y", "vx", "vy", "nucleus", "shell", "pair"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteFramesCSV writes one row per body per frame.
func WriteFramesCSV(out io.Writer, frames []dynamo.Frame) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, f := range frames {
		tick := strconv.Itoa(f.Tick)
		for _, b := range f.Bodies {
			row := []string{
				tick,
				strconv.Itoa(int(b.ID)),
				b.Kind.String(),
				formatFloat(b.Charge),
				formatFloat(b.Pos.X),
				formatFloat(b.Pos.Y),
				formatFloat(b.Vel.X),
				formatFloat(b.Vel.Y),
				strconv.Itoa(int(b.Nucleus)),
				strconv.Itoa(b.Shell),
				strconv.Itoa(int(b.Pair)),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ReadFramesCSV parses what WriteFramesCSV produced. Rows of the same tick
// are grouped into one frame.
func ReadFramesCSV(in io.Reader) ([]dynamo.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	frames := make([]dynamo.Frame, 0)
	for i, record := range records[1:] {
		b, tick, err := parseBody(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, dynamo.Frame{Tick: tick})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, b)
	}
	return frames, nil
}

func parseBody(record []string) (physics.Body, int, error) {
	var (
		ints   [5]int
		floats [5]float64
		err    error
	)
	for i, col := range []int{0, 1, 8, 9, 10} {
		if ints[i], err = strconv.Atoi(record[col]); err != nil {
			return physics.Body{}, 0, err
		}
	}
	for i, col := range []int{3, 4, 5, 6, 7} {
		if floats[i], err = strconv.ParseFloat(record[col], 64); err != nil {
			return physics.Body{}, 0, err
		}
	}

	kind := physics.KindElectron
	switch record[2] {
	case physics.KindNucleus.String():
		kind = physics.KindNucleus
	case physics.KindElectron.String():
	default:
		return physics.Body{}, 0, fmt.Errorf("unknown kind %q", record[2])
	}

	b := physics.Body{
		ID:      physics.ID(ints[1]),
		Kind:    kind,
		Charge:  floats[0],
		Pos:     vecmath.Vec{X: floats[1], Y: floats[2]},
		Vel:     vecmath.Vec{X: floats[3], Y: floats[4]},
		Light:   math.Sqrt(math.Abs(floats[0])),
		Nucleus: physics.ID(ints[2]),
		Shell:   ints[3],
		Pair:    physics.ID(ints[4]),
	}
	if kind == physics.KindNucleus {
		b.MaxShell = physics.MaxShell(b.Charge)
	}
	return b, ints[0], nil
}
