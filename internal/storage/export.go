package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
)

type ExportBody struct {
	ID      int     `json:"id"`
	Kind    string  `json:"kind"`
	Charge  float64 `json:"charge"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Light   float64 `json:"light"`
	Nucleus int     `json:"nucleus"`
	Shell   int     `json:"shell"`
	Pair    int     `json:"pair"`
}

type ExportFrame struct {
	Tick      int           `json:"tick"`
	Bodies    []ExportBody  `json:"bodies"`
	Occupancy []map[int]int `json:"occupancy,omitempty"`
	Promoted  int           `json:"promoted"`
	Overflow  bool          `json:"overflow"`
}

type ExportData struct {
	Scenario string             `json:"scenario"`
	Seed     int64              `json:"seed"`
	Ticks    int                `json:"ticks"`
	Steps    int                `json:"steps"`
	Params   physics.Params     `json:"params"`
	Frames   []ExportFrame      `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, result *dynamo.Result) ExportData {
	data := ExportData{
		Scenario: info.Scenario,
		Seed:     info.Seed,
		Ticks:    info.Ticks,
		Steps:    result.StepsTaken,
		Params:   info.Params,
		Frames:   make([]ExportFrame, len(result.Frames)),
		Metrics:  result.Metrics,
	}

	for i, f := range result.Frames {
		ef := ExportFrame{
			Tick:     f.Tick,
			Bodies:   make([]ExportBody, len(f.Bodies)),
			Promoted: f.Report.Promoted(),
			Overflow: f.Report.Overflowed(),
		}
		for j, b := range f.Bodies {
			ef.Bodies[j] = ExportBody{
				ID:      int(b.ID),
				Kind:    b.Kind.String(),
				Charge:  b.Charge,
				X:       b.Pos.X,
				Y:       b.Pos.Y,
				VX:      b.Vel.X,
				VY:      b.Vel.Y,
				Light:   b.Light,
				Nucleus: int(b.Nucleus),
				Shell:   b.Shell,
				Pair:    int(b.Pair),
			}
		}
		for _, s := range f.Report.Shells {
			ef.Occupancy = append(ef.Occupancy, s.Occupancy)
		}
		data.Frames[i] = ef
	}
	return data
}

// WriteJSON encodes a full run as indented JSON.
func WriteJSON(out io.Writer, info RunInfo, result *dynamo.Result) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}

func ExportJSON(path string, info RunInfo, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func ExportCSV(path string, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteFramesCSV(file, result.Frames)
}
