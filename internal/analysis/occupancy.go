package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/physics"
)

// ShellStats summarises one shell's population over a run.
type ShellStats struct {
	Shell    int
	Capacity int
	Mean     float64
	StdDev   float64
	Max      int
}

// OccupancyStats collects per-shell population statistics for nucleus
// from the tick reports carried by frames. Frames without a report for the
// nucleus are skipped; a shell absent from a report counts as empty.
func OccupancyStats(frames []dynamo.Frame, nucleus physics.ID) []ShellStats {
	var reports []physics.ShellReport
	shells := map[int]bool{}
	for _, f := range frames {
		for _, s := range f.Report.Shells {
			if s.Nucleus != nucleus {
				continue
			}
			reports = append(reports, s)
			for shell := range s.Occupancy {
				shells[shell] = true
			}
		}
	}
	if len(reports) == 0 {
		return nil
	}

	keys := make([]int, 0, len(shells))
	for shell := range shells {
		keys = append(keys, shell)
	}
	sort.Ints(keys)

	out := make([]ShellStats, 0, len(keys))
	for _, shell := range keys {
		counts := make([]float64, len(reports))
		st := ShellStats{Shell: shell, Capacity: physics.ShellCapacity(shell)}
		for i, r := range reports {
			c := r.Occupancy[shell]
			counts[i] = float64(c)
			st.Max = max(st.Max, c)
		}
		st.Mean, st.StdDev = stat.MeanStdDev(counts, nil)
		if len(counts) < 2 {
			st.StdDev = 0
		}
		out = append(out, st)
	}
	return out
}

// RebuildReports fills in the occupancy of frames that carry no tick
// report, such as frames read back from storage, by counting each
// electron's recorded nucleus and shell. Only Nucleus, MaxShell and
// Occupancy are restored.
func RebuildReports(frames []dynamo.Frame) []dynamo.Frame {
	out := make([]dynamo.Frame, len(frames))
	for i, f := range frames {
		out[i] = f
		if len(f.Report.Shells) > 0 {
			continue
		}

		index := map[physics.ID]int{}
		var shells []physics.ShellReport
		for _, b := range f.Bodies {
			if b.Kind != physics.KindNucleus {
				continue
			}
			index[b.ID] = len(shells)
			shells = append(shells, physics.ShellReport{
				Nucleus:   b.ID,
				MaxShell:  b.MaxShell,
				Occupancy: map[int]int{},
			})
		}
		for _, b := range f.Bodies {
			j, ok := index[b.Nucleus]
			if b.Kind != physics.KindElectron || !ok || b.Shell < 1 {
				continue
			}
			shells[j].Occupancy[b.Shell]++
		}
		out[i].Report = physics.TickReport{Tick: f.Tick, Shells: shells}
	}
	return out
}
