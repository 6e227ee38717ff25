package physics

// ShellReport summarises one classification pass for one nucleus.
type ShellReport struct {
	Nucleus  ID
	MaxShell int

	// Occupancy and Unpaired are indexed by shell number after the pass.
	Occupancy map[int]int
	Unpaired  map[int]int

	// Deviations holds distFromShell for every classified electron.
	Deviations []float64

	Promoted    int
	Evicted     int
	PairsFormed int
	PairsBroken int
	Reshelled   int

	// Overflow is set when some shell still holds more than its capacity,
	// which can only happen in the tick it received promoted electrons.
	Overflow bool
}

// Classified returns the number of electrons held by the nucleus.
func (r ShellReport) Classified() int {
	n := 0
	for _, c := range r.Occupancy {
		n += c
	}
	return n
}

// TickReport collects the shell reports of every nucleus for one tick.
type TickReport struct {
	Tick   int
	Shells []ShellReport
}

func (t TickReport) Promoted() int {
	n := 0
	for _, s := range t.Shells {
		n += s.Promoted
	}
	return n
}

func (t TickReport) Overflowed() bool {
	for _, s := range t.Shells {
		if s.Overflow {
			return true
		}
	}
	return false
}
