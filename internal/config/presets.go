package config

import "sort"

func atomScene(name string, ticks int, atoms ...AtomConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Ticks = ticks
	cfg.Atoms = atoms
	return cfg
}

var Presets = map[string]*Config{
	"hydrogen": atomScene("hydrogen", 300,
		AtomConfig{X: 160, Y: 100, Protons: 1},
	),
	"helium": atomScene("helium", 300,
		AtomConfig{X: 160, Y: 100, Protons: 2},
	),
	"carbon": atomScene("carbon", 500,
		AtomConfig{X: 160, Y: 100, Protons: 6, Angle: 0.3},
	),
	"sodium": atomScene("sodium", 800,
		AtomConfig{X: 160, Y: 100, Protons: 11},
	),
	"water": atomScene("water", 1000,
		AtomConfig{X: 160, Y: 100, Protons: 8},
		AtomConfig{X: 110, Y: 140, Protons: 1, VX: 0.05},
		AtomConfig{X: 210, Y: 140, Protons: 1, VX: -0.05},
	),
	"collision": atomScene("collision", 1200,
		AtomConfig{X: 60, Y: 100, Protons: 3, VX: 0.2},
		AtomConfig{X: 260, Y: 100, Protons: 3, Angle: 0.5, VX: -0.2},
	),
	"overflow": func() *Config {
		cfg := atomScene("overflow", 200,
			AtomConfig{X: 160, Y: 100, Protons: 6, Bare: true},
		)
		for i := 0; i < 7; i++ {
			cfg.Electrons = append(cfg.Electrons, BodyConfig{
				X: 160 + 3 + float64(i),
				Y: 100 + float64(i%3) - 1,
			})
		}
		return cfg
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
