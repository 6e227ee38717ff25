package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/experiment"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	log      zerolog.Logger

	// scenario overrides
	configFile  string
	ticks       int
	sampleEvery int
	seed        int64
	overrides   map[string]string

	noSave    bool
	speed     int
	outFile   string
	frameIdx  int
	scale     float64
	electron  int
	nucleus   int
	runs      int
	parallel  int
	sweepKey  string
	sweepMin  float64
	sweepMax  float64
	sweepN    int
	transient int
	record    int
	writeTo   string
)

var presetInfo = map[string]string{
	"hydrogen":  "one proton, one electron",
	"helium":    "closed first shell",
	"carbon":    "2 + 4, pairing in shell 2",
	"sodium":    "three shells, lone outer electron",
	"water":     "oxygen with two hydrogens",
	"collision": "two lithium atoms head on",
	"overflow":  "seven electrons dropped on a bare nucleus",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "atomsim",
		Short: "electron shell particle simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log = log.Level(zerolog.Disabled)
			return viz.RunMenu(config.ListPresets(), presetInfo, func(name string) (viz.Model, error) {
				return liveModel(config.GetPreset(name), 1)
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".atomsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&speed, "speed", 1, "ticks per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and an electron's radius",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&electron, "electron", -1, "electron id (default: first electron)")
	plotCmd.Flags().IntVar(&nucleus, "nucleus", 0, "nucleus id")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded frames as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "shell occupancy and radial frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&electron, "electron", -1, "electron id (default: first electron)")
	analyzeCmd.Flags().IntVar(&nucleus, "nucleus", 0, "nucleus id")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVar(&writeTo, "write", "", "write the preset to this yaml file")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure tick throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	scenarioFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run a scenario over consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	scenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent runs")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a recorded frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index, negative counts from the end")
	svgCmd.Flags().Float64Var(&scale, "scale", 3, "pixels per world unit")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one physics parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepKey, "param", "shell_force_constant", "physics parameter")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 200, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&transient, "transient", 100, "ticks before recording")
	sweepCmd.Flags().IntVar(&record, "record", 200, "ticks recorded")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, presetsCmd, benchCmd, ensembleCmd, svgCmd, batchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record a frame every n ticks")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "jitter seed")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "physics override, e.g. --set jitter=0")
}

// loadScenario resolves the scenario from --config, a preset name or the
// default, then applies flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) > 0:
		if cfg = config.GetPreset(args[0]); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
		cfg.Name = "default"
	}

	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := strconv.ParseFloat(overrides[k], 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", k, err)
		}
		if err := cfg.Physics.Set(k, v); err != nil {
			return nil, fmt.Errorf("%w (known: %v)", err, config.PhysicsKeys)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func liveModel(cfg *config.Config, ticksPerFrame int) (viz.Model, error) {
	build := func() (*physics.World, error) {
		return experiment.BuildWorld(cfg, cfg.Seed, log)
	}
	m, err := viz.NewModel(cfg.Name, viz.NewScene(cfg.Width, cfg.Height, cfg.Physics.ShellInterval), build)
	if err != nil {
		return m, err
	}
	m.TicksPerFrame = max(ticksPerFrame, 1)
	return m, nil
}
