package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/atomsim/internal/analysis"
	"github.com/san-kum/atomsim/internal/automation"
	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/experiment"
	"github.com/san-kum/atomsim/internal/export"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/storage"
	"github.com/san-kum/atomsim/internal/vecmath"
	"github.com/san-kum/atomsim/internal/viz"
)

func runInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Scenario:    cfg.Name,
		Seed:        cfg.Seed,
		Ticks:       cfg.Ticks,
		SampleEvery: cfg.SampleEvery,
		Params:      cfg.Params(),
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// output returns the --out file, or stdout when none was given.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, log)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("running %s for %d ticks...\n", cfg.Name, cfg.Ticks)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, serr := st.Save(runInfo(cfg), result)
		if serr != nil {
			return serr
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	if final, ok := result.Final(); ok {
		fmt.Println()
		printOccupancy(os.Stdout, final.Report)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return err
}

func printOccupancy(w io.Writer, r physics.TickReport) {
	for _, s := range r.Shells {
		fmt.Fprintf(w, "nucleus %d:", s.Nucleus)
		for n := 1; n <= s.MaxShell; n++ {
			fmt.Fprintf(w, "  n%d %d/%d", n, s.Occupancy[n], physics.ShellCapacity(n))
		}
		fmt.Fprintln(w)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	// the alt screen owns the terminal
	log = log.Level(zerolog.Disabled)

	m, err := liveModel(cfg, speed)
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tTICKS\tPARTICLES\tFRAMES\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Particles,
			run.Frames,
			run.Seed,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, analysis.RebuildReports(frames), nil
}

// pickElectron returns --electron, or the first electron of the frame.
func pickElectron(f dynamo.Frame) (physics.ID, error) {
	if electron >= 0 {
		return physics.ID(electron), nil
	}
	for _, b := range f.Bodies {
		if b.Kind == physics.KindElectron {
			return b.ID, nil
		}
	}
	return physics.NoParticle, fmt.Errorf("no electrons in run")
}

func kineticSeries(frames []dynamo.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		for _, b := range f.Bodies {
			out[i] += 0.5 * vecmath.Dot(b.Vel, b.Vel)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	eid, err := pickElectron(frames[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	fmt.Println(asciigraph.Plot(kineticSeries(frames),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()

	radial := analysis.RadialSeries(frames, eid, physics.ID(nucleus))
	if len(radial) > 1 {
		fmt.Println(asciigraph.PlotMany([][]float64{radial, scaleSeries(analysis.ShellSeries(frames, eid), meta.Params.ShellInterval)},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption(fmt.Sprintf("electron %d: radius (cyan) and shell radius (yellow)", eid)),
		))
	}
	return nil
}

func scaleSeries(xs []float64, k float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * k
	}
	return out
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, err := output()
	if err != nil {
		return err
	}
	defer out.Close()
	return storage.WriteFramesCSV(out, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, err := output()
	if err != nil {
		return err
	}
	defer out.Close()

	info := storage.RunInfo{
		Scenario:    meta.Scenario,
		Seed:        meta.Seed,
		Ticks:       meta.Ticks,
		SampleEvery: meta.SampleEvery,
		Params:      meta.Params,
	}
	return storage.WriteJSON(out, info, &dynamo.Result{Frames: frames, Metrics: meta.Metrics, StepsTaken: meta.Steps})
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	eid, err := pickElectron(frames[0])
	if err != nil {
		return err
	}

	fmt.Printf("shell analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHELL\tCAPACITY\tMEAN\tSTDDEV\tMAX")
	for _, s := range analysis.OccupancyStats(frames, physics.ID(nucleus)) {
		fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\t%d\n", s.Shell, s.Capacity, s.Mean, s.StdDev, s.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	radial := analysis.RadialSeries(frames, eid, physics.ID(nucleus))
	if len(radial) < 4 {
		return fmt.Errorf("not enough samples for electron %d", eid)
	}

	mean, std := stat.MeanStdDev(radial, nil)
	fmt.Printf("electron %d radius: mean %.3f, stddev %.3f\n", eid, mean, std)

	ps := analysis.PowerSpectrum(radial)
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("radial power spectrum"),
	))

	sampleTicks := float64(max(meta.SampleEvery, 1))
	freq, power := analysis.DominantFrequency(radial)
	fmt.Printf("dominant frequency: %.4f cycles/tick (power %.3f)\n", freq/sampleTicks, power)
	if freq > 0 {
		fmt.Printf("period: %.1f ticks\n", sampleTicks/freq)
	}

	fmt.Println("\nradial phase portrait (r, dr):")
	fmt.Println(analysis.PortraitToASCII(analysis.PhasePortrait(radial), 70, 20))
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRESET\tTICKS\tATOMS\tDESCRIPTION")
		for _, name := range config.ListPresets() {
			cfg := config.GetPreset(name)
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, cfg.Ticks, len(cfg.Atoms), presetInfo[name])
		}
		return w.Flush()
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if writeTo != "" {
		if err := config.Save(writeTo, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", writeTo)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COPIES\tPARTICLES\tTICKS\tTIME\tTICKS/SEC")

	for _, copies := range []int{1, 2, 4} {
		scaled := cfg.Clone()
		scaled.Atoms = scaled.Atoms[:0]
		for i := 0; i < copies; i++ {
			for _, a := range cfg.Atoms {
				a.X += float64(i) * cfg.Width
				scaled.Atoms = append(scaled.Atoms, a)
			}
		}

		world, err := experiment.BuildWorld(scaled, scaled.Seed, log)
		if err != nil {
			return err
		}
		start := time.Now()
		for t := 0; t < cfg.Ticks; t++ {
			world.Tick()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			copies, world.Len(), cfg.Ticks, elapsed, float64(cfg.Ticks)/elapsed.Seconds())
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("running %d x %s (seeds %d..%d, %d at a time)\n",
		runs, cfg.Name, cfg.Seed, cfg.Seed+int64(runs)-1, parallel)
	start := time.Now()
	results, err := experiment.New(cfg, log).Ensemble(ctx, runs, parallel)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))
	if len(results) == 0 {
		return nil
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		vals := make([]float64, len(results))
		for i, r := range results {
			vals[i] = r.Metrics[name]
		}
		mean, std := stat.MeanStdDev(vals, nil)
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			lo, hi = min(lo, v), max(hi, v)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, mean, std, lo, hi)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		sep := analysis.Divergence(results[0].Frames, results[1].Frames)
		fmt.Printf("\nseed divergence rate (runs 0,1): %.5f per frame\n", analysis.DivergenceRate(sep))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range (run has %d)", frameIdx, len(frames))
	}

	// scene size is not stored with the run; fit it to the bodies
	var wMax, hMax float64
	for _, f := range frames {
		for _, b := range f.Bodies {
			wMax, hMax = max(wMax, b.Pos.X), max(hMax, b.Pos.Y)
		}
	}
	pad := meta.Params.ShellInterval * 2

	out, err := output()
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.WriteString(out, export.FrameToSVG(frames[idx], export.FrameOptions{
		Width:         wMax + pad,
		Height:        hMax + pad,
		ShellInterval: meta.Params.ShellInterval,
		Scale:         scale,
	}))
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	r := &automation.Runner{Store: st, Log: log}
	results, err := r.Run(ctx, b)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tTICKS\tRUN ID\tSHELL DEVIATION")
	for i, res := range results {
		runID := res.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.4f\n", i+1, res.Scenario, res.Result.StepsTaken, runID, res.Result.Metrics["shell_deviation"])
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := interruptible()
	defer cancel()

	points, err := automation.RunSweep(ctx, automation.ParameterSweep{
		Preset:    args[0],
		Param:     sweepKey,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepN,
		Transient: transient,
		Record:    record,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDEVIATION\tPROMOTIONS\tOCCUPANCY\n", strings.ToUpper(sweepKey))
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%d\t%s\n", p.Param, p.Deviation, p.Promotions, formatOccupancy(p.Occupancy))
	}
	return w.Flush()
}

func formatOccupancy(occ map[int]int) string {
	if len(occ) == 0 {
		return "-"
	}
	maxShell := 0
	for n := range occ {
		maxShell = max(maxShell, n)
	}
	parts := make([]string, 0, maxShell)
	for n := 1; n <= maxShell; n++ {
		parts = append(parts, fmt.Sprintf("%d", occ[n]))
	}
	return strings.Join(parts, "/")
}
