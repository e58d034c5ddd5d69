package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/joehahn/int-sys-eqns/internal/analysis"
	"github.com/joehahn/int-sys-eqns/internal/config"
	"github.com/joehahn/int-sys-eqns/internal/experiment"
	"github.com/joehahn/int-sys-eqns/internal/export"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
	"github.com/joehahn/int-sys-eqns/internal/solve"
	"github.com/joehahn/int-sys-eqns/internal/storage"
	"github.com/joehahn/int-sys-eqns/internal/viz"
)

var (
	dataDir    string
	method     string
	from       float64
	to         float64
	points     int
	eps        float64
	h1         float64
	hmin       float64
	maxSteps   int
	y0Flag     string
	paramFlags []string
	configFile string
	preset     string
	// export-png axes; -1 plots every component against x
	phaseX int
	phaseY int
	outImg string
	// analyze knobs
	study     string
	levels    int
	baseSteps int
)

// main registers the intsys commands and executes the root command; it
// exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "intsys",
		Short: "adaptive integration lab for systems of first-order equations",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".intsys", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "integrate a system and store the sampled solution",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render run samples to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&outImg, "out", "", "output file (defaults to <run_id>.png)")
	exportPNGCmd.Flags().IntVar(&phaseX, "phase-x", -1, "component for the phase plot x-axis")
	exportPNGCmd.Flags().IntVar(&phaseY, "phase-y", -1, "component for the phase plot y-axis")

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "time one system across a ladder of tolerances",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSystem,
	}
	addScenarioFlags(benchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [system] [method1] [method2] ...",
		Short: "compare stepping methods on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareMethods,
	}
	addScenarioFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [system]",
		Short: "work-precision or convergence-order study",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSystem,
	}
	addScenarioFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&study, "study", "work", "study kind: work or order")
	analyzeCmd.Flags().IntVar(&levels, "levels", 5, "refinement levels (order study)")
	analyzeCmd.Flags().IntVar(&baseSteps, "base-steps", 16, "coarsest step count (order study)")
	analyzeCmd.Flags().StringVar(&outImg, "png", "", "also write a log-log plot to this file")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "watch the integration advance in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportPNGCmd, benchCmd, compareCmd, analyzeCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", config.DefaultConfig().Method, "stepping method")
	cmd.Flags().Float64Var(&from, "from", config.DefaultFrom, "start coordinate")
	cmd.Flags().Float64Var(&to, "to", config.DefaultTo, "end coordinate")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of sample points")
	cmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "fractional error tolerance")
	cmd.Flags().Float64Var(&h1, "h1", config.DefaultH1, "first trial stepsize (0 = estimate)")
	cmd.Flags().Float64Var(&hmin, "hmin", config.DefaultHMin, "advisory stepsize floor")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "accepted-step limit per segment")
	cmd.Flags().StringVar(&y0Flag, "y0", "", "initial state, comma separated")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "system parameter as name=value")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
}

// resolveConfig layers the scenario sources: defaults, then preset, then
// config file, then any flag the user actually set.
func resolveConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.System = system

	fl := cmd.Flags()
	if fl.Changed("method") {
		cfg.Method = method
	}
	if fl.Changed("from") {
		cfg.From = from
	}
	if fl.Changed("to") {
		cfg.To = to
	}
	if fl.Changed("points") {
		cfg.Points = points
	}
	if fl.Changed("eps") {
		cfg.Eps = eps
	}
	if fl.Changed("h1") {
		cfg.H1 = h1
	}
	if fl.Changed("hmin") {
		cfg.HMin = hmin
	}
	if fl.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if fl.Changed("y0") {
		y0, err := parseFloats(y0Flag)
		if err != nil {
			return nil, fmt.Errorf("bad --y0: %w", err)
		}
		cfg.Y0 = y0
	}
	if fl.Changed("param") {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for _, p := range paramFlags {
			name, value, ok := strings.Cut(p, "=")
			if !ok {
				return nil, fmt.Errorf("bad --param %q, expected name=value", p)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return nil, fmt.Errorf("bad --param %q: %w", p, err)
			}
			cfg.Params[strings.TrimSpace(name)] = v
		}
	}

	return cfg, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	exp.Solver().SetProgress(func(done, total int) {
		pct := done * 100 / total
		if pct/10 != (done-1)*100/total/10 {
			fmt.Printf("  %d%%\n", pct/10*10)
		}
	})

	fmt.Printf("integrating %s from %g to %g (%d points, eps %.1e)...\n",
		cfg.System, cfg.From, cfg.To, cfg.Points, cfg.Eps)
	start := time.Now()

	table, stats, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, exp.InitialState(), table, stats)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (rejected %d)\n", stats.Steps, stats.Rejected)
	if stats.MinStepHits > 0 {
		fmt.Printf("min-step advisories: %d\n", stats.MinStepHits)
	}

	dim, samples := table.Dims()
	final := table.Col(samples - 1)
	fmt.Printf("final state at x=%g:\n", table.Xs()[samples-1])
	for i := 0; i < dim; i++ {
		fmt.Printf("  y%d = %.6f\n", i, final[i])
	}

	return nil
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
	fmt.Fprintln(w, "ID\tSYSTEM\tMETHOD\tTIME\tRANGE\tEPS\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t[%g,%g]\t%.1e\t%d\n",
			run.ID,
			run.System,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.From, run.To,
			run.Eps,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	table, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	dim, samples := table.Dims()
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s (%s)\n", meta.System, meta.Method)
	fmt.Printf("samples: %d\n\n", samples)

	shown := dim
	if shown > 6 {
		shown = 6
	}
	for i := 0; i < shown; i++ {
		graph := asciigraph.Plot(table.Row(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(componentCaption(meta.System, i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func componentCaption(system string, i int) string {
	names := map[string][]string{
		"harmonic":  {"position", "velocity"},
		"vanderpol": {"position", "velocity"},
		"lorenz":    {"x", "y", "z"},
		"kepler":    {"x", "y", "vx", "vy"},
	}
	if ns, ok := names[system]; ok && i < len(ns) {
		return ns[i]
	}
	return fmt.Sprintf("y%d", i)
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
	st := storage.New(dataDir)
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, table)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, meta, table)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	out := outImg
	if out == "" {
		out = runID + ".png"
	}

	title := fmt.Sprintf("%s (%s, eps %.1e)", meta.System, meta.Method, meta.Eps)
	if phaseX >= 0 && phaseY >= 0 {
		err = export.PhasePNG(out, title, table, phaseX, phaseY)
	} else {
		err = export.SolutionPNG(out, title, table)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg.Params)
	if err != nil {
		return err
	}
	stepper, err := reg.GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	y0, err := initialState(cfg, sys)
	if err != nil {
		return err
	}

	tolerances := []float64{1e-3, 1e-5, 1e-7, 1e-9}

	fmt.Printf("benchmarking %s (%s) from %g to %g\n\n", cfg.System, cfg.Method, cfg.From, cfg.To)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EPS\tSTEPS\tREJECTED\tTIME\tSTEPS/SEC")

	for _, tol := range tolerances {
		sc := solve.DefaultConfig()
		sc.Eps = tol
		sc.H1 = cfg.H1
		sc.HMin = cfg.HMin

		solver := solve.New(sys, stepper)
		y := y0.Clone()

		start := time.Now()
		stats, err := solver.Integrate(context.Background(), y, cfg.From, cfg.To, sc)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%.0e\terror: %v\n", tol, err)
			continue
		}

		stepsPerSec := float64(stats.Steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%.0e\t%d\t%d\t%v\t%.0f\n",
			tol, stats.Steps, stats.Rejected, elapsed, stepsPerSec)
	}

	return w.Flush()
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	methodNames := args[1:]

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg.Params)
	if err != nil {
		return err
	}

	y0, err := initialState(cfg, sys)
	if err != nil {
		return err
	}

	ref, hasExact := sys.(models.Reference)

	fmt.Printf("comparing methods for %s (eps=%.1e, from %g to %g)\n\n",
		cfg.System, cfg.Eps, cfg.From, cfg.To)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if hasExact {
		fmt.Fprintln(w, "METHOD\tFINAL_Y0\tSTEPS\tREJECTED\tERROR\tTIME")
	} else {
		fmt.Fprintln(w, "METHOD\tFINAL_Y0\tSTEPS\tREJECTED\tTIME")
	}

	for _, name := range methodNames {
		y := y0.Clone()

		start := time.Now()
		stats, err := runMethod(reg, name, sys, y, cfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		if hasExact {
			exact := ref.Exact(cfg.To)
			maxErr := 0.0
			for i := range y {
				if d := math.Abs(y[i] - exact[i]); d > maxErr {
					maxErr = d
				}
			}
			fmt.Fprintf(w, "%s\t%.6f\t%d\t%d\t%.2e\t%v\n",
				name, y[0], stats.Steps, stats.Rejected, maxErr, elapsed)
		} else {
			fmt.Fprintf(w, "%s\t%.6f\t%d\t%d\t%v\n",
				name, y[0], stats.Steps, stats.Rejected, elapsed)
		}
	}

	return w.Flush()
}

// runMethod integrates the scenario with the named method, mutating y in
// place: adaptively when the name resolves to an adaptive formula,
// otherwise with uniform steps of roughly the configured h1.
func runMethod(reg *experiment.Registry, name string, sys models.System, y ivp.State, cfg *config.Config) (solve.Stats, error) {
	if stepper, err := reg.GetMethod(name); err == nil {
		sc := solve.DefaultConfig()
		sc.Eps = cfg.Eps
		sc.H1 = cfg.H1
		sc.HMin = cfg.HMin
		if cfg.MaxSteps > 0 {
			sc.MaxSteps = cfg.MaxSteps
		}
		solver := solve.New(sys, stepper)
		return solver.Integrate(context.Background(), y, cfg.From, cfg.To, sc)
	}

	fixed, err := reg.GetFixed(name)
	if err != nil {
		return solve.Stats{}, fmt.Errorf("unknown method: %s", name)
	}

	span := cfg.To - cfg.From
	h := cfg.H1
	if h == 0 {
		h = config.DefaultH1
	}
	n := int(math.Abs(span)/math.Abs(h) + 0.5)
	if n < 1 {
		n = 1
	}
	h = span / float64(n)

	for k := 0; k < n; k++ {
		copy(y, fixed.Step(sys, y, cfg.From+float64(k)*h, h))
	}
	return solve.Stats{Steps: n, LastStep: h, NextStep: h, X: cfg.To}, nil
}

func analyzeSystem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg.Params)
	if err != nil {
		return err
	}

	ref, ok := sys.(models.Reference)
	if !ok {
		return fmt.Errorf("system %s has no exact solution; try decay, harmonic, logistic, mixed, or kepler", cfg.System)
	}

	y0, err := initialState(cfg, sys)
	if err != nil {
		return err
	}

	switch study {
	case "work":
		return analyzeWork(cfg, ref, reg, y0)
	case "order":
		return analyzeOrder(cfg, ref, reg, y0)
	default:
		return fmt.Errorf("unknown study %q, expected work or order", study)
	}
}

func analyzeWork(cfg *config.Config, ref models.Reference, reg *experiment.Registry, y0 ivp.State) error {
	stepper, err := reg.GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	tolerances := []float64{1e-2, 1e-3, 1e-4, 1e-5, 1e-6, 1e-7, 1e-8, 1e-9, 1e-10}
	points, err := analysis.WorkPrecision(context.Background(), ref, stepper,
		y0, cfg.From, cfg.To, tolerances)
	if err != nil {
		return err
	}

	fmt.Printf("work-precision for %s (%s) from %g to %g\n\n",
		cfg.System, cfg.Method, cfg.From, cfg.To)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EPS\tERROR\tEVALS\tSTEPS\tREJECTED")
	for _, p := range points {
		fmt.Fprintf(w, "%.0e\t%.3e\t%d\t%d\t%d\n", p.Eps, p.Error, p.Evals, p.Steps, p.Rejected)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if outImg != "" {
		evals := make([]float64, len(points))
		errs := make([]float64, len(points))
		for k, p := range points {
			evals[k] = float64(p.Evals)
			errs[k] = p.Error
		}
		title := fmt.Sprintf("%s work-precision (%s)", cfg.System, cfg.Method)
		if err := export.LogLogPNG(outImg, title, "derivative evaluations", "error", evals, errs); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outImg)
	}

	return nil
}

func analyzeOrder(cfg *config.Config, ref models.Reference, reg *experiment.Registry, y0 ivp.State) error {
	stepper, err := reg.GetFixed(cfg.Method)
	if err != nil {
		// Adaptive formulas double as fixed-step formulas here.
		adaptive, aerr := reg.GetMethod(cfg.Method)
		if aerr != nil {
			return err
		}
		stepper = adaptive
	}

	res, err := analysis.ConvergenceOrder(ref, stepper, y0, cfg.From, cfg.To, baseSteps, levels)
	if err != nil {
		return err
	}

	fmt.Printf("convergence of %s on %s from %g to %g\n\n",
		cfg.Method, cfg.System, cfg.From, cfg.To)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tERROR")
	for k := range res.Hs {
		fmt.Fprintf(w, "%.3e\t%.3e\n", res.Hs[k], res.Errors[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nempirical order: %.2f\n", res.Order)

	if outImg != "" {
		title := fmt.Sprintf("%s convergence on %s", cfg.Method, cfg.System)
		if err := export.LogLogPNG(outImg, title, "h", "error", res.Hs, res.Errors); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outImg)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System, cfg.Params)
	if err != nil {
		return err
	}
	stepper, err := reg.GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	y0, err := initialState(cfg, sys)
	if err != nil {
		return err
	}

	m := viz.NewModel(cfg.System, sys, stepper, y0, cfg.From, cfg.To, cfg.Eps, cfg.H1)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func initialState(cfg *config.Config, sys models.System) (ivp.State, error) {
	if len(cfg.Y0) == 0 {
		return sys.DefaultState(), nil
	}
	if len(cfg.Y0) != sys.Dim() {
		return nil, fmt.Errorf("initial state has %d components, system %s needs %d",
			len(cfg.Y0), cfg.System, sys.Dim())
	}
	return ivp.State(cfg.Y0).Clone(), nil
}
