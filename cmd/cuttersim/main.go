package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agromech/cuttersim/internal/config"
	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/export"
	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/solver"
	"github.com/agromech/cuttersim/internal/sweep"
)

var (
	dataDir    string
	configFile string
	preset     string
	setFlags   []string
	saveRun    bool

	sweepField string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cuttersim",
		Short: "rotary cutter rotational dynamics simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cuttersim", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "run configuration file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named preset configuration")
	rootCmd.PersistentFlags().StringArrayVar(&setFlags, "set", nil, "override a parameter, e.g. --set input_torque=300")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one run and report its performance",
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save trajectory and report to the data directory")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check the assembled configuration without running",
		RunE:  validateConfig,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list available integration methods",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range solver.Methods() {
				fmt.Println(m)
			}
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and tabulate the outcomes",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepField, "field", "input_torque", "parameter field to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 100, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 400, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, validateCmd, presetsCmd, methodsCmd, sweepCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildConfig assembles the run configuration from, in order of
// precedence: --set overrides, then --config / --preset, then the
// defaults.
func buildConfig() (*config.RunConfig, error) {
	var cfg *config.RunConfig
	switch {
	case configFile != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	case preset != "":
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'cuttersim presets')", preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if len(setFlags) == 0 {
		return cfg, nil
	}
	overrides := make(map[string]any, len(setFlags))
	for _, kv := range setFlags {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set expects field=value, got %q", kv)
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			overrides[key] = v
		} else {
			overrides[key] = raw
		}
	}
	p, err := params.BuildFrom(cfg.Params, overrides)
	if err != nil {
		return nil, err
	}
	cfg.Params = p
	return cfg, nil
}

func engineOptions(cfg *config.RunConfig) []engine.Option {
	var opts []engine.Option
	if cfg.GrassTorque != nil {
		opts = append(opts, engine.WithGrassTorque(*cfg.GrassTorque))
	}
	if cfg.InputTorque != nil {
		opts = append(opts, engine.WithInputTorque(*cfg.InputTorque))
	}
	return opts
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	res, err := engine.Run(cfg.Params, engineOptions(cfg)...)
	if err != nil {
		return err
	}
	report := cfg.Analyzer().Analyze(res)
	printReport(res, report)

	if saveRun {
		store := export.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(res, report)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", runID)
	}
	return nil
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if _, err := params.Validate(cfg.Params); err != nil {
		return err
	}
	if _, err := solver.ParseMethod(cfg.Params.Method); err != nil {
		return err
	}
	fmt.Println("configuration ok")
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	s := sweep.New(cfg.Params)
	s.Grass = cfg.GrassTorque
	s.Input = cfg.InputTorque
	s.Analyzer = cfg.Analyzer()

	out, err := s.Run(sweep.Range{Field: sweepField, From: sweepFrom, To: sweepTo, Steps: sweepSteps})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tfinal omega\tefficiency\tavg power\tstability\n", out.Field)
	for _, pt := range out.Points {
		fmt.Fprintf(w, "%.4g\t%.4g\t%.4f\t%.4g\t%.4f\n",
			pt.Value, pt.Result.FinalOmega(), pt.Report.Efficiency,
			pt.Report.AveragePower, pt.Report.StabilityIndicator)
	}
	w.Flush()

	best := out.Best(func(r metrics.Report) float64 { return r.Efficiency })
	fmt.Printf("\nbest efficiency %.4f at %s=%.4g\n", best.Report.Efficiency, out.Field, best.Value)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := export.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\ttimestamp\tmethod\tefficiency\tfinal omega")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4g\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Method,
			r.Report.Efficiency, r.Report.Statistics.FinalOmega)
	}
	return w.Flush()
}

func printReport(res *engine.SimulationResult, report metrics.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "method\t%s\n", res.Method)
	fmt.Fprintf(w, "inertia\t%.4g kg·m² (plate %.4g, blades %.4g)\n", res.Inertia, res.PlateInertia, res.BladeInertia)
	fmt.Fprintf(w, "final omega\t%.4g rad/s\n", res.FinalOmega())
	fmt.Fprintf(w, "final angle\t%.4g rad\n", res.FinalAngle())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "total energy\t%.4g J\n", report.TotalEnergy)
	fmt.Fprintf(w, "useful energy\t%.4g J\n", report.UsefulEnergy)
	fmt.Fprintf(w, "efficiency\t%.2f %%\n", report.Efficiency*100)
	fmt.Fprintf(w, "average power\t%.4g W\n", report.AveragePower)
	fmt.Fprintf(w, "peak power\t%.4g W\n", report.PeakPower)
	fmt.Fprintf(w, "cut area\t%.4g m²\n", report.CutArea)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "settling time\t%.4g s\n", report.SettlingTime)
	fmt.Fprintf(w, "overshoot\t%.2f %%\n", report.Overshoot)
	fmt.Fprintf(w, "stability\t%.4f", report.StabilityIndicator)
	if report.Unstable {
		fmt.Fprint(w, " (unstable)")
	}
	fmt.Fprintln(w)
	if report.DominantFrequency > 0 {
		fmt.Fprintf(w, "dominant frequency\t%.4g Hz\n", report.DominantFrequency)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "evals\t%d (accepted %d, rejected %d)\n", res.Evals, res.Accepted, res.Rejected)
	if res.StiffSwitch >= 0 {
		fmt.Fprintf(w, "stiff switch\tt=%.4g s\n", res.StiffSwitch)
	}
	fmt.Fprintf(w, "elapsed\t%s\n", res.Elapsed)
	w.Flush()
}
