package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/episweep/internal/chart"
	"github.com/san-kum/episweep/internal/config"
	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/epi"
	"github.com/san-kum/episweep/internal/export"
	"github.com/san-kum/episweep/internal/integrators"
	"github.com/san-kum/episweep/internal/metrics"
	"github.com/san-kum/episweep/internal/storage"
	"github.com/san-kum/episweep/internal/sweep"
	"github.com/san-kum/episweep/internal/viz"
)

var (
	dataDir    string
	population float64
	gamma      float64
	sigma      float64
	alpha      float64
	betaStart  float64
	betaStop   float64
	betaStep   float64
	betaValue  float64
	horizon    float64
	samples    int
	tolerance  float64
	integrator string
	outPath    string
	configFile string
	preset     string
	dt         float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "episweep",
		Short: "compartmental epidemic sweep lab",
		Long:  "episweep integrates compartmental epidemic models (SEIR, SIRD, SIR)\nacross a transmission-rate sweep and renders a slider-based HTML chart.",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episweep", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a beta sweep and export the interactive chart",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	runCmd.Flags().Float64Var(&population, "population", epi.DefaultPopulation, "total population N")
	runCmd.Flags().Float64Var(&gamma, "gamma", epi.DefaultGamma, "recovery rate")
	runCmd.Flags().Float64Var(&sigma, "sigma", epi.DefaultSigma, "latent-activation rate (seir)")
	runCmd.Flags().Float64Var(&alpha, "alpha", epi.DefaultAlpha, "mortality fraction (sird)")
	runCmd.Flags().Float64Var(&betaStart, "beta-start", config.DefaultBetaStart, "sweep start")
	runCmd.Flags().Float64Var(&betaStop, "beta-stop", config.DefaultBetaStop, "sweep stop (inclusive)")
	runCmd.Flags().Float64Var(&betaStep, "beta-step", config.DefaultBetaStep, "sweep step")
	runCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulated days")
	runCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "samples per trajectory")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "adaptive error tolerance")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	runCmd.Flags().StringVar(&outPath, "out", "", "output HTML path (default <model>-graph.html)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one beta group of a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&betaValue, "beta", chart.DefaultSliderBeta, "beta group to plot (closest match)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run's table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "animate one trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&betaValue, "beta", epi.DefaultBeta, "transmission rate")
	liveCmd.Flags().Float64Var(&dt, "dt", 0.05, "timestep (days)")
	liveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on one beta value",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&betaValue, "beta", epi.DefaultBeta, "transmission rate")
	compareCmd.Flags().Float64Var(&dt, "dt", 0.1, "timestep for fixed-step integrators")
	compareCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulated days")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, liveCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset < config file < explicit flags, mirroring the
// precedence of the flags on the run command.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Model = model
		cfg = loaded
	}

	if cmd.Flags().Changed("population") {
		cfg.Population = population
	}
	if cmd.Flags().Changed("gamma") {
		cfg.Gamma = gamma
	}
	if cmd.Flags().Changed("sigma") {
		cfg.Sigma = sigma
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("beta-start") {
		cfg.Beta.Start = betaStart
	}
	if cmd.Flags().Changed("beta-stop") {
		cfg.Beta.Stop = betaStop
	}
	if cmd.Flags().Changed("beta-step") {
		cfg.Beta.Step = betaStep
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = outPath
	}

	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	m, err := epi.New(model)
	if err != nil {
		return err
	}
	if err := cfg.ApplyTo(m); err != nil {
		return err
	}

	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sweepCfg := cfg.SweepConfig()
	fmt.Printf("sweeping %s over beta in [%.2f, %.2f] step %.2f...\n",
		model, sweepCfg.BetaStart, sweepCfg.BetaStop, sweepCfg.BetaStep)
	start := time.Now()

	table, err := sweep.Run(context.Background(), m, integ, sweepCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fig, err := chart.NewFigure(table, m.FixedParams())
	if err != nil {
		return err
	}

	out := cfg.OutputPath()
	if err := export.WriteHTML(fig, out); err != nil {
		return err
	}

	metricVals := defaultGroupMetrics(m, table, fig.DefaultStep)

	runID, err := st.Save(cfg.Integrator, sweepCfg, table, metricVals)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("wrote %s (%d beta values x %d samples)\n", out, table.NumBeta(), table.Samples())
	fmt.Printf("\ndefault group (beta=%.2f):\n", table.Betas[fig.DefaultStep])
	for name, val := range metricVals {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

// defaultGroupMetrics summarizes the trajectory that starts visible.
func defaultGroupMetrics(m epi.Model, table *sweep.Table, group int) map[string]float64 {
	infIdx := -1
	for i, name := range table.Compartments {
		if name == "Infected" {
			infIdx = i
			break
		}
	}
	if infIdx < 0 {
		return nil
	}

	peak := metrics.NewPeak("peak_infected", infIdx)
	attack := metrics.NewAttackRate(m.Population())
	drift := metrics.NewConservationDrift()
	metrics.ObserveAll([]metrics.Metric{peak, attack, drift}, table.Times, table.States[group])

	return map[string]float64{
		peak.Name():   peak.Value(),
		"peak_day":    peak.Time(),
		attack.Name(): attack.Value(),
		drift.Name():  drift.Value(),
	}
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tBETA RANGE\tSAMPLES\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%.2f, %.2f] /%.2f\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.BetaStart,
			run.BetaStop,
			run.BetaStep,
			run.Samples,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}

	group := 0
	best := -1.0
	for i, b := range table.Betas {
		d := b - betaValue
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
			group = i
		}
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("model: %s\n", table.Model)
	fmt.Printf("beta: %.2f\n\n", table.Betas[group])

	for c, name := range table.Compartments {
		graph := asciigraph.Plot(table.Series(c, group),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s over %d days", name, int(table.Times[len(table.Times)-1]))),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"beta", "time"}, table.Compartments...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows() {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, table)
}

func runLive(cmd *cobra.Command, args []string) error {
	m, err := epi.New(args[0])
	if err != nil {
		return err
	}
	if err := m.SetParam("beta", betaValue); err != nil {
		return err
	}

	integ, err := integrators.Get(integrator)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(m, integ, dt))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	model := args[0]
	names := args[1:]

	m, err := epi.New(model)
	if err != nil {
		return err
	}
	if err := m.SetParam("beta", betaValue); err != nil {
		return err
	}

	infIdx := -1
	for i, name := range m.Compartments() {
		if name == "Infected" {
			infIdx = i
		}
	}

	fmt.Printf("comparing integrators for %s (beta=%.2f, %.0f days)\n\n", model, betaValue, horizon)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tFINAL INFECTED\tCONSERVATION DRIFT\tSTEPS\tTIME")

	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		solverCfg := dynamo.DefaultConfig()
		solverCfg.Horizon = horizon
		solverCfg.InitialDt = dt

		start := time.Now()
		sol, err := dynamo.NewSolver(integ).Solve(context.Background(), m, m.InitialState(), solverCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		final := sol.States[len(sol.States)-1]
		drift := metrics.NewConservationDrift()
		metrics.ObserveAll([]metrics.Metric{drift}, sol.Times, sol.States)

		finalInfected := 0.0
		if infIdx >= 0 {
			finalInfected = final[infIdx]
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2e\t%d\t%v\n", name, finalInfected, drift.Value(), sol.Steps(), elapsed)
	}

	return w.Flush()
}
