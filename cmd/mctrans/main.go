package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/compute"
	"github.com/san-kum/mctrans/internal/config"
	"github.com/san-kum/mctrans/internal/experiment"
	"github.com/san-kum/mctrans/internal/export"
	"github.com/san-kum/mctrans/internal/grid"
	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/logger"
	"github.com/san-kum/mctrans/internal/particles"
	"github.com/san-kum/mctrans/internal/store"
	"github.com/san-kum/mctrans/internal/transport"
	"github.com/san-kum/mctrans/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	backend    string
	policy     string
	particle   string
	energy     float64
	count      int
	capacity   int
	maxSteps   int
	live       bool
	noSave     bool
	theme      string
	series     string
	directions bool
	svgPath    string
	output     string
	energies   string
	gridFront  float64
	gridBack   float64
	gridSize   int
	gridFind   []float64
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func main() {
	rootCmd := &cobra.Command{
		Use:           "mctrans",
		Short:         "particle transport data core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			lev, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.World().SetLevel(lev)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mctrans", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, status, info, warning, ...)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "transport primaries and store the run",
		RunE:  runTransport,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "follow the run in a live view")
	runCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "live view theme")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "run one setup at several primary energies",
		RunE:  scanEnergies,
	}
	addSetupFlags(scanCmd)
	scanCmd.Flags().StringVar(&energies, "energies", "1,10,100,1000", "comma separated primary energies in MeV")

	particlesCmd := &cobra.Command{
		Use:   "particles",
		Short: "show the particle table",
		RunE:  showParticles,
	}
	particlesCmd.Flags().StringVar(&configFile, "config", "", "show the particles of a config file instead")
	particlesCmd.Flags().StringVar(&preset, "preset", "", "show the particles of a preset instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s %d x %g MeV %s, models %s, %s bank of %d\n", name,
					cfg.Primary.Count, cfg.Primary.Energy, cfg.Primary.Particle,
					strings.Join(cfg.Models, "+"), cfg.Transport.Policy, cfg.Transport.Capacity)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "show a uniform grid and locate values in it",
		RunE:  showGrid,
	}
	gridCmd.Flags().Float64Var(&gridFront, "front", 0, "first grid point")
	gridCmd.Flags().Float64Var(&gridBack, "back", 1, "last grid point")
	gridCmd.Flags().IntVar(&gridSize, "size", 11, "number of grid points")
	gridCmd.Flags().Float64SliceVar(&gridFind, "find", nil, "values to locate")

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "report compute backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range []compute.Backend{compute.NewCPUBackend(), compute.NewCUDABackend()} {
				fmt.Printf("  %-5s available=%v\n", b.Name(), b.Available())
			}
			fmt.Printf("auto selects: %s\n", compute.AutoSelectBackend().Name())
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a per-step series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "alive", "series to plot: "+strings.Join(viz.Series, ", "))
	plotCmd.Flags().BoolVar(&directions, "directions", false, "also map secondary directions")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the series (and directions) as SVG to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and steps to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the secondaries of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, scanCmd, particlesCmd, presetsCmd, initCmd, gridCmd, backendCmd,
		listCmd, plotCmd, exportCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.World().Errorf("%v", err)
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml, or ini/gcfg)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&backend, "backend", "", "compute backend: auto, cpu, cuda")
	cmd.Flags().StringVar(&policy, "policy", "", "bank exhaustion policy: grow, drop")
	cmd.Flags().StringVar(&particle, "particle", "", "primary particle name")
	cmd.Flags().Float64Var(&energy, "energy", 0, "primary energy in MeV")
	cmd.Flags().IntVar(&count, "count", 0, "number of primaries")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "initial secondary bank capacity")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit")
}

// loadSetup resolves defaults, then a preset, then a config file, then
// explicitly set flags.
func loadSetup(cmd *cobra.Command) (string, *config.Config, error) {
	name := "run"
	cfg := config.DefaultConfig()

	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("policy") {
		cfg.Transport.Policy = policy
	}
	if flags.Changed("particle") {
		cfg.Primary.Particle = particle
	}
	if flags.Changed("energy") {
		cfg.Primary.Energy = energy
	}
	if flags.Changed("count") {
		cfg.Primary.Count = count
	}
	if flags.Changed("capacity") {
		cfg.Transport.Capacity = capacity
		cfg.Transport.MaxCapacity = max(cfg.Transport.MaxCapacity, capacity)
	}
	if flags.Changed("max-steps") {
		cfg.Transport.MaxSteps = maxSteps
	}
	return name, cfg, nil
}

func runTransport(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(name, cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	start := time.Now()
	var result *transport.Result
	if live {
		result, err = runLive(cmd.Context(), name, exp)
	} else {
		fmt.Printf("transporting %d x %g MeV %s on %s...\n", cfg.Primary.Count, cfg.Primary.Energy, cfg.Primary.Particle, exp.Backend().Name())
		result, err = exp.Run(cmd.Context())
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	printSummary(result)

	if noSave {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.Metadata(), result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(ctx context.Context, name string, exp *experiment.Experiment) (*transport.Result, error) {
	viz.SetTheme(theme)
	// The live view owns the terminal; keep routine log lines off it.
	prev := logger.World().Level()
	logger.World().SetLevel(max(prev, logger.Error))
	defer logger.World().SetLevel(prev)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := viz.NewFeed()
	type outcome struct {
		result *transport.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := exp.Run(ctx, feed)
		done <- outcome{r, err}
		feed.Finish(r, err)
	}()

	if _, err := tea.NewProgram(viz.NewModel(name, feed, cancel)).Run(); err != nil {
		cancel()
		feed.Stop()
		<-done
		return nil, err
	}
	feed.Stop()
	out := <-done
	return out.result, out.err
}

func printSummary(r *transport.Result) {
	fmt.Printf("steps: %d\n", r.StepsTaken)
	fmt.Printf("secondaries: %d\n", len(r.Secondaries))
	fmt.Printf("alive: %d\n", r.Alive)
	fmt.Printf("deposited: %.6g MeV\n", r.Deposited.Value())
	if r.Dropped > 0 {
		fmt.Printf("dropped: %d tracks, %.6g MeV\n", r.Dropped, r.DroppedEnergy.Value())
	}
	fmt.Printf("final bank capacity: %d\n", r.FinalCapacity)
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(r.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, r.Metrics[name])
	}
}

func scanEnergies(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	var es []float64
	for _, field := range strings.Split(energies, ",") {
		e, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("bad energy %q: %w", field, err)
		}
		es = append(es, e)
	}

	points, err := experiment.Scan(cmd.Context(), name, cfg, es)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ENERGY (MeV)", "STEPS", "SECONDARIES", "DEPOSITED (MeV)", "DROPPED", "YIELD", "PEAK BANK")
	for _, p := range points {
		r := p.Result
		t.Row(
			strconv.FormatFloat(p.Energy, 'g', -1, 64),
			strconv.Itoa(r.StepsTaken),
			strconv.Itoa(len(r.Secondaries)),
			fmt.Sprintf("%.6g", r.Deposited.Value()),
			strconv.Itoa(r.Dropped),
			fmt.Sprintf("%.3f", r.Metrics["secondary_yield"]),
			fmt.Sprintf("%.0f%%", 100*r.Metrics["peak_occupancy"]),
		)
	}
	fmt.Println(t)
	return nil
}

func showParticles(cmd *cobra.Command, args []string) error {
	var inputs []particles.Input
	var err error
	switch {
	case configFile != "" || preset != "":
		var cfg *config.Config
		if _, cfg, err = loadSetup(cmd); err != nil {
			return err
		}
		inputs, err = cfg.ParticleInputs()
	default:
		inputs, err = particles.StandardInputs(particles.StandardCodes()...)
	}
	if err != nil {
		return err
	}

	p, err := particles.NewWithBackend(compute.NewCPUBackend(), inputs)
	if err != nil {
		return err
	}
	defer p.Close()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PDG", "MASS (MeV/c²)", "CHARGE (e)", "DECAY (1/s)")
	for i := range p.Size() {
		id := ids.New[ids.ParticleTag](i)
		def := p.Get(id)
		t.Row(id.String(), p.Label(id), p.PDG(id).String(),
			fmt.Sprintf("%.10g", def.Mass.Value()),
			fmt.Sprintf("%g", def.Charge.Value()),
			fmt.Sprintf("%.6g", def.DecayConstant))
	}
	fmt.Println(t)
	return nil
}

func showGrid(cmd *cobra.Command, args []string) error {
	if gridSize < 2 || !(gridBack > gridFront) {
		return fmt.Errorf("grid needs at least 2 points and back > front, got %d points over [%g, %g]", gridSize, gridFront, gridBack)
	}
	g := grid.NewUniformGrid(grid.FromBounds(gridFront, gridBack, gridSize))

	fmt.Println(headerStyle.Render(fmt.Sprintf("uniform grid: %d points, delta %g", g.Size(), g.Delta())))
	for i, x := range g.Points() {
		fmt.Printf("  [%d] %g\n", i, x)
	}
	for _, v := range gridFind {
		if v < g.Front() || v >= g.Back() {
			fmt.Printf("find(%g): outside [%g, %g)\n", v, g.Front(), g.Back())
			continue
		}
		bin := g.Find(v)
		fmt.Printf("find(%g) = %d: [%g, %g)\n", v, bin, g.At(bin), g.At(bin+1))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TIME", "PRIMARY", "BACKEND", "POLICY", "STEPS", "SECONDARIES", "DROPPED")
	for _, run := range runs {
		t.Row(
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d x %g MeV %s", run.Count, run.Energy, run.Primary),
			run.Backend,
			run.Policy,
			strconv.Itoa(run.StepsTaken),
			strconv.Itoa(run.Secondaries),
			strconv.Itoa(run.Dropped),
		)
	}
	fmt.Println(t)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("run: " + meta.ID))
	fmt.Printf("%d x %g MeV %s, %d steps\n\n", meta.Count, meta.Energy, meta.Primary, meta.StepsTaken)

	chart, err := viz.PlotSteps(steps, series, 60, 12)
	if err != nil {
		return err
	}
	fmt.Println(chart)

	if svgPath != "" {
		values, err := viz.SeriesOf(steps, series)
		if err != nil {
			return err
		}
		svg, err := export.SeriesSVG(values, 800, 300, string(viz.CurrentTheme.Accent))
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	if directions {
		secs, err := st.LoadSecondaries(runID)
		if err != nil {
			return err
		}
		dirs := make([]r3.Vec, len(secs))
		for i, s := range secs {
			dirs[i] = s.Direction
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("secondary directions (beam's eye view)"))
		fmt.Print(viz.DirectionMap(dirs, 30, 15))

		if svgPath != "" {
			path := strings.TrimSuffix(svgPath, filepath.Ext(svgPath)) + "-directions.svg"
			if err := os.WriteFile(path, []byte(export.DirectionsSVG(secs, 400)), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
	return nil
}

func outputFile() (*os.File, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	steps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	f, closeFn, err := outputFile()
	if err != nil {
		return err
	}
	if err := store.ExportJSON(f, meta, steps); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	secs, err := st.LoadSecondaries(args[0])
	if err != nil {
		return err
	}

	label := func(id ids.ParticleDefID) string {
		if id.Get() < len(meta.Particles) {
			return meta.Particles[id.Get()]
		}
		return id.String()
	}

	f, closeFn, err := outputFile()
	if err != nil {
		return err
	}
	if err := store.ExportSecondariesCSV(f, secs, label); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
