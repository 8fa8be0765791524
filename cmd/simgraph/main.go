package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/simgraph/internal/builder"
	"github.com/san-kum/simgraph/internal/config"
	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/models"
	"github.com/san-kum/simgraph/internal/storage"
	"github.com/san-kum/simgraph/internal/tui"
)

var (
	dataDir    string
	dt         float64
	steps      int
	unroll     bool
	batch      int
	seed       int64
	backend    string
	passes     int
	configFile string
	preset     string
	column     int
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simgraph",
		Short: "batching compiler and runtime for dataflow simulation models",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".simgraph", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [network]",
		Short: "compile and run a network",
		Args:  cobra.ExactArgs(1),
		RunE:  runNetwork,
	}
	addCompileFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	planCmd := &cobra.Command{
		Use:   "plan [network]",
		Short: "show the compiled plan and buffer layout",
		Args:  cobra.ExactArgs(1),
		RunE:  showPlan,
	}
	addCompileFlags(planCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored probe data",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&column, "column", 0, "probe column index")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export raw probe data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [network]",
		Short: "run a network with live probe view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addCompileFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [network]",
		Short: "list available presets for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for network: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	networksCmd := &cobra.Command{
		Use:   "networks",
		Short: "list built-in networks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range models.NewRegistry().List() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, planCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd, networksCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to simulate")
	cmd.Flags().BoolVar(&unroll, "unroll", false, "statically unroll the loop")
	cmd.Flags().IntVar(&batch, "batch", config.DefaultBatch, "batch size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&backend, "backend", "", "compute backend (cpu, parallel)")
	cmd.Flags().IntVar(&passes, "passes", 0, "layout optimizer passes")
}

func effectiveConfig(network string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Network = network

	if preset != "" {
		p := config.GetPreset(network, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(network))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset == "" && configFile == "" {
		cfg.Dt = dt
		cfg.Steps = steps
		cfg.Unroll = unroll
		cfg.Batch = batch
		cfg.Seed = seed
		cfg.Backend = backend
		cfg.Passes = passes
	}
	return cfg, nil
}

func compileNetwork(cfg *config.Config) (*engine.CompiledGraph, []string, error) {
	m, err := models.NewRegistry().Get(cfg.Network, cfg.Dt)
	if err != nil {
		return nil, nil, err
	}

	opts := engine.Options{
		StepBlocks: cfg.Steps,
		Unroll:     cfg.Unroll,
		BatchSize:  cfg.Batch,
		Seed:       cfg.Seed,
		Backend:    cfg.Backend,
		Passes:     cfg.Passes,
	}
	g, err := engine.Compile(m, builder.Default(), opts)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(m.Probes))
	for i, p := range m.Probes {
		names[i] = p.Name
	}
	return g, names, nil
}

func runNetwork(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(args[0])
	if err != nil {
		return err
	}

	g, probeNames, err := compileNetwork(cfg)
	if err != nil {
		return err
	}
	sim, err := g.NewSimulation()
	if err != nil {
		return err
	}
	result, err := sim.Run(cfg.Steps)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Network: cfg.Network,
		Dt:      cfg.Dt,
		Batch:   cfg.Batch,
		Seed:    cfg.Seed,
		Unroll:  cfg.Unroll,
		Backend: cfg.Backend,
		Probes:  probeNames,
	}, cfg.Dt, result)
	if err != nil {
		return err
	}

	fmt.Printf("ran %s for %d steps (%d groups, %d buffers) in %s\n",
		cfg.Network, result.Steps, len(g.Plan), len(g.Layout.Keys), result.Elapsed)
	fmt.Printf("saved run: %s\n", runID)

	if len(result.Probes) > 0 && len(result.Probes[0]) > 1 {
		series := make([]float64, len(result.Probes[0]))
		for i, row := range result.Probes[0] {
			if len(row) > 0 {
				series[i] = row[0]
			}
		}
		fmt.Printf("\n%s[0]:\n%s\n", probeNames[0],
			asciigraph.Plot(series, asciigraph.Width(70), asciigraph.Height(12)))
	}
	return nil
}

func showPlan(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(args[0])
	if err != nil {
		return err
	}
	g, _, err := compileNetwork(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("plan for %s (%d groups):\n", cfg.Network, len(g.Plan))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, grp := range g.Plan {
		sigs := ""
		for j, s := range grp.Signals() {
			if j > 0 {
				sigs += " "
			}
			sigs += s.Name
		}
		fmt.Fprintf(w, "  %d\t%s\tops=%d\tsignals=%s\n", i, grp.Kind, len(grp.Ops), sigs)
	}
	w.Flush()

	fmt.Printf("\nbuffers (%d):\n", len(g.Layout.Keys))
	for _, key := range g.Layout.Keys {
		buf := g.Layout.Buffers[key]
		fmt.Printf("  %s: %d rows x %d\n", key, buf.Rows, buf.RowSize)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNETWORK\tSTEPS\tBATCH\tELAPSED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1fms\n", r.ID, r.Network, r.Steps, r.Batch, r.ElapsedMs)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	names, cols, _, err := storage.New(dataDir).LoadProbes(args[0])
	if err != nil {
		return err
	}
	if column < 0 || column >= len(cols) || len(cols[column]) < 2 {
		return fmt.Errorf("no data for column %d (have %d)", column, len(cols))
	}

	fmt.Printf("%s:\n%s\n", names[column],
		asciigraph.Plot(cols[column], asciigraph.Width(70), asciigraph.Height(14)))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(args[0])
	if err != nil {
		return err
	}
	// Live view advances one step per frame; the bounded loop form supports
	// that without compiling per-frame replicas.
	cfg.Unroll = false

	g, probeNames, err := compileNetwork(cfg)
	if err != nil {
		return err
	}
	sim, err := g.NewSimulation()
	if err != nil {
		return err
	}
	return tui.Run(sim, cfg.Network, probeNames, cfg.Steps, frameRate)
}
