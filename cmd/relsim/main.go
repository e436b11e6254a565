package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/relsim/internal/config"
	"github.com/san-kum/relsim/internal/export"
	"github.com/san-kum/relsim/internal/metrics"
	"github.com/san-kum/relsim/internal/storage"
	"github.com/san-kum/relsim/internal/trace"
	"github.com/san-kum/relsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	jsonOut    string
	svgOut     string
	tickRate   float64
	duration   float64
	accelMag   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relsim",
		Short: "special-relativistic worldline simulator",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "save runs under this directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario yaml file")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and summarize it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&tickRate, "tick", 0, "override tick rate (Hz)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "override duration (s)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write trajectories to a JSON file")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write a spacetime diagram to an SVG file")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "fly a scenario interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&tickRate, "tick", 0, "override tick rate (Hz)")
	liveCmd.Flags().Float64Var(&accelMag, "accel", 0.25, "thrust magnitude")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			listPresets()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig(args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case len(args) == 1:
		preset, ok := config.Presets[args[0]]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", args[0])
		}
		cfg = preset
	default:
		cfg = config.Default()
	}

	if tickRate > 0 {
		cfg.TickRate = tickRate
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return err
	}
	tracer.AddMetric(metrics.NewPeakSpeed())
	tracer.AddMetric(metrics.NewTimeDilation())
	tracer.AddMetric(metrics.NewProperLag())

	result, err := tracer.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d ticks over %.1fs of wall time\n\n", cfg.Name, len(result.Times), cfg.Duration)
	printMetrics(result)
	printSpeedGraph(cfg, result)

	if dataDir != "" {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(cfg.Name, cfg.TickRate, cfg.Duration, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", runID)
	}

	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, cfg.Name, cfg.TickRate, cfg.Duration, result); err != nil {
			return err
		}
	}

	if svgOut != "" {
		svg := export.SpacetimeSVG(result, 100, 40, 4)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
	}

	return nil
}

func printMetrics(result *trace.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6f\n", name, result.Metrics[name])
	}
	w.Flush()
}

func printSpeedGraph(cfg *config.Config, result *trace.Result) {
	user := cfg.Entities[cfg.UserIndex()].Name
	samples := result.Samples[user]
	if len(samples) < 2 {
		return
	}

	speeds := make([]float64, len(samples))
	for i, e := range samples {
		speeds[i] = e.Frame.Velocity.Len()
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("%s speed (c)", user)),
	))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return err
	}

	return viz.Run(tracer.Universe(), cfg.TickRate, accelMag)
}

func listPresets() {
	names := make([]string, 0, len(config.Presets))
	for name := range config.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "name\tentities\tduration")
	for _, name := range names {
		cfg := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%.0fs\n", name, len(cfg.Entities), cfg.Duration)
	}
	w.Flush()
}
