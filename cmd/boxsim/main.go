package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/observe"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	// Global
	configFile string
	logLevel   string
	// Model overrides
	steps      int
	stepLength float64
	// Run outputs
	plotAfter  bool
	seriesList []string
	svgFile    string
	csvFile    string
	jsonFile   string
	withSeries bool
	metricList []string
	bound      float64
	trace      bool
	// Display
	theme  string
	width  int
	height int
	// Live view
	intervalMS int
	// Show
	asYAML bool
	// Analyze
	phaseKeys []string
	// Sweep
	paramList []string
	sweepBy   string
	maximize  bool
	workers   int
	top       int
)

// main registers the command tree and executes it. It exits with status 1
// if the command returns an error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "boxsim",
		Short:        "compartmental box model simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")

	runCmd := &cobra.Command{
		Use:   "run [model.yaml|preset]",
		Short: "run a model and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd)
	addDisplayFlags(runCmd)
	runCmd.Flags().BoolVar(&plotAfter, "plot", false, "plot series after the run")
	runCmd.Flags().StringSliceVar(&seriesList, "series", nil, "series to plot or export (default: all variables)")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write an SVG chart to this file")
	runCmd.Flags().StringVar(&csvFile, "csv", "", "write history as CSV to this file (- for stdout)")
	runCmd.Flags().StringVar(&jsonFile, "json", "", "write a JSON report to this file (- for stdout)")
	runCmd.Flags().BoolVar(&withSeries, "with-series", false, "include full series in the JSON report")
	runCmd.Flags().StringArrayVar(&metricList, "metric", nil, "metric to compute, e.g. peak:prey_n (repeatable)")
	runCmd.Flags().Float64Var(&bound, "bound", 0, "report the fraction of steps with every value within ±bound")
	runCmd.Flags().BoolVar(&trace, "trace", false, "export an OpenTelemetry span for the run to stderr")

	plotCmd := &cobra.Command{
		Use:   "plot [model.yaml|preset]",
		Short: "run a model and plot series against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotModel,
	}
	addModelFlags(plotCmd)
	addDisplayFlags(plotCmd)
	plotCmd.Flags().StringSliceVar(&seriesList, "series", nil, "series to plot (default: all variables)")

	liveCmd := &cobra.Command{
		Use:   "live [model.yaml|preset]",
		Short: "step a model with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  liveModel,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	liveCmd.Flags().IntVar(&intervalMS, "interval", config.DefaultLiveInterval, "milliseconds between ticks")

	showCmd := &cobra.Command{
		Use:   "show [model.yaml|preset]",
		Short: "list registry keys and processes",
		Args:  cobra.ExactArgs(1),
		RunE:  showModel,
	}
	showCmd.Flags().BoolVar(&asYAML, "yaml", false, "print the normalized model file")

	checkCmd := &cobra.Command{
		Use:   "check [model.yaml|preset]",
		Short: "validate a model without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  checkModel,
	}
	addModelFlags(checkCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in model presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	fluxesCmd := &cobra.Command{
		Use:   "fluxes",
		Short: "list built-in flux functions",
		Args:  cobra.NoArgs,
		RunE:  listFluxes,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model.yaml|preset]",
		Short: "grid search over initial registry values",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&paramList, "param", nil, "key=v1,v2 or key=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepBy, "metric", "", "metric to rank by, e.g. final:tank_volume")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank the largest metric value first")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: GOMAXPROCS)")
	sweepCmd.Flags().IntVar(&top, "top", 10, "rows to print")
	_ = sweepCmd.MarkFlagRequired("param")
	_ = sweepCmd.MarkFlagRequired("metric")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model.yaml|preset]",
		Short: "run a model and report oscillation periods",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeModel,
	}
	addModelFlags(analyzeCmd)
	addDisplayFlags(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&seriesList, "series", nil, "series to analyze (default: all variables)")
	analyzeCmd.Flags().StringSliceVar(&phaseKeys, "phase", nil, "draw a phase portrait of two series, e.g. prey_n,predator_n")

	rootCmd.AddCommand(runCmd, plotCmd, liveCmd, showCmd, checkCmd, presetsCmd, fluxesCmd, sweepCmd, analyzeCmd)
	return rootCmd
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", 0, "override the model's total steps")
	cmd.Flags().Float64Var(&stepLength, "step-length", 0, "override the model's step length")
}

func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	cmd.Flags().IntVar(&width, "width", config.DefaultPlotWidth, "plot width")
	cmd.Flags().IntVar(&height, "height", config.DefaultPlotHeight, "plot height")
}

// loadConfig layers defaults, the config file, BOXSIM_* variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("step-length") {
		cfg.StepLength = stepLength
	}
	if flags.Changed("theme") {
		cfg.Plot.Theme = theme
	}
	if flags.Changed("width") {
		cfg.Plot.Width = width
	}
	if flags.Changed("height") {
		cfg.Plot.Height = height
	}
	if flags.Changed("trace") {
		cfg.Trace = trace
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("interval") {
		cfg.LiveInterval = intervalMS
	}

	level, err := observe.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, observe.NewLogger(cmd.ErrOrStderr(), level), nil
}
