package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/flux"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/observe"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/spf13/cobra"
)

// prepare resolves a model file or preset, applies config overrides and
// builds an unrun model.
func prepare(arg string, cfg *config.Config) (*config.ModelFile, *boxmodel.Model, error) {
	mf, err := config.Resolve(arg)
	if err != nil {
		return nil, nil, err
	}
	mf.Override(cfg)
	m, err := config.Build(mf, flux.NewLibrary())
	if err != nil {
		return nil, nil, fmt.Errorf("build %s: %w", mf.Name, err)
	}
	return mf, m, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mf, m, err := prepare(args[0], cfg)
	if err != nil {
		return err
	}

	for _, spec := range metricList {
		mt, err := metrics.Parse(spec)
		if err != nil {
			return err
		}
		if err := metrics.Check(mt, m.Registry()); err != nil {
			return err
		}
		m.AddMetric(mt)
	}
	if cmd.Flags().Changed("bound") {
		m.AddMetric(metrics.NewStability(bound))
	}
	finite := metrics.NewFinite()
	m.AddMetric(finite)

	logObs := observe.NewLoggingObserver(logger, mf.Name)
	m.AddObserver(logObs)

	ctx := cmd.Context()
	if cfg.Trace {
		shutdown, err := observe.InitTracing(ctx, cmd.ErrOrStderr(), "boxsim", version)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Warn("trace_shutdown_failed", slog.Any("error", err))
			}
		}()
		m.AddObserver(observe.NewTracingObserver(ctx, nil, mf.Name, logObs.RunID))
	}

	if err := m.CheckSetup(); err != nil {
		return err
	}
	if _, err := m.Run(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	theme := viz.GetTheme(cfg.Plot.Theme)
	if csvFile != "-" && jsonFile != "-" {
		fmt.Fprintln(out, viz.Summary(mf.Name, m, theme))
	}
	if bad := finite.FirstNonFinite(); bad >= 0 {
		logger.Warn("non_finite_values", slog.String("model", mf.Name), slog.Int("first_step", bad))
	}

	if plotAfter {
		chart, err := viz.Plot(m.History(), seriesList, viz.PlotOptions{Width: cfg.Plot.Width, Height: cfg.Plot.Height})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, chart)
	}

	if svgFile != "" {
		opts := export.DefaultSVGOptions()
		opts.Title = mf.Name
		opts.Colors = theme.Series
		svg, err := export.HistoryToSVG(m.History(), seriesList, opts)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		logger.Info("svg_written", slog.String("path", svgFile))
	}

	if csvFile != "" {
		if err := writeTo(out, csvFile, func(w io.Writer) error {
			return export.WriteCSV(w, m.History(), seriesList)
		}); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	if jsonFile != "" {
		report := export.NewReport(mf.Name, logObs.RunID, m, withSeries)
		if err := writeTo(out, jsonFile, func(w io.Writer) error {
			return export.WriteJSON(w, report)
		}); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
	}
	return nil
}

// writeTo sends output to stdout for "-" and to a new file otherwise.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func plotModel(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mf, m, err := prepare(args[0], cfg)
	if err != nil {
		return err
	}
	m.AddObserver(observe.NewLoggingObserver(logger, mf.Name))
	if err := m.CheckSetup(); err != nil {
		return err
	}
	h, err := m.Run(cmd.Context())
	if err != nil {
		return err
	}

	chart, err := viz.Plot(h, seriesList, viz.PlotOptions{Width: cfg.Plot.Width, Height: cfg.Plot.Height})
	if err != nil {
		return err
	}
	st := viz.NewStyles(viz.GetTheme(cfg.Plot.Theme))
	fmt.Fprintln(cmd.OutOrStdout(), st.Header.Render(mf.Name))
	fmt.Fprintln(cmd.OutOrStdout(), chart)
	return nil
}

func liveModel(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mf, m, err := prepare(args[0], cfg)
	if err != nil {
		return err
	}
	if err := m.CheckSetup(); err != nil {
		return err
	}

	theme := viz.GetTheme(cfg.Plot.Theme)
	interval := time.Duration(cfg.LiveInterval) * time.Millisecond
	final, err := viz.RunLive(viz.NewLive(mf.Name, m, theme, interval))
	if err != nil {
		return err
	}
	if final.Err() != nil {
		return final.Err()
	}
	if final.Done() {
		fmt.Fprintln(cmd.OutOrStdout(), viz.Summary(mf.Name, final.Model(), theme))
	} else {
		logger.Info("live_stopped", slog.String("model", mf.Name), slog.Int("step", final.Model().Step()))
	}
	return nil
}
