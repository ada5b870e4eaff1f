package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/san-kum/boxsim/internal/analysis"
	"github.com/san-kum/boxsim/internal/observe"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/spf13/cobra"
)

func analyzeModel(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(phaseKeys) != 0 && len(phaseKeys) != 2 {
		return fmt.Errorf("--phase takes two series, got %d", len(phaseKeys))
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

	keys := seriesList
	if len(keys) == 0 {
		keys = h.Variables()
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tSPECTRAL PERIOD\tCROSSING PERIOD")
	for _, key := range keys {
		if _, ok := h.Series(key); !ok {
			return fmt.Errorf("unknown series %q", key)
		}
		spectral, err := analysis.DominantPeriod(h, key)
		if err != nil {
			logger.Debug("no_spectral_period", slog.String("series", key), slog.Any("error", err))
		}
		crossing, err := analysis.CrossingPeriod(h, key)
		if err != nil {
			logger.Debug("no_crossing_period", slog.String("series", key), slog.Any("error", err))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, period(spectral), period(crossing))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(phaseKeys) == 2 {
		p, err := analysis.NewPhasePortrait(h, phaseKeys[0], phaseKeys[1])
		if err != nil {
			return err
		}
		st := viz.NewStyles(viz.GetTheme(cfg.Plot.Theme))
		fmt.Fprintln(out)
		fmt.Fprintln(out, st.Header.Render("PHASE"))
		fmt.Fprint(out, p.ASCII(cfg.Plot.Width, cfg.Plot.Height))
	}
	return nil
}

func period(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}
