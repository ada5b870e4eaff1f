package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/flux"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/sweep"
	"github.com/spf13/cobra"
)

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mf, err := config.Resolve(args[0])
	if err != nil {
		return err
	}
	mf.Override(cfg)

	params := make([]sweep.Param, 0, len(paramList))
	for _, s := range paramList {
		p, err := sweep.ParseParam(s)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	if _, err := metrics.Parse(sweepBy); err != nil {
		return err
	}

	lib := flux.NewLibrary()
	build := func() (*boxmodel.Model, error) { return config.Build(mf, lib) }
	metric := func() (boxmodel.Metric, error) { return metrics.Parse(sweepBy) }

	probe, err := build()
	if err != nil {
		return fmt.Errorf("build %s: %w", mf.Name, err)
	}
	if err := probe.CheckSetup(); err != nil {
		return err
	}
	mt, _ := metric()
	if err := metrics.Check(mt, probe.Registry()); err != nil {
		return err
	}

	grid := sweep.NewGrid(params, cfg.Workers, logger)
	logger.Info("sweep_start", slog.String("model", mf.Name), slog.Int("points", grid.Size()), slog.String("metric", mt.Name()))
	points, err := grid.Run(cmd.Context(), build, metric)
	if err != nil {
		return err
	}

	failed := 0
	for _, p := range points {
		if p.Err != nil {
			failed++
			if errors.Is(p.Err, cmd.Context().Err()) {
				continue
			}
			logger.Warn("sweep_point_failed", slog.Int("index", p.Index), slog.Any("params", p.Params), slog.Any("error", p.Err))
		}
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	ranked := sweep.Ranked(points, maximize)
	if len(ranked) == 0 {
		return fmt.Errorf("no successful runs out of %d", len(points))
	}
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	keys := grid.Keys()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "RANK")
	for _, k := range keys {
		fmt.Fprintf(w, "\t%s", k)
	}
	fmt.Fprintf(w, "\t%s\n", mt.Name())
	for i, p := range ranked {
		fmt.Fprintf(w, "%d", i+1)
		for _, k := range keys {
			fmt.Fprintf(w, "\t%g", p.Params[k])
		}
		fmt.Fprintf(w, "\t%.6g\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info("sweep_completed", slog.String("model", mf.Name), slog.Int("points", len(points)), slog.Int("failed", failed))
	return nil
}
