package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/flux"
	"github.com/spf13/cobra"
)

func showModel(cmd *cobra.Command, args []string) error {
	mf, err := config.Resolve(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asYAML {
		data, err := mf.YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	m, err := config.Build(mf, flux.NewLibrary())
	if err != nil {
		return fmt.Errorf("build %s: %w", mf.Name, err)
	}

	fmt.Fprintf(out, "%s: %d steps of %g\n", mf.Name, m.TotalSteps(), m.StepLength())
	if mf.Description != "" {
		fmt.Fprintln(out, mf.Description)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, item := range m.Registry().Items() {
		fmt.Fprintf(w, "%s\t%g\n", item.Name, item.Cell.Get())
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOX\tPROCESS\tTARGET\tSIGN\tFLUX\tARGS")
	for _, p := range mf.Processes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Box, p.Label, p.Target, sign(p.Sign), describeFlux(p), strings.Join(p.Args, ","))
	}
	return w.Flush()
}

func sign(s string) string {
	if s == "" {
		return "+"
	}
	return s
}

func describeFlux(p config.ProcessSpec) string {
	if p.Expr != "" {
		return "lua: " + p.Expr
	}
	if p.Flux == nil {
		return "-"
	}
	if len(p.Flux.Params) == 0 {
		return p.Flux.Name
	}
	parts := make([]string, 0, len(p.Flux.Params))
	for k, v := range p.Flux.Params {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s(%s)", p.Flux.Name, strings.Join(parts, ", "))
}

func checkModel(cmd *cobra.Command, args []string) error {
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
	processes := 0
	for _, b := range m.Boxes() {
		processes += len(b.ListProcesses())
	}
	logger.Debug("check_ok", "model", mf.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d boxes, %d processes, %d keys, %d steps of %g)\n",
		mf.Name, len(m.Boxes()), processes, m.Registry().Len(), m.TotalSteps(), m.StepLength())
	return nil
}

func listPresets(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		mf := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, mf.Steps, mf.Description)
	}
	return w.Flush()
}

func listFluxes(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tARITY\tPARAMS\tFORMULA")
	for _, b := range flux.NewLibrary().List() {
		arity := "any"
		if b.Arity >= 0 {
			arity = fmt.Sprint(b.Arity)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, arity, strings.Join(b.Params, ","), b.Doc)
	}
	return w.Flush()
}
