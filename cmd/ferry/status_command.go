package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ferry/internal/journal"
	"ferry/internal/preflight"
	"ferry/internal/runner"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show readiness checks, daemon state, and recent passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			titler := cases.Title(language.English)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Run mode", statusInfo, titler.String(cfg.Run.Mode), colorize))
			fmt.Fprintln(out, renderStatusLine("Source directory", statusInfo, cfg.Paths.SourceDir, colorize))
			fmt.Fprintln(out, renderStatusLine("Target", statusInfo, cfg.Paths.Target, colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, daemonStatusLine(probeLock(runner.LockPath(cfg)), colorize))
			fmt.Fprintln(out)

			return renderRecentPasses(cmd, ctx, titler, 5)
		},
	}
}

type lockProbe struct {
	path    string
	held    bool
	probeOK bool
}

func daemonStatusLine(probe lockProbe, colorize bool) string {
	if !probe.probeOK {
		return renderStatusLine("Instance lock", statusWarn, fmt.Sprintf("could not probe %s", probe.path), colorize)
	}
	if probe.held {
		return renderStatusLine("Instance lock", statusOK, fmt.Sprintf("held (%s); a ferry process is running", probe.path), colorize)
	}
	return renderStatusLine("Instance lock", statusInfo, "free; no ferry process is running", colorize)
}

func probeLock(path string) lockProbe {
	probe := lockProbe{path: path}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return probe
	}
	probe.probeOK = true
	if locked {
		_ = lock.Unlock()
		return probe
	}
	probe.held = true
	return probe
}

func renderRecentPasses(cmd *cobra.Command, ctx *commandContext, titler cases.Caser, limit int) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	jrnl, err := journal.Open(cfg)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "journal unavailable: %v\n", err)
		return nil
	}
	defer jrnl.Close()

	passes, err := jrnl.RecentPasses(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Recent Passes", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(passes) == 0 {
		fmt.Fprintln(out, statusIndent+"No passes recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(passes))
	for _, pass := range passes {
		rows = append(rows, []string{
			shortPassID(pass.ID),
			titler.String(pass.Mode),
			pass.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(pass.Found),
			strconv.Itoa(pass.Succeeded),
			strconv.Itoa(pass.Failed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			{name: "Pass"},
			{name: "Trigger"},
			{name: "Started"},
			{name: "Found", numeric: true},
			{name: "Copied", numeric: true},
			{name: "Failed", numeric: true},
		},
		rows,
	))
	return nil
}

func shortPassID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
