package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ferry/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "history [pass-id]",
		Short: "Show recorded passes and their per-file transfers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			jrnl, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer jrnl.Close()

			if len(args) == 1 {
				return printPassTransfers(cmd, jrnl, strings.TrimSpace(args[0]))
			}
			if failedOnly {
				return printFailedTransfers(cmd, jrnl, limit)
			}
			return printPasses(cmd, jrnl, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of rows to show")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed transfers")
	return cmd
}

func printPasses(cmd *cobra.Command, jrnl *journal.Journal, limit int) error {
	passes, err := jrnl.RecentPasses(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(passes) == 0 {
		fmt.Fprintln(out, "No passes recorded yet")
		return nil
	}

	titler := cases.Title(language.English)
	rows := make([][]string, 0, len(passes))
	for _, pass := range passes {
		rows = append(rows, []string{
			pass.ID,
			titler.String(pass.Mode),
			pass.StartedAt.Local().Format(time.DateTime),
			formatDurationBetween(pass.StartedAt, pass.FinishedAt),
			strconv.Itoa(pass.Found),
			strconv.Itoa(pass.Succeeded),
			strconv.Itoa(pass.Failed),
			pass.ManifestPath,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			{name: "Pass"},
			{name: "Trigger"},
			{name: "Started"},
			{name: "Duration", numeric: true},
			{name: "Found", numeric: true},
			{name: "Copied", numeric: true},
			{name: "Failed", numeric: true},
			{name: "Manifest"},
		},
		rows,
	))
	return nil
}

func printPassTransfers(cmd *cobra.Command, jrnl *journal.Journal, passID string) error {
	transfers, err := jrnl.TransfersForPass(cmd.Context(), passID)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(transfers) == 0 {
		fmt.Fprintf(out, "No transfers recorded for pass %s\n", passID)
		return nil
	}
	fmt.Fprintln(out, renderTransferTable(transfers))
	return nil
}

func printFailedTransfers(cmd *cobra.Command, jrnl *journal.Journal, limit int) error {
	transfers, err := jrnl.FailedTransfers(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(transfers) == 0 {
		fmt.Fprintln(out, "No failed transfers recorded")
		return nil
	}
	fmt.Fprintln(out, renderTransferTable(transfers))
	return nil
}

func renderTransferTable(transfers []journal.Transfer) string {
	titler := cases.Title(language.English)
	rows := make([][]string, 0, len(transfers))
	for _, transfer := range transfers {
		rows = append(rows, []string{
			shortPassID(transfer.PassID),
			transfer.Name,
			strconv.FormatInt(transfer.Size, 10),
			titler.String(transfer.Status),
			strconv.Itoa(transfer.Attempts),
			transfer.Error,
		})
	}
	return renderTable(
		[]column{
			{name: "Pass"},
			{name: "File"},
			{name: "Bytes", numeric: true},
			{name: "Status"},
			{name: "Attempts", numeric: true},
			{name: "Error"},
		},
		rows,
	)
}

func formatDurationBetween(start, finish time.Time) string {
	if start.IsZero() || finish.IsZero() || finish.Before(start) {
		return "-"
	}
	return finish.Sub(start).Round(time.Second).String()
}
