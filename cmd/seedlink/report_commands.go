package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seedlink/internal/linkage"
	"seedlink/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved linkage runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved runs")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.FinishedAt.Local().Format(time.DateTime),
						strconv.Itoa(run.Matched),
						strconv.Itoa(run.ReviewCount),
						fmt.Sprintf("%.1f%%", run.MatchRate*100),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Finished", "Matched", "Review", "Match rate"}, rows, 3, 4, 5))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	return cmd
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show the report of a saved run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				run, err := lookupRun(cmd, st, args)
				if err != nil {
					return err
				}

				var report linkage.Report
				if err := json.Unmarshal([]byte(run.ReportJSON), &report); err != nil {
					return fmt.Errorf("decode stored report: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, report)
				}

				printRunSummary(cmd, &report)
				if len(report.Rejections) > 0 {
					rows := make([][]string, 0, len(report.Rejections))
					for _, rej := range report.Rejections {
						rows = append(rows, []string{rej.RecordID, string(rej.Source), rej.Reason})
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Record", "Source", "Rejected because"}, rows))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}

func newVarietiesCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		cropFilter string
	)

	cmd := &cobra.Command{
		Use:   "varieties [run-id]",
		Short: "List the unified varieties of a saved run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				run, err := lookupRun(cmd, st, args)
				if err != nil {
					return err
				}
				varieties, err := st.Varieties(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if cropFilter != "" {
					filtered := varieties[:0]
					for _, v := range varieties {
						if v.CropKey == cropFilter {
							filtered = append(filtered, v)
						}
					}
					varieties = filtered
				}
				if jsonOutput {
					return writeJSON(cmd, varieties)
				}

				rows := make([][]string, 0, len(varieties))
				for _, v := range varieties {
					year := ""
					if v.YearOfRelease > 0 {
						year = strconv.Itoa(v.YearOfRelease)
					}
					rows = append(rows, []string{
						v.VarietyName,
						v.CropKey,
						v.Institution,
						year,
						strconv.Itoa(v.SourceCount()),
						fmt.Sprintf("%.2f", v.Completeness),
						string(v.QualityFlag),
						string(v.Confidence),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Variety", "Crop", "Institution", "Year", "Sources", "Complete", "Quality", "Confidence"},
					rows, 4, 5, 6))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit varieties as JSON")
	cmd.Flags().StringVar(&cropFilter, "crop", "", "Only show one canonical crop")
	return cmd
}

func lookupRun(cmd *cobra.Command, st *store.Store, args []string) (*store.Run, error) {
	if len(args) == 1 {
		return st.GetRun(cmd.Context(), args[0])
	}
	return st.LatestRun(cmd.Context())
}
