package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seedlink/internal/ingest"
	"seedlink/internal/linkage"
	"seedlink/internal/matcher"
	"seedlink/internal/record"
	"seedlink/internal/store"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var (
		regulatoryPath string
		portalPath     string
		jsonOutput     bool
		noSave         bool
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Reconcile the two catalogs into unified variety records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			regulatory, err := ingest.ReadFile(regulatoryPath, record.SourceRegulatory)
			if err != nil {
				return err
			}
			portal, err := ingest.ReadFile(portalPath, record.SourcePortal)
			if err != nil {
				return err
			}

			linker, err := linkage.New(cfg, logger)
			if err != nil {
				return err
			}
			outcome, err := linker.Link(cmd.Context(), regulatory, portal)
			if err != nil {
				return err
			}

			if !noSave {
				err = ctx.withStore(func(st *store.Store) error {
					return st.SaveOutcome(cmd.Context(), outcome)
				})
				if err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd, outcome.Report)
			}
			printRunSummary(cmd, &outcome.Report)
			if !noSave {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s\n", outcome.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&regulatoryPath, "regulatory", "", "Regulatory catalog CSV")
	cmd.Flags().StringVar(&portalPath, "portal", "", "Seed portal catalog CSV")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run report as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the run")
	_ = cmd.MarkFlagRequired("regulatory")
	_ = cmd.MarkFlagRequired("portal")
	return cmd
}

func printRunSummary(cmd *cobra.Command, report *linkage.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s finished in %s\n\n", report.RunID, report.Duration().Round(time.Millisecond))
	rows := [][]string{
		{"Regulatory records", strconv.Itoa(report.RegulatoryTotal)},
		{"Portal records", strconv.Itoa(report.PortalTotal)},
		{"Rejected records", strconv.Itoa(len(report.Rejections))},
		{"Pairs scored", strconv.Itoa(report.PairsScored)},
		{"Matched", strconv.Itoa(report.Matched)},
		{"Unmatched regulatory", strconv.Itoa(report.UnmatchedRegulatory)},
		{"Unmatched portal", strconv.Itoa(report.UnmatchedPortal)},
		{"Manual review", strconv.Itoa(report.ReviewCount)},
		{"Match rate", fmt.Sprintf("%.1f%%", report.MatchRate*100)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, 2))

	tierRows := make([][]string, 0, 4)
	for _, tier := range []matcher.Tier{matcher.TierHigh, matcher.TierMedium, matcher.TierLow, matcher.TierRejected} {
		tierRows = append(tierRows, []string{string(tier), strconv.Itoa(report.TierCounts[tier])})
	}
	fmt.Fprintln(out, renderTable([]string{"Tier", "Pairs"}, tierRows, 2))
}
