package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seedlink/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Work the manual review queue",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewResolveCommand(ctx, "accept", store.ReviewAccepted,
		"Accept a flagged match as a true link"))
	reviewCmd.AddCommand(newReviewResolveCommand(ctx, "reject", store.ReviewRejected,
		"Reject a flagged match as a false link"))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches awaiting a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				pending, err := st.PendingReviews(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, pending)
				}
				if len(pending) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Review queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(pending))
				for _, entry := range pending {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.RegulatoryID,
						entry.PortalID,
						entry.Tier,
						fmt.Sprintf("%.3f", entry.Confidence),
						entry.Reason,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Regulatory", "Portal", "Tier", "Confidence", "Reason"}, rows, 1, 5))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the queue as JSON")
	return cmd
}

func newReviewResolveCommand(ctx *commandContext, use string, decision store.ReviewStatus, short string) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid review id %q", args[0])
			}
			return ctx.withStore(func(st *store.Store) error {
				if err := st.ResolveReview(cmd.Context(), id, decision, note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Review %d %s\n", id, decision)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Reviewer note recorded with the decision")
	return cmd
}
