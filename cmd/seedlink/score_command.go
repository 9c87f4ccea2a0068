package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seedlink/internal/linkage"
	"seedlink/internal/matcher"
	"seedlink/internal/record"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var (
		crop         string
		institutionA string
		institutionB string
		yearA        int
		yearB        int
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "score <regulatory-name> <portal-name>",
		Short: "Score one candidate pair under the configured policy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			linker, err := linkage.New(cfg, nil)
			if err != nil {
				return err
			}

			result, err := linker.ScorePair(
				record.SourceRecord{
					VarietyName:   args[0],
					CropType:      crop,
					Institution:   institutionA,
					YearOfRelease: yearA,
				},
				record.SourceRecord{
					VarietyName:   args[1],
					CropType:      crop,
					Institution:   institutionB,
					YearOfRelease: yearB,
				},
			)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}

			rows := [][]string{
				{"Edit distance", fmt.Sprintf("%.3f", result.Vector.EditDistance)},
				{"Token overlap", fmt.Sprintf("%.3f", result.Vector.TokenOverlap)},
				{"Jaro-Winkler", fmt.Sprintf("%.3f", result.Vector.JaroWinkler)},
				{"Institution", institutionSignal(result)},
				{"Confidence", fmt.Sprintf("%.3f", result.Confidence)},
				{"Tier", string(result.Tier)},
			}
			if result.ManualReview {
				rows = append(rows, []string{"Manual review", string(result.ReviewReason)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Signal", "Value"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().StringVar(&crop, "crop", "", "Crop type for both records")
	cmd.Flags().StringVar(&institutionA, "institution-a", "", "Breeding institution on the regulatory side")
	cmd.Flags().StringVar(&institutionB, "institution-b", "", "Breeding institution on the portal side")
	cmd.Flags().IntVar(&yearA, "year-a", 0, "Release year on the regulatory side")
	cmd.Flags().IntVar(&yearB, "year-b", 0, "Release year on the portal side")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the decision as JSON")
	return cmd
}

func institutionSignal(result matcher.Result) string {
	if !result.Vector.InstitutionKnown {
		return "unknown"
	}
	return fmt.Sprintf("%.3f", result.Vector.Institution)
}
