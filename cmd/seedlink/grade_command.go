package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seedlink/internal/ingest"
	"seedlink/internal/linkage"
	"seedlink/internal/merge"
	"seedlink/internal/normalize"
	"seedlink/internal/record"
)

func newGradeCommand(ctx *commandContext) *cobra.Command {
	var (
		source     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "grade <catalog.csv>",
		Short: "Grade completeness and confidence of one catalog without linking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src := record.SourceRegulatory
			switch source {
			case "regulatory":
			case "portal":
				src = record.SourcePortal
			default:
				return fmt.Errorf("unknown --source %q (want regulatory or portal)", source)
			}
			records, err := ingest.ReadFile(args[0], src)
			if err != nil {
				return err
			}
			linker, err := linkage.New(cfg, nil)
			if err != nil {
				return err
			}

			graded := make([]record.UnifiedVariety, 0, len(records))
			for i := range records {
				records[i].CropKey = normalize.Normalize(records[i].CropType, normalize.KindCrop)
				unified := merge.Single(&records[i])
				linker.Grader().Apply(&unified)
				graded = append(graded, unified)
			}

			if jsonOutput {
				return writeJSON(cmd, graded)
			}
			rows := make([][]string, 0, len(graded))
			for _, v := range graded {
				year := ""
				if v.YearOfRelease > 0 {
					year = strconv.Itoa(v.YearOfRelease)
				}
				rows = append(rows, []string{
					v.VarietyName,
					v.CropType,
					year,
					fmt.Sprintf("%.2f", v.Completeness),
					string(v.QualityFlag),
					string(v.Confidence),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Variety", "Crop", "Year", "Complete", "Quality", "Confidence"}, rows, 3, 4))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "regulatory", "Catalog flavor: regulatory or portal")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit graded records as JSON")
	return cmd
}
