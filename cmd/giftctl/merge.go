package main

import (
	"gift-tracker-go/internal/app"
	mergedomain "gift-tracker-go/internal/domain/merge"
	"gift-tracker-go/pkg/logger"
	"github.com/spf13/cobra"
)

func newMergeCmd(log logger.Logger) *cobra.Command {
	var input mergedomain.Input

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a source household into a target household",
		Long: `Repoint every person, gift and card of the source household to the
target household and retire the source. All changes run in one transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Services().Merge.Merge(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Int64Var(&input.SourceHouseholdID, "source", 0, "Source household id (required)")
	cmd.Flags().Int64Var(&input.TargetHouseholdID, "target", 0, "Target household id (required)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
