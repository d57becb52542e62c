package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <dataset> <dataset> [datasets...]",
		Short: "Merge coverage datasets into a single one",
		Long: `Merge datasets from separate instrumented runs (CI shards, per-package
runs) into the dataset file given by --profile.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs: parseTargets(args),
				Output: m.Path(viper.GetString(profileConfigKey)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
