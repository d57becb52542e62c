package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

var diffOutputFlag string

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	initConfig()

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two coverage datasets",
		Long: `Show how per-file coverage moved between two datasets. With --output the
block-level count delta (after minus before) is also written as a dataset,
which isolates what a single run added.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Before: m.Path(args[0]),
				After:  m.Path(args[1]),
				Omit:   viper.GetStringSlice(omitConfigKey),
				Output: m.Path(viper.GetString(diffOutputConfigKey)),
			})
		},
	}

	configureDiffFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func configureDiffFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&diffOutputFlag, diffOutputFlagName, viper.GetString(diffOutputConfigKey), "dataset file for the block-level count delta")
	bindFlagToConfig(cmd.Flags().Lookup(diffOutputFlagName), diffOutputConfigKey)
}
