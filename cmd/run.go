package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

var runSourceFlag []string
var runParallelFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	initConfig()

	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run tests under coverage instrumentation",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Measure(cmd.Context(), domain.MeasureArgs{
				Targets: parseTargets(args),
				Source:  viper.GetStringSlice(sourceConfigKey),
				Profile: m.Path(viper.GetString(profileConfigKey)),
				Threads: viper.GetInt(runParallelConfigKey),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&runSourceFlag, sourceFlagName, "s", viper.GetStringSlice(sourceConfigKey), "instrumentation scope passed to -coverpkg (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(sourceFlagName), sourceConfigKey)

	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of concurrent test invocations when several targets are given")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
}
