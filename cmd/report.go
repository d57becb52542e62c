package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/controller"
	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

var reportShowMissingFlag bool
var reportFormatFlag string

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	initConfig()

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the coverage report from the last run",
		Long: `Render the per-file coverage report from the dataset the last run left
in the working directory: statement count, miss count, percentage covered
and, with --show-missing, the uncovered line ranges.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Report(cmd.Context(), domain.ReportArgs{
				Profile:     m.Path(viper.GetString(profileConfigKey)),
				Omit:        viper.GetStringSlice(omitConfigKey),
				ShowMissing: viper.GetBool(showMissingConfigKey),
				Format:      controller.Format(viper.GetString(formatConfigKey)),
			})
		},
	}

	configureReportFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func configureReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&reportShowMissingFlag, showMissingFlagName, "m", viper.GetBool(showMissingConfigKey), "annotate each file with its uncovered line ranges")
	bindFlagToConfig(cmd.Flags().Lookup(showMissingFlagName), showMissingConfigKey)

	cmd.Flags().StringVar(&reportFormatFlag, formatFlagName, viper.GetString(formatConfigKey), "output format: table, json or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)
}
