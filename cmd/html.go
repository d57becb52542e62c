package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

var htmlOutputFlag string

// htmlCmd represents the html command.
var htmlCmd = newHTMLCmd()

func newHTMLCmd() *cobra.Command {
	initConfig()

	cmd := &cobra.Command{
		Use:   "html",
		Short: "Render line-level coverage HTML",
		Long:  "Render the dataset into browsable line-level HTML via go tool cover.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.RenderHTML(cmd.Context(), domain.HTMLArgs{
				Profile: m.Path(viper.GetString(profileConfigKey)),
				Output:  m.Path(viper.GetString(htmlOutputConfigKey)),
			})
		},
	}

	configureHTMLFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(htmlCmd)
}

func configureHTMLFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&htmlOutputFlag, htmlOutputFlagName, "o", viper.GetString(htmlOutputConfigKey), "HTML file to write")
	bindFlagToConfig(cmd.Flags().Lookup(htmlOutputFlagName), htmlOutputConfigKey)
}
