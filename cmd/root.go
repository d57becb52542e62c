// Package cmd provides the root command and CLI setup for covrun.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"covrun.dev/pkg/covrun/internal/adapter"
	"covrun.dev/pkg/covrun/internal/controller"
	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var runnerAdapter adapter.TestRunnerAdapter
var profileStore adapter.ProfileStore
var ui controller.UI
var workflow domain.Workflow

// profileFlag is the coverage dataset path shared by all commands.
var profileFlag string

// omitPatterns filters files out of rendered reports.
var omitPatterns []string

// verboseFlag raises file-log verbosity to debug.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	runnerAdapter = adapter.NewLocalTestRunnerAdapter()
	profileStore = adapter.NewLocalProfileStore()
	workflow = domain.NewHarness(fsAdapter, runnerAdapter, profileStore, ui)
}

const pathPatternsHelp = `Supports Go-style package patterns:
  - ./...          all packages in the current module
  - ./pkg/...      all packages under pkg
  - ./cmd ./pkg    several packages`

const rootLongDescription = `covrun wraps a coverage-instrumented test run and its report rendering.

"covrun run" executes the test suite with go test -coverprofile, leaving
the coverage dataset in the working directory. "covrun report" reads that
dataset back and prints per-file statement counts, miss counts, coverage
percentages and, on request, the uncovered line ranges.

` + pathPatternsHelp

const runLongDescription = `Run the test suite under coverage instrumentation (default: current module).

The test runner's output and exit status pass through untouched, so a
failing suite fails covrun the same way.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	initConfig()

	cmd := &cobra.Command{
		Use:   "covrun",
		Short: "Coverage harness for Go test suites",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&profileFlag, profileFlagName, "f",
			viper.GetString(profileConfigKey),
			"coverage dataset file written by run and read by report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(profileFlagName), profileConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&omitPatterns, omitFlagName, "x", viper.GetStringSlice(omitConfigKey), "omit files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(omitFlagName), omitConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "log debug details to the log file")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// The underlying test runner's exit status propagates to the caller, so a
// failing suite or a misconfigured tool exits exactly like the tool itself.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		os.Exit(exitErr.ExitCode())
	}

	os.Exit(1)
}

func parseTargets(args []string) []m.Path {
	targets := make([]m.Path, 0, len(args))
	for _, arg := range args {
		targets = append(targets, m.Path(arg))
	}

	return targets
}
