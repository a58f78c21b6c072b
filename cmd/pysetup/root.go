package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "pysetup",
	Short: "Build configuration for partially-ported Python codebases",
	Long: `pysetup computes the build configuration for a large, partially-ported
Python codebase: which native extension modules to compile, which
pure-Python modules to install, and which console scripts to register.

Decisions are driven by environment probes (interpreter implementation,
platform, C header availability) and the project's manifest, which
carries the extension descriptor table, the allow-list for the current
runtime generation, and the console-script pools.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command. Any error exits non-zero: build
// configuration has no partial-success mode.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("build configuration failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")

	viper.SetEnvPrefix("pysetup")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(planCmd)
}
