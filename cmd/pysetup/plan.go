package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pysetup "github.com/contriboss/python-setup-go"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Probe the environment and print the build plan as JSON",
	Long: `Plan loads the project manifest, probes the environment once, scans the
source tree for installable modules, and prints the resulting build
plan as JSON on stdout.

Probe inputs can be overridden via flags or PYSETUP_* environment
variables, e.g. PYSETUP_CC or PYSETUP_PLATFORM, to plan for a target
that differs from the host.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	flags := planCmd.Flags()
	flags.String("manifest", "pysetup.yaml", "project manifest file")
	flags.String("source-dir", "", "source tree to scan for modules")
	flags.String("package", "", "root package name of the source tree")
	flags.String("generation", "current", "target runtime generation (legacy or current)")
	flags.String("python", "", "interpreter executable to interrogate")
	flags.String("cc", "", "C compiler for header probes")
	flags.String("platform", "", "platform identifier override")

	for _, name := range []string{"manifest", "source-dir", "package", "generation", "python", "cc", "platform"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	generation, err := pysetup.ParseGeneration(viper.GetString("generation"))
	if err != nil {
		return err
	}

	manifest, err := pysetup.LoadManifest(viper.GetString("manifest"))
	if err != nil {
		return err
	}

	var modules []pysetup.Module
	if dir := viper.GetString("source-dir"); dir != "" {
		rootPackage := viper.GetString("package")
		if rootPackage == "" {
			rootPackage = manifest.Metadata.Name
		}
		modules, err = pysetup.ScanModules(dir, rootPackage)
		if err != nil {
			return err
		}
	}

	probe := pysetup.DetectProbe(ctx, pysetup.ProbeOptions{
		PythonPath: viper.GetString("python"),
		Compiler:   viper.GetString("cc"),
		Platform:   viper.GetString("platform"),
		Generation: generation,
	})

	plan, err := pysetup.Configure(manifest, probe, modules)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(plan); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return nil
}
