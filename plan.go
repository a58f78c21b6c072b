package pysetup

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// BuildPlan is the configuration handed back to the packaging tool: the
// extensions to compile, the modules to install, the console scripts to
// register, and the static metadata and dependency tables. It is plain
// data; re-running Configure against an unchanged environment yields an
// identical plan.
type BuildPlan struct {
	Metadata   Metadata            `json:"metadata"`
	Generation string              `json:"generation"`
	Requires   []string            `json:"requires,omitempty"`
	Extras     map[string][]string `json:"extras,omitempty"`
	Extensions []PlannedExtension  `json:"extensions"`
	Modules    []Module            `json:"modules"`
	Scripts    []string            `json:"scripts"`
}

// PlannedExtension is the serializable form of a selected extension.
// The condition that selected it is carried along for inspection.
type PlannedExtension struct {
	Name      string   `json:"name"`
	Sources   []string `json:"sources"`
	Libraries []string `json:"libraries,omitempty"`
	Condition string   `json:"condition,omitempty"`
}

// Configure runs the full selection once, synchronously: extensions
// against the probed capabilities, discovered modules against the
// allow-list (bypassed entirely on the legacy generation, where the
// allow-list concept does not apply), and console scripts against the
// target generation.
//
// Any condition fault aborts configuration; there is no partial-success
// mode. An environment where nothing is buildable is not a fault — it
// yields a plan with empty selections.
func Configure(manifest *Manifest, caps Capabilities, discovered []Module) (*BuildPlan, error) {
	generation := caps.Generation()

	extensions, err := manifest.BuildExtensions()
	if err != nil {
		return nil, err
	}
	selected, err := SelectExtensions(extensions, caps)
	if err != nil {
		return nil, fmt.Errorf("selecting extensions: %w", err)
	}

	var modules []Module
	if generation == GenerationLegacy {
		modules = append([]Module{}, discovered...)
	} else {
		modules = FilterModules(discovered, manifest.BuildAllowList())
	}

	scripts, err := manifest.ScriptSet()
	if err != nil {
		return nil, err
	}

	plan := &BuildPlan{
		Metadata:   manifest.Metadata,
		Generation: generation.String(),
		Requires:   manifest.RequiresFor(generation),
		Extras:     manifest.ExtrasRequire(),
		Extensions: planExtensions(selected),
		Modules:    modules,
		Scripts:    scripts.EntryPoints(generation),
	}

	log.Info("build configured",
		"generation", generation,
		"extensions", len(plan.Extensions),
		"modules", len(plan.Modules),
		"scripts", len(plan.Scripts))

	return plan, nil
}

func planExtensions(selected []Extension) []PlannedExtension {
	planned := make([]PlannedExtension, len(selected))
	for i, ext := range selected {
		planned[i] = PlannedExtension{
			Name:      ext.Name,
			Sources:   ext.Sources,
			Libraries: ext.Libraries,
		}
		if ext.Condition != nil {
			planned[i].Condition = ext.Condition.String()
		}
	}
	return planned
}
