// Package pysetup decides, at package-build time, which native extension
// modules to compile and which pure-Python modules to install for a
// large, partially-ported multi-platform Python codebase.
//
// This package is the Go equivalent of the conditional build machinery
// such codebases carry in their setup scripts: predicate-gated extension
// descriptors, capability probes for the environment they depend on, and
// an allow-list filter that prunes a discovered module tree down to what
// is safe to install on a newer runtime generation.
//
// # Basic Usage
//
// Load the project manifest, probe the environment once, and configure
// the build:
//
//	manifest, err := pysetup.LoadManifest("pysetup.yaml")
//	if err != nil {
//	    return err
//	}
//
//	probe := pysetup.DetectProbe(ctx, pysetup.ProbeOptions{
//	    Generation: pysetup.GenerationCurrent,
//	})
//
//	modules, err := pysetup.ScanModules("src/mypkg", "mypkg")
//	if err != nil {
//	    return err
//	}
//
//	plan, err := pysetup.Configure(manifest, probe, modules)
//
// The resulting BuildPlan is plain data for the packaging tool: selected
// extension build specifications, the filtered module-install list, and
// the console entry points for the target runtime generation.
//
// # Architecture
//
// Selection is layered over a single probe:
//
//	Probe (Capabilities)
//	├── SelectExtensions - condition-gated extension descriptors
//	├── FilterModules    - allow-list filter for the current generation
//	└── ScriptSet        - per-generation console-script pools
//
// Conditions are named values, not opaque closures: PlatformIs,
// OnCPython, HasHeader, LegacyOnly and combinators, plus ParseCondition
// for expression-syntax conditions declared in manifests.
//
// # Error Handling
//
// A capability that cannot be determined (no interpreter, no compiler,
// no header) is a negative answer and the build continues without it. A
// condition that faults aborts the whole configuration: a build
// condition that cannot be evaluated must stop the build rather than
// silently ship a wrong extension set.
//
// # Determinism
//
// All selection is single-threaded, one-shot, and order-preserving.
// Re-running against an unchanged environment produces an identical
// plan.
package pysetup
