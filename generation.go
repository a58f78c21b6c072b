package pysetup

import "fmt"

// Generation identifies which major runtime generation a build targets.
//
// Large, partially-ported codebases straddle two interpreter generations
// at once: the legacy generation the bulk of the code was written for,
// and the current generation that only an explicitly ported subset of
// modules supports. Several selection decisions branch on this value:
//   - ModuleFilter only applies when targeting the current generation
//   - console-script pools differ between generations
//   - base install requirements differ between generations
type Generation int

const (
	// GenerationCurrent targets the newer runtime generation. Only
	// allow-listed modules are installed.
	GenerationCurrent Generation = iota

	// GenerationLegacy targets the older runtime generation. The whole
	// module tree is installed and legacy-only console scripts are
	// registered.
	GenerationLegacy
)

// String returns the manifest/CLI spelling of the generation.
func (g Generation) String() string {
	switch g {
	case GenerationLegacy:
		return "legacy"
	case GenerationCurrent:
		return "current"
	default:
		return fmt.Sprintf("Generation(%d)", int(g))
	}
}

// ParseGeneration converts the manifest/CLI spelling back to a Generation.
func ParseGeneration(s string) (Generation, error) {
	switch s {
	case "legacy":
		return GenerationLegacy, nil
	case "current", "":
		return GenerationCurrent, nil
	default:
		return GenerationCurrent, fmt.Errorf("unknown runtime generation: %q (want \"legacy\" or \"current\")", s)
	}
}
