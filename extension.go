package pysetup

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Extension describes one native extension module: what to compile, what
// to link against, and the condition under which it should be built at
// all. Descriptors are declared once and never mutated; names must be
// unique within a descriptor table (the table author's responsibility,
// not enforced here).
type Extension struct {
	// Name is the fully-qualified module name the compiled extension
	// installs as, e.g. "pkg.internal.iocpsupport".
	Name string

	// Sources are the C source files, in compilation order.
	Sources []string

	// Libraries are the link-library names the extension needs.
	Libraries []string

	// Condition gates the build. A nil Condition means always build.
	Condition Condition
}

// SelectExtensions evaluates each descriptor's condition against the
// probed capabilities and returns the subset to build, preserving the
// declaration order of the input so build order stays reproducible.
//
// A condition fault aborts selection: an extension whose buildability
// cannot be determined indicates a broken probe or a malformed
// descriptor, and shipping a silently wrong extension set is worse than
// failing the build.
func SelectExtensions(extensions []Extension, caps Capabilities) ([]Extension, error) {
	selected := make([]Extension, 0, len(extensions))

	for _, ext := range extensions {
		cond := ext.Condition
		if cond == nil {
			cond = Always()
		}

		ok, err := cond.Evaluate(caps)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", ext.Name, err)
		}
		if !ok {
			log.Debug("extension excluded", "extension", ext.Name, "condition", cond.String())
			continue
		}

		log.Debug("extension selected", "extension", ext.Name)
		selected = append(selected, ext)
	}

	return selected, nil
}
