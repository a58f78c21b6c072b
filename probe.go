package pysetup

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/magefile/mage/sh"
)

// ReferenceImplementation is the implementation identity reported by the
// canonical interpreter, as printed by platform.python_implementation().
const ReferenceImplementation = "CPython"

// Capabilities answers the environment questions that build conditions
// depend on. Every answer must stay stable for the lifetime of one build
// invocation.
//
// Probe is the production implementation; tests substitute fixed-answer
// fakes so each condition can be exercised without a real toolchain.
type Capabilities interface {
	// IsCPython reports whether the target interpreter is the reference
	// implementation. False when the implementation is definitely
	// something else, or when it could not be determined at all.
	IsCPython() bool

	// Platform returns the OS platform identifier in the interpreter's
	// own vocabulary ("win32", "darwin", "linux", ...).
	Platform() string

	// HasHeader reports whether the named system header can be included
	// by the C toolchain. A missing compiler counts as "not available",
	// never as a fault.
	HasHeader(name string) bool

	// Generation returns the runtime generation this build targets.
	Generation() Generation
}

// ProbeOptions controls how DetectProbe interrogates the environment.
// Every field is optional; the zero value probes the ambient system.
type ProbeOptions struct {
	// PythonPath is the interpreter executable to interrogate.
	// Defaults to "python3", falling back to "python".
	PythonPath string

	// Compiler overrides C compiler discovery. When empty the first of
	// cc, gcc, clang, cl found on PATH is used.
	Compiler string

	// Platform overrides platform detection (useful for planning a
	// build for another machine's layout).
	Platform string

	// Generation is the runtime generation the build targets.
	Generation Generation
}

// Probe holds the answers to the capability queries, computed once per
// build invocation by DetectProbe and immutable afterwards. Header
// answers are resolved lazily on first use and then cached, so repeated
// condition evaluations see identical results.
type Probe struct {
	implementation string
	platform       string
	compiler       string
	generation     Generation

	mu      sync.Mutex
	headers map[string]bool
}

// compilerCandidates is tried in order when no compiler is configured.
// cl covers MSVC installs where no gcc-compatible driver exists.
var compilerCandidates = []string{"cc", "gcc", "clang", "cl"}

// DetectProbe interrogates the environment once and returns an immutable
// Probe. Interrogation failures are never fatal: an interpreter that
// cannot be executed yields an unknown implementation (so IsCPython
// reports false), and a missing compiler makes every header unavailable.
func DetectProbe(ctx context.Context, opts ProbeOptions) *Probe {
	p := &Probe{
		generation: opts.Generation,
		compiler:   opts.Compiler,
		platform:   opts.Platform,
		headers:    make(map[string]bool),
	}

	python := opts.PythonPath
	if python == "" {
		python = lookupFirst("python3", "python")
	}

	if python != "" {
		p.implementation = pythonOneliner(ctx, python,
			"import platform; print(platform.python_implementation())")
		if p.platform == "" {
			p.platform = pythonOneliner(ctx, python, "import sys; print(sys.platform)")
		}
	}

	if p.platform == "" {
		p.platform = goosPlatform(runtime.GOOS)
	}

	if p.compiler == "" {
		p.compiler = lookupFirst(compilerCandidates...)
	}

	log.Debug("environment probed",
		"implementation", p.implementation,
		"platform", p.platform,
		"compiler", p.compiler,
		"generation", p.generation)

	return p
}

// NewProbe returns a probe with fixed implementation and platform answers
// and no C toolchain, so every header reports unavailable. Intended for
// planning runs that must not touch the host toolchain.
func NewProbe(implementation, platform string, generation Generation) *Probe {
	return &Probe{
		implementation: implementation,
		platform:       platform,
		generation:     generation,
		headers:        make(map[string]bool),
	}
}

// IsCPython reports whether the probed interpreter identified itself as
// the reference implementation.
func (p *Probe) IsCPython() bool {
	return p.implementation == ReferenceImplementation
}

// Platform returns the probed OS platform identifier.
func (p *Probe) Platform() string {
	return p.platform
}

// Generation returns the runtime generation this probe was built for.
func (p *Probe) Generation() Generation {
	return p.generation
}

// Compiler returns the C compiler the probe uses for header checks, or
// an empty string when none was found.
func (p *Probe) Compiler() string {
	return p.compiler
}

// HasHeader test-compiles a one-line include of the named header and
// reports whether it succeeded. The result is cached for the lifetime of
// the probe. No build artifacts are left behind: the probe source lives
// in a temp directory and the compiler runs in syntax-only mode.
func (p *Probe) HasHeader(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if answer, ok := p.headers[name]; ok {
		return answer
	}

	answer := p.checkHeader(name)
	p.headers[name] = answer

	log.Debug("header probed", "header", name, "available", answer)
	return answer
}

func (p *Probe) checkHeader(name string) bool {
	if p.compiler == "" {
		return false
	}

	dir, err := os.MkdirTemp("", "pysetup-probe-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "header_probe.c")
	snippet := "#include <" + name + ">\n\nint main(void) { return 0; }\n"
	if err := os.WriteFile(src, []byte(snippet), 0o644); err != nil {
		return false
	}

	// cl has no -fsyntax-only; /Zs is its syntax-check mode.
	var args []string
	if strings.TrimSuffix(filepath.Base(p.compiler), ".exe") == "cl" {
		args = []string{"/nologo", "/Zs", src}
	} else {
		args = []string{"-fsyntax-only", src}
	}

	return sh.Run(p.compiler, args...) == nil
}

// pythonOneliner runs a single-expression interrogation script against
// the target interpreter and returns its trimmed stdout, or an empty
// string on any failure.
func pythonOneliner(ctx context.Context, python, script string) string {
	cmd := exec.CommandContext(ctx, python, "-c", script)
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// lookupFirst returns the first name found on PATH, or an empty string.
func lookupFirst(names ...string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// goosPlatform maps a Go OS identifier onto the interpreter's platform
// vocabulary, for hosts where no interpreter is available to ask.
func goosPlatform(goos string) string {
	switch goos {
	case "windows":
		return "win32"
	case "darwin":
		return "darwin"
	case "aix":
		return "aix"
	default:
		// sys.platform reports linux/freebsd/openbsd/... unchanged.
		return goos
	}
}
