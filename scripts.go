package pysetup

import (
	"fmt"
	"strings"
)

// ConsoleScript is one console entry point: a command name bound to a
// function inside an installable module.
type ConsoleScript struct {
	Command  string // installed command name, e.g. "trial"
	Module   string // fully-qualified module, e.g. "pkg.scripts.trial"
	Function string // entry function inside the module, e.g. "run"
}

// EntryPoint renders the script in entry-point syntax:
// "command = package.module:function".
func (s ConsoleScript) EntryPoint() string {
	return fmt.Sprintf("%s = %s:%s", s.Command, s.Module, s.Function)
}

// ParseConsoleScript parses entry-point syntax back into its parts.
func ParseConsoleScript(entry string) (ConsoleScript, error) {
	name, target, ok := strings.Cut(entry, "=")
	if !ok {
		return ConsoleScript{}, fmt.Errorf("console script %q: missing \"=\"", entry)
	}
	module, function, ok := strings.Cut(target, ":")
	if !ok {
		return ConsoleScript{}, fmt.Errorf("console script %q: missing \":\" in target", entry)
	}
	script := ConsoleScript{
		Command:  strings.TrimSpace(name),
		Module:   strings.TrimSpace(module),
		Function: strings.TrimSpace(function),
	}
	if script.Command == "" || script.Module == "" || script.Function == "" {
		return ConsoleScript{}, fmt.Errorf("console script %q: empty component", entry)
	}
	return script, nil
}

// ScriptSet holds the two static console-script pools: scripts ported to
// the current runtime generation (usable on both) and scripts that only
// run on the legacy generation.
type ScriptSet struct {
	Ported     []ConsoleScript
	LegacyOnly []ConsoleScript
}

// For returns the scripts applicable to the given generation. The
// current generation gets the ported pool only. The legacy generation
// gets both pools, legacy-only entries first; consumers rely on that
// ordering for deterministic entry-point registration, so it is part of
// the contract, not an accident.
func (s ScriptSet) For(g Generation) []ConsoleScript {
	if g != GenerationLegacy {
		return append([]ConsoleScript{}, s.Ported...)
	}
	scripts := make([]ConsoleScript, 0, len(s.LegacyOnly)+len(s.Ported))
	scripts = append(scripts, s.LegacyOnly...)
	scripts = append(scripts, s.Ported...)
	return scripts
}

// EntryPoints renders the applicable scripts for a generation in
// entry-point syntax, in the same order as For.
func (s ScriptSet) EntryPoints(g Generation) []string {
	scripts := s.For(g)
	entries := make([]string, len(scripts))
	for i, script := range scripts {
		entries[i] = script.EntryPoint()
	}
	return entries
}
