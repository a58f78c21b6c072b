package pysetup

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// Manifest is the static build-configuration data for one project: the
// package metadata, the dependency tables, the extension descriptor
// table, the console-script pools, and the allow-list groups for the
// current runtime generation. Manifests are loaded once at process start
// and never modified.
type Manifest struct {
	Metadata   Metadata        `yaml:"metadata"`
	Requires   RequiresSpec    `yaml:"requires"`
	Extras     ExtrasSpec      `yaml:"extras"`
	Extensions []ExtensionSpec `yaml:"extensions"`
	Scripts    ScriptPools     `yaml:"scripts"`
	AllowList  AllowListSpec   `yaml:"allowlist"`
}

// Metadata is the static package metadata handed through to the
// packaging tool unchanged.
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Author      string   `yaml:"author" json:"author,omitempty"`
	AuthorEmail string   `yaml:"author_email" json:"author_email,omitempty"`
	Maintainer  string   `yaml:"maintainer" json:"maintainer,omitempty"`
	URL         string   `yaml:"url" json:"url,omitempty"`
	License     string   `yaml:"license" json:"license,omitempty"`
	Classifiers []string `yaml:"classifiers" json:"classifiers,omitempty"`
}

// RequiresSpec holds the base install requirements per runtime
// generation, as setuptools version specifiers.
type RequiresSpec struct {
	Current []string `yaml:"current"`
	Legacy  []string `yaml:"legacy"`
}

// ExtrasSpec declares optional dependency groups.
//
// Options is the table of named groups. PlatformIndependent names the
// groups that work everywhere; their union is published as the
// "all_non_platform" extra. Platforms maps a published platform extra
// (e.g. "windows_platform") to a group that is merged with the
// platform-independent union instead of being published on its own.
type ExtrasSpec struct {
	Options             map[string][]string `yaml:"options"`
	PlatformIndependent []string            `yaml:"platform_independent"`
	Platforms           map[string]string   `yaml:"platforms"`
}

// ExtensionSpec is the serialized form of an extension descriptor. The
// condition is an expression in ParseCondition syntax; an empty
// condition means always build.
type ExtensionSpec struct {
	Name      string   `yaml:"name"`
	Sources   []string `yaml:"sources"`
	Libraries []string `yaml:"libraries"`
	Condition string   `yaml:"condition"`
}

// ScriptPools holds the two console-script pools in entry-point syntax.
type ScriptPools struct {
	Ported     []string `yaml:"ported"`
	LegacyOnly []string `yaml:"legacy_only"`
}

// AllowListSpec holds the two externally maintained allow-list groups:
// modules ported to the current generation, and test-data files that
// ship alongside them.
type AllowListSpec struct {
	Ported   []string `yaml:"ported"`
	TestData []string `yaml:"test_data"`
}

// LoadManifest reads and validates a manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()

	manifest, err := LoadManifestFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return manifest, nil
}

// LoadManifestFromReader reads and validates a manifest from an
// io.Reader. Unknown fields are rejected so a typoed key cannot
// silently drop part of the build configuration.
func LoadManifestFromReader(r io.Reader) (*Manifest, error) {
	var manifest Manifest

	decoder := yaml.NewDecoder(r, yaml.Strict())
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// validate rejects manifests that would break selector invariants:
// duplicate extension names, extensions without sources, malformed
// conditions, and malformed script entries. Validation runs at load
// time so faults surface before any selection does.
func (m *Manifest) validate() error {
	seen := make(map[string]struct{}, len(m.Extensions))
	for _, ext := range m.Extensions {
		if ext.Name == "" {
			return fmt.Errorf("extension with empty name")
		}
		if _, dup := seen[ext.Name]; dup {
			return fmt.Errorf("duplicate extension name %q", ext.Name)
		}
		seen[ext.Name] = struct{}{}

		if len(ext.Sources) == 0 {
			return fmt.Errorf("extension %s: no sources", ext.Name)
		}
		if ext.Condition != "" {
			if _, err := ParseCondition(ext.Condition); err != nil {
				return fmt.Errorf("extension %s: %w", ext.Name, err)
			}
		}
	}

	for _, entry := range append(append([]string{}, m.Scripts.LegacyOnly...), m.Scripts.Ported...) {
		if _, err := ParseConsoleScript(entry); err != nil {
			return err
		}
	}

	for _, group := range m.Extras.PlatformIndependent {
		if _, ok := m.Extras.Options[group]; !ok {
			return fmt.Errorf("extras: platform_independent group %q not declared in options", group)
		}
	}
	for extra, group := range m.Extras.Platforms {
		if _, ok := m.Extras.Options[group]; !ok {
			return fmt.Errorf("extras: platform extra %q references undeclared group %q", extra, group)
		}
	}

	return nil
}

// BuildExtensions materializes the descriptor table: conditions are
// compiled and empty conditions become nil (always build).
func (m *Manifest) BuildExtensions() ([]Extension, error) {
	extensions := make([]Extension, 0, len(m.Extensions))
	for _, spec := range m.Extensions {
		ext := Extension{
			Name:      spec.Name,
			Sources:   spec.Sources,
			Libraries: spec.Libraries,
		}
		if spec.Condition != "" {
			cond, err := ParseCondition(spec.Condition)
			if err != nil {
				return nil, fmt.Errorf("extension %s: %w", spec.Name, err)
			}
			ext.Condition = cond
		}
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

// ScriptSet parses the script pools into their structured form.
func (m *Manifest) ScriptSet() (ScriptSet, error) {
	var set ScriptSet
	for _, entry := range m.Scripts.Ported {
		script, err := ParseConsoleScript(entry)
		if err != nil {
			return ScriptSet{}, err
		}
		set.Ported = append(set.Ported, script)
	}
	for _, entry := range m.Scripts.LegacyOnly {
		script, err := ParseConsoleScript(entry)
		if err != nil {
			return ScriptSet{}, err
		}
		set.LegacyOnly = append(set.LegacyOnly, script)
	}
	return set, nil
}

// BuildAllowList merges the ported-modules and test-data groups into the
// allow-list used for filtering.
func (m *Manifest) BuildAllowList() *AllowList {
	return NewAllowList(m.AllowList.Ported, m.AllowList.TestData)
}

// RequiresFor returns the base install requirements for a generation.
func (m *Manifest) RequiresFor(g Generation) []string {
	if g == GenerationLegacy {
		return append([]string{}, m.Requires.Legacy...)
	}
	return append([]string{}, m.Requires.Current...)
}

// ExtrasRequire composes the published extras table: every group not
// reserved for a platform extra is published as-is, the union of the
// platform-independent groups is published as "all_non_platform", and
// each platform extra is its group plus that union.
func (m *Manifest) ExtrasRequire() map[string][]string {
	platformGroups := make(map[string]struct{}, len(m.Extras.Platforms))
	for _, group := range m.Extras.Platforms {
		platformGroups[group] = struct{}{}
	}

	extras := make(map[string][]string)
	for name, deps := range m.Extras.Options {
		if _, reserved := platformGroups[name]; reserved {
			continue
		}
		extras[name] = append([]string{}, deps...)
	}

	var independent []string
	for _, group := range m.Extras.PlatformIndependent {
		independent = append(independent, m.Extras.Options[group]...)
	}
	if len(independent) > 0 {
		extras["all_non_platform"] = independent
	}

	for extra, group := range m.Extras.Platforms {
		combined := append([]string{}, m.Extras.Options[group]...)
		combined = append(combined, independent...)
		extras[extra] = combined
	}

	return extras
}
