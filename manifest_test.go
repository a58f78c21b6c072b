package pysetup

import (
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func loadTestManifest(t *testing.T) *Manifest {
	t.Helper()

	manifest, err := LoadManifest(filepath.Join("testdata", "pysetup.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	return manifest
}

func TestLoadManifest(t *testing.T) {
	manifest := loadTestManifest(t)

	if manifest.Metadata.Name != "hurricane" {
		t.Errorf("Metadata.Name = %q", manifest.Metadata.Name)
	}
	if manifest.Metadata.License != "MIT" {
		t.Errorf("Metadata.License = %q", manifest.Metadata.License)
	}
	if len(manifest.Extensions) != 4 {
		t.Fatalf("expected 4 extension descriptors, got %d", len(manifest.Extensions))
	}
	if manifest.Extensions[1].Name != "hurricane.internet.iocpsupport" {
		t.Errorf("descriptor order not preserved: %q", manifest.Extensions[1].Name)
	}
	if !reflect.DeepEqual(manifest.Extensions[1].Libraries, []string{"ws2_32"}) {
		t.Errorf("Libraries = %v", manifest.Extensions[1].Libraries)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	src := `
metadata:
  name: demo
  version: 1.0.0
packges: []
`
	if _, err := LoadManifestFromReader(strings.NewReader(src)); err == nil {
		t.Error("unknown top-level field should be rejected")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{
			name: "duplicate extension name",
			src: `
extensions:
  - name: pkg.ext
    sources: [a.c]
  - name: pkg.ext
    sources: [b.c]
`,
		},
		{
			name: "extension without sources",
			src: `
extensions:
  - name: pkg.ext
`,
		},
		{
			name: "malformed condition",
			src: `
extensions:
  - name: pkg.ext
    sources: [a.c]
    condition: "platform =="
`,
		},
		{
			name: "malformed script entry",
			src: `
scripts:
  ported:
    - "trial - pkg.scripts.trial:run"
`,
		},
		{
			name: "undeclared platform-independent group",
			src: `
extras:
  options:
    tls: [pyopenssl]
  platform_independent: [conch]
`,
		},
		{
			name: "platform extra references undeclared group",
			src: `
extras:
  options:
    tls: [pyopenssl]
  platforms:
    windows_platform: windows
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadManifestFromReader(strings.NewReader(tc.src)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestManifestBuildExtensions(t *testing.T) {
	manifest := loadTestManifest(t)

	extensions, err := manifest.BuildExtensions()
	if err != nil {
		t.Fatalf("BuildExtensions returned error: %v", err)
	}
	if len(extensions) != 4 {
		t.Fatalf("expected 4 extensions, got %d", len(extensions))
	}
	if extensions[0].Condition == nil {
		t.Fatal("declared condition should be compiled")
	}
	if extensions[0].Condition.String() != "cpython" {
		t.Errorf("condition source not preserved: %q", extensions[0].Condition.String())
	}
}

func TestManifestScriptSet(t *testing.T) {
	manifest := loadTestManifest(t)

	scripts, err := manifest.ScriptSet()
	if err != nil {
		t.Fatalf("ScriptSet returned error: %v", err)
	}
	if len(scripts.Ported) != 2 || len(scripts.LegacyOnly) != 2 {
		t.Fatalf("pool sizes = %d/%d", len(scripts.Ported), len(scripts.LegacyOnly))
	}
	if scripts.LegacyOnly[0].Command != "mailmail" {
		t.Errorf("legacy pool order not preserved: %q", scripts.LegacyOnly[0].Command)
	}
}

func TestManifestBuildAllowList(t *testing.T) {
	manifest := loadTestManifest(t)

	allow := manifest.BuildAllowList()
	if allow.Len() != 5 {
		t.Errorf("expected union of 5 names, got %d", allow.Len())
	}
	if !allow.Contains("hurricane.test.data_helper") {
		t.Error("test-data group missing from union")
	}
	if !allow.Contains("hurricane.internet.defer") {
		t.Error("ported group missing from union")
	}
}

func TestManifestRequiresFor(t *testing.T) {
	manifest := loadTestManifest(t)

	if got := manifest.RequiresFor(GenerationCurrent); !reflect.DeepEqual(got, []string{"zope.interface >= 4.0.2"}) {
		t.Errorf("RequiresFor(current) = %v", got)
	}
	if got := manifest.RequiresFor(GenerationLegacy); !reflect.DeepEqual(got, []string{"zope.interface >= 3.6.0"}) {
		t.Errorf("RequiresFor(legacy) = %v", got)
	}
}

func TestManifestExtrasRequire(t *testing.T) {
	manifest := loadTestManifest(t)

	extras := manifest.ExtrasRequire()

	keys := make([]string, 0, len(extras))
	for key := range extras {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	expectedKeys := []string{"all_non_platform", "dev", "osx_platform", "serial", "tls", "windows_platform"}
	if !reflect.DeepEqual(keys, expectedKeys) {
		t.Fatalf("extras keys = %v, expected %v", keys, expectedKeys)
	}

	independent := []string{"pyopenssl >= 0.13", "service_identity", "idna >= 0.6", "pyserial"}
	if !reflect.DeepEqual(extras["all_non_platform"], independent) {
		t.Errorf("all_non_platform = %v", extras["all_non_platform"])
	}

	if !reflect.DeepEqual(extras["windows_platform"], append([]string{"pypiwin32"}, independent...)) {
		t.Errorf("windows_platform = %v", extras["windows_platform"])
	}
	if !reflect.DeepEqual(extras["osx_platform"], append([]string{"pyobjc"}, independent...)) {
		t.Errorf("osx_platform = %v", extras["osx_platform"])
	}

	// Platform groups are only published in composed form.
	if _, ok := extras["osx"]; ok {
		t.Error("platform group should not be published on its own")
	}
	if _, ok := extras["windows"]; ok {
		t.Error("platform group should not be published on its own")
	}
}
