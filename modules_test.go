package pysetup

import (
	"reflect"
	"testing"
)

func TestAllowListUnion(t *testing.T) {
	allow := NewAllowList(
		[]string{"pkg.internet.defer", "pkg.python.compat"},
		[]string{"pkg.test.data_helper", "pkg.python.compat"},
	)

	if allow.Len() != 3 {
		t.Errorf("expected 3 distinct names after union, got %d", allow.Len())
	}

	expected := []string{"pkg.internet.defer", "pkg.python.compat", "pkg.test.data_helper"}
	if !reflect.DeepEqual(allow.Names(), expected) {
		t.Errorf("Names() = %v, expected %v", allow.Names(), expected)
	}

	if !allow.Contains("pkg.test.data_helper") {
		t.Error("test-data group should be part of the union")
	}
	if allow.Contains("pkg.internet.reactor") {
		t.Error("absence implies exclusion")
	}
}

func TestFilterModules(t *testing.T) {
	modules := []Module{
		{Package: "pkg", Name: "modA"},
		{Package: "pkg", Name: "modB"},
		{Package: "pkg.sub", Name: "modA"},
	}

	testCases := []struct {
		name     string
		allowed  []string
		expected []Module
	}{
		{
			name:     "single match",
			allowed:  []string{"pkg.modA"},
			expected: []Module{{Package: "pkg", Name: "modA"}},
		},
		{
			name:     "qualified names do not collide across packages",
			allowed:  []string{"pkg.sub.modA"},
			expected: []Module{{Package: "pkg.sub", Name: "modA"}},
		},
		{
			name:     "empty allow-list excludes everything",
			allowed:  nil,
			expected: []Module{},
		},
		{
			name:    "full allow-list keeps input order",
			allowed: []string{"pkg.sub.modA", "pkg.modB", "pkg.modA"},
			expected: []Module{
				{Package: "pkg", Name: "modA"},
				{Package: "pkg", Name: "modB"},
				{Package: "pkg.sub", Name: "modA"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterModules(modules, NewAllowList(tc.allowed))
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("FilterModules() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestFilterModulesIdempotent(t *testing.T) {
	modules := []Module{
		{Package: "pkg", Name: "modA"},
		{Package: "pkg", Name: "modB"},
		{Package: "pkg", Name: "modC"},
	}
	allow := NewAllowList([]string{"pkg.modA", "pkg.modC"})

	once := FilterModules(modules, allow)
	twice := FilterModules(once, allow)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering its own output changed the result: %v vs %v", once, twice)
	}
}

func TestFilterModulesNeverInvents(t *testing.T) {
	allow := NewAllowList([]string{"pkg.modA", "pkg.modB"})

	got := FilterModules([]Module{{Package: "pkg", Name: "modB"}}, allow)
	expected := []Module{{Package: "pkg", Name: "modB"}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("filter must be a subset of its input, got %v", got)
	}
}

func TestModuleFullName(t *testing.T) {
	mod := Module{Package: "pkg.internet", Name: "defer"}
	if mod.FullName() != "pkg.internet.defer" {
		t.Errorf("FullName() = %q", mod.FullName())
	}
}
