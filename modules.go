package pysetup

import "sort"

// Module is one discovered installable unit: a module file inside a
// package, as found by an external package-tree scan.
type Module struct {
	Package string `json:"package"` // dotted package path, e.g. "pkg.internet"
	Name    string `json:"name"`    // module name without extension, e.g. "defer"
}

// FullName returns the fully-qualified "package.module" name used for
// allow-list membership.
func (m Module) FullName() string {
	return m.Package + "." + m.Name
}

// AllowList is the set of fully-qualified module names known to work on
// the current runtime generation. It is read-only once built; absence
// implies exclusion.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList builds an allow-list as the union of the given name
// groups. Ported modules and test-data files are maintained as two
// separate lists but merged here for filtering purposes.
func NewAllowList(groups ...[]string) *AllowList {
	names := make(map[string]struct{})
	for _, group := range groups {
		for _, name := range group {
			names[name] = struct{}{}
		}
	}
	return &AllowList{names: names}
}

// Contains reports whether the fully-qualified name is allow-listed.
func (l *AllowList) Contains(name string) bool {
	_, ok := l.names[name]
	return ok
}

// Len returns the number of distinct allow-listed names.
func (l *AllowList) Len() int {
	return len(l.names)
}

// Names returns the allow-listed names in sorted order.
func (l *AllowList) Names() []string {
	names := make([]string, 0, len(l.names))
	for name := range l.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterModules returns the subsequence of modules whose fully-qualified
// name is allow-listed, in original order. The filter is pure and
// idempotent: it never adds records, and filtering its own output again
// with the same allow-list is a no-op. An empty allow-list excludes
// everything, which is valid before porting has started.
//
// Callers targeting the legacy generation bypass this filter entirely;
// see Configure.
func FilterModules(modules []Module, allow *AllowList) []Module {
	filtered := make([]Module, 0, len(modules))
	for _, mod := range modules {
		if allow.Contains(mod.FullName()) {
			filtered = append(filtered, mod)
		}
	}
	return filtered
}
