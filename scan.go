package pysetup

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanModules walks a source tree and returns the (package, module)
// pairs for every Python module file under it. rootPackage names the
// package the tree root corresponds to; subdirectories extend it with
// dots, so "pkg" plus "internet/defer.py" yields ("pkg.internet",
// "defer").
//
// The walk order is lexical, so repeated scans of an unchanged tree
// produce identical sequences. This is the external package-tree scan
// the module filter consumes; it makes no judgement about what is
// installable.
func ScanModules(root, rootPackage string) ([]Module, error) {
	var modules []Module

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pkg := rootPackage
		if dir := filepath.Dir(rel); dir != "." {
			pkg = rootPackage + "." + strings.ReplaceAll(filepath.ToSlash(dir), "/", ".")
		}

		modules = append(modules, Module{
			Package: pkg,
			Name:    strings.TrimSuffix(d.Name(), ".py"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return modules, nil
}
