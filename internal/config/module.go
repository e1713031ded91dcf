package config

import (
	"errors"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

var ErrNoGoMod = errors.New("no go.mod found")

// Module locates the go.mod governing dir and returns the module path and
// the module root directory.
func Module(dir string) (modPath, root string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for cur := dir; ; {
		gomod := filepath.Join(cur, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			f, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return "", "", err
			}
			if f.Module == nil {
				return "", "", ErrNoGoMod
			}
			return f.Module.Mod.Path, cur, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", "", ErrNoGoMod
		}
		cur = parent
	}
}

// ImportPath returns the import path of the package in dir.
func ImportPath(dir string) (string, error) {
	modPath, root, err := Module(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return modPath, nil
	}
	return path.Join(modPath, filepath.ToSlash(rel)), nil
}
