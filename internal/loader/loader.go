// Package loader reads Go packages and their //ginject: directives into a
// type universe the generator can query.
package loader

import (
	"context"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/junioryono/ginject/internal/typesys"
)

var _ typesys.Oracle = (*Program)(nil)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Config controls which packages are loaded.
type Config struct {
	// Dir is the directory the patterns are relative to.
	Dir string

	// Patterns are go/packages patterns. Defaults to "./...".
	Patterns []string

	// Tags are extra build tags.
	Tags []string

	Logger *zap.Logger
}

// Program is the loaded source. It implements typesys.Oracle; assignability
// is answered by go/types for every type read from source.
type Program struct {
	universe *typesys.Universe
	fset     *token.FileSet
	pkgs     []*packages.Package
	goTypes  map[*typesys.Type]types.Type
	modules  []*typesys.Type
}

// Load loads the packages matched by cfg and reads their directives.
func Load(ctx context.Context, cfg Config) (*Program, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     cfg.Dir,
		Fset:    token.NewFileSet(),
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}
	if err := packageErrors(pkgs); err != nil {
		return nil, err
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	p := &Program{
		universe: typesys.NewUniverse(),
		fset:     pcfg.Fset,
		pkgs:     pkgs,
		goTypes:  make(map[*typesys.Type]types.Type),
	}
	b := newBuilder(p, logger)
	if err := b.build(); err != nil {
		return nil, err
	}

	logger.Debug("packages loaded",
		zap.Strings("patterns", patterns),
		zap.Int("packages", len(pkgs)),
		zap.Int("modules", len(p.modules)))
	return p, nil
}

func packageErrors(pkgs []*packages.Package) error {
	var errs error
	for _, pkg := range pkgs {
		var pkgErrs error
		for _, e := range pkg.Errors {
			pkgErrs = multierr.Append(pkgErrs, e)
		}
		if pkgErrs != nil {
			errs = multierr.Append(errs, PackageError{Package: pkg.PkgPath, Cause: pkgErrs})
		}
	}
	return errs
}

// ResolveType implements typesys.Oracle. A leading "*" resolves a pointer to
// the named type.
func (p *Program) ResolveType(name string) (*typesys.Type, bool) {
	if elem, ok := strings.CutPrefix(name, "*"); ok {
		t, ok := p.ResolveType(elem)
		if !ok {
			return nil, false
		}
		return p.universe.Pointer(t), true
	}
	return p.universe.ResolveType(name)
}

// DeclaredMembers implements typesys.Oracle.
func (p *Program) DeclaredMembers(t *typesys.Type) typesys.Members {
	return p.universe.DeclaredMembers(t)
}

// IsAssignableTo implements typesys.Oracle.
func (p *Program) IsAssignableTo(t, target *typesys.Type) bool {
	gt, ok := p.goTypes[t]
	gtarget, ok2 := p.goTypes[target]
	if ok && ok2 {
		return types.AssignableTo(gt, gtarget)
	}
	return p.universe.IsAssignableTo(t, target)
}

// Modules returns every type marked as a module in the loaded packages,
// ordered by package and name.
func (p *Program) Modules() []*typesys.Type {
	return p.modules
}

// Package returns the import path and name of the loaded package whose
// files live in dir. ok is false when no loaded package does.
func (p *Program) Package(dir string) (path, name string, ok bool) {
	dir = filepath.Clean(dir)
	for _, pkg := range p.pkgs {
		for _, f := range pkg.GoFiles {
			if filepath.Dir(f) == dir {
				return pkg.PkgPath, pkg.Name, true
			}
		}
	}
	return "", "", false
}

// Qualify turns a name relative to the loaded packages into a canonical type
// name: "AppInjector" becomes "<package>.AppInjector" for the first loaded
// package declaring it. Canonical names are returned unchanged.
func (p *Program) Qualify(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	for _, pkg := range p.pkgs {
		if obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName); ok {
			return pkg.PkgPath + "." + obj.Name()
		}
	}
	return name
}
