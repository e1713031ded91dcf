package output

import (
	"strconv"
	"strings"

	"github.com/junioryono/ginject/internal/codewriter"
	"github.com/junioryono/ginject/internal/typesys"
)

// imports assigns one alias per imported package. Aliases default to the
// package name and get a numeric suffix when the name is taken by another
// package or by a package-level identifier of the generated file.
type imports struct {
	local    string
	aliases  map[string]string // path -> alias
	taken    map[string]bool
	reserved map[string]bool
	order    []string
}

func newImports(local string, reserved ...string) *imports {
	im := &imports{
		local:    local,
		aliases:  make(map[string]string),
		taken:    make(map[string]bool),
		reserved: make(map[string]bool),
	}
	for _, name := range reserved {
		im.reserved[name] = true
	}
	return im
}

// alias returns the identifier pkgPath is referred to by, or "" for the
// generated package.
func (im *imports) alias(pkgPath, pkgName string) string {
	if pkgPath == im.local || pkgPath == "" {
		return ""
	}
	if a, ok := im.aliases[pkgPath]; ok {
		return a
	}

	base := pkgName
	if base == "" {
		base = pkgPath[strings.LastIndex(pkgPath, "/")+1:]
	}
	a := base
	for i := 2; im.taken[a] || im.reserved[a]; i++ {
		a = base + strconv.Itoa(i)
	}

	im.aliases[pkgPath] = a
	im.taken[a] = true
	im.order = append(im.order, pkgPath)
	return a
}

// qualifier renders types with the aliases of im.
func (im *imports) qualifier() typesys.Qualifier {
	return im.alias
}

// specs returns the import specs in first-use order.
func (im *imports) specs() []codewriter.Import {
	specs := make([]codewriter.Import, len(im.order))
	for i, p := range im.order {
		specs[i] = codewriter.NewImport(im.aliases[p], p)
	}
	return specs
}
