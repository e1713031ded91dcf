package codewriter

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// Import is an import spec of the generated file. Name is empty when the
// package is referenced by the last element of its path.
type Import struct {
	Name string
	Path string
}

// NewImport returns the spec importing pkgPath under alias, naming the
// import only when the alias differs from the last path element.
func NewImport(alias, pkgPath string) Import {
	if alias == path.Base(pkgPath) {
		return Import{Path: pkgPath}
	}
	return Import{Name: alias, Path: pkgPath}
}

// File describes a generated file.
type File struct {
	Header  string // comment placed above the package clause, without "// "
	Package string
	Imports []Import
	Body    []byte
}

// Format assembles the file, drops imports the body does not reference and
// prints it in gofmt style.
func Format(f File) ([]byte, error) {
	var src bytes.Buffer
	if f.Header != "" {
		fmt.Fprintf(&src, "// %s\n\n", f.Header)
	}
	fmt.Fprintf(&src, "package %s\n\n", f.Package)
	if len(f.Imports) > 0 {
		src.WriteString("import (\n")
		for _, imp := range f.Imports {
			if imp.Name != "" {
				fmt.Fprintf(&src, "\t%s %s\n", imp.Name, strconv.Quote(imp.Path))
			} else {
				fmt.Fprintf(&src, "\t%s\n", strconv.Quote(imp.Path))
			}
		}
		src.WriteString(")\n\n")
	}
	src.Write(f.Body)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, SyntaxError{Source: src.String(), Cause: err}
	}

	for _, imp := range f.Imports {
		if !astutil.UsesImport(file, imp.Path) {
			astutil.DeleteNamedImport(fset, file, imp.Name, imp.Path)
		}
	}
	ast.SortImports(fset, file)

	var out bytes.Buffer
	if err := format.Node(&out, fset, file); err != nil {
		return nil, SyntaxError{Source: src.String(), Cause: err}
	}
	return out.Bytes(), nil
}

// SyntaxError reports generated text that is not valid Go.
type SyntaxError struct {
	Source string
	Cause  error
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("generated source does not parse: %v", e.Cause)
}

func (e SyntaxError) Unwrap() error {
	return e.Cause
}
