// Copyright 2022-2026 The tslink Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tslink

import (
	"path"
	"strings"
)

// ModuleIdent identifies a TypeScript module. Local modules have only a
// Path (extensionless, slash-separated, relative to the output root).
// Modules from an external package carry the package name and, when the
// symbol lives below the package root, a sub-path inside it.
//
// Identity is structural: two ModuleIdent values refer to the same module
// iff all three fields are equal.
type ModuleIdent struct {
	Path    string
	Package string
	SubPath string
}

// Ident is a symbol together with the module that declares it.
type Ident struct {
	Module ModuleIdent
	Name   string
}

// Elem is one piece of an output line. It is a closed set: Text for
// literal output and Ref for an identifier reference that is qualified
// against the buffer's home module when the line is assembled.
type Elem interface {
	elem()
}

// Text is literal output.
type Text string

// Ref is a reference to an identifier. Appending a Ref registers the
// identifier's module in the buffer's import list when it is foreign.
type Ref Ident

func (Text) elem() {}
func (Ref) elem()  {}

// GeneratedFile is an output buffer for one generated file. Lines
// accumulate independently of import statements; imports recorded along
// the way are spliced in at the marked position when the content is
// finalized. A buffer belongs to exactly one goroutine; nothing here is
// synchronized.
type GeneratedFile struct {
	filename string
	module   ModuleIdent

	lines      []string
	imports    []tsImport
	importMark int
}

type tsImport struct {
	module ModuleIdent
	alias  string
}

func newGeneratedFile(filename string, module ModuleIdent) *GeneratedFile {
	return &GeneratedFile{
		filename:   filename,
		module:     module,
		importMark: -1,
	}
}

// Filename is the path the buffer's content will be written to, as handed
// back in the response.
func (g *GeneratedFile) Filename() string { return g.filename }

// Module is the buffer's home module identity.
func (g *GeneratedFile) Module() ModuleIdent { return g.module }

// P appends one line assembled from the given elements.
func (g *GeneratedFile) P(elems ...Elem) {
	var sb strings.Builder
	for _, e := range elems {
		switch e := e.(type) {
		case Text:
			sb.WriteString(string(e))
		case Ref:
			sb.WriteString(g.QualifiedName(Ident(e)))
		}
	}
	g.lines = append(g.lines, sb.String())
}

// QualifiedName returns the string to use for id in this buffer: the bare
// symbol name when id lives in the buffer's own module, otherwise
// "alias.Name" with the foreign module recorded for import emission.
// Repeated references to the same foreign module reuse the first alias
// and generate a single import.
func (g *GeneratedFile) QualifiedName(id Ident) string {
	if id.Module == g.module {
		return id.Name
	}
	return g.importAlias(id.Module) + "." + id.Name
}

func (g *GeneratedFile) importAlias(m ModuleIdent) string {
	for _, imp := range g.imports {
		if imp.module == m {
			return imp.alias
		}
	}
	alias := g.aliasFor(m)
	g.imports = append(g.imports, tsImport{module: m, alias: alias})
	return alias
}

func (g *GeneratedFile) aliasFor(m ModuleIdent) string {
	if m.Package != "" && m.Package != g.module.Package {
		if m.SubPath == "" {
			return sanitize(m.Package)
		}
		return sanitize(m.Package) + "__" + sanitize(m.SubPath)
	}
	p := m.Path
	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return "_" + sanitize(p)
}

// sanitize maps the characters TypeScript identifiers cannot contain but
// module specifiers commonly do.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '.', '-', '@':
			return '_'
		}
		return r
	}, s)
}

// MarkImports records the current end of the buffer as the position where
// import statements will be spliced in. Calling it again moves the mark.
// Without a mark, no import statements are emitted at all.
func (g *GeneratedFile) MarkImports() {
	g.importMark = len(g.lines)
}

// Content finalizes the buffer: one import statement per recorded foreign
// module, in first-reference order, spliced at the marked position.
func (g *GeneratedFile) Content() []byte {
	lines := g.lines
	if g.importMark >= 0 && len(g.imports) > 0 {
		stmts := make([]string, 0, len(g.imports))
		for _, imp := range g.imports {
			stmts = append(stmts, `import * as `+imp.alias+` from "`+g.importPath(imp.module)+`";`)
		}
		lines = make([]string, 0, len(g.lines)+len(stmts))
		lines = append(lines, g.lines[:g.importMark]...)
		lines = append(lines, stmts...)
		lines = append(lines, g.lines[g.importMark:]...)
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

func (g *GeneratedFile) importPath(m ModuleIdent) string {
	if m.Package != "" && m.Package != g.module.Package {
		if m.SubPath != "" {
			return m.Package + "/" + m.SubPath
		}
		return m.Package
	}
	return relativePath(path.Dir(g.module.Path), m.Path)
}

// relativePath is the POSIX-style path from fromDir to the module at
// target, always prefixed with "./" or "../" so module loaders treat it
// as relative.
func relativePath(fromDir, target string) string {
	var from []string
	if fromDir != "" && fromDir != "." {
		from = strings.Split(fromDir, "/")
	}
	to := strings.Split(target, "/")
	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}
	var sb strings.Builder
	for range from[common:] {
		sb.WriteString("../")
	}
	if sb.Len() == 0 {
		sb.WriteString("./")
	}
	sb.WriteString(strings.Join(to[common:], "/"))
	return sb.String()
}
