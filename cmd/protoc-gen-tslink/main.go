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

// protoc-gen-tslink emits TypeScript declaration stubs for messages,
// enums, and services. It is the reference generator for the tslink
// framework and doubles as a smoke test for cross-file imports: every
// field or method whose type lives in another file produces an
// alias-qualified reference and a matching import statement.
package main

import (
	"fmt"
	"strings"

	"github.com/tslink/tslink"
	"github.com/tslink/tslink/linker"
	"github.com/tslink/tslink/walk"
)

func main() {
	tslink.Options{}.Run(func(p *tslink.Plugin) error {
		for _, f := range p.FilesToGenerate {
			if err := generateFile(p, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// moduleFor maps a proto file to the TypeScript module its declarations
// live in. Descriptors from the same proto file always share a module,
// so references between them stay unqualified.
func moduleFor(f *linker.File) tslink.ModuleIdent {
	return tslink.ModuleIdent{Path: strings.TrimSuffix(f.Path(), ".proto") + "_pb"}
}

// identFor names a declaration within its module. Nesting dots become
// underscores since TypeScript has no nested type declarations at module
// scope.
func identFor(d linker.Declaration) tslink.Ident {
	f := d.ParentFile()
	local := string(d.FullName())
	if pkg := string(f.Package()); pkg != "" {
		local = strings.TrimPrefix(local, pkg+".")
	}
	return tslink.Ident{
		Module: moduleFor(f),
		Name:   strings.ReplaceAll(local, ".", "_"),
	}
}

func generateFile(p *tslink.Plugin, f *linker.File) error {
	g := p.NewGeneratedFile(moduleFor(f).Path+".d.ts", moduleFor(f))
	g.P(tslink.Text("// Generated from " + f.Path() + ". Do not edit."))
	g.MarkImports()
	return walk.DeclarationsEnterAndExit(f,
		func(d linker.Declaration) error {
			switch d := d.(type) {
			case *linker.Message:
				generateMessage(g, d)
			case *linker.Enum:
				generateEnum(g, d)
			case *linker.Service:
				generateService(g, d)
			}
			return nil
		},
		func(linker.Declaration) error { return nil },
	)
}

func generateMessage(g *tslink.GeneratedFile, m *linker.Message) {
	if m.IsMapEntry() {
		return
	}
	g.P()
	printLeadingComment(g, m.Comments().Leading)
	g.P(tslink.Text("export interface "), tslink.Ref(identFor(m)), tslink.Text(" {"))
	for _, fld := range m.Fields() {
		elems := []tslink.Elem{tslink.Text("  " + string(fld.Name()) + ": ")}
		elems = append(elems, fieldType(fld)...)
		elems = append(elems, tslink.Text(";"))
		g.P(elems...)
	}
	g.P(tslink.Text("}"))
}

// fieldType renders a field's TypeScript type. Message and enum types
// become references so that cross-module uses pick up an import.
func fieldType(f *linker.Field) []tslink.Elem {
	if f.IsMap() {
		elems := []tslink.Elem{tslink.Text("Map<")}
		elems = append(elems, fieldType(f.MapKey())...)
		elems = append(elems, tslink.Text(", "))
		elems = append(elems, fieldType(f.MapValue())...)
		return append(elems, tslink.Text(">"))
	}
	var elems []tslink.Elem
	switch {
	case f.Message() != nil:
		elems = []tslink.Elem{tslink.Ref(identFor(f.Message()))}
	case f.Enum() != nil:
		elems = []tslink.Elem{tslink.Ref(identFor(f.Enum()))}
	default:
		elems = []tslink.Elem{tslink.Text(scalarType(f))}
	}
	if f.IsList() {
		elems = append(elems, tslink.Text("[]"))
	}
	return elems
}

func scalarType(f *linker.Field) string {
	switch f.Kind().String() {
	case "double", "float", "int32", "sint32", "sfixed32", "uint32", "fixed32":
		return "number"
	case "int64", "sint64", "sfixed64", "uint64", "fixed64":
		return "bigint"
	case "bool":
		return "boolean"
	case "string":
		return "string"
	case "bytes":
		return "Uint8Array"
	default:
		return "unknown"
	}
}

func generateEnum(g *tslink.GeneratedFile, e *linker.Enum) {
	g.P()
	printLeadingComment(g, e.Comments().Leading)
	g.P(tslink.Text("export enum "), tslink.Ref(identFor(e)), tslink.Text(" {"))
	for _, v := range e.Values() {
		g.P(tslink.Text(fmt.Sprintf("  %s = %d,", v.Name(), v.Number())))
	}
	g.P(tslink.Text("}"))
}

func generateService(g *tslink.GeneratedFile, s *linker.Service) {
	g.P()
	printLeadingComment(g, s.Comments().Leading)
	g.P(tslink.Text("export interface "), tslink.Ref(identFor(s)), tslink.Text(" {"))
	for _, m := range s.Methods() {
		g.P(tslink.Text("  // " + m.DispatchPath()))
		elems := []tslink.Elem{tslink.Text("  " + lowerFirst(string(m.Name())) + "(request: ")}
		elems = append(elems, requestType(m)...)
		elems = append(elems, tslink.Text("): "))
		elems = append(elems, responseType(m)...)
		elems = append(elems, tslink.Text(";"))
		g.P(elems...)
	}
	g.P(tslink.Text("}"))
}

func requestType(m *linker.Method) []tslink.Elem {
	in := []tslink.Elem{tslink.Ref(identFor(m.Input()))}
	if m.IsStreamingClient() {
		return append([]tslink.Elem{tslink.Text("AsyncIterable<")}, append(in, tslink.Text(">"))...)
	}
	return in
}

func responseType(m *linker.Method) []tslink.Elem {
	out := []tslink.Elem{tslink.Ref(identFor(m.Output()))}
	if m.IsStreamingServer() {
		return append([]tslink.Elem{tslink.Text("AsyncIterable<")}, append(out, tslink.Text(">"))...)
	}
	return append([]tslink.Elem{tslink.Text("Promise<")}, append(out, tslink.Text(">"))...)
}

func printLeadingComment(g *tslink.GeneratedFile, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(comment, "\n"), "\n") {
		g.P(tslink.Text("//" + line))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
