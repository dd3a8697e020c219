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

package linker

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Resolve phase: fill in every cross-declaration reference by registry
// lookup. Runs only after the register phase has seen every file in the
// request, so forward and cyclic file references resolve like any other.

// ResolveType resolves a type name from the given reference scope and
// returns the matching message or enum, or nil when nothing matches.
//
// A name with a leading dot is fully qualified: the dot is stripped and a
// single direct lookup decides the result. Anything else uses scoped
// resolution: probe scope.name, then drop the last component of the scope
// and retry, ending with the bare name. The first match wins.
func ResolveType(reg *Registry, scope protoreflect.FullName, name string) Declaration {
	return resolveName(scope, name, func(fqn protoreflect.FullName) Declaration {
		if m := reg.Message(fqn); m != nil {
			return m
		}
		if e := reg.Enum(fqn); e != nil {
			return e
		}
		return nil
	})
}

// ResolveMessage is ResolveType restricted to messages; it is used for
// extendees and method input/output types.
func ResolveMessage(reg *Registry, scope protoreflect.FullName, name string) *Message {
	d := resolveName(scope, name, func(fqn protoreflect.FullName) Declaration {
		if m := reg.Message(fqn); m != nil {
			return m
		}
		return nil
	})
	if d == nil {
		return nil
	}
	return d.(*Message)
}

func resolveName(scope protoreflect.FullName, name string, query func(protoreflect.FullName) Declaration) Declaration {
	if strings.HasPrefix(name, ".") {
		return query(protoreflect.FullName(name[1:]))
	}
	for s := scope; s != ""; s = s.Parent() {
		if d := query(protoreflect.FullName(string(s) + "." + name)); d != nil {
			return d
		}
	}
	return query(protoreflect.FullName(name))
}

func resolveFile(reg *Registry, f *File) error {
	for _, dep := range f.proto.GetDependency() {
		d := reg.FileByPath(dep)
		if d == nil {
			return &UnresolvedReferenceError{Context: "file " + f.Path(), Name: dep}
		}
		f.deps = append(f.deps, d)
	}
	f.depsResolved = true

	for _, m := range f.messages {
		if err := resolveMessage(reg, m); err != nil {
			return err
		}
	}
	for _, x := range f.extensions {
		if err := resolveField(reg, f.pkg, x); err != nil {
			return err
		}
	}
	for _, s := range f.services {
		if err := resolveService(reg, s); err != nil {
			return err
		}
	}

	// Map entries disappear from their owner's nested list only now, so
	// their key and value fields are already resolved for consumers that
	// inspect them right away. They stay in the registry.
	for _, m := range f.messages {
		pruneMapEntries(m)
	}
	return nil
}

func resolveMessage(reg *Registry, m *Message) error {
	for _, fld := range m.fields {
		if err := resolveField(reg, m.fqn, fld); err != nil {
			return err
		}
	}
	for _, x := range m.extensions {
		if err := resolveField(reg, m.fqn, x); err != nil {
			return err
		}
	}
	for _, nested := range m.messages {
		if err := resolveMessage(reg, nested); err != nil {
			return err
		}
	}
	return nil
}

func resolveField(reg *Registry, scope protoreflect.FullName, f *Field) error {
	if ext := f.proto.GetExtendee(); ext != "" {
		target := ResolveMessage(reg, scope, ext)
		if target == nil {
			return &UnresolvedReferenceError{Context: "extension " + string(f.fqn), Name: ext}
		}
		f.extendee = extendeeRef{message: target, resolved: true}
	}

	typeName := f.proto.GetTypeName()
	if typeName == "" {
		// scalar; nothing to point at
		f.target = fieldTarget{resolved: true}
		return nil
	}
	switch d := ResolveType(reg, scope, typeName).(type) {
	case *Message:
		if f.kind != 0 && f.kind != protoreflect.MessageKind && f.kind != protoreflect.GroupKind {
			return &UnresolvedReferenceError{Context: "field " + string(f.fqn), Name: typeName}
		}
		if f.kind == 0 {
			f.kind = protoreflect.MessageKind
		}
		f.target = fieldTarget{message: d, resolved: true}
	case *Enum:
		if f.kind != 0 && f.kind != protoreflect.EnumKind {
			return &UnresolvedReferenceError{Context: "field " + string(f.fqn), Name: typeName}
		}
		f.kind = protoreflect.EnumKind
		f.target = fieldTarget{enum: d, resolved: true}
	default:
		return &UnresolvedReferenceError{Context: "field " + string(f.fqn), Name: typeName}
	}
	return nil
}

func resolveService(reg *Registry, s *Service) error {
	for _, mtd := range s.methods {
		in := mtd.proto.GetInputType()
		if in == "" {
			return &MissingFieldError{Element: "method " + string(mtd.fqn), Attribute: "input type"}
		}
		input := ResolveMessage(reg, s.fqn, in)
		if input == nil {
			return &UnresolvedReferenceError{Context: "method " + string(mtd.fqn), Name: in}
		}
		mtd.input = methodRef{message: input, resolved: true}

		out := mtd.proto.GetOutputType()
		if out == "" {
			return &MissingFieldError{Element: "method " + string(mtd.fqn), Attribute: "output type"}
		}
		output := ResolveMessage(reg, s.fqn, out)
		if output == nil {
			return &UnresolvedReferenceError{Context: "method " + string(mtd.fqn), Name: out}
		}
		mtd.output = methodRef{message: output, resolved: true}
	}
	return nil
}

func pruneMapEntries(m *Message) {
	kept := m.messages[:0]
	for _, nested := range m.messages {
		pruneMapEntries(nested)
		if !nested.mapEntry {
			kept = append(kept, nested)
		}
	}
	m.messages = kept
}
