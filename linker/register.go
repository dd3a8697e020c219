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
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tslink/tslink/internal"
	"github.com/tslink/tslink/sourceinfo"
)

// Register phase: build the ownership tree for one file and insert every
// declaration into the registry as it is constructed. No reference is
// resolved here; map-entry messages are registered like any other nested
// message. Each declaration gets a source path (parent path, field number
// in parent, index) for later comment lookup.

type fileBuilder struct {
	reg  *Registry
	file *File
}

func registerFile(reg *Registry, fdp *descriptorpb.FileDescriptorProto, generate bool) (*File, error) {
	if fdp.GetName() == "" {
		return nil, &MissingFieldError{Element: "file", Attribute: "name"}
	}
	f := &File{
		proto:    fdp,
		pkg:      protoreflect.FullName(fdp.GetPackage()),
		generate: generate,
		locs:     sourceinfo.NewLocations(fdp.GetSourceCodeInfo()),
	}
	if err := reg.RegisterFile(f); err != nil {
		return nil, err
	}

	b := &fileBuilder{reg: reg, file: f}
	prefix := fdp.GetPackage()
	if prefix != "" {
		prefix += "."
	}
	for i, md := range fdp.GetMessageType() {
		m, err := b.registerMessage(nil, prefix, childPath(nil, internal.FileMessagesTag, int32(i)), md)
		if err != nil {
			return nil, err
		}
		f.messages = append(f.messages, m)
	}
	for i, ed := range fdp.GetEnumType() {
		e, err := b.registerEnum(nil, prefix, childPath(nil, internal.FileEnumsTag, int32(i)), ed)
		if err != nil {
			return nil, err
		}
		f.enums = append(f.enums, e)
	}
	for i, xd := range fdp.GetExtension() {
		x, err := b.registerField(nil, prefix, childPath(nil, internal.FileExtensionsTag, int32(i)), xd)
		if err != nil {
			return nil, err
		}
		f.extensions = append(f.extensions, x)
	}
	for i, sd := range fdp.GetService() {
		s, err := b.registerService(prefix, childPath(nil, internal.FileServicesTag, int32(i)), sd)
		if err != nil {
			return nil, err
		}
		f.services = append(f.services, s)
	}
	return f, nil
}

func (b *fileBuilder) registerMessage(parent *Message, prefix string, path protoreflect.SourcePath, md *descriptorpb.DescriptorProto) (*Message, error) {
	if md.GetName() == "" {
		return nil, &MissingFieldError{Element: "message in " + b.file.Path(), Attribute: "name"}
	}
	m := &Message{
		proto:    md,
		fqn:      protoreflect.FullName(prefix + md.GetName()),
		file:     b.file,
		parent:   parent,
		path:     path,
		mapEntry: md.GetOptions().GetMapEntry(),
	}
	if err := b.reg.RegisterMessage(m); err != nil {
		return nil, err
	}

	childPrefix := string(m.fqn) + "."
	// oneofs come first so that fields can attach to them by index
	for i, ood := range md.GetOneofDecl() {
		if ood.GetName() == "" {
			return nil, &MissingFieldError{Element: "oneof in " + string(m.fqn), Attribute: "name"}
		}
		m.oneofs = append(m.oneofs, &Oneof{
			proto:  ood,
			fqn:    protoreflect.FullName(childPrefix + ood.GetName()),
			file:   b.file,
			parent: m,
			path:   childPath(path, internal.MessageOneofsTag, int32(i)),
		})
	}
	for i, fld := range md.GetField() {
		f, err := b.registerField(m, childPrefix, childPath(path, internal.MessageFieldsTag, int32(i)), fld)
		if err != nil {
			return nil, err
		}
		m.fields = append(m.fields, f)
	}
	for i, nmd := range md.GetNestedType() {
		nested, err := b.registerMessage(m, childPrefix, childPath(path, internal.MessageNestedMessagesTag, int32(i)), nmd)
		if err != nil {
			return nil, err
		}
		m.messages = append(m.messages, nested)
	}
	for i, ed := range md.GetEnumType() {
		e, err := b.registerEnum(m, childPrefix, childPath(path, internal.MessageEnumsTag, int32(i)), ed)
		if err != nil {
			return nil, err
		}
		m.enums = append(m.enums, e)
	}
	for i, xd := range md.GetExtension() {
		x, err := b.registerField(nil, childPrefix, childPath(path, internal.MessageExtensionsTag, int32(i)), xd)
		if err != nil {
			return nil, err
		}
		m.extensions = append(m.extensions, x)
	}
	return m, nil
}

func (b *fileBuilder) registerField(parent *Message, prefix string, path protoreflect.SourcePath, fld *descriptorpb.FieldDescriptorProto) (*Field, error) {
	if fld.GetName() == "" {
		return nil, &MissingFieldError{Element: "field in " + b.file.Path(), Attribute: "name"}
	}
	fqn := protoreflect.FullName(prefix + fld.GetName())
	if fld.GetNumber() <= 0 {
		return nil, &MissingFieldError{Element: "field " + string(fqn), Attribute: "number"}
	}
	if fld.GetType() == 0 && fld.GetTypeName() == "" {
		return nil, &MissingFieldError{Element: "field " + string(fqn), Attribute: "type"}
	}
	label := int32(fld.GetLabel())
	if label < 1 || label > 3 {
		return nil, &UnrecognizedLabelError{Field: fqn, Label: label}
	}

	f := &Field{
		proto:  fld,
		fqn:    fqn,
		file:   b.file,
		parent: parent,
		path:   path,
		number: protoreflect.FieldNumber(fld.GetNumber()),
		// type may still be unset here when only a type name is present;
		// resolution fills it in once the target's kind is known
		kind:        protoreflect.Kind(fld.GetType()),
		cardinality: protoreflect.Cardinality(label),
	}

	if fld.OneofIndex != nil {
		idx := fld.GetOneofIndex()
		if parent == nil || idx < 0 || int(idx) >= len(parent.oneofs) {
			var n int
			if parent != nil {
				n = len(parent.oneofs)
			}
			return nil, &OneofIndexError{Field: fqn, Index: idx, Len: n}
		}
		oo := parent.oneofs[idx]
		f.oneof = oo
		oo.fields = append(oo.fields, f)
	}

	if fld.GetExtendee() != "" {
		if err := b.reg.RegisterExtension(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (b *fileBuilder) registerEnum(parent *Message, prefix string, path protoreflect.SourcePath, ed *descriptorpb.EnumDescriptorProto) (*Enum, error) {
	if ed.GetName() == "" {
		return nil, &MissingFieldError{Element: "enum in " + b.file.Path(), Attribute: "name"}
	}
	e := &Enum{
		proto:  ed,
		fqn:    protoreflect.FullName(prefix + ed.GetName()),
		file:   b.file,
		parent: parent,
		path:   path,
	}
	if err := b.reg.RegisterEnum(e); err != nil {
		return nil, err
	}
	for i, vd := range ed.GetValue() {
		if vd.GetName() == "" {
			return nil, &MissingFieldError{Element: "enum value in " + string(e.fqn), Attribute: "name"}
		}
		// enum values are scoped to the enum's enclosing scope, not the
		// enum itself (C++ scoping rules)
		e.values = append(e.values, &EnumValue{
			proto:  vd,
			fqn:    protoreflect.FullName(prefix + vd.GetName()),
			file:   b.file,
			parent: e,
			path:   childPath(path, internal.EnumValuesTag, int32(i)),
			number: protoreflect.EnumNumber(vd.GetNumber()),
		})
	}
	return e, nil
}

func (b *fileBuilder) registerService(prefix string, path protoreflect.SourcePath, sd *descriptorpb.ServiceDescriptorProto) (*Service, error) {
	if sd.GetName() == "" {
		return nil, &MissingFieldError{Element: "service in " + b.file.Path(), Attribute: "name"}
	}
	s := &Service{
		proto: sd,
		fqn:   protoreflect.FullName(prefix + sd.GetName()),
		file:  b.file,
		path:  path,
	}
	if err := b.reg.RegisterService(s); err != nil {
		return nil, err
	}
	for i, mtd := range sd.GetMethod() {
		if mtd.GetName() == "" {
			return nil, &MissingFieldError{Element: "method in " + string(s.fqn), Attribute: "name"}
		}
		s.methods = append(s.methods, &Method{
			proto:  mtd,
			fqn:    protoreflect.FullName(string(s.fqn) + "." + mtd.GetName()),
			file:   b.file,
			parent: s,
			path:   childPath(path, internal.ServiceMethodsTag, int32(i)),
		})
	}
	return s, nil
}

// childPath copies the parent path before extending it so sibling paths
// never share a backing array.
func childPath(parent protoreflect.SourcePath, tag, index int32) protoreflect.SourcePath {
	p := make(protoreflect.SourcePath, len(parent), len(parent)+2)
	copy(p, parent)
	return append(p, tag, index)
}
