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
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tslink/tslink/sourceinfo"
)

// This file defines the linked descriptor graph. All types are constructed
// during the register phase and become read-only once the resolve phase
// completes. References to other declarations (file dependencies, field
// types, extendees, method input/output) are two-state values: they start
// unresolved and are filled in exactly once by the resolve phase. Reading
// one before then is a bug in the caller and panics.

// Declaration is implemented by every element of the linked graph.
type Declaration interface {
	// FullName is the dotted, package-qualified name of the declaration.
	// For a File it is the file's package name.
	FullName() protoreflect.FullName
	// SourcePath locates the declaration inside its file's descriptor, for
	// comment lookup.
	SourcePath() protoreflect.SourcePath
	// ParentFile is the file the declaration was declared in.
	ParentFile() *File
}

// File is a linked file descriptor and the root of ownership for all
// declarations inside it.
type File struct {
	proto    *descriptorpb.FileDescriptorProto
	pkg      protoreflect.FullName
	generate bool
	locs     sourceinfo.Locations

	deps         []*File
	depsResolved bool

	messages   []*Message
	enums      []*Enum
	services   []*Service
	extensions []*Field
}

func (f *File) Proto() *descriptorpb.FileDescriptorProto { return f.proto }

// Path is the file's name, e.g. "acme/orders.proto". It is the file's
// unique key in the registry.
func (f *File) Path() string { return f.proto.GetName() }

func (f *File) Package() protoreflect.FullName { return f.pkg }

func (f *File) Syntax() protoreflect.Syntax {
	switch f.proto.GetSyntax() {
	case "proto3":
		return protoreflect.Proto3
	default:
		return protoreflect.Proto2
	}
}

// Generate reports whether the file was named in the request's
// file_to_generate list, as opposed to being a link-only dependency.
func (f *File) Generate() bool { return f.generate }

// Dependencies are the files this file imports, in declaration order. It
// panics if called before the resolve phase has run.
func (f *File) Dependencies() []*File {
	if !f.depsResolved {
		panic(fmt.Sprintf("file %q: dependencies accessed before resolution", f.Path()))
	}
	return f.deps
}

func (f *File) Messages() []*Message { return f.messages }
func (f *File) Enums() []*Enum       { return f.enums }
func (f *File) Services() []*Service { return f.services }
func (f *File) Extensions() []*Field { return f.extensions }

func (f *File) FullName() protoreflect.FullName     { return f.pkg }
func (f *File) SourcePath() protoreflect.SourcePath { return nil }
func (f *File) ParentFile() *File                   { return f }

// Message is a linked message declaration.
type Message struct {
	proto  *descriptorpb.DescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Message
	path   protoreflect.SourcePath

	mapEntry bool

	fields     []*Field
	oneofs     []*Oneof
	messages   []*Message
	enums      []*Enum
	extensions []*Field
}

func (m *Message) Proto() *descriptorpb.DescriptorProto { return m.proto }
func (m *Message) Name() protoreflect.Name              { return protoreflect.Name(m.proto.GetName()) }
func (m *Message) FullName() protoreflect.FullName      { return m.fqn }
func (m *Message) SourcePath() protoreflect.SourcePath  { return m.path }
func (m *Message) ParentFile() *File                    { return m.file }

// Parent is the enclosing message, or nil for a top-level message.
func (m *Message) Parent() *Message { return m.parent }

// IsMapEntry reports whether the message is a synthetic map-entry type.
// Map entries stay registered but are pruned from their owner's nested
// message list once resolution completes.
func (m *Message) IsMapEntry() bool { return m.mapEntry }

func (m *Message) Fields() []*Field     { return m.fields }
func (m *Message) Oneofs() []*Oneof     { return m.oneofs }
func (m *Message) Messages() []*Message { return m.messages }
func (m *Message) Enums() []*Enum       { return m.enums }
func (m *Message) Extensions() []*Field { return m.extensions }

func (m *Message) Comments() sourceinfo.Comments { return m.file.locs.Comments(m.path) }

// Field is a linked field, extension, or map key/value declaration.
type Field struct {
	proto  *descriptorpb.FieldDescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Message // nil for extensions
	path   protoreflect.SourcePath

	number      protoreflect.FieldNumber
	kind        protoreflect.Kind
	cardinality protoreflect.Cardinality
	oneof       *Oneof

	target   fieldTarget
	extendee extendeeRef
}

// fieldTarget is the field's resolved type reference. At most one of
// message and enum is non-nil; both are nil for scalar fields.
type fieldTarget struct {
	message  *Message
	enum     *Enum
	resolved bool
}

type extendeeRef struct {
	message  *Message
	resolved bool
}

func (f *Field) Proto() *descriptorpb.FieldDescriptorProto { return f.proto }
func (f *Field) Name() protoreflect.Name                   { return protoreflect.Name(f.proto.GetName()) }
func (f *Field) FullName() protoreflect.FullName           { return f.fqn }
func (f *Field) SourcePath() protoreflect.SourcePath       { return f.path }
func (f *Field) ParentFile() *File                         { return f.file }

// Parent is the message the field belongs to. It is nil for extension
// fields, whose logical container is Extendee instead.
func (f *Field) Parent() *Message { return f.parent }

func (f *Field) Number() protoreflect.FieldNumber      { return f.number }
func (f *Field) Kind() protoreflect.Kind               { return f.kind }
func (f *Field) Cardinality() protoreflect.Cardinality { return f.cardinality }

// ContainingOneof is the oneof the field is a member of, or nil. A member
// field also remains in its message's field list; both lists hold the same
// *Field.
func (f *Field) ContainingOneof() *Oneof { return f.oneof }

// IsExtension reports whether the field extends another message.
func (f *Field) IsExtension() bool { return f.proto.GetExtendee() != "" }

// Message is the field's resolved message type, or nil when the field is
// not message-typed. It panics if called before the resolve phase has run.
func (f *Field) Message() *Message {
	if !f.target.resolved {
		panic(fmt.Sprintf("field %q: type accessed before resolution", f.fqn))
	}
	return f.target.message
}

// Enum is the field's resolved enum type, or nil when the field is not
// enum-typed. It panics if called before the resolve phase has run.
func (f *Field) Enum() *Enum {
	if !f.target.resolved {
		panic(fmt.Sprintf("field %q: type accessed before resolution", f.fqn))
	}
	return f.target.enum
}

// Extendee is the message an extension field extends. It is nil for plain
// fields and panics if called before the resolve phase has run.
func (f *Field) Extendee() *Message {
	if f.proto.GetExtendee() == "" {
		return nil
	}
	if !f.extendee.resolved {
		panic(fmt.Sprintf("extension %q: extendee accessed before resolution", f.fqn))
	}
	return f.extendee.message
}

// IsMap reports whether the field is a map field, i.e. a repeated field
// whose type is a synthetic map-entry message.
func (f *Field) IsMap() bool {
	if f.kind != protoreflect.MessageKind {
		return false
	}
	return f.Message().IsMapEntry()
}

// IsList reports whether the field is repeated and not a map.
func (f *Field) IsList() bool {
	return f.cardinality == protoreflect.Repeated && !f.IsMap()
}

// MapKey returns the key field of a map field's entry message, or nil when
// the field is not a map. A map entry always has exactly two fields.
func (f *Field) MapKey() *Field {
	if !f.IsMap() {
		return nil
	}
	return f.Message().fields[0]
}

// MapValue returns the value field of a map field's entry message, or nil
// when the field is not a map.
func (f *Field) MapValue() *Field {
	if !f.IsMap() {
		return nil
	}
	return f.Message().fields[1]
}

func (f *Field) Comments() sourceinfo.Comments { return f.file.locs.Comments(f.path) }

// Oneof is a linked oneof declaration. It is owned by its message and is
// never registered independently.
type Oneof struct {
	proto  *descriptorpb.OneofDescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Message
	path   protoreflect.SourcePath

	fields []*Field
}

func (o *Oneof) Proto() *descriptorpb.OneofDescriptorProto { return o.proto }
func (o *Oneof) Name() protoreflect.Name                   { return protoreflect.Name(o.proto.GetName()) }
func (o *Oneof) FullName() protoreflect.FullName           { return o.fqn }
func (o *Oneof) SourcePath() protoreflect.SourcePath       { return o.path }
func (o *Oneof) ParentFile() *File                         { return o.file }
func (o *Oneof) Parent() *Message                          { return o.parent }

// Fields are the oneof's member fields, in declaration order. Each member
// is the same object that appears in the message's own field list.
func (o *Oneof) Fields() []*Field { return o.fields }

func (o *Oneof) Comments() sourceinfo.Comments { return o.file.locs.Comments(o.path) }

// Enum is a linked enum declaration.
type Enum struct {
	proto  *descriptorpb.EnumDescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Message
	path   protoreflect.SourcePath

	values []*EnumValue
}

func (e *Enum) Proto() *descriptorpb.EnumDescriptorProto { return e.proto }
func (e *Enum) Name() protoreflect.Name                  { return protoreflect.Name(e.proto.GetName()) }
func (e *Enum) FullName() protoreflect.FullName          { return e.fqn }
func (e *Enum) SourcePath() protoreflect.SourcePath      { return e.path }
func (e *Enum) ParentFile() *File                        { return e.file }
func (e *Enum) Parent() *Message                         { return e.parent }
func (e *Enum) Values() []*EnumValue                     { return e.values }

func (e *Enum) Comments() sourceinfo.Comments { return e.file.locs.Comments(e.path) }

// EnumValue is a linked enum value. Its full name lives in the scope
// enclosing the enum, not in the enum itself; protobuf uses C++ scoping
// rules for enum values, so a top-level enum's values are qualified by the
// file's package alone.
type EnumValue struct {
	proto  *descriptorpb.EnumValueDescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Enum
	path   protoreflect.SourcePath

	number protoreflect.EnumNumber
}

func (v *EnumValue) Proto() *descriptorpb.EnumValueDescriptorProto { return v.proto }
func (v *EnumValue) Name() protoreflect.Name                       { return protoreflect.Name(v.proto.GetName()) }
func (v *EnumValue) FullName() protoreflect.FullName               { return v.fqn }
func (v *EnumValue) SourcePath() protoreflect.SourcePath           { return v.path }
func (v *EnumValue) ParentFile() *File                             { return v.file }
func (v *EnumValue) Parent() *Enum                                 { return v.parent }
func (v *EnumValue) Number() protoreflect.EnumNumber               { return v.number }

func (v *EnumValue) Comments() sourceinfo.Comments { return v.file.locs.Comments(v.path) }

// Service is a linked service declaration.
type Service struct {
	proto *descriptorpb.ServiceDescriptorProto
	fqn   protoreflect.FullName
	file  *File
	path  protoreflect.SourcePath

	methods []*Method
}

func (s *Service) Proto() *descriptorpb.ServiceDescriptorProto { return s.proto }
func (s *Service) Name() protoreflect.Name                     { return protoreflect.Name(s.proto.GetName()) }
func (s *Service) FullName() protoreflect.FullName             { return s.fqn }
func (s *Service) SourcePath() protoreflect.SourcePath         { return s.path }
func (s *Service) ParentFile() *File                           { return s.file }
func (s *Service) Methods() []*Method                          { return s.methods }

func (s *Service) Comments() sourceinfo.Comments { return s.file.locs.Comments(s.path) }

// Method is a linked service method.
type Method struct {
	proto  *descriptorpb.MethodDescriptorProto
	fqn    protoreflect.FullName
	file   *File
	parent *Service
	path   protoreflect.SourcePath

	input  methodRef
	output methodRef
}

type methodRef struct {
	message  *Message
	resolved bool
}

func (m *Method) Proto() *descriptorpb.MethodDescriptorProto { return m.proto }
func (m *Method) Name() protoreflect.Name                    { return protoreflect.Name(m.proto.GetName()) }
func (m *Method) FullName() protoreflect.FullName            { return m.fqn }
func (m *Method) SourcePath() protoreflect.SourcePath        { return m.path }
func (m *Method) ParentFile() *File                          { return m.file }
func (m *Method) Parent() *Service                           { return m.parent }

// Input is the method's resolved request message. It panics if called
// before the resolve phase has run.
func (m *Method) Input() *Message {
	if !m.input.resolved {
		panic(fmt.Sprintf("method %q: input accessed before resolution", m.fqn))
	}
	return m.input.message
}

// Output is the method's resolved response message. It panics if called
// before the resolve phase has run.
func (m *Method) Output() *Message {
	if !m.output.resolved {
		panic(fmt.Sprintf("method %q: output accessed before resolution", m.fqn))
	}
	return m.output.message
}

func (m *Method) IsStreamingClient() bool { return m.proto.GetClientStreaming() }
func (m *Method) IsStreamingServer() bool { return m.proto.GetServerStreaming() }

// DispatchPath is the method's wire dispatch path,
// "/<service-full-name>/<method-name>".
func (m *Method) DispatchPath() string {
	return "/" + string(m.parent.fqn) + "/" + m.proto.GetName()
}

func (m *Method) Comments() sourceinfo.Comments { return m.file.locs.Comments(m.path) }

var (
	_ Declaration = (*File)(nil)
	_ Declaration = (*Message)(nil)
	_ Declaration = (*Field)(nil)
	_ Declaration = (*Oneof)(nil)
	_ Declaration = (*Enum)(nil)
	_ Declaration = (*EnumValue)(nil)
	_ Declaration = (*Service)(nil)
	_ Declaration = (*Method)(nil)
)
