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

	"github.com/tidwall/btree"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Registry maps fully-qualified names to declarations, one table per
// declaration kind. Files are keyed by file name, everything else by full
// name. Registration is duplicate-checked; there is no deletion API.
//
// A Registry's lifetime is one invocation. It is not safe for concurrent
// use, which is fine: the whole pipeline is single-threaded.
type Registry struct {
	files      symbolTable[*File]
	messages   symbolTable[*Message]
	enums      symbolTable[*Enum]
	services   symbolTable[*Service]
	extensions symbolTable[*Field]
}

func NewRegistry() *Registry {
	return &Registry{
		files:      symbolTable[*File]{kind: "file"},
		messages:   symbolTable[*Message]{kind: "message"},
		enums:      symbolTable[*Enum]{kind: "enum"},
		services:   symbolTable[*Service]{kind: "service"},
		extensions: symbolTable[*Field]{kind: "extension"},
	}
}

// symbolTable is one kind's name-ordered mapping. The B-tree keeps
// enumeration and package-prefix filtering deterministic without a sort on
// every read.
type symbolTable[T Declaration] struct {
	kind string
	syms btree.Map[string, T]
}

func (t *symbolTable[T]) register(key string, decl T) error {
	if _, ok := t.syms.Get(key); ok {
		return &DuplicateRegistrationError{Kind: t.kind, Name: protoreflect.FullName(key)}
	}
	t.syms.Set(key, decl)
	return nil
}

func (t *symbolTable[T]) lookup(key string) (T, bool) {
	return t.syms.Get(key)
}

func (t *symbolTable[T]) rangeAll(fn func(T) bool) {
	t.syms.Scan(func(_ string, decl T) bool {
		return fn(decl)
	})
}

// rangeInPackage visits declarations whose owning file's package is
// exactly pkg. The scan starts at the package prefix and stops at the
// first key outside it. The empty package has no prefix to seek to, so it
// scans the whole table and relies on the exact-package check alone.
func (t *symbolTable[T]) rangeInPackage(pkg protoreflect.FullName, fn func(T) bool) {
	var prefix string
	if pkg != "" {
		prefix = string(pkg) + "."
	}
	t.syms.Ascend(prefix, func(key string, decl T) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		if decl.ParentFile().Package() != pkg {
			return true
		}
		return fn(decl)
	})
}

func (r *Registry) RegisterFile(f *File) error {
	if f.Path() == "" {
		return &MissingFieldError{Element: "file", Attribute: "name"}
	}
	return r.files.register(f.Path(), f)
}

// FileByPath returns the file registered under the given name, or nil.
func (r *Registry) FileByPath(path string) *File {
	f, _ := r.files.lookup(path)
	return f
}

func (r *Registry) RegisterMessage(m *Message) error {
	return r.messages.register(string(m.fqn), m)
}

// Message returns the message with the given full name, or nil.
func (r *Registry) Message(name protoreflect.FullName) *Message {
	m, _ := r.messages.lookup(string(name))
	return m
}

func (r *Registry) RegisterEnum(e *Enum) error {
	return r.enums.register(string(e.fqn), e)
}

// Enum returns the enum with the given full name, or nil.
func (r *Registry) Enum(name protoreflect.FullName) *Enum {
	e, _ := r.enums.lookup(string(name))
	return e
}

func (r *Registry) RegisterService(s *Service) error {
	return r.services.register(string(s.fqn), s)
}

// Service returns the service with the given full name, or nil.
func (r *Registry) Service(name protoreflect.FullName) *Service {
	s, _ := r.services.lookup(string(name))
	return s
}

func (r *Registry) RegisterExtension(f *Field) error {
	return r.extensions.register(string(f.fqn), f)
}

// Extension returns the extension field with the given full name, or nil.
func (r *Registry) Extension(name protoreflect.FullName) *Field {
	f, _ := r.extensions.lookup(string(name))
	return f
}

// RangeFiles visits all files in name order until fn returns false.
func (r *Registry) RangeFiles(fn func(*File) bool) { r.files.rangeAll(fn) }

// RangeMessages visits all messages in full-name order until fn returns
// false.
func (r *Registry) RangeMessages(fn func(*Message) bool) { r.messages.rangeAll(fn) }

// RangeEnums visits all enums in full-name order until fn returns false.
func (r *Registry) RangeEnums(fn func(*Enum) bool) { r.enums.rangeAll(fn) }

// RangeServices visits all services in full-name order until fn returns
// false.
func (r *Registry) RangeServices(fn func(*Service) bool) { r.services.rangeAll(fn) }

// RangeExtensions visits all extensions in full-name order until fn
// returns false.
func (r *Registry) RangeExtensions(fn func(*Field) bool) { r.extensions.rangeAll(fn) }

// MessagesInPackage visits messages declared in files of the given
// package, in full-name order.
func (r *Registry) MessagesInPackage(pkg protoreflect.FullName, fn func(*Message) bool) {
	r.messages.rangeInPackage(pkg, fn)
}

// EnumsInPackage visits enums declared in files of the given package, in
// full-name order.
func (r *Registry) EnumsInPackage(pkg protoreflect.FullName, fn func(*Enum) bool) {
	r.enums.rangeInPackage(pkg, fn)
}

// ServicesInPackage visits services declared in files of the given
// package, in full-name order.
func (r *Registry) ServicesInPackage(pkg protoreflect.FullName, fn func(*Service) bool) {
	r.services.rangeInPackage(pkg, fn)
}

// NumMessages returns the number of registered messages.
func (r *Registry) NumMessages() int { return r.messages.syms.Len() }

// NumFiles returns the number of registered files.
func (r *Registry) NumFiles() int { return r.files.syms.Len() }
