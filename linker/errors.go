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
)

// All linking failures are structural inconsistencies in the request. None
// of them are retriable: they abort the link before any generation runs.

// MissingFieldError indicates that a descriptor omitted a required
// attribute, such as a name or a field number.
type MissingFieldError struct {
	Element   string
	Attribute string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Element, e.Attribute)
}

// DuplicateRegistrationError indicates that two declarations of the same
// kind resolved to the same fully-qualified name.
type DuplicateRegistrationError struct {
	Kind string
	Name protoreflect.FullName
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Kind, e.Name)
}

// UnresolvedReferenceError indicates that a type name, extendee name, or
// file dependency had no match in the registry.
type UnresolvedReferenceError struct {
	Context string // the declaration holding the reference
	Name    string // the reference that failed to resolve
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: unresolved reference %q", e.Context, e.Name)
}

// UnrecognizedLabelError indicates a field cardinality label outside the
// three values descriptor.proto defines.
type UnrecognizedLabelError struct {
	Field protoreflect.FullName
	Label int32
}

func (e *UnrecognizedLabelError) Error() string {
	return fmt.Sprintf("field %q: unrecognized label %d", e.Field, e.Label)
}

// OneofIndexError indicates a field that references a oneof index its
// message does not declare.
type OneofIndexError struct {
	Field protoreflect.FullName
	Index int32
	Len   int
}

func (e *OneofIndexError) Error() string {
	return fmt.Sprintf("field %q: oneof index %d out of range (message has %d oneofs)", e.Field, e.Index, e.Len)
}
