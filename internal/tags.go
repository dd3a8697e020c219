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

// Package internal holds field numbers from descriptor.proto that are used
// to build source paths. A source path alternates between the field number
// of a repeated field and an index into that repeated field, tracing the
// route from a FileDescriptorProto to a nested element. The comment
// extractor keys SourceCodeInfo locations by these paths.
package internal

const (
	// field numbers in FileDescriptorProto
	FilePackageTag    = 2
	FileDependencyTag = 3
	FileMessagesTag   = 4
	FileEnumsTag      = 5
	FileServicesTag   = 6
	FileExtensionsTag = 7
	FileSyntaxTag     = 12

	// field numbers in DescriptorProto
	MessageFieldsTag         = 2
	MessageNestedMessagesTag = 3
	MessageEnumsTag          = 4
	MessageExtensionsTag     = 6
	MessageOneofsTag         = 8

	// field numbers in EnumDescriptorProto
	EnumValuesTag = 2

	// field numbers in ServiceDescriptorProto
	ServiceMethodsTag = 2
)
