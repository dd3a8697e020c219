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
	"google.golang.org/protobuf/types/descriptorpb"
)

// Link turns a flat, unlinked list of file descriptors into the linked
// graph. It runs two strictly ordered phases:
//
//  1. Register: every file's ownership tree is constructed and every
//     declaration inserted into reg. No references are resolved.
//  2. Resolve: file dependencies, field types, extendees, and method
//     input/output types are filled in by registry lookup, then synthetic
//     map-entry messages are pruned from their owners' nested lists.
//
// Phase 2 starts only after phase 1 has processed every file, which is
// what makes forward and cyclic file references legal. The first error
// aborts the link; a non-nil error means the returned graph must be
// discarded.
//
// generate marks which file names were requested for output; files not in
// the set are linked as dependencies only. The returned files are in
// request order.
func Link(reg *Registry, protos []*descriptorpb.FileDescriptorProto, generate map[string]bool) ([]*File, error) {
	files := make([]*File, 0, len(protos))
	for _, fdp := range protos {
		f, err := registerFile(reg, fdp, generate[fdp.GetName()])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	for _, f := range files {
		if err := resolveFile(reg, f); err != nil {
			return nil, err
		}
	}
	return files, nil
}
