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

// Package tslink is a framework for writing protoc plugins that emit
// TypeScript. It links a CodeGeneratorRequest's file descriptors into a
// navigable graph (see the linker package), hands the graph to a
// generator callback, and manages the callback's output buffers,
// including TypeScript import statements for every foreign identifier
// the buffers reference.
//
// A plugin's main function is typically a single call:
//
//	func main() {
//		tslink.Options{}.Run(func(p *tslink.Plugin) error {
//			for _, f := range p.FilesToGenerate {
//				// inspect f, open buffers with p.NewGeneratedFile
//			}
//			return nil
//		})
//	}
//
// Output buffers accumulate lines of interleaved literal text and
// identifier references. References to identifiers from other modules
// are rewritten as alias-qualified names, and the matching import
// statements are inserted at a position the generator marks, so imports
// can be emitted after the code that needs them is known.
package tslink
