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

// Package linker builds a fully cross-referenced descriptor graph from the
// flat descriptor lists of a code generator request.
//
// The graph is built once per invocation: all files are registered, then
// all references are resolved, and from that point on the graph and the
// registry are read-only. Everything is single-threaded; nothing in this
// package is safe for concurrent use and nothing needs to be.
package linker
