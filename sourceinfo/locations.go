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

// Package sourceinfo extracts comments from a file descriptor's
// SourceCodeInfo. Locations are keyed by source path, the sequence of
// descriptor.proto field numbers and indexes that leads from the file to a
// nested declaration.
package sourceinfo

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Comments holds the comments attached to one declaration. All fields are
// zero when the file carried no source info or the path had no location.
type Comments struct {
	Leading         string
	Trailing        string
	LeadingDetached []string
}

// Locations is an index of a single file's source code info. The zero
// value is a valid, empty index.
type Locations struct {
	index map[string]*descriptorpb.SourceCodeInfo_Location
}

// NewLocations indexes the given source code info. Only the first location
// recorded for a path is kept, which matches how protoc emits spans for
// complete declarations.
func NewLocations(info *descriptorpb.SourceCodeInfo) Locations {
	locs := info.GetLocation()
	if len(locs) == 0 {
		return Locations{}
	}
	index := make(map[string]*descriptorpb.SourceCodeInfo_Location, len(locs))
	for _, loc := range locs {
		key := pathKey(loc.GetPath())
		if _, ok := index[key]; !ok {
			index[key] = loc
		}
	}
	return Locations{index: index}
}

// Comments returns the comments recorded for the given source path, or the
// zero Comments if none were recorded.
func (l Locations) Comments(path protoreflect.SourcePath) Comments {
	loc, ok := l.index[pathKey(path)]
	if !ok {
		return Comments{}
	}
	return Comments{
		Leading:         loc.GetLeadingComments(),
		Trailing:        loc.GetTrailingComments(),
		LeadingDetached: loc.GetLeadingDetachedComments(),
	}
}

func pathKey(p protoreflect.SourcePath) string {
	var sb strings.Builder
	for _, v := range p {
		sb.WriteString(strconv.FormatInt(int64(v), 10))
		sb.WriteByte(':')
	}
	return sb.String()
}
