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

// Package walk provides depth-first enumeration of a linked file's
// declarations.
package walk

import (
	"github.com/tslink/tslink/linker"
)

// Declarations visits every declaration in f in depth-first declaration
// order: messages (with their fields, oneofs, nested messages, enums, and
// extensions), then file-level enums, extensions, and services with their
// methods. The file itself is not visited. Returning an error stops the
// walk.
func Declarations(f *linker.File, fn func(linker.Declaration) error) error {
	return DeclarationsEnterAndExit(f, fn, nil)
}

// DeclarationsEnterAndExit is like Declarations but additionally calls
// exit when leaving a message, enum, or service. exit may be nil.
func DeclarationsEnterAndExit(f *linker.File, enter, exit func(linker.Declaration) error) error {
	for _, m := range f.Messages() {
		if err := message(m, enter, exit); err != nil {
			return err
		}
	}
	for _, e := range f.Enums() {
		if err := enum(e, enter, exit); err != nil {
			return err
		}
	}
	for _, x := range f.Extensions() {
		if err := enter(x); err != nil {
			return err
		}
	}
	for _, s := range f.Services() {
		if err := enter(s); err != nil {
			return err
		}
		for _, mtd := range s.Methods() {
			if err := enter(mtd); err != nil {
				return err
			}
		}
		if exit != nil {
			if err := exit(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func message(m *linker.Message, enter, exit func(linker.Declaration) error) error {
	if err := enter(m); err != nil {
		return err
	}
	for _, fld := range m.Fields() {
		if err := enter(fld); err != nil {
			return err
		}
	}
	for _, oo := range m.Oneofs() {
		if err := enter(oo); err != nil {
			return err
		}
	}
	for _, nested := range m.Messages() {
		if err := message(nested, enter, exit); err != nil {
			return err
		}
	}
	for _, e := range m.Enums() {
		if err := enum(e, enter, exit); err != nil {
			return err
		}
	}
	for _, x := range m.Extensions() {
		if err := enter(x); err != nil {
			return err
		}
	}
	if exit != nil {
		return exit(m)
	}
	return nil
}

func enum(e *linker.Enum, enter, exit func(linker.Declaration) error) error {
	if err := enter(e); err != nil {
		return err
	}
	for _, v := range e.Values() {
		if err := enter(v); err != nil {
			return err
		}
	}
	if exit != nil {
		return exit(e)
	}
	return nil
}
