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

package tslink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/tslink/tslink/linker"
)

// Options configures a plugin invocation.
type Options struct {
	// Logger receives diagnostics. It must never write to stdout, which
	// protoc reserves for the response; the default logger writes to
	// stderr at warn level, raised to debug by the "verbose" parameter.
	Logger *logrus.Logger
}

// Run reads a CodeGeneratorRequest from stdin, links it, hands the result
// to fn, and writes the CodeGeneratorResponse to stdout. Errors from
// linking or from fn become the response's error message; protocol-level
// failures (unreadable stdin, undecodable request) terminate the process
// with a nonzero status since no response can be produced at all.
func (opts Options) Run(fn func(*Plugin) error) {
	if err := opts.run(fn); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(1)
	}
}

func (opts Options) run(fn func(*Plugin) error) error {
	// the full request is read before any construction starts
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(in, req); err != nil {
		return err
	}
	resp := opts.Execute(req, fn)
	out, err := proto.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// Execute runs one invocation against an already-decoded request and
// returns the response. The response carries either generated files or a
// single error message, never both.
func (opts Options) Execute(req *pluginpb.CodeGeneratorRequest, fn func(*Plugin) error) *pluginpb.CodeGeneratorResponse {
	p, err := New(opts, req)
	if err != nil {
		return &pluginpb.CodeGeneratorResponse{Error: proto.String(err.Error())}
	}
	if err := fn(p); err != nil {
		p.Error(err)
	}
	return p.Response()
}

// Plugin is one invocation's state: the linked graph, the parsed
// parameters, and the output buffers created by the generator callback.
type Plugin struct {
	// Request is the raw request the invocation was built from.
	Request *pluginpb.CodeGeneratorRequest

	// Files is every linked file, in request order. FilesToGenerate is
	// the subset named in file_to_generate, also in request order.
	Files           []*linker.File
	FilesToGenerate []*linker.File

	// Registry resolves full names across the whole request.
	Registry *linker.Registry

	params   map[string]string
	logger   *logrus.Logger
	genFiles []*GeneratedFile
	err      error
}

// New links the request into a Plugin. A linking error means the request
// is structurally inconsistent; no generation can happen.
func New(opts Options, req *pluginpb.CodeGeneratorRequest) (*Plugin, error) {
	params := parseParams(req.GetParameter())

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.WarnLevel)
	}
	if _, ok := params["verbose"]; ok {
		logger.SetLevel(logrus.DebugLevel)
	}

	generate := make(map[string]bool, len(req.GetFileToGenerate()))
	for _, name := range req.GetFileToGenerate() {
		generate[name] = true
	}

	reg := linker.NewRegistry()
	files, err := linker.Link(reg, req.GetProtoFile(), generate)
	if err != nil {
		return nil, err
	}

	p := &Plugin{
		Request:  req,
		Files:    files,
		Registry: reg,
		params:   params,
		logger:   logger,
	}
	for _, f := range files {
		if f.Generate() {
			p.FilesToGenerate = append(p.FilesToGenerate, f)
		}
	}
	logger.WithFields(logrus.Fields{
		"files":    len(files),
		"generate": len(p.FilesToGenerate),
		"symbols":  reg.NumMessages(),
	}).Debug("linked descriptor graph")
	return p, nil
}

// parseParams parses protoc's comma-separated parameter string. Empty
// entries are ignored; each entry splits on its first "=", with further
// "=" characters belonging to the value; an entry without "=" has the
// empty string as its value.
func parseParams(s string) map[string]string {
	params := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		if entry == "" {
			continue
		}
		name, value, _ := strings.Cut(entry, "=")
		params[name] = value
	}
	return params
}

// Parameter returns the named request parameter and whether it was set.
func (p *Plugin) Parameter(name string) (string, bool) {
	v, ok := p.params[name]
	return v, ok
}

// Logger is the invocation's diagnostic logger.
func (p *Plugin) Logger() *logrus.Logger { return p.logger }

// NewGeneratedFile opens an output buffer that will appear in the
// response under filename. module is the buffer's home identity for
// import resolution.
func (p *Plugin) NewGeneratedFile(filename string, module ModuleIdent) *GeneratedFile {
	g := newGeneratedFile(filename, module)
	p.genFiles = append(p.genFiles, g)
	return g
}

// Error records a generation failure. Only the first recorded error is
// kept; once set, the response carries the error and no file output.
func (p *Plugin) Error(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Response assembles the invocation's response: the finalized content of
// every buffer, or the single recorded error message.
func (p *Plugin) Response() *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}
	if p.err != nil {
		resp.Error = proto.String(p.err.Error())
		return resp
	}
	for _, g := range p.genFiles {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(g.Filename()),
			Content: proto.String(string(g.Content())),
		})
	}
	p.logger.WithField("files", len(resp.File)).Debug("assembled response")
	return resp
}
