// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

import "io"

// Options configure a conversion.
type Options struct {
	// Name overrides the document name derived from the markup.
	Name string
	// AutoMirror marks the image for mirroring in right-to-left
	// layouts.
	AutoMirror bool
}

// Result is the outcome of a successful conversion.
type Result struct {
	Name     string
	Code     string
	Imports  []string
	Warnings []Warning
	// Document is the optimized IR, retained for diagnostics and
	// preview rendering.
	Document *Document
}

// Convert runs the whole pipeline on one document: parse, optimize,
// generate. It is a pure function of its input; independent
// invocations may run concurrently.
func Convert(r io.Reader, opts Options) (*Result, error) {
	doc, warnings, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if opts.Name != "" {
		doc.Name = opts.Name
	}
	doc.Nodes = Optimize(doc.Nodes)

	code, imports := Generate(doc, GeneratorOptions{AutoMirror: opts.AutoMirror})
	return &Result{
		Name:     doc.Name,
		Code:     code,
		Imports:  imports,
		Warnings: warnings,
		Document: doc,
	}, nil
}
