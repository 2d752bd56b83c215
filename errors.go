// Copyright 2022 The svg2compose Authors. All rights reserved.

package svg2compose

import (
	"errors"
	"fmt"
)

var (
	errParamMismatch  = errors.New("param mismatch")
	errCommandUnknown = errors.New("unknown command")
	errZeroLengthID   = errors.New("zero length id")
)

// PathSyntaxError reports a malformed path-data string. Pos is the byte
// offset into the string where parsing failed.
type PathSyntaxError struct {
	Pos int
	Msg string
}

func (e *PathSyntaxError) Error() string {
	return fmt.Sprintf("path syntax error at %d: %s", e.Pos, e.Msg)
}

// TransformSyntaxError reports a malformed transform-function list.
type TransformSyntaxError struct {
	Func string
	Msg  string
}

func (e *TransformSyntaxError) Error() string {
	if e.Func == "" {
		return "transform syntax error: " + e.Msg
	}
	return fmt.Sprintf("transform syntax error in %q: %s", e.Func, e.Msg)
}

// DocumentSyntaxError reports malformed markup. It aborts the whole
// conversion.
type DocumentSyntaxError struct {
	Err error
}

func (e *DocumentSyntaxError) Error() string {
	return "document syntax error: " + e.Err.Error()
}

func (e *DocumentSyntaxError) Unwrap() error { return e.Err }

// ValidationError reports an IR invariant violation, such as a
// non-positive viewport. It aborts the whole conversion.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

// WarningKind classifies the recoverable problems collected during a
// conversion.
type WarningKind uint8

const (
	UnsupportedFeature WarningKind = iota
	UnresolvedReference
	PathSyntax
	TransformSyntax
)

func (k WarningKind) String() string {
	switch k {
	case UnsupportedFeature:
		return "unsupported feature"
	case UnresolvedReference:
		return "unresolved reference"
	case PathSyntax:
		return "path syntax"
	case TransformSyntax:
		return "transform syntax"
	}
	return "unknown"
}

// Warning records an element-local problem that did not stop the
// conversion. Offset is the byte offset of the owning element in the
// source document, or -1 when unknown.
type Warning struct {
	Kind    WarningKind
	Message string
	Offset  int64
}

func (w Warning) String() string {
	if w.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", w.Kind, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
