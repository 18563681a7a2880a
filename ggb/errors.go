// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import "fmt"

// A SpecificationError reports a malformed PlotSpec. It is detected
// before any pipeline stage runs.
type SpecificationError struct {
	Msg string
}

func (e *SpecificationError) Error() string {
	return "bad plot specification: " + e.Msg
}

// A MissingAestheticError reports that a geometry requires an
// aesthetic that is absent after all mapping and default filling.
type MissingAestheticError struct {
	Aes string
}

func (e *MissingAestheticError) Error() string {
	return fmt.Sprintf("missing required aesthetic %q", e.Aes)
}

// A ScaleConflictError reports that layers supplied incompatible
// discrete and continuous data for the same aesthetic.
type ScaleConflictError struct {
	Aes string
}

func (e *ScaleConflictError) Error() string {
	return fmt.Sprintf("aesthetic %q is mapped to both discrete and continuous data", e.Aes)
}

// An UnknownFacetKeyError reports that a facet variable is absent from
// a layer's resolved dataset.
type UnknownFacetKeyError struct {
	Col string
}

func (e *UnknownFacetKeyError) Error() string {
	return fmt.Sprintf("facet column %q not in layer data", e.Col)
}

// A BuildError wraps an error from a pipeline stage with the offending
// layer index and stage name. Layer is -1 for errors that are not
// specific to a layer.
type BuildError struct {
	Layer int
	Stage string
	Err   error
}

func (e *BuildError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("%s: %s", e.Stage, e.Err)
	}
	return fmt.Sprintf("layer %d: %s: %s", e.Layer, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// A BuildWarning records a recoverable condition absorbed during a
// build, such as a group too sparse for its statistic.
type BuildWarning struct {
	Layer int
	Stage string
	Msg   string
}

func (w BuildWarning) String() string {
	return fmt.Sprintf("layer %d: %s: %s", w.Layer, w.Stage, w.Msg)
}
