// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ggb compiles declarative plot specifications into renderable
// layout trees.
//
// ggb is the back half of a Grammar of Graphics system: it knows
// nothing about how a plot specification is written down, and nothing
// about how pixels are produced. It takes a PlotSpec (data, aesthetic
// mappings, layers, scales, a coordinate system, and a facet) and
// compiles it in two stages.
//
// The build stage (Build) runs every layer through a fixed sequence of
// data transformations: data resolution, aesthetic mapping, panel and
// group assignment, scale training and transformation, out-of-bounds
// handling, statistical transformation, position adjustment, and
// geometry finalization. Its result is one drawing-ready table per
// layer plus a Layout holding the trained scales and panel structure.
//
// The assembly stage (Assemble) converts drawing-ready tables into
// primitive graphical objects (grobs), composes them with facet
// panels, axes, legends, and titles, and returns a single LayoutTree
// whose grid geometry a rendering backend can traverse without any
// plot-domain knowledge.
//
// Each stage takes the previous stage's values and produces new ones;
// nothing is mutated in place across stages, so intermediate state can
// be observed with BuildTraced and builds of the same PlotSpec are
// reproducible.
//
// Data is carried in go-gg tables (github.com/aclements/go-gg/table).
// Rows are observations; columns are standardized aesthetic names
// ("x", "y", "stroke", "fill", "opacity", "size") plus the bookkeeping
// columns "PANEL" and "group".
package ggb

import (
	"log"
	"os"
)

// Warning is a logger for reporting conditions that don't prevent the
// production of a plot, but may lead to unexpected results.
var Warning = log.New(os.Stderr, "[ggb] ", log.Lshortfile)

// Standardized aesthetic and bookkeeping column names.
const (
	AesX       = "x"
	AesY       = "y"
	AesYMin    = "ymin"
	AesYMax    = "ymax"
	AesStroke  = "stroke"
	AesFill    = "fill"
	AesOpacity = "opacity"
	AesSize    = "size"

	// ColPanel and ColGroup are the bookkeeping columns every row
	// carries from panel/group assignment on. Panel ids are
	// 1-based; group ids are 0-based.
	ColPanel = "PANEL"
	ColGroup = "group"
)

// positionalAes reports whether aes encodes spatial position.
func positionalAes(aes string) bool {
	switch aes {
	case AesX, AesY, AesYMin, AesYMax, colXMin, colXMax:
		return true
	}
	return false
}
