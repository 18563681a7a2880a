// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import "image/color"

// A Grob is a resolution-independent graphical primitive produced by
// a Geom. All coordinates are normalized panel coordinates: (0, 0) is
// the panel's lower left corner and (1, 1) its upper right. Backends
// map these to device pixels.
type Grob interface {
	grob()
}

// GrobPoints is a set of markers.
type GrobPoints struct {
	X, Y    []float64
	Stroke  []color.Color
	Fill    []color.Color
	Size    []float64
	Opacity []float64
}

// GrobPath is an open polyline through its vertices in order.
type GrobPath struct {
	X, Y    []float64
	Stroke  color.Color
	Width   float64
	Opacity float64
}

// GrobRect is a set of axis-aligned rectangles.
type GrobRect struct {
	X0, Y0, X1, Y1 []float64
	Fill           []color.Color
	Opacity        []float64
}

// GrobPolygon is a single closed filled polygon.
type GrobPolygon struct {
	X, Y    []float64
	Fill    color.Color
	Opacity float64
}

// GrobText is a single run of text anchored at a point.
type GrobText struct {
	X, Y float64
	Text string
	// Anchor is -1, 0, or 1 for left, center, or right anchoring.
	Anchor int
	Size   float64
	Fill   color.Color
}

func (*GrobPoints) grob()  {}
func (*GrobPath) grob()    {}
func (*GrobRect) grob()    {}
func (*GrobPolygon) grob() {}
func (*GrobText) grob()    {}
