// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

// A Coord maps scaled positions in [0, 1] x [0, 1] to normalized
// panel coordinates. It applies after position adjustment, when geoms
// produce their grobs.
type Coord interface {
	// XY maps a scaled (x, y) position to panel coordinates.
	XY(x, y float64) (px, py float64)

	// Flipped reports whether the coordinate system exchanges the
	// roles of the x and y scales. Axes follow the flip.
	Flipped() bool
}

// CoordCartesian is the identity coordinate system.
type CoordCartesian struct{}

func (CoordCartesian) XY(x, y float64) (float64, float64) { return x, y }

func (CoordCartesian) Flipped() bool { return false }

// CoordFlip exchanges the x and y axes. A vertical bar layer under
// CoordFlip renders horizontal bars without restating its mapping.
type CoordFlip struct{}

func (CoordFlip) XY(x, y float64) (float64, float64) { return y, x }

func (CoordFlip) Flipped() bool { return true }
