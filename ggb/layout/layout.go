// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout lays out hierarchies of rectangular elements in two
// dimensional space.
//
// Elements report a desired size and whether they can stretch beyond
// it. Containers assign each child a rectangle in absolute
// coordinates. Fixed elements keep their desired extent; flexible
// elements share whatever space remains.
package layout

// An Element is a rectangular feature in a layout.
type Element interface {
	// SizeHint returns this Element's desired size and whether it
	// can expand from that size in either dimension.
	SizeHint() (w, h float64, flexw, flexh bool)

	// SetLayout assigns this Element the rectangle at (x, y) of
	// size w by h in absolute coordinates and, if this Element is
	// a container, recursively lays out its children.
	SetLayout(x, y, w, h float64)

	// Layout returns this Element's assigned rectangle.
	Layout() (x, y, w, h float64)
}

// A Group is an Element that manages the layout of child Elements.
type Group interface {
	Element

	// Children returns the child Elements laid out by this Group.
	Children() []Element
}

// Leaf partially implements Element for embedding, leaving SizeHint
// to the embedding type.
type Leaf struct {
	x, y, w, h float64
}

func (l *Leaf) SetLayout(x, y, w, h float64) {
	l.x, l.y, l.w, l.h = x, y, w, h
}

func (l *Leaf) Layout() (x, y, w, h float64) {
	return l.x, l.y, l.w, l.h
}
