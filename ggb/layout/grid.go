// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// Grid lays out elements in a two dimensional table. Each child is
// assigned to a cell and may span multiple rows and/or columns.
//
// A column's desired width is the widest hint of the single-span
// children in it, and the column is flexible unless some single-span
// child in it is fixed. A child spanning several columns widens the
// flexible ones if its hint does not fit. Rows work the same way.
type Grid struct {
	elts       []*gridElement
	rows, cols int
	x, y, w, h float64
}

type gridElement struct {
	e                Element
	col, row         int
	colSpan, rowSpan int
}

// Add adds Element e to Grid g, spanning cells (col, row) up to but
// not including (col+colSpan, row+rowSpan).
func (g *Grid) Add(e Element, col, row, colSpan, rowSpan int) {
	if col+colSpan > g.cols {
		g.cols = col + colSpan
	}
	if row+rowSpan > g.rows {
		g.rows = row + rowSpan
	}
	g.elts = append(g.elts, &gridElement{e, col, row, colSpan, rowSpan})
}

// Dims returns the number of rows and columns in g.
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

func (g *Grid) Children() []Element {
	res := make([]Element, len(g.elts))
	for i, elt := range g.elts {
		res[i] = elt.e
	}
	return res
}

// track holds the computed size of one row or column.
type track struct {
	size float64
	flex bool
}

func (g *Grid) tracks(byRow bool) []track {
	var n int
	if byRow {
		n = g.rows
	} else {
		n = g.cols
	}
	ts := make([]track, n)
	for i := range ts {
		ts[i].flex = true
	}

	span := func(e *gridElement) (pos, n int, dim float64, flex bool) {
		w, h, fw, fh := e.e.SizeHint()
		if byRow {
			return e.row, e.rowSpan, h, fh
		}
		return e.col, e.colSpan, w, fw
	}

	// Single-span children set their track directly.
	for _, e := range g.elts {
		pos, n, dim, flex := span(e)
		if n != 1 {
			continue
		}
		if dim > ts[pos].size {
			ts[pos].size = dim
		}
		if !flex {
			ts[pos].flex = false
		}
	}

	// Multi-span children widen the flexible tracks they cross.
	for _, e := range g.elts {
		pos, n, dim, _ := span(e)
		if n <= 1 {
			continue
		}
		have, nflex := 0.0, 0
		for i := pos; i < pos+n; i++ {
			have += ts[i].size
			if ts[i].flex {
				nflex++
			}
		}
		if dim <= have {
			continue
		}
		// Split the deficit over the flexible tracks, or over
		// all spanned tracks if every one is fixed.
		extra := dim - have
		if nflex == 0 {
			for i := pos; i < pos+n; i++ {
				ts[i].size += extra / float64(n)
			}
			continue
		}
		for i := pos; i < pos+n; i++ {
			if ts[i].flex {
				ts[i].size += extra / float64(nflex)
			}
		}
	}
	return ts
}

// fit stretches the tracks to fill total, giving flexible tracks
// equal shares of the leftover space, and returns the cumulative
// positions of the track edges.
func fit(ts []track, total float64) []float64 {
	fixed, nflex := 0.0, 0
	for _, t := range ts {
		fixed += t.size
		if t.flex {
			nflex++
		}
	}
	extra := total - fixed
	if extra < 0 || nflex == 0 {
		extra = 0
	}

	pos := make([]float64, len(ts)+1)
	for i, t := range ts {
		size := t.size
		if t.flex && nflex > 0 {
			size += extra / float64(nflex)
		}
		pos[i+1] = pos[i] + size
	}
	return pos
}

func (g *Grid) SizeHint() (w, h float64, flexw, flexh bool) {
	for _, t := range g.tracks(false) {
		w += t.size
		flexw = flexw || t.flex
	}
	for _, t := range g.tracks(true) {
		h += t.size
		flexh = flexh || t.flex
	}
	return
}

func (g *Grid) SetLayout(x, y, w, h float64) {
	g.x, g.y, g.w, g.h = x, y, w, h

	xpos := fit(g.tracks(false), w)
	ypos := fit(g.tracks(true), h)
	for _, e := range g.elts {
		x0 := x + xpos[e.col]
		y0 := y + ypos[e.row]
		e.e.SetLayout(x0, y0,
			xpos[e.col+e.colSpan]-xpos[e.col],
			ypos[e.row+e.rowSpan]-ypos[e.row])
	}
}

func (g *Grid) Layout() (x, y, w, h float64) {
	return g.x, g.y, g.w, g.h
}
