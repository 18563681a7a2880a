// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/ggb/layout"
)

// A LayoutTree is the composed drawing plan of a plot: a hierarchy
// of positioned elements ready for a rendering backend. Element
// rectangles are in points with the origin at the top left.
type LayoutTree struct {
	Root          layout.Element
	Width, Height float64
}

// Walk calls f for every element of the tree in depth-first order,
// parents before children.
func (lt *LayoutTree) Walk(f func(layout.Element)) {
	var walk func(e layout.Element)
	walk = func(e layout.Element) {
		f(e)
		if g, ok := e.(layout.Group); ok {
			for _, c := range g.Children() {
				walk(c)
			}
		}
	}
	walk(lt.Root)
}

// Side says which edge of a panel grid an element attaches to.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// A PanelElt is one panel's data region. Its grobs are in normalized
// panel coordinates; the backend maps them into the element's
// rectangle.
type PanelElt struct {
	layout.Leaf
	Panel *Panel
	// Grobs holds the panel's grobs in drawing order: layers in
	// specification order, each layer's grobs in row order.
	Grobs []Grob
	// XTicks and YTicks are major grid line positions in
	// normalized panel coordinates.
	XTicks, YTicks []float64
	Theme          *Theme
}

func (e *PanelElt) SizeHint() (w, h float64, flexw, flexh bool) {
	return 72, 72, true, true
}

// An AxisElt draws one axis: its tick marks and tick labels.
type AxisElt struct {
	layout.Leaf
	Axis  *Axis
	Side  Side
	Theme *Theme
}

func (e *AxisElt) SizeHint() (w, h float64, flexw, flexh bool) {
	if e.Side == SideBottom {
		return 0, e.Theme.TickLength + e.Theme.FontSize*1.5, true, false
	}
	max := 0.0
	for _, k := range e.Axis.Keys {
		if w := estText(k.Label, e.Theme.FontSize); w > max {
			max = w
		}
	}
	return e.Theme.TickLength + max + 2, 0, false, true
}

// A StripElt is a facet label band above a panel.
type StripElt struct {
	layout.Leaf
	Label string
	Side  Side
	Theme *Theme
}

func (e *StripElt) SizeHint() (w, h float64, flexw, flexh bool) {
	if e.Side == SideRight {
		return e.Theme.FontSize * 1.5, 0, false, true
	}
	return 0, e.Theme.FontSize * 1.5, true, false
}

// A TextElt is a single run of adornment text, such as the plot
// title or an axis title.
type TextElt struct {
	layout.Leaf
	Text string
	// Size is the font size in points.
	Size float64
	// Vertical rotates the text 90 degrees counterclockwise.
	Vertical bool
	Theme    *Theme
}

func (e *TextElt) SizeHint() (w, h float64, flexw, flexh bool) {
	if e.Text == "" {
		return 0, 0, e.Vertical, !e.Vertical
	}
	if e.Vertical {
		return e.Size * 1.5, estText(e.Text, e.Size), false, true
	}
	return estText(e.Text, e.Size), e.Size * 1.5, true, false
}

// A LegendElt draws the plot's legends stacked vertically.
type LegendElt struct {
	layout.Leaf
	Legends []*Legend
	Side    Side
	// Inside overlays the legends on the panel area. An inside
	// legend claims no space of its own.
	Inside bool
	Theme  *Theme
}

// NaturalSize returns the width and height of the stacked legends.
func (e *LegendElt) NaturalSize() (w, h float64) {
	maxw, rows := 0.0, 0
	for _, l := range e.Legends {
		if w := estText(l.Title, e.Theme.FontSize); w > maxw {
			maxw = w
		}
		for _, k := range l.Keys {
			// Swatch plus gap plus label.
			if w := e.Theme.FontSize*1.5 + estText(k.Label, e.Theme.FontSize); w > maxw {
				maxw = w
			}
		}
		rows += 1 + len(l.Keys)
	}
	return maxw + 4, float64(rows) * e.Theme.FontSize * 1.6
}

func (e *LegendElt) SizeHint() (w, h float64, flexw, flexh bool) {
	if e.Inside {
		return 0, 0, true, true
	}
	w, h = e.NaturalSize()
	if e.Side == SideTop || e.Side == SideBottom {
		return 0, h, true, false
	}
	return w, h, false, true
}

// A SpaceElt is a spacer. A zero extent leaves that dimension
// flexible, so a strut can fix one dimension only.
type SpaceElt struct {
	layout.Leaf
	W, H float64
}

func (e *SpaceElt) SizeHint() (w, h float64, flexw, flexh bool) {
	return e.W, e.H, e.W == 0, e.H == 0
}

// estText estimates the width in points of s at the given font size.
// Backends with real font metrics may draw slightly narrower text;
// layout only needs an upper bound.
func estText(s string, size float64) float64 {
	return float64(len(s)) * size * 0.62
}

// maxAxisTicks is the tick count hint for axis guides.
const maxAxisTicks = 6

// Assemble composes the result of Build into a LayoutTree of the
// given overall size in points.
func Assemble(res *BuildResult, width, height float64) (*LayoutTree, error) {
	lay := res.Layout
	th := lay.Theme
	env := &DrawEnv{Scales: lay.Scales, Coord: lay.Coord}

	// Draw every panel's grobs, layers in order.
	panelElts := make(map[int]*PanelElt)
	for _, p := range lay.Panels {
		pe := &PanelElt{Panel: p, Theme: th}
		for li, ld := range res.Layers {
			if ld.Data.Column(ColPanel) == nil {
				// The layer's statistic emptied every cell.
				continue
			}
			sub := table.Flatten(table.FilterEq(ld.Data, ColPanel, p.ID))
			if sub.Len() == 0 {
				continue
			}
			grobs, err := ld.Layer.Geom.Draw(env, sub)
			if err != nil {
				return nil, &BuildError{Layer: li, Stage: "assemble", Err: err}
			}
			pe.Grobs = append(pe.Grobs, grobs...)
		}
		panelElts[p.ID] = pe
	}

	xAxis, yAxis, legends := lay.Guides(maxAxisTicks)
	rows, cols := lay.Dims()

	// Panels share axes, so every panel gets the same grid lines.
	for _, pe := range panelElts {
		if xAxis != nil {
			for _, k := range xAxis.Keys {
				pe.XTicks = append(pe.XTicks, k.Pos)
			}
		}
		if yAxis != nil {
			for _, k := range yAxis.Keys {
				pe.YTicks = append(pe.YTicks, k.Pos)
			}
		}
	}

	hasStrips := false
	for _, p := range lay.Panels {
		if len(p.Labels) > 0 {
			hasStrips = true
		}
	}

	// Frame: y title, y axes, panel cells interleaved with margin
	// gutters, legends around the panel grid; x axes and adornments
	// above and below. Tracks are allocated only for content that is
	// present. An unused track would default to flexible and absorb
	// space from the panels.
	frame := new(layout.Grid)
	legendPos := th.Legend
	if len(legends) == 0 {
		legendPos = LegendNone
	}

	col := 0
	if legendPos == LegendLeft {
		col++
	}
	colYTitle := col
	if yAxis != nil && yAxis.Title != "" {
		col++
	}
	colYAxis := col
	if yAxis != nil {
		col++
	}
	colPanel0 := col
	// Panels occupy every other track so gutters can sit between
	// them.
	panelCols := 2*cols - 1
	panelRows := 2*rows - 1

	row := 0
	rowTitle := row
	if lay.Labs.Title != "" || lay.Labs.Tag != "" {
		row++
	}
	rowSub := row
	if lay.Labs.Subtitle != "" {
		row++
	}
	if legendPos == LegendTop {
		row++
	}
	rowPanel0 := row
	row += panelRows
	rowXAxis := row
	if xAxis != nil {
		row++
	}
	rowXTitle := row
	if xAxis != nil && xAxis.Title != "" {
		row++
	}
	rowCaption := row
	if lay.Labs.Caption != "" {
		row++
	}
	rowLegendBottom := row

	for _, p := range lay.Panels {
		pe := panelElts[p.ID]
		var cell layout.Element = pe
		if hasStrips {
			cg := new(layout.Grid)
			cg.Add(&StripElt{Label: strings.Join(p.Labels, " / "), Side: SideTop, Theme: th}, 0, 0, 1, 1)
			cg.Add(pe, 0, 1, 1, 1)
			cell = cg
		}
		frame.Add(cell, colPanel0+2*p.Col, rowPanel0+2*p.Row, 1, 1)
	}
	for c := 1; c < panelCols; c += 2 {
		frame.Add(&SpaceElt{W: th.PanelMargin}, colPanel0+c, rowPanel0, 1, 1)
	}
	for r := 1; r < panelRows; r += 2 {
		frame.Add(&SpaceElt{H: th.PanelMargin}, colPanel0, rowPanel0+r, 1, 1)
	}

	if yAxis != nil {
		if yAxis.Title != "" {
			frame.Add(&TextElt{Text: yAxis.Title, Size: th.FontSize, Vertical: true, Theme: th},
				colYTitle, rowPanel0, 1, panelRows)
		}
		for r := 0; r < rows; r++ {
			frame.Add(&AxisElt{Axis: yAxis, Side: SideLeft, Theme: th}, colYAxis, rowPanel0+2*r, 1, 1)
		}
	}
	if xAxis != nil {
		for c := 0; c < cols; c++ {
			frame.Add(&AxisElt{Axis: xAxis, Side: SideBottom, Theme: th}, colPanel0+2*c, rowXAxis, 1, 1)
		}
		if xAxis.Title != "" {
			frame.Add(&TextElt{Text: xAxis.Title, Size: th.FontSize, Theme: th},
				colPanel0, rowXTitle, panelCols, 1)
		}
	}
	switch legendPos {
	case LegendRight:
		frame.Add(&LegendElt{Legends: legends, Side: SideRight, Theme: th},
			colPanel0+panelCols, rowPanel0, 1, panelRows)
	case LegendLeft:
		frame.Add(&LegendElt{Legends: legends, Side: SideLeft, Theme: th},
			0, rowPanel0, 1, panelRows)
	case LegendTop:
		frame.Add(&LegendElt{Legends: legends, Side: SideTop, Theme: th},
			colPanel0, rowPanel0-1, panelCols, 1)
	case LegendBottom:
		frame.Add(&LegendElt{Legends: legends, Side: SideBottom, Theme: th},
			colPanel0, rowLegendBottom, panelCols, 1)
	case LegendInside:
		frame.Add(&LegendElt{Legends: legends, Inside: true, Theme: th},
			colPanel0, rowPanel0, panelCols, panelRows)
	}
	if lay.Labs.Title != "" {
		frame.Add(&TextElt{Text: lay.Labs.Title, Size: th.FontSize * 1.4, Theme: th},
			colPanel0, rowTitle, panelCols, 1)
	}
	if lay.Labs.Tag != "" {
		frame.Add(&TextElt{Text: lay.Labs.Tag, Size: th.FontSize, Theme: th},
			0, rowTitle, 1, 1)
	}
	if lay.Labs.Subtitle != "" {
		frame.Add(&TextElt{Text: lay.Labs.Subtitle, Size: th.FontSize * 1.1, Theme: th},
			colPanel0, rowSub, panelCols, 1)
	}
	if lay.Labs.Caption != "" {
		frame.Add(&TextElt{Text: lay.Labs.Caption, Size: th.FontSize * 0.9, Theme: th},
			colPanel0, rowCaption, panelCols, 1)
	}

	// Outer margin.
	root := new(layout.Grid)
	m := th.PlotMargin
	root.Add(&SpaceElt{W: m, H: m}, 0, 0, 1, 1)
	root.Add(frame, 1, 1, 1, 1)
	root.Add(&SpaceElt{W: m, H: m}, 2, 2, 1, 1)
	root.SetLayout(0, 0, width, height)

	return &LayoutTree{Root: root, Width: width, Height: height}, nil
}
