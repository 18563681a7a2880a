// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import "image/color"

// LegendPosition says which side of the panel grid legends attach to.
type LegendPosition int

const (
	LegendRight LegendPosition = iota
	LegendLeft
	LegendTop
	LegendBottom
	// LegendInside overlays the legends on the panel area instead
	// of reserving space at an edge.
	LegendInside
	// LegendNone suppresses legends entirely.
	LegendNone
)

// A Theme holds the non-data visual parameters of a plot. A nil
// Theme in a PlotSpec means DefaultTheme.
type Theme struct {
	// FontSize is the base font size in points. Strip and title
	// text derive from it.
	FontSize float64

	// TickLength is the axis tick mark length in points.
	TickLength float64

	// PanelMargin is the gap between adjacent panels in points.
	PanelMargin float64

	// PlotMargin is the margin around the whole plot in points.
	PlotMargin float64

	// Legend is where legends are placed.
	Legend LegendPosition

	// PanelBackground fills each panel behind the data.
	PanelBackground color.Color

	// GridLine strokes the major grid lines.
	GridLine color.Color
}

func DefaultTheme() *Theme {
	return &Theme{
		FontSize:        10,
		TickLength:      4,
		PanelMargin:     6,
		PlotMargin:      10,
		Legend:          LegendRight,
		PanelBackground: color.RGBA{0xee, 0xee, 0xee, 0xff},
		GridLine:        color.White,
	}
}
