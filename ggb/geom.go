// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"image/color"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Derived columns geoms attach during finalization.
const (
	colXMin = "xmin"
	colXMax = "xmax"
)

// A Geom turns one panel's worth of a layer's rows into grobs. Its
// Finalize method runs as the last build stage; Draw runs during
// assembly, once the panel's scales have their visual ranges.
type Geom interface {
	// RequiredAes lists the aesthetic columns the geom cannot
	// draw without.
	RequiredAes() []string

	// Finalize attaches the geom's derived columns to one panel's
	// table. t is in transformed data space.
	Finalize(t *table.Table) (*table.Table, error)

	// Draw renders one panel's rows. Row order within a group is
	// preserved.
	Draw(env *DrawEnv, t *table.Table) ([]Grob, error)
}

// A DrawEnv gives geoms access to the plot's trained scales and
// coordinate system during drawing.
type DrawEnv struct {
	Scales map[string]Scaler
	Coord  Coord
}

// pos maps the positional column aes of t into [0, 1] using its
// scale. It reports false if the column is absent.
func (e *DrawEnv) pos(t *table.Table, aes string) ([]float64, bool) {
	c := t.Column(aes)
	if c == nil {
		return nil, false
	}
	s := e.Scales[scaleAes(aes)]
	if s == nil {
		var out []float64
		slice.Convert(&out, c)
		return out, true
	}
	var out []float64
	slice.Convert(&out, mapMany(s, c))
	return out, true
}

// xy maps the aesthetic columns xa and ya of t through their scales
// and the coordinate system.
func (e *DrawEnv) xy(t *table.Table, xa, ya string) (xs, ys []float64, err error) {
	xs, ok := e.pos(t, xa)
	if !ok {
		return nil, nil, &MissingAestheticError{xa}
	}
	ys, ok = e.pos(t, ya)
	if !ok {
		return nil, nil, &MissingAestheticError{ya}
	}
	for i := range xs {
		xs[i], ys[i] = e.Coord.XY(xs[i], ys[i])
	}
	return xs, ys, nil
}

// colors maps column aes of t to colors, or returns def for every
// row if the column is absent.
func (e *DrawEnv) colors(t *table.Table, aes string, def color.Color) []color.Color {
	c := t.Column(aes)
	if c == nil {
		out := make([]color.Color, t.Len())
		for i := range out {
			out[i] = def
		}
		return out
	}
	s := e.Scales[aes]
	mapped := mapMany(s, c)
	if cs, ok := mapped.([]color.Color); ok {
		return cs
	}
	out := make([]color.Color, t.Len())
	for i := range out {
		out[i] = def
	}
	return out
}

// floats maps column aes of t through its scale, or returns def for
// every row if the column is absent.
func (e *DrawEnv) floats(t *table.Table, aes string, def float64) []float64 {
	c := t.Column(aes)
	if c == nil {
		out := make([]float64, t.Len())
		for i := range out {
			out[i] = def
		}
		return out
	}
	s := e.Scales[aes]
	if s == nil {
		var out []float64
		slice.Convert(&out, c)
		return out
	}
	var out []float64
	slice.Convert(&out, mapMany(s, c))
	return out
}

// groupRuns returns the row indexes of t split by the "group"
// column, in ascending group order. Rows keep their original order
// within each run.
func groupRuns(t *table.Table) [][]int {
	groups := make([]int, t.Len())
	if c := t.Column(ColGroup); c != nil {
		slice.Convert(&groups, c)
	}
	byGroup := make(map[int][]int)
	var gids []int
	for i, g := range groups {
		if byGroup[g] == nil {
			gids = append(gids, g)
		}
		byGroup[g] = append(byGroup[g], i)
	}
	sort.Ints(gids)
	runs := make([][]int, len(gids))
	for i, g := range gids {
		runs[i] = byGroup[g]
	}
	return runs
}

var defaultStroke = color.Color(color.RGBA{0x4c, 0x72, 0xb0, 0xff})

// GeomPoint draws one marker per row.
type GeomPoint struct{}

func (GeomPoint) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomPoint) Finalize(t *table.Table) (*table.Table, error) { return t, nil }

func (GeomPoint) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	xs, ys, err := env.xy(t, AesX, AesY)
	if err != nil {
		return nil, err
	}
	return []Grob{&GrobPoints{
		X:       xs,
		Y:       ys,
		Stroke:  env.colors(t, AesStroke, defaultStroke),
		Fill:    env.colors(t, AesFill, defaultStroke),
		Size:    env.floats(t, AesSize, 0.01),
		Opacity: env.floats(t, AesOpacity, 1),
	}}, nil
}

// GeomLine draws one polyline per group, with vertices ordered by x.
type GeomLine struct{}

func (GeomLine) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomLine) Finalize(t *table.Table) (*table.Table, error) {
	return table.SortBy(t, AesX).Table(table.RootGroupID), nil
}

func (GeomLine) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	return drawPaths(env, t)
}

// GeomPath draws one polyline per group in row order.
type GeomPath struct{}

func (GeomPath) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomPath) Finalize(t *table.Table) (*table.Table, error) { return t, nil }

func (GeomPath) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	return drawPaths(env, t)
}

func drawPaths(env *DrawEnv, t *table.Table) ([]Grob, error) {
	xs, ys, err := env.xy(t, AesX, AesY)
	if err != nil {
		return nil, err
	}
	strokes := env.colors(t, AesStroke, defaultStroke)
	widths := env.floats(t, AesSize, 0.002)
	opacities := env.floats(t, AesOpacity, 1)

	var grobs []Grob
	for _, run := range groupRuns(t) {
		gx := make([]float64, len(run))
		gy := make([]float64, len(run))
		for i, r := range run {
			gx[i], gy[i] = xs[r], ys[r]
		}
		grobs = append(grobs, &GrobPath{
			X: gx, Y: gy,
			Stroke:  strokes[run[0]],
			Width:   widths[run[0]],
			Opacity: opacities[run[0]],
		})
	}
	return grobs, nil
}

// GeomBar draws one rectangle per row, spanning [xmin, xmax] in x
// and [0, y] in y. Finalize derives xmin and xmax from the "width"
// column if a statistic attached one, and otherwise from the
// smallest spacing between distinct x values.
type GeomBar struct{}

func (GeomBar) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomBar) Finalize(t *table.Table) (*table.Table, error) {
	cx := t.Column(AesX)
	if cx == nil {
		return nil, &MissingAestheticError{AesX}
	}
	var xs []float64
	slice.Convert(&xs, cx)

	var widths []float64
	if cw := t.Column("width"); cw != nil {
		slice.Convert(&widths, cw)
	} else {
		w := minSpacing(xs) * 0.9
		widths = make([]float64, len(xs))
		for i := range widths {
			widths[i] = w
		}
	}

	xmin := make([]float64, len(xs))
	xmax := make([]float64, len(xs))
	for i, x := range xs {
		xmin[i] = x - widths[i]/2
		xmax[i] = x + widths[i]/2
	}

	nt := table.NewBuilder(t)
	nt.Add(colXMin, xmin)
	nt.Add(colXMax, xmax)
	if !nt.Has(AesYMin) {
		zero := make([]float64, len(xs))
		nt.Add(AesYMin, zero)
	}
	if !nt.Has(AesYMax) {
		var ys []float64
		slice.Convert(&ys, t.MustColumn(AesY))
		nt.Add(AesYMax, ys)
	}
	return nt.Done(), nil
}

func (GeomBar) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	x0, y0, err := env.xy(t, colXMin, AesYMin)
	if err != nil {
		return nil, err
	}
	x1, y1, err := env.xy(t, colXMax, AesYMax)
	if err != nil {
		return nil, err
	}
	return []Grob{&GrobRect{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Fill:    env.colors(t, AesFill, defaultStroke),
		Opacity: env.floats(t, AesOpacity, 1),
	}}, nil
}

// GeomArea draws one filled band per group between ymin and ymax,
// with vertices ordered by x. If the table has no ymin column, the
// band's lower edge is y=0.
type GeomArea struct{}

func (GeomArea) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomArea) Finalize(t *table.Table) (*table.Table, error) {
	nt := table.NewBuilder(t)
	if !nt.Has(AesYMax) {
		var ys []float64
		slice.Convert(&ys, t.MustColumn(AesY))
		nt.Add(AesYMax, ys)
	}
	if !nt.Has(AesYMin) {
		nt.Add(AesYMin, make([]float64, t.Len()))
	}
	t = nt.Done()
	return table.SortBy(t, AesX).Table(table.RootGroupID), nil
}

func (GeomArea) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	xs, lo, err := env.xy(t, AesX, AesYMin)
	if err != nil {
		return nil, err
	}
	xs2, hi, err := env.xy(t, AesX, AesYMax)
	if err != nil {
		return nil, err
	}
	fills := env.colors(t, AesFill, defaultStroke)
	opacities := env.floats(t, AesOpacity, 1)

	var grobs []Grob
	for _, run := range groupRuns(t) {
		// Upper edge left to right, then lower edge back.
		px := make([]float64, 0, 2*len(run))
		py := make([]float64, 0, 2*len(run))
		for _, r := range run {
			px = append(px, xs2[r])
			py = append(py, hi[r])
		}
		for i := len(run) - 1; i >= 0; i-- {
			r := run[i]
			px = append(px, xs[r])
			py = append(py, lo[r])
		}
		grobs = append(grobs, &GrobPolygon{
			X: px, Y: py,
			Fill:    fills[run[0]],
			Opacity: opacities[run[0]],
		})
	}
	return grobs, nil
}

// GeomTile draws one rectangle per row, centered on (x, y) and sized
// to the spacing between distinct values.
type GeomTile struct{}

func (GeomTile) RequiredAes() []string { return []string{AesX, AesY} }

func (GeomTile) Finalize(t *table.Table) (*table.Table, error) { return t, nil }

func (GeomTile) Draw(env *DrawEnv, t *table.Table) ([]Grob, error) {
	xs, ys, err := env.xy(t, AesX, AesY)
	if err != nil {
		return nil, err
	}
	// Spacing in panel coordinates.
	xw, yw := minSpacing(xs), minSpacing(ys)
	x0 := make([]float64, len(xs))
	x1 := make([]float64, len(xs))
	y0 := make([]float64, len(ys))
	y1 := make([]float64, len(ys))
	for i := range xs {
		x0[i], x1[i] = xs[i]-xw/2, xs[i]+xw/2
		y0[i], y1[i] = ys[i]-yw/2, ys[i]+yw/2
	}
	return []Grob{&GrobRect{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Fill:    env.colors(t, AesFill, defaultStroke),
		Opacity: env.floats(t, AesOpacity, 1),
	}}, nil
}
