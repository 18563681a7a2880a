// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// A Facet partitions a plot's data into a grid of panels. Every row
// of every layer is assigned to exactly one panel, keyed by the
// values of the facet's columns.
type Facet interface {
	// Cols returns the data columns this facet keys panels on.
	// An empty result means a single panel.
	Cols() []string

	// Place returns the grid cell and strip labels for the panel
	// keyed by key, which holds one value per Cols() column.
	// levels holds the ordered distinct values observed for each
	// column across all layers.
	Place(key []interface{}, levels [][]interface{}) (row, col int, labels []string)
}

// FacetNull is the trivial facet: a single panel holding all data.
type FacetNull struct{}

func (FacetNull) Cols() []string { return nil }

func (FacetNull) Place(key []interface{}, levels [][]interface{}) (int, int, []string) {
	return 0, 0, nil
}

// FacetWrap lays panels for the distinct values of one column into a
// grid, filling rows left to right.
type FacetWrap struct {
	// Col is the column to key panels on.
	Col string

	// NCol is the number of grid columns. If it is <= 0, a
	// roughly square grid is used.
	NCol int

	// Labeler, if non-nil, renders a panel's key value as its
	// strip label. Otherwise the value is formatted with %v.
	Labeler func(v interface{}) string
}

func (f FacetWrap) Cols() []string { return []string{f.Col} }

func (f FacetWrap) Place(key []interface{}, levels [][]interface{}) (int, int, []string) {
	i := levelIndex(levels[0], key[0])
	ncol := f.NCol
	if ncol <= 0 {
		ncol = ceilSqrt(len(levels[0]))
	}
	label := formatLevel(f.Labeler, key[0])
	return i / ncol, i % ncol, []string{label}
}

// FacetGrid keys panel rows on one column and panel columns on
// another. Either may be empty, giving a single row or column of
// panels.
type FacetGrid struct {
	// Row and Col key the grid's rows and columns. An empty
	// string collapses that dimension.
	Row, Col string

	// Labeler, if non-nil, renders key values as strip labels.
	Labeler func(v interface{}) string
}

func (f FacetGrid) Cols() []string {
	var cols []string
	if f.Row != "" {
		cols = append(cols, f.Row)
	}
	if f.Col != "" {
		cols = append(cols, f.Col)
	}
	return cols
}

func (f FacetGrid) Place(key []interface{}, levels [][]interface{}) (int, int, []string) {
	row, col := 0, 0
	var labels []string
	i := 0
	if f.Row != "" {
		row = levelIndex(levels[i], key[i])
		labels = append(labels, formatLevel(f.Labeler, key[i]))
		i++
	}
	if f.Col != "" {
		col = levelIndex(levels[i], key[i])
		labels = append(labels, formatLevel(f.Labeler, key[i]))
	}
	return row, col, labels
}

func formatLevel(labeler func(interface{}) string, v interface{}) string {
	if labeler != nil {
		return labeler(v)
	}
	return fmt.Sprintf("%v", v)
}

func levelIndex(levels []interface{}, v interface{}) int {
	for i, l := range levels {
		if l == v {
			return i
		}
	}
	panic(fmt.Sprintf("value %v not among facet levels", v))
}

func ceilSqrt(n int) int {
	c := 1
	for c*c < n {
		c++
	}
	return c
}

// facetLevels returns the ordered distinct values of column col
// across all tables of all layer groupings. It returns an
// UnknownFacetKeyError if any layer lacks the column.
func facetLevels(col string, data []table.Grouping) ([]interface{}, error) {
	var parts []slice.T
	for _, g := range data {
		for _, gid := range g.Tables() {
			t := g.Table(gid)
			c := t.Column(col)
			if c == nil {
				return nil, &UnknownFacetKeyError{col}
			}
			parts = append(parts, c)
		}
	}
	nub := slice.NubAppend(parts...)
	if slice.CanSort(nub) {
		slice.Sort(nub)
	}
	nv := reflect.ValueOf(nub)
	out := make([]interface{}, nv.Len())
	for i := range out {
		out[i] = nv.Index(i).Interface()
	}
	return out, nil
}

// panelKey is the tuple of facet column values identifying one panel.
type panelKey string

func makePanelKey(vals []interface{}) panelKey {
	return panelKey(fmt.Sprintf("%v", vals))
}

// A Panel is one cell of the trained facet grid.
type Panel struct {
	// ID is the panel's 1-based identifier. IDs are assigned in
	// row-major grid order and are consistent across layers.
	ID int

	// Row and Col are the panel's grid cell.
	Row, Col int

	// Labels holds the panel's strip labels, outermost first.
	Labels []string

	// Key holds the facet column values that select this panel.
	Key []interface{}
}

// trainFacets determines the panel grid for the given per-layer data
// and returns the panels in ID order plus a lookup from key to panel.
func trainFacets(f Facet, data []table.Grouping) ([]*Panel, map[panelKey]*Panel, error) {
	cols := f.Cols()
	if len(cols) == 0 {
		p := &Panel{ID: 1, Row: 0, Col: 0}
		return []*Panel{p}, map[panelKey]*Panel{makePanelKey(nil): p}, nil
	}

	levels := make([][]interface{}, len(cols))
	for i, col := range cols {
		l, err := facetLevels(col, data)
		if err != nil {
			return nil, nil, err
		}
		levels[i] = l
	}

	// Enumerate the observed key tuples.
	seen := make(map[panelKey]*Panel)
	var panels []*Panel
	for _, g := range data {
		for _, gid := range g.Tables() {
			t := g.Table(gid)
			colVals := make([]reflect.Value, len(cols))
			for i, col := range cols {
				colVals[i] = reflect.ValueOf(t.Column(col))
			}
			for r := 0; r < t.Len(); r++ {
				key := make([]interface{}, len(cols))
				for i := range cols {
					key[i] = colVals[i].Index(r).Interface()
				}
				pk := makePanelKey(key)
				if seen[pk] != nil {
					continue
				}
				row, col, labels := f.Place(key, levels)
				p := &Panel{Row: row, Col: col, Labels: labels, Key: key}
				seen[pk] = p
				panels = append(panels, p)
			}
		}
	}

	// Assign IDs in row-major grid order.
	sort.Slice(panels, func(i, j int) bool {
		if panels[i].Row != panels[j].Row {
			return panels[i].Row < panels[j].Row
		}
		return panels[i].Col < panels[j].Col
	})
	for i, p := range panels {
		p.ID = i + 1
	}
	return panels, seen, nil
}
