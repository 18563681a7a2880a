// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"fmt"

	"github.com/aclements/go-gg/table"
)

// A PlotSpec is the root description of a plot. It is constructed by
// the caller and must not be modified after it is handed to Build.
// Build never modifies it either: rebuilding the same PlotSpec yields
// structurally identical results.
type PlotSpec struct {
	// Data is the global dataset. Layers without their own data
	// inherit it.
	Data table.Grouping

	// Aes is the global aesthetic mapping, merged under each
	// layer's mapping.
	Aes Mapping

	// Layers are the plot's layers in draw order.
	Layers []*Layer

	// Scales optionally binds aesthetics to scales. Aesthetics
	// without an entry get a default scale inferred from the data.
	// The bound scales themselves are never trained; Build trains
	// clones.
	Scales map[string]Scaler

	// Coord is the coordinate system. If nil, CoordCartesian is
	// used.
	Coord Coord

	// Facet partitions the data into panels. If nil, the plot has
	// a single panel.
	Facet Facet

	// Theme and Labs control decoration during assembly.
	Theme *Theme
	Labs  Labs
}

// Labs holds the plot's textual adornments. Empty strings are simply
// omitted from the assembled plot.
type Labs struct {
	Title    string
	Subtitle string
	Caption  string
	Tag      string
}

// A Layer binds one dataset and mapping to a statistic, a position
// adjustment, and a geometry.
type Layer struct {
	// Data, if non-nil, is this layer's own dataset. Otherwise,
	// the layer inherits the global dataset, transformed by DataFn
	// if that is non-nil.
	Data table.Grouping

	// DataFn, if non-nil and Data is nil, is applied to the global
	// dataset to produce this layer's dataset.
	DataFn func(table.Grouping) table.Grouping

	// Aes is this layer's aesthetic mapping. It is merged with the
	// global mapping; on conflict the layer wins.
	Aes Mapping

	// Stat transforms the layer's mapped data. If nil, the data
	// passes through unchanged.
	Stat Stat

	// Pos spatially adjusts the Stat's output. If nil, no
	// adjustment is performed.
	Pos Position

	// Geom converts finalized rows into drawable primitives. It is
	// required.
	Geom Geom
}

// A Stat transforms a table.Grouping. During a build each group holds
// the rows of one (panel, group) cell, without the bookkeeping
// columns.
type Stat interface {
	F(table.Grouping) table.Grouping
}

// A Mapping binds aesthetics to expressions over a layer's resolved
// dataset.
type Mapping map[string]Expr

// merge returns m overlaid on base. Entries in m win.
func (m Mapping) merge(base Mapping) Mapping {
	if len(base) == 0 {
		return m
	}
	res := make(Mapping, len(base)+len(m))
	for aes, e := range base {
		res[aes] = e
	}
	for aes, e := range m {
		res[aes] = e
	}
	return res
}

// An Expr produces one aesthetic column from a resolved dataset.
type Expr interface {
	// Eval returns a column of t.Len() values.
	Eval(t *table.Table) (table.Slice, error)

	// Name returns a human-readable name for the expression, used
	// for default guide titles.
	Name() string
}

// Col returns an Expr that selects the named column.
func Col(name string) Expr { return colExpr(name) }

type colExpr string

func (e colExpr) Eval(t *table.Table) (table.Slice, error) {
	if c := t.Column(string(e)); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("unknown column %q", string(e))
}

func (e colExpr) Name() string { return string(e) }

// Fn returns an Expr that computes a column from the whole table.
// name is used for guide titles.
func Fn(name string, f func(t *table.Table) table.Slice) Expr {
	return fnExpr{name, f}
}

type fnExpr struct {
	name string
	f    func(t *table.Table) table.Slice
}

func (e fnExpr) Eval(t *table.Table) (table.Slice, error) {
	return e.f(t), nil
}

func (e fnExpr) Name() string { return e.name }

// ConstVal returns an Expr that evaluates to val on every row.
func ConstVal(val interface{}) Expr { return constExpr{val} }

type constExpr struct {
	val interface{}
}

func (e constExpr) Eval(t *table.Table) (table.Slice, error) {
	// Materialized by the caller via AddConst.
	return nil, nil
}

func (e constExpr) Name() string { return fmt.Sprint(e.val) }

// check validates spec before any stage runs.
func (spec *PlotSpec) check() error {
	if spec.Data == nil {
		hasOwn := len(spec.Layers) > 0
		for _, l := range spec.Layers {
			if l.Data == nil {
				hasOwn = false
			}
		}
		if !hasOwn {
			return &SpecificationError{"no data"}
		}
	}
	if len(spec.Layers) == 0 {
		return &SpecificationError{"no layers"}
	}
	for i, l := range spec.Layers {
		if l == nil {
			return &SpecificationError{fmt.Sprintf("layer %d is nil", i)}
		}
		if l.Geom == nil {
			return &SpecificationError{fmt.Sprintf("layer %d has no geometry", i)}
		}
		if l.Data == nil && l.DataFn != nil && spec.Data == nil {
			return &SpecificationError{fmt.Sprintf("layer %d transforms the global dataset, but there is none", i)}
		}
	}
	return nil
}

// coord returns the spec's coordinate system, defaulting to Cartesian.
func (spec *PlotSpec) coord() Coord {
	if spec.Coord == nil {
		return CoordCartesian{}
	}
	return spec.Coord
}

// facet returns the spec's facet, defaulting to a single panel.
func (spec *PlotSpec) facet() Facet {
	if spec.Facet == nil {
		return FacetNull{}
	}
	return spec.Facet
}

// theme returns the spec's theme, defaulting to DefaultTheme.
func (spec *PlotSpec) theme() *Theme {
	if spec.Theme == nil {
		return DefaultTheme()
	}
	return spec.Theme
}
