// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ggbstat provides statistical transforms for plot layers.
//
// Each transform is a struct whose zero value has reasonable
// defaults and which satisfies ggb's Stat interface
// {F(table.Grouping) table.Grouping}. F is applied to a layer's data
// grouped by panel and group, so a transform sees one cell of data
// at a time and never mixes rows across cells.
//
// Transforms read and write aesthetic columns. Unless configured
// otherwise they consume column "x" (and "y" where it applies) and
// write their primary result to column "y", so a layer can usually
// attach a transform without restating its mapping. Constant columns
// of the input, including the panel and group bookkeeping columns,
// are preserved.
package ggbstat

import (
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// Default column names.
const (
	defX = "x"
	defY = "y"
)

func orDef(col, def string) string {
	if col == "" {
		return def
	}
	return col
}

// Identity passes each group through unchanged.
type Identity struct{}

func (Identity) F(g table.Grouping) table.Grouping { return g }

// preserveConsts copies the constant columns from t into nt.
func preserveConsts(nt *table.Builder, t *table.Table) {
	for _, col := range t.Columns() {
		if nt.Has(col) {
			// Don't overwrite existing columns in nt.
			continue
		}
		if cv, ok := t.Const(col); ok {
			nt.AddConst(col, cv)
		}
	}
}

// evalPoints returns n evaluation points per group spanning the
// range of column x across all groups, widened by the given factor.
func evalPoints(g table.Grouping, x string, n int, widen float64) map[table.GroupID][]float64 {
	if n <= 0 {
		n = 200
	}
	if widen <= 0 {
		widen = 1.1
	}

	var xs []float64
	min, max := math.NaN(), math.NaN()
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		slice.Convert(&xs, t.MustColumn(x))
		xmin, xmax := stats.Bounds(xs)
		if xmin < min || math.IsNaN(min) {
			min = xmin
		}
		if xmax > max || math.IsNaN(max) {
			max = xmax
		}
	}

	span := max - min
	min, max = min-span*(widen-1)/2, max+span*(widen-1)/2

	// Careful if there's no data.
	var eval []float64
	if !math.IsNaN(min) {
		eval = vec.Linspace(min, max, n)
	}
	res := make(map[table.GroupID][]float64, len(g.Tables()))
	for _, gid := range g.Tables() {
		res[gid] = eval
	}
	return res
}
