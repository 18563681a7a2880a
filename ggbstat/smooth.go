// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggbstat

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/fit"
	"github.com/aclements/go-moremath/vec"
)

// LOESS constructs a locally-weighted least squares polynomial
// regression for the data (X, Y).
//
// The result of LOESS has two columns in addition to constant
// columns from the input: column X holds the points at which the
// regression is sampled and column "y" its value there.
type LOESS struct {
	// X and Y are the names of the data point columns. If they
	// are "", they default to "x" and "y".
	X, Y string

	// N is the number of points to sample the regression at. If N
	// is 0, a reasonable default is used.
	N int

	// Degree specifies the degree of the local fit function. If
	// it is 0, it is treated as 2.
	Degree int

	// Span controls the smoothness of the fit. If it is 0, it is
	// treated as 0.5. The span must be between 0 and 1, where
	// smaller values fit the data more tightly.
	Span float64
}

func (s LOESS) F(g table.Grouping) table.Grouping {
	x := orDef(s.X, defX)
	y := orDef(s.Y, defY)
	if s.Degree <= 0 {
		s.Degree = 2
	}
	if s.Span <= 0 {
		s.Span = 0.5
	}

	evals := evalPoints(g, x, s.N, 0)

	var xs, ys []float64
	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		if t.Len() == 0 {
			nt := new(table.Builder).Add(x, []float64{}).Add(y, []float64{})
			preserveConsts(nt, t)
			return nt.Done()
		}

		slice.Convert(&xs, t.MustColumn(x))
		slice.Convert(&ys, t.MustColumn(y))
		eval := evals[gid]

		loess := fit.LOESS(xs, ys, s.Degree, s.Span)
		nt := new(table.Builder).Add(x, eval).Add(y, vec.Map(loess, eval))
		preserveConsts(nt, t)
		return nt.Done()
	})
}

// LeastSquares constructs a least squares polynomial regression for
// the data (X, Y).
//
// The result of LeastSquares has two columns in addition to constant
// columns from the input: column X holds the points at which the
// regression is sampled and column "y" its value there.
type LeastSquares struct {
	// X and Y are the names of the data point columns. If they
	// are "", they default to "x" and "y".
	X, Y string

	// N is the number of points to sample the regression at. If N
	// is 0, a reasonable default is used.
	N int

	// Degree specifies the degree of the fit polynomial. If it is
	// 0, it is treated as 1 (linear regression).
	Degree int
}

func (s LeastSquares) F(g table.Grouping) table.Grouping {
	x := orDef(s.X, defX)
	y := orDef(s.Y, defY)
	if s.Degree <= 0 {
		s.Degree = 1
	}

	evals := evalPoints(g, x, s.N, 0)

	var xs, ys []float64
	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		if t.Len() == 0 {
			nt := new(table.Builder).Add(x, []float64{}).Add(y, []float64{})
			preserveConsts(nt, t)
			return nt.Done()
		}

		slice.Convert(&xs, t.MustColumn(x))
		slice.Convert(&ys, t.MustColumn(y))
		eval := evals[gid]

		f := fit.PolynomialRegression(xs, ys, nil, s.Degree).F
		nt := new(table.Builder).Add(x, eval).Add(y, vec.Map(f, eval))
		preserveConsts(nt, t)
		return nt.Done()
	})
}
