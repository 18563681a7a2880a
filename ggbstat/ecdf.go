// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggbstat

import (
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"
)

// ECDF constructs an empirical cumulative distribution function from
// the values of column X.
//
// The result of ECDF has two columns in addition to constant columns
// from the input: column X holds the sorted sample values and column
// "y" the cumulative fraction of samples at or below each.
type ECDF struct {
	// X is the name of the sample column. If it is "", it
	// defaults to "x".
	X string

	// W is the optional name of the column to use for sample
	// weights. It may be "" to uniformly weight samples.
	W string
}

func (s ECDF) F(g table.Grouping) table.Grouping {
	x := orDef(s.X, defX)

	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		var xs, ws []float64
		slice.Convert(&xs, t.MustColumn(x))
		if s.W != "" {
			slice.Convert(&ws, t.MustColumn(s.W))
		}

		idx := make([]int, len(xs))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })

		outX := make([]float64, len(xs))
		cum := make([]float64, len(xs))
		total := float64(len(xs))
		if ws != nil {
			total = vec.Sum(ws)
		}
		run := 0.0
		for i, r := range idx {
			if ws != nil {
				run += ws[r]
			} else {
				run++
			}
			outX[i] = xs[r]
			cum[i] = run / total
		}

		nt := new(table.Builder).Add(x, outX).Add(defY, cum)
		preserveConsts(nt, t)
		return nt.Done()
	})
}
