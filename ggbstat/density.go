// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggbstat

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// Density constructs a probability density estimate from the values
// of column X using kernel density estimation.
//
// The result of Density has two columns in addition to constant
// columns from the input:
//
// - Column X is the points at which the density estimate is sampled.
//
// - Column "y" is the density estimate.
type Density struct {
	// X is the name of the column to use for samples. If it is
	// "", it defaults to "x".
	X string

	// W is the optional name of the column to use for sample
	// weights. It may be "" to uniformly weight samples.
	W string

	// N is the number of points to sample the estimate at. If N
	// is 0, a reasonable default is used.
	N int

	// Bandwidth is the bandwidth to use. If it is zero, the
	// bandwidth is computed with stats.BandwidthScott.
	Bandwidth float64

	// Kernel is the kernel to use.
	Kernel stats.KDEKernel
}

func (d Density) F(g table.Grouping) table.Grouping {
	x := orDef(d.X, defX)
	if d.N == 0 {
		d.N = 200
	}

	evals := evalPoints(g, x, d.N, 1.2)

	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		var sample stats.Sample
		slice.Convert(&sample.Xs, t.MustColumn(x))
		if d.W != "" {
			slice.Convert(&sample.Weights, t.MustColumn(d.W))
		}

		if sample.Weight() == 0 {
			nt := new(table.Builder).Add(x, []float64{}).Add(defY, []float64{})
			preserveConsts(nt, t)
			return nt.Done()
		}

		kde := stats.KDE{
			Sample:    sample,
			Kernel:    d.Kernel,
			Bandwidth: d.Bandwidth,
		}
		if kde.Bandwidth == 0 {
			kde.Bandwidth = stats.BandwidthScott(sample)
		}

		eval := evals[gid]
		nt := new(table.Builder).Add(x, eval).Add(defY, vec.Map(kde.PDF, eval))
		preserveConsts(nt, t)
		return nt.Done()
	})
}
