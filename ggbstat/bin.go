// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggbstat

import (
	"math"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Bin histograms the values of column X.
//
// The result of Bin has three columns in addition to constant columns
// from the input:
//
// - Column X is the center of each bin.
//
// - Column "y" is the count (or weight) of values in each bin.
//
// - Column "width" is the width of each bin. Bar geometries size
// themselves from it.
//
// Bins are left-closed and right-open, except for the last bin,
// which is closed on both ends. Empty bins are kept, so stacked
// histograms line up across groups.
type Bin struct {
	// X is the name of the column to bin. If it is "", it
	// defaults to "x".
	X string

	// W is the optional name of a column of bin weights. It may
	// be "" to count each row as 1.
	W string

	// Bins is the number of bins. If it is 0, it is treated as
	// 30.
	Bins int

	// Width is the bin width. If it is not 0, it overrides Bins,
	// and bins are placed at integer multiples of Width.
	Width float64
}

func (b Bin) F(g table.Grouping) table.Grouping {
	x := orDef(b.X, defX)
	if b.Bins <= 0 {
		b.Bins = 30
	}

	// Compute shared bin edges from the combined data so bins
	// line up across groups.
	min, max := math.NaN(), math.NaN()
	var xs []float64
	for _, gid := range g.Tables() {
		slice.Convert(&xs, g.Table(gid).MustColumn(x))
		xmin, xmax := stats.Bounds(xs)
		if xmin < min || math.IsNaN(min) {
			min = xmin
		}
		if xmax > max || math.IsNaN(max) {
			max = xmax
		}
	}

	var lo, width float64
	var nbins int
	if math.IsNaN(min) {
		nbins = 0
	} else if b.Width > 0 {
		width = b.Width
		lo = math.Floor(min/width) * width
		nbins = int(math.Floor((max-lo)/width)) + 1
	} else {
		width = (max - min) / float64(b.Bins)
		if width == 0 {
			width = 1
		}
		lo = min
		nbins = b.Bins
	}

	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		counts := make([]float64, nbins)
		if t.Len() > 0 && nbins > 0 {
			var xs, ws []float64
			slice.Convert(&xs, t.MustColumn(x))
			if b.W != "" {
				slice.Convert(&ws, t.MustColumn(b.W))
			}
			for i, v := range xs {
				bin := int((v - lo) / width)
				if bin == nbins {
					// Last bin is closed on the right.
					bin--
				}
				if bin < 0 || bin >= nbins {
					continue
				}
				if ws != nil {
					counts[bin] += ws[i]
				} else {
					counts[bin]++
				}
			}
		}

		centers := make([]float64, nbins)
		widths := make([]float64, nbins)
		for i := range centers {
			centers[i] = lo + width*(float64(i)+0.5)
			widths[i] = width
		}

		nt := new(table.Builder).Add(x, centers).Add(defY, counts).Add("width", widths)
		preserveConsts(nt, t)
		return nt.Done()
	})
}

// Count tallies the occurrences of each distinct value of column X.
//
// The result of Count has two columns in addition to constant
// columns from the input: column X holds the distinct values and
// column "y" their counts.
type Count struct {
	// X is the name of the column to count. If it is "", it
	// defaults to "x".
	X string
}

func (c Count) F(g table.Grouping) table.Grouping {
	x := orDef(c.X, defX)

	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		col := t.MustColumn(x)
		nub := slice.Nub(col)
		if slice.CanSort(nub) {
			slice.Sort(nub)
		}

		nv := reflect.ValueOf(nub)
		counts := make([]float64, nv.Len())
		idx := make(map[interface{}]int, nv.Len())
		for i := 0; i < nv.Len(); i++ {
			idx[nv.Index(i).Interface()] = i
		}
		cv := reflect.ValueOf(col)
		for i := 0; i < cv.Len(); i++ {
			counts[idx[cv.Index(i).Interface()]]++
		}

		nt := new(table.Builder).Add(x, nub).Add(defY, counts)
		preserveConsts(nt, t)
		return nt.Done()
	})
}
