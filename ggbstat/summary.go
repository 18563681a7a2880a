// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggbstat

import (
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"
)

// Summary reduces the Y values at each distinct X value to their
// mean and extent.
//
// The result of Summary has four columns in addition to constant
// columns from the input:
//
// - Column X holds the distinct X values.
//
// - Column "y" is the mean of the Y values at each X.
//
// - Columns "ymin" and "ymax" are the minimum and maximum Y values
// at each X.
type Summary struct {
	// X and Y are the names of the columns to summarize over. If
	// they are "", they default to "x" and "y".
	X, Y string
}

func (s Summary) F(g table.Grouping) table.Grouping {
	x := orDef(s.X, defX)
	y := orDef(s.Y, defY)

	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		var ys []float64
		slice.Convert(&ys, t.MustColumn(y))

		// Partition row indexes by X value.
		xv := reflect.ValueOf(t.MustColumn(x))
		rows := make(map[interface{}][]int)
		var order []interface{}
		for i := 0; i < xv.Len(); i++ {
			k := xv.Index(i).Interface()
			if rows[k] == nil {
				order = append(order, k)
			}
			rows[k] = append(rows[k], i)
		}
		sort.Slice(order, func(i, j int) bool {
			return rows[order[i]][0] < rows[order[j]][0]
		})

		outX := reflect.MakeSlice(xv.Type(), len(order), len(order))
		mean := make([]float64, len(order))
		ymin := make([]float64, len(order))
		ymax := make([]float64, len(order))
		for i, k := range order {
			outX.Index(i).Set(reflect.ValueOf(k))
			sub := slice.Select(ys, rows[k]).([]float64)
			mean[i] = vec.Sum(sub) / float64(len(sub))
			ymin[i] = slice.Min(sub).(float64)
			ymax[i] = slice.Max(sub).(float64)
		}

		nt := new(table.Builder).Add(x, outX.Interface()).
			Add(defY, mean).Add("ymin", ymin).Add("ymax", ymax)
		preserveConsts(nt, t)
		return nt.Done()
	})
}
