// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"math"
	"math/rand"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// A Position resolves overplotting by adjusting the positional
// columns of a layer's table. It is applied once per panel, after
// statistics and before geometry finalization. Positional values are
// in transformed data space.
type Position interface {
	// Adjust returns a new table with adjusted positions. t holds
	// the rows of a single panel and carries the "group" column.
	Adjust(t *table.Table) (*table.Table, error)
}

// PosIdentity leaves positions alone.
type PosIdentity struct{}

func (PosIdentity) Adjust(t *table.Table) (*table.Table, error) { return t, nil }

// PosJitter displaces each point by uniform noise. The same Seed
// yields the same displacements, so rebuilding an identical plot
// yields identical output.
type PosJitter struct {
	// Width and Height are the full extents of the noise in x and
	// y, in transformed data units. Zero disables that axis.
	Width, Height float64

	// Seed seeds the noise source.
	Seed int64
}

func (p PosJitter) Adjust(t *table.Table) (*table.Table, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	nt := table.NewBuilder(t)
	if p.Width != 0 {
		xs, err := jitterCol(t, AesX, p.Width, rng)
		if err != nil {
			return nil, err
		}
		nt.Add(AesX, xs)
	}
	if p.Height != 0 {
		ys, err := jitterCol(t, AesY, p.Height, rng)
		if err != nil {
			return nil, err
		}
		nt.Add(AesY, ys)
	}
	return nt.Done(), nil
}

func jitterCol(t *table.Table, col string, width float64, rng *rand.Rand) ([]float64, error) {
	c := t.Column(col)
	if c == nil {
		return nil, &MissingAestheticError{col}
	}
	var xs []float64
	slice.Convert(&xs, c)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x + (rng.Float64()-0.5)*width
	}
	return out, nil
}

// PosStack stacks the y values of rows that share an x value, in
// group order. Bars in different groups at the same x render on top
// of one another instead of overlapping.
type PosStack struct{}

func (PosStack) Adjust(t *table.Table) (*table.Table, error) {
	xs, ys, groups, err := posCols(t)
	if err != nil {
		return nil, err
	}

	// Stack in ascending group order at each x.
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]] < groups[order[j]]
	})

	base := make(map[float64]float64)
	ymin := make([]float64, len(ys))
	ymax := make([]float64, len(ys))
	for _, i := range order {
		b := base[xs[i]]
		ymin[i] = b
		ymax[i] = b + ys[i]
		base[xs[i]] = ymax[i]
	}

	nt := table.NewBuilder(t)
	nt.Add(AesY, ymax)
	nt.Add(AesYMin, ymin)
	nt.Add(AesYMax, ymax)
	return nt.Done(), nil
}

// PosDodge places rows that share an x value side by side, one slot
// per group.
type PosDodge struct {
	// Width is the total width shared by the dodged slots at one
	// x value, in transformed data units. If it is 0, the
	// smallest spacing between distinct x values is used.
	Width float64
}

func (p PosDodge) Adjust(t *table.Table) (*table.Table, error) {
	xs, _, groups, err := posCols(t)
	if err != nil {
		return nil, err
	}

	gids := slice.Nub(groups).([]int)
	sort.Ints(gids)
	slot := make(map[int]int, len(gids))
	for i, g := range gids {
		slot[g] = i
	}
	n := len(gids)

	width := p.Width
	if width == 0 {
		width = minSpacing(xs)
	}

	out := make([]float64, len(xs))
	for i, x := range xs {
		s := slot[groups[i]]
		out[i] = x + width*((float64(s)+0.5)/float64(n)-0.5)
	}

	nt := table.NewBuilder(t)
	nt.Add(AesX, out)
	return nt.Done(), nil
}

func posCols(t *table.Table) (xs, ys []float64, groups []int, err error) {
	cx := t.Column(AesX)
	if cx == nil {
		return nil, nil, nil, &MissingAestheticError{AesX}
	}
	cy := t.Column(AesY)
	if cy == nil {
		return nil, nil, nil, &MissingAestheticError{AesY}
	}
	slice.Convert(&xs, cx)
	slice.Convert(&ys, cy)
	groups = make([]int, t.Len())
	if cg := t.Column(ColGroup); cg != nil {
		slice.Convert(&groups, cg)
	}
	return
}

// minSpacing returns the smallest gap between distinct values of xs,
// or 1 if there are fewer than two distinct values.
func minSpacing(xs []float64) float64 {
	distinct := slice.Nub(xs).([]float64)
	sort.Float64s(distinct)
	min := math.Inf(1)
	for i := 1; i < len(distinct); i++ {
		if d := distinct[i] - distinct[i-1]; d < min {
			min = d
		}
	}
	if math.IsInf(min, 1) {
		return 1
	}
	return min
}
