// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/ggb/layout"
)

func pointsSpec() *PlotSpec {
	data := new(table.Builder).
		Add("time", []float64{3, 1, 2, 5}).
		Add("size", []float64{30, 10, 20, 50}).
		Add("cat", []string{"a", "b", "a", "b"}).
		Done()
	return &PlotSpec{
		Data: data,
		Aes: Mapping{
			AesX: Col("time"),
			AesY: Col("size"),
		},
		Layers: []*Layer{{Geom: GeomPoint{}}},
	}
}

func TestBuildPreservesRowOrder(t *testing.T) {
	spec := pointsSpec()
	spec.Layers = append(spec.Layers, &Layer{Geom: GeomLine{}})

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Layers) != 2 {
		t.Fatalf("want 2 layer tables; got %d", len(res.Layers))
	}
	if res.Layers[0].Layer != spec.Layers[0] || res.Layers[1].Layer != spec.Layers[1] {
		t.Error("layer tables should be in specification order")
	}

	// A point layer never reorders its rows.
	want := []float64{3, 1, 2, 5}
	got := res.Layers[0].Data.MustColumn(AesX).([]float64)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layer 0 x should be %v; got %v", want, got)
	}

	// A line layer sorts its rows by x during finalization.
	want = []float64{1, 2, 3, 5}
	got = res.Layers[1].Data.MustColumn(AesX).([]float64)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layer 1 x should be %v; got %v", want, got)
	}
}

func TestBuildBookkeepingColumns(t *testing.T) {
	spec := pointsSpec()
	spec.Aes[AesStroke] = Col("cat")

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	d := res.Layers[0].Data

	panels := d.MustColumn(ColPanel).([]int)
	if !reflect.DeepEqual(panels, []int{1, 1, 1, 1}) {
		t.Errorf("unfaceted plot should assign every row panel 1; got %v", panels)
	}

	// Groups come from the discrete stroke column, numbered by
	// first appearance.
	groups := d.MustColumn(ColGroup).([]int)
	if !reflect.DeepEqual(groups, []int{0, 1, 0, 1}) {
		t.Errorf("groups should be [0 1 0 1]; got %v", groups)
	}
}

func TestBuildFacets(t *testing.T) {
	data := new(table.Builder).
		Add("x", []float64{1, 2, 3, 4, 5, 6}).
		Add("y", []float64{1, 2, 3, 4, 5, 6}).
		Add("cat", []string{"a", "b", "c", "a", "b", "c"}).
		Done()
	spec := &PlotSpec{
		Data:  data,
		Aes:   Mapping{AesX: Col("x"), AesY: Col("y")},
		Facet: FacetWrap{Col: "cat", NCol: 2},
		Layers: []*Layer{
			{Geom: GeomPoint{}},
			{Geom: GeomLine{}},
		},
	}

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Layout.Panels) != 3 {
		t.Fatalf("want 3 panels; got %d", len(res.Layout.Panels))
	}
	rows, cols := res.Layout.Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("want a 2x2 grid; got %dx%d", rows, cols)
	}

	// Panel IDs are 1-based and consistent across layers. Rows
	// come out grouped by panel after per-panel finalization.
	for li, ld := range res.Layers {
		panels := ld.Data.MustColumn(ColPanel).([]int)
		want := []int{1, 1, 2, 2, 3, 3}
		if !reflect.DeepEqual(panels, want) {
			t.Errorf("layer %d panels should be %v; got %v", li, want, panels)
		}
	}

	// Panel 1 is (0,0) with strip label "a".
	p := res.Layout.PanelAt(0, 0)
	if p == nil || p.ID != 1 || !reflect.DeepEqual(p.Labels, []string{"a"}) {
		t.Errorf("panel (0,0) should be ID 1 labeled [a]; got %+v", p)
	}
	if p := res.Layout.PanelAt(1, 0); p == nil || p.ID != 3 {
		t.Errorf("panel (1,0) should be ID 3; got %+v", p)
	}
}

func TestBuildIdempotent(t *testing.T) {
	build := func() *BuildResult {
		spec := pointsSpec()
		spec.Layers[0].Pos = PosJitter{Width: 0.5, Seed: 42}
		res, err := Build(spec)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a := build().Layers[0].Data.MustColumn(AesX).([]float64)
	b := build().Layers[0].Data.MustColumn(AesX).([]float64)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("seeded jitter should be reproducible; got %v then %v", a, b)
	}
}

func TestBuildDoesNotMutateSpec(t *testing.T) {
	spec := pointsSpec()
	s := NewLinearScaler()
	s.Include(0)
	spec.Scales = map[string]Scaler{AesX: s}

	if _, err := Build(spec); err != nil {
		t.Fatal(err)
	}

	// The spec's scale must not have been trained.
	if v := s.Map(0.0).(float64); v != 0.5 {
		t.Errorf("Build trained the caller's scale: Map(0) = %v", v)
	}
}

func TestBuildCensor(t *testing.T) {
	spec := pointsSpec()
	spec.Scales = map[string]Scaler{
		AesY: NewLinearScaler().SetLimits(0, 35).SetOOB(OOBCensor),
	}

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}

	// The y=50 row must not reach the drawing table.
	d := res.Layers[0].Data
	if d.Len() != 3 {
		t.Fatalf("want 3 rows after censoring; got %d", d.Len())
	}
	for _, y := range d.MustColumn(AesY).([]float64) {
		if math.IsNaN(y) || y > 35 {
			t.Errorf("censored value %v survived the pipeline", y)
		}
	}
}

func TestBuildHistogram(t *testing.T) {
	n := 20
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(i % 5)
	}
	data := new(table.Builder).Add("v", xs).Add("w", ys).Done()

	spec := &PlotSpec{
		Data: data,
		Aes:  Mapping{AesX: Col("v")},
		Layers: []*Layer{
			{Aes: Mapping{AesY: Col("w")}, Geom: GeomPoint{}},
			{Stat: binStat{bins: 5}, Geom: GeomBar{}},
		},
	}

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}

	raw, binned := res.Layers[0].Data, res.Layers[1].Data
	if raw.Len() != n {
		t.Errorf("raw layer should keep %d rows; got %d", n, raw.Len())
	}
	if binned.Len() != 5 {
		t.Fatalf("binned layer should have 5 rows; got %d", binned.Len())
	}

	total := 0.0
	for _, c := range binned.MustColumn(AesY).([]float64) {
		total += c
	}
	if total != float64(n) {
		t.Errorf("bin counts should sum to %d; got %v", n, total)
	}

	// The bar geometry derives its extents.
	for _, col := range []string{colXMin, colXMax, AesYMin, AesYMax} {
		if binned.Column(col) == nil {
			t.Errorf("binned layer should have column %q", col)
		}
	}
}

// binStat is a minimal fixed-width histogram used to exercise the
// statistics stage without depending on other packages.
type binStat struct {
	bins int
}

func (b binStat) F(g table.Grouping) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, tab *table.Table) *table.Table {
		xs := tab.MustColumn(AesX).([]float64)
		min, max := xs[0], xs[0]
		for _, x := range xs {
			min, max = math.Min(min, x), math.Max(max, x)
		}
		width := (max - min) / float64(b.bins)
		centers := make([]float64, b.bins)
		counts := make([]float64, b.bins)
		widths := make([]float64, b.bins)
		for i := range centers {
			centers[i] = min + width*(float64(i)+0.5)
			widths[i] = width
		}
		for _, x := range xs {
			i := int((x - min) / width)
			if i == b.bins {
				i--
			}
			counts[i]++
		}
		return new(table.Builder).
			Add(AesX, centers).Add(AesY, counts).Add("width", widths).
			Done()
	})
}

func TestBuildMissingAesthetic(t *testing.T) {
	spec := pointsSpec()
	delete(spec.Aes, AesY)

	_, err := Build(spec)
	if err == nil {
		t.Fatal("want error for missing y aesthetic")
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Stage != StageFinalizeGeoms {
		t.Fatalf("want BuildError from %s; got %v", StageFinalizeGeoms, err)
	}
	var mae *MissingAestheticError
	if !errors.As(err, &mae) || mae.Aes != AesY {
		t.Fatalf("want MissingAestheticError for y; got %v", err)
	}
}

func TestBuildScaleConflict(t *testing.T) {
	floats := new(table.Builder).
		Add("x", []float64{1, 2}).Add("y", []float64{1, 2}).Done()
	strs := new(table.Builder).
		Add("x", []string{"a", "b"}).Add("y", []float64{1, 2}).Done()

	spec := &PlotSpec{
		Aes: Mapping{AesX: Col("x"), AesY: Col("y")},
		Layers: []*Layer{
			{Data: floats, Geom: GeomPoint{}},
			{Data: strs, Geom: GeomPoint{}},
		},
	}

	_, err := Build(spec)
	var sce *ScaleConflictError
	if !errors.As(err, &sce) || sce.Aes != AesX {
		t.Fatalf("want ScaleConflictError for x; got %v", err)
	}
}

type emptyStat struct{}

func (emptyStat) F(g table.Grouping) table.Grouping {
	return table.MapTables(g, func(_ table.GroupID, tab *table.Table) *table.Table {
		return new(table.Builder).
			Add(AesX, []float64{}).Add(AesY, []float64{}).
			Done()
	})
}

func TestBuildSparseStatWarns(t *testing.T) {
	spec := pointsSpec()
	spec.Layers[0].Stat = emptyStat{}
	spec.Layers[0].Pos = PosStack{}

	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("want a warning for a statistic that yields no rows")
	}
	w := res.Warnings[0]
	if w.Layer != 0 || w.Stage != StageComputeStats {
		t.Errorf("warning should name layer 0 stage %s; got %+v", StageComputeStats, w)
	}

	// The emptied layer draws nothing but must not abort assembly.
	tree, err := Assemble(res, 800, 500)
	if err != nil {
		t.Fatal(err)
	}
	tree.Walk(func(e layout.Element) {
		if pe, ok := e.(*PanelElt); ok && len(pe.Grobs) != 0 {
			t.Errorf("emptied layer should draw nothing; got %d grobs", len(pe.Grobs))
		}
	})
}

func TestBuildTrace(t *testing.T) {
	var stages []string
	_, err := BuildTraced(pointsSpec(), func(stage string, layers []*LayerData, lay *Layout) {
		stages = append(stages, stage)
		if len(layers) != 1 {
			t.Errorf("stage %s: want 1 layer; got %d", stage, len(layers))
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stages, Stages) {
		t.Errorf("trace should visit %v; got %v", Stages, stages)
	}
}
