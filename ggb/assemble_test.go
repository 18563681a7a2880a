// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/ggb/layout"
)

func assemblePlot(t *testing.T, spec *PlotSpec) *LayoutTree {
	t.Helper()
	res, err := Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := Assemble(res, 800, 500)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func countElts(tree *LayoutTree) map[string]int {
	counts := make(map[string]int)
	tree.Walk(func(e layout.Element) {
		switch e.(type) {
		case *PanelElt:
			counts["panel"]++
		case *AxisElt:
			counts["axis"]++
		case *StripElt:
			counts["strip"]++
		case *LegendElt:
			counts["legend"]++
		case *TextElt:
			counts["text"]++
		}
	})
	return counts
}

func TestAssembleSinglePanel(t *testing.T) {
	spec := pointsSpec()
	spec.Labs.Title = "sizes over time"
	tree := assemblePlot(t, spec)

	counts := countElts(tree)
	if counts["panel"] != 1 {
		t.Errorf("want 1 panel element; got %d", counts["panel"])
	}
	// One x axis, one y axis.
	if counts["axis"] != 2 {
		t.Errorf("want 2 axis elements; got %d", counts["axis"])
	}
	if counts["strip"] != 0 {
		t.Errorf("unfaceted plot should have no strips; got %d", counts["strip"])
	}

	// The panel must have drawn the layer.
	tree.Walk(func(e layout.Element) {
		if pe, ok := e.(*PanelElt); ok {
			if len(pe.Grobs) != 1 {
				t.Errorf("panel should hold 1 grob; got %d", len(pe.Grobs))
			}
			_, _, w, h := pe.Layout()
			if w <= 0 || h <= 0 {
				t.Errorf("panel should have positive extent; got %vx%v", w, h)
			}
		}
	})
}

func TestAssembleUntitledPanelKeepsHeight(t *testing.T) {
	// With no title, subtitle, or caption, the panel gets the
	// height those bands would have used. A blank band that still
	// claimed a flexible track would push the panel down and
	// shrink it.
	tree := assemblePlot(t, pointsSpec())
	tree.Walk(func(e layout.Element) {
		pe, ok := e.(*PanelElt)
		if !ok {
			return
		}
		_, y, _, h := pe.Layout()
		if h < tree.Height/2 {
			t.Errorf("panel height %v of %v; absent adornments should cost nothing", h, tree.Height)
		}
		if y > tree.Height/4 {
			t.Errorf("panel starts at y=%v; nothing above it should reserve space", y)
		}
	})
}

func TestAssembleFacets(t *testing.T) {
	spec := pointsSpec()
	spec.Facet = FacetWrap{Col: "cat"}
	tree := assemblePlot(t, spec)

	counts := countElts(tree)
	if counts["panel"] != 2 {
		t.Errorf("want 2 panel elements; got %d", counts["panel"])
	}
	if counts["strip"] != 2 {
		t.Errorf("want a strip per panel; got %d", counts["strip"])
	}
}

func TestAssemblePanelRowRestriction(t *testing.T) {
	data := new(table.Builder).
		Add("time", []float64{0, 1, 2, 3, 4, 5}).
		Add("size", []float64{1, 2, 3, 4, 5, 6}).
		Add("cat", []string{"a", "b", "b", "c", "c", "c"}).
		Done()
	spec := &PlotSpec{
		Data:   data,
		Aes:    Mapping{AesX: Col("time"), AesY: Col("size")},
		Layers: []*Layer{{Geom: GeomPoint{}}},
		Facet:  FacetWrap{Col: "cat"},
	}
	tree := assemblePlot(t, spec)

	// Each panel cell draws only the rows of its own facet value.
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	seen := 0
	tree.Walk(func(e layout.Element) {
		pe, ok := e.(*PanelElt)
		if !ok {
			return
		}
		seen++
		key := pe.Panel.Labels[0]
		if len(pe.Grobs) != 1 {
			t.Fatalf("panel %q: want 1 grob; got %d", key, len(pe.Grobs))
		}
		pts := pe.Grobs[0].(*GrobPoints)
		if len(pts.X) != want[key] {
			t.Errorf("panel %q should hold %d points; got %d", key, want[key], len(pts.X))
		}
	})
	if seen != 3 {
		t.Errorf("want 3 panel cells; got %d", seen)
	}
}

func TestAssembleLegend(t *testing.T) {
	tree := assemblePlot(t, guideSpec())
	if counts := countElts(tree); counts["legend"] != 1 {
		t.Errorf("want 1 legend element; got %d", counts["legend"])
	}
}

func TestAssembleLegendInside(t *testing.T) {
	spec := guideSpec()
	spec.Theme = DefaultTheme()
	spec.Theme.Legend = LegendInside
	tree := assemblePlot(t, spec)

	var panel, legend layout.Element
	tree.Walk(func(e layout.Element) {
		switch e.(type) {
		case *PanelElt:
			panel = e
		case *LegendElt:
			legend = e
		}
	})
	if legend == nil {
		t.Fatal("no legend element")
	}
	// An inside legend overlays the panel instead of taking space
	// beside it.
	px, _, pw, _ := panel.Layout()
	lx, _, lw, _ := legend.Layout()
	if lx < px || lx+lw > px+pw+1e-6 {
		t.Errorf("legend [%v,%v] not within panel [%v,%v]", lx, lx+lw, px, px+pw)
	}
}

func TestAssembleBounds(t *testing.T) {
	tree := assemblePlot(t, pointsSpec())
	tree.Walk(func(e layout.Element) {
		x, y, w, h := e.Layout()
		if x < 0 || y < 0 || x+w > tree.Width+1e-6 || y+h > tree.Height+1e-6 {
			t.Errorf("element %T rect (%v,%v,%v,%v) overflows %vx%v",
				e, x, y, w, h, tree.Width, tree.Height)
		}
	})
}
