// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svgplot

import (
	"image/color"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/ggb"
)

func renderPlot(t *testing.T, spec *ggb.PlotSpec) string {
	t.Helper()
	res, err := ggb.Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := ggb.Assemble(res, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	Render(tree, &buf)
	return buf.String()
}

func scatterSpec() *ggb.PlotSpec {
	tab := new(table.Builder).
		Add("time", []float64{1, 2, 3, 4}).
		Add("size", []float64{10, 30, 20, 40}).
		Add("kind", []string{"a", "b", "a", "b"}).
		Done()
	return &ggb.PlotSpec{
		Data: tab,
		Aes: ggb.Mapping{
			ggb.AesX: ggb.Col("time"),
			ggb.AesY: ggb.Col("size"),
		},
		Layers: []*ggb.Layer{{Geom: ggb.GeomPoint{}}},
	}
}

func TestRenderDocument(t *testing.T) {
	out := renderPlot(t, scatterSpec())
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("output is not an SVG document:\n%s", out)
	}
	if !strings.Contains(out, `width="640"`) || !strings.Contains(out, `height="480"`) {
		t.Errorf("document should carry the requested size")
	}
	// 4 points, a clipped panel, and tick labels.
	if n := strings.Count(out, "<circle"); n != 4 {
		t.Errorf("want 4 circles; got %d", n)
	}
	if !strings.Contains(out, "<clipPath") {
		t.Errorf("panel should be clipped")
	}
	if !strings.Contains(out, ">10<") {
		t.Errorf("y axis should label the value 10:\n%s", out)
	}
}

func TestRenderTitle(t *testing.T) {
	spec := scatterSpec()
	spec.Labs.Title = "build times"
	out := renderPlot(t, spec)
	if !strings.Contains(out, ">build times<") {
		t.Errorf("title text missing from output")
	}
}

func TestRenderFacetStrips(t *testing.T) {
	spec := scatterSpec()
	spec.Facet = ggb.FacetWrap{Col: "kind"}
	out := renderPlot(t, spec)
	if !strings.Contains(out, ">a<") || !strings.Contains(out, ">b<") {
		t.Errorf("strip labels missing from output")
	}
}

func TestRenderLine(t *testing.T) {
	spec := scatterSpec()
	spec.Layers = []*ggb.Layer{{Geom: ggb.GeomLine{}}}
	out := renderPlot(t, spec)
	if !strings.Contains(out, "fill:none") {
		t.Errorf("line path should not be filled")
	}
}

func TestCSSPaint(t *testing.T) {
	tests := []struct {
		c    color.Color
		want string
	}{
		{color.RGBA{0xff, 0x00, 0x00, 0xff}, "fill:#ff0000"},
		{color.RGBA{0x00, 0x00, 0x00, 0x00}, "fill:none"},
		{color.RGBA{0x80, 0x00, 0x00, 0x80}, "fill:#ff0000;fill-opacity:0.5"},
	}
	for _, test := range tests {
		if got := cssPaint("fill", test.c); got != test.want {
			t.Errorf("cssPaint(%v) = %q; want %q", test.c, got, test.want)
		}
	}
}

func TestWrapPath(t *testing.T) {
	var long strings.Builder
	long.WriteString("M0 0")
	for i := 0; i < 100; i++ {
		long.WriteString("L10.5 20.25")
	}
	wrapped := wrapPath(long.String())
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 255 {
			t.Errorf("line of %d bytes exceeds the limit", len(line))
		}
	}
	if strings.Replace(wrapped, "\n", "", -1) != long.String() {
		t.Errorf("wrapping changed the path data")
	}
}

func TestWrapPathExponents(t *testing.T) {
	// Scientific notation must not be mistaken for a path command.
	p := "M1e-06 2e+07"
	for i := 0; i < 50; i++ {
		p += "L1.5e-06 2.5e+07"
	}
	wrapped := wrapPath(p)
	for _, line := range strings.Split(wrapped, "\n")[1:] {
		if len(line) > 0 && (line[0] == 'e' || line[0] == 'E') {
			t.Errorf("line broke inside an exponent: %q", line)
		}
	}
}

func TestThinKeys(t *testing.T) {
	keys := make([]ggb.GuideKey, 8)
	for i := range keys {
		keys[i] = ggb.GuideKey{Pos: float64(i) / 7, Label: "123456"}
	}
	// Plenty of room keeps every key.
	if got := thinKeys(keys, 1000, 12); len(got) != 8 {
		t.Errorf("want 8 keys at width 1000; got %d", len(got))
	}
	// A narrow axis halves the keys until they fit.
	got := thinKeys(keys, 200, 12)
	if len(got) >= 8 || len(got) == 0 {
		t.Errorf("want thinned keys at width 200; got %d", len(got))
	}
	if got[0] != keys[0] {
		t.Errorf("thinning must keep the first key")
	}
}
