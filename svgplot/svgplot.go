// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svgplot renders composed plot layout trees as SVG.
package svgplot

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/aclements/go-ggbuild/ggb"
	"github.com/aclements/go-ggbuild/ggb/layout"
)

// Render writes lt to w as a standalone SVG document.
func Render(lt *ggb.LayoutTree, w io.Writer) {
	s := svg.New(w)
	s.Start(int(lt.Width), int(lt.Height),
		`font-family="Roboto,&quot;Helvetica Neue&quot;,Helvetica,Arial,sans-serif"`)

	r := &renderer{svg: s}
	lt.Walk(func(e layout.Element) {
		switch e := e.(type) {
		case *ggb.PanelElt:
			r.panel(e)
		case *ggb.AxisElt:
			r.axis(e)
		case *ggb.StripElt:
			r.strip(e)
		case *ggb.TextElt:
			r.text(e)
		case *ggb.LegendElt:
			r.legend(e)
		}
	})

	s.End()
}

type renderer struct {
	svg     *svg.SVG
	clipSeq int
}

// frame maps normalized panel coordinates into the rectangle of e.
// Panel y grows up; SVG y grows down.
type frame struct {
	x, y, w, h float64
}

func eltFrame(e layout.Element) frame {
	x, y, w, h := e.Layout()
	return frame{x, y, w, h}
}

func (f frame) pt(gx, gy float64) (float64, float64) {
	return f.x + gx*f.w, f.y + (1-gy)*f.h
}

func (r *renderer) panel(e *ggb.PanelElt) {
	f := eltFrame(e)
	s := r.svg

	if e.Theme.PanelBackground != nil {
		s.Rect(int(f.x), int(f.y), int(f.w), int(f.h), cssPaint("fill", e.Theme.PanelBackground))
	}

	if e.Theme.GridLine != nil && (len(e.XTicks) > 0 || len(e.YTicks) > 0) {
		var grid strings.Builder
		for _, x := range e.XTicks {
			fmt.Fprintf(&grid, "M%.6g %.6gv%.6g", f.x+x*f.w, f.y, f.h)
		}
		for _, y := range e.YTicks {
			fmt.Fprintf(&grid, "M%.6g %.6gh%.6g", f.x, f.y+(1-y)*f.h, f.w)
		}
		s.Path(grid.String(), cssPaint("stroke", e.Theme.GridLine)+";fill:none")
	}

	r.clipSeq++
	clipID := fmt.Sprintf("c%d", r.clipSeq)
	s.ClipPath(`id="` + clipID + `"`)
	s.Rect(int(f.x), int(f.y), int(f.w), int(f.h))
	s.ClipEnd()
	s.Group(`clip-path="url(#` + clipID + `)"`)
	for _, g := range e.Grobs {
		r.grob(f, g)
	}
	s.Gend()
}

func (r *renderer) grob(f frame, g ggb.Grob) {
	s := r.svg
	dim := f.w
	if f.h < dim {
		dim = f.h
	}

	switch g := g.(type) {
	case *ggb.GrobPoints:
		for i := range g.X {
			x, y := f.pt(g.X[i], g.Y[i])
			style := cssPaint("fill", g.Fill[i]) + ";" + cssPaint("stroke", g.Stroke[i])
			if g.Opacity[i] != 1 {
				style += ";opacity:" + fmtF(g.Opacity[i])
			}
			s.Circle(int(x), int(y), int(g.Size[i]*dim+0.5), style)
		}

	case *ggb.GrobPath:
		var path strings.Builder
		for i := range g.X {
			x, y := f.pt(g.X[i], g.Y[i])
			if i == 0 {
				fmt.Fprintf(&path, "M%.6g %.6g", x, y)
			} else {
				fmt.Fprintf(&path, "L%.6g %.6g", x, y)
			}
		}
		style := cssPaint("stroke", g.Stroke) + ";fill:none;stroke-width:" + fmtF(g.Width*dim+1)
		if g.Opacity != 1 {
			style += ";opacity:" + fmtF(g.Opacity)
		}
		s.Path(wrapPath(path.String()), style)

	case *ggb.GrobRect:
		for i := range g.X0 {
			x0, y0 := f.pt(g.X0[i], g.Y0[i])
			x1, y1 := f.pt(g.X1[i], g.Y1[i])
			if y1 < y0 {
				y0, y1 = y1, y0
			}
			style := cssPaint("fill", g.Fill[i])
			if g.Opacity[i] != 1 {
				style += ";opacity:" + fmtF(g.Opacity[i])
			}
			s.Rect(int(x0), int(y0), int(x1-x0), int(y1-y0), style)
		}

	case *ggb.GrobPolygon:
		var path strings.Builder
		for i := range g.X {
			x, y := f.pt(g.X[i], g.Y[i])
			if i == 0 {
				fmt.Fprintf(&path, "M%.6g %.6g", x, y)
			} else {
				fmt.Fprintf(&path, "L%.6g %.6g", x, y)
			}
		}
		path.WriteString("Z")
		style := cssPaint("fill", g.Fill) + ";stroke:none"
		if g.Opacity != 1 {
			style += ";opacity:" + fmtF(g.Opacity)
		}
		s.Path(wrapPath(path.String()), style)

	case *ggb.GrobText:
		x, y := f.pt(g.X, g.Y)
		anchor := "middle"
		switch g.Anchor {
		case -1:
			anchor = "start"
		case 1:
			anchor = "end"
		}
		s.Text(int(x), int(y), g.Text,
			fmt.Sprintf(`text-anchor="%s" font-size="%.6gpx"`, anchor, g.Size),
			cssPaint("fill", g.Fill))
	}
}

func (r *renderer) axis(e *ggb.AxisElt) {
	f := eltFrame(e)
	s := r.svg
	th := e.Theme
	size := th.FontSize

	if e.Side == ggb.SideBottom {
		keys := thinKeys(e.Axis.Keys, f.w, size)
		var ticks strings.Builder
		for _, k := range keys {
			x := f.x + k.Pos*f.w
			fmt.Fprintf(&ticks, "M%.6g %.6gv%.6g", x, f.y, th.TickLength)
			s.Text(int(x), int(f.y+th.TickLength+size),
				k.Label, `text-anchor="middle"`, fmt.Sprintf(`font-size="%.6gpx"`, size), `fill="#666"`)
		}
		s.Path(ticks.String(), "stroke:#888;fill:none")
		return
	}

	var ticks strings.Builder
	for _, k := range e.Axis.Keys {
		y := f.y + (1-k.Pos)*f.h
		fmt.Fprintf(&ticks, "M%.6g %.6gh%.6g", f.x+f.w, y, -th.TickLength)
		s.Text(int(f.x+f.w-th.TickLength-2), int(y),
			k.Label, `text-anchor="end" dy=".3em"`, fmt.Sprintf(`font-size="%.6gpx"`, size), `fill="#666"`)
	}
	s.Path(ticks.String(), "stroke:#888;fill:none")
}

func (r *renderer) strip(e *ggb.StripElt) {
	f := eltFrame(e)
	s := r.svg
	s.Rect(int(f.x), int(f.y), int(f.w), int(f.h), "fill:#ccc")
	s.Text(int(f.x+f.w/2), int(f.y+f.h/2), e.Label,
		`text-anchor="middle" dy=".3em"`,
		fmt.Sprintf(`font-size="%.6gpx"`, e.Theme.FontSize))
}

func (r *renderer) text(e *ggb.TextElt) {
	if e.Text == "" {
		return
	}
	f := eltFrame(e)
	s := r.svg
	x, y := f.x+f.w/2, f.y+f.h/2
	attrs := []string{
		`text-anchor="middle" dy=".3em"`,
		fmt.Sprintf(`font-size="%.6gpx"`, e.Size),
	}
	if e.Vertical {
		attrs = append(attrs, fmt.Sprintf(`transform="rotate(-90 %.6g %.6g)"`, x, y))
	}
	s.Text(int(x), int(y), e.Text, attrs...)
}

func (r *renderer) legend(e *ggb.LegendElt) {
	f := eltFrame(e)
	s := r.svg
	size := e.Theme.FontSize
	lh := size * 1.6
	sw := size * 1.2

	x := f.x
	if e.Inside {
		w, _ := e.NaturalSize()
		x = f.x + f.w - w - 4
	}
	y := f.y + lh
	for _, l := range e.Legends {
		s.Text(int(x), int(y), l.Title,
			`text-anchor="start" font-weight="bold"`,
			fmt.Sprintf(`font-size="%.6gpx"`, size))
		y += lh
		for _, k := range l.Keys {
			if c, ok := k.Visual.(color.Color); ok {
				s.Rect(int(x), int(y-sw), int(sw), int(sw), cssPaint("fill", c))
			}
			s.Text(int(x+sw+4), int(y), k.Label,
				`text-anchor="start"`,
				fmt.Sprintf(`font-size="%.6gpx"`, size))
			y += lh
		}
	}
}

// thinKeys drops axis keys until the remaining labels fit side by
// side in width w.
func thinKeys(keys []ggb.GuideKey, w, size float64) []ggb.GuideKey {
	for step := 1; step < len(keys); step *= 2 {
		total := 0.0
		for i := 0; i < len(keys); i += step {
			total += stringWidth(keys[i].Label, size) + size
		}
		if total <= w {
			out := make([]ggb.GuideKey, 0, (len(keys)+step-1)/step)
			for i := 0; i < len(keys); i += step {
				out = append(out, keys[i])
			}
			return out
		}
	}
	return keys[:1]
}

// stringWidth returns the width in points of s at the given font
// size.
func stringWidth(s string, size float64) float64 {
	w := font.MeasureString(basicfont.Face7x13, s)
	return float64(w.Ceil()) * size / 13
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// wrapPath breaks long path data into multiple lines to avoid
// exceeding SVG's recommended 255 character attribute line limit.
func wrapPath(p string) string {
	const limit = 255
	if len(p) <= limit {
		return p
	}
	var out strings.Builder
	for len(p) > limit {
		// Break before a command letter.
		cut := limit
		for cut > 0 && !isPathCmd(p[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		out.WriteString(p[:cut])
		out.WriteByte('\n')
		p = p[cut:]
	}
	out.WriteString(p)
	return out.String()
}

func isPathCmd(b byte) bool {
	return 'A' <= b && b <= 'Z' && b != 'E' || 'a' <= b && b <= 'z' && b != 'e'
}

// cssPaint returns a CSS fragment for setting CSS property prop to
// color c.
func cssPaint(prop string, c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		// No paint.
		return prop + ":none"
	}

	if a != 0xffff {
		// Undo alpha pre-multiplication.
		r = r * 0xffff / a
		g = g * 0xffff / a
		b = b * 0xffff / a
	}
	r, g, b = r>>8, g>>8, b>>8

	css := prop + fmt.Sprintf(":#%02x%02x%02x", r, g, b)
	if a != 0xffff {
		css += ";" + prop + "-opacity:" + strconv.FormatFloat(float64(a)/0xffff, 'g', 0, 64)
	}
	return css
}
