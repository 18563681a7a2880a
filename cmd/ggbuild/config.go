// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/aclements/go-ggbuild/ggb"
	"github.com/aclements/go-ggbuild/ggbstat"
)

// plotConfig is the YAML plot description.
type plotConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Caption  string `yaml:"caption"`

	// X, Y, and Color name data columns to map to the x, y, and
	// color aesthetics of every layer.
	X     string `yaml:"x"`
	Y     string `yaml:"y"`
	Color string `yaml:"color"`

	// Flip exchanges the x and y axes.
	Flip bool `yaml:"flip"`

	Facet struct {
		Col  string `yaml:"col"`
		Row  string `yaml:"row"`
		NCol int    `yaml:"ncol"`
		// Grid lays panels out by row and column keys instead
		// of wrapping.
		Grid bool `yaml:"grid"`
	} `yaml:"facet"`

	XScale scaleConfig `yaml:"xscale"`
	YScale scaleConfig `yaml:"yscale"`

	Layers []layerConfig `yaml:"layers"`
}

type scaleConfig struct {
	Trans string   `yaml:"trans"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
	OOB   string   `yaml:"oob"`
}

type layerConfig struct {
	Geom string `yaml:"geom"`
	Stat string `yaml:"stat"`

	// X, Y, and Color override the plot-level mappings for this
	// layer.
	X     string `yaml:"x"`
	Y     string `yaml:"y"`
	Color string `yaml:"color"`

	Bins     int     `yaml:"bins"`
	Span     float64 `yaml:"span"`
	Degree   int     `yaml:"degree"`
	Position string  `yaml:"position"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Seed     int64   `yaml:"seed"`
}

func loadConfig(path string) (*plotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(plotConfig)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseLayerFlag parses a -layer flag value such as
//
//	"geom=point stat=bin bins=20 position=stack"
//
// into a layer configuration. Values with spaces may be quoted.
func parseLayerFlag(val string) (layerConfig, error) {
	var lc layerConfig
	words, err := shellquote.Split(val)
	if err != nil {
		return lc, err
	}
	for _, w := range words {
		i := strings.Index(w, "=")
		if i < 0 {
			return lc, fmt.Errorf("malformed layer option %q (want key=value)", w)
		}
		k, v := w[:i], w[i+1:]
		switch k {
		case "geom":
			lc.Geom = v
		case "stat":
			lc.Stat = v
		case "x":
			lc.X = v
		case "y":
			lc.Y = v
		case "color":
			lc.Color = v
		case "position", "pos":
			lc.Position = v
		case "bins":
			lc.Bins, err = strconv.Atoi(v)
		case "degree":
			lc.Degree, err = strconv.Atoi(v)
		case "span":
			lc.Span, err = strconv.ParseFloat(v, 64)
		case "width":
			lc.Width, err = strconv.ParseFloat(v, 64)
		case "height":
			lc.Height, err = strconv.ParseFloat(v, 64)
		case "seed":
			lc.Seed, err = strconv.ParseInt(v, 10, 64)
		default:
			return lc, fmt.Errorf("unknown layer option %q", k)
		}
		if err != nil {
			return lc, fmt.Errorf("layer option %q: %v", w, err)
		}
	}
	if lc.Geom == "" {
		return lc, fmt.Errorf("layer %q needs a geom", val)
	}
	return lc, nil
}

// spec builds the plot specification described by cfg.
func (cfg *plotConfig) spec(data *dataset) (*ggb.PlotSpec, error) {
	spec := &ggb.PlotSpec{
		Data: data.table,
		Aes:  ggb.Mapping{},
		Labs: ggb.Labs{Title: cfg.Title, Subtitle: cfg.Subtitle, Caption: cfg.Caption},
	}
	if err := addAes(spec.Aes, data, cfg.X, cfg.Y, cfg.Color); err != nil {
		return nil, err
	}

	if cfg.Flip {
		spec.Coord = ggb.CoordFlip{}
	}

	switch {
	case cfg.Facet.Grid:
		spec.Facet = ggb.FacetGrid{Row: cfg.Facet.Row, Col: cfg.Facet.Col}
	case cfg.Facet.Col != "":
		spec.Facet = ggb.FacetWrap{Col: cfg.Facet.Col, NCol: cfg.Facet.NCol}
	}

	spec.Scales = map[string]ggb.Scaler{}
	for aes, sc := range map[string]scaleConfig{"x": cfg.XScale, "y": cfg.YScale} {
		s, err := sc.scaler()
		if err != nil {
			return nil, err
		}
		if s != nil {
			spec.Scales[aes] = s
		}
	}

	if len(cfg.Layers) == 0 {
		cfg.Layers = []layerConfig{{Geom: "point"}}
	}
	for _, lc := range cfg.Layers {
		l, err := lc.layer(data)
		if err != nil {
			return nil, err
		}
		spec.Layers = append(spec.Layers, l)
	}
	return spec, nil
}

func addAes(m ggb.Mapping, data *dataset, x, y, color string) error {
	for aes, col := range map[string]string{
		ggb.AesX: x, ggb.AesY: y,
		ggb.AesStroke: color, ggb.AesFill: color,
	} {
		if col == "" {
			continue
		}
		if !data.hasColumn(col) {
			return fmt.Errorf("no column %q in data", col)
		}
		m[aes] = ggb.Col(col)
	}
	return nil
}

func (sc scaleConfig) scaler() (ggb.Scaler, error) {
	if sc.Trans == "" && sc.Min == nil && sc.Max == nil && sc.OOB == "" {
		return nil, nil
	}
	s := ggb.NewLinearScaler()
	switch sc.Trans {
	case "", "identity":
	case "log10", "log":
		s.SetTrans(ggb.TransLog10)
	case "sqrt":
		s.SetTrans(ggb.TransSqrt)
	default:
		return nil, fmt.Errorf("unknown scale transform %q", sc.Trans)
	}
	if sc.Min != nil || sc.Max != nil {
		// An unset side stays NaN, leaving that side of the
		// domain to the data.
		min, max := math.NaN(), math.NaN()
		if sc.Min != nil {
			min = *sc.Min
		}
		if sc.Max != nil {
			max = *sc.Max
		}
		s.SetLimits(min, max)
	}
	switch sc.OOB {
	case "", "keep":
	case "censor":
		s.SetOOB(ggb.OOBCensor)
	case "squish":
		s.SetOOB(ggb.OOBSquish)
	default:
		return nil, fmt.Errorf("unknown oob policy %q", sc.OOB)
	}
	return s, nil
}

func (lc layerConfig) layer(data *dataset) (*ggb.Layer, error) {
	l := &ggb.Layer{Aes: ggb.Mapping{}}
	if err := addAes(l.Aes, data, lc.X, lc.Y, lc.Color); err != nil {
		return nil, err
	}

	switch lc.Geom {
	case "point":
		l.Geom = ggb.GeomPoint{}
	case "line":
		l.Geom = ggb.GeomLine{}
	case "path":
		l.Geom = ggb.GeomPath{}
	case "bar":
		l.Geom = ggb.GeomBar{}
	case "area":
		l.Geom = ggb.GeomArea{}
	case "tile":
		l.Geom = ggb.GeomTile{}
	default:
		return nil, fmt.Errorf("unknown geom %q", lc.Geom)
	}

	switch lc.Stat {
	case "", "identity":
	case "bin":
		l.Stat = ggbstat.Bin{Bins: lc.Bins}
	case "count":
		l.Stat = ggbstat.Count{}
	case "summary":
		l.Stat = ggbstat.Summary{}
	case "density":
		l.Stat = ggbstat.Density{}
	case "ecdf":
		l.Stat = ggbstat.ECDF{}
	case "loess":
		l.Stat = ggbstat.LOESS{Span: lc.Span, Degree: lc.Degree}
	case "lsquares":
		l.Stat = ggbstat.LeastSquares{Degree: lc.Degree}
	default:
		return nil, fmt.Errorf("unknown stat %q", lc.Stat)
	}

	switch lc.Position {
	case "", "identity":
	case "stack":
		l.Pos = ggb.PosStack{}
	case "dodge":
		l.Pos = ggb.PosDodge{Width: lc.Width}
	case "jitter":
		w := lc.Width
		if w == 0 && lc.Height == 0 {
			w = 0.4
		}
		l.Pos = ggb.PosJitter{Width: w, Height: lc.Height, Seed: lc.Seed}
	default:
		return nil, fmt.Errorf("unknown position %q", lc.Position)
	}
	return l, nil
}
