// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ggbuild compiles a declarative plot description against a
// dataset and renders the result as SVG.
//
// ggbuild reads one input file (or stdin) holding either an array of
// JSON records or Go benchmark results [1], applies the plot
// described by a YAML config file and/or -layer flags, and writes an
// SVG document.
//
// For example, to plot allocation rate against time per operation
// from benchmark output, faceted by benchmark name:
//
//	ggbuild -x ns/op -y B/op -facet name -layer "geom=point" bench.txt
//
// [1] https://github.com/golang/proposal/blob/master/design/14313-benchmark-format.md
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/ggb"
	"github.com/aclements/go-ggbuild/svgplot"
)

type layerFlags []string

func (f *layerFlags) String() string { return fmt.Sprint(*f) }

func (f *layerFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	log.SetPrefix("ggbuild: ")
	log.SetFlags(0)

	var layers layerFlags
	var (
		flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
		flagMemProfile = flag.String("memprofile", "", "write heap profile to `file`")
		flagOut        = flag.String("o", "", "write output to `file` (default: stdout)")
		flagConfig     = flag.String("config", "", "read plot description from YAML `file`")
		flagX          = flag.String("x", "", "map data `column` to the x axis")
		flagY          = flag.String("y", "", "map data `column` to the y axis")
		flagColor      = flag.String("color", "", "map data `column` to color")
		flagFacet      = flag.String("facet", "", "facet panels by data `column`")
		flagTitle      = flag.String("title", "", "plot `title`")
		flagWidth      = flag.Float64("W", 800, "output width in `points`")
		flagHeight     = flag.Float64("H", 500, "output height in `points`")
		flagTrace      = flag.Bool("trace", false, "print the build stage trace to stderr")
		flagDump       = flag.String("dump", "", "print the named build `stage`'s tables to stderr (\"all\" for every stage)")
	)
	flag.Var(&layers, "layer", "add a layer from `opts` like \"geom=point stat=bin\" (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [input]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	if *flagMemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	path := "-"
	if flag.NArg() == 1 {
		path = flag.Arg(0)
	}
	data, err := loadDataset(path)
	if err != nil {
		log.Fatal(err)
	}

	cfg := new(plotConfig)
	if *flagConfig != "" {
		cfg, err = loadConfig(*flagConfig)
		if err != nil {
			log.Fatal(err)
		}
	}
	// Flags override the config file.
	if *flagX != "" {
		cfg.X = *flagX
	}
	if *flagY != "" {
		cfg.Y = *flagY
	}
	if *flagColor != "" {
		cfg.Color = *flagColor
	}
	if *flagFacet != "" {
		cfg.Facet.Col = *flagFacet
	}
	if *flagTitle != "" {
		cfg.Title = *flagTitle
	}
	for _, lv := range layers {
		lc, err := parseLayerFlag(lv)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Layers = append(cfg.Layers, lc)
	}

	spec, err := cfg.spec(data)
	if err != nil {
		log.Fatal(err)
	}

	var trace ggb.TraceFunc
	if *flagTrace || *flagDump != "" {
		trace = func(stage string, layers []*ggb.LayerData, _ *ggb.Layout) {
			for i, ld := range layers {
				if *flagTrace {
					fmt.Fprintf(os.Stderr, "%s: layer %d: %d rows, %d cols\n",
						stage, i, ld.Data.Len(), len(ld.Data.Columns()))
				}
				if *flagDump == stage || *flagDump == "all" {
					fmt.Fprintf(os.Stderr, "-- %s layer %d\n", stage, i)
					table.Fprint(os.Stderr, ld.Data)
				}
			}
		}
	}

	res, err := ggb.BuildTraced(spec, trace)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "ggbuild: %s\n", w)
	}

	tree, err := ggb.Assemble(res, *flagWidth, *flagHeight)
	if err != nil {
		log.Fatal(err)
	}

	out := os.Stdout
	if *flagOut != "" {
		out, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
	}
	svgplot.Render(tree, out)
}
