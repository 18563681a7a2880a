// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `commit: 123456
date: Mon Jan 2

BenchmarkEncode-8   	 1000	   1234.5 ns/op	     456 B/op
not a benchmark line
BenchmarkDecode/size:1k-8    500   2000 ns/op
Benchmarklower 100 1 ns/op
`
	results, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []*Result{
		{
			Name:       "Encode",
			Iterations: 1000,
			Config:     map[string]string{"commit": "123456", "date": "Mon Jan 2", "gomaxprocs": "8"},
			Metrics:    map[string]float64{"ns/op": 1234.5, "B/op": 456},
		},
		{
			Name:       "Decode",
			Iterations: 500,
			Config:     map[string]string{"commit": "123456", "date": "Mon Jan 2", "size": "1k-8"},
			Metrics:    map[string]float64{"ns/op": 2000},
		},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("want %+v; got %+v", want, results)
	}
}

func TestParseBadLines(t *testing.T) {
	tests := []string{
		"BenchmarkX",             // no fields
		"BenchmarkX 0 1 ns/op",   // zero iterations
		"BenchmarkX abc 1 ns/op", // bad iteration count
		"Benchmarkx 100 1 ns/op", // lower case after prefix
	}
	for _, test := range tests {
		results, err := Parse(strings.NewReader(test))
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("%q: want no results; got %+v", test, results)
		}
	}
}

func TestParseConfigScope(t *testing.T) {
	// A later config line overrides the earlier value for
	// following results only.
	input := `branch: main
BenchmarkX 100 1 ns/op
branch: dev
BenchmarkX 100 2 ns/op
`
	results, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results; got %d", len(results))
	}
	if got := results[0].Config["branch"]; got != "main" {
		t.Errorf("first result branch = %q; want main", got)
	}
	if got := results[1].Config["branch"]; got != "dev" {
		t.Errorf("second result branch = %q; want dev", got)
	}
}

func TestTable(t *testing.T) {
	results := []*Result{
		{
			Name: "X", Iterations: 100,
			Config:  map[string]string{"rev": "1"},
			Metrics: map[string]float64{"ns/op": 5, "B/op": 16},
		},
		{
			Name: "Y", Iterations: 200,
			Config:  map[string]string{"rev": "2"},
			Metrics: map[string]float64{"ns/op": 7},
		},
	}
	tab := Table(results)

	if want := []string{"name", "iterations", "B/op", "ns/op", "rev"}; !reflect.DeepEqual(tab.Columns(), want) {
		t.Fatalf("want columns %v; got %v", want, tab.Columns())
	}
	if want := []string{"X", "Y"}; !reflect.DeepEqual(tab.MustColumn("name"), want) {
		t.Errorf("want names %v; got %v", want, tab.MustColumn("name"))
	}
	if want := []float64{5, 7}; !reflect.DeepEqual(tab.MustColumn("ns/op"), want) {
		t.Errorf("want ns/op %v; got %v", want, tab.MustColumn("ns/op"))
	}

	// Y has no B/op measurement, so its cell is NaN.
	bop := tab.MustColumn("B/op").([]float64)
	if bop[0] != 16 || !math.IsNaN(bop[1]) {
		t.Errorf("want B/op [16 NaN]; got %v", bop)
	}

	// Every rev parses as a number, so the column is numeric.
	if want := []float64{1, 2}; !reflect.DeepEqual(tab.MustColumn("rev"), want) {
		t.Errorf("want rev %v; got %v", want, tab.MustColumn("rev"))
	}
}

func TestTableStringConfig(t *testing.T) {
	results := []*Result{
		{Name: "X", Iterations: 1,
			Config:  map[string]string{"branch": "main"},
			Metrics: map[string]float64{"ns/op": 1}},
		{Name: "X", Iterations: 1,
			Config:  map[string]string{"branch": "2"},
			Metrics: map[string]float64{"ns/op": 2}},
	}
	tab := Table(results)
	if want := []string{"main", "2"}; !reflect.DeepEqual(tab.MustColumn("branch"), want) {
		t.Errorf("want branch %v; got %v", want, tab.MustColumn("branch"))
	}
}
