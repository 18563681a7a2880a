// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-ggbuild/internal/benchfmt"
)

// A dataset is a loaded input file.
type dataset struct {
	table *table.Table
}

func (d *dataset) hasColumn(col string) bool {
	return d.table.Column(col) != nil
}

// loadDataset reads path, or stdin if path is "-". Files ending in
// .json hold an array of records; anything else is read as Go
// benchmark results.
func loadDataset(path string) (*dataset, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if strings.HasSuffix(path, ".json") {
		return loadJSON(r, path)
	}
	results, err := benchfmt.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%s: no benchmark results", path)
	}
	return &dataset{benchfmt.Table(results)}, nil
}

// loadJSON reads an array of flat JSON objects as a table. A column
// is numeric if every record holds a number (or omits the field),
// and a string column otherwise. Booleans and missing strings read
// as "true"/"false" and "".
func loadJSON(r io.Reader, path string) (*dataset, error) {
	var records []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no records", path)
	}

	keys := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			keys[k] = true
		}
	}
	var cols []string
	for k := range keys {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	nt := new(table.Builder)
	for _, col := range cols {
		numeric := true
		for _, rec := range records {
			if v, ok := rec[col]; ok {
				if _, ok := v.(float64); !ok {
					numeric = false
					break
				}
			}
		}
		if numeric {
			vals := make([]float64, len(records))
			for i, rec := range records {
				if v, ok := rec[col]; ok {
					vals[i] = v.(float64)
				} else {
					vals[i] = math.NaN()
				}
			}
			nt.Add(col, vals)
		} else {
			vals := make([]string, len(records))
			for i, rec := range records {
				if v, ok := rec[col]; ok {
					vals[i] = fmt.Sprint(v)
				}
			}
			nt.Add(col, vals)
		}
	}
	return &dataset{nt.Done()}, nil
}
