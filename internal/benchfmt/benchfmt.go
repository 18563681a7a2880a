// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt loads Go benchmark results files as data tables.
//
// The format is specified at:
// https://github.com/golang/proposal/blob/master/design/14313-benchmark-format.md
package benchfmt

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aclements/go-gg/table"
)

// A Result is one benchmark result line, combined with the
// configuration block in effect where it appeared.
type Result struct {
	// Name is the benchmark's name, without the "Benchmark"
	// prefix and without the trailing GOMAXPROCS number.
	Name string

	// Iterations is the number of times the benchmark executed.
	Iterations int

	// Config maps configuration keys to raw values. Keys come
	// from configuration block lines, "key:value" name
	// components, and the "-N" GOMAXPROCS suffix (as
	// "gomaxprocs").
	Config map[string]string

	// Metrics maps units such as "ns/op" to measured values.
	Metrics map[string]float64
}

var configRe = regexp.MustCompile(`^(\p{Ll}\S*):(?:[ \t]+(.*))?$`)

// Parse reads benchmark result lines from r. The same benchmark may
// appear any number of times.
func Parse(r io.Reader) ([]*Result, error) {
	var results []*Result
	config := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if m := configRe.FindStringSubmatch(line); m != nil {
			config[m[1]] = m[2]
			continue
		}
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}
		if res := parseLine(line, config); res != nil {
			results = append(results, res)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseLine(line string, block map[string]string) *Result {
	f := strings.Fields(line)
	if len(f) < 4 {
		return nil
	}
	next, _ := utf8.DecodeRuneInString(f[0][len("Benchmark"):])
	if !unicode.IsUpper(next) {
		return nil
	}

	res := &Result{
		Config:  make(map[string]string),
		Metrics: make(map[string]float64),
	}
	for k, v := range block {
		res.Config[k] = v
	}

	name := strings.TrimPrefix(f[0], "Benchmark")
	if strings.Contains(name, "/") {
		parts := strings.Split(name, "/")
		res.Name = parts[0]
		for _, part := range parts[1:] {
			if i := strings.Index(part, ":"); i >= 0 {
				res.Config[part[:i]] = part[i+1:]
			}
		}
	} else if i := strings.LastIndex(name, "-"); i >= 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			res.Name = name[:i]
			res.Config["gomaxprocs"] = name[i+1:]
		} else {
			res.Name = name
		}
	} else {
		res.Name = name
	}

	n, err := strconv.Atoi(f[1])
	if err != nil || n <= 0 {
		return nil
	}
	res.Iterations = n

	for i := 2; i+2 <= len(f); i += 2 {
		val, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			continue
		}
		res.Metrics[f[i+1]] = val
	}
	return res
}

// Table converts results to a table with one row per result. It has
// columns "name" and "iterations", one column per metric unit, and
// one column per configuration key. A config column is numeric if
// every raw value parses as a number, and a string column otherwise.
// Metrics a result lacks are NaN.
func Table(results []*Result) *table.Table {
	units := map[string]bool{}
	keys := map[string]bool{}
	for _, r := range results {
		for u := range r.Metrics {
			units[u] = true
		}
		for k := range r.Config {
			keys[k] = true
		}
	}

	names := make([]string, len(results))
	iters := make([]int, len(results))
	for i, r := range results {
		names[i] = r.Name
		iters[i] = r.Iterations
	}
	nt := new(table.Builder).Add("name", names).Add("iterations", iters)

	for _, u := range sortedKeys(units) {
		col := make([]float64, len(results))
		for i, r := range results {
			if v, ok := r.Metrics[u]; ok {
				col[i] = v
			} else {
				col[i] = math.NaN()
			}
		}
		nt.Add(u, col)
	}

	for _, k := range sortedKeys(keys) {
		raw := make([]string, len(results))
		numeric := true
		nums := make([]float64, len(results))
		for i, r := range results {
			raw[i] = r.Config[k]
			v, err := strconv.ParseFloat(raw[i], 64)
			if err != nil {
				numeric = false
			}
			nums[i] = v
		}
		if numeric {
			nt.Add(k, nums)
		} else {
			nt.Add(k, raw)
		}
	}
	return nt.Done()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
