// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestFacetWrapPlace(t *testing.T) {
	levels := [][]interface{}{{"a", "b", "c", "d", "e"}}
	f := FacetWrap{Col: "k", NCol: 3}

	for i, want := range []struct{ row, col int }{
		{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1},
	} {
		key := []interface{}{levels[0][i]}
		row, col, labels := f.Place(key, levels)
		if row != want.row || col != want.col {
			t.Errorf("level %d should be at (%d,%d); got (%d,%d)", i, want.row, want.col, row, col)
		}
		if len(labels) != 1 || labels[0] != levels[0][i].(string) {
			t.Errorf("level %d labels should be [%v]; got %v", i, levels[0][i], labels)
		}
	}
}

func TestFacetWrapSquare(t *testing.T) {
	// Without NCol, 5 levels get a 3-wide grid.
	levels := [][]interface{}{{1, 2, 3, 4, 5}}
	f := FacetWrap{Col: "k"}
	row, col, _ := f.Place([]interface{}{4}, levels)
	if row != 1 || col != 0 {
		t.Errorf("level 3 of 5 should be at (1,0); got (%d,%d)", row, col)
	}
}

func TestFacetGridPlace(t *testing.T) {
	levels := [][]interface{}{{"r0", "r1"}, {"c0", "c1", "c2"}}
	f := FacetGrid{Row: "r", Col: "c"}

	row, col, labels := f.Place([]interface{}{"r1", "c2"}, levels)
	if row != 1 || col != 2 {
		t.Errorf("key (r1,c2) should be at (1,2); got (%d,%d)", row, col)
	}
	if !reflect.DeepEqual(labels, []string{"r1", "c2"}) {
		t.Errorf("labels should be [r1 c2]; got %v", labels)
	}

	if cols := f.Cols(); !reflect.DeepEqual(cols, []string{"r", "c"}) {
		t.Errorf("Cols should be [r c]; got %v", cols)
	}
}

func TestTrainFacets(t *testing.T) {
	tab := new(table.Builder).
		Add("x", []float64{1, 2, 3}).
		Add("k", []string{"b", "a", "b"}).
		Done()

	panels, byKey, err := trainFacets(FacetWrap{Col: "k"}, []table.Grouping{tab})
	if err != nil {
		t.Fatal(err)
	}
	if len(panels) != 2 {
		t.Fatalf("want 2 panels; got %d", len(panels))
	}
	// Levels sort, so "a" is panel 1.
	if panels[0].ID != 1 || panels[0].Labels[0] != "a" {
		t.Errorf("first panel should be ID 1 labeled a; got %+v", panels[0])
	}
	if p := byKey[makePanelKey([]interface{}{"b"})]; p == nil || p.ID != 2 {
		t.Errorf("key b should map to panel 2; got %+v", p)
	}
}

func TestTrainFacetsUnknownColumn(t *testing.T) {
	tab := new(table.Builder).Add("x", []float64{1}).Done()
	_, _, err := trainFacets(FacetWrap{Col: "nope"}, []table.Grouping{tab})
	fe, ok := err.(*UnknownFacetKeyError)
	if !ok || fe.Col != "nope" {
		t.Fatalf("want UnknownFacetKeyError for nope; got %v", err)
	}
}
