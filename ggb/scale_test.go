// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"image/color"
	"math"
	"reflect"
	"testing"
)

func TestLinearScaleMap(t *testing.T) {
	s := NewLinearScaler()
	s.ExpandDomain([]float64{0, 10})

	if v := s.Map(5.0).(float64); v != 0.5 {
		t.Errorf("Map(5) should be 0.5; got %v", v)
	}
	if v := s.Map(0.0).(float64); v != 0 {
		t.Errorf("Map(0) should be 0; got %v", v)
	}

	s.Ranger(NewFloatRanger(100, 200))
	if v := s.Map(5.0).(float64); v != 150 {
		t.Errorf("Map(5) with ranger should be 150; got %v", v)
	}
}

func TestLinearScaleUnmap(t *testing.T) {
	s := NewLinearScaler()
	s.ExpandDomain([]float64{0, 10})
	for _, y := range []float64{0, 0.25, 0.5, 1} {
		v, ok := s.Unmap(y)
		if !ok {
			t.Fatalf("Unmap(%v) failed", y)
		}
		if v.(float64) != y*10 {
			t.Errorf("Unmap(%v) should be %v; got %v", y, y*10, v)
		}
	}
}

func TestLinearScaleTrans(t *testing.T) {
	s := NewLinearScaler().SetTrans(TransLog10)
	s.ExpandDomain([]float64{1, 1000})

	col := s.Transform([]float64{1, 10, 100, 1000}).([]float64)
	want := []float64{0, 1, 2, 3}
	if !reflect.DeepEqual(col, want) {
		t.Errorf("Transform should be %v; got %v", want, col)
	}

	// The domain is transformed too, so transformed values map
	// linearly.
	if v := s.Map(1.5).(float64); v != 0.5 {
		t.Errorf("Map(1.5) should be 0.5; got %v", v)
	}

	// Unmap inverts the transform back to data space.
	v, _ := s.Unmap(1)
	if got := v.(float64); math.Abs(got-1000) > 1e-9 {
		t.Errorf("Unmap(1) should be 1000; got %v", got)
	}
}

func TestLinearScaleOOB(t *testing.T) {
	col := []float64{-5, 0, 5, 10, 15}

	s := NewLinearScaler().SetLimits(0, 10)
	if got := s.HandleOOB(col); !reflect.DeepEqual(got, col) {
		t.Errorf("OOBKeep should not change %v; got %v", col, got)
	}

	s.SetOOB(OOBSquish)
	want := []float64{0, 0, 5, 10, 10}
	if got := s.HandleOOB(col).([]float64); !reflect.DeepEqual(got, want) {
		t.Errorf("OOBSquish should give %v; got %v", want, got)
	}

	s.SetOOB(OOBCensor)
	got := s.HandleOOB(col).([]float64)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[4]) {
		t.Errorf("OOBCensor should censor rows 0 and 4; got %v", got)
	}
	if got[1] != 0 || got[2] != 5 || got[3] != 10 {
		t.Errorf("OOBCensor should keep in-bounds rows; got %v", got)
	}
}

func TestLinearScaleTicks(t *testing.T) {
	s := NewLinearScaler()
	s.ExpandDomain([]float64{0, 100})

	pos, _, labels := s.Ticks(5)
	if len(pos) == 0 || len(pos) > 5 {
		t.Fatalf("want 1 to 5 ticks; got %d", len(pos))
	}
	if len(labels) != len(pos) {
		t.Fatalf("want %d labels; got %d", len(pos), len(labels))
	}
	// Tick positions must unmap to their values.
	_, values, _ := s.Ticks(5)
	vv := reflect.ValueOf(values)
	for i := range pos {
		got, ok := s.Unmap(pos[i])
		if !ok {
			t.Fatalf("Unmap(%v) failed", pos[i])
		}
		want := vv.Index(i).Float()
		if math.Abs(got.(float64)-want) > 1e-9 {
			t.Errorf("tick %d: Unmap(%v) should be %v; got %v", i, pos[i], want, got)
		}
	}
}

func TestOrdinalScale(t *testing.T) {
	s := NewOrdinalScale()
	s.ExpandDomain([]string{"b", "a"})
	s.ExpandDomain([]string{"c", "a"})

	if !s.Discrete() {
		t.Fatal("ordinal scale should be discrete")
	}

	// Sorted levels a, b, c map to interval centers.
	want := map[string]float64{"a": 1. / 6, "b": 3. / 6, "c": 5. / 6}
	for k, w := range want {
		if v := s.Map(k).(float64); math.Abs(v-w) > 1e-9 {
			t.Errorf("Map(%q) should be %v; got %v", k, w, v)
		}
	}

	for _, k := range []string{"a", "b", "c"} {
		v, ok := s.Unmap(s.Map(k).(float64))
		if !ok || v.(string) != k {
			t.Errorf("Unmap(Map(%q)) should round-trip; got %v", k, v)
		}
	}

	pos, _, labels := s.Ticks(10)
	if len(pos) != 3 {
		t.Fatalf("want 3 ticks; got %d", len(pos))
	}
	if !reflect.DeepEqual(labels, []string{"a", "b", "c"}) {
		t.Errorf("want labels [a b c]; got %v", labels)
	}
}

func TestOrdinalColorRanger(t *testing.T) {
	s := NewOrdinalScale()
	s.ExpandDomain([]string{"a", "b"})
	s.Ranger(NewColorRanger([]color.Color{color.Black, color.White}))

	if c := s.Map("a"); c != color.Color(color.Black) {
		t.Errorf("Map(a) should be black; got %v", c)
	}
	if c := s.Map("b"); c != color.Color(color.White) {
		t.Errorf("Map(b) should be white; got %v", c)
	}
}

func TestCloneScaler(t *testing.T) {
	s := NewLinearScaler()
	s.ExpandDomain([]float64{0, 10})

	c := s.CloneScaler()
	c.ExpandDomain([]float64{0, 1000})

	// The original's domain must be unaffected.
	if v := s.Map(5.0).(float64); v != 0.5 {
		t.Errorf("clone training leaked into original: Map(5) = %v", v)
	}
}

func TestDefaultScale(t *testing.T) {
	s, err := DefaultScale(AesX, []float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if s.Discrete() {
		t.Error("float column should get a continuous scale")
	}

	s, err = DefaultScale(AesStroke, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Discrete() {
		t.Error("string column should get a discrete scale")
	}

	s, err = DefaultScale(AesFill, []color.Color{color.Black})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*identityScale); !ok {
		t.Errorf("color column should get an identity scale; got %T", s)
	}
}
