// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"reflect"
	"sort"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A GuideKey is one entry of an axis or legend: a position on the
// scale's [0, 1] range, the domain value there, its display label,
// and the visual value (such as a color) the scale maps it to.
// Unmapping Pos through the guide's scale recovers Value.
type GuideKey struct {
	Pos    float64
	Value  interface{}
	Label  string
	Visual interface{}
}

// An Axis is the guide for a positional scale.
type Axis struct {
	// Aes is the aesthetic the axis displays, after any
	// coordinate flip.
	Aes   string
	Title string
	Keys  []GuideKey
}

// A Legend is the guide for one or more non-positional scales.
// Scales whose guides agree on title and keys share a legend.
type Legend struct {
	// Aes lists the aesthetics this legend covers.
	Aes   []string
	Title string
	Keys  []GuideKey
}

// Guides derives the axes and legends of a trained layout. maxTicks
// bounds the number of keys per axis.
func (l *Layout) Guides(maxTicks int) (x, y *Axis, legends []*Legend) {
	sx, sy := l.Scales[AesX], l.Scales[AesY]
	tx, ty := l.aesTitle(AesX), l.aesTitle(AesY)
	if l.Coord.Flipped() {
		sx, sy = sy, sx
		tx, ty = ty, tx
	}
	if sx != nil {
		x = &Axis{Aes: AesX, Title: tx, Keys: scaleKeys(sx, maxTicks)}
	}
	if sy != nil {
		y = &Axis{Aes: AesY, Title: ty, Keys: scaleKeys(sy, maxTicks)}
	}

	if l.Theme.Legend == LegendNone {
		return x, y, nil
	}

	var aes []string
	for a := range l.Scales {
		if !positionalAes(a) {
			aes = append(aes, a)
		}
	}
	sort.Strings(aes)

	// Merge guides that agree on title and labels.
	byKey := make(map[string]*Legend)
	for _, a := range aes {
		s := l.Scales[a]
		keys := scaleKeys(s, maxTicks)
		if len(keys) == 0 {
			continue
		}
		title := l.aesTitle(a)
		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = k.Label
		}
		mk := title + "\x00" + strings.Join(labels, "\x00")
		if leg := byKey[mk]; leg != nil {
			leg.Aes = append(leg.Aes, a)
			continue
		}
		leg := &Legend{Aes: []string{a}, Title: title, Keys: keys}
		byKey[mk] = leg
		legends = append(legends, leg)
	}
	return x, y, legends
}

func (l *Layout) aesTitle(aes string) string {
	if t, ok := l.AesLabels[aes]; ok {
		return t
	}
	return aes
}

func scaleKeys(s Scaler, max int) []GuideKey {
	pos, values, labels := s.Ticks(max)
	if len(pos) == 0 {
		return nil
	}
	vv := sliceValues(values)
	keys := make([]GuideKey, len(pos))
	for i := range pos {
		keys[i] = GuideKey{
			Pos:    pos[i],
			Value:  vv[i],
			Label:  labels[i],
			Visual: keyVisual(s, pos[i], vv[i]),
		}
	}
	return keys
}

func sliceValues(s table.Slice) []interface{} {
	sv := reflect.ValueOf(s)
	out := make([]interface{}, sv.Len())
	for i := range out {
		out[i] = sv.Index(i).Interface()
	}
	return out
}

// keyVisual maps one guide key to its visual value.
func keyVisual(s Scaler, pos float64, value interface{}) interface{} {
	if s.Discrete() {
		return s.Map(value)
	}
	if r, ok := s.Ranger(nil).(ContinuousRanger); ok {
		return r.Map(pos)
	}
	return pos
}
