// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"fmt"
	"image/color"
	"math"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/scale"
)

// A Scaler maps values from a data domain to a standardized visual
// range. One Scaler exists per aesthetic across all of a plot's
// layers; it observes data from every layer before any layer applies
// it.
//
// A Scaler is either continuous (cardinal domain mapped through an
// interval, possibly via a transform such as log) or discrete (domain
// levels mapped to the centers of equal subdivisions of [0, 1]), or an
// identity scale for values that are already visual.
type Scaler interface {
	// ExpandDomain expands the scale's domain to include the
	// values in v.
	ExpandDomain(v table.Slice)

	// Transform applies the scale's declared transform to col,
	// returning a new column. For scales with an identity
	// transform this returns col unchanged.
	Transform(col table.Slice) table.Slice

	// HandleOOB resolves values outside the scale's declared
	// limits according to its out-of-bounds policy, returning a
	// new column. Values are compared in transformed space.
	HandleOOB(col table.Slice) table.Slice

	// Map maps a single value in the (transformed) domain to the
	// visual range. If no Ranger is set, the result is the
	// intermediate [0, 1] position as a float64.
	Map(x interface{}) interface{}

	// Unmap inverts Map for the intermediate position y in [0, 1],
	// returning the original (untransformed) domain value. It
	// reports false if the scale cannot invert.
	Unmap(y float64) (interface{}, bool)

	// Ranger sets this Scaler's output range if r is non-nil and
	// returns the previous range.
	Ranger(r Ranger) Ranger

	// RangeType returns the element type Map returns.
	RangeType() reflect.Type

	// Ticks returns up to max guide keys for this scale: the
	// intermediate [0, 1] position, the domain value, and the
	// display label of each.
	Ticks(max int) (pos []float64, values table.Slice, labels []string)

	// Discrete reports whether this scale has a discrete domain.
	Discrete() bool

	// CloneScaler returns a copy of this Scaler with the same
	// configuration and domain.
	CloneScaler() Scaler
}

// A ContinuousScaler is a Scaler with a cardinal domain.
type ContinuousScaler interface {
	Scaler

	// SetLimits fixes the scale's domain to [min, max] in data
	// space, regardless of the trained data range. A NaN bound
	// leaves that side of the domain to the data.
	SetLimits(min, max float64) ContinuousScaler

	// SetTrans sets the scale's transform.
	SetTrans(t Trans) ContinuousScaler

	// SetOOB sets the scale's out-of-bounds policy.
	SetOOB(p OOB) ContinuousScaler

	// Include expands the scale's domain to include v.
	Include(v float64) ContinuousScaler

	// SetFormatter sets the label formatter for values on this
	// scale. f receives values in data space.
	SetFormatter(f func(float64) string) ContinuousScaler
}

// A Trans is an order-preserving transformation of a continuous
// domain, with its inverse.
type Trans struct {
	Name     string
	Fwd, Inv func(x float64) float64
}

var (
	TransIdentity = Trans{"identity", func(x float64) float64 { return x }, func(x float64) float64 { return x }}
	TransLog10    = Trans{"log10", math.Log10, func(x float64) float64 { return math.Pow(10, x) }}
	TransSqrt     = Trans{"sqrt", math.Sqrt, func(x float64) float64 { return x * x }}
)

// OOB is a policy for values outside a scale's declared limits.
type OOB int

const (
	// OOBKeep leaves out-of-bounds values alone.
	OOBKeep OOB = iota

	// OOBCensor replaces out-of-bounds values with NaN. Censored
	// rows never reach a layer's statistic.
	OOBCensor

	// OOBSquish moves out-of-bounds values to the nearest limit.
	OOBSquish
)

var float64Type = reflect.TypeOf(float64(0))
var colorType = reflect.TypeOf((*color.Color)(nil)).Elem()

var canCardinal = map[reflect.Kind]bool{
	reflect.Float32: true,
	reflect.Float64: true,
	reflect.Int:     true,
	reflect.Int8:    true,
	reflect.Int16:   true,
	reflect.Int32:   true,
	reflect.Int64:   true,
	reflect.Uint:    true,
	reflect.Uintptr: true,
	reflect.Uint8:   true,
	reflect.Uint16:  true,
	reflect.Uint32:  true,
	reflect.Uint64:  true,
}

func isCardinal(k reflect.Kind) bool {
	return canCardinal[k]
}

// DefaultScale returns a default Scaler for aesthetic aes trained on
// values like seq.
func DefaultScale(aes string, seq table.Slice) (Scaler, error) {
	rt := reflect.TypeOf(seq).Elem()
	switch {
	case rt.Implements(colorType):
		// Already a visual value.
		return NewIdentityScale(), nil

	case isCardinal(rt.Kind()):
		return NewLinearScaler(), nil

	case slice.CanSort(seq):
		return NewOrdinalScale(), nil
	}
	return nil, fmt.Errorf("no default scale for %T", seq)
}

// defaultRanger returns the default Ranger for the given aesthetic.
func defaultRanger(aes string) Ranger {
	switch aes {
	case AesX, AesY, AesYMin, AesYMax:
		// Positional scales map to unit panel coordinates; the
		// backend maps those to pixels.
		return NewFloatRanger(0, 1)

	case AesStroke, AesFill:
		return &defaultColorRanger{}

	case AesOpacity:
		return NewFloatRanger(0.1, 1)

	case AesSize:
		// Between 1% and 10% of the minimum panel dimension.
		return NewFloatRanger(0.01, 0.1)
	}
	panic(fmt.Sprintf("unknown aesthetic %q", aes))
}

// NewLinearScaler returns a continuous scale with an identity
// transform, no limits, and an OOBKeep policy.
func NewLinearScaler() ContinuousScaler {
	return &linearScale{
		trans:   TransIdentity,
		limMin:  math.NaN(),
		limMax:  math.NaN(),
		dataMin: math.NaN(),
		dataMax: math.NaN(),
	}
}

type linearScale struct {
	trans Trans
	oob   OOB
	r     Ranger
	f     func(float64) string

	domainType       reflect.Type
	limMin, limMax   float64
	dataMin, dataMax float64
}

func (s *linearScale) String() string {
	ls := s.get()
	return fmt.Sprintf("linear (%s) [%g,%g] => %s", s.trans.Name, ls.Min, ls.Max, s.r)
}

func (s *linearScale) ExpandDomain(v table.Slice) {
	if s.domainType == nil {
		s.domainType = reflect.TypeOf(v).Elem()
	}
	var data []float64
	slice.Convert(&data, v)
	min, max := s.dataMin, s.dataMax
	for _, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if x < min || math.IsNaN(min) {
			min = x
		}
		if x > max || math.IsNaN(max) {
			max = x
		}
	}
	s.dataMin, s.dataMax = min, max
}

func (s *linearScale) Include(v float64) ContinuousScaler {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if math.IsNaN(s.dataMin) {
		s.dataMin, s.dataMax = v, v
	} else {
		s.dataMin = math.Min(s.dataMin, v)
		s.dataMax = math.Max(s.dataMax, v)
	}
	return s
}

func (s *linearScale) SetLimits(min, max float64) ContinuousScaler {
	s.limMin, s.limMax = min, max
	return s
}

func (s *linearScale) SetTrans(t Trans) ContinuousScaler {
	s.trans = t
	return s
}

func (s *linearScale) SetOOB(p OOB) ContinuousScaler {
	s.oob = p
	return s
}

func (s *linearScale) SetFormatter(f func(float64) string) ContinuousScaler {
	s.f = f
	return s
}

// get returns the effective domain in transformed space. Declared
// limits take precedence over the trained data range.
func (s *linearScale) get() scale.Linear {
	lo, hi := s.dataMin, s.dataMax
	if !math.IsNaN(s.limMin) {
		lo = s.limMin
	}
	if !math.IsNaN(s.limMax) {
		hi = s.limMax
	}
	lo, hi = s.trans.Fwd(lo), s.trans.Fwd(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.IsNaN(lo) {
		lo, hi = -1, 1
	}
	if lo == hi {
		// Degenerate domain; widen so Map is defined.
		lo, hi = lo-1, hi+1
	}
	return scale.Linear{Min: lo, Max: hi}
}

func (s *linearScale) Transform(col table.Slice) table.Slice {
	if s.trans.Name == TransIdentity.Name {
		return col
	}
	var xs []float64
	slice.Convert(&xs, col)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = s.trans.Fwd(x)
	}
	return out
}

func (s *linearScale) HandleOOB(col table.Slice) table.Slice {
	if s.oob == OOBKeep || (math.IsNaN(s.limMin) && math.IsNaN(s.limMax)) {
		return col
	}
	lo, hi := math.Inf(-1), math.Inf(1)
	if !math.IsNaN(s.limMin) {
		lo = s.trans.Fwd(s.limMin)
	}
	if !math.IsNaN(s.limMax) {
		hi = s.trans.Fwd(s.limMax)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	var xs []float64
	slice.Convert(&xs, col)
	out := make([]float64, len(xs))
	for i, x := range xs {
		switch {
		case x >= lo && x <= hi:
			out[i] = x
		case s.oob == OOBCensor:
			out[i] = math.NaN()
		case x < lo:
			out[i] = lo
		default:
			out[i] = hi
		}
	}
	return out
}

func (s *linearScale) Ranger(r Ranger) Ranger {
	old := s.r
	if r != nil {
		s.r = r
	}
	return old
}

func (s *linearScale) RangeType() reflect.Type {
	if s.r == nil {
		return float64Type
	}
	return s.r.RangeType()
}

func (s *linearScale) Map(x interface{}) interface{} {
	ls := s.get()
	var scaled float64
	switch x := x.(type) {
	case float64:
		scaled = ls.Map(x)
	default:
		v := reflect.ValueOf(x).Convert(float64Type).Float()
		scaled = ls.Map(v)
	}

	switch r := s.r.(type) {
	case nil:
		return scaled

	case ContinuousRanger:
		return r.Map(scaled)

	case DiscreteRanger:
		_, levels := r.Levels()
		level := int(scaled * float64(levels))
		if level < 0 {
			level = 0
		} else if level >= levels {
			level = levels - 1
		}
		return r.MapLevel(level, levels)

	default:
		panic("Ranger must be a ContinuousRanger or DiscreteRanger")
	}
}

func (s *linearScale) Unmap(y float64) (interface{}, bool) {
	ls := s.get()
	return s.trans.Inv(ls.Min + y*(ls.Max-ls.Min)), true
}

func (s *linearScale) Ticks(max int) (pos []float64, values table.Slice, labels []string) {
	ls := s.get()
	o := scale.TickOptions{Max: max}
	major, _ := ls.Ticks(o)

	pos = make([]float64, len(major))
	vals := make([]float64, len(major))
	labels = make([]string, len(major))
	for i, m := range major {
		pos[i] = ls.Map(m)
		vals[i] = s.trans.Inv(m)
		if s.f != nil {
			labels[i] = s.f(vals[i])
		} else {
			labels[i] = fmt.Sprintf("%.6g", vals[i])
		}
	}
	return pos, vals, labels
}

func (s *linearScale) Discrete() bool { return false }

func (s *linearScale) CloneScaler() Scaler {
	s2 := *s
	return &s2
}

// NewOrdinalScale returns a discrete scale. Levels are ordered by
// value if the domain type is orderable, and by order of first
// observation otherwise.
func NewOrdinalScale() Scaler {
	return &ordinalScale{}
}

type ordinalScale struct {
	allData []slice.T
	r       Ranger
	ordered table.Slice
	index   map[interface{}]int
}

func (s *ordinalScale) ExpandDomain(v table.Slice) {
	s.allData = append(s.allData, slice.T(v))
	s.ordered, s.index = nil, nil
}

func (s *ordinalScale) Transform(col table.Slice) table.Slice { return col }

func (s *ordinalScale) HandleOOB(col table.Slice) table.Slice { return col }

func (s *ordinalScale) makeIndex() {
	if s.index != nil {
		return
	}
	s.ordered = slice.NubAppend(s.allData...)
	if slice.CanSort(s.ordered) {
		slice.Sort(s.ordered)
	}
	ov := reflect.ValueOf(s.ordered)
	s.index = make(map[interface{}]int, ov.Len())
	for i, n := 0, ov.Len(); i < n; i++ {
		s.index[ov.Index(i).Interface()] = i
	}
}

// levels returns the number of levels in s's domain.
func (s *ordinalScale) levels() int {
	s.makeIndex()
	return len(s.index)
}

func (s *ordinalScale) Ranger(r Ranger) Ranger {
	old := s.r
	if r != nil {
		s.r = r
	}
	return old
}

func (s *ordinalScale) RangeType() reflect.Type {
	if s.r == nil {
		return float64Type
	}
	return s.r.RangeType()
}

func (s *ordinalScale) Map(x interface{}) interface{} {
	s.makeIndex()
	i := s.index[x]
	j := len(s.index)

	switch r := s.r.(type) {
	case nil:
		return (float64(i) + 0.5) / float64(j)

	case DiscreteRanger:
		minLevels, maxLevels := r.Levels()
		if j <= minLevels {
			return r.MapLevel(i, minLevels)
		} else if j <= maxLevels {
			return r.MapLevel(i, j)
		}
		return r.MapLevel(i%maxLevels, maxLevels)

	case ContinuousRanger:
		return r.Map((float64(i) + 0.5) / float64(j))

	default:
		panic("Ranger must be a ContinuousRanger or DiscreteRanger")
	}
}

func (s *ordinalScale) Unmap(y float64) (interface{}, bool) {
	s.makeIndex()
	n := len(s.index)
	if n == 0 {
		return nil, false
	}
	i := int(y * float64(n))
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	return reflect.ValueOf(s.ordered).Index(i).Interface(), true
}

func (s *ordinalScale) Ticks(max int) (pos []float64, values table.Slice, labels []string) {
	s.makeIndex()
	ov := reflect.ValueOf(s.ordered)
	n := ov.Len()
	pos = make([]float64, n)
	labels = make([]string, n)
	for i := 0; i < n; i++ {
		pos[i] = (float64(i) + 0.5) / float64(n)
		labels[i] = fmt.Sprintf("%v", ov.Index(i).Interface())
	}
	return pos, s.ordered, labels
}

func (s *ordinalScale) Discrete() bool { return true }

func (s *ordinalScale) CloneScaler() Scaler {
	ns := &ordinalScale{
		allData: make([]slice.T, len(s.allData)),
		r:       s.r,
	}
	copy(ns.allData, s.allData)
	return ns
}

// NewIdentityScale returns a scale that maps values to themselves.
// It is used for columns that already hold visual values, such as
// color.Color.
func NewIdentityScale() Scaler {
	return &identityScale{}
}

type identityScale struct {
	rangeType reflect.Type
}

func (s *identityScale) ExpandDomain(v table.Slice) {
	s.rangeType = reflect.TypeOf(v).Elem()
}

func (s *identityScale) Transform(col table.Slice) table.Slice { return col }
func (s *identityScale) HandleOOB(col table.Slice) table.Slice { return col }
func (s *identityScale) Map(x interface{}) interface{}         { return x }
func (s *identityScale) Unmap(y float64) (interface{}, bool)   { return nil, false }
func (s *identityScale) Ranger(r Ranger) Ranger                { return nil }
func (s *identityScale) RangeType() reflect.Type               { return s.rangeType }
func (s *identityScale) Discrete() bool                        { return false }

func (s *identityScale) Ticks(max int) (pos []float64, values table.Slice, labels []string) {
	return nil, nil, nil
}

func (s *identityScale) CloneScaler() Scaler {
	s2 := *s
	return &s2
}

// A Ranger is a Scaler's output range. It must be either a
// ContinuousRanger or a DiscreteRanger.
type Ranger interface {
	RangeType() reflect.Type
}

type ContinuousRanger interface {
	Ranger
	Map(x float64) (y interface{})
	Unmap(y interface{}) (x float64, ok bool)
}

type DiscreteRanger interface {
	Ranger
	Levels() (min, max int)
	MapLevel(i, j int) interface{}
}

func NewFloatRanger(lo, hi float64) ContinuousRanger {
	return &floatRanger{lo, hi - lo}
}

type floatRanger struct {
	lo, w float64
}

func (r *floatRanger) String() string {
	return fmt.Sprintf("[%g,%g]", r.lo, r.lo+r.w)
}

func (r *floatRanger) RangeType() reflect.Type { return float64Type }

func (r *floatRanger) Map(x float64) interface{} { return x*r.w + r.lo }

func (r *floatRanger) Unmap(y interface{}) (float64, bool) {
	switch y := y.(type) {
	case float64:
		return (y - r.lo) / r.w, true
	}
	return 0, false
}

func NewColorRanger(pal []color.Color) DiscreteRanger {
	return &colorRanger{pal}
}

type colorRanger struct {
	palette []color.Color
}

func (r *colorRanger) RangeType() reflect.Type { return colorType }

func (r *colorRanger) Levels() (min, max int) {
	return len(r.palette), len(r.palette)
}

func (r *colorRanger) MapLevel(i, j int) interface{} {
	if i < 0 {
		i = 0
	} else if i >= len(r.palette) {
		i = len(r.palette) - 1
	}
	return r.palette[i]
}

// defaultColorRanger is the default color ranger. It is both a
// ContinuousRanger and a DiscreteRanger: continuous domains get the
// Viridis gradient and discrete domains get a categorical palette.
type defaultColorRanger struct{}

var autoPalette = []color.Color{
	color.RGBA{0x4c, 0x72, 0xb0, 0xff},
	color.RGBA{0x55, 0xa8, 0x68, 0xff},
	color.RGBA{0xc4, 0x4e, 0x52, 0xff},
	color.RGBA{0x81, 0x72, 0xb2, 0xff},
	color.RGBA{0xcc, 0xb9, 0x74, 0xff},
	color.RGBA{0x64, 0xb5, 0xcd, 0xff},
}

func (r *defaultColorRanger) RangeType() reflect.Type { return colorType }

func (r *defaultColorRanger) Map(x float64) interface{} {
	return palette.Viridis.Map(x)
}

func (r *defaultColorRanger) Unmap(y interface{}) (float64, bool) {
	return 0, false
}

func (r *defaultColorRanger) Levels() (min, max int) {
	return len(autoPalette), len(autoPalette)
}

func (r *defaultColorRanger) MapLevel(i, j int) interface{} {
	if i < 0 {
		i = 0
	} else if i >= len(autoPalette) {
		i = len(autoPalette) - 1
	}
	return autoPalette[i]
}

// mapMany applies scaler.Map to all of the values in seq and returns a
// slice of the results.
func mapMany(scaler Scaler, seq table.Slice) table.Slice {
	sv := reflect.ValueOf(seq)
	rt := reflect.SliceOf(scaler.RangeType())
	res := reflect.MakeSlice(rt, sv.Len(), sv.Len())
	for i, n := 0, sv.Len(); i < n; i++ {
		val := scaler.Map(sv.Index(i).Interface())
		res.Index(i).Set(reflect.ValueOf(val))
	}
	return res.Interface()
}
