// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggb

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Build stage names, in pipeline order. These appear in BuildError
// and in the stage trace.
const (
	StageResolveData     = "resolveData"
	StageMapAes          = "mapAes"
	StageAssignPanels    = "assignPanels"
	StageAssignGroups    = "assignGroups"
	StageTrainScales     = "trainScales"
	StageTransformScales = "transformScales"
	StageHandleOOB       = "handleOOB"
	StageComputeStats    = "computeStats"
	StageAdjustPositions = "adjustPositions"
	StageFinalizeGeoms   = "finalizeGeoms"
)

// Stages lists the build stages in the order they run.
var Stages = []string{
	StageResolveData, StageMapAes, StageAssignPanels, StageAssignGroups,
	StageTrainScales, StageTransformScales, StageHandleOOB,
	StageComputeStats, StageAdjustPositions, StageFinalizeGeoms,
}

// LayerData is one layer's drawing-ready table. Its columns are the
// layer's aesthetics plus the PANEL and group bookkeeping columns and
// any columns its geom derived.
type LayerData struct {
	Layer *Layer
	Data  *table.Table
}

// A Layout is the trained non-data structure of a plot: its panels,
// scales, coordinate system, and labels.
type Layout struct {
	Panels []*Panel
	Scales map[string]Scaler
	Coord  Coord
	Facet  Facet
	Theme  *Theme
	Labs   Labs

	// AesLabels maps each aesthetic to the display name of the
	// first expression mapped to it. Guides title themselves with
	// these.
	AesLabels map[string]string

	byKey map[panelKey]*Panel
}

// Dims returns the number of rows and columns in the panel grid.
func (l *Layout) Dims() (rows, cols int) {
	for _, p := range l.Panels {
		if p.Row+1 > rows {
			rows = p.Row + 1
		}
		if p.Col+1 > cols {
			cols = p.Col + 1
		}
	}
	return
}

// PanelAt returns the panel at grid cell (row, col), or nil.
func (l *Layout) PanelAt(row, col int) *Panel {
	for _, p := range l.Panels {
		if p.Row == row && p.Col == col {
			return p
		}
	}
	return nil
}

// A BuildResult holds the output of the build pipeline: one
// drawing-ready table per layer, in the order the layers were
// specified, plus the trained Layout and any recoverable warnings.
type BuildResult struct {
	Layers   []*LayerData
	Layout   *Layout
	Warnings []BuildWarning
}

// A TraceFunc observes the build pipeline. It is called after each
// stage with the stage's name and the pipeline state. Tables are
// immutable, so a TraceFunc may retain them.
type TraceFunc func(stage string, layers []*LayerData, layout *Layout)

// Build compiles spec into drawing-ready layer tables and a trained
// Layout. It does not modify spec, so building the same spec twice
// yields the same result.
func Build(spec *PlotSpec) (*BuildResult, error) {
	return BuildTraced(spec, nil)
}

// BuildTraced is Build with a stage trace hook. trace may be nil.
func BuildTraced(spec *PlotSpec, trace TraceFunc) (*BuildResult, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}

	b := &builder{
		spec:  spec,
		trace: trace,
		layout: &Layout{
			Scales: make(map[string]Scaler),
			Coord:  spec.coord(),
			Facet:  spec.facet(),
			Theme:  spec.theme(),
			Labs:   spec.Labs,

			AesLabels: make(map[string]string),
		},
	}
	// Scales in the spec are configuration; clone them so training
	// never leaks back into the spec.
	for aes, s := range spec.Scales {
		b.layout.Scales[scaleAes(aes)] = s.CloneScaler()
	}

	type stageFunc struct {
		name string
		f    func() error
	}
	stages := []stageFunc{
		{StageResolveData, b.resolveData},
		{StageMapAes, b.mapAes},
		{StageAssignPanels, b.assignPanels},
		{StageAssignGroups, b.assignGroups},
		{StageTrainScales, b.trainScales},
		{StageTransformScales, b.transformScales},
		{StageHandleOOB, b.handleOOB},
		{StageComputeStats, b.computeStats},
		{StageAdjustPositions, b.adjustPositions},
		{StageFinalizeGeoms, b.finalizeGeoms},
	}
	for _, st := range stages {
		if err := st.f(); err != nil {
			return nil, err
		}
		if b.trace != nil {
			b.trace(st.name, b.snapshot(), b.layout)
		}
	}

	// Give untouched scales their default visual ranges so guides
	// and geoms can map through them.
	for aes, s := range b.layout.Scales {
		if s.Ranger(nil) == nil {
			s.Ranger(defaultRanger(aes))
		}
	}

	return &BuildResult{
		Layers:   b.snapshot(),
		Layout:   b.layout,
		Warnings: b.warnings,
	}, nil
}

type builder struct {
	spec     *PlotSpec
	trace    TraceFunc
	layout   *Layout
	tables   []*table.Table
	warnings []BuildWarning
}

func (b *builder) snapshot() []*LayerData {
	out := make([]*LayerData, len(b.tables))
	for i, t := range b.tables {
		out[i] = &LayerData{b.spec.Layers[i], t}
	}
	return out
}

func (b *builder) errf(layer int, stage string, err error) error {
	return &BuildError{Layer: layer, Stage: stage, Err: err}
}

func (b *builder) warnf(layer int, stage, format string, args ...interface{}) {
	w := BuildWarning{Layer: layer, Stage: stage, Msg: fmt.Sprintf(format, args...)}
	b.warnings = append(b.warnings, w)
	Warning.Print(w)
}

// scaleAes maps an aesthetic to the scale that owns it. The ymin and
// ymax aesthetics share the y scale, and the derived xmin and xmax
// columns share the x scale.
func scaleAes(aes string) string {
	switch aes {
	case AesYMin, AesYMax:
		return AesY
	case colXMin, colXMax:
		return AesX
	}
	return aes
}

// aesCols returns t's aesthetic columns in deterministic order,
// skipping bookkeeping and derived columns.
func aesCols(t *table.Table) []string {
	var cols []string
	for _, c := range t.Columns() {
		switch c {
		case ColPanel, ColGroup, colXMin, colXMax, "width":
			continue
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// discreteCol reports whether column col of t holds discrete values.
func discreteCol(t *table.Table, col string) bool {
	rt := reflect.TypeOf(t.Column(col)).Elem()
	return !isCardinal(rt.Kind()) && !rt.Implements(colorType)
}

// resolveData picks each layer's source data: the layer's own Data
// if set, the plot's otherwise, run through the layer's DataFn.
func (b *builder) resolveData() error {
	b.tables = make([]*table.Table, len(b.spec.Layers))
	for i, l := range b.spec.Layers {
		d := b.spec.Data
		if l.Data != nil {
			d = l.Data
		}
		if l.DataFn != nil {
			d = l.DataFn(d)
		}
		if d == nil {
			return b.errf(i, StageResolveData, &SpecificationError{"layer has no data"})
		}
		b.tables[i] = table.Flatten(d)
	}
	return nil
}

// mapAes evaluates each layer's merged aesthetic mapping, producing
// tables whose columns are aesthetics. Facet key columns are carried
// through unchanged.
func (b *builder) mapAes() error {
	facetCols := b.layout.Facet.Cols()
	for i, l := range b.spec.Layers {
		src := b.tables[i]
		merged := l.Aes.merge(b.spec.Aes)
		nt := new(table.Builder)

		aes := make([]string, 0, len(merged))
		for a := range merged {
			aes = append(aes, a)
		}
		sort.Strings(aes)

		for _, a := range aes {
			expr := merged[a]
			if _, ok := b.layout.AesLabels[a]; !ok {
				b.layout.AesLabels[a] = expr.Name()
			}
			col, err := expr.Eval(src)
			if err != nil {
				return b.errf(i, StageMapAes, err)
			}
			if col == nil {
				// Constant mapping.
				nt.AddConst(a, expr.(constExpr).val)
				continue
			}
			nt.Add(a, col)
		}
		for _, fc := range facetCols {
			c := src.Column(fc)
			if c == nil {
				return b.errf(i, StageMapAes, &UnknownFacetKeyError{fc})
			}
			nt.Add(fc, c)
		}
		b.tables[i] = nt.Done()
	}
	return nil
}

// assignPanels trains the facet over all layers and attaches the
// PANEL column to every layer.
func (b *builder) assignPanels() error {
	groupings := make([]table.Grouping, len(b.tables))
	for i, t := range b.tables {
		groupings[i] = t
	}
	panels, byKey, err := trainFacets(b.layout.Facet, groupings)
	if err != nil {
		return b.errf(-1, StageAssignPanels, err)
	}
	b.layout.Panels = panels
	b.layout.byKey = byKey

	cols := b.layout.Facet.Cols()
	for i, t := range b.tables {
		ids := make([]int, t.Len())
		if len(cols) == 0 {
			for r := range ids {
				ids[r] = 1
			}
		} else {
			colVals := make([]reflect.Value, len(cols))
			for j, c := range cols {
				colVals[j] = reflect.ValueOf(t.Column(c))
			}
			key := make([]interface{}, len(cols))
			for r := 0; r < t.Len(); r++ {
				for j := range cols {
					key[j] = colVals[j].Index(r).Interface()
				}
				ids[r] = byKey[makePanelKey(key)].ID
			}
		}
		b.tables[i] = table.NewBuilder(t).Add(ColPanel, ids).Done()
	}
	return nil
}

// assignGroups attaches the group column to every layer. Rows that
// agree on all of a layer's discrete aesthetics share a group; group
// ids count up from 0 in order of first appearance.
func (b *builder) assignGroups() error {
	for i, t := range b.tables {
		var discrete []string
		for _, c := range aesCols(t) {
			if isFacetCol(c, b.layout.Facet) {
				continue
			}
			if discreteCol(t, c) {
				discrete = append(discrete, c)
			}
		}

		ids := make([]int, t.Len())
		if len(discrete) > 0 {
			colVals := make([]reflect.Value, len(discrete))
			for j, c := range discrete {
				colVals[j] = reflect.ValueOf(t.Column(c))
			}
			seen := make(map[string]int)
			for r := 0; r < t.Len(); r++ {
				key := ""
				for j := range discrete {
					key += fmt.Sprintf("%v\x00", colVals[j].Index(r).Interface())
				}
				id, ok := seen[key]
				if !ok {
					id = len(seen)
					seen[key] = id
				}
				ids[r] = id
			}
		}
		b.tables[i] = table.NewBuilder(t).Add(ColGroup, ids).Done()
	}
	return nil
}

func isFacetCol(col string, f Facet) bool {
	for _, c := range f.Cols() {
		if c == col {
			return true
		}
	}
	return false
}

// trainScales creates missing scales and expands every scale's
// domain with every layer's data for its aesthetic. A scale sees all
// layers before any layer is transformed by it.
func (b *builder) trainScales() error {
	for i, t := range b.tables {
		for _, a := range aesCols(t) {
			if isFacetCol(a, b.layout.Facet) {
				continue
			}
			sa := scaleAes(a)
			col := t.Column(a)
			s := b.layout.Scales[sa]
			if s == nil {
				var err error
				s, err = DefaultScale(sa, col)
				if err != nil {
					return b.errf(i, StageTrainScales, err)
				}
				b.layout.Scales[sa] = s
			}
			if !s.Discrete() && discreteCol(t, a) {
				return b.errf(i, StageTrainScales, &ScaleConflictError{sa})
			}
			s.ExpandDomain(col)
		}
	}
	return nil
}

// transformScales replaces positional columns with their scale
// transforms, so statistics run in transformed space.
func (b *builder) transformScales() error {
	return b.mapPositional(func(s Scaler, col table.Slice) table.Slice {
		return s.Transform(col)
	})
}

// handleOOB applies each positional scale's out-of-bounds policy.
func (b *builder) handleOOB() error {
	return b.mapPositional(func(s Scaler, col table.Slice) table.Slice {
		return s.HandleOOB(col)
	})
}

func (b *builder) mapPositional(f func(Scaler, table.Slice) table.Slice) error {
	for i, t := range b.tables {
		nt := table.NewBuilder(t)
		changed := false
		for _, a := range aesCols(t) {
			if !positionalAes(a) {
				continue
			}
			s := b.layout.Scales[scaleAes(a)]
			if s == nil {
				continue
			}
			col := t.Column(a)
			if nc := f(s, col); !sameSlice(nc, col) {
				nt.Add(a, nc)
				changed = true
			}
		}
		if changed {
			b.tables[i] = nt.Done()
		}
	}
	return nil
}

func sameSlice(a, b table.Slice) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer() &&
		reflect.ValueOf(a).Len() == reflect.ValueOf(b).Len()
}

// computeStats runs each layer's statistic over its (PANEL, group)
// cells. Rows censored by handleOOB are dropped first. A cell whose
// statistic yields no rows produces a warning, not an error.
func (b *builder) computeStats() error {
	for i, l := range b.spec.Layers {
		t := dropCensored(b.tables[i])
		if l.Stat == nil {
			b.tables[i] = t
			continue
		}

		g := table.GroupBy(t, ColPanel, ColGroup)
		out := l.Stat.F(g)

		// Re-attach the bookkeeping columns if the statistic
		// dropped them, and warn about cells it emptied.
		ng := table.NewGroupingBuilder(nil)
		for _, gid := range g.Tables() {
			in := g.Table(gid)
			ot := findGroup(out, gid)
			if ot == nil || ot.Len() == 0 {
				if in.Len() > 0 {
					b.warnf(i, StageComputeStats,
						"statistic produced no rows for cell %v (%d input rows)",
						gid, in.Len())
				}
				continue
			}
			nt := table.NewBuilder(ot)
			for _, col := range []string{ColPanel, ColGroup} {
				if ot.Column(col) != nil {
					continue
				}
				if cv, ok := in.Const(col); ok {
					nt.AddConst(col, cv)
				} else {
					// Constant within a cell by construction.
					nt.AddConst(col, reflect.ValueOf(in.Column(col)).Index(0).Interface())
				}
			}
			ng.Add(gid, nt.Done())
		}

		flat := table.Flatten(ng.Done())
		b.retrain(flat)
		b.tables[i] = flat
	}
	return nil
}

func findGroup(g table.Grouping, gid table.GroupID) *table.Table {
	for _, og := range g.Tables() {
		if og == gid {
			return g.Table(gid)
		}
	}
	return nil
}

// dropCensored removes rows with NaN in any positional column.
func dropCensored(t *table.Table) *table.Table {
	if t.Len() == 0 {
		return t
	}
	var keep []int
	drop := false
	cols := [][]float64{}
	for _, a := range aesCols(t) {
		if !positionalAes(a) {
			continue
		}
		if reflect.TypeOf(t.Column(a)).Elem().Kind() != reflect.Float64 {
			continue
		}
		var xs []float64
		slice.Convert(&xs, t.Column(a))
		cols = append(cols, xs)
	}
	if len(cols) == 0 {
		return t
	}
rows:
	for r := 0; r < t.Len(); r++ {
		for _, c := range cols {
			if math.IsNaN(c[r]) {
				drop = true
				continue rows
			}
		}
		keep = append(keep, r)
	}
	if !drop {
		return t
	}
	nt := new(table.Builder)
	for _, c := range t.Columns() {
		nt.Add(c, slice.Select(t.Column(c), keep))
	}
	return nt.Done()
}

// retrain expands positional scale domains with statistic output.
// Statistics may introduce columns no raw data trained, such as a
// histogram's counts. Transformed scales are only retrained while
// untrained, since their columns are already in transformed space.
func (b *builder) retrain(t *table.Table) {
	cols := aesCols(t)
	for _, c := range []string{colXMin, colXMax} {
		if t.Column(c) != nil {
			cols = append(cols, c)
		}
	}
	for _, a := range cols {
		if !positionalAes(a) {
			continue
		}
		s := b.layout.Scales[scaleAes(a)]
		if s == nil {
			col := t.Column(a)
			var err error
			s, err = DefaultScale(scaleAes(a), col)
			if err != nil {
				continue
			}
			b.layout.Scales[scaleAes(a)] = s
			s.ExpandDomain(col)
			continue
		}
		if ls, ok := s.(*linearScale); ok {
			if ls.trans.Name != TransIdentity.Name && !math.IsNaN(ls.dataMin) {
				continue
			}
			s.ExpandDomain(t.Column(a))
		}
	}
}

// adjustPositions applies each layer's position adjustment to each
// panel independently.
func (b *builder) adjustPositions() error {
	for i, l := range b.spec.Layers {
		pos := l.Pos
		if pos == nil {
			pos = PosIdentity{}
		}
		if _, ok := pos.(PosIdentity); ok {
			continue
		}
		if b.tables[i].Len() == 0 {
			// The statistic emptied this layer. The warning
			// was recorded in computeStats.
			continue
		}
		nt, err := b.perPanel(b.tables[i], pos.Adjust)
		if err != nil {
			return b.errf(i, StageAdjustPositions, err)
		}
		b.retrain(nt)
		b.tables[i] = nt
	}
	return nil
}

// finalizeGeoms checks required aesthetics and lets each layer's
// geom derive its drawing columns, panel by panel.
func (b *builder) finalizeGeoms() error {
	for i, l := range b.spec.Layers {
		t := b.tables[i]
		if t.Len() == 0 {
			// Nothing to draw; assembly skips the layer.
			continue
		}
		for _, req := range l.Geom.RequiredAes() {
			if t.Column(req) == nil {
				return b.errf(i, StageFinalizeGeoms, &MissingAestheticError{req})
			}
		}
		nt, err := b.perPanel(t, l.Geom.Finalize)
		if err != nil {
			return b.errf(i, StageFinalizeGeoms, err)
		}
		b.retrain(nt)
		b.tables[i] = nt
	}
	return nil
}

// perPanel applies f to each panel's rows of t and reassembles the
// results into a single table, in panel order.
func (b *builder) perPanel(t *table.Table, f func(*table.Table) (*table.Table, error)) (*table.Table, error) {
	g := table.GroupBy(t, ColPanel)
	ng := table.NewGroupingBuilder(nil)
	for _, gid := range g.Tables() {
		nt, err := f(g.Table(gid))
		if err != nil {
			return nil, err
		}
		ng.Add(gid, nt)
	}
	return table.Flatten(ng.Done()), nil
}
