package engine

import (
	"fmt"
	"math"
	"sort"

	"thermocycle"
)

// Axis layout fractions. Labels sit 2% in from their axis by default and
// jump to a 6% inset when a committed neighbor is within 3% of the span.
const (
	axisMargin     = 1.15
	labelInset     = 0.02
	labelBumpInset = 0.06
	collideFrac    = 0.03
)

// Bounds is the drawing region shared by the layout and the chart renderer,
// so annotation coordinates land where the renderer puts the axes.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) xSpan() float64 { return b.XMax - b.XMin }
func (b Bounds) ySpan() float64 { return b.YMax - b.YMin }

// PlotBounds derives the chart region from a profile: x from 0 to 1.15x the
// final time, y from min(0, 1.15x the coldest point) to 1.15x the hottest.
func PlotBounds(p thermocycle.Profile) Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	minC, maxC := p[0].TempC, p[0].TempC
	for _, pt := range p[1:] {
		minC = math.Min(minC, pt.TempC)
		maxC = math.Max(maxC, pt.TempC)
	}
	return Bounds{
		XMin: 0,
		XMax: axisMargin * p.DurationH(),
		YMin: math.Min(0, axisMargin*minC),
		YMax: axisMargin * maxC,
	}
}

// Layout decides where each key point's two labels go. Greedy single pass in
// chronological order: a label defaults to the tier-1 inset; if its axis
// position is within 3% of the span of an already committed tier-1 label it
// is bumped to tier 2 instead and not recorded, so later candidates collide
// only against tier-1 anchors. Both labels are always placed: collisions
// change the tier, never suppress a label. The anchor scan is linear per key
// point, O(n²) over key points in the worst case, which is fine at the tens
// of boundaries a cycling schedule produces.
//
// An empty profile yields nil: nothing to annotate is not an error.
func Layout(p thermocycle.Profile, keys thermocycle.KeyPointSet) []thermocycle.LabelPlacement {
	if len(p) == 0 {
		return nil
	}
	b := PlotBounds(p)
	xThresh := collideFrac * b.xSpan()
	yThresh := collideFrac * b.ySpan()

	var timeAnchors, tempAnchors []float64

	idx := uniqueSorted(keys)
	out := make([]thermocycle.LabelPlacement, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(p) {
			continue
		}
		pt := p[i]
		pl := thermocycle.LabelPlacement{
			TimeH:     pt.TimeH,
			TempC:     pt.TempC,
			TimeLabel: fmt.Sprintf("%.2fh", pt.TimeH),
			TempLabel: fmt.Sprintf("%.1f°C", pt.TempC),
			TimeTier:  1,
			TempTier:  1,
		}

		// Time label sits just above the x axis, keyed by its x position.
		if anyWithin(timeAnchors, pt.TimeH, xThresh) {
			pl.TimeTier = 2
			pl.TimeLabelY = b.YMin + labelBumpInset*b.ySpan()
		} else {
			pl.TimeLabelY = b.YMin + labelInset*b.ySpan()
			timeAnchors = append(timeAnchors, pt.TimeH)
		}

		// Temperature label sits just right of the y axis, keyed by its y.
		if anyWithin(tempAnchors, pt.TempC, yThresh) {
			pl.TempTier = 2
			pl.TempLabelX = b.XMin + labelBumpInset*b.xSpan()
		} else {
			pl.TempLabelX = b.XMin + labelInset*b.xSpan()
			tempAnchors = append(tempAnchors, pt.TempC)
		}

		out = append(out, pl)
	}
	return out
}

// uniqueSorted collapses duplicate key-point indices and orders them
// ascending, i.e. chronologically.
func uniqueSorted(keys thermocycle.KeyPointSet) []int {
	if len(keys) == 0 {
		return nil
	}
	idx := make([]int, len(keys))
	copy(idx, keys)
	sort.Ints(idx)
	uniq := idx[:1]
	for _, v := range idx[1:] {
		if v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	return uniq
}

func anyWithin(anchors []float64, v, threshold float64) bool {
	for _, a := range anchors {
		if math.Abs(v-a) < threshold {
			return true
		}
	}
	return false
}
