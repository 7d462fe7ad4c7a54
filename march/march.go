// Package march traces contours of a sampled density field with marching
// squares and turns them into chain shapes. The testbed uses it to build
// terrain from a height function.
package march

import (
	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
)

// SampleFunc returns the density at a point. Points denser than the
// threshold are solid.
type SampleFunc func(point physics.Vector) float64

// SegmentFunc receives each contour segment. Solid lies to the left of
// v0→v1, so closed contours wind counter-clockwise around solid regions.
type SegmentFunc func(v0, v1 physics.Vector)

type cellFunc func(t, a, b, c, d, x0, x1, y0, y1 float64, segment SegmentFunc)

// cells samples the grid once per point, keeping the previous row in a
// buffer, and hands each cell to march.
func cells(bb physics.BB, xSamples, ySamples int, t float64, segment SegmentFunc, sample SampleFunc, march cellFunc) {
	xDenom := 1.0 / float64(xSamples-1)
	yDenom := 1.0 / float64(ySamples-1)

	row := make([]float64, xSamples)
	for i := range row {
		row[i] = sample(physics.Vector{X: physics.Lerp(bb.L, bb.R, float64(i)*xDenom), Y: bb.B})
	}

	for j := 0; j < ySamples-1; j++ {
		y0 := physics.Lerp(bb.B, bb.T, float64(j)*yDenom)
		y1 := physics.Lerp(bb.B, bb.T, float64(j+1)*yDenom)

		b := row[0]
		d := sample(physics.Vector{X: bb.L, Y: y1})
		row[0] = d

		for i := 0; i < xSamples-1; i++ {
			x0 := physics.Lerp(bb.L, bb.R, float64(i)*xDenom)
			x1 := physics.Lerp(bb.L, bb.R, float64(i+1)*xDenom)

			a := b
			b = row[i+1]
			c := d
			d = sample(physics.Vector{X: x1, Y: y1})
			row[i+1] = d

			march(t, a, b, c, d, x0, x1, y0, y1, segment)
		}
	}
}

func emit(v0, v1 physics.Vector, segment SegmentFunc) {
	if !v0.Equal(v1) {
		segment(v1, v0)
	}
}

func midlerp(x0, x1, s0, s1, t float64) float64 {
	return physics.Lerp(x0, x1, (t-s0)/(s1-s0))
}

// corners packs which of the four corners exceed t. a is bottom left, b
// bottom right, c top left and d top right.
func corners(t, a, b, c, d float64) int {
	var mask int
	for i, s := range [4]float64{a, b, c, d} {
		if s > t {
			mask |= 1 << i
		}
	}
	return mask
}

func softCell(t, a, b, c, d, x0, x1, y0, y1 float64, segment SegmentFunc) {
	left := physics.Vector{X: x0, Y: midlerp(y0, y1, a, c, t)}
	right := physics.Vector{X: x1, Y: midlerp(y0, y1, b, d, t)}
	bottom := physics.Vector{X: midlerp(x0, x1, a, b, t), Y: y0}
	top := physics.Vector{X: midlerp(x0, x1, c, d, t), Y: y1}

	switch corners(t, a, b, c, d) {
	case 0x1:
		emit(left, bottom, segment)
	case 0x2:
		emit(bottom, right, segment)
	case 0x3:
		emit(left, right, segment)
	case 0x4:
		emit(top, left, segment)
	case 0x5:
		emit(top, bottom, segment)
	case 0x6:
		emit(bottom, right, segment)
		emit(top, left, segment)
	case 0x7:
		emit(top, right, segment)
	case 0x8:
		emit(right, top, segment)
	case 0x9:
		emit(left, bottom, segment)
		emit(right, top, segment)
	case 0xA:
		emit(bottom, top, segment)
	case 0xB:
		emit(left, top, segment)
	case 0xC:
		emit(right, left, segment)
	case 0xD:
		emit(right, bottom, segment)
	case 0xE:
		emit(bottom, left, segment)
	}
}

// Soft traces an interpolated contour along threshold t, taking xSamples by
// ySamples samples spread over bb.
func Soft(bb physics.BB, xSamples, ySamples int, t float64, segment SegmentFunc, sample SampleFunc) {
	cells(bb, xSamples, ySamples, t, segment, sample, softCell)
}

func emit2(a, b, c physics.Vector, segment SegmentFunc) {
	emit(b, c, segment)
	emit(a, b, segment)
}

func hardCell(t, a, b, c, d, x0, x1, y0, y1 float64, segment SegmentFunc) {
	xm := physics.Lerp(x0, x1, 0.5)
	ym := physics.Lerp(y0, y1, 0.5)
	mid := physics.Vector{X: xm, Y: ym}
	left := physics.Vector{X: x0, Y: ym}
	right := physics.Vector{X: x1, Y: ym}
	bottom := physics.Vector{X: xm, Y: y0}
	top := physics.Vector{X: xm, Y: y1}

	switch corners(t, a, b, c, d) {
	case 0x1:
		emit2(left, mid, bottom, segment)
	case 0x2:
		emit2(bottom, mid, right, segment)
	case 0x3:
		emit(left, right, segment)
	case 0x4:
		emit2(top, mid, left, segment)
	case 0x5:
		emit(top, bottom, segment)
	case 0x6:
		emit2(bottom, mid, left, segment)
		emit2(top, mid, right, segment)
	case 0x7:
		emit2(top, mid, right, segment)
	case 0x8:
		emit2(right, mid, top, segment)
	case 0x9:
		emit2(right, mid, bottom, segment)
		emit2(left, mid, top, segment)
	case 0xA:
		emit(bottom, top, segment)
	case 0xB:
		emit2(left, mid, top, segment)
	case 0xC:
		emit(right, left, segment)
	case 0xD:
		emit2(right, mid, bottom, segment)
	case 0xE:
		emit2(bottom, mid, left, segment)
	}
}

// Hard traces an aliased contour that follows cell centres. Good for tile
// maps.
func Hard(bb physics.BB, xSamples, ySamples int, t float64, segment SegmentFunc, sample SampleFunc) {
	cells(bb, xSamples, ySamples, t, segment, sample, hardCell)
}
