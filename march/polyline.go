package march

import (
	"math"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
)

type PolyLine struct {
	Verts []physics.Vector
}

// PolyLineSet joins contour segments into polylines as they arrive.
type PolyLineSet struct {
	Lines []*PolyLine
}

func next(i, count int) int {
	return (i + 1) % count
}

// sharpness is the cosine of the angle at b.
func sharpness(a, b, c physics.Vector) float64 {
	return a.Sub(b).Normalize().Dot(c.Sub(b).Normalize())
}

func (pl *PolyLine) push(v physics.Vector) {
	pl.Verts = append(pl.Verts, v)
}

func (pl *PolyLine) enqueue(v physics.Vector) {
	pl.Verts = append([]physics.Vector{v}, pl.Verts...)
}

// IsClosed reports whether the last vertex repeats the first.
func (pl *PolyLine) IsClosed() bool {
	return len(pl.Verts) > 1 && pl.Verts[0].Equal(pl.Verts[len(pl.Verts)-1])
}

func (pl *PolyLine) isShort(count, start, end int, min float64) bool {
	var length float64
	for i := start; i != end; i = next(i, count) {
		length += pl.Verts[i].Distance(pl.Verts[next(i, count)])
		if length > min {
			return false
		}
	}
	return true
}

// SimplifyVertexes merges runs of nearly collinear segments. tol is the
// smallest turn in radians that keeps a vertex. Works well for hard edged
// contours.
func (pl *PolyLine) SimplifyVertexes(tol float64) *PolyLine {
	if len(pl.Verts) < 3 {
		return &PolyLine{Verts: append([]physics.Vector(nil), pl.Verts...)}
	}

	reduced := &PolyLine{Verts: []physics.Vector{pl.Verts[0], pl.Verts[1]}}
	minSharp := -math.Cos(tol)

	for _, v := range pl.Verts[2:] {
		n := len(reduced.Verts)
		if sharpness(reduced.Verts[n-2], reduced.Verts[n-1], v) <= minSharp {
			reduced.Verts[n-1] = v
		} else {
			reduced.push(v)
		}
	}

	n := len(reduced.Verts)
	if pl.IsClosed() && n > 3 && sharpness(reduced.Verts[n-2], reduced.Verts[0], reduced.Verts[1]) < minSharp {
		reduced.Verts[0] = reduced.Verts[n-2]
		reduced.Verts = reduced.Verts[:n-1]
	}
	return reduced
}

func douglasPeucker(verts []physics.Vector, reduced *PolyLine, length, start, end int, min, tol float64) {
	if (end-start+length)%length < 2 {
		return
	}

	a := verts[start]
	b := verts[end]
	if a.Near(b, min) && reduced.isShort(length, start, end, min) {
		return
	}

	var max float64
	maxi := start

	n := b.Sub(a).Perp().Normalize()
	d := n.Dot(a)
	for i := next(start, length); i != end; i = next(i, length) {
		if dist := math.Abs(n.Dot(verts[i]) - d); dist > max {
			max = dist
			maxi = i
		}
	}

	if max > tol {
		douglasPeucker(verts, reduced, length, start, maxi, min, tol)
		reduced.push(verts[maxi])
		douglasPeucker(verts, reduced, length, maxi, end, min, tol)
	}
}

// loopIndexes finds the leftmost and rightmost vertices of a loop.
func loopIndexes(verts []physics.Vector, count int) (start, end int) {
	min, max := verts[0], verts[0]
	for i, v := range verts[:count] {
		if v.X < min.X || (v.X == min.X && v.Y < min.Y) {
			min = v
			start = i
		} else if v.X > max.X || (v.X == max.X && v.Y > max.Y) {
			max = v
			end = i
		}
	}
	return start, end
}

// SimplifyCurves drops vertices with Douglas-Peucker. The result never
// strays more than tol from the original. Works best for smooth contours.
func (pl *PolyLine) SimplifyCurves(tol float64) *PolyLine {
	reduced := &PolyLine{}
	if len(pl.Verts) < 3 {
		reduced.Verts = append(reduced.Verts, pl.Verts...)
		return reduced
	}
	min := tol / 2

	if pl.IsClosed() {
		count := len(pl.Verts) - 1
		start, end := loopIndexes(pl.Verts, count)

		reduced.push(pl.Verts[start])
		douglasPeucker(pl.Verts, reduced, count, start, end, min, tol)
		reduced.push(pl.Verts[end])
		douglasPeucker(pl.Verts, reduced, count, end, start, min, tol)
		reduced.push(pl.Verts[start])
	} else {
		last := len(pl.Verts) - 1
		reduced.push(pl.Verts[0])
		douglasPeucker(pl.Verts, reduced, len(pl.Verts), 0, last, min, tol)
		reduced.push(pl.Verts[last])
	}
	return reduced
}

// Chain converts the polyline to a chain shape, looping it if closed.
func (pl *PolyLine) Chain() *physics.Chain {
	if pl.IsClosed() {
		return physics.NewLoop(pl.Verts)
	}
	return physics.NewChain(pl.Verts)
}

func (pls *PolyLineSet) findEnds(v physics.Vector) int {
	for i, line := range pls.Lines {
		if line.Verts[len(line.Verts)-1].Equal(v) {
			return i
		}
	}
	return -1
}

func (pls *PolyLineSet) findStarts(v physics.Vector) int {
	for i, line := range pls.Lines {
		if line.Verts[0].Equal(v) {
			return i
		}
	}
	return -1
}

func (pls *PolyLineSet) join(before, after int) {
	pls.Lines[before].Verts = append(pls.Lines[before].Verts, pls.Lines[after].Verts...)
	pls.Lines = append(pls.Lines[:after], pls.Lines[after+1:]...)
}

// Collect adds a segment. It starts a new polyline, extends or closes an
// existing one, or joins two. It has the shape of a SegmentFunc.
func (pls *PolyLineSet) Collect(v0, v1 physics.Vector) {
	before := pls.findEnds(v0)
	after := pls.findStarts(v1)

	switch {
	case before >= 0 && after >= 0:
		if before == after {
			pls.Lines[before].push(v1)
		} else {
			pls.join(before, after)
		}
	case before >= 0:
		pls.Lines[before].push(v1)
	case after >= 0:
		pls.Lines[after].enqueue(v0)
	default:
		pls.Lines = append(pls.Lines, &PolyLine{Verts: []physics.Vector{v0, v1}})
	}
}

// Terrain traces the surface below height over [left, right], sampled
// every step units, and returns one chain per contour, simplified to tol.
func Terrain(left, right, bottom, step, tol float64, height func(x float64) float64) []*physics.Chain {
	top := bottom
	for x := left; x <= right; x += step {
		if h := height(x); h > top {
			top = h
		}
	}
	top += step

	bb := physics.NewBB(left, bottom, right, top)
	xs := int(math.Ceil((right-left)/step)) + 1
	ys := int(math.Ceil((top-bottom)/step)) + 1

	var set PolyLineSet
	Soft(bb, xs, ys, 0, set.Collect, func(p physics.Vector) float64 {
		return height(p.X) - p.Y
	})

	chains := make([]*physics.Chain, 0, len(set.Lines))
	for _, line := range set.Lines {
		chains = append(chains, line.SimplifyCurves(tol).Chain())
	}
	return chains
}
