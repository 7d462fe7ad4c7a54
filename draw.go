package physics

// DrawFlags select what World.DrawDebugData renders.
type DrawFlags uint16

const (
	DrawShapes DrawFlags = 1 << iota
	DrawJoints
	DrawAABBs
	DrawPairs
	DrawCenterOfMass
	DrawContactPoints
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

var (
	colorInactive  = FColor{0.5, 0.5, 0.3, 1}
	colorStatic    = FColor{0.5, 0.9, 0.5, 1}
	colorKinematic = FColor{0.5, 0.5, 0.9, 1}
	colorSleeping  = FColor{0.6, 0.6, 0.6, 1}
	colorDynamic   = FColor{0.9, 0.7, 0.7, 1}
	colorJoint     = FColor{0.5, 0.8, 0.8, 1}
	colorAABB      = FColor{0.9, 0.3, 0.9, 1}
	colorPair      = FColor{0.3, 0.9, 0.9, 1}
	colorContact   = FColor{0.9, 0.9, 0.3, 1}
)

// Drawer renders debug geometry. All coordinates are in world space.
type Drawer interface {
	DrawPolygon(vertices []Vector, color FColor)
	DrawSolidPolygon(vertices []Vector, color FColor)
	DrawCircle(center Vector, radius float64, color FColor)
	// DrawSolidCircle draws a filled circle with a radius line along axis.
	DrawSolidCircle(center Vector, radius float64, axis Vector, color FColor)
	DrawSegment(p1, p2 Vector, color FColor)
	// DrawTransform draws the unit axes of a transform.
	DrawTransform(xf Transform)
	DrawPoint(p Vector, size float64, color FColor)
}

// SetDebugDraw registers the drawer used by DrawDebugData.
func (world *World) SetDebugDraw(drawer Drawer, flags DrawFlags) {
	world.debugDraw = drawer
	world.drawFlags = flags
}

// DrawDebugData renders the world with the registered drawer.
func (world *World) DrawDebugData() {
	draw := world.debugDraw
	if draw == nil {
		return
	}
	flags := world.drawFlags

	if flags&DrawShapes != 0 {
		for b := world.bodyList; b != nil; b = b.next {
			xf := b.xf
			color := bodyColor(b)
			for f := b.fixtureList; f != nil; f = f.next {
				drawShape(draw, f.shape, xf, color)
			}
		}
	}

	if flags&DrawJoints != 0 {
		for j := world.jointList; j != nil; j = j.Next() {
			drawJoint(draw, j)
		}
	}

	if flags&DrawPairs != 0 {
		for c := world.contactManager.contactList; c != nil; c = c.next {
			cA := c.fixtureA.AABB(c.indexA).Center()
			cB := c.fixtureB.AABB(c.indexB).Center()
			draw.DrawSegment(cA, cB, colorPair)
		}
	}

	if flags&DrawContactPoints != 0 {
		for c := world.contactManager.contactList; c != nil; c = c.next {
			if !c.IsTouching() {
				continue
			}
			wm := c.WorldManifold()
			for i := 0; i < c.manifold.PointCount; i++ {
				p := wm.Points[i]
				draw.DrawPoint(p, 4.0, colorContact)
				draw.DrawSegment(p, p.Add(wm.Normal.Mult(0.2)), colorContact)
			}
		}
	}

	if flags&DrawAABBs != 0 {
		broadPhase := world.contactManager.broadPhase
		for b := world.bodyList; b != nil; b = b.next {
			if !b.IsActive() {
				continue
			}
			for f := b.fixtureList; f != nil; f = f.next {
				for _, proxy := range f.proxies {
					bb := broadPhase.FatBB(proxy.proxyID)
					draw.DrawPolygon([]Vector{
						{bb.L, bb.B},
						{bb.R, bb.B},
						{bb.R, bb.T},
						{bb.L, bb.T},
					}, colorAABB)
				}
			}
		}
	}

	if flags&DrawCenterOfMass != 0 {
		for b := world.bodyList; b != nil; b = b.next {
			xf := b.xf
			xf.P = b.WorldCenter()
			draw.DrawTransform(xf)
		}
	}
}

func bodyColor(b *Body) FColor {
	switch {
	case !b.IsActive():
		return colorInactive
	case b.typ == StaticBody:
		return colorStatic
	case b.typ == KinematicBody:
		return colorKinematic
	case !b.IsAwake():
		return colorSleeping
	}
	return colorDynamic
}

func drawShape(draw Drawer, shape Shape, xf Transform, color FColor) {
	switch s := shape.(type) {
	case *Circle:
		center := xf.Point(s.Center)
		axis := xf.Q.Rotate(Vector{1, 0})
		draw.DrawSolidCircle(center, s.R, axis, color)
	case *Edge:
		v1 := xf.Point(s.Vertex1)
		v2 := xf.Point(s.Vertex2)
		draw.DrawSegment(v1, v2, color)
	case *Chain:
		v1 := xf.Point(s.Vertices[0])
		for _, v := range s.Vertices[1:] {
			v2 := xf.Point(v)
			draw.DrawSegment(v1, v2, color)
			v1 = v2
		}
	case *Polygon:
		vertices := make([]Vector, len(s.Vertices))
		for i, v := range s.Vertices {
			vertices[i] = xf.Point(v)
		}
		draw.DrawSolidPolygon(vertices, color)
	default:
		panic("Unknown shape type")
	}
}

func drawJoint(draw Drawer, joint Joint) {
	x1 := joint.BodyA().xf.P
	x2 := joint.BodyB().xf.P
	p1 := joint.AnchorA()
	p2 := joint.AnchorB()

	switch j := joint.(type) {
	case *DistanceJoint:
		draw.DrawSegment(p1, p2, colorJoint)
	case *PulleyJoint:
		s1 := j.GroundAnchorA()
		s2 := j.GroundAnchorB()
		draw.DrawSegment(s1, p1, colorJoint)
		draw.DrawSegment(s2, p2, colorJoint)
		draw.DrawSegment(s1, s2, colorJoint)
	case *MouseJoint:
		// don't draw this
	default:
		draw.DrawSegment(x1, p1, colorJoint)
		draw.DrawSegment(p1, p2, colorJoint)
		draw.DrawSegment(x2, p2, colorJoint)
	}
}
