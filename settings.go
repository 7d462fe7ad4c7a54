package physics

import "math"

// Global tuning constants based on meters-kilograms-seconds (MKS) units.

const (
	maxFloat = math.MaxFloat64
	epsilon  = 2.220446049250313e-16
)

// Collision

const (
	// The maximum number of contact points between two convex shapes.
	MaxManifoldPoints = 2

	// The maximum number of vertices on a convex polygon.
	MaxPolygonVertices = 8

	// Fattens AABBs in the dynamic tree so proxies can move a small amount
	// without triggering a tree adjustment. In meters.
	AABBExtension = 0.1

	// Predicts the future position of a moving proxy from its displacement.
	// Dimensionless multiplier.
	AABBMultiplier = 2.0

	// A small length used as a collision and constraint tolerance.
	LinearSlop = 0.005

	// A small angle used as a collision and constraint tolerance.
	AngularSlop = 2.0 / 180.0 * math.Pi

	// The radius of the polygon/edge shape skin.
	PolygonRadius = 2.0 * LinearSlop

	// Maximum number of sub-steps per contact in continuous physics simulation.
	MaxSubSteps = 8
)

// Dynamics

const (
	// Maximum number of contacts to be handled to solve a TOI impact.
	MaxTOIContacts = 32

	// Collisions with a relative linear velocity below this threshold are
	// treated as inelastic.
	VelocityThreshold = 1.0

	// The maximum linear position correction used when solving constraints.
	MaxLinearCorrection = 0.2

	// The maximum angular position correction used when solving constraints.
	MaxAngularCorrection = 8.0 / 180.0 * math.Pi

	// The maximum linear translation of a body per step.
	MaxTranslation        = 2.0
	maxTranslationSquared = MaxTranslation * MaxTranslation

	// The maximum angular rotation of a body per step.
	MaxRotation        = 0.5 * math.Pi
	maxRotationSquared = MaxRotation * MaxRotation

	// How fast overlap is resolved.
	Baumgarte    = 0.2
	TOIBaumgarte = 0.75
)

// Sleep

const (
	// The time that a body must be still before it will go to sleep.
	TimeToSleep = 0.5

	// A body cannot sleep if its linear velocity is above this tolerance.
	LinearSleepTolerance = 0.01

	// A body cannot sleep if its angular velocity is above this tolerance.
	AngularSleepTolerance = 2.0 / 180.0 * math.Pi
)

// MixFriction is the friction mixing law: the geometric mean.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

// MixRestitution is the restitution mixing law: the larger value wins.
func MixRestitution(restitution1, restitution2 float64) float64 {
	return math.Max(restitution1, restitution2)
}
