package physics

import (
	"math"
	"time"
)

// island is a connected group of awake bodies with the contacts and joints
// between them. A world keeps one island and reuses its buffers for every
// group it solves.
type island struct {
	listener ContactListener

	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []position
	velocities []velocity
}

func (island *island) clear() {
	island.bodies = island.bodies[:0]
	island.contacts = island.contacts[:0]
	island.joints = island.joints[:0]
}

func (island *island) addBody(body *Body) {
	body.islandIndex = len(island.bodies)
	island.bodies = append(island.bodies, body)
}

func (island *island) addContact(contact *Contact) {
	island.contacts = append(island.contacts, contact)
}

func (island *island) addJoint(joint Joint) {
	island.joints = append(island.joints, joint)
}

// loadState copies body state into the solver arrays.
func (island *island) loadState() {
	island.positions = island.positions[:0]
	island.velocities = island.velocities[:0]
	for _, b := range island.bodies {
		island.positions = append(island.positions, position{b.sweep.C, b.sweep.A})
		island.velocities = append(island.velocities, velocity{b.linearVelocity, b.angularVelocity})
	}
}

// integratePositions advances the solver positions by h, clamping the
// per-step translation and rotation.
func (island *island) integratePositions(h float64) {
	for i := range island.bodies {
		c := island.positions[i].C
		a := island.positions[i].A
		v := island.velocities[i].V
		w := island.velocities[i].W

		// Check for large velocities
		translation := v.Mult(h)
		if translation.Dot(translation) > maxTranslationSquared {
			ratio := MaxTranslation / translation.Length()
			v = v.Mult(ratio)
		}

		rotation := h * w
		if rotation*rotation > maxRotationSquared {
			ratio := MaxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate
		c = c.Add(v.Mult(h))
		a += h * w

		island.positions[i] = position{c, a}
		island.velocities[i] = velocity{v, w}
	}
}

// solve integrates velocities, runs the velocity and position passes and
// puts the island to sleep once every body has rested long enough.
func (island *island) solve(profile *Profile, step TimeStep, gravity Vector, allowSleep bool) {
	start := time.Now()

	h := step.Dt

	// Integrate velocities and apply damping. Initialize the body state.
	island.loadState()
	for i, b := range island.bodies {
		// Store positions for continuous collision.
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.typ != DynamicBody {
			continue
		}

		v := island.velocities[i].V
		w := island.velocities[i].W

		// Integrate velocities.
		v = v.Add(gravity.Mult(b.gravityScale).Add(b.force.Mult(b.invMass)).Mult(h))
		w += h * b.invI * b.torque

		// Apply damping.
		// ODE: dv/dt + c * v = 0
		// Solution: v(t) = v0 * exp(-c * t)
		// Time step: v(t + dt) = v0 * exp(-c * (t + dt)) = v0 * exp(-c * t) * exp(-c * dt) = v * exp(-c * dt)
		// v2 = exp(-c * dt) * v1
		// Pade approximation:
		// v2 = v1 * 1 / (1 + c * dt)
		v = v.Mult(1.0 / (1.0 + h*b.linearDamping))
		w *= 1.0 / (1.0 + h*b.angularDamping)

		island.velocities[i] = velocity{v, w}
	}

	solverData := &SolverData{
		Step:       step,
		positions:  island.positions,
		velocities: island.velocities,
	}

	// Initialize velocity constraints.
	contactSolver := newContactSolver(step, island.contacts, island.positions, island.velocities)
	contactSolver.initializeVelocityConstraints()

	if step.WarmStarting {
		contactSolver.warmStart()
	}

	for _, joint := range island.joints {
		joint.initVelocityConstraints(solverData)
	}

	profile.SolveInit += time.Since(start)

	// Solve velocity constraints
	start = time.Now()
	for i := 0; i < step.VelocityIterations; i++ {
		for _, joint := range island.joints {
			joint.solveVelocityConstraints(solverData)
		}
		contactSolver.solveVelocityConstraints()
	}

	// Store impulses for warm starting
	contactSolver.storeImpulses()
	profile.SolveVelocity += time.Since(start)

	island.integratePositions(h)

	// Solve position constraints
	start = time.Now()
	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		contactsOkay := contactSolver.solvePositionConstraints()

		jointsOkay := true
		for _, joint := range island.joints {
			jointOkay := joint.solvePositionConstraints(solverData)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies
	for i, body := range island.bodies {
		body.sweep.C = island.positions[i].C
		body.sweep.A = island.positions[i].A
		body.linearVelocity = island.velocities[i].V
		body.angularVelocity = island.velocities[i].W
		body.synchronizeTransform()
	}

	profile.SolvePosition += time.Since(start)

	island.report(contactSolver.velocityConstraints)

	if !allowSleep {
		return
	}

	minSleepTime := maxFloat

	const linTolSqr = LinearSleepTolerance * LinearSleepTolerance
	const angTolSqr = AngularSleepTolerance * AngularSleepTolerance

	for _, b := range island.bodies {
		if b.typ == StaticBody {
			continue
		}

		if b.flags&bodyAutoSleepFlag == 0 ||
			b.angularVelocity*b.angularVelocity > angTolSqr ||
			b.linearVelocity.Dot(b.linearVelocity) > linTolSqr {
			b.sleepTime = 0
			minSleepTime = 0
		} else {
			b.sleepTime += h
			minSleepTime = math.Min(minSleepTime, b.sleepTime)
		}
	}

	if minSleepTime >= TimeToSleep && positionSolved {
		for _, b := range island.bodies {
			b.SetAwake(false)
		}
	}
}

// solveTOI resolves a time of impact sub-step. Only the bodies at toiIndexA
// and toiIndexB move during position correction.
func (island *island) solveTOI(subStep TimeStep, toiIndexA, toiIndexB int) {
	assert(toiIndexA < len(island.bodies), "bad toi index")
	assert(toiIndexB < len(island.bodies), "bad toi index")

	island.loadState()

	contactSolver := newContactSolver(subStep, island.contacts, island.positions, island.velocities)

	// Solve position constraints.
	for i := 0; i < subStep.PositionIterations; i++ {
		if contactSolver.solveTOIPositionConstraints(toiIndexA, toiIndexB) {
			break
		}
	}

	// Leap of faith to new safe state.
	island.bodies[toiIndexA].sweep.C0 = island.positions[toiIndexA].C
	island.bodies[toiIndexA].sweep.A0 = island.positions[toiIndexA].A
	island.bodies[toiIndexB].sweep.C0 = island.positions[toiIndexB].C
	island.bodies[toiIndexB].sweep.A0 = island.positions[toiIndexB].A

	// No warm starting is needed for TOI events because warm
	// starting impulses were applied in the discrete solver.
	contactSolver.initializeVelocityConstraints()

	// Solve velocity constraints.
	for i := 0; i < subStep.VelocityIterations; i++ {
		contactSolver.solveVelocityConstraints()
	}

	// Don't store the TOI contact forces for warm starting
	// because they can be quite large.

	island.integratePositions(subStep.Dt)

	// Sync bodies
	for i, body := range island.bodies {
		body.sweep.C = island.positions[i].C
		body.sweep.A = island.positions[i].A
		body.linearVelocity = island.velocities[i].V
		body.angularVelocity = island.velocities[i].W
		body.synchronizeTransform()
	}

	island.report(contactSolver.velocityConstraints)
}

func (island *island) report(constraints []contactVelocityConstraint) {
	if island.listener == nil {
		return
	}

	for i, c := range island.contacts {
		vc := &constraints[i]

		impulse := ContactImpulse{Count: vc.pointCount}
		for j := 0; j < vc.pointCount; j++ {
			impulse.NormalImpulses[j] = vc.points[j].normalImpulse
			impulse.TangentImpulses[j] = vc.points[j].tangentImpulse
		}

		island.listener.PostSolve(c, &impulse)
	}
}
