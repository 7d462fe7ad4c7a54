package physics

import "time"

// Profile holds the duration of each phase of the last Step.
type Profile struct {
	Step          time.Duration
	Collide       time.Duration
	Solve         time.Duration
	SolveInit     time.Duration
	SolveVelocity time.Duration
	SolvePosition time.Duration
	Broadphase    time.Duration
	SolveTOI      time.Duration
}

// TimeStep holds the parameters of one solver pass.
type TimeStep struct {
	Dt                 float64 // time step
	InvDt              float64 // inverse time step (0 if dt == 0)
	DtRatio            float64 // dt * previous inverse dt, for warm starting
	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
}

// position and velocity are the solver's working copies of a body's state,
// indexed by the body's island index.
type position struct {
	C Vector
	A float64
}

type velocity struct {
	V Vector
	W float64
}

// SolverData is handed to joints during the solve. Positions and velocities
// are indexed by Body island index.
type SolverData struct {
	Step       TimeStep
	positions  []position
	velocities []velocity
}
