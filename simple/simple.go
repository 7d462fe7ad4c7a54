package main

import (
	"fmt"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
)

// A box falls onto the ground and comes to rest. Prints one line per step.
func main() {
	world := physics.NewWorld(physics.Vector{Y: -10})

	groundDef := physics.NewBodyDef()
	groundDef.Position = physics.Vector{Y: -10}
	ground := world.CreateBody(&groundDef)
	ground.CreateFixtureFromShape(physics.NewBox(50, 10), 0)

	def := physics.NewBodyDef()
	def.Type = physics.DynamicBody
	def.Position = physics.Vector{Y: 4}
	body := world.CreateBody(&def)

	fixture := physics.NewFixtureDef(physics.NewBox(1, 1))
	fixture.Density = 1
	fixture.Friction = 0.3
	body.CreateFixture(&fixture)

	const (
		timeStep           = 1.0 / 60.0
		velocityIterations = 6
		positionIterations = 2
	)

	for i := 0; i < 60; i++ {
		world.Step(timeStep, velocityIterations, positionIterations)
		p := body.Position()
		fmt.Printf("%4.2f %4.2f %4.2f\n", p.X, p.Y, body.Angle())
	}
}
