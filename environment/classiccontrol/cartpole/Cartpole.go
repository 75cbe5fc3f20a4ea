// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/linearpg/environment"
	"gonum.org/v1/gonum/mat"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Discrete Actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 1

	// Number of state features
	Features int = 4
)

// Cartpole implements the classic control environment Cartpole with
// discrete actions. In this environment, a pole is attached to a cart,
// which can move horizontally. The agent must keep the pole upright
// for as long as possible.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. State variables are
// integrated with the Euler method.
//
// Actions are discrete and consist of the force applied to the cart:
//
//	Action	Meaning
//	  0		Apply force left
//	  1		Apply force right
//
// The episode ends when the Balance task reports failure or its step
// cutoff is reached. Cartpole implements the environment.Environment
// interface.
type Cartpole struct {
	*Balance
	state *mat.VecDense
	steps int
	done  bool
}

// New constructs a new Cartpole environment and resets it so that it
// is ready to use
func New(t *Balance) *Cartpole {
	cartpole := &Cartpole{Balance: t}
	cartpole.Reset()

	return cartpole
}

// Reset resets the environment and returns a starting state drawn from
// the task's Starter
func (c *Cartpole) Reset() *mat.VecDense {
	state := c.Start()
	if state.Len() != Features {
		panic(fmt.Sprintf("reset: starter returned %v features, want %v",
			state.Len(), Features))
	}

	c.state = state
	c.steps = 0
	c.done = false

	return mat.VecDenseCopyOf(c.state)
}

// IsDone returns whether the current episode has ended
func (c *Cartpole) IsDone() bool {
	return c.done
}

// ActionSpec returns the action specification of the environment
func (c *Cartpole) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(MaxDiscreteAction + 1)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Cartpole) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)

	lower := []float64{-c.positionLimit, math.Inf(-1), -c.failAngle,
		math.Inf(-1)}
	lowerBound := mat.NewVecDense(Features, lower)

	upper := []float64{c.positionLimit, math.Inf(1), c.failAngle,
		math.Inf(1)}
	upperBound := mat.NewVecDense(Features, upper)

	return env.NewSpec(shape, env.Observation, lowerBound,
		upperBound, env.Continuous)
}

// Step takes one environmental step given action a and returns the next
// state, the reward for the transition, and whether the episode has
// ended. Stepping an environment whose episode has ended returns the
// terminal state with zero reward.
func (c *Cartpole) Step(action int) (*mat.VecDense, float64, bool) {
	if c.done {
		return mat.VecDenseCopyOf(c.state), 0.0, true
	}

	// Ensure a legal action was selected
	if action < MinDiscreteAction || action > MaxDiscreteAction {
		panic(fmt.Sprintf("illegal action %v ∉ (0, 1)", action))
	}

	force := -ForceMag
	if action == 1 {
		force = ForceMag
	}

	x, xDot := c.state.AtVec(0), c.state.AtVec(1)
	th, thDot := c.state.AtVec(2), c.state.AtVec(3)

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)
	poleMassLength := PoleMass * HalfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / TotalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/TotalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/TotalMass

	// Update state variables using Euler kinematic integration
	x += Dt * xDot
	xDot += Dt * xAcc
	th += Dt * thDot
	thDot += Dt * thAcc

	c.state = mat.NewVecDense(Features, []float64{x, xDot, th, thDot})
	c.steps++

	failed := c.Failed(c.state)
	c.done = failed || c.Cutoff(c.state, c.steps)

	return mat.VecDenseCopyOf(c.state), c.Reward(failed), c.done
}

func (c *Cartpole) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	position, speed := c.state.AtVec(0), c.state.AtVec(1)
	angle, velocity := c.state.AtVec(2), c.state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}
