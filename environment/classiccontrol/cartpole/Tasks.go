package cartpole

import (
	"math"

	env "github.com/samuelfneumann/linearpg/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	FailAngle     float64 = 15 * math.Pi / 180
	PositionLimit float64 = 2.4
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The rewards are +1 for every timestep on which the cart stays within
// the position limit and the pole within the fail angle, and 0 on the
// step that leaves those bounds.
//
// Episodes end after the step cutoff or once the bounds are left.
type Balance struct {
	env.Starter
	stepLimiter   env.StepLimit
	stateLimiter  *env.IntervalLimit
	failAngle     float64
	positionLimit float64
}

// NewBalance creates and returns a new Balance task. A cutoff of 0
// means episodes only end on failure.
func NewBalance(s env.Starter, cutoff int, failAngle,
	positionLimit float64) *Balance {
	stepLimiter := env.NewStepLimit(cutoff)

	legal := []r1.Interval{
		{Min: -positionLimit, Max: positionLimit},
		{Min: -failAngle, Max: failAngle},
	}
	stateLimiter := env.NewIntervalLimit(legal, []int{0, 2})

	return &Balance{s, stepLimiter, stateLimiter, failAngle, positionLimit}
}

// Failed returns whether the cart or pole has left its legal bounds
func (b *Balance) Failed(state *mat.VecDense) bool {
	return b.stateLimiter.End(state, 0)
}

// Cutoff returns whether the episode step cutoff has been reached
func (b *Balance) Cutoff(state *mat.VecDense, steps int) bool {
	return b.stepLimiter.End(state, steps)
}

// Reward returns the reward for a transition
func (b *Balance) Reward(failed bool) float64 {
	if failed {
		return 0.0
	}
	return 1.0
}
