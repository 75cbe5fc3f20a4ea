// Package constant implements a deterministic toy environment which is
// useful for testing agents end to end
package constant

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/linearpg/environment"
	"gonum.org/v1/gonum/mat"
)

// Features is the number of state features of a Constant environment
const Features int = 2

// Constant is an environment with two actions whose episodes always
// last the same number of steps. Every step yields the same reward,
// regardless of the action taken. State features are a constant 1 and
// the fraction of the episode elapsed:
//
//	[1, t / steps]
//
// Constant implements the environment.Environment interface.
type Constant struct {
	steps   int
	reward  float64
	actions int

	t    int
	done bool
}

// New returns a new Constant environment with episodes of the given
// number of steps
func New(steps int, reward float64) (*Constant, error) {
	if steps < 1 {
		return nil, fmt.Errorf("new: episodes must have at least one step, "+
			"have %v", steps)
	}

	c := &Constant{steps: steps, reward: reward, actions: 2}
	c.Reset()

	return c, nil
}

// Reset resets the environment to its starting state
func (c *Constant) Reset() *mat.VecDense {
	c.t = 0
	c.done = false
	return c.state()
}

// Step takes a single environmental step. Stepping after the episode
// ended returns the terminal state with zero reward.
func (c *Constant) Step(action int) (*mat.VecDense, float64, bool) {
	if c.done {
		return c.state(), 0, true
	}
	if action < 0 || action >= c.actions {
		panic(fmt.Sprintf("step: illegal action %v ∉ [0, %v)", action,
			c.actions))
	}

	c.t++
	c.done = c.t >= c.steps

	return c.state(), c.reward, c.done
}

// IsDone returns whether the current episode has ended
func (c *Constant) IsDone() bool {
	return c.done
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Constant) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	lower := mat.NewVecDense(Features, []float64{1, 0})
	upper := mat.NewVecDense(Features, []float64{1, 1})

	return env.NewSpec(shape, env.Observation, lower, upper, env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (c *Constant) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(c.actions)
}

// Return returns the undiscounted return of a full episode
func (c *Constant) Return() float64 {
	return float64(c.steps) * c.reward
}

func (c *Constant) state() *mat.VecDense {
	frac := float64(c.t) / float64(c.steps)
	return mat.NewVecDense(Features, []float64{1, math.Min(frac, 1)})
}

func (c *Constant) String() string {
	return fmt.Sprintf("Constant  |  Step: %v/%v  |  Reward: %v", c.t,
		c.steps, c.reward)
}
