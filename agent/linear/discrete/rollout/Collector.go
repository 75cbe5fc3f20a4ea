// Package rollout implements the data collection shared by the linear
// policy gradient agents. A Collector selects actions with a softmax
// policy and records each transition, together with the critic's
// estimate and the behaviour distribution, into a trajectory.
package rollout

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/linearpg/agent/linear/discrete/policy"
	"github.com/samuelfneumann/linearpg/agent/linear/value"
	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"github.com/samuelfneumann/linearpg/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// selection is an action which has been selected but whose outcome has
// not yet been observed
type selection struct {
	state   *mat.VecDense
	action  int
	value   float64
	logProb float64
	probs   []float64
}

// Collector records the transitions of an episode
type Collector struct {
	policy *policy.Softmax
	critic *value.Linear

	traj    *trajectory.Trajectory
	pending *selection
}

// NewCollector returns a new Collector recording transitions generated
// by p and valued by critic
func NewCollector(p *policy.Softmax, critic *value.Linear) (*Collector,
	error) {
	if p.Features() != critic.Features() {
		return nil, fmt.Errorf("newCollector: policy has %v features but "+
			"critic has %v", p.Features(), critic.Features())
	}

	return &Collector{
		policy: p,
		critic: critic,
		traj:   trajectory.New(p.Features()),
	}, nil
}

// Policy returns the policy used to select actions
func (c *Collector) Policy() *policy.Softmax {
	return c.policy
}

// Critic returns the value function used to value states
func (c *Collector) Critic() *value.Linear {
	return c.critic
}

// Trajectory returns the trajectory recorded so far in the episode
func (c *Collector) Trajectory() *trajectory.Trajectory {
	return c.traj
}

// ObserveFirst starts recording a new episode
func (c *Collector) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "Warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	if t.Observation == nil || t.Observation.Len() != c.policy.Features() {
		return fmt.Errorf("observeFirst: illegal state observation")
	}

	c.traj.Clear()
	c.pending = nil
	return nil
}

// SelectAction samples an action at the given timestep. The state,
// action, value estimate, and behaviour distribution are held until
// the outcome of the action is passed to Observe.
func (c *Collector) SelectAction(t timestep.TimeStep, rng *rand.Rand) (int,
	error) {
	action, probs, err := c.policy.SelectAction(t.Observation, rng)
	if err != nil {
		return 0, err
	}

	v, err := c.critic.Value(t.Observation)
	if err != nil {
		return 0, fmt.Errorf("selectAction: %v", err)
	}

	c.pending = &selection{
		state:   mat.VecDenseCopyOf(t.Observation),
		action:  action,
		value:   v,
		logProb: policy.Log(probs[action]),
		probs:   probs,
	}
	return action, nil
}

// Observe records the outcome of the last selected action
func (c *Collector) Observe(action int, next timestep.TimeStep) error {
	if c.pending == nil {
		return fmt.Errorf("observe: no action has been selected")
	}
	if action != c.pending.action {
		return fmt.Errorf("observe: action %v was not the selected action %v",
			action, c.pending.action)
	}

	s := c.pending
	c.pending = nil

	err := c.traj.Append(s.state, s.action, next.Reward, s.value, s.logProb,
		s.probs)
	if err != nil {
		return fmt.Errorf("observe: %v", err)
	}
	return nil
}

// Weights returns copies of the policy and critic weights
func (c *Collector) Weights() map[string]*mat.Dense {
	weights := c.policy.Weights()
	for k, v := range c.critic.Weights() {
		weights[k] = v
	}
	return weights
}
