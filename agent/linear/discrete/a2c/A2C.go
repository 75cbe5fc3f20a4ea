// Package a2c implements the online Advantage Actor-Critic algorithm
// with a linear softmax actor and a linear critic
package a2c

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/rollout"
	"github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/timestep"
	"gonum.org/v1/gonum/mat"
)

// A2C implements the one-step Advantage Actor-Critic algorithm. After
// every environmental step, the critic is moved toward the one-step
// TD target
//
//	y = r + ℽ v(s')
//
// (or y = r if s' is terminal) and the actor ascends the log
// probability of the action taken, scaled by the advantage y - v(s)
// computed before the critic update.
type A2C struct {
	*rollout.Collector

	discount          float64
	actorLearningRate float64

	next     *mat.VecDense
	terminal bool

	lastAdvantage float64
}

// New creates and returns a new A2C agent
func New(env environment.Environment, c agent.Config,
	seed uint64) (*A2C, error) {
	config, ok := c.(Config)
	if !ok {
		return nil, fmt.Errorf("new: invalid configuration type: %T", c)
	}
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	collector, err := rollout.NewEnvCollector(env, config.CriticLearningRate,
		config.InitScale, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &A2C{
		Collector:         collector,
		discount:          config.Discount,
		actorLearningRate: config.ActorLearningRate,
	}, nil
}

// Observe records the outcome of the last selected action
func (a *A2C) Observe(action int, next timestep.TimeStep) error {
	if err := a.Collector.Observe(action, next); err != nil {
		return err
	}

	a.next = mat.VecDenseCopyOf(next.Observation)
	a.terminal = next.Last()
	return nil
}

// Step updates the critic, then the actor, using the most recently
// observed transition
func (a *A2C) Step() error {
	traj := a.Trajectory()
	if traj.Len() == 0 {
		return fmt.Errorf("step: no transition to learn from")
	}
	tr := traj.At(traj.Len() - 1)

	target, err := a.Critic().TDTarget(tr.Reward, a.next, a.terminal,
		a.discount)
	if err != nil {
		return fmt.Errorf("step: %v", err)
	}
	advantage := target - tr.Value

	if _, err := a.Critic().Update(tr.State, target); err != nil {
		return fmt.Errorf("step: %v", err)
	}
	err = a.Policy().AscendLogProb(tr.State, tr.Action,
		a.actorLearningRate*advantage)
	if err != nil {
		return fmt.Errorf("step: %v", err)
	}

	a.lastAdvantage = advantage
	traj.Clear()
	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (a *A2C) EndEpisode() error {
	a.Trajectory().Clear()
	a.next = nil
	a.terminal = false
	return nil
}

// Report returns a short description of the last update
func (a *A2C) Report() string {
	return fmt.Sprintf("advantage=%.4f", a.lastAdvantage)
}
