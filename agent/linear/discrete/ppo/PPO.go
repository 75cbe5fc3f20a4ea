// Package ppo implements Proximal Policy Optimization with a linear
// softmax policy and a linear critic
package ppo

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/rollout"
	"github.com/samuelfneumann/linearpg/buffer/returns"
	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/utils/floatutils"
)

// PPO implements the Proximal Policy Optimization algorithm with the
// clipped surrogate objective. A full episode is collected, after
// which Monte-Carlo returns and advantages are computed. Then, for a
// number of epochs, the actor takes one step per transition along
//
//	min(ρ A, clip(ρ, 1-ε, 1+ε) A) ∇log π(a|s)
//
// where ρ = π(a|s) / π_old(a|s) is recomputed with the current
// parameters at every transition, and the critic is fit to the
// returns.
type PPO struct {
	*rollout.Collector

	discount          float64
	actorLearningRate float64
	clip              float64
	epochs            int
	normalize         bool

	lastSurrogate float64
}

// New creates and returns a new PPO agent
func New(env environment.Environment, c agent.Config,
	seed uint64) (*PPO, error) {
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

	return &PPO{
		Collector:         collector,
		discount:          config.Discount,
		actorLearningRate: config.ActorLearningRate,
		clip:              config.Clip,
		epochs:            config.Epochs,
		normalize:         config.NormalizeAdvantages,
	}, nil
}

// ClippedSurrogate returns min(ratio A, clip(ratio, 1-ε, 1+ε) A)
func ClippedSurrogate(ratio, advantage, epsilon float64) float64 {
	unclipped := ratio * advantage
	clipped := floatutils.Clip(ratio, 1-epsilon, 1+epsilon) * advantage
	return math.Min(unclipped, clipped)
}

// Step is a no-op, PPO updates at the end of each episode
func (p *PPO) Step() error {
	return nil
}

// EndEpisode computes returns and advantages for the episode, then
// updates the actor and critic for a number of epochs
func (p *PPO) EndEpisode() error {
	traj := p.Trajectory()
	defer traj.Clear()

	if traj.Len() == 0 {
		return nil
	}

	if err := returns.MonteCarlo(traj, p.discount); err != nil {
		return fmt.Errorf("endEpisode: %v", err)
	}
	if p.normalize {
		returns.NormalizeAdvantages(traj)
	}

	for epoch := 0; epoch < p.epochs; epoch++ {
		surrogate, err := p.updateActor(traj)
		if err != nil {
			return fmt.Errorf("endEpisode: epoch %d: %v", epoch, err)
		}
		p.lastSurrogate = surrogate

		if err := p.Critic().FitReturns(traj); err != nil {
			return fmt.Errorf("endEpisode: epoch %d: %v", epoch, err)
		}
	}
	return nil
}

// updateActor takes one actor step per transition and returns the mean
// surrogate over the pass
func (p *PPO) updateActor(traj *trajectory.Trajectory) (float64, error) {
	var total float64
	for i := 0; i < traj.Len(); i++ {
		tr := traj.At(i)

		ratio, err := p.Ratio(tr)
		if err != nil {
			return 0, fmt.Errorf("updateActor: %v", err)
		}
		surrogate := ClippedSurrogate(ratio, tr.Advantage, p.clip)
		total += surrogate

		err = p.Policy().AscendLogProb(tr.State, tr.Action,
			p.actorLearningRate*surrogate)
		if err != nil {
			return 0, fmt.Errorf("updateActor: %v", err)
		}
	}
	return total / float64(traj.Len()), nil
}

// Report returns a short description of the last update
func (p *PPO) Report() string {
	return fmt.Sprintf("surrogate=%.4f", p.lastSurrogate)
}

// Ratio returns π(a|s) / π_old(a|s) for a recorded transition under the
// agent's current policy
func (p *PPO) Ratio(tr *trajectory.Transition) (float64, error) {
	logProb, err := p.Policy().LogProb(tr.State, tr.Action)
	if err != nil {
		return 0, fmt.Errorf("ratio: %v", err)
	}
	return math.Exp(logProb - tr.OldLogProb), nil
}
