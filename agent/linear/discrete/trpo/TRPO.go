// Package trpo implements Trust Region Policy Optimization with a
// linear softmax policy and a linear critic
package trpo

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/policy"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/rollout"
	"github.com/samuelfneumann/linearpg/buffer/returns"
	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/solver"
	"gonum.org/v1/gonum/floats"
)

// StepEpsilon is added to the curvature dᵀFd before computing the step
// size
const StepEpsilon float64 = 1e-8

// StepInfo describes the outcome of a single trust region update
type StepInfo struct {
	Accepted bool

	// Fraction is the accepted fraction of the full step, or the last
	// fraction tried if no step was accepted
	Fraction float64

	// KL is the average KL divergence at the accepted or last tried
	// parameters
	KL float64

	OldSurrogate float64
	NewSurrogate float64
}

// Improvement returns the increase in the surrogate objective, which
// is zero if the step was rejected
func (s StepInfo) Improvement() float64 {
	if !s.Accepted {
		return 0
	}
	return s.NewSurrogate - s.OldSurrogate
}

func (s StepInfo) String() string {
	return fmt.Sprintf("kl=%.6f accepted=%v fraction=%.4f", s.KL, s.Accepted,
		s.Fraction)
}

// TRPO implements the Trust Region Policy Optimization algorithm. A
// full episode is collected and Monte-Carlo advantages are computed
// with the critic's estimates at collection time. The critic is then
// fit to the returns, and the actor takes a natural gradient step
// found by conjugate gradient on Fisher-vector products. The step is
// scaled to the trust region and a backtracking line search accepts
// the first fraction of it which keeps the average KL divergence
// within the bound and improves the surrogate objective. If no
// fraction is acceptable, the policy is left unchanged.
type TRPO struct {
	*rollout.Collector

	discount   float64
	maxKL      float64
	damping    float64
	fdStep     float64
	normalize  bool
	cg         solver.ConjugateGradient
	lineSearch solver.Backtracking

	last StepInfo
}

// New creates and returns a new TRPO agent
func New(env environment.Environment, c agent.Config,
	seed uint64) (*TRPO, error) {
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

	return &TRPO{
		Collector:  collector,
		discount:   config.Discount,
		maxKL:      config.MaxKL,
		damping:    config.Damping,
		fdStep:     config.FiniteDifference,
		normalize:  config.NormalizeAdvantages,
		cg:         config.CG,
		lineSearch: config.LineSearch,
	}, nil
}

// Step is a no-op, TRPO updates at the end of each episode
func (t *TRPO) Step() error {
	return nil
}

// EndEpisode computes returns and advantages for the episode, fits the
// critic, then takes a trust region step with the actor
func (t *TRPO) EndEpisode() error {
	traj := t.Trajectory()
	defer traj.Clear()

	if traj.Len() == 0 {
		return nil
	}

	if err := returns.MonteCarlo(traj, t.discount); err != nil {
		return fmt.Errorf("endEpisode: %v", err)
	}
	if t.normalize {
		returns.NormalizeAdvantages(traj)
	}

	if err := t.Critic().FitReturns(traj); err != nil {
		return fmt.Errorf("endEpisode: %v", err)
	}

	info, err := t.update(traj.Transitions())
	if err != nil {
		return fmt.Errorf("endEpisode: %v", err)
	}
	t.last = info
	return nil
}

// LastStep returns information about the most recent trust region
// update
func (t *TRPO) LastStep() StepInfo {
	return t.last
}

// Report returns a short description of the last update
func (t *TRPO) Report() string {
	return t.last.String()
}

// update takes a single trust region step on batch
func (t *TRPO) update(batch []trajectory.Transition) (StepInfo, error) {
	params := t.Policy().Params()

	g, err := PolicyGradient(params, batch)
	if err != nil {
		return StepInfo{}, fmt.Errorf("update: %v", err)
	}

	fvp := func(v []float64) ([]float64, error) {
		return FisherVectorProduct(params, batch, v, t.fdStep, t.damping)
	}
	d, err := t.cg.Solve(fvp, g)
	if err != nil {
		return StepInfo{}, fmt.Errorf("update: %v", err)
	}

	Fd, err := fvp(d)
	if err != nil {
		return StepInfo{}, fmt.Errorf("update: %v", err)
	}

	// A non-positive curvature gives no usable step size
	curvature := floats.Dot(d, Fd) + StepEpsilon
	if !(curvature > 0) || math.IsInf(curvature, 1) {
		old, err := Surrogate(params, batch)
		if err != nil {
			return StepInfo{}, fmt.Errorf("update: %v", err)
		}
		return StepInfo{Fraction: 0, OldSurrogate: old,
			NewSurrogate: old}, nil
	}

	beta := math.Sqrt(2 * t.maxKL / curvature)
	floats.Scale(beta, d)

	return t.lineSearchStep(params, batch, d)
}

// lineSearchStep searches along fullStep from params and sets the
// policy's parameters to the first acceptable candidate. If no
// candidate is acceptable, the policy's parameters are set to params.
func (t *TRPO) lineSearchStep(params policy.Params,
	batch []trajectory.Transition, fullStep []float64) (StepInfo, error) {
	oldSurrogate, err := Surrogate(params, batch)
	if err != nil {
		return StepInfo{}, fmt.Errorf("lineSearchStep: %v", err)
	}

	actions, features := params.Dims()
	theta := params.Flatten()
	candidate := make([]float64, len(theta))

	var (
		next         policy.Params
		kl           float64
		newSurrogate float64
	)
	accept := func(frac float64) (bool, error) {
		floats.AddScaledTo(candidate, theta, frac, fullStep)

		p, err := policy.Unflatten(candidate, actions, features)
		if err != nil {
			return false, err
		}
		if kl, err = AverageKL(p, batch); err != nil {
			return false, err
		}
		if newSurrogate, err = Surrogate(p, batch); err != nil {
			return false, err
		}

		next = p
		return kl <= t.maxKL && newSurrogate > oldSurrogate, nil
	}

	frac, accepted, err := t.lineSearch.Search(accept)
	if err != nil {
		return StepInfo{}, fmt.Errorf("lineSearchStep: %v", err)
	}

	info := StepInfo{
		Accepted:     accepted,
		Fraction:     frac,
		KL:           kl,
		OldSurrogate: oldSurrogate,
		NewSurrogate: oldSurrogate,
	}

	final := params
	if accepted {
		final = next
		info.NewSurrogate = newSurrogate
	}
	if err := t.Policy().SetParams(final); err != nil {
		return StepInfo{}, fmt.Errorf("lineSearchStep: %v", err)
	}

	return info, nil
}
