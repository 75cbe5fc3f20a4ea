package trpo

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/linearpg/agent/linear/discrete/policy"
	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"gonum.org/v1/gonum/floats"
)

// The functions in this file evaluate objectives of a batch of
// recorded transitions under explicit policy parameters. None of them
// modify their arguments.

// PolicyGradient returns the mean over the batch of A ∇log π(a|s)
func PolicyGradient(params policy.Params,
	batch []trajectory.Transition) ([]float64, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("policyGradient: empty batch")
	}

	grad := make([]float64, params.Len())
	for i := range batch {
		g, err := params.LogProbGradient(batch[i].State, batch[i].Action)
		if err != nil {
			return nil, fmt.Errorf("policyGradient: %v", err)
		}
		floats.AddScaled(grad, batch[i].Advantage, g)
	}
	floats.Scale(1/float64(len(batch)), grad)

	return grad, nil
}

// AverageKL returns the mean over the batch of the KL divergence from
// the recorded behaviour distribution to the distribution under params
//
//	Σ_i old_i (log(old_i + 1e-8) - log(new_i + 1e-8))
func AverageKL(params policy.Params, batch []trajectory.Transition) (float64,
	error) {
	if len(batch) == 0 {
		return 0, fmt.Errorf("averageKL: empty batch")
	}

	var kl float64
	for i := range batch {
		probs, err := params.Probabilities(batch[i].State)
		if err != nil {
			return 0, fmt.Errorf("averageKL: %v", err)
		}
		if len(probs) != len(batch[i].OldProbs) {
			return 0, fmt.Errorf("averageKL: transition %d recorded %v "+
				"action probabilities, want %v", i, len(batch[i].OldProbs),
				len(probs))
		}

		for j, old := range batch[i].OldProbs {
			kl += old * (policy.Log(old) - policy.Log(probs[j]))
		}
	}
	return kl / float64(len(batch)), nil
}

// KLGradient returns a linearized gradient of the average KL
// divergence with respect to the flattened parameters. For each
// transition, the gradient with respect to the weights of action i is
// (new_i - old_i) s and with respect to the bias of action i is
// (new_i - old_i). The result is averaged over the batch.
//
// The gradient is zero at the behaviour parameters, and its Jacobian
// there is the Fisher information matrix of the softmax policy.
func KLGradient(params policy.Params, batch []trajectory.Transition) ([]float64,
	error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("klGradient: empty batch")
	}

	actions, features := params.Dims()
	grad := make([]float64, params.Len())
	for i := range batch {
		probs, err := params.Probabilities(batch[i].State)
		if err != nil {
			return nil, fmt.Errorf("klGradient: %v", err)
		}
		if len(batch[i].OldProbs) != actions {
			return nil, fmt.Errorf("klGradient: transition %d recorded %v "+
				"action probabilities, want %v", i, len(batch[i].OldProbs),
				actions)
		}

		state := batch[i].State.RawVector()
		for a := 0; a < actions; a++ {
			diff := probs[a] - batch[i].OldProbs[a]
			for j := 0; j < features; j++ {
				grad[a*features+j] += diff * state.Data[j*state.Inc]
			}
			grad[actions*features+a] += diff
		}
	}
	floats.Scale(1/float64(len(batch)), grad)

	return grad, nil
}

// FisherVectorProduct approximates F v, the product of the Fisher
// information matrix at params with v, by a forward finite difference
// of the KL gradient with step r, plus damping v
//
//	(KLGradient(θ + r v) - KLGradient(θ)) / r + damping v
func FisherVectorProduct(params policy.Params, batch []trajectory.Transition,
	v []float64, r, damping float64) ([]float64, error) {
	if len(v) != params.Len() {
		return nil, fmt.Errorf("fisherVectorProduct: illegal vector length "+
			"\n\twant(%v)\n\thave(%v)", params.Len(), len(v))
	}
	if r <= 0 {
		return nil, fmt.Errorf("fisherVectorProduct: finite difference step "+
			"must be positive, have %v", r)
	}

	theta := params.Flatten()
	floats.AddScaled(theta, r, v)

	actions, features := params.Dims()
	perturbed, err := policy.Unflatten(theta, actions, features)
	if err != nil {
		return nil, fmt.Errorf("fisherVectorProduct: %v", err)
	}

	gradPlus, err := KLGradient(perturbed, batch)
	if err != nil {
		return nil, fmt.Errorf("fisherVectorProduct: %v", err)
	}
	grad, err := KLGradient(params, batch)
	if err != nil {
		return nil, fmt.Errorf("fisherVectorProduct: %v", err)
	}

	fvp := make([]float64, len(v))
	floats.SubTo(fvp, gradPlus, grad)
	floats.Scale(1/r, fvp)
	floats.AddScaled(fvp, damping, v)

	return fvp, nil
}

// Surrogate returns the mean over the batch of
//
//	exp(log π(a|s) - log π_old(a|s)) A
//
// with both log probabilities offset by 1e-8 inside the logarithm
func Surrogate(params policy.Params, batch []trajectory.Transition) (float64,
	error) {
	if len(batch) == 0 {
		return 0, fmt.Errorf("surrogate: empty batch")
	}

	var total float64
	for i := range batch {
		logProb, err := params.LogProb(batch[i].State, batch[i].Action)
		if err != nil {
			return 0, fmt.Errorf("surrogate: %v", err)
		}
		total += math.Exp(logProb-batch[i].OldLogProb) * batch[i].Advantage
	}
	return total / float64(len(batch)), nil
}
