package policy

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/linearpg/utils/matutils"
	"github.com/samuelfneumann/linearpg/utils/matutils/initializers/weights"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
	BiasKey    string = "bias"
)

// Log returns log(p + LogEpsilon)
func Log(p float64) float64 {
	return math.Log(p + LogEpsilon)
}

// Softmax implements a softmax policy over discrete actions using
// linear function approximation. The policy owns its parameters,
// which learning algorithms update through SetParams and
// AscendLogProb.
type Softmax struct {
	params Params
}

// NewSoftmax returns a new Softmax policy. The weights are initialized
// with init and the biases are initialized to zero.
func NewSoftmax(features, actions int, init weights.Initializer) (*Softmax,
	error) {
	if features < 1 {
		return nil, fmt.Errorf("newSoftmax: need at least one feature, "+
			"have %v", features)
	}
	if actions < 1 {
		return nil, fmt.Errorf("newSoftmax: need at least one action, "+
			"have %v", actions)
	}

	params := NewParams(actions, features)
	if init != nil {
		init.Initialize(params.Weights)
	}

	return &Softmax{params}, nil
}

// Features returns the number of state features the policy expects
func (s *Softmax) Features() int {
	_, features := s.params.Dims()
	return features
}

// Actions returns the number of actions of the policy
func (s *Softmax) Actions() int {
	actions, _ := s.params.Dims()
	return actions
}

// Params returns a copy of the policy's parameters
func (s *Softmax) Params() Params {
	return s.params.Clone()
}

// SetParams sets the policy's parameters to a copy of p
func (s *Softmax) SetParams(p Params) error {
	actions, features := p.Dims()
	if actions != s.Actions() || features != s.Features() ||
		p.Bias.Len() != actions {
		return fmt.Errorf("setParams: illegal parameter dimensions "+
			"\n\twant(%v × %v)\n\thave(%v × %v)", s.Actions(), s.Features(),
			actions, features)
	}

	s.params.Weights.Copy(p.Weights)
	s.params.Bias.CopyVec(p.Bias)
	return nil
}

// Weights gets and returns copies of the weights of the policy as a
// map of string description -> weights. Biases are returned as a
// column matrix.
func (s *Softmax) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = mat.DenseCopyOf(s.params.Weights)
	weights[BiasKey] = mat.DenseCopyOf(s.params.Bias)

	return weights
}

// Probabilities returns the distribution over actions in a state
func (s *Softmax) Probabilities(state mat.Vector) ([]float64, error) {
	return s.params.Probabilities(state)
}

// LogProb returns log(π(a|s) + LogEpsilon)
func (s *Softmax) LogProb(state mat.Vector, action int) (float64, error) {
	return s.params.LogProb(state, action)
}

// SelectAction samples an action in a state using a uniform draw u
// from rng. The first action whose cumulative probability exceeds u is
// returned. If rounding leaves u above the total mass, the last action
// is returned. The distribution that the action was sampled from is
// also returned.
func (s *Softmax) SelectAction(state mat.Vector, rng *rand.Rand) (int,
	[]float64, error) {
	if rng == nil {
		return 0, nil, fmt.Errorf("selectAction: nil random source")
	}

	probs, err := s.params.Probabilities(state)
	if err != nil {
		return 0, nil, fmt.Errorf("selectAction: %v", err)
	}

	return Sample(probs, rng.Float64()), probs, nil
}

// Sample returns the first index whose cumulative probability exceeds
// u, or the last index if no such index exists
func Sample(probs []float64, u float64) int {
	var cumulative float64
	for i, p := range probs {
		cumulative += p
		if u < cumulative {
			return i
		}
	}
	return len(probs) - 1
}

// AscendLogProb moves the parameters along the gradient of log π(a|s)
// scaled by scale:
//
//	W[i][j] += scale (1[i=a] - p_i) s[j]
//	b[i] += scale (1[i=a] - p_i)
func (s *Softmax) AscendLogProb(state mat.Vector, action int,
	scale float64) error {
	if err := matutils.CheckLen("ascendLogProb", state,
		s.Features()); err != nil {
		return err
	}
	if err := checkAction("ascendLogProb", action, s.Actions()); err != nil {
		return err
	}

	probs, err := s.params.Probabilities(state)
	if err != nil {
		return fmt.Errorf("ascendLogProb: %v", err)
	}

	coef := mat.NewVecDense(len(probs), probs)
	coef.ScaleVec(-scale, coef)
	coef.SetVec(action, coef.AtVec(action)+scale)

	s.params.Weights.RankOne(s.params.Weights, 1.0, coef, state)
	s.params.Bias.AddVec(s.params.Bias, coef)
	return nil
}
