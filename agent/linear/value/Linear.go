// Package value implements state value functions using linear function
// approximation
package value

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"github.com/samuelfneumann/linearpg/utils/matutils"
	"github.com/samuelfneumann/linearpg/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "critic weights"
	BiasKey    string = "critic bias"
)

// Linear implements a linear state value function
//
//	v(s) = wᵀs + b
//
// trained by stochastic gradient descent on the squared error to a
// target.
type Linear struct {
	weights      *mat.VecDense
	bias         float64
	learningRate float64
}

// NewLinear returns a new linear value function over states with the
// given number of features. The weights are initialized with init and
// the bias is initialized to zero.
func NewLinear(features int, learningRate float64,
	init weights.Initializer) (*Linear, error) {
	if features < 1 {
		return nil, fmt.Errorf("newLinear: need at least one feature, "+
			"have %v", features)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("newLinear: learning rate must be positive, "+
			"have %v", learningRate)
	}

	w := mat.NewVecDense(features, nil)
	if init != nil {
		weights.InitializeVec(init, w)
	}

	return &Linear{weights: w, learningRate: learningRate}, nil
}

// Features returns the number of state features the value function
// expects
func (l *Linear) Features() int {
	return l.weights.Len()
}

// Value returns the value estimate of a state
func (l *Linear) Value(state mat.Vector) (float64, error) {
	if err := matutils.CheckLen("value", state, l.Features()); err != nil {
		return 0, err
	}
	return mat.Dot(l.weights, state) + l.bias, nil
}

// Update takes a single gradient step toward target in state and
// returns the error target - v(state) before the step.
func (l *Linear) Update(state mat.Vector, target float64) (float64, error) {
	v, err := l.Value(state)
	if err != nil {
		return 0, fmt.Errorf("update: %v", err)
	}

	delta := target - v
	l.weights.AddScaledVec(l.weights, l.learningRate*delta, state)
	l.bias += l.learningRate * delta

	return delta, nil
}

// TDTarget returns the one-step TD target of a transition. The next
// state is not bootstrapped from if the transition is terminal, in
// which case next may be nil.
func (l *Linear) TDTarget(reward float64, next mat.Vector, terminal bool,
	gamma float64) (float64, error) {
	if terminal {
		return reward, nil
	}

	v, err := l.Value(next)
	if err != nil {
		return 0, fmt.Errorf("tdTarget: %v", err)
	}
	return reward + gamma*v, nil
}

// FitReturns takes one gradient step toward the Return of each
// transition in a trajectory, in order
func (l *Linear) FitReturns(t *trajectory.Trajectory) error {
	for i := 0; i < t.Len(); i++ {
		tr := t.At(i)
		if _, err := l.Update(tr.State, tr.Return); err != nil {
			return fmt.Errorf("fitReturns: transition %d: %v", i, err)
		}
	}
	return nil
}

// Weights returns copies of the value function weights. The bias is
// returned as a 1 × 1 matrix.
func (l *Linear) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = mat.DenseCopyOf(l.weights)
	weights[BiasKey] = mat.NewDense(1, 1, []float64{l.bias})

	return weights
}
