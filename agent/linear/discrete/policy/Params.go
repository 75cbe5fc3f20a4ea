// Package policy implements softmax policies over discrete actions
// using linear function approximation
package policy

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/utils/floatutils"
	"github.com/samuelfneumann/linearpg/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// LogEpsilon is added to probabilities before taking their logarithm
const LogEpsilon float64 = 1e-8

// Params are the parameters of a linear softmax policy: one row of
// weights and one bias per action. The logits of state s are
//
//	W s + b
type Params struct {
	Weights *mat.Dense    // actions × features
	Bias    *mat.VecDense // actions
}

// NewParams returns a new set of zero parameters
func NewParams(actions, features int) Params {
	return Params{
		Weights: mat.NewDense(actions, features, nil),
		Bias:    mat.NewVecDense(actions, nil),
	}
}

// Dims returns the number of actions and state features that the
// parameters are defined over
func (p Params) Dims() (actions, features int) {
	return p.Weights.Dims()
}

// Len returns the total number of parameters
func (p Params) Len() int {
	actions, features := p.Dims()
	return actions*features + actions
}

// Flatten returns the parameters as a single vector. The weights are
// laid out in row major order and are followed by the biases.
func (p Params) Flatten() []float64 {
	actions, features := p.Dims()
	flat := make([]float64, 0, p.Len())

	for i := 0; i < actions; i++ {
		flat = append(flat, p.Weights.RawRowView(i)[:features]...)
	}
	for i := 0; i < actions; i++ {
		flat = append(flat, p.Bias.AtVec(i))
	}
	return flat
}

// Unflatten constructs new parameters from a flat vector laid out as
// returned by Flatten. The vector is copied.
func Unflatten(theta []float64, actions, features int) (Params, error) {
	if actions < 1 || features < 1 {
		return Params{}, fmt.Errorf("unflatten: need positive dimensions, "+
			"have %v actions and %v features", actions, features)
	}
	if want := actions*features + actions; len(theta) != want {
		return Params{}, fmt.Errorf("unflatten: illegal parameter length "+
			"\n\twant(%v)\n\thave(%v)", want, len(theta))
	}

	weights := make([]float64, actions*features)
	copy(weights, theta[:actions*features])
	bias := make([]float64, actions)
	copy(bias, theta[actions*features:])

	return Params{
		Weights: mat.NewDense(actions, features, weights),
		Bias:    mat.NewVecDense(actions, bias),
	}, nil
}

// Clone returns a deep copy of the parameters
func (p Params) Clone() Params {
	return Params{
		Weights: mat.DenseCopyOf(p.Weights),
		Bias:    mat.VecDenseCopyOf(p.Bias),
	}
}

// String returns the weights and biases formatted as matrices
func (p Params) String() string {
	return fmt.Sprintf("weights:\n%v\nbias:\n%v", matutils.Format(p.Weights),
		matutils.Format(p.Bias))
}

// Logits returns the action logits W s + b in state s
func (p Params) Logits(state mat.Vector) ([]float64, error) {
	actions, features := p.Dims()
	if err := matutils.CheckLen("logits", state, features); err != nil {
		return nil, err
	}

	logits := mat.NewVecDense(actions, nil)
	logits.MulVec(p.Weights, state)
	logits.AddVec(logits, p.Bias)

	return logits.RawVector().Data, nil
}

// Probabilities returns the softmax distribution over actions in
// state s
func (p Params) Probabilities(state mat.Vector) ([]float64, error) {
	logits, err := p.Logits(state)
	if err != nil {
		return nil, fmt.Errorf("probabilities: %v", err)
	}
	return floatutils.Softmax(logits), nil
}

// LogProb returns log(π(a|s) + LogEpsilon)
func (p Params) LogProb(state mat.Vector, action int) (float64, error) {
	probs, err := p.Probabilities(state)
	if err != nil {
		return 0, fmt.Errorf("logProb: %v", err)
	}
	if err := checkAction("logProb", action, len(probs)); err != nil {
		return 0, err
	}
	return Log(probs[action]), nil
}

// LogProbGradient returns the gradient of log π(a|s) with respect to
// the flattened parameters. With p = π(·|s), the gradient with respect
// to the weights of action i is (1[i=a] - p_i) s and with respect to
// the bias of action i is (1[i=a] - p_i).
func (p Params) LogProbGradient(state mat.Vector, action int) ([]float64,
	error) {
	probs, err := p.Probabilities(state)
	if err != nil {
		return nil, fmt.Errorf("logProbGradient: %v", err)
	}
	if err := checkAction("logProbGradient", action, len(probs)); err != nil {
		return nil, err
	}

	actions, features := p.Dims()
	grad := make([]float64, p.Len())
	for i := 0; i < actions; i++ {
		coef := -probs[i]
		if i == action {
			coef += 1
		}

		row := grad[i*features : (i+1)*features]
		for j := range row {
			row[j] = coef * state.AtVec(j)
		}
		grad[actions*features+i] = coef
	}
	return grad, nil
}

func checkAction(op string, action, actions int) error {
	if action < 0 || action >= actions {
		return fmt.Errorf("%v: illegal action %v ∉ [0, %v)", op, action,
			actions)
	}
	return nil
}
