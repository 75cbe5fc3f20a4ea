package rollout

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/agent/linear/discrete/policy"
	"github.com/samuelfneumann/linearpg/agent/linear/value"
	"github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/utils/matutils/initializers/weights"
)

// DefaultInitScale is the width of the interval that initial policy
// and critic weights are drawn uniformly from
const DefaultInitScale float64 = 0.1

// NewEnvCollector creates a softmax policy and a linear critic sized
// for env and returns a Collector over them. Policy weights are
// initialized first, then critic weights, both drawn uniformly from
// [-scale/2, scale/2] using a source seeded with seed. Biases start at
// zero.
func NewEnvCollector(env environment.Environment, criticLearningRate,
	scale float64, seed uint64) (*Collector, error) {
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newEnvCollector: actions must be discrete")
	}

	features := environment.Features(env)
	actions := environment.Actions(env)

	var init weights.Initializer = weights.NewZero()
	if scale > 0 {
		init = weights.NewUniform(scale, seed)
	}

	p, err := policy.NewSoftmax(features, actions, init)
	if err != nil {
		return nil, fmt.Errorf("newEnvCollector: %v", err)
	}
	critic, err := value.NewLinear(features, criticLearningRate, init)
	if err != nil {
		return nil, fmt.Errorf("newEnvCollector: %v", err)
	}

	return NewCollector(p, critic)
}
