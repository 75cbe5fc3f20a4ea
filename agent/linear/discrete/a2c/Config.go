package a2c

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/rollout"
	"github.com/samuelfneumann/linearpg/environment"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.A2CLinear, Config{})
}

// Config represents a configuration for the A2C agent. Zero fields
// are replaced by their defaults.
type Config struct {
	Discount           float64 `yaml:"discount"`
	ActorLearningRate  float64 `yaml:"actor_lr"`
	CriticLearningRate float64 `yaml:"critic_lr"`

	// InitScale is the width of the interval initial weights are drawn
	// uniformly from
	InitScale float64 `yaml:"init_scale"`
}

// Default hyperparameters
const (
	DefaultDiscount           float64 = 0.99
	DefaultActorLearningRate  float64 = 0.01
	DefaultCriticLearningRate float64 = 0.01
)

func (c Config) withDefaults() Config {
	if c.Discount == 0 {
		c.Discount = DefaultDiscount
	}
	if c.ActorLearningRate == 0 {
		c.ActorLearningRate = DefaultActorLearningRate
	}
	if c.CriticLearningRate == 0 {
		c.CriticLearningRate = DefaultCriticLearningRate
	}
	if c.InitScale == 0 {
		c.InitScale = rollout.DefaultInitScale
	}
	return c
}

// CreateAgent creates the agent from the Config. Weights are drawn
// uniformly from [-InitScale/2, InitScale/2] and biases start at zero.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	a, err := New(env, c, seed)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*A2C)
	return ok
}

// Validate ensures that the Config is valid. Defaults are applied
// before validating.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}
	if c.ActorLearningRate < 0 {
		return fmt.Errorf("validate: actor learning rate must be "+
			"positive, have %v", c.ActorLearningRate)
	}
	if c.CriticLearningRate < 0 {
		return fmt.Errorf("validate: critic learning rate must be "+
			"positive, have %v", c.CriticLearningRate)
	}
	if c.InitScale < 0 {
		return fmt.Errorf("validate: init scale cannot be negative")
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.A2CLinear
}
