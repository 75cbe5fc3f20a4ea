package trpo

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/agent/linear/discrete/rollout"
	"github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/solver"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.TRPOLinear, Config{})
}

// Default hyperparameters
const (
	DefaultDiscount           float64 = 0.99
	DefaultCriticLearningRate float64 = 0.01
	DefaultMaxKL              float64 = 0.01
	DefaultDamping            float64 = 1e-3
	DefaultFiniteDifference   float64 = 1e-5
)

// Config represents a configuration for the TRPO agent. Zero fields
// are replaced by their defaults.
type Config struct {
	Discount           float64 `yaml:"discount"`
	CriticLearningRate float64 `yaml:"critic_lr"`

	// MaxKL is the trust region bound δ on the average KL divergence
	MaxKL float64 `yaml:"max_kl"`

	// Damping is added along the diagonal of the Fisher matrix
	Damping float64 `yaml:"damping"`

	// FiniteDifference is the step r used to approximate
	// Fisher-vector products
	FiniteDifference float64 `yaml:"finite_difference"`

	CG         solver.ConjugateGradient `yaml:"cg"`
	LineSearch solver.Backtracking      `yaml:"line_search"`

	NormalizeAdvantages bool    `yaml:"normalize_advantages"`
	InitScale           float64 `yaml:"init_scale"`
}

func (c Config) withDefaults() Config {
	if c.Discount == 0 {
		c.Discount = DefaultDiscount
	}
	if c.CriticLearningRate == 0 {
		c.CriticLearningRate = DefaultCriticLearningRate
	}
	if c.MaxKL == 0 {
		c.MaxKL = DefaultMaxKL
	}
	if c.Damping == 0 {
		c.Damping = DefaultDamping
	}
	if c.FiniteDifference == 0 {
		c.FiniteDifference = DefaultFiniteDifference
	}

	if c.CG.Iterations == 0 {
		c.CG.Iterations = solver.DefaultCGIterations
	}
	if c.CG.Tolerance == 0 {
		c.CG.Tolerance = solver.DefaultCGTolerance
	}
	if c.CG.Epsilon == 0 {
		c.CG.Epsilon = solver.DefaultCGEpsilon
	}
	if c.LineSearch.MaxSteps == 0 {
		c.LineSearch.MaxSteps = solver.DefaultLineSearchSteps
	}
	if c.LineSearch.Decay == 0 {
		c.LineSearch.Decay = solver.DefaultLineSearchDecay
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
	_, ok := a.(*TRPO)
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
	if c.CriticLearningRate < 0 {
		return fmt.Errorf("validate: critic learning rate must be "+
			"positive, have %v", c.CriticLearningRate)
	}
	if c.MaxKL < 0 {
		return fmt.Errorf("validate: KL bound must be positive, have %v",
			c.MaxKL)
	}
	if c.Damping < 0 {
		return fmt.Errorf("validate: damping cannot be negative, have %v",
			c.Damping)
	}
	if c.FiniteDifference < 0 {
		return fmt.Errorf("validate: finite difference step must be "+
			"positive, have %v", c.FiniteDifference)
	}
	if c.InitScale < 0 {
		return fmt.Errorf("validate: init scale cannot be negative")
	}
	if err := c.CG.Validate(); err != nil {
		return err
	}
	return c.LineSearch.Validate()
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.TRPOLinear
}
