// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are YAML serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/linearpg/environment/constant"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Cartpole EnvName = "Cartpole"
	Constant EnvName = "Constant"
)

// StartBound is the bound on each feature of Cartpole start states
const StartBound float64 = 0.04

// Config implements a specific configuration of a specific environment
type Config struct {
	Environment   EnvName `yaml:"environment"`
	EpisodeCutoff int     `yaml:"cutoff"`

	// Reward is the per-step reward of the Constant environment
	Reward float64 `yaml:"reward"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, episodeCutoff int) Config {
	return Config{
		Environment:   envName,
		EpisodeCutoff: episodeCutoff,
		Reward:        1.0,
	}
}

// Validate checks the Config for errors
func (c Config) Validate() error {
	switch c.Environment {
	case Cartpole, Constant:
	default:
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}

	if c.EpisodeCutoff < 0 {
		return fmt.Errorf("validate: episode cutoff must be non-negative, "+
			"have %v", c.EpisodeCutoff)
	}
	if c.Environment == Constant && c.EpisodeCutoff == 0 {
		return fmt.Errorf("validate: %v environment needs a positive "+
			"episode cutoff", Constant)
	}
	return nil
}

// Create returns the environment described by the Config
func (c Config) Create(seed uint64) (env.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	switch c.Environment {
	case Cartpole:
		return CreateCartpole(c.EpisodeCutoff, seed), nil

	case Constant:
		e, err := constant.New(c.EpisodeCutoff, c.Reward)
		if err != nil {
			return nil, fmt.Errorf("create: %v", err)
		}
		return e, nil
	}

	return nil, fmt.Errorf("create: cannot create environment %v, no such "+
		"environment", c.Environment)
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and the Balance task.
func CreateCartpole(cutoff int, seed uint64) *cartpole.Cartpole {
	bounds := r1.Interval{Min: -StartBound, Max: StartBound}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	task := cartpole.NewBalance(s, cutoff, cartpole.FailAngle,
		cartpole.PositionLimit)
	return cartpole.New(task)
}
