// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/environment/envconfig"
	"github.com/samuelfneumann/linearpg/experiment/trackers"
	ts "github.com/samuelfneumann/linearpg/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes of the experiment. The RunEpisode() function will
// run a single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments
// will send each TimeStep to Trackers using the Tracker's Track()
// method. New Trackers can be registered with an Experiment through
// the constructor or through an Experiment's Register() function.
type Experiment interface {
	Run() error
	RunEpisode() (Summary, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)
}

// Summary summarizes a single completed episode
type Summary struct {
	Episode int
	Steps   int
	Return  float64

	// Report describes the agent's update at the end of the episode,
	// if the agent is an agent.Reporter
	Report string
}

func (s Summary) String() string {
	msg := fmt.Sprintf("episode=%d steps=%d return=%.3f", s.Episode, s.Steps,
		s.Return)
	if s.Report != "" {
		msg += " " + s.Report
	}
	return msg
}

// Config represents a configuration of an experiment.
type Config struct {
	Episodes  int               `yaml:"episodes"`
	Seed      uint64            `yaml:"seed"`
	EnvConf   envconfig.Config  `yaml:"env"`
	AgentConf agent.TypedConfig `yaml:"agent"`
}

// Validate checks the Config for errors
func (c Config) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("validate: need at least one episode, have %v",
			c.Episodes)
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: no agent configured")
	}
	if err := c.EnvConf.Validate(); err != nil {
		return err
	}
	return c.AgentConf.Validate()
}

// CreateExp creates the experiment described by the Config. The
// environment, agent, and action sampling are all seeded from the
// Config's seed. Episode summaries are written to logger.
func (c Config) CreateExp(logger *log.Logger,
	t ...trackers.Tracker) (Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createExp: %v", err)
	}

	env, err := c.EnvConf.Create(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create "+
			"environment: %v", err)
	}

	a, err := c.AgentConf.CreateAgent(env, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %v", err)
	}

	return NewOnline(env, a, c.Episodes, c.Seed, logger, t...), nil
}
