package experiment

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/linearpg/agent"
	env "github.com/samuelfneumann/linearpg/environment"
	"github.com/samuelfneumann/linearpg/experiment/trackers"
	ts "github.com/samuelfneumann/linearpg/timestep"
	"golang.org/x/exp/rand"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent

	episodes       int
	currentEpisode int
	rng            *rand.Rand
	logger         *log.Logger
	trackers       []trackers.Tracker
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines
// how many episodes the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is saved.
// Actions are sampled from a source seeded with seed. If logger is
// nil, episode summaries are not logged.
func NewOnline(e env.Environment, a agent.Agent, episodes int, seed uint64,
	logger *log.Logger, t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		episodes:    episodes,
		rng:         rand.New(rand.NewSource(seed)),
		logger:      logger,
		trackers:    t,
	}
}

// Register registers a trackers.Tracker with an Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Episodes returns the number of episodes run so far
func (o *Online) Episodes() int {
	return o.currentEpisode
}

// RunEpisode runs a single episode of the experiment and ends the
// episode for the agent, which is when episodic learners update
func (o *Online) RunEpisode() (Summary, error) {
	obs := o.Environment.Reset()
	step := ts.New(ts.First, 0, obs, 0)
	if err := o.Agent.ObserveFirst(step); err != nil {
		return Summary{}, fmt.Errorf("runEpisode: %v", err)
	}
	o.track(step)

	var episodeReturn float64
	for !o.Environment.IsDone() {
		// Select action, step in environment
		action, err := o.Agent.SelectAction(step, o.rng)
		if err != nil {
			return Summary{}, fmt.Errorf("runEpisode: %v", err)
		}

		next, reward, done := o.Environment.Step(action)
		stepType := ts.Mid
		if done {
			stepType = ts.Last
		}
		step = ts.New(stepType, reward, next, step.Number+1)
		episodeReturn += reward

		// Cache the environment step in each Tracker
		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return Summary{}, fmt.Errorf("runEpisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return Summary{}, fmt.Errorf("runEpisode: %v", err)
		}
	}

	if err := o.Agent.EndEpisode(); err != nil {
		return Summary{}, fmt.Errorf("runEpisode: %v", err)
	}
	o.currentEpisode++

	summary := Summary{
		Episode: o.currentEpisode,
		Steps:   step.Number,
		Return:  episodeReturn,
	}
	if r, ok := o.Agent.(agent.Reporter); ok {
		summary.Report = r.Report()
	}
	if o.logger != nil {
		o.logger.Println(summary)
	}

	return summary, nil
}

// Run runs the remaining episodes of the experiment
func (o *Online) Run() error {
	for o.currentEpisode < o.episodes {
		if _, err := o.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %d: %v", o.currentEpisode+1,
				err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
