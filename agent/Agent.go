// Package agent defines the interfaces implemented by learning agents
// and the registry of agent configurations
package agent

import (
	"github.com/samuelfneumann/linearpg/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
//
// Online learners update in Step, while learners which need complete
// episodes buffer in Observe and update in EndEpisode.
type Learner interface {
	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// Observe records that an action lead to some timestep
	Observe(action int, nextObs timestep.TimeStep) error

	// Step performs a single update to the learner
	Step() error

	// EndEpisode performs any updates and cleanup needed at the end of
	// an episode
	EndEpisode() error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Randomness is drawn
// from the argument source so that runs are reproducible.
type Policy interface {
	SelectAction(t timestep.TimeStep, rng *rand.Rand) (int, error)
}

// Weighted is an agent that can report its learned weights. The
// returned matrices are copies.
type Weighted interface {
	Weights() map[string]*mat.Dense
}

// Reporter is an agent that can describe its most recent update in a
// short key=value form for logging
type Reporter interface {
	Report() string
}
