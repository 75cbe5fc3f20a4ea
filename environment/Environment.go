// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end, given the most recent
// state observation and the number of steps taken so far in the
// episode
type Ender interface {
	End(obs *mat.VecDense, steps int) bool
}

// Environment implements a simulated environment with discrete actions.
//
// Any type providing Reset, Step, and IsDone can be trained against.
// Calling Step after the episode has ended must be a no-op which
// returns the terminal state with zero reward.
type Environment interface {
	Reset() *mat.VecDense // Resets between episodes
	Step(action int) (next *mat.VecDense, reward float64, done bool)
	IsDone() bool

	ObservationSpec() Spec
	ActionSpec() Spec
}

// Features returns the number of state features of an environment
func Features(e Environment) int {
	return e.ObservationSpec().Shape.Len()
}

// Actions returns the number of discrete actions of an environment.
// Legal actions are in [0, Actions(e)).
func Actions(e Environment) int {
	return int(e.ActionSpec().UpperBound.AtVec(0)) + 1
}
