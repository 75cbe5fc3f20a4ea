// Package trajectory implements a buffer storing the transitions of a
// single episode for on-policy learning
package trajectory

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/utils/matutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Transition is a single step of an episode. The State, Action,
// Reward, Value, OldLogProb, and OldProbs fields are recorded when the
// action is selected. Return and Advantage are filled in once the
// episode has ended.
type Transition struct {
	State      *mat.VecDense
	Action     int
	Reward     float64
	Value      float64 // Critic estimate of State when it was visited
	OldLogProb float64 // log π(Action|State), +1e-8 inside the log
	OldProbs   []float64

	Return    float64
	Advantage float64
}

// Trajectory stores the ordered transitions of one episode
type Trajectory struct {
	features    int
	transitions []Transition
}

// New returns a new, empty Trajectory whose states have the given
// number of features
func New(features int) *Trajectory {
	return &Trajectory{features: features}
}

// Append adds a transition to the end of the trajectory. The state and
// action probabilities are copied, so the caller may reuse them.
func (t *Trajectory) Append(state mat.Vector, action int, reward, value,
	oldLogProb float64, oldProbs []float64) error {
	if err := matutils.CheckLen("append", state, t.features); err != nil {
		return err
	}
	if action < 0 || action >= len(oldProbs) {
		return fmt.Errorf("append: action %v ∉ [0, %v)", action,
			len(oldProbs))
	}

	s := mat.NewVecDense(t.features, nil)
	s.CopyVec(state)

	t.transitions = append(t.transitions, Transition{
		State:      s,
		Action:     action,
		Reward:     reward,
		Value:      value,
		OldLogProb: oldLogProb,
		OldProbs:   append([]float64(nil), oldProbs...),
	})
	return nil
}

// Len returns the number of transitions in the trajectory
func (t *Trajectory) Len() int {
	return len(t.transitions)
}

// Features returns the number of features of stored states
func (t *Trajectory) Features() int {
	return t.features
}

// At returns the transition at index i. Modifying the returned
// transition modifies the trajectory.
func (t *Trajectory) At(i int) *Transition {
	return &t.transitions[i]
}

// Transitions returns the underlying transitions of the trajectory
func (t *Trajectory) Transitions() []Transition {
	return t.transitions
}

// Rewards returns the rewards of each transition in order
func (t *Trajectory) Rewards() []float64 {
	rewards := make([]float64, len(t.transitions))
	for i := range t.transitions {
		rewards[i] = t.transitions[i].Reward
	}
	return rewards
}

// TotalReward returns the undiscounted sum of rewards in the trajectory
func (t *Trajectory) TotalReward() float64 {
	return floats.Sum(t.Rewards())
}

// Clear removes all transitions so the trajectory can be reused for
// the next episode
func (t *Trajectory) Clear() {
	t.transitions = t.transitions[:0]
}
