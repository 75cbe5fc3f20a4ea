package cartpole

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/linearpg/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// fixedStarter always starts episodes in the same state
type fixedStarter []float64

func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(len(f), append([]float64(nil), f...))
}

func TestCartpoleSpecs(t *testing.T) {
	c := New(NewBalance(fixedStarter{0, 0, 0, 0}, 0, FailAngle, PositionLimit))

	if got := env.Features(c); got != Features {
		t.Errorf("want %v features, have %v", Features, got)
	}
	if got := env.Actions(c); got != 2 {
		t.Errorf("want 2 actions, have %v", got)
	}
}

func TestCartpoleDynamics(t *testing.T) {
	c := New(NewBalance(fixedStarter{0, 0, 0, 0}, 0, FailAngle, PositionLimit))

	next, reward, done := c.Step(1)
	if done {
		t.Fatalf("episode should not end after a single push")
	}
	if reward != 1 {
		t.Errorf("want reward 1, have %v", reward)
	}

	// From rest, the first Euler step changes only the velocities
	temp := ForceMag / TotalMass
	thAcc := -temp / (HalfPoleLength * (4.0/3.0 - PoleMass/TotalMass))
	xAcc := temp - PoleMass*HalfPoleLength*thAcc/TotalMass
	want := []float64{0, Dt * xAcc, 0, Dt * thAcc}
	for i, w := range want {
		if math.Abs(next.AtVec(i)-w) > 1e-12 {
			t.Errorf("feature %d: want %v, have %v", i, w, next.AtVec(i))
		}
	}
}

func TestCartpoleTerminates(t *testing.T) {
	c := New(NewBalance(fixedStarter{0, 0, 0, 0}, 0, FailAngle, PositionLimit))

	var (
		steps  int
		reward float64
		done   bool
		last   *mat.VecDense
	)
	for !c.IsDone() {
		last, reward, done = c.Step(0)
		steps++
		if steps > 1000 {
			t.Fatalf("pushing left forever should topple the pole")
		}
	}
	if !done || reward != 0 {
		t.Errorf("failing step should have reward 0 and end the episode, "+
			"have reward %v and done %v", reward, done)
	}

	// Stepping after the episode ended is a no-op
	again, reward, done := c.Step(1)
	if !done || reward != 0 || !mat.Equal(again, last) {
		t.Errorf("step after done should return terminal state with zero " +
			"reward")
	}

	start := c.Reset()
	if c.IsDone() || start.Len() != Features {
		t.Errorf("reset should start a fresh episode")
	}
}

func TestCartpoleCutoff(t *testing.T) {
	bounds := r1.Interval{Min: -0.04, Max: 0.04}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds, bounds}, 1)
	c := New(NewBalance(s, 5, math.Pi, math.Inf(1)))

	steps := 0
	for !c.IsDone() {
		action := steps % 2
		_, reward, _ := c.Step(action)
		if reward != 1 {
			t.Errorf("step %d: want reward 1 before the cutoff, have %v",
				steps, reward)
		}
		steps++
	}
	if steps != 5 {
		t.Errorf("want episode of 5 steps, have %v", steps)
	}
}
