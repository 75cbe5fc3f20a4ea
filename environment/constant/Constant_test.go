package constant

import (
	"testing"

	env "github.com/samuelfneumann/linearpg/environment"
)

func TestConstantEpisode(t *testing.T) {
	c, err := New(3, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if env.Features(c) != Features || env.Actions(c) != 2 {
		t.Fatalf("want %v features and 2 actions, have %v and %v", Features,
			env.Features(c), env.Actions(c))
	}

	var total float64
	steps := 0
	for !c.IsDone() {
		_, r, _ := c.Step(steps % 2)
		total += r
		steps++
	}
	if steps != 3 {
		t.Errorf("want 3 steps, have %v", steps)
	}
	if total != c.Return() {
		t.Errorf("want return %v, have %v", c.Return(), total)
	}

	state, r, done := c.Step(0)
	if !done || r != 0 || state.AtVec(1) != 1 {
		t.Errorf("step after done should be a no-op, have state %v "+
			"reward %v done %v", state.RawVector().Data, r, done)
	}

	start := c.Reset()
	if c.IsDone() || start.AtVec(0) != 1 || start.AtVec(1) != 0 {
		t.Errorf("reset should return the start state, have %v",
			start.RawVector().Data)
	}
}

func TestConstantInvalid(t *testing.T) {
	if _, err := New(0, 1); err == nil {
		t.Errorf("expected error for episodes with no steps")
	}
}
