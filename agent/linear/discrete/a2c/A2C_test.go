package a2c

import (
	"math"
	"testing"

	"github.com/samuelfneumann/linearpg/agent"
	"github.com/samuelfneumann/linearpg/environment/constant"
	"github.com/samuelfneumann/linearpg/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func newAgent(t *testing.T, steps int) (*A2C, *constant.Constant) {
	env, err := constant.New(steps, 1)
	if err != nil {
		t.Fatal(err)
	}
	config := Config{
		Discount:           0.9,
		ActorLearningRate:  0.5,
		CriticLearningRate: 0.25,
	}
	a, err := config.CreateAgent(env, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !config.ValidAgent(a) {
		t.Fatalf("config should create a valid agent")
	}
	return a.(*A2C), env
}

func TestStepUpdate(t *testing.T) {
	a, env := newAgent(t, 4)
	rng := rand.New(rand.NewSource(1))

	obs := env.Reset()
	first := timestep.New(timestep.First, 0, obs, 0)
	if err := a.ObserveFirst(first); err != nil {
		t.Fatal(err)
	}

	action, err := a.SelectAction(first, rng)
	if err != nil {
		t.Fatal(err)
	}
	next, reward, done := env.Step(action)
	nextStep := timestep.New(timestep.Mid, reward, next, 1)
	if done {
		t.Fatalf("episode should not end after one step")
	}

	// Expected update computed from the parameters before the step
	v, _ := a.Critic().Value(obs)
	vNext, _ := a.Critic().Value(next)
	advantage := reward + 0.9*vNext - v
	params := a.Policy().Params()
	grad, _ := params.LogProbGradient(obs, action)
	before := params.Flatten()

	if err := a.Observe(action, nextStep); err != nil {
		t.Fatal(err)
	}
	if err := a.Step(); err != nil {
		t.Fatal(err)
	}

	after := a.Policy().Params().Flatten()
	for k := range before {
		want := before[k] + 0.5*advantage*grad[k]
		if math.Abs(after[k]-want) > 1e-12 {
			t.Errorf("policy parameter %d: want %v, have %v", k, want,
				after[k])
		}
	}

	// The critic moved a quarter of the way toward the target, scaled
	// by the squared norm of [s, 1]
	vAfter, _ := a.Critic().Value(obs)
	norm := mat.Dot(obs, obs) + 1
	if want := v + 0.25*advantage*norm; math.Abs(vAfter-want) > 1e-12 {
		t.Errorf("want critic value %v after step, have %v", want, vAfter)
	}

	if err := a.Step(); err == nil {
		t.Errorf("expected error stepping without a new transition")
	}
}

func TestTerminalDoesNotBootstrap(t *testing.T) {
	a, env := newAgent(t, 1)
	rng := rand.New(rand.NewSource(2))

	obs := env.Reset()
	first := timestep.New(timestep.First, 0, obs, 0)
	if err := a.ObserveFirst(first); err != nil {
		t.Fatal(err)
	}
	action, err := a.SelectAction(first, rng)
	if err != nil {
		t.Fatal(err)
	}
	next, reward, done := env.Step(action)
	if !done {
		t.Fatalf("single step episode should be done")
	}

	v, _ := a.Critic().Value(obs)
	if err := a.Observe(action, timestep.New(timestep.Last, reward, next,
		1)); err != nil {
		t.Fatal(err)
	}
	if err := a.Step(); err != nil {
		t.Fatal(err)
	}

	// Target is the reward alone
	vAfter, _ := a.Critic().Value(obs)
	norm := mat.Dot(obs, obs) + 1
	if want := v + 0.25*(reward-v)*norm; math.Abs(vAfter-want) > 1e-12 {
		t.Errorf("want critic value %v after terminal step, have %v", want,
			vAfter)
	}
	if err := a.EndEpisode(); err != nil {
		t.Fatal(err)
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		config  Config
		wantErr bool
	}{
		{Config{}, false},
		{Config{Discount: 1.5}, true},
		{Config{ActorLearningRate: -1}, true},
		{Config{CriticLearningRate: -0.1}, true},
		{Config{InitScale: -1}, true},
	}
	for _, test := range tests {
		err := test.config.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%+v: want error %v, have %v", test.config, test.wantErr,
				err)
		}
	}

	c, err := agent.NewConfig(agent.A2CLinear)
	if err != nil {
		t.Fatal(err)
	}
	if c.Type() != agent.A2CLinear {
		t.Errorf("registry returned config of type %v", c.Type())
	}

	if _, ok := interface{}(&A2C{}).(agent.Weighted); !ok {
		t.Errorf("A2C should report its weights")
	}
}
