package policy

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// symbolicGradient computes the gradient of log π(a|s) with gorgonia
func symbolicGradient(t *testing.T, p Params, state []float64,
	action int) []float64 {
	actions, features := p.Dims()
	g := G.NewGraph()

	wT := tensor.New(
		tensor.WithShape(actions, features),
		tensor.WithBacking(append([]float64(nil), p.Flatten()[:actions*features]...)),
	)
	bT := tensor.New(
		tensor.WithShape(actions),
		tensor.WithBacking(append([]float64(nil), p.Bias.RawVector().Data...)),
	)
	sT := tensor.New(
		tensor.WithShape(features),
		tensor.WithBacking(append([]float64(nil), state...)),
	)
	oneHot := make([]float64, actions)
	oneHot[action] = 1
	aT := tensor.New(tensor.WithShape(actions), tensor.WithBacking(oneHot))

	W := G.NewMatrix(g, tensor.Float64, G.WithShape(actions, features),
		G.WithName("W"), G.WithValue(wT))
	b := G.NewVector(g, tensor.Float64, G.WithShape(actions),
		G.WithName("b"), G.WithValue(bT))
	s := G.NewVector(g, tensor.Float64, G.WithShape(features),
		G.WithName("s"), G.WithValue(sT))
	a := G.NewVector(g, tensor.Float64, G.WithShape(actions),
		G.WithName("a"), G.WithValue(aT))

	// log π(a|s) = logit_a - log Σ exp(logits)
	logits := G.Must(G.Add(G.Must(G.Mul(W, s)), b))
	selected := G.Must(G.Sum(G.Must(G.HadamardProd(a, logits))))
	logNorm := G.Must(G.Log(G.Must(G.Sum(G.Must(G.Exp(logits))))))
	logProb := G.Must(G.Sub(selected, logNorm))

	if _, err := G.Grad(logProb, W, b); err != nil {
		t.Fatal(err)
	}

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	wGrad, err := W.Grad()
	if err != nil {
		t.Fatal(err)
	}
	bGrad, err := b.Grad()
	if err != nil {
		t.Fatal(err)
	}

	grad := append([]float64(nil), wGrad.Data().([]float64)...)
	return append(grad, bGrad.Data().([]float64)...)
}

func TestLogProbGradientSymbolic(t *testing.T) {
	tests := []struct {
		actions, features int
		state             []float64
		action            int
	}{
		{2, 4, []float64{0.01, -0.03, 0.02, 0.04}, 0},
		{3, 2, []float64{1.5, -0.5}, 2},
		{4, 3, []float64{-1, 2, 0.25}, 1},
	}

	for i, test := range tests {
		p := randomParams(test.actions, test.features, uint64(i+1))
		state := mat.NewVecDense(test.features, test.state)

		grad, err := p.LogProbGradient(state, test.action)
		if err != nil {
			t.Fatal(err)
		}
		want := symbolicGradient(t, p, test.state, test.action)

		if len(grad) != len(want) {
			t.Fatalf("test %d: want %v gradients, have %v", i, len(want),
				len(grad))
		}
		for k := range want {
			if math.Abs(grad[k]-want[k]) > 1e-9 {
				t.Errorf("test %d, parameter %d: gorgonia gradient %v, "+
					"have %v", i, k, want[k], grad[k])
			}
		}
	}
}
