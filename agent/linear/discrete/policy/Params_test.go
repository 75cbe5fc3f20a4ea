package policy

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randomParams(actions, features int, seed uint64) Params {
	rng := rand.New(rand.NewSource(seed))
	p := NewParams(actions, features)
	for i := 0; i < actions; i++ {
		for j := 0; j < features; j++ {
			p.Weights.Set(i, j, rng.NormFloat64())
		}
		p.Bias.SetVec(i, rng.NormFloat64())
	}
	return p
}

func TestFlattenLayout(t *testing.T) {
	p := Params{
		Weights: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		Bias:    mat.NewVecDense(2, []float64{7, 8}),
	}

	want := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if got := p.Flatten(); !floats.Equal(got, want) {
		t.Errorf("want %v, have %v", want, got)
	}
}

func TestParamsString(t *testing.T) {
	p := Params{
		Weights: mat.NewDense(1, 2, []float64{1.5, -2}),
		Bias:    mat.NewVecDense(1, []float64{3}),
	}

	str := p.String()
	for _, want := range []string{"weights:", "bias:", "1.5", "-2", "3"} {
		if !strings.Contains(str, want) {
			t.Errorf("expected %q in %q", want, str)
		}
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	dims := [][2]int{{1, 1}, {2, 4}, {5, 3}}
	for _, d := range dims {
		p := randomParams(d[0], d[1], 7)
		flat := p.Flatten()
		if len(flat) != p.Len() {
			t.Fatalf("%v: flat length %v, want %v", d, len(flat), p.Len())
		}

		q, err := Unflatten(flat, d[0], d[1])
		if err != nil {
			t.Fatal(err)
		}
		if !mat.Equal(p.Weights, q.Weights) || !mat.Equal(p.Bias, q.Bias) {
			t.Errorf("%v: unflatten did not invert flatten", d)
		}

		// Unflatten must copy its input
		flat[0] += 1
		if q.Weights.At(0, 0) == flat[0] {
			t.Errorf("%v: unflatten should copy the parameter vector", d)
		}
	}
}

func TestUnflattenErrors(t *testing.T) {
	if _, err := Unflatten(make([]float64, 7), 2, 3); err == nil {
		t.Errorf("expected error for short parameter vector")
	}
	if _, err := Unflatten(make([]float64, 9), 2, 3); err == nil {
		t.Errorf("expected error for long parameter vector")
	}
	if _, err := Unflatten(nil, 0, 3); err == nil {
		t.Errorf("expected error for zero actions")
	}
}

func TestProbabilities(t *testing.T) {
	p := randomParams(3, 4, 11)
	state := mat.NewVecDense(4, []float64{0.1, -2, 3, 0.5})

	probs, err := p.Probabilities(state)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(floats.Sum(probs)-1) > 1e-12 {
		t.Errorf("probabilities sum to %v", floats.Sum(probs))
	}

	logits, _ := p.Logits(state)
	for i := range probs {
		for j := range probs {
			// Probability ratios follow logit differences
			want := math.Exp(logits[i] - logits[j])
			if math.Abs(probs[i]/probs[j]-want) > 1e-9*want {
				t.Errorf("ratio %d/%d: want %v, have %v", i, j, want,
					probs[i]/probs[j])
			}
		}
	}

	if _, err := p.Probabilities(mat.NewVecDense(3, nil)); err == nil {
		t.Errorf("expected error for short state")
	}
	if _, err := p.Probabilities(mat.NewVecDense(5, nil)); err == nil {
		t.Errorf("expected error for long state")
	}
}

func TestLogProbGradientFiniteDifference(t *testing.T) {
	const h = 1e-6
	p := randomParams(3, 2, 3)
	state := mat.NewVecDense(2, []float64{0.7, -1.3})
	action := 1

	grad, err := p.LogProbGradient(state, action)
	if err != nil {
		t.Fatal(err)
	}

	theta := p.Flatten()
	for k := range theta {
		plus := append([]float64(nil), theta...)
		minus := append([]float64(nil), theta...)
		plus[k] += h
		minus[k] -= h

		pp, _ := Unflatten(plus, 3, 2)
		pm, _ := Unflatten(minus, 3, 2)
		probsPlus, _ := pp.Probabilities(state)
		probsMinus, _ := pm.Probabilities(state)

		want := (math.Log(probsPlus[action]) -
			math.Log(probsMinus[action])) / (2 * h)
		if math.Abs(grad[k]-want) > 1e-6 {
			t.Errorf("parameter %d: want gradient %v, have %v", k, want,
				grad[k])
		}
	}

	if _, err := p.LogProbGradient(state, 3); err == nil {
		t.Errorf("expected error for out of range action")
	}
}
